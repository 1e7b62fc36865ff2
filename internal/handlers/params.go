package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/repositories"
)

// pathID reads and validates a uuid path parameter. The second return value
// reports whether the id was well formed.
func pathID(r *http.Request, name string) (string, bool) {
	raw := r.PathValue(name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", false
	}
	return raw, true
}

// listParams parses page/limit/sortBy/sortType query values. Non-numeric or
// out-of-range values are clamped to the defaults rather than rejected;
// sortType is ascending unless "desc" is requested.
func listParams(r *http.Request) repositories.ListParams {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	return repositories.ListParams{
		Page:     page,
		Limit:    limit,
		SortBy:   query.Get("sortBy"),
		SortDesc: query.Get("sortType") == "desc",
	}.Normalize()
}
