package repositories

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListParams carries pagination and sorting for paginated listings. SortBy is
// matched against a per-listing allow-list at query time; anything outside it
// falls back to creation time.
type ListParams struct {
	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
}

// Normalize clamps out-of-range pagination values to the defaults instead of
// rejecting them.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset returns the number of rows to skip for the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// sortColumn resolves the requested sort field against an allow-list,
// defaulting to created_at.
func sortColumn(requested string, allowed map[string]string) string {
	if column, ok := allowed[requested]; ok {
		return column
	}
	return "created_at"
}

func sortDirection(desc bool) string {
	if desc {
		return "DESC"
	}
	return "ASC"
}
