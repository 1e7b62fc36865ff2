package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/google/uuid"
)

// maxUploadMemory bounds how much of a multipart body is buffered in memory
// before spilling to disk.
const maxUploadMemory = 32 << 20

// saveUpload streams a multipart file field to the media store. It reports
// whether the field was present; a missing field is not an error so optional
// uploads can fall through.
func saveUpload(r *http.Request, media MediaStore, field, prefix string) (string, bool, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s upload: %w", field, err)
	}
	defer file.Close()

	name := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), path.Ext(header.Filename))
	url, err := media.Save(r.Context(), name, file)
	if err != nil {
		return "", true, fmt.Errorf("store %s upload: %w", field, err)
	}

	return url, true, nil
}
