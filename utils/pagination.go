package utils

import (
	"net/http"
	"strconv"

	"github.com/upb/course-platform/backend/models"
)

// ParsePageRequest reads the page and size query parameters. Missing values
// take the defaults; out-of-range values are clamped. Non-integers are a
// validation error.
func ParsePageRequest(r *http.Request) (models.PageRequest, error) {
	q := r.URL.Query()

	page, err := queryInt(q.Get("page"), 1)
	if err != nil {
		return models.PageRequest{}, NewFieldError("page", "page must be an integer")
	}

	size, err := queryInt(q.Get("size"), models.DefaultPageSize)
	if err != nil {
		return models.PageRequest{}, NewFieldError("size", "size must be an integer")
	}

	return models.NewPageRequest(page, size), nil
}

func queryInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
