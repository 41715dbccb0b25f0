package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sizemap/pkg/entry"
	"github.com/matzehuels/sizemap/pkg/errors"
	"github.com/matzehuels/sizemap/pkg/treemap/address"
)

// parseViewport reads the width and height query parameters. Missing values
// are returned as zero.
func parseViewport(r *http.Request) (float64, float64, error) {
	q := r.URL.Query()
	width, err := parseDimension(q.Get("width"))
	if err != nil {
		return 0, 0, err
	}
	height, err := parseDimension(q.Get("height"))
	if err != nil {
		return 0, 0, err
	}
	if err := errors.ValidateViewport(width, height); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func parseDimension(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidViewport, err, "invalid dimension %q", s)
	}
	return v, nil
}

func parseID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid entry id %q", raw)
	}
	return id, nil
}

func addressOf(e *entry.Entry) string {
	return address.Serialize(e)
}
