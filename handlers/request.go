package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"timeclock/apperror"

	"github.com/go-chi/chi/v5"
)

const maxJSONBody = 1 << 20

// decodeJSON reads a JSON body into dst and validates it. An empty body
// decodes to dst's zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperror.Wrap(err, apperror.CodeInvalidInput, "Request body is not valid JSON", http.StatusBadRequest)
	}
	return apperror.Validate(dst)
}

func idParam(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.InvalidField(name)
	}
	return uint(id), nil
}
