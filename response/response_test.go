package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"timeclock/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"id": 3})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true,"data":{"id":3}}`, rec.Body.String())
}

func TestFromError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"app error", apperror.ErrNotFound, http.StatusNotFound, apperror.CodeNotFound},
		{"wrapped app error", fmt.Errorf("load: %w", apperror.ErrForbidden), http.StatusForbidden, apperror.CodeForbidden},
		{"plain error", errors.New("db down"), http.StatusInternalServerError, apperror.CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FromError(rec, req, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var env Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.False(t, env.Ok)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.NotContains(t, env.Error.Message, "db down")
		})
	}
}
