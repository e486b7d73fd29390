package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	conflict := New(CodeConflict, "already open", http.StatusConflict)

	assert.Same(t, conflict, ToHTTP(fmt.Errorf("clock in: %w", conflict)))
	assert.Same(t, ErrInternal, ToHTTP(errors.New("db down")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternalError, "x", 500))

	cause := errors.New("boom")
	err := Wrap(cause, CodeInternalError, "failed", http.StatusInternalServerError)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed: boom", err.Error())
}

func TestValidate(t *testing.T) {
	type req struct {
		Username string  `json:"username" validate:"required"`
		Rate     float64 `json:"hourly_rate" validate:"gte=0"`
	}

	assert.NoError(t, Validate(req{Username: "ana"}))

	err := Validate(req{})
	assert.EqualError(t, err, "username is required")

	err = Validate(req{Username: "ana", Rate: -1})
	assert.EqualError(t, err, "hourly_rate is invalid")
}
