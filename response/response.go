package response

import (
	"encoding/json"
	"net/http"

	"timeclock/apperror"

	"go.uber.org/zap"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Envelope struct {
	Ok    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Ok: true, Data: data})
}

func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, Envelope{Ok: false, Error: &ErrorBody{Code: code, Message: message}})
}

// FromError writes err as an error envelope. Errors that are not an
// AppError are logged and reported as internal errors.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.ToHTTP(err)
	if appErr == apperror.ErrInternal {
		zap.L().Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	Error(w, appErr.HTTPStatus, appErr.Code, appErr.Message)
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
