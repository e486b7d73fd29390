package clock

import (
	"net/http"

	"timeclock/apperror"
)

const (
	CodeOutsideGeofence     = "OUTSIDE_GEOFENCE"
	CodeEvidenceUnavailable = "EVIDENCE_UNAVAILABLE"
)

var (
	ErrSessionAlreadyOpen = apperror.New(apperror.CodeConflict, "You already have an open work session", http.StatusConflict)
	ErrNoOpenSession      = apperror.New(apperror.CodeInvalidState, "No open work session to clock out of", http.StatusConflict)
	ErrOutsideGeofence    = apperror.New(CodeOutsideGeofence, "You are not at a registered work location", http.StatusForbidden)
	ErrRateLimited        = apperror.New(apperror.CodeRateLimited, "Too many clock submissions, try again shortly", http.StatusTooManyRequests)
	ErrEvidenceDisabled   = apperror.New(CodeEvidenceUnavailable, "Evidence uploads are not configured", http.StatusServiceUnavailable)
)

// failure reasons stored on rejected attempts
const (
	reasonOutsideGeofence = "outside geofence"
	reasonLocationMissing = "location required"
	reasonAlreadyOpen     = "session already open"
	reasonNoOpenSession   = "no open session"
)
