package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"timeclock/apperror"
	"timeclock/clock"
	"timeclock/middleware"
	"timeclock/models"
	"timeclock/response"
)

// maxEvidenceFiles bounds how many images one attempt may carry.
const maxEvidenceFiles = 4

type ClockHandler struct {
	service          clock.Service
	evidenceMaxBytes int64
}

func NewClockHandler(service clock.Service, evidenceMaxBytes int64) *ClockHandler {
	return &ClockHandler{service: service, evidenceMaxBytes: evidenceMaxBytes}
}

func (h *ClockHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, models.AttemptIn)
}

func (h *ClockHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, models.AttemptOut)
}

func (h *ClockHandler) submit(w http.ResponseWriter, r *http.Request, typ models.AttemptType) {
	user := middleware.GetUserFromContext(r.Context())

	req, cleanup, err := h.parseRequest(w, r)
	defer cleanup()
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	var result clock.AttemptResult
	if typ == models.AttemptIn {
		result, err = h.service.ClockIn(r.Context(), user.ID, req)
	} else {
		result, err = h.service.ClockOut(r.Context(), user.ID, req)
	}
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, result)
}

func (h *ClockHandler) Active(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	session, err := h.service.ActiveSession(r.Context(), user.ID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"session": session})
}

// parseRequest accepts either a JSON body or a multipart form whose
// "evidence" parts are images. The returned cleanup closes any opened parts.
func (h *ClockHandler) parseRequest(w http.ResponseWriter, r *http.Request) (clock.ClockRequest, func(), error) {
	var req clock.ClockRequest
	noop := func() {}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return req, noop, decodeJSON(w, r, &req)
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.evidenceMaxBytes*maxEvidenceFiles+maxJSONBody)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return req, noop, apperror.Wrap(err, apperror.CodeInvalidInput, "Request form is invalid", http.StatusBadRequest)
	}
	form := r.MultipartForm
	cleanup := func() { _ = form.RemoveAll() }

	var err error
	if req.Latitude, err = formFloat(form, "latitude"); err != nil {
		return req, cleanup, err
	}
	if req.Longitude, err = formFloat(form, "longitude"); err != nil {
		return req, cleanup, err
	}
	req.Location = formString(form, "location")
	req.Notes = formString(form, "notes")
	req.FieldNotes = formString(form, "field_notes")

	headers := form.File["evidence"]
	if len(headers) > maxEvidenceFiles {
		return req, cleanup, apperror.InvalidField("evidence")
	}
	var files []multipart.File
	cleanup = func() {
		for _, f := range files {
			_ = f.Close()
		}
		_ = form.RemoveAll()
	}
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return req, cleanup, apperror.Wrap(err, apperror.CodeInvalidInput, "Evidence image is unreadable", http.StatusBadRequest)
		}
		files = append(files, f)
		req.Evidence = append(req.Evidence, clock.Evidence{
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}

	return req, cleanup, apperror.Validate(req)
}

func formString(form *multipart.Form, key string) *string {
	values := form.Value[key]
	if len(values) == 0 || values[0] == "" {
		return nil
	}
	v := values[0]
	return &v
}

func formFloat(form *multipart.Form, key string) (*float64, error) {
	s := formString(form, key)
	if s == nil {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil, apperror.InvalidField(key)
	}
	return &v, nil
}
