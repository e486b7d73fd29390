package clock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"timeclock/analytics"
	"timeclock/apperror"
	"timeclock/geofence"
	"timeclock/models"
	"timeclock/storage"

	"go.uber.org/zap"
)

type ClockRequest struct {
	Latitude   *float64   `json:"latitude" validate:"omitempty,latitude"`
	Longitude  *float64   `json:"longitude" validate:"omitempty,longitude"`
	Location   *string    `json:"location" validate:"omitempty,max=200"`
	Notes      *string    `json:"notes" validate:"omitempty,max=1000"`
	FieldNotes *string    `json:"field_notes" validate:"omitempty,max=2000"`
	Evidence   []Evidence `json:"-"`
}

// Evidence is one uploaded image accompanying an attempt.
type Evidence struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

type AttemptResult struct {
	Attempt models.ClockAttempt  `json:"attempt"`
	Session *models.ClockSession `json:"session,omitempty"`
}

type Options struct {
	GeofenceRequired bool
	DefaultRadius    float64
	EvidenceMaxBytes int64
	RatePerMinute    float64
	RateBurst        int
	Now              func() time.Time
}

type Service interface {
	ClockIn(ctx context.Context, userID uint, req ClockRequest) (AttemptResult, error)
	ClockOut(ctx context.Context, userID uint, req ClockRequest) (AttemptResult, error)
	ActiveSession(ctx context.Context, userID uint) (*models.ClockSession, error)
}

type service struct {
	repo    Repository
	store   storage.EvidenceStore
	opts    Options
	limiter *userLimiter
	now     func() time.Time
	logger  *zap.Logger
}

// NewService builds the clock service. store may be nil, in which case
// requests carrying evidence are rejected.
func NewService(repo Repository, store storage.EvidenceStore, opts Options, logger *zap.Logger) Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:    repo,
		store:   store,
		opts:    opts,
		limiter: newUserLimiter(opts.RatePerMinute, opts.RateBurst),
		now:     now,
		logger:  logger.Named("clock"),
	}
}

func (s *service) ClockIn(ctx context.Context, userID uint, req ClockRequest) (AttemptResult, error) {
	return s.submit(ctx, userID, models.AttemptIn, req)
}

func (s *service) ClockOut(ctx context.Context, userID uint, req ClockRequest) (AttemptResult, error) {
	return s.submit(ctx, userID, models.AttemptOut, req)
}

func (s *service) ActiveSession(ctx context.Context, userID uint) (*models.ClockSession, error) {
	return s.repo.FindOpenSession(ctx, userID)
}

// submit records one attempt. Rejections that are the user's to fix
// (geofence, session state) are persisted as failed attempts and reported
// through the returned error alongside the stored attempt.
func (s *service) submit(ctx context.Context, userID uint, typ models.AttemptType, req ClockRequest) (AttemptResult, error) {
	now := s.now()
	if !s.limiter.allow(userID, now) {
		return AttemptResult{}, ErrRateLimited
	}
	if err := s.checkEvidence(req.Evidence); err != nil {
		return AttemptResult{}, err
	}

	label, reason, err := s.resolveLocation(ctx, req)
	if err != nil {
		return AttemptResult{}, err
	}

	images, err := s.uploadEvidence(ctx, userID, now, req.Evidence)
	if err != nil {
		return AttemptResult{}, err
	}

	attempt := models.ClockAttempt{
		UserID:         userID,
		Type:           typ,
		Timestamp:      now,
		Location:       label,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Notes:          req.Notes,
		EvidenceImages: images,
	}

	var (
		result    AttemptResult
		rejection error
	)
	if reason != "" {
		rejection = ErrOutsideGeofence
	}

	err = s.repo.Transaction(ctx, func(repo Repository) error {
		if rejection != nil {
			return recordFailure(ctx, repo, &attempt, reason)
		}

		open, err := repo.FindOpenSession(ctx, userID)
		if err != nil {
			return err
		}

		switch {
		case typ == models.AttemptIn && open != nil:
			rejection = ErrSessionAlreadyOpen
			return recordFailure(ctx, repo, &attempt, reasonAlreadyOpen)
		case typ == models.AttemptOut && open == nil:
			rejection = ErrNoOpenSession
			return recordFailure(ctx, repo, &attempt, reasonNoOpenSession)
		}

		attempt.Success = true
		if err := repo.CreateAttempt(ctx, &attempt); err != nil {
			return err
		}
		if typ == models.AttemptIn {
			session := &models.ClockSession{
				CreatedAt:      now,
				UserID:         userID,
				ClockInEventID: attempt.ID,
				FieldNotes:     req.FieldNotes,
			}
			if err := repo.CreateSession(ctx, session); err != nil {
				return err
			}
			result.Session = session
			return nil
		}

		if err := closeSession(ctx, repo, open, &attempt, req.FieldNotes); err != nil {
			return err
		}
		result.Session = open
		return nil
	})
	if err != nil {
		s.discardEvidence(images)
		if errors.Is(err, ErrSessionAlreadyOpen) {
			// a concurrent clock-in committed first
			s.logger.Warn("clock attempt rejected", zap.Uint("user_id", userID), zap.String("reason", reasonAlreadyOpen))
			return AttemptResult{}, ErrSessionAlreadyOpen
		}
		return AttemptResult{}, fmt.Errorf("record clock %s: %w", typ, err)
	}

	result.Attempt = attempt
	if rejection != nil {
		s.logger.Warn("clock attempt rejected",
			zap.Uint("user_id", userID),
			zap.String("type", string(typ)),
			zap.String("reason", derefString(attempt.FailureReason)),
		)
		return result, rejection
	}

	fields := []zap.Field{zap.Uint("user_id", userID), zap.Uint("session_id", result.Session.ID)}
	if typ == models.AttemptOut {
		fields = append(fields,
			zap.Int("duration_minutes", derefInt(result.Session.DurationMinutes)),
			zap.Int("overtime_minutes", derefInt(result.Session.OvertimeMinutes)),
		)
	}
	s.logger.Info("clock "+string(typ)+" recorded", fields...)
	return result, nil
}

// closeSession links the clock-out attempt to the open session and writes
// the duration split. A missing clock-in attempt falls back to the session's
// creation time.
func closeSession(ctx context.Context, repo Repository, open *models.ClockSession, out *models.ClockAttempt, fieldNotes *string) error {
	clockIn := open.CreatedAt
	in, err := repo.FindAttempt(ctx, open.ClockInEventID)
	switch {
	case err == nil:
		clockIn = in.Timestamp
	case !errors.Is(err, apperror.ErrNotFound):
		return err
	}

	total, regular, overtime := analytics.SplitDuration(clockIn, out.Timestamp)
	open.ClockOutEventID = &out.ID
	open.DurationMinutes = &total
	open.RegularMinutes = &regular
	open.OvertimeMinutes = &overtime
	if fieldNotes != nil {
		open.FieldNotes = fieldNotes
	}
	return repo.UpdateSession(ctx, open)
}

func recordFailure(ctx context.Context, repo Repository, attempt *models.ClockAttempt, reason string) error {
	attempt.Success = false
	attempt.FailureReason = &reason
	return repo.CreateAttempt(ctx, attempt)
}

// resolveLocation returns the location label to store and, when the attempt
// must be rejected, the failure reason.
func (s *service) resolveLocation(ctx context.Context, req ClockRequest) (*string, string, error) {
	if req.Latitude == nil || req.Longitude == nil {
		if s.opts.GeofenceRequired {
			return req.Location, reasonLocationMissing, nil
		}
		return req.Location, "", nil
	}

	locations, err := s.repo.ListLocations(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list locations: %w", err)
	}
	loc, ok := geofence.Resolve(locations, geofence.Point{Lat: *req.Latitude, Lng: *req.Longitude}, s.opts.DefaultRadius)
	if ok {
		return &loc.Name, "", nil
	}
	if s.opts.GeofenceRequired {
		return req.Location, reasonOutsideGeofence, nil
	}
	return req.Location, "", nil
}

func (s *service) checkEvidence(files []Evidence) error {
	if len(files) == 0 {
		return nil
	}
	if s.store == nil {
		return ErrEvidenceDisabled
	}
	for _, f := range files {
		if err := storage.CheckUpload(f.ContentType, f.Size, s.opts.EvidenceMaxBytes); err != nil {
			return apperror.Wrap(err, apperror.CodeInvalidInput, "Evidence image rejected", http.StatusBadRequest)
		}
	}
	return nil
}

func (s *service) uploadEvidence(ctx context.Context, userID uint, now time.Time, files []Evidence) ([]models.EvidenceImage, error) {
	images := make([]models.EvidenceImage, 0, len(files))
	for _, f := range files {
		key, err := storage.EvidenceKey(userID, now, f.ContentType)
		if err != nil {
			s.discardEvidence(images)
			return nil, apperror.Wrap(err, apperror.CodeInvalidInput, "Evidence image rejected", http.StatusBadRequest)
		}
		if err := s.store.Put(ctx, key, f.ContentType, f.Body, f.Size); err != nil {
			s.discardEvidence(images)
			return nil, fmt.Errorf("upload evidence: %w", err)
		}
		images = append(images, models.EvidenceImage{ObjectKey: key, ContentType: f.ContentType, SizeBytes: f.Size})
	}
	return images, nil
}

// discardEvidence removes already-uploaded objects after a failed write.
func (s *service) discardEvidence(images []models.EvidenceImage) {
	if s.store == nil {
		return
	}
	for _, img := range images {
		if err := s.store.Delete(context.Background(), img.ObjectKey); err != nil {
			s.logger.Warn("evidence cleanup failed", zap.String("key", img.ObjectKey), zap.Error(err))
		}
	}
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
