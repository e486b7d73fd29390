package handlers

import (
	"net/http"
	"time"

	"timeclock/analytics"
	"timeclock/apperror"
	"timeclock/clock"
	"timeclock/middleware"
	"timeclock/models"
	"timeclock/response"
)

const defaultRangeDays = 30

type AnalyticsHandler struct {
	repo clock.Repository
	now  func() time.Time
}

func NewAnalyticsHandler(repo clock.Repository) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo, now: time.Now}
}

func (h *AnalyticsHandler) MySessions(w http.ResponseWriter, r *http.Request) {
	h.withSubject(w, r, selfID, func(user *models.User) {
		response.JSON(w, http.StatusOK, analytics.ReconstructSessions(user))
	})
}

func (h *AnalyticsHandler) MyStats(w http.ResponseWriter, r *http.Request) {
	h.withSubject(w, r, selfID, func(user *models.User) {
		response.JSON(w, http.StatusOK, analytics.ComputeUserStats(user))
	})
}

func (h *AnalyticsHandler) MyAnalytics(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, selfID)
}

func (h *AnalyticsHandler) UserSessions(w http.ResponseWriter, r *http.Request) {
	h.withSubject(w, r, pathID, func(user *models.User) {
		response.JSON(w, http.StatusOK, analytics.ReconstructSessions(user))
	})
}

func (h *AnalyticsHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	h.withSubject(w, r, pathID, func(user *models.User) {
		response.JSON(w, http.StatusOK, analytics.ComputeUserStats(user))
	})
}

func (h *AnalyticsHandler) UserAnalytics(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, pathID)
}

// Summary reports period totals for every employee.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	rng, err := parseRange(r, now)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	users, err := h.repo.ListUsersWithHistory(r.Context(), models.RoleEmployee)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, analytics.SummarizeUsers(users, rng, now))
}

func (h *AnalyticsHandler) analyze(w http.ResponseWriter, r *http.Request, subject subjectFunc) {
	now := h.now()
	rng, err := parseRange(r, now)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	h.withSubject(w, r, subject, func(user *models.User) {
		response.JSON(w, http.StatusOK, analytics.AnalyzeUser(user, rng, now))
	})
}

type subjectFunc func(r *http.Request) (uint, error)

func selfID(r *http.Request) (uint, error) {
	return middleware.GetUserFromContext(r.Context()).ID, nil
}

func pathID(r *http.Request) (uint, error) {
	return idParam(r, "id")
}

// withSubject loads the user a request is about, with full history, after
// checking that the caller may see it.
func (h *AnalyticsHandler) withSubject(w http.ResponseWriter, r *http.Request, subject subjectFunc, fn func(user *models.User)) {
	viewer := middleware.GetUserFromContext(r.Context())
	id, err := subject(r)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if !viewer.CanViewAnalyticsFor(id) {
		response.FromError(w, r, apperror.ErrForbidden)
		return
	}

	user, err := h.repo.LoadUserWithHistory(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	fn(user)
}

// parseRange reads the from/to query parameters (YYYY-MM-DD, local time).
// A missing to means "through now"; a missing from is thirty days before to.
func parseRange(r *http.Request, now time.Time) (analytics.DateRange, error) {
	var rng analytics.DateRange
	end := now

	if s := r.URL.Query().Get("to"); s != "" {
		to, err := time.ParseInLocation(time.DateOnly, s, now.Location())
		if err != nil {
			return rng, apperror.InvalidField("to")
		}
		rng.To = &to
		end = to
	}

	if s := r.URL.Query().Get("from"); s != "" {
		from, err := time.ParseInLocation(time.DateOnly, s, now.Location())
		if err != nil {
			return rng, apperror.InvalidField("from")
		}
		rng.From = from
	} else {
		rng.From = end.AddDate(0, 0, -defaultRangeDays)
	}
	return rng, nil
}
