package handlers

import (
	"errors"
	"net/http"

	"timeclock/apperror"
	"timeclock/clock"
	"timeclock/database"
	"timeclock/middleware"
	"timeclock/models"
	"timeclock/response"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminHandler struct {
	repo   clock.Repository
	logger *zap.Logger
}

func NewAdminHandler(repo clock.Repository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{repo: repo, logger: logger.Named("admin")}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := database.GetDB().WithContext(r.Context()).Order("full_name").Find(&users).Error; err != nil {
		response.FromError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Username     string          `json:"username" validate:"required,min=3,max=100"`
	FullName     string          `json:"full_name" validate:"required,max=200"`
	Password     string          `json:"password" validate:"required,min=5"`
	Role         models.Role     `json:"role" validate:"required,oneof=ADMIN MANAGER EMPLOYEE"`
	HourlyRate   decimal.Decimal `json:"hourly_rate"`
	ExtendedRate decimal.Decimal `json:"extended_rate"`
}

// CreateUser adds an account directly. The user must change the password
// on first login.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}
	if err := checkRates(req.HourlyRate, req.ExtendedRate); err != nil {
		response.FromError(w, r, err)
		return
	}

	db := database.GetDB().WithContext(r.Context())
	var existing int64
	if err := db.Model(&models.User{}).Where("username = ?", req.Username).Count(&existing).Error; err != nil {
		response.FromError(w, r, err)
		return
	}
	if existing > 0 {
		response.FromError(w, r, errUsernameTaken)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	user := models.User{
		Username:           req.Username,
		FullName:           req.FullName,
		PasswordHash:       string(hashedPassword),
		Role:               req.Role,
		MustChangePassword: true,
		HourlyRate:         req.HourlyRate,
		ExtendedRate:       req.ExtendedRate,
	}
	if err := db.Create(&user).Error; err != nil {
		response.FromError(w, r, err)
		return
	}

	h.logger.Info("user created", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	response.JSON(w, http.StatusCreated, user)
}

type updateUserRequest struct {
	FullName           *string          `json:"full_name" validate:"omitempty,min=1,max=200"`
	Role               *models.Role     `json:"role" validate:"omitempty,oneof=ADMIN MANAGER EMPLOYEE"`
	HourlyRate         *decimal.Decimal `json:"hourly_rate"`
	ExtendedRate       *decimal.Decimal `json:"extended_rate"`
	MustChangePassword *bool            `json:"must_change_password"`
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	updates := map[string]any{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Role != nil {
		if *req.Role != models.RoleAdmin && id == middleware.GetUserFromContext(r.Context()).ID {
			response.FromError(w, r, apperror.New(apperror.CodeInvalidInput, "You cannot remove your own admin role", http.StatusBadRequest))
			return
		}
		updates["role"] = *req.Role
	}
	if req.HourlyRate != nil {
		if err := checkRates(*req.HourlyRate); err != nil {
			response.FromError(w, r, err)
			return
		}
		updates["hourly_rate"] = *req.HourlyRate
	}
	if req.ExtendedRate != nil {
		if err := checkRates(*req.ExtendedRate); err != nil {
			response.FromError(w, r, err)
			return
		}
		updates["extended_rate"] = *req.ExtendedRate
	}
	if req.MustChangePassword != nil {
		updates["must_change_password"] = *req.MustChangePassword
	}

	db := database.GetDB().WithContext(r.Context())
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		response.FromError(w, r, notFound(err))
		return
	}
	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			response.FromError(w, r, err)
			return
		}
	}
	if err := db.First(&user, id).Error; err != nil {
		response.FromError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if id == middleware.GetUserFromContext(r.Context()).ID {
		response.FromError(w, r, apperror.New(apperror.CodeInvalidInput, "You cannot delete your own account", http.StatusBadRequest))
		return
	}

	res := database.GetDB().WithContext(r.Context()).Delete(&models.User{}, id)
	if res.Error != nil {
		response.FromError(w, r, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		response.FromError(w, r, apperror.ErrNotFound)
		return
	}

	h.logger.Info("user deleted", zap.Uint("user_id", id))
	response.JSON(w, http.StatusOK, nil)
}

func (h *AdminHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	var locations []models.Location
	if err := database.GetDB().WithContext(r.Context()).Order("name").Find(&locations).Error; err != nil {
		response.FromError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, locations)
}

type locationRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Latitude     float64 `json:"latitude" validate:"latitude"`
	Longitude    float64 `json:"longitude" validate:"longitude"`
	RadiusMeters float64 `json:"radius_meters" validate:"gte=0"`
}

// CreateLocation registers an active geofence. A zero radius uses the
// configured default.
func (h *AdminHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	db := database.GetDB().WithContext(r.Context())
	var existing int64
	if err := db.Model(&models.Location{}).Where("name = ?", req.Name).Count(&existing).Error; err != nil {
		response.FromError(w, r, err)
		return
	}
	if existing > 0 {
		response.FromError(w, r, apperror.New(apperror.CodeConflict, "Location name already exists", http.StatusConflict))
		return
	}

	location := models.Location{
		Name:         req.Name,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		Active:       true,
	}
	if err := db.Create(&location).Error; err != nil {
		response.FromError(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, location)
}

func (h *AdminHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	res := database.GetDB().WithContext(r.Context()).Delete(&models.Location{}, id)
	if res.Error != nil {
		response.FromError(w, r, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		response.FromError(w, r, apperror.ErrNotFound)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}

// DeleteSession removes a session from payroll. Its attempts are kept.
func (h *AdminHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if err := h.repo.DeleteSession(r.Context(), id); err != nil {
		response.FromError(w, r, err)
		return
	}

	h.logger.Info("session deleted",
		zap.Uint("session_id", id),
		zap.Uint("by", middleware.GetUserFromContext(r.Context()).ID),
	)
	response.JSON(w, http.StatusOK, nil)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	return err
}
