package handlers

import (
	"errors"
	"net/http"
	"time"

	"timeclock/apperror"
	"timeclock/config"
	"timeclock/database"
	"timeclock/middleware"
	"timeclock/models"
	"timeclock/response"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	config *config.Config
	logger *zap.Logger
	now    func() time.Time
}

func NewAuthHandler(cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		config: cfg,
		logger: logger.Named("auth"),
		now:    time.Now,
	}
}

var (
	errInvalidCredentials = apperror.New(apperror.CodeUnauthorized, "Invalid credentials", http.StatusUnauthorized)
	errInvalidInvite      = apperror.New(apperror.CodeInvalidInput, "Invite link has expired or already been used", http.StatusBadRequest)
	errUsernameTaken      = apperror.New(apperror.CodeConflict, "Username already exists", http.StatusConflict)
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	var user models.User
	if err := database.GetDB().WithContext(r.Context()).Where("username = ?", req.Username).First(&user).Error; err != nil {
		response.FromError(w, r, errInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.logger.Info("login rejected", zap.String("username", req.Username))
		response.FromError(w, r, errInvalidCredentials)
		return
	}

	h.issueToken(w, r, &user, http.StatusOK)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearTokenCookie(w)
	response.JSON(w, http.StatusOK, nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=5"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		response.FromError(w, r, apperror.ErrUnauthorized)
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		response.FromError(w, r, apperror.New(apperror.CodeInvalidInput, "Current password is incorrect", http.StatusBadRequest))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	err = database.GetDB().WithContext(r.Context()).Model(user).Updates(map[string]any{
		"password_hash":        string(hashedPassword),
		"must_change_password": false,
	}).Error
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	user.PasswordHash = string(hashedPassword)
	user.MustChangePassword = false

	h.issueToken(w, r, user, http.StatusOK)
}

type registerRequest struct {
	Code     string `json:"code" validate:"required"`
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=5"`
}

// Register redeems an invite. The invite fixes the new account's name,
// role and pay rates.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	var user models.User
	err = database.GetDB().WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		var invite models.Invite
		if err := tx.Where("code = ?", req.Code).First(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errInvalidInvite
			}
			return err
		}
		if !invite.IsValid(h.now()) {
			return errInvalidInvite
		}

		var existing int64
		if err := tx.Model(&models.User{}).Where("username = ?", req.Username).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errUsernameTaken
		}

		user = models.User{
			Username:     req.Username,
			FullName:     invite.FullName,
			PasswordHash: string(hashedPassword),
			Role:         invite.Role,
			HourlyRate:   invite.HourlyRate,
			ExtendedRate: invite.ExtendedRate,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		// The column defaults to true, so the zero value is not written on create.
		if err := tx.Model(&user).Update("must_change_password", false).Error; err != nil {
			return err
		}
		user.MustChangePassword = false
		return tx.Model(&invite).Update("used", true).Error
	})
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	h.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	h.issueToken(w, r, &user, http.StatusCreated)
}

type inviteRequest struct {
	FullName     string          `json:"full_name" validate:"required,max=200"`
	Role         models.Role     `json:"role" validate:"required,oneof=EMPLOYEE MANAGER"`
	HourlyRate   decimal.Decimal `json:"hourly_rate"`
	ExtendedRate decimal.Decimal `json:"extended_rate"`
}

func (h *AuthHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var invites []models.Invite
	err := database.GetDB().WithContext(r.Context()).
		Where("created_by = ?", user.ID).
		Order("created_at desc").
		Find(&invites).Error
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, invites)
}

func (h *AuthHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanCreateInvites() {
		response.FromError(w, r, apperror.ErrForbidden)
		return
	}

	var req inviteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}
	if err := checkRates(req.HourlyRate, req.ExtendedRate); err != nil {
		response.FromError(w, r, err)
		return
	}

	code, err := models.GenerateInviteCode()
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	invite := models.Invite{
		Code:         code,
		FullName:     req.FullName,
		Role:         req.Role,
		HourlyRate:   req.HourlyRate,
		ExtendedRate: req.ExtendedRate,
		CreatedBy:    user.ID,
		ExpiresAt:    h.now().Add(h.config.InviteExpiration),
	}
	if err := database.GetDB().WithContext(r.Context()).Create(&invite).Error; err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, invite)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	token, err := middleware.GenerateToken(user, h.config.JWTExpiration)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	middleware.SetTokenCookie(w, token, h.config.JWTExpiration)
	response.JSON(w, status, sessionResponse{Token: token, User: user})
}

func checkRates(rates ...decimal.Decimal) error {
	for _, rate := range rates {
		if rate.IsNegative() {
			return apperror.New(apperror.CodeInvalidInput, "Pay rates cannot be negative", http.StatusBadRequest)
		}
	}
	return nil
}
