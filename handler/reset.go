package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"react-app-backend/config"
	"react-app-backend/email"
	"react-app-backend/model"
	"react-app-backend/reset"
	"react-app-backend/store"
	"react-app-backend/utils"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// ResetHandler handles the password reset flow: a reset request that emails a
// signed, time-boxed link, and the follow-up credential update that presents
// the token from that link.
type ResetHandler struct {
	store        *store.UserStore
	redis        *redis.Client
	resetManager *reset.Manager
	emailService *email.EmailService
	config       config.Config
	linkBase     string
}

// NewResetHandler creates a new password reset handler
func NewResetHandler(userStore *store.UserStore, rdb *redis.Client, rm *reset.Manager, es *email.EmailService, cfg config.Config) *ResetHandler {
	linkBase := cfg.Reset.LinkBaseURL
	if linkBase == "" {
		linkBase = cfg.WebServer.BaseURL
	}
	if linkBase == "" {
		linkBase = fmt.Sprintf("%s://%s:%s", cfg.WebServer.Scheme, cfg.WebServer.IP, cfg.WebServer.Port)
	}
	return &ResetHandler{
		store:        userStore,
		redis:        rdb,
		resetManager: rm,
		emailService: es,
		config:       cfg,
		linkBase:     linkBase,
	}
}

// ForgotPassword handles POST /api/auth/reset-password
// @Summary Request a password reset email
// @Description Issues a time-boxed reset token and emails a reset link. The response is sent before delivery completes; delivery failures are logged only.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.ForgotPasswordRequest true "Account email"
// @Success 202 {object} map[string]string "Reset email accepted for delivery"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "No user with that email"
// @Failure 429 {object} ErrorResponse "Too many reset requests"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/auth/reset-password [post]
func (rh *ResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req model.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		SendJSONError(w, http.StatusBadRequest, errors.New("missing email"), "Email is required")
		return
	}

	// Cap reset requests per IP (5 per 15 minutes)
	ip := getIPAddress(r)
	rateLimitKey := fmt.Sprintf("reset_attempts:%s", ip)
	attempts, err := rh.redis.Incr(ctx, rateLimitKey).Result()
	if err == nil {
		if attempts == 1 {
			rh.redis.Expire(ctx, rateLimitKey, 15*time.Minute)
		}
		if attempts > 5 {
			SendJSONError(w, http.StatusTooManyRequests, errors.New("rate limited"), "Too many reset requests. Please try again later.")
			return
		}
	}

	user, err := rh.store.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			SendJSONError(w, http.StatusNotFound, err, "No user with that email")
			return
		}
		log.Error().Err(err).Msg("Failed to look up user")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to process reset request")
		return
	}

	token, err := rh.resetManager.IssueToken(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue reset token")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to process reset request")
		return
	}

	url := reset.ResetURL(rh.linkBase, user.ID, token)

	// Fire-and-forget: the response does not wait on SMTP, and a delivery
	// failure is logged by the email service without touching this request.
	userCopy := *user
	go func() {
		if err := rh.emailService.SendPasswordReset(&userCopy, url); err != nil {
			log.Error().Err(err).Str("user_id", userCopy.ID).Msg("Password reset email delivery failed")
		}
	}()

	log.Info().
		Str("email", user.Email).
		Str("user_id", user.ID).
		Msg("Password reset requested")

	SendJSONSuccess(w, http.StatusAccepted, map[string]string{
		"message": "Sending email.",
	})
}

// ResetPassword handles PUT /api/auth/reset-password/{userID}/{token}
// @Summary Set a new password with a reset token
// @Description Verifies the emailed token against the user's current credential state and replaces the password hash. A token issued before any password change no longer verifies.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param token path string true "Reset token"
// @Param request body model.ResetPasswordRequest true "New password"
// @Success 202 {object} map[string]string "Password changed"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid or expired reset token"
// @Failure 404 {object} ErrorResponse "Invalid user"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/auth/reset-password/{userID}/{token} [put]
func (rh *ResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	userID := vars["userID"]
	token := vars["token"]
	if userID == "" || token == "" {
		SendJSONError(w, http.StatusBadRequest, errors.New("missing parameters"), "User ID and token are required")
		return
	}

	var req model.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	if err := utils.ValidatePassword(req.Password, rh.config.Password); err != nil {
		requirements := utils.GetPasswordRequirements(rh.config.Password)
		SendJSONError(w, http.StatusBadRequest, err, "Password does not meet requirements: "+requirements)
		return
	}

	user, err := rh.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			SendJSONError(w, http.StatusNotFound, err, "Invalid user")
			return
		}
		log.Error().Err(err).Msg("Failed to look up user")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to reset password")
		return
	}

	// The secret is recomputed from the user's current hash and creation
	// time, so a token issued before any password change fails here.
	if err := rh.resetManager.VerifyToken(user, token); err != nil {
		log.Warn().Str("user_id", userID).Msg("Reset token rejected")
		SendJSONError(w, http.StatusUnauthorized, reset.ErrInvalidToken, "The reset link is invalid or has expired. Please request a new one.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to reset password")
		return
	}

	if err := rh.store.UpdatePasswordHash(ctx, userID, string(hashedPassword)); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			SendJSONError(w, http.StatusNotFound, err, "Invalid user")
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to persist new password hash")
		SendJSONError(w, http.StatusInternalServerError, errors.New("update failed"), "Failed to reset password")
		return
	}

	log.Info().
		Str("user_id", userID).
		Msg("Password reset completed")

	SendJSONSuccess(w, http.StatusAccepted, map[string]string{
		"message": "Password changed",
	})
}

// getIPAddress extracts the client IP, preferring proxy headers
func getIPAddress(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if idx := strings.Index(ip, ","); idx > 0 {
			return strings.TrimSpace(ip[:idx])
		}
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
