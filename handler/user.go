package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"react-app-backend/auth"
	"react-app-backend/config"
	"react-app-backend/middleware"
	"react-app-backend/model"
	"react-app-backend/store"
	"react-app-backend/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles user registration and authentication
type UserHandler struct {
	store      *store.UserStore
	jwtManager *auth.JWTManager
	config     config.Config
}

// NewUserHandler creates a new user handler
func NewUserHandler(userStore *store.UserStore, jwtManager *auth.JWTManager, cfg config.Config) *UserHandler {
	return &UserHandler{
		store:      userStore,
		jwtManager: jwtManager,
		config:     cfg,
	}
}

// Register handles POST /api/users
// @Summary Register a new user
// @Description Register with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Registration data"
// @Success 201 {object} model.UserResponse "Created user"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Email already exists"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/users [post]
func (uh *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidateEmail(req.Email); err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "Please provide a valid email address")
		return
	}

	if err := utils.ValidatePassword(req.Password, uh.config.Password); err != nil {
		requirements := utils.GetPasswordRequirements(uh.config.Password)
		SendJSONError(w, http.StatusBadRequest, err, "Password does not meet requirements: "+requirements)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to process registration")
		return
	}

	user := model.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		FirstName:    strings.TrimSpace(req.FirstName),
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		Active:       true,
	}

	if err := uh.store.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			SendJSONError(w, http.StatusConflict, err, "An account with this email already exists. Please login.")
			return
		}
		log.Error().Err(err).Msg("Failed to save user")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to process registration")
		return
	}

	log.Info().
		Str("email", user.Email).
		Str("user_id", user.ID).
		Msg("User registered")

	SendJSONSuccess(w, http.StatusCreated, user.ToResponse())
}

// Login handles POST /api/auth/login
// @Summary Login
// @Description Login with email and password, returns access and refresh tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login credentials"
// @Success 200 {object} model.LoginResponse "Login successful with tokens"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 403 {object} ErrorResponse "Account inactive"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (uh *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := uh.store.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			SendJSONError(w, http.StatusUnauthorized, errors.New("invalid credentials"), "Invalid email or password")
			return
		}
		log.Error().Err(err).Msg("Failed to look up user")
		SendJSONError(w, http.StatusInternalServerError, err, "Login failed")
		return
	}

	if !user.Active {
		SendJSONError(w, http.StatusForbidden, errors.New("account inactive"), "Your account has been disabled. Please contact support.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		SendJSONError(w, http.StatusUnauthorized, errors.New("invalid credentials"), "Invalid email or password")
		return
	}

	accessToken, err := uh.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate access token")
		SendJSONError(w, http.StatusInternalServerError, err, "Login failed")
		return
	}

	refreshToken, err := uh.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate refresh token")
		SendJSONError(w, http.StatusInternalServerError, err, "Login failed")
		return
	}

	user.LastLoginAt = time.Now()
	uh.store.Touch(ctx, user)

	log.Info().
		Str("email", user.Email).
		Str("user_id", user.ID).
		Msg("User logged in")

	SendJSONSuccess(w, http.StatusOK, model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	})
}

// RefreshToken handles POST /api/auth/refresh
// @Summary Refresh access token
// @Description Get a new access token using refresh token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} map[string]string "New access token"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid or expired refresh token"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/auth/refresh [post]
func (uh *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	claims, err := uh.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil {
		SendJSONError(w, http.StatusUnauthorized, err, "Invalid or expired refresh token")
		return
	}

	accessToken, err := uh.jwtManager.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate access token")
		SendJSONError(w, http.StatusInternalServerError, err, "Token refresh failed")
		return
	}

	log.Info().
		Str("user_id", claims.UserID).
		Msg("Access token refreshed")

	SendJSONSuccess(w, http.StatusOK, map[string]string{
		"accessToken": accessToken,
	})
}

// Me handles GET /api/auth/me
// @Summary Current user profile
// @Description Returns the authenticated user's profile
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.UserResponse "Current user"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/auth/me [get]
func (uh *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := middleware.GetUserID(r)
	if userID == "" {
		SendJSONError(w, http.StatusUnauthorized, errors.New("user not authenticated"), "")
		return
	}

	user, err := uh.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			SendJSONError(w, http.StatusNotFound, err, "User not found")
			return
		}
		log.Error().Err(err).Msg("Failed to look up user")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to load profile")
		return
	}

	SendJSONSuccess(w, http.StatusOK, user.ToResponse())
}
