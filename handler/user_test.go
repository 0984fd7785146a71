package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"react-app-backend/auth"
	"react-app-backend/config"
	"react-app-backend/model"
	"react-app-backend/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

func setupUserTest(t *testing.T) *mux.Router {
	t.Helper()

	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := config.Config{
		Password: config.PasswordRulesConfig{MinLength: 8, MaxLength: 128},
	}

	jwtManager, err := auth.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}

	uh := NewUserHandler(store.NewUserStore(client, nil), jwtManager, cfg)

	r := mux.NewRouter()
	r.HandleFunc("/api/users", uh.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", uh.Login).Methods("POST")
	r.HandleFunc("/api/auth/refresh", uh.RefreshToken).Methods("POST")

	return r
}

func TestRegister(t *testing.T) {
	router := setupUserTest(t)

	req := jsonRequest("POST", "/api/users", model.RegisterRequest{
		Email:    "User@Example.com",
		Password: "SecurePass1",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status Created, got %v: %s", w.Code, w.Body.String())
	}

	var resp model.UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Email != "user@example.com" {
		t.Errorf("Email = %q, want normalized %q", resp.Email, "user@example.com")
	}
	if resp.ID == "" {
		t.Error("Expected non-empty user ID")
	}
}

func TestRegister_Validation(t *testing.T) {
	router := setupUserTest(t)

	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{"Invalid email", model.RegisterRequest{Email: "not-an-email", Password: "SecurePass1"}},
		{"Weak password", model.RegisterRequest{Email: "user@example.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest("POST", "/api/users", tt.req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status BadRequest, got %v", w.Code)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	router := setupUserTest(t)

	body := model.RegisterRequest{Email: "user@example.com", Password: "SecurePass1"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/users", body))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status Created, got %v", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/users", body))
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status Conflict, got %v", w.Code)
	}
}

func TestLogin(t *testing.T) {
	router := setupUserTest(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/users", model.RegisterRequest{
		Email:    "user@example.com",
		Password: "SecurePass1",
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status Created, got %v", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", model.LoginRequest{
		Email:    "user@example.com",
		Password: "SecurePass1",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status OK, got %v: %s", w.Code, w.Body.String())
	}

	var resp model.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("Expected non-empty access and refresh tokens")
	}

	// Refresh with the returned token yields a new access token
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/refresh", model.RefreshTokenRequest{
		RefreshToken: resp.RefreshToken,
	}))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status OK on refresh, got %v", w.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	router := setupUserTest(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/users", model.RegisterRequest{
		Email:    "user@example.com",
		Password: "SecurePass1",
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status Created, got %v", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", model.LoginRequest{
		Email:    "user@example.com",
		Password: "WrongPass1",
	}))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status Unauthorized, got %v", w.Code)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	router := setupUserTest(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "SecurePass1",
	}))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status Unauthorized, got %v", w.Code)
	}
}
