package model

import "time"

// User represents a registered user (for internal storage)
type User struct {
	ID           string    `json:"id"`           // UUID
	Email        string    `json:"email"`        // Email address (unique)
	FirstName    string    `json:"firstName"`    // Optional display name
	PasswordHash string    `json:"passwordHash"` // Bcrypt password hash (stored but not exposed in API)
	CreatedAt    time.Time `json:"createdAt"`    // Registration timestamp, immutable after creation
	LastLoginAt  time.Time `json:"lastLoginAt"`  // Last login timestamp
	Active       bool      `json:"active"`       // Account status
}

// UserResponse represents user data for API responses (excludes sensitive fields)
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	LastLoginAt time.Time `json:"lastLoginAt"`
	Active      bool      `json:"active"`
}

// ToResponse converts User to UserResponse (removes sensitive data)
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
		Active:      u.Active,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email     string `json:"email" example:"user@example.com"`
	FirstName string `json:"firstName" example:"Jane"`
	Password  string `json:"password" example:"SecurePassword123"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"SecurePassword123"`
}

// LoginResponse represents successful login response
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

// RefreshTokenRequest represents token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}
