package model

// ForgotPasswordRequest starts the password reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"user@example.com"`
}

// ResetPasswordRequest carries the new password; the user ID and reset token
// arrive as path parameters from the emailed link
type ResetPasswordRequest struct {
	Password string `json:"password" example:"NewSecurePassword123"`
}
