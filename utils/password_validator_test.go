package utils

import (
	"testing"

	"react-app-backend/config"
)

func TestValidatePassword(t *testing.T) {
	rules := config.PasswordRulesConfig{
		MinLength:        8,
		MaxLength:        64,
		RequireUppercase: true,
		RequireDigit:     true,
	}

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "NewPass1", false},
		{"Too short", "Np1", true},
		{"No uppercase", "newpass1", true},
		{"No digit", "NewPassword", true},
		{"Too long", "Aa1" + string(make([]byte, 70)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, rules)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword_DefaultRules(t *testing.T) {
	rules := config.PasswordRulesConfig{MinLength: 8, MaxLength: 128}

	if err := ValidatePassword("longenough", rules); err != nil {
		t.Errorf("ValidatePassword() error = %v, want nil", err)
	}
	if err := ValidatePassword("short", rules); err == nil {
		t.Error("ValidatePassword() with short password: expected error, got nil")
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "user@example.com", false},
		{"Empty", "", true},
		{"No at sign", "userexample.com", true},
		{"Whitespace", "user @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}
