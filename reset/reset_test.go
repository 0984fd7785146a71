package reset

import (
	"strings"
	"testing"
	"time"

	"react-app-backend/model"
)

func testUser() *model.User {
	return &model.User{
		ID:           "42",
		Email:        "user@example.com",
		PasswordHash: "h0",
		CreatedAt:    time.Unix(1700000000, 0),
	}
}

func TestSecretDerivation(t *testing.T) {
	user := testUser()

	got := string(Secret(user))
	want := "h0-1700000000"
	if got != want {
		t.Errorf("Secret() = %q, want %q", got, want)
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	m := NewManager(time.Hour)
	user := testUser()

	token, err := m.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	if err := m.VerifyToken(user, token); err != nil {
		t.Errorf("VerifyToken() error = %v, want nil", err)
	}
}

func TestVerify_FailsAfterPasswordChange(t *testing.T) {
	m := NewManager(time.Hour)
	user := testUser()

	token, err := m.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	// Credential hash changes, e.g. the token was already consumed once
	user.PasswordHash = "h1"

	if err := m.VerifyToken(user, token); err != ErrInvalidToken {
		t.Errorf("VerifyToken() after hash change = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_FailsAfterExpiry(t *testing.T) {
	m := NewManager(time.Hour)
	user := testUser()

	issuedAt := time.Unix(1700000000, 0)
	m.now = func() time.Time { return issuedAt }

	token, err := m.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	// Within the window the token is still good
	m.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	if err := m.VerifyToken(user, token); err != nil {
		t.Errorf("VerifyToken() within window = %v, want nil", err)
	}

	// Past the window it must fail even with an unchanged hash
	m.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	if err := m.VerifyToken(user, token); err != ErrInvalidToken {
		t.Errorf("VerifyToken() after expiry = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_FailsForDifferentUser(t *testing.T) {
	m := NewManager(time.Hour)
	user := testUser()

	token, err := m.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	// Same credentials, different identity
	other := testUser()
	other.ID = "43"

	if err := m.VerifyToken(other, token); err != ErrInvalidToken {
		t.Errorf("VerifyToken() with mismatched identity = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_FailsForTamperedToken(t *testing.T) {
	m := NewManager(time.Hour)
	user := testUser()

	token, err := m.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"Garbage", "not-a-token"},
		{"Empty", ""},
		{"Truncated", token[:len(token)-5]},
		{"Flipped signature byte", token[:len(token)-1] + flip(token[len(token)-1:])},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.VerifyToken(user, tt.token); err != ErrInvalidToken {
				t.Errorf("VerifyToken(%q) = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}

func TestIssueToken_RequiresPasswordHash(t *testing.T) {
	m := NewManager(time.Hour)
	user := testUser()
	user.PasswordHash = ""

	if _, err := m.IssueToken(user); err == nil {
		t.Error("IssueToken() with empty hash: expected error, got nil")
	}
}

func TestResetURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		want string
	}{
		{"Plain base", "http://localhost:5000", "http://localhost:5000/42/tok"},
		{"Trailing slash", "http://localhost:5000/", "http://localhost:5000/42/tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResetURL(tt.base, "42", "tok"); got != tt.want {
				t.Errorf("ResetURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

// flip returns a different base64url character than the input's first one
func flip(s string) string {
	if strings.HasPrefix(s, "A") {
		return "B"
	}
	return "A"
}
