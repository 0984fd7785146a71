// Package reset implements the stateless password reset token scheme.
//
// Tokens are signed with a per-user secret derived from the user's current
// password hash and creation timestamp. The secret is never stored; it is
// recomputed on issuance and again on verification, so any password change
// invalidates every previously issued token. There is no token table and no
// revocation list.
package reset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"react-app-backend/model"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers signature mismatch, expiry, and identity mismatch.
// Callers get one failure mode; the distinction only appears in logs.
var ErrInvalidToken = errors.New("invalid or expired reset token")

// Manager issues and verifies reset tokens with a fixed lifetime.
type Manager struct {
	ttl time.Duration
	now func() time.Time
}

// NewManager creates a reset token manager with the given token lifetime.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{ttl: ttl, now: time.Now}
}

type resetClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Secret derives the per-user signing secret: the current password hash
// joined with the creation timestamp in Unix seconds. The timestamp
// serialization must stay stable across issuance and verification.
func Secret(user *model.User) []byte {
	return []byte(user.PasswordHash + "-" + strconv.FormatInt(user.CreatedAt.Unix(), 10))
}

// IssueToken produces a signed, time-boxed token for the given user. The
// user record must carry a non-empty password hash.
func (m *Manager) IssueToken(user *model.User) (string, error) {
	if user.PasswordHash == "" {
		return "", errors.New("user has no password hash")
	}

	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, resetClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	return token.SignedString(Secret(user))
}

// VerifyToken checks a presented token against the secret recomputed from the
// user's current state. A token signed before a password change fails here
// because the recomputed secret no longer matches.
func (m *Manager) VerifyToken(user *model.User, tokenString string) error {
	claims := &resetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return Secret(user), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	if claims.UserID != user.ID {
		return ErrInvalidToken
	}
	return nil
}

// ResetURL builds the link embedded in the reset email: {base}/{userID}/{token}
func ResetURL(base, userID, token string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), userID, token)
}
