package store

import (
	"context"
	"encoding/json"
	"errors"

	"react-app-backend/cache"
	"react-app-backend/model"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

const (
	userKeyPrefix  = "user:"       // user:{id} -> user JSON
	emailKeyPrefix = "user:email:" // user:email:{email} -> user ID
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserStore persists user records in Redis, keyed by ID with an email index.
// An optional in-process cache fronts read paths; it is invalidated on every
// write so credential updates are never served stale.
type UserStore struct {
	redis *redis.Client
	cache *cache.Cache
}

// NewUserStore creates a user store. cache may be nil to disable caching.
func NewUserStore(rdb *redis.Client, c *cache.Cache) *UserStore {
	return &UserStore{redis: rdb, cache: c}
}

// Create stores a new user record and its email index entry. The email index
// is claimed first with SETNX so two concurrent registrations of the same
// address cannot both succeed.
func (s *UserStore) Create(ctx context.Context, user model.User) error {
	claimed, err := s.redis.SetNX(ctx, emailKeyPrefix+user.Email, user.ID, 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return ErrEmailTaken
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, userKeyPrefix+user.ID, userJSON, 0).Err(); err != nil {
		// Roll back the index claim so the address is not orphaned
		s.redis.Del(ctx, emailKeyPrefix+user.Email)
		return err
	}
	return nil
}

// FindByID looks up a user by ID
func (s *UserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	if cached, found := s.cache.Get(userKeyPrefix + id); found {
		user := cached.(model.User)
		return &user, nil
	}

	data, err := s.redis.Get(ctx, userKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, err
	}

	s.cache.Set(userKeyPrefix+id, user, int64(len(data)))
	return &user, nil
}

// FindByEmail looks up a user through the email index
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	id, err := s.redis.Get(ctx, emailKeyPrefix+email).Result()
	if err == redis.Nil {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// UpdatePasswordHash replaces the credential hash of exactly one user record.
// CreatedAt and all other fields are preserved.
func (s *UserStore) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	data, err := s.redis.Get(ctx, userKeyPrefix+id).Result()
	if err == redis.Nil {
		return ErrUserNotFound
	} else if err != nil {
		return err
	}

	var user model.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return err
	}

	user.PasswordHash = hash
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, userKeyPrefix+id, userJSON, 0).Err(); err != nil {
		return err
	}

	s.cache.Delete(userKeyPrefix + id)
	log.Info().Str("user_id", id).Msg("Password hash updated")
	return nil
}

// Touch persists LastLoginAt. Only that field is taken from the caller's
// copy; everything else is re-read from the store so a login racing a
// credential update cannot write back a stale hash. Failures are logged but
// not fatal to the caller's request.
func (s *UserStore) Touch(ctx context.Context, user *model.User) {
	data, err := s.redis.Get(ctx, userKeyPrefix+user.ID).Result()
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to read user record")
		return
	}

	var current model.User
	if err := json.Unmarshal([]byte(data), &current); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to parse user record")
		return
	}

	current.LastLoginAt = user.LastLoginAt
	userJSON, err := json.Marshal(current)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, userKeyPrefix+user.ID, userJSON, 0).Err(); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to update user record")
		return
	}
	s.cache.Delete(userKeyPrefix + user.ID)
}
