package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"braidzworld/internal/clock"
	"braidzworld/internal/models"
	"braidzworld/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidCredentials is surfaced as an inline login message.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoSession is returned for absent or expired session tokens.
	ErrNoSession = errors.New("no active session")
)

// Session is the login result: the bearer token plus the admin profile.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Service checks the single configured admin credential and keeps sessions in
// the KV store under session:<token>.
type Service struct {
	email      string
	password   string
	ttl        time.Duration
	loginDelay time.Duration

	kv     storage.KV
	clk    clock.Clock
	logger *zerolog.Logger
}

func NewService(kv storage.KV, clk clock.Clock, logger *zerolog.Logger, email, password string, ttl, loginDelay time.Duration) *Service {
	return &Service{
		email:      email,
		password:   password,
		ttl:        ttl,
		loginDelay: loginDelay,
		kv:         kv,
		clk:        clk,
		logger:     logger,
	}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Login accepts exactly the configured credential pair. On success it mints a
// token and stores the admin profile with the configured TTL.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if err := s.clk.Sleep(ctx, s.loginDelay); err != nil {
		return Session{}, err
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !emailOK || !passwordOK {
		s.logger.Warn().Str("email", email).Msg("login rejected")
		return Session{}, ErrInvalidCredentials
	}

	session := Session{
		Token: uuid.NewString(),
		User: models.User{
			ID:    "admin-1",
			Name:  "Admin",
			Email: s.email,
			Role:  "admin",
		},
	}

	data, err := json.Marshal(session.User)
	if err != nil {
		return Session{}, err
	}
	if err := s.kv.Set(ctx, sessionKey(session.Token), string(data), s.ttl); err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("admin logged in")
	return session, nil
}

// CurrentUser resolves a token to the stored profile.
func (s *Service) CurrentUser(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrNoSession
	}
	raw, err := s.kv.Get(ctx, sessionKey(token))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return models.User{}, ErrNoSession
	}
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		// A corrupt session record is treated as no session.
		s.logger.Error().Err(err).Msg("parse stored session")
		return models.User{}, ErrNoSession
	}
	return user, nil
}

// Logout removes the session.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.kv.Delete(ctx, sessionKey(token))
}
