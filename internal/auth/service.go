// Package auth implements account registration, credential login, the
// refresh flow and Google sign-in on top of the token manager, the
// session store and the user store.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goShop/internal/metrics"
	"github.com/MrEthical07/goShop/internal/password"
	"github.com/MrEthical07/goShop/internal/session"
	"github.com/MrEthical07/goShop/internal/store"
	"github.com/MrEthical07/goShop/internal/token"
)

// UserStore is the persistence surface the auth service needs. *store.DB
// satisfies it; tests substitute an in-memory fake.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*store.User, error)
	CreateGoogleUser(ctx context.Context, name, email, googleID string) (*store.User, error)
	UserByEmail(ctx context.Context, email string) (*store.User, error)
	UserByID(ctx context.Context, id string) (*store.User, error)
	UserByGoogleID(ctx context.Context, googleID string) (*store.User, error)
	LinkGoogleID(ctx context.Context, userID, googleID string) error
}

// TokenPair carries the two freshly signed tokens for one session.
type TokenPair struct {
	Access  string
	Refresh string
}

// Service wires the auth flows together.
type Service struct {
	users    UserStore
	tokens   *token.Manager
	sessions *session.Store
	metrics  *metrics.Metrics
}

// NewService builds the auth service. metrics may be nil.
func NewService(users UserStore, tokens *token.Manager, sessions *session.Store, m *metrics.Metrics) *Service {
	return &Service{users: users, tokens: tokens, sessions: sessions, metrics: m}
}

// Signup registers a local account and opens a session for it.
func (s *Service) Signup(ctx context.Context, name, email, plaintext string) (*store.User, TokenPair, error) {
	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, TokenPair{}, err
	}
	user, err := s.users.CreateUser(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			s.metrics.IncAuthFailure("signup_duplicate")
			return nil, TokenPair{}, ErrUserExists
		}
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueSession(ctx, user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.metrics.IncSignup()
	return user, pair, nil
}

// Login verifies credentials and opens a session. Unknown emails and wrong
// passwords both map to ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, plaintext string) (*store.User, TokenPair, error) {
	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.metrics.IncAuthFailure("login_unknown_email")
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}
	if !password.Verify(user.PasswordHash, plaintext) {
		s.metrics.IncAuthFailure("login_bad_password")
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.IssueSession(ctx, user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.metrics.IncLogin()
	return user, pair, nil
}

// IssueSession signs a fresh token pair and records the refresh token
// server-side. Any previous session for the user is overwritten.
func (s *Service) IssueSession(ctx context.Context, userID string) (TokenPair, error) {
	access, refresh, err := s.tokens.IssuePair(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}
	if err := s.sessions.SaveRefreshToken(ctx, userID, refresh); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Logout tears down the session named by the refresh token. A missing
// token is not an error; logout is idempotent.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return fmt.Errorf("decode refresh token: %w", err)
	}
	return s.sessions.DeleteRefreshToken(ctx, userID)
}

// RefreshAccessToken validates the presented refresh token against the
// signature and the server-side session record, then signs a new access
// token. The refresh token itself is not rotated.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		s.metrics.IncAuthFailure("refresh_missing")
		return "", ErrNoRefreshToken
	}
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", fmt.Errorf("decode refresh token: %w", err)
	}
	ok, err := s.sessions.ValidateRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		return "", err
	}
	if !ok {
		s.metrics.IncAuthFailure("refresh_mismatch")
		return "", ErrRefreshMismatch
	}
	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	s.metrics.IncRefresh()
	return access, nil
}

// ResolveGoogleUser finds or provisions an account for a verified Google
// identity. An existing local account with the same email is linked
// rather than duplicated.
func (s *Service) ResolveGoogleUser(ctx context.Context, googleID, email, name string) (*store.User, error) {
	user, err := s.users.UserByGoogleID(ctx, googleID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	user, err = s.users.UserByEmail(ctx, email)
	if err == nil {
		if err := s.users.LinkGoogleID(ctx, user.ID, googleID); err != nil {
			return nil, err
		}
		user.GoogleID = googleID
		return user, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	return s.users.CreateGoogleUser(ctx, name, email, googleID)
}
