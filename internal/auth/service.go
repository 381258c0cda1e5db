// Package auth registers and logs in users and resolves the current actor
// from a session token.
package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahsanfayaz52/sharednotes/internal/errs"
	"github.com/ahsanfayaz52/sharednotes/internal/models"
	"github.com/ahsanfayaz52/sharednotes/internal/store"
)

const (
	maxUsernameLength = 20
	maxEmailLength    = 120
	searchLimit       = 5
)

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type Service struct {
	store   *store.Store
	jwt     *JWTService
	revoker Revoker
	now     func() time.Time
}

func NewService(st *store.Store, jwt *JWTService, revoker Revoker) *Service {
	if revoker == nil {
		revoker = NoopRevoker{}
	}
	return &Service{store: st, jwt: jwt, revoker: revoker, now: time.Now}
}

func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, errs.Validation("Please fill all fields")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return nil, errs.Validation("Username must be at most %d characters", maxUsernameLength)
	}
	if len(email) > maxEmailLength {
		return nil, errs.Validation("Email must be at most %d characters", maxEmailLength)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errs.Validation("Invalid email address")
	}

	if _, err := s.store.UserByUsername(ctx, username); err == nil {
		return nil, errs.Conflict("Username already exists. Please choose a different one.")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, errs.Store("check username", err)
	}
	if _, err := s.store.UserByEmail(ctx, email); err == nil {
		return nil, errs.Conflict("Email already registered. Please log in.")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, errs.Store("check email", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Validation("Password cannot be used")
	}

	user := &models.User{Username: username, Email: email, Password: string(hashed)}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, errs.Conflict("Username or email already registered")
		}
		return nil, errs.Store("create user", err)
	}

	zap.L().Info("user registered", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	invalid := errs.Unauthenticated("Login Unsuccessful. Please check email and password")

	user, err := s.store.UserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, errs.Store("load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalid
	}

	token, claims, err := s.jwt.GenerateToken(user.ID, user.Username, s.now())
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt, User: user}, nil
}

// CurrentActor returns the user a session token belongs to.
func (s *Service) CurrentActor(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, errs.Unauthenticated("Authentication required")
	}
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, errs.Unauthenticated("Invalid or expired session")
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		// A Redis outage should not lock every user out.
		zap.L().Warn("token revocation check failed", zap.Error(err))
	}
	if revoked {
		return nil, errs.Unauthenticated("Session has been logged out")
	}

	user, err := s.store.UserByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.Unauthenticated("Invalid or expired session")
	}
	if err != nil {
		return nil, errs.Store("load user", err)
	}
	return user, nil
}

// Logout revokes the token for the rest of its lifetime. Invalid tokens are
// ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return errs.Store("revoke token", err)
	}
	return nil
}

// SearchUsernames suggests share targets: up to five usernames containing
// q, ignoring case, never the actor.
func (s *Service) SearchUsernames(ctx context.Context, actor *models.User, q string) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []string{}, nil
	}
	names, err := s.store.SearchUsernames(ctx, q, actor.ID, searchLimit)
	if err != nil {
		return nil, errs.Store("search users", err)
	}
	return names, nil
}
