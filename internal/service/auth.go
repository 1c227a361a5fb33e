package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/events"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/hash"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/logging"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/tokens"
)

// UserStore is the credential store contract. All operations are atomic
// at the single-row level, no cross-row transaction is assumed.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, u *models.User) error
	SetRefreshToken(ctx context.Context, userID uint, token *string) error
	SetRole(ctx context.Context, userID uint, role models.Role) error
	SetBlocked(ctx context.Context, userID uint, blocked bool) error
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

type AuthService struct {
	Store  UserStore
	Tokens *tokens.Issuer
	Events Publisher
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Signup registers a new identity. The very first user in an empty store
// becomes admin, everyone after that starts as a plain user. The
// existence count and the insert are two separate statements: two
// concurrent first signups can both observe an empty store and both be
// granted admin. Known race, kept as-is.
func (s *AuthService) Signup(ctx context.Context, email, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	if email == "" || username == "" || password == "" {
		return nil, ErrValidation
	}

	if _, err := s.Store.FindUserByUsernameOrEmail(ctx, username, email); err == nil {
		l.Warn("signup_failed", "reason", "identity_taken")
		return nil, ErrDuplicateIdentity
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("signup_failed", "reason", "store_error", "error", err)
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("signup_failed", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	count, err := s.Store.CountUsers(ctx)
	if err != nil {
		l.Error("signup_failed", "reason", "store_error", "error", err)
		return nil, err
	}
	role := models.RoleUser
	if count == 0 {
		role = models.RoleAdmin
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.Store.CreateUser(ctx, user); err != nil {
		l.Error("signup_failed", "reason", "store_error", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUserEvents, user.Email, map[string]interface{}{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})

	l.Info("signup_success", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Signin verifies credentials and issues an access/refresh pair. The
// refresh token is persisted on the user row, overwriting any prior
// value, so only the most recently issued refresh token stays valid.
// Unknown email and wrong password produce the same error.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signin")

	user, err := s.Store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("signin_failed", "reason", "invalid email or password")
			return nil, ErrInvalidCredentials
		}
		l.Error("signin_failed", "reason", "store_error", "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("signin_failed", "reason", "invalid email or password")
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.Tokens.Access(user.Email)
	if err != nil {
		l.Error("signin_failed", "reason", "cannot create token", "error", err)
		return nil, err
	}
	refreshToken, err := s.Tokens.Refresh(user.Email)
	if err != nil {
		l.Error("signin_failed", "reason", "cannot create token", "error", err)
		return nil, err
	}

	if err := s.Store.SetRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		l.Error("signin_failed", "reason", "cannot persist refresh token", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUserEvents, user.Email, map[string]interface{}{
		"type":     "user_signed_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	l.Info("signin_success", "user_id", user.ID)
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// Refresh trades a valid refresh token for a new access token. The token
// must verify, carry the refresh scope, and exactly match the value
// stored on the user row. Refresh tokens are not rotated here. The
// stored-value comparison is a read-then-check with no lock, a refresh
// racing a signout can succeed against a token invalidated moments
// before.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Tokens.Parse(refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "reason", "token_invalid", "error", err)
		return "", ErrInvalidToken
	}
	if claims.Scope != tokens.ScopeRefresh {
		l.Warn("refresh_failed", "reason", "wrong_scope")
		return "", ErrInvalidToken
	}

	user, err := s.Store.FindUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_failed", "reason", "unknown_subject")
			return "", ErrInvalidToken
		}
		l.Error("refresh_failed", "reason", "store_error", "error", err)
		return "", err
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		l.Warn("refresh_failed", "reason", "stale_refresh_token", "user_id", user.ID)
		return "", ErrInvalidToken
	}

	accessToken, err := s.Tokens.Access(user.Email)
	if err != nil {
		l.Error("refresh_failed", "reason", "cannot create token", "error", err)
		return "", err
	}

	l.Info("refresh_success", "user_id", user.ID)
	return accessToken, nil
}

// Signout clears the stored refresh token, invalidating every refresh
// token issued to the user so far. Always succeeds for a valid user.
func (s *AuthService) Signout(ctx context.Context, user *models.User) error {
	l := logging.FromContext(ctx).With("svc", "auth.signout")

	if err := s.Store.SetRefreshToken(ctx, user.ID, nil); err != nil {
		l.Error("signout_failed", "reason", "store_error", "error", err)
		return err
	}

	l.Info("signout_success", "user_id", user.ID)
	return nil
}

// publish delivers a domain event best-effort. A nil producer or a
// delivery failure never fails the calling request.
func publish(ctx context.Context, p Publisher, topic, key string, event map[string]interface{}) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "error", err)
	}
}
