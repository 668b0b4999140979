package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"leavedesk-backend/internal/config"
	"leavedesk-backend/internal/domain"
	"leavedesk-backend/internal/metrics"
	"leavedesk-backend/internal/session"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type AuthService struct {
	Config  config.Config
	Session *session.Store
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         domain.Identity
	ExpiresAt    time.Time
}

type LoginInput struct {
	Email    string
	Password string
}

type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword string
}

type RefreshInput struct {
	RefreshToken string
}

func (s AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := simulateLatency(ctx, s.Config.SimulatedLatency); err != nil {
		return nil, err
	}
	user, err := s.Session.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		s.Metrics.Logins.WithLabelValues("login", outcome(err)).Inc()
		return nil, err
	}
	s.Metrics.Logins.WithLabelValues("login", "ok").Inc()
	s.Logger.Info("signed in", "user_id", user.ID, "role", user.Role)
	return s.issueTokens(user)
}

// Signup checks the confirmation before touching the session store.
func (s AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if in.Password != in.ConfirmPassword {
		s.Metrics.Logins.WithLabelValues("signup", "password_mismatch").Inc()
		return nil, domain.ErrPasswordMismatch
	}
	if err := simulateLatency(ctx, s.Config.SimulatedLatency); err != nil {
		return nil, err
	}
	user, err := s.Session.Register(ctx, in.Email, in.Password)
	if err != nil {
		s.Metrics.Logins.WithLabelValues("signup", outcome(err)).Inc()
		return nil, err
	}
	s.Metrics.Logins.WithLabelValues("signup", "ok").Inc()
	s.Logger.Info("identity registered", "user_id", user.ID, "email", user.Email)
	return s.issueTokens(user)
}

func (s AuthService) Refresh(ctx context.Context, in RefreshInput) (*AuthResult, error) {
	token, err := jwt.Parse(in.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.Config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims["token_type"] != "refresh" {
		return nil, ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.Session.Lookup(sub)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.issueTokens(user)
}

func (s AuthService) Logout(ctx context.Context) error {
	if err := s.Session.Deauthenticate(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.Logger.Info("signed out")
	return nil
}

// Current returns the persisted signed-in identity.
func (s AuthService) Current() (domain.Identity, bool) {
	return s.Session.Current()
}

func (s AuthService) issueTokens(user domain.Identity) (*AuthResult, error) {
	now := time.Now()
	accessExp := now.Add(s.Config.AccessTokenTTL)
	refreshExp := now.Add(s.Config.RefreshTokenTTL)

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        user.ID,
		"email":      user.Email,
		"role":       string(user.Role),
		"token_type": "access",
		"exp":        accessExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        user.ID,
		"token_type": "refresh",
		"exp":        refreshExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.Public(),
		ExpiresAt:    accessExp,
	}, nil
}
