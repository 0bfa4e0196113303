package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/calebw/tasklist-api/internal/config"
	"github.com/calebw/tasklist-api/internal/domain"
	"github.com/calebw/tasklist-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionService owns the session lifecycle: login, token refresh, logout,
// and the per-request authorization check.
type SessionService struct {
	repos *repository.Repositories
	cfg   *config.Config
}

func NewSessionService(repos *repository.Repositories, cfg *config.Config) *SessionService {
	return &SessionService{
		repos: repos,
		cfg:   cfg,
	}
}

type LoginInput struct {
	Username string
	Password string
}

// SessionTokens is the payload returned by Login and Refresh. Expiries are
// durations in seconds, not absolute timestamps.
type SessionTokens struct {
	SessionID          int64  `json:"session_id"`
	AccessToken        string `json:"access_token"`
	AccessTokenExpiry  int    `json:"access_token_expiry"`
	RefreshToken       string `json:"refresh_token"`
	RefreshTokenExpiry int    `json:"refresh_token_expiry"`
}

// Login verifies credentials and creates a new session. Failed password
// checks increment the user's attempt counter; the third failure locks the
// account. The attempts reset and session insert commit atomically.
func (s *SessionService) Login(ctx context.Context, input LoginInput) (*SessionTokens, error) {
	// Brute-force throttle: every login attempt pays this floor.
	time.Sleep(s.cfg.LoginDelay)

	user, err := s.repos.User.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.Active {
		return nil, domain.ErrAccountInactive
	}

	// Lockout is checked before password verification so a locked account
	// never reveals whether the supplied password was correct.
	if user.LoginAttempts >= s.cfg.MaxLoginAttempts {
		return nil, domain.ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if err := s.repos.User.IncrementLoginAttempts(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to record login attempt: %w", err)
		}
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	refreshToken, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.Session{
		UserID:             user.ID,
		AccessToken:        accessToken,
		AccessTokenExpiry:  now.Add(s.cfg.AccessTokenTTL),
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: now.Add(s.cfg.RefreshTokenTTL),
		CreatedAt:          now,
	}

	// The attempts reset and the session insert must commit together: a
	// crash between them would otherwise clear the counter with no session
	// to show for it.
	err = s.repos.Tx.WithinTransaction(ctx, func(repos *repository.Repositories) error {
		if err := repos.User.ResetLoginAttempts(ctx, user.ID); err != nil {
			return err
		}
		return repos.Session.Create(ctx, session)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.tokensFor(session), nil
}

// Refresh rotates the session's token pair. The caller presents the expired
// or expiring access token alongside the still-valid refresh token; all
// three identifiers must match the stored row exactly.
func (s *SessionService) Refresh(ctx context.Context, sessionID int64, accessToken, refreshToken string) (*SessionTokens, error) {
	session, err := s.repos.Session.GetByTokenTriple(ctx, sessionID, accessToken, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	user, err := s.repos.User.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.Active {
		return nil, domain.ErrAccountInactive
	}
	if user.LoginAttempts >= s.cfg.MaxLoginAttempts {
		return nil, domain.ErrAccountLocked
	}

	// Only the refresh token's own expiry gates this operation; the access
	// token is expected to have expired already.
	if session.RefreshTokenExpiry.Before(time.Now()) {
		return nil, domain.ErrRefreshTokenExpired
	}

	newAccess, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	newRefresh, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rows, err := s.repos.Session.Rotate(ctx, session,
		newAccess, now.Add(s.cfg.AccessTokenTTL),
		newRefresh, now.Add(s.cfg.RefreshTokenTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to rotate tokens: %w", err)
	}
	if rows == 0 {
		// A concurrent refresh already rotated this pair.
		return nil, domain.ErrRefreshConflict
	}

	session.AccessToken = newAccess
	session.RefreshToken = newRefresh
	return s.tokensFor(session), nil
}

// Logout deletes the session matching both id and access token. A repeated
// call with the same pair correctly fails with ErrSessionNotFound.
func (s *SessionService) Logout(ctx context.Context, sessionID int64, accessToken string) error {
	rows, err := s.repos.Session.Delete(ctx, sessionID, accessToken)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Authorize resolves a bearer token to the owning user's id. Every task
// operation is scoped by the id this returns; the gate never refreshes an
// expired token itself.
func (s *SessionService) Authorize(ctx context.Context, accessToken string) (int64, error) {
	if accessToken == "" {
		return 0, domain.ErrMissingToken
	}

	session, err := s.repos.Session.GetByAccessToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrInvalidToken
		}
		return 0, fmt.Errorf("failed to look up session: %w", err)
	}

	user, err := s.repos.User.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrInvalidToken
		}
		return 0, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.Active {
		return 0, domain.ErrAccountInactive
	}
	if session.AccessTokenExpiry.Before(time.Now()) {
		return 0, domain.ErrAccessTokenExpired
	}
	if user.LoginAttempts >= s.cfg.MaxLoginAttempts {
		return 0, domain.ErrAccountLocked
	}

	return user.ID, nil
}

func (s *SessionService) tokensFor(session *domain.Session) *SessionTokens {
	return &SessionTokens{
		SessionID:          session.ID,
		AccessToken:        session.AccessToken,
		AccessTokenExpiry:  int(s.cfg.AccessTokenTTL.Seconds()),
		RefreshToken:       session.RefreshToken,
		RefreshTokenExpiry: int(s.cfg.RefreshTokenTTL.Seconds()),
	}
}
