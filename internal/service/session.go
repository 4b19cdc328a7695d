package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rehome/rehome-go/internal/crypto"
	"github.com/rehome/rehome-go/internal/model"
	"github.com/rehome/rehome-go/internal/repository"
)

var ErrUnauthenticated = errors.New("not authenticated")

// SessionService issues and resolves login sessions. A session is a signed
// token held by the client plus a server-side row; both must agree for a
// request to be authenticated, so logout and the sweeper can revoke tokens
// before their signature expires.
type SessionService struct {
	repo   SessionRepo
	secret string
	ttl    time.Duration
}

// NewSessionService creates a new SessionService.
func NewSessionService(repo SessionRepo, secret string, ttl time.Duration) *SessionService {
	return &SessionService{
		repo:   repo,
		secret: secret,
		ttl:    ttl,
	}
}

// Start creates a session for the user and returns the signed token.
func (s *SessionService) Start(ctx context.Context, userID int64) (string, error) {
	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return "", err
	}

	return crypto.GenerateToken(session.ID, userID, s.secret, s.ttl)
}

// Resolve maps a token to the signed-in user ID, or ErrUnauthenticated.
// Expired sessions are deleted on sight.
func (s *SessionService) Resolve(ctx context.Context, token string) (userID int64, sessionID string, err error) {
	claims, err := crypto.ValidateToken(token, s.secret)
	if err != nil {
		return 0, "", ErrUnauthenticated
	}

	session, err := s.repo.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return 0, "", ErrUnauthenticated
		}
		return 0, "", err
	}

	if session.Expired(time.Now().UTC()) {
		if err := s.repo.Delete(ctx, session.ID); err != nil {
			slog.Warn("failed to delete expired session", "session_id", session.ID, "error", err)
		}
		return 0, "", ErrUnauthenticated
	}

	if session.UserID != claims.UserID {
		return 0, "", ErrUnauthenticated
	}

	return session.UserID, session.ID, nil
}

// Revoke ends a session. Revoking an already-ended session is a no-op.
func (s *SessionService) Revoke(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}

// Sweep deletes all expired sessions.
func (s *SessionService) Sweep(ctx context.Context) {
	n, err := s.repo.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		slog.Warn("session sweep failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("swept expired sessions", "count", n)
	}
}
