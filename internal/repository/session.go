package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rehome/rehome-go/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository handles server-side session persistence.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session row.
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	query := `INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.ExpiresAt)
	return err
}

// Get retrieves a session by its ID.
func (r *SessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	query := `SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?`

	s := &model.Session{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.ExpiresAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return s, nil
}

// Delete removes a session row. Deleting a missing session is not an error;
// logout is idempotent.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// DeleteExpired removes all sessions past the given time and returns how
// many were deleted.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= ?`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
