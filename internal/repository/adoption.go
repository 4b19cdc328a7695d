package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rehome/rehome-go/internal/model"
)

var (
	ErrAdoptionNotFound  = errors.New("adoption record not found")
	ErrDuplicateAdoption = errors.New("adoption record already exists")
)

// AdoptionRepository handles adoption ledger persistence operations.
type AdoptionRepository struct {
	db *sql.DB
}

// NewAdoptionRepository creates a new AdoptionRepository.
func NewAdoptionRepository(db *sql.DB) *AdoptionRepository {
	return &AdoptionRepository{db: db}
}

// Create inserts a new adoption record and sets the generated ID. The
// (person_id, case_id) unique index makes this the authoritative duplicate
// check under concurrent requests; a constraint violation is returned as
// ErrDuplicateAdoption.
func (r *AdoptionRepository) Create(ctx context.Context, rec *model.AdoptionRecord) error {
	query := `INSERT INTO adoptions (person_id, case_id) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, rec.PersonID, rec.CaseID)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateAdoption
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	rec.ID = id
	return nil
}

// Get retrieves the adoption record for a (user, case) pair.
func (r *AdoptionRepository) Get(ctx context.Context, userID, caseID int64) (*model.AdoptionRecord, error) {
	query := `SELECT id, person_id, case_id, created_at FROM adoptions WHERE person_id = ? AND case_id = ?`

	rec := &model.AdoptionRecord{}
	err := r.db.QueryRowContext(ctx, query, userID, caseID).Scan(
		&rec.ID, &rec.PersonID, &rec.CaseID, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdoptionNotFound
		}
		return nil, err
	}

	return rec, nil
}

// Delete removes the adoption record for a (user, case) pair. The lookup is
// scoped by userID, so a user can only ever delete their own adoptions.
func (r *AdoptionRepository) Delete(ctx context.Context, userID, caseID int64) error {
	query := `DELETE FROM adoptions WHERE person_id = ? AND case_id = ?`

	result, err := r.db.ExecContext(ctx, query, userID, caseID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrAdoptionNotFound
	}

	return nil
}
