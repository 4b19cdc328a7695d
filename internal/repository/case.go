package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rehome/rehome-go/internal/model"
)

var (
	ErrCaseNotFound   = errors.New("case not found")
	ErrDuplicateImage = errors.New("image name already exists")
)

const caseColumns = `id, person_id, location, description, contact_email, image_name, created_at`

// CaseRepository handles case persistence operations.
type CaseRepository struct {
	db *sql.DB
}

// NewCaseRepository creates a new CaseRepository.
func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// Create inserts a new case and sets the generated ID on the case struct.
func (r *CaseRepository) Create(ctx context.Context, c *model.Case) error {
	query := `INSERT INTO cases (person_id, location, description, contact_email, image_name)
		VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		c.PersonID, c.Location, c.Description, c.ContactEmail, c.ImageName,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateImage
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	c.ID = id
	return nil
}

// GetByID retrieves a case by its ID.
func (r *CaseRepository) GetByID(ctx context.Context, id int64) (*model.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = ?`

	c := &model.Case{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.PersonID, &c.Location, &c.Description, &c.ContactEmail, &c.ImageName, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}

	return c, nil
}

// GetByImageName retrieves a case by its image name. Used for the global
// image-name uniqueness check before an upload is accepted.
func (r *CaseRepository) GetByImageName(ctx context.Context, name string) (*model.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE image_name = ? LIMIT 1`

	c := &model.Case{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&c.ID, &c.PersonID, &c.Location, &c.Description, &c.ContactEmail, &c.ImageName, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}

	return c, nil
}

// ListByOwner retrieves all cases posted by the given user, newest first.
func (r *CaseRepository) ListByOwner(ctx context.Context, userID int64) ([]model.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE person_id = ? ORDER BY created_at DESC, id DESC`

	return r.list(ctx, query, userID)
}

// ListAdoptableFor retrieves all cases not owned by the given user and not
// already adopted by them.
func (r *CaseRepository) ListAdoptableFor(ctx context.Context, userID int64) ([]model.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases
		WHERE person_id != ?
		AND id NOT IN (SELECT case_id FROM adoptions WHERE person_id = ?)
		ORDER BY created_at DESC, id DESC`

	return r.list(ctx, query, userID, userID)
}

// ListAdoptedBy retrieves all cases the given user has adopted, most recent
// adoption first.
func (r *CaseRepository) ListAdoptedBy(ctx context.Context, userID int64) ([]model.Case, error) {
	query := `SELECT c.id, c.person_id, c.location, c.description, c.contact_email, c.image_name, c.created_at
		FROM cases c
		JOIN adoptions a ON a.case_id = c.id
		WHERE a.person_id = ?
		ORDER BY a.created_at DESC, a.id DESC`

	return r.list(ctx, query, userID)
}

func (r *CaseRepository) list(ctx context.Context, query string, args ...any) ([]model.Case, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []model.Case
	for rows.Next() {
		var c model.Case
		if err := rows.Scan(
			&c.ID, &c.PersonID, &c.Location, &c.Description, &c.ContactEmail, &c.ImageName, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}

	return cases, rows.Err()
}
