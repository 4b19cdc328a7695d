package service

import (
	"context"
	"time"

	"github.com/rehome/rehome-go/internal/model"
)

// Repository interfaces consumed by the services. internal/repository
// provides the MySQL implementations; tests substitute in-memory fakes.

type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type CaseRepo interface {
	Create(ctx context.Context, c *model.Case) error
	GetByID(ctx context.Context, id int64) (*model.Case, error)
	GetByImageName(ctx context.Context, name string) (*model.Case, error)
	ListByOwner(ctx context.Context, userID int64) ([]model.Case, error)
	ListAdoptableFor(ctx context.Context, userID int64) ([]model.Case, error)
	ListAdoptedBy(ctx context.Context, userID int64) ([]model.Case, error)
}

type AdoptionRepo interface {
	Create(ctx context.Context, rec *model.AdoptionRecord) error
	Get(ctx context.Context, userID, caseID int64) (*model.AdoptionRecord, error)
	Delete(ctx context.Context, userID, caseID int64) error
}

type SessionRepo interface {
	Create(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
