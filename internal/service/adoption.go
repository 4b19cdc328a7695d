package service

import (
	"context"
	"errors"

	"github.com/rehome/rehome-go/internal/model"
	"github.com/rehome/rehome-go/internal/repository"
)

var (
	ErrSelfAdoption     = errors.New("you cannot adopt your own case")
	ErrAlreadyAdopted   = errors.New("you've already adopted this case")
	ErrAdoptionNotFound = errors.New("adoption record not found")
)

// AdoptionService owns the adoption ledger rules.
type AdoptionService struct {
	cases     CaseRepo
	adoptions AdoptionRepo
}

// NewAdoptionService creates a new AdoptionService.
func NewAdoptionService(cases CaseRepo, adoptions AdoptionRepo) *AdoptionService {
	return &AdoptionService{
		cases:     cases,
		adoptions: adoptions,
	}
}

// Adopt records userID's adoption of caseID. The check order is part of the
// contract so rejections are unambiguous: a missing case reports not-found
// even if the caller would also fail the ownership check, and self-adoption
// reports as such even when a duplicate record exists. The duplicate check
// here is advisory; the store's unique index has the final word, and a
// constraint violation from the insert reports as already-adopted.
func (s *AdoptionService) Adopt(ctx context.Context, userID, caseID int64) (model.AdoptionResponse, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, repository.ErrCaseNotFound) {
			return model.AdoptionResponse{}, ErrCaseNotFound
		}
		return model.AdoptionResponse{}, err
	}

	if c.PersonID == userID {
		return model.AdoptionResponse{}, ErrSelfAdoption
	}

	_, err = s.adoptions.Get(ctx, userID, caseID)
	if err == nil {
		return model.AdoptionResponse{}, ErrAlreadyAdopted
	}
	if !errors.Is(err, repository.ErrAdoptionNotFound) {
		return model.AdoptionResponse{}, err
	}

	rec := &model.AdoptionRecord{
		PersonID: userID,
		CaseID:   caseID,
	}

	if err := s.adoptions.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateAdoption) {
			return model.AdoptionResponse{}, ErrAlreadyAdopted
		}
		return model.AdoptionResponse{}, err
	}

	return model.AdoptionResponse{
		ID:        rec.ID,
		PersonID:  rec.PersonID,
		CaseID:    rec.CaseID,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Unadopt removes userID's adoption of caseID. The deletion is scoped to the
// requesting user, so one user can never remove another's adoption.
func (s *AdoptionService) Unadopt(ctx context.Context, userID, caseID int64) error {
	err := s.adoptions.Delete(ctx, userID, caseID)
	if errors.Is(err, repository.ErrAdoptionNotFound) {
		return ErrAdoptionNotFound
	}
	return err
}

// ListAdoptedBy returns the cases the user has adopted.
func (s *AdoptionService) ListAdoptedBy(ctx context.Context, userID int64) ([]model.CaseResponse, error) {
	cases, err := s.cases.ListAdoptedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return casesToResponse(cases), nil
}
