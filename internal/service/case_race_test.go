package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rehome/rehome-go/internal/model"
	"github.com/rehome/rehome-go/internal/repository"
	"github.com/rehome/rehome-go/internal/storage"
)

// racingCaseRepo simulates a concurrent writer slipping between the advisory
// image-name check and the insert: the check never sees the other writer's
// row, so the unique index on the insert is what rejects the duplicate.
type racingCaseRepo struct {
	caseRepo
}

func (r racingCaseRepo) GetByImageName(ctx context.Context, name string) (*model.Case, error) {
	return nil, repository.ErrCaseNotFound
}

func TestCreateCaseDiscardsStagedImageWhenInsertFails(t *testing.T) {
	store := newMemStore()
	images := storage.NewMemoryStore()
	svc := NewCaseService(racingCaseRepo{caseRepo{store}}, store, images)

	alice := addUser(t, store, "alice", "alice@example.com")
	bob := addUser(t, store, "bob", "bob@example.com")

	_, err := svc.Create(context.Background(), alice, model.CreateCaseRequest{
		Location: "l", Description: "d",
	}, &ImageUpload{Filename: "buddy.jpg", Data: strings.NewReader("a")})
	if err != nil {
		t.Fatalf("first Create() unexpected error: %v", err)
	}

	// The advisory check passes, the insert hits the unique index.
	_, err = svc.Create(context.Background(), bob, model.CreateCaseRequest{
		Location: "l", Description: "d",
	}, &ImageUpload{Filename: "buddy.jpg", Data: strings.NewReader("b")})
	if err != ErrDuplicateImageName {
		t.Fatalf("second Create() error = %v, want ErrDuplicateImageName", err)
	}

	if len(store.cases) != 1 {
		t.Errorf("store has %d cases, want 1", len(store.cases))
	}
	if images.StagedCount() != 0 {
		t.Errorf("StagedCount() = %d, want 0 (staged upload must be discarded on insert failure)", images.StagedCount())
	}
}
