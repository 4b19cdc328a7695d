package service

import (
	"context"
	"time"

	"github.com/rehome/rehome-go/internal/model"
	"github.com/rehome/rehome-go/internal/repository"
)

// memStore is an in-memory implementation of the repository interfaces. It
// mirrors the store-level behavior the MySQL layer provides: generated IDs,
// unique indexes reported as duplicate errors, and NotFound sentinels.
type memStore struct {
	nextID    int64
	users     []*model.User
	cases     []*model.Case
	adoptions []*model.AdoptionRecord
	sessions  map[string]*model.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*model.Session)}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// UserRepo

func (m *memStore) Create(ctx context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now().UTC()
	cp := *user
	m.users = append(m.users, &cp)
	return nil
}

func (m *memStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// caseRepo wraps memStore so the Create methods of the different interfaces
// don't collide on the method set.
type caseRepo struct{ *memStore }

func (m caseRepo) Create(ctx context.Context, c *model.Case) error {
	if c.ImageName != model.DefaultImageName {
		for _, existing := range m.cases {
			if existing.ImageName == c.ImageName {
				return repository.ErrDuplicateImage
			}
		}
	}
	c.ID = m.id()
	c.CreatedAt = time.Now().UTC()
	cp := *c
	m.memStore.cases = append(m.memStore.cases, &cp)
	return nil
}

func (m caseRepo) GetByID(ctx context.Context, id int64) (*model.Case, error) {
	for _, c := range m.cases {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrCaseNotFound
}

func (m caseRepo) GetByImageName(ctx context.Context, name string) (*model.Case, error) {
	for _, c := range m.cases {
		if c.ImageName == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrCaseNotFound
}

func (m caseRepo) ListByOwner(ctx context.Context, userID int64) ([]model.Case, error) {
	var out []model.Case
	for _, c := range m.cases {
		if c.PersonID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m caseRepo) ListAdoptableFor(ctx context.Context, userID int64) ([]model.Case, error) {
	adopted := make(map[int64]bool)
	for _, a := range m.adoptions {
		if a.PersonID == userID {
			adopted[a.CaseID] = true
		}
	}

	var out []model.Case
	for _, c := range m.cases {
		if c.PersonID != userID && !adopted[c.ID] {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m caseRepo) ListAdoptedBy(ctx context.Context, userID int64) ([]model.Case, error) {
	var out []model.Case
	for _, a := range m.adoptions {
		if a.PersonID != userID {
			continue
		}
		for _, c := range m.cases {
			if c.ID == a.CaseID {
				out = append(out, *c)
			}
		}
	}
	return out, nil
}

type adoptionRepo struct{ *memStore }

func (m adoptionRepo) Create(ctx context.Context, rec *model.AdoptionRecord) error {
	for _, a := range m.adoptions {
		if a.PersonID == rec.PersonID && a.CaseID == rec.CaseID {
			return repository.ErrDuplicateAdoption
		}
	}
	rec.ID = m.id()
	rec.CreatedAt = time.Now().UTC()
	cp := *rec
	m.memStore.adoptions = append(m.memStore.adoptions, &cp)
	return nil
}

func (m adoptionRepo) Get(ctx context.Context, userID, caseID int64) (*model.AdoptionRecord, error) {
	for _, a := range m.adoptions {
		if a.PersonID == userID && a.CaseID == caseID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrAdoptionNotFound
}

func (m adoptionRepo) Delete(ctx context.Context, userID, caseID int64) error {
	for i, a := range m.adoptions {
		if a.PersonID == userID && a.CaseID == caseID {
			m.memStore.adoptions = append(m.memStore.adoptions[:i], m.memStore.adoptions[i+1:]...)
			return nil
		}
	}
	return repository.ErrAdoptionNotFound
}

type sessionRepo struct{ *memStore }

func (m sessionRepo) Create(ctx context.Context, s *model.Session) error {
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m sessionRepo) Get(ctx context.Context, id string) (*model.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m sessionRepo) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m sessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
