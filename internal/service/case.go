package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/rehome/rehome-go/internal/model"
	"github.com/rehome/rehome-go/internal/repository"
	"github.com/rehome/rehome-go/internal/storage"
)

var (
	ErrLocationRequired    = errors.New("location is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrCaseNotFound        = errors.New("case not found")
	ErrDuplicateImageName  = errors.New("image name already exists, rename the file and try again")
	ErrImageTypeNotAllowed = errors.New("only .jpg, .jpeg and .png images are allowed")
	ErrImageNotFound       = errors.New("image not found")
)

// ImageUpload is an incoming image file part.
type ImageUpload struct {
	Filename string
	Data     io.Reader
}

// CaseService handles case business logic.
type CaseService struct {
	cases  CaseRepo
	users  UserRepo
	images storage.ImageStore
}

// NewCaseService creates a new CaseService.
func NewCaseService(cases CaseRepo, users UserRepo, images storage.ImageStore) *CaseService {
	return &CaseService{
		cases:  cases,
		users:  users,
		images: images,
	}
}

// Create posts a new case for ownerID. The contact email is snapshotted from
// the owner's account at this moment and never updated afterwards. When an
// image accompanies the request it is staged first and only promoted to its
// final name once the record is committed; a failed insert discards the
// staged bytes so the store never holds orphans.
func (s *CaseService) Create(ctx context.Context, ownerID int64, req model.CreateCaseRequest, upload *ImageUpload) (model.CaseResponse, error) {
	if strings.TrimSpace(req.Location) == "" {
		return model.CaseResponse{}, ErrLocationRequired
	}
	if strings.TrimSpace(req.Description) == "" {
		return model.CaseResponse{}, ErrDescriptionRequired
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return model.CaseResponse{}, err
	}

	imageName := model.DefaultImageName
	var staged storage.Staged

	if upload != nil {
		imageName, err = s.checkImageName(ctx, upload.Filename)
		if err != nil {
			return model.CaseResponse{}, err
		}

		staged, err = s.images.Stage(ctx, upload.Data)
		if err != nil {
			return model.CaseResponse{}, err
		}
	}

	c := &model.Case{
		PersonID:     ownerID,
		Location:     req.Location,
		Description:  req.Description,
		ContactEmail: owner.Email,
		ImageName:    imageName,
	}

	if err := s.cases.Create(ctx, c); err != nil {
		if staged != nil {
			if derr := staged.Discard(ctx); derr != nil {
				slog.Warn("failed to discard staged image", "error", derr)
			}
		}
		if errors.Is(err, repository.ErrDuplicateImage) {
			return model.CaseResponse{}, ErrDuplicateImageName
		}
		return model.CaseResponse{}, err
	}

	if staged != nil {
		if err := staged.Promote(ctx, imageName); err != nil {
			// The record is committed; losing the promotion leaves the case
			// without its image, which Open reports as not found.
			slog.Error("failed to promote staged image", "case_id", c.ID, "image", imageName, "error", err)
			return model.CaseResponse{}, err
		}
	}

	return caseToResponse(c), nil
}

// checkImageName sanitizes the upload filename and enforces the extension
// whitelist and the global uniqueness rule. The default placeholder name is
// reserved and never accepted as an upload name.
func (s *CaseService) checkImageName(ctx context.Context, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrImageTypeNotAllowed
	}

	name, err := storage.SanitizeName(filename)
	if err != nil {
		return "", ErrImageTypeNotAllowed
	}
	if name == model.DefaultImageName {
		return "", ErrDuplicateImageName
	}

	_, err = s.cases.GetByImageName(ctx, name)
	if err == nil {
		return "", ErrDuplicateImageName
	}
	if !errors.Is(err, repository.ErrCaseNotFound) {
		return "", err
	}

	return name, nil
}

// Get retrieves a single case.
func (s *CaseService) Get(ctx context.Context, caseID int64) (model.CaseResponse, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, repository.ErrCaseNotFound) {
			return model.CaseResponse{}, ErrCaseNotFound
		}
		return model.CaseResponse{}, err
	}
	return caseToResponse(c), nil
}

// ListOwnedBy returns all cases posted by the user.
func (s *CaseService) ListOwnedBy(ctx context.Context, userID int64) ([]model.CaseResponse, error) {
	cases, err := s.cases.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return casesToResponse(cases), nil
}

// ListAdoptableFor returns the cases the user can adopt: everything not
// posted by them and not already adopted by them.
func (s *CaseService) ListAdoptableFor(ctx context.Context, userID int64) ([]model.CaseResponse, error) {
	cases, err := s.cases.ListAdoptableFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return casesToResponse(cases), nil
}

// OpenImage opens the image of a case for streaming to the client. The
// caller must close the returned reader.
func (s *CaseService) OpenImage(ctx context.Context, caseID int64) (io.ReadCloser, string, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, repository.ErrCaseNotFound) {
			return nil, "", ErrCaseNotFound
		}
		return nil, "", err
	}

	rc, err := s.images.Open(ctx, c.ImageName)
	if err != nil {
		if errors.Is(err, storage.ErrImageNotFound) {
			return nil, "", ErrImageNotFound
		}
		return nil, "", err
	}

	return rc, c.ImageName, nil
}

func caseToResponse(c *model.Case) model.CaseResponse {
	return model.CaseResponse{
		ID:           c.ID,
		PersonID:     c.PersonID,
		Location:     c.Location,
		Description:  c.Description,
		ContactEmail: c.ContactEmail,
		ImageName:    c.ImageName,
		CreatedAt:    c.CreatedAt,
	}
}

func casesToResponse(cases []model.Case) []model.CaseResponse {
	result := make([]model.CaseResponse, len(cases))
	for i := range cases {
		result[i] = caseToResponse(&cases[i])
	}
	return result
}
