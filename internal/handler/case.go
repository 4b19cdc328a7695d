package handler

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rehome/rehome-go/internal/middleware"
	"github.com/rehome/rehome-go/internal/model"
	"github.com/rehome/rehome-go/internal/service"
)

const maxImageUploadBytes = 10 << 20 // 10MB

// CaseHandler handles HTTP requests for cases and adoptions.
type CaseHandler struct {
	cases     *service.CaseService
	adoptions *service.AdoptionService
	auth      *service.AuthService
}

// NewCaseHandler creates a new CaseHandler.
func NewCaseHandler(cases *service.CaseService, adoptions *service.AdoptionService, auth *service.AuthService) *CaseHandler {
	return &CaseHandler{cases: cases, adoptions: adoptions, auth: auth}
}

// HandleHome handles GET /api/v1/home requests: the signed-in user's own
// cases and the cases they have adopted.
func (h *CaseHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	owned, err := h.cases.ListOwnedBy(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	adopted, err := h.adoptions.ListAdoptedBy(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, model.HomeResponse{
		User:         user,
		OwnedCases:   owned,
		AdoptedCases: adopted,
	})
}

// HandleCreateCase handles POST /api/v1/cases requests. The body is
// multipart form data: location and description fields plus an optional
// image file part.
func (h *CaseHandler) HandleCreateCase(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		if isBodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid multipart form"))
		return
	}

	req := model.CreateCaseRequest{
		Location:    r.FormValue("location"),
		Description: r.FormValue("description"),
	}

	var upload *service.ImageUpload
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		upload = &service.ImageUpload{Filename: header.Filename, Data: file}
	case errors.Is(err, http.ErrMissingFile):
		// No image: the case gets the default placeholder.
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid image upload"))
		return
	}

	resp, err := h.cases.Create(r.Context(), userID, req, upload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLocationRequired),
			errors.Is(err, service.ErrDescriptionRequired),
			errors.Is(err, service.ErrImageTypeNotAllowed):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrDuplicateImageName):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleListAdoptable handles GET /api/v1/cases/adoptable requests: the
// cases the signed-in user may adopt.
func (h *CaseHandler) HandleListAdoptable(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	cases, err := h.cases.ListAdoptableFor(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, cases)
}

// HandleGetCase handles GET /api/v1/cases/{case_id} requests.
func (h *CaseHandler) HandleGetCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.cases.Get(r.Context(), caseID)
	if err != nil {
		if errors.Is(err, service.ErrCaseNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleCaseImage handles GET /api/v1/cases/{case_id}/image requests,
// streaming the case's image to the client.
func (h *CaseHandler) HandleCaseImage(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}

	rc, name, err := h.cases.OpenImage(r.Context(), caseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaseNotFound), errors.Is(err, service.ErrImageNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", imageContentType(name))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, rc)
}

// HandleAdopt handles POST /api/v1/cases/{case_id}/adopt requests.
func (h *CaseHandler) HandleAdopt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}

	rec, err := h.adoptions.Adopt(r.Context(), userID, caseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaseNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrSelfAdoption):
			writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
		case errors.Is(err, service.ErrAlreadyAdopted):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// HandleUnadopt handles DELETE /api/v1/cases/{case_id}/adopt requests.
func (h *CaseHandler) HandleUnadopt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.adoptions.Unadopt(r.Context(), userID, caseID); err != nil {
		if errors.Is(err, service.ErrAdoptionNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func caseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "case_id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid case id"))
		return 0, false
	}
	return id, true
}

func imageContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
