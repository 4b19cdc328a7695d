package model

import "time"

// DefaultImageName is stored for cases posted without an image. Unlike real
// uploads it is shared by any number of cases.
const DefaultImageName = "default.jpg"

// Case represents a posted rehoming case in the database. ContactEmail is a
// snapshot of the owner's email at creation time and is never re-synced.
type Case struct {
	ID           int64
	PersonID     int64
	Location     string
	Description  string
	ContactEmail string
	ImageName    string
	CreatedAt    time.Time
}

// CreateCaseRequest represents the form fields of a case creation request.
// The optional image arrives as a separate multipart file part.
type CreateCaseRequest struct {
	Location    string
	Description string
}

// CaseResponse represents a case in API responses.
type CaseResponse struct {
	ID           int64     `json:"id"`
	PersonID     int64     `json:"person_id"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	ContactEmail string    `json:"contact_email"`
	ImageName    string    `json:"image_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// HomeResponse is the signed-in landing view: the user's own cases plus the
// cases they have adopted.
type HomeResponse struct {
	User         UserResponse   `json:"user"`
	OwnedCases   []CaseResponse `json:"owned_cases"`
	AdoptedCases []CaseResponse `json:"adopted_cases"`
}
