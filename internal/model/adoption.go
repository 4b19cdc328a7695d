package model

import "time"

// AdoptionRecord states that PersonID has adopted CaseID. At most one record
// may exist per (PersonID, CaseID) pair; the store enforces this with a
// unique index.
type AdoptionRecord struct {
	ID        int64
	PersonID  int64
	CaseID    int64
	CreatedAt time.Time
}

// AdoptionResponse represents an adoption record in API responses.
type AdoptionResponse struct {
	ID        int64     `json:"id"`
	PersonID  int64     `json:"person_id"`
	CaseID    int64     `json:"case_id"`
	CreatedAt time.Time `json:"created_at"`
}
