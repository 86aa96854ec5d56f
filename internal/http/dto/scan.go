package dto

import (
	"bmgrades.app/tracker/internal/extraction"
	"bmgrades.app/tracker/internal/gradebook"
	"bmgrades.app/tracker/internal/service"
)

type ScanRequest struct {
	// Image is a base64 data URL of a PNG, JPEG or WebP picture.
	Image    string `json:"image" binding:"required"`
	ScanType string `json:"scanType" binding:"omitempty,oneof=SAL Bulletin sal bulletin"`
}

type ScannedControl struct {
	Subject string  `json:"subject"`
	Date    string  `json:"date,omitempty"`
	Name    string  `json:"name,omitempty"`
	Grade   float64 `json:"grade"`
	EntryID int64   `json:"entry_id,string"`
}

type ScanResponse struct {
	Mode      extraction.Mode `json:"mode"`
	Persisted bool            `json:"persisted"`
	Cached    bool            `json:"cached"`
	Dropped   int             `json:"dropped"`
	Unmatched int             `json:"unmatched"`

	// SAL
	Added      []ScannedControl `json:"added,omitempty"`
	Duplicates int              `json:"duplicates,omitempty"`

	// Bulletin
	Semester int                `json:"semester,omitempty"`
	Applied  map[string]float64 `json:"applied,omitempty"`

	State gradebook.State `json:"state"`
}

func ToScanResponse(m *service.Mutation, res *extraction.Result) *ScanResponse {
	resp := &ScanResponse{
		Mode:      res.Mode,
		Persisted: m.Persisted,
		Cached:    res.Cached,
		Dropped:   res.Dropped,
		State:     m.State,
	}
	if m.SAL != nil {
		resp.Unmatched = m.SAL.Unmatched
		resp.Duplicates = m.SAL.Duplicates
		resp.Added = make([]ScannedControl, 0, len(m.SAL.Added))
		for _, a := range m.SAL.Added {
			resp.Added = append(resp.Added, ScannedControl{
				Subject: a.Subject,
				Date:    a.Control.Date,
				Name:    a.Control.Name,
				Grade:   a.Control.Grade,
				EntryID: a.Entry.ID,
			})
		}
	}
	if m.Bulletin != nil {
		resp.Unmatched = m.Bulletin.Unmatched
		resp.Semester = m.Bulletin.Semester
		resp.Applied = m.Bulletin.Applied
	}
	return resp
}

func ToMutationResponse(m *service.Mutation) *MutationResponse {
	return &MutationResponse{
		State:     m.State,
		Persisted: m.Persisted,
		Entry:     m.Entry,
		Plan:      m.Plan,
	}
}
