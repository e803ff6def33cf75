// Package domain defines the publication types and identity rules
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	perr "lexflow/internal/platform/errors"
	"lexflow/internal/adapters/portal"
)

// Publication statuses; the lifecycle is one-way new -> processed
const (
	StatusNew       = "new"
	StatusProcessed = "processed"
)

// Publication is one court notice captured from the portal
type Publication struct {
	ID              int64  `json:"id"`
	ExternalID      string `json:"external_id"`
	ProcessNumber   string `json:"process_number"`
	Court           string `json:"court"`
	NoticeType      string `json:"notice_type"`
	PublicationDate string `json:"publication_date"`
	CaseClass       string `json:"case_class"`
	Content         string `json:"content"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// ComputeExternalID derives the content-addressed identity of a notice:
// the hex SHA-256 of the dash-joined summary fields. Empty fields still feed
// the hash, so partially scraped rows dedupe consistently
func ComputeExternalID(processNumber, publicationDate, noticeType, court string) string {
	sum := sha256.Sum256([]byte(processNumber + "-" + publicationDate + "-" + noticeType + "-" + court))
	return hex.EncodeToString(sum[:])
}

// FromRawNotice lifts a scraped row into a Publication with its identity set
func FromRawNotice(n portal.RawNotice) Publication {
	return Publication{
		ExternalID:      ComputeExternalID(n.ProcessNumber, n.PublicationDate, n.NoticeType, n.Court),
		ProcessNumber:   n.ProcessNumber,
		Court:           n.Court,
		NoticeType:      n.NoticeType,
		PublicationDate: n.PublicationDate,
		CaseClass:       n.CaseClass,
		Content:         n.Content,
		Status:          StatusNew,
	}
}

// SyncRequest is the operator-provided window for one ingestion run
type SyncRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

const dateLayout = "2006-01-02"

// Validate enforces the date format and ordering before anything is opened
func (r SyncRequest) Validate() error {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "start_date must be YYYY-MM-DD"), "start_date")
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "end_date must be YYYY-MM-DD"), "end_date")
	}
	if start.After(end) {
		return perr.Newf(perr.ErrorCodeValidation, "start_date must not be after end_date")
	}
	return nil
}

// SyncReport summarizes one ingestion run
type SyncReport struct {
	RunID      string `json:"run_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Considered int    `json:"records_considered"`
	Inserted   int    `json:"records_inserted"`
}

// ListQuery filters the publication listing
type ListQuery struct {
	Status string
	Limit  int
}

// Validate rejects unknown status filters and normalizes the limit
func (q *ListQuery) Validate() error {
	switch q.Status {
	case "", StatusNew, StatusProcessed:
	default:
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "status must be new or processed"), "status")
	}
	if q.Limit <= 0 {
		q.Limit = 100
	}
	if q.Limit > 500 {
		q.Limit = 500
	}
	return nil
}
