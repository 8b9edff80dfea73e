package model

import "time"

// Report statuses. A report is terminal once accepted or rejected;
// there is no transition out of either.
const (
	ReportPending  = "pending"
	ReportAccepted = "accepted"
	ReportRejected = "rejected"
)

// Report is a user-submitted tip awaiting triage. Accepting a report
// closes it and opens a brand-new pending Mission for the same target;
// both writes happen in one transaction (see ReportRepo.Accept).
type Report struct {
	ID                uint64     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	TargetURL         string     `json:"target_url"`
	Category          string     `json:"category"`
	Status            string     `json:"status"`
	SubmittedBy       uint64     `json:"submitted_by"`
	SubmittedUsername string     `json:"submitted_username"`
	ReviewedBy        *uint64    `json:"reviewed_by,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	Evidence          *string    `json:"evidence,omitempty"`
}
