package model

import "time"

// Mission statuses. The only permitted transitions are
// pending → in_progress → completed; StatusFailed is part of the
// schema but no current path produces it (the automatic monitor
// completes dead targets instead of failing them).
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Mission categories. Stored as free strings in the DB; these
// constants cover the set the frontend offers.
const (
	CategoryScam           = "scam"
	CategoryFraud          = "fraud"
	CategoryPhishing       = "phishing"
	CategoryMalware        = "malware"
	CategoryWhatsappGroup  = "whatsapp_group"
	CategoryIllegalContent = "illegal_content"
	CategoryTrojan         = "trojan"
	CategorySpyware        = "spyware"
	CategoryMaliciousAPK   = "malicious_apk"
	CategoryOther          = "other"
)

// Mission is a takedown task against a malicious URL. A mission is
// unassigned while pending; AssignedTo/AssignedUsername are set by the
// accept transition and CompletedAt by the completion transition, so
// both are non-nil exactly when the status says they must be.
//
// SiteStatus holds the HTTP status code of the last liveness probe,
// with 0 meaning the target did not respond at all.
type Mission struct {
	ID               uint64     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TargetURL        string     `json:"target_url"`
	Category         string     `json:"category"`
	Priority         string     `json:"priority"`
	Status           string     `json:"status"`
	SiteStatus       int        `json:"site_status"`
	AssignedTo       *uint64    `json:"assigned_to,omitempty"`
	AssignedUsername *string    `json:"assigned_username,omitempty"`
	CreatedBy        uint64     `json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Evidence         *string    `json:"evidence,omitempty"`
}
