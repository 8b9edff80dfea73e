package model

import "time"

// Tool is an investigation resource shared with the team: either a
// link (URL set, IsFile false) or an uploaded file stored on disk
// (FilePath/FileName set, IsFile true).
type Tool struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	URL         *string   `json:"url,omitempty"`
	FilePath    *string   `json:"-"`
	FileName    *string   `json:"file_name,omitempty"`
	IsFile      bool      `json:"is_file"`
	CreatedBy   uint64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
