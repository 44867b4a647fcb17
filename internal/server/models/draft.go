// Package models defines the server-side entities: drafts with their
// append-only version history, usage ledger records, and catalog model
// descriptors.
package models

import "time"

// Draft statuses. Unknown values are tolerated on filters (empty result)
// but never produced by the server.
const (
	StatusDraft     = "draft"
	StatusFinal     = "final"
	StatusPublished = "published"
)

// Draft is a persisted newsletter document. Content always mirrors the
// latest version's content and CurrentVersion always equals the highest
// existing version number for the draft.
type Draft struct {
	ID             string    `json:"id"`
	Title          string    `json:"title,omitempty"`
	Content        string    `json:"content"`
	Status         string    `json:"status"`
	ModelUsed      string    `json:"model_used,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	CurrentVersion int       `json:"version"`
}

// Version is one immutable snapshot in a draft's history. For a given draft
// the version numbers form the contiguous range 1..N.
type Version struct {
	ID             string    `json:"id"`
	DraftID        string    `json:"draft_id"`
	VersionNumber  int       `json:"version_number"`
	Content        string    `json:"content"`
	ChangesSummary string    `json:"changes_summary,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
