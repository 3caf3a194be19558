package domain

import (
	"errors"
	"time"
)

// Status is the lifecycle stage of a project.
type Status string

const (
	StatusActive    Status = "active"
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is one of the known project statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusUpcoming, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

var (
	ErrNotFound        = errors.New("project not found")
	ErrUnauthenticated = errors.New("caller not authenticated")
)

// Project is a single tracked project. It lives in the owner's project
// subcollection; Slug is unique within that subcollection only, never globally.
type Project struct {
	ID            string    `firestore:"-" json:"id"`
	Name          string    `firestore:"name" json:"name"`
	Slug          string    `firestore:"slug" json:"slug"`
	Owner         string    `firestore:"owner" json:"owner"`
	OwnerID       string    `firestore:"ownerUid" json:"ownerUid"`
	IsPublic      bool      `firestore:"isPublic" json:"isPublic"`
	Details       string    `firestore:"details" json:"details,omitempty"`
	EstimatedTime string    `firestore:"estimatedTime" json:"estimatedTime,omitempty"`
	AvailableTime string    `firestore:"availableTime" json:"availableTime,omitempty"`
	Timeline      string    `firestore:"timeline" json:"timeline,omitempty"`
	Status        Status    `firestore:"status" json:"status"`
	Archived      bool      `firestore:"archived" json:"archived"`
	ArchiveReason string    `firestore:"archiveReason" json:"archiveReason,omitempty"`
	CreatedAt     time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt,serverTimestamp" json:"updatedAt"`
}

// Visible reports whether requesterID may view p. Private projects are
// visible to their owner only; an empty requesterID is an anonymous caller.
func Visible(p *Project, requesterID string) bool {
	if p == nil {
		return false
	}
	return p.IsPublic || (requesterID != "" && requesterID == p.OwnerID)
}

// Patch enumerates the fields a caller may change on a project. Nil means
// "leave as is". Slug is not settable from outside: the service recomputes it
// when Name changes.
type Patch struct {
	Name          *string
	IsPublic      *bool
	Details       *string
	EstimatedTime *string
	AvailableTime *string
	Timeline      *string
	Status        *Status
	Archived      *bool
	ArchiveReason *string

	slug *string
}

// SetSlug records a recomputed slug on the patch. Only the service layer
// calls this.
func (p *Patch) SetSlug(slug string) { p.slug = &slug }

// Slug returns the recomputed slug, if any.
func (p *Patch) Slug() *string { return p.slug }

// Empty reports whether the patch changes nothing.
func (p *Patch) Empty() bool {
	return p.Name == nil && p.IsPublic == nil && p.Details == nil &&
		p.EstimatedTime == nil && p.AvailableTime == nil && p.Timeline == nil &&
		p.Status == nil && p.Archived == nil && p.ArchiveReason == nil && p.slug == nil
}
