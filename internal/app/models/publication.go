package models

import "time"

// PublicationStatus is the visibility state of the term's allocation snapshot.
type PublicationStatus string

const (
	PublicationDraft     PublicationStatus = "DRAFT"
	PublicationPublished PublicationStatus = "PUBLISHED"
)

// PublicationState is the singleton row gating student access to the
// schedule. There is no reverse transition; republishing only refreshes
// PublishedAt.
type PublicationState struct {
	ID          int64             `json:"id" db:"id"`
	Status      PublicationStatus `json:"status" db:"status"`
	PublishedAt *time.Time        `json:"publishedAt,omitempty" db:"published_at"`
	PublisherID *int64            `json:"publisherId,omitempty" db:"publisher_id"`
}

// Published reports whether students may see the allocation snapshot.
func (p *PublicationState) Published() bool {
	return p.Status == PublicationPublished
}
