package domain

import (
	"context"
	"time"
)

// Event represents an event created by an organizer. Slug is the public short
// code used in shareable links; it is minted on create and never changes.
// Capacity is nil for unlimited events.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DateTime    time.Time `json:"date_time"`
	Location    string    `json:"location"`
	Capacity    *int      `json:"capacity,omitempty"`
	ImagePath   string    `json:"image_path,omitempty"`
	Published   bool      `json:"published"`
	OrganizerID string    `json:"organizer_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventUpdate holds the mutable event fields for a partial update. Nil fields
// are left unchanged; ClearCapacity removes the capacity limit.
type EventUpdate struct {
	Title         *string
	Description   *string
	DateTime      *time.Time
	Location      *string
	Capacity      *int
	ClearCapacity bool
	Published     *bool
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	SetImagePath(ctx context.Context, id, imagePath string) error
	Delete(ctx context.Context, id string) error
}

// EventPublicView is the guest-facing view of an event, including how many
// seats remain. SeatsLeft is nil when the event has no capacity.
// swagger:model EventPublicView
type EventPublicView struct {
	Event      *Event `json:"event"`
	GoingCount int    `json:"going_count"`
	SeatsLeft  *int   `json:"seats_left,omitempty"`
}

// EventService defines organizer-facing event management plus the public read
// used by the guest event page.
type EventService interface {
	Create(ctx context.Context, organizerID string, event *Event) error
	GetForOrganizer(ctx context.Context, organizerID, eventID string) (*Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]*Event, error)
	Update(ctx context.Context, organizerID, eventID string, update *EventUpdate) (*Event, error)
	Delete(ctx context.Context, organizerID, eventID string) error
	SetImage(ctx context.Context, organizerID, eventID, imagePath string) error
	GetPublicBySlug(ctx context.Context, slug string) (*EventPublicView, error)
	ListRsvps(ctx context.Context, organizerID, eventID string) ([]*Rsvp, error)
}
