package domain

import (
	"context"
	"time"
)

// RsvpStatus is a guest's attendance status. Only StatusGoing counts against
// an event's capacity.
type RsvpStatus string

const (
	StatusGoing            RsvpStatus = "GOING"
	StatusMaybe            RsvpStatus = "MAYBE"
	StatusInterestedFuture RsvpStatus = "INTERESTED_IN_FUTURE"
	StatusNotGoing         RsvpStatus = "NOT_GOING"
)

// Valid reports whether s is one of the four known statuses.
func (s RsvpStatus) Valid() bool {
	switch s {
	case StatusGoing, StatusMaybe, StatusInterestedFuture, StatusNotGoing:
		return true
	}
	return false
}

// Rsvp is a guest's response to an event. SessionToken identifies the browser
// that created or last updated the response; Email and RsvpUserID are set only
// when the guest supplied or claimed an email identity.
// swagger:model Rsvp
type Rsvp struct {
	ID           string     `json:"id"`
	EventID      string     `json:"event_id"`
	FirstName    string     `json:"first_name"`
	LastInitial  string     `json:"last_initial"`
	Email        *string    `json:"email,omitempty"`
	Status       RsvpStatus `json:"status"`
	SessionToken string     `json:"-"`
	RsvpUserID   *string    `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// RsvpInput is the validated response payload for a submission.
type RsvpInput struct {
	FirstName   string
	LastInitial string
	Email       *string
	Status      RsvpStatus
}

// SubmitOutcome reports whether a submission created a new response or
// updated an existing one.
type SubmitOutcome int

const (
	OutcomeCreated SubmitOutcome = iota
	OutcomeUpdated
)

// RsvpWithEvent pairs a response with a summary of its event, for the
// cross-event manage view.
// swagger:model RsvpWithEvent
type RsvpWithEvent struct {
	Rsvp  *Rsvp  `json:"rsvp"`
	Event *Event `json:"event"`
}

// RsvpRepository defines the interface for response storage.
//
// FindByIdentity resolves the "existing response" for a submission: it matches
// by session token OR by email within a single event, preferring an exact
// session-token match when both axes hit different rows.
//
// CreateWithCapacity atomically admits a new response against the event's
// capacity: it must guarantee that the count of GOING rows never exceeds
// capacity even under concurrent submissions, returning ErrCapacityExceeded
// without writing when the event is full.
type RsvpRepository interface {
	FindByIdentity(ctx context.Context, eventID, sessionToken string, email *string) (*Rsvp, error)
	GetBySessionToken(ctx context.Context, eventID, sessionToken string) (*Rsvp, error)
	Create(ctx context.Context, rsvp *Rsvp) error
	CreateWithCapacity(ctx context.Context, rsvp *Rsvp, capacity int) error
	Update(ctx context.Context, rsvp *Rsvp) error
	CountByStatus(ctx context.Context, eventID string, status RsvpStatus) (int, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Rsvp, error)
	ListByStatusWithEmail(ctx context.Context, eventID string, statuses []RsvpStatus) ([]*Rsvp, error)
	ListByRsvpUserID(ctx context.Context, rsvpUserID string) ([]*RsvpWithEvent, error)
}

// RsvpService is the reconciliation engine for guest submissions.
type RsvpService interface {
	Submit(ctx context.Context, eventID, sessionToken string, input RsvpInput) (*Rsvp, SubmitOutcome, error)
	GetForSession(ctx context.Context, eventID, sessionToken string) (*Rsvp, error)
}
