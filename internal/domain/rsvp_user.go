package domain

import (
	"context"
	"time"
)

// RsvpUser is an email-backed identity a guest can claim to manage their
// responses across events. Created lazily on the first login-link request;
// EmailVerified is set when a verification token is consumed.
// swagger:model RsvpUser
type RsvpUser struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	EmailVerified *time.Time `json:"email_verified,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewRsvpUser returns an unverified identity for the email. ID is set by the
// repository on create.
func NewRsvpUser(email string, createdAt, updatedAt time.Time) *RsvpUser {
	return &RsvpUser{
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// VerificationToken is a single-use emailed login token bound to one RsvpUser.
// At most one live token exists per user; requesting a new link invalidates
// prior ones.
type VerificationToken struct {
	ID         string
	Token      string
	RsvpUserID string
	ExpiresAt  time.Time
}

// RsvpUserRepository defines the interface for verified-identity storage.
type RsvpUserRepository interface {
	GetByEmail(ctx context.Context, email string) (*RsvpUser, error)
	GetByID(ctx context.Context, id string) (*RsvpUser, error)
	Create(ctx context.Context, user *RsvpUser) error
}

// VerificationTokenRepository defines the interface for login-token storage.
//
// Replace deletes any existing tokens for the user and stores the new one in a
// single transaction. Consume performs the whole verification as one
// transaction: it loads the token, fails with ErrInvalidToken when absent,
// deletes the token and fails with ErrTokenExpired when past expiry, and
// otherwise marks the user's email verified, links all responses sharing the
// user's email (and not yet linked) to the user, and deletes the token.
type VerificationTokenRepository interface {
	Replace(ctx context.Context, token *VerificationToken) error
	Consume(ctx context.Context, token string) (*RsvpUser, error)
}

// RsvpUserService is the login-by-link flow for respondents.
type RsvpUserService interface {
	RequestLoginLink(ctx context.Context, email string) error
	VerifyToken(ctx context.Context, token string) (*RsvpUser, error)
	ListResponses(ctx context.Context, rsvpUserID string) ([]*RsvpWithEvent, error)
}
