package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"eventrsvp/internal/domain"
)

const maxFirstNameLen = 50

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type rsvpService struct {
	eventRepo domain.EventRepository
	rsvpRepo  domain.RsvpRepository
}

// NewRsvpService creates the RSVP reconciliation engine with the given repositories.
func NewRsvpService(eventRepo domain.EventRepository, rsvpRepo domain.RsvpRepository) domain.RsvpService {
	return &rsvpService{
		eventRepo: eventRepo,
		rsvpRepo:  rsvpRepo,
	}
}

// Submit reconciles a guest submission against any existing response for the
// event. A response is matched by the browser's session token OR, when an
// email was entered, by that email; a guest who RSVP'd on one device and
// returns on another with the same email lands on the same row. Matches are
// updated in place and rebound to the current session token. New GOING
// responses for capacity-limited events go through the repository's atomic
// admission; updates never re-check capacity.
func (s *rsvpService) Submit(ctx context.Context, eventID, sessionToken string, input domain.RsvpInput) (*domain.Rsvp, domain.SubmitOutcome, error) {
	if sessionToken == "" {
		return nil, 0, fmt.Errorf("%w: missing session token", domain.ErrInvalidInput)
	}
	normalized, err := normalizeRsvpInput(input)
	if err != nil {
		return nil, 0, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}

	existing, err := s.rsvpRepo.FindByIdentity(ctx, event.ID, sessionToken, normalized.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, 0, fmt.Errorf("find existing response: %w", err)
	}

	now := time.Now()
	if existing != nil {
		existing.FirstName = normalized.FirstName
		existing.LastInitial = normalized.LastInitial
		existing.Email = normalized.Email
		existing.Status = normalized.Status
		existing.SessionToken = sessionToken
		existing.UpdatedAt = now
		if err := s.rsvpRepo.Update(ctx, existing); err != nil {
			return nil, 0, fmt.Errorf("update response: %w", err)
		}
		return existing, domain.OutcomeUpdated, nil
	}

	rsvp := &domain.Rsvp{
		EventID:      event.ID,
		FirstName:    normalized.FirstName,
		LastInitial:  normalized.LastInitial,
		Email:        normalized.Email,
		Status:       normalized.Status,
		SessionToken: sessionToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if normalized.Status == domain.StatusGoing && event.Capacity != nil {
		if err := s.rsvpRepo.CreateWithCapacity(ctx, rsvp, *event.Capacity); err != nil {
			if errors.Is(err, domain.ErrCapacityExceeded) {
				return nil, 0, domain.ErrCapacityExceeded
			}
			return nil, 0, fmt.Errorf("create response: %w", err)
		}
		return rsvp, domain.OutcomeCreated, nil
	}

	if err := s.rsvpRepo.Create(ctx, rsvp); err != nil {
		return nil, 0, fmt.Errorf("create response: %w", err)
	}
	return rsvp, domain.OutcomeCreated, nil
}

func (s *rsvpService) GetForSession(ctx context.Context, eventID, sessionToken string) (*domain.Rsvp, error) {
	if sessionToken == "" {
		return nil, domain.ErrNotFound
	}
	return s.rsvpRepo.GetBySessionToken(ctx, eventID, sessionToken)
}

// normalizeRsvpInput trims and validates the response fields: first name
// non-empty and at most 50 characters, last initial exactly one letter
// uppercased, email well-formed or absent, status one of the four known values.
func normalizeRsvpInput(input domain.RsvpInput) (domain.RsvpInput, error) {
	out := input

	out.FirstName = strings.TrimSpace(input.FirstName)
	if out.FirstName == "" {
		return out, fmt.Errorf("%w: first name is required", domain.ErrInvalidInput)
	}
	if len(out.FirstName) > maxFirstNameLen {
		return out, fmt.Errorf("%w: first name must be %d characters or less", domain.ErrInvalidInput, maxFirstNameLen)
	}

	initial := []rune(strings.TrimSpace(input.LastInitial))
	if len(initial) != 1 || !unicode.IsLetter(initial[0]) {
		return out, fmt.Errorf("%w: last initial must be a single letter", domain.ErrInvalidInput)
	}
	out.LastInitial = strings.ToUpper(string(initial))

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" {
			out.Email = nil
		} else {
			if !emailRegexp.MatchString(email) {
				return out, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
			}
			out.Email = &email
		}
	}

	if !input.Status.Valid() {
		return out, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
	}
	return out, nil
}
