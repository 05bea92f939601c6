package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"eventrsvp/internal/domain"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 2000
	maxLocationLen    = 200
)

type eventService struct {
	eventRepo domain.EventRepository
	rsvpRepo  domain.RsvpRepository
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(eventRepo domain.EventRepository, rsvpRepo domain.RsvpRepository) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		rsvpRepo:  rsvpRepo,
	}
}

func (s *eventService) Create(ctx context.Context, organizerID string, event *domain.Event) error {
	if organizerID == "" {
		return domain.ErrUnauthorized
	}
	if err := validateEventFields(event.Title, event.Description, event.Location, event.Capacity); err != nil {
		return err
	}
	if event.DateTime.IsZero() {
		return fmt.Errorf("%w: date/time is required", domain.ErrInvalidInput)
	}

	slug, err := generateSlug()
	if err != nil {
		return fmt.Errorf("generate slug: %w", err)
	}

	now := time.Now()
	event.Slug = slug
	event.OrganizerID = organizerID
	event.Published = true
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetForOrganizer(ctx context.Context, organizerID, eventID string) (*domain.Event, error) {
	return s.ownedEvent(ctx, organizerID, eventID)
}

func (s *eventService) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, organizerID, eventID string, update *domain.EventUpdate) (*domain.Event, error) {
	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		event.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		event.Description = strings.TrimSpace(*update.Description)
	}
	if update.DateTime != nil {
		event.DateTime = *update.DateTime
	}
	if update.Location != nil {
		event.Location = strings.TrimSpace(*update.Location)
	}
	if update.ClearCapacity {
		event.Capacity = nil
	} else if update.Capacity != nil {
		event.Capacity = update.Capacity
	}
	if update.Published != nil {
		event.Published = *update.Published
	}

	if err := validateEventFields(event.Title, event.Description, event.Location, event.Capacity); err != nil {
		return nil, err
	}

	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, organizerID, eventID string) error {
	if _, err := s.ownedEvent(ctx, organizerID, eventID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) SetImage(ctx context.Context, organizerID, eventID, imagePath string) error {
	if _, err := s.ownedEvent(ctx, organizerID, eventID); err != nil {
		return err
	}
	if err := s.eventRepo.SetImagePath(ctx, eventID, imagePath); err != nil {
		return fmt.Errorf("set image path: %w", err)
	}
	return nil
}

// GetPublicBySlug serves the guest event page: the event plus the current
// GOING count and, for capacity-limited events, the seats remaining.
func (s *eventService) GetPublicBySlug(ctx context.Context, slug string) (*domain.EventPublicView, error) {
	event, err := s.eventRepo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	if !event.Published {
		return nil, domain.ErrNotFound
	}

	going, err := s.rsvpRepo.CountByStatus(ctx, event.ID, domain.StatusGoing)
	if err != nil {
		return nil, fmt.Errorf("count going responses: %w", err)
	}

	view := &domain.EventPublicView{Event: event, GoingCount: going}
	if event.Capacity != nil {
		left := *event.Capacity - going
		if left < 0 {
			left = 0
		}
		view.SeatsLeft = &left
	}
	return view, nil
}

func (s *eventService) ListRsvps(ctx context.Context, organizerID, eventID string) ([]*domain.Rsvp, error) {
	if _, err := s.ownedEvent(ctx, organizerID, eventID); err != nil {
		return nil, err
	}
	rsvps, err := s.rsvpRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return rsvps, nil
}

func (s *eventService) ownedEvent(ctx context.Context, organizerID, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != organizerID {
		return nil, domain.ErrNotFound
	}
	return event, nil
}

func validateEventFields(title, description, location string, capacity *int) error {
	if strings.TrimSpace(title) == "" || len(title) > maxTitleLen {
		return fmt.Errorf("%w: title is required and must be %d characters or less", domain.ErrInvalidInput, maxTitleLen)
	}
	if len(description) > maxDescriptionLen {
		return fmt.Errorf("%w: description must be %d characters or less", domain.ErrInvalidInput, maxDescriptionLen)
	}
	if strings.TrimSpace(location) == "" || len(location) > maxLocationLen {
		return fmt.Errorf("%w: location is required and must be %d characters or less", domain.ErrInvalidInput, maxLocationLen)
	}
	if capacity != nil && *capacity <= 0 {
		return fmt.Errorf("%w: capacity must be a positive number", domain.ErrInvalidInput)
	}
	return nil
}

const slugLength = 10

var slugAlphabet = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func generateSlug() (string, error) {
	b := make([]rune, slugLength)
	max := big.NewInt(int64(len(slugAlphabet)))
	for i := 0; i < slugLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = slugAlphabet[n.Int64()]
	}
	return string(b), nil
}
