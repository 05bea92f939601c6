package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventrsvp/internal/domain"
)

const verificationTokenTTL = 24 * time.Hour

type rsvpUserService struct {
	rsvpUserRepo domain.RsvpUserRepository
	tokenRepo    domain.VerificationTokenRepository
	rsvpRepo     domain.RsvpRepository
	emailService domain.EmailService
	baseURL      string
}

// NewRsvpUserService creates the login-by-link service for respondents.
// baseURL is the public origin used to build verification links.
func NewRsvpUserService(
	rsvpUserRepo domain.RsvpUserRepository,
	tokenRepo domain.VerificationTokenRepository,
	rsvpRepo domain.RsvpRepository,
	emailService domain.EmailService,
	baseURL string,
) domain.RsvpUserService {
	return &rsvpUserService{
		rsvpUserRepo: rsvpUserRepo,
		tokenRepo:    tokenRepo,
		rsvpRepo:     rsvpRepo,
		emailService: emailService,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
	}
}

// RequestLoginLink finds or lazily creates the identity for the email, mints a
// fresh single-use token (replacing any live one), and emails the link. The
// result reports only that the request was accepted, not delivery.
func (s *rsvpUserService) RequestLoginLink(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}

	user, err := s.rsvpUserRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get rsvp user: %w", err)
		}
		now := time.Now()
		user = domain.NewRsvpUser(email, now, now)
		if err := s.rsvpUserRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create rsvp user: %w", err)
		}
	}

	token := &domain.VerificationToken{
		Token:      uuid.NewString(),
		RsvpUserID: user.ID,
		ExpiresAt:  time.Now().Add(verificationTokenTTL),
	}
	if err := s.tokenRepo.Replace(ctx, token); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}

	data := &domain.VerificationEmailData{
		Email:          email,
		VerifyURL:      fmt.Sprintf("%s/rsvp/verify?token=%s", s.baseURL, token.Token),
		ExpiresInHours: int(verificationTokenTTL / time.Hour),
	}
	if err := s.emailService.SendVerificationLink(ctx, data); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// VerifyToken consumes a login token. The repository performs the whole
// verification (mark verified, claim matching responses, delete token) as one
// transaction, so a crash can never leave a replayable consumed token.
func (s *rsvpUserService) VerifyToken(ctx context.Context, token string) (*domain.RsvpUser, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidToken
	}
	user, err := s.tokenRepo.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrTokenExpired) {
			return nil, err
		}
		return nil, fmt.Errorf("consume token: %w", err)
	}
	return user, nil
}

func (s *rsvpUserService) ListResponses(ctx context.Context, rsvpUserID string) ([]*domain.RsvpWithEvent, error) {
	if _, err := s.rsvpUserRepo.GetByID(ctx, rsvpUserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rsvp user: %w", err)
	}
	responses, err := s.rsvpRepo.ListByRsvpUserID(ctx, rsvpUserID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return responses, nil
}
