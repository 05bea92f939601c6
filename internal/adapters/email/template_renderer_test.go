package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventrsvp/internal/domain"
)

func TestTemplateRenderer_Verification(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	subject, html, text, err := renderer.Render("verification", &domain.VerificationEmailData{
		Email:          "ada@example.com",
		VerifyURL:      "https://rsvp.test/rsvp/verify?token=abc123",
		ExpiresInHours: 24,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sign in to manage your RSVPs", subject)
	assert.Contains(t, html, "https://rsvp.test/rsvp/verify?token=abc123")
	assert.Contains(t, text, "https://rsvp.test/rsvp/verify?token=abc123")
	assert.Contains(t, text, "24")
}

func TestTemplateRenderer_EventNotification(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	subject, html, text, err := renderer.Render("event_notification", &domain.EventNotificationEmailData{
		Email:      "ada@example.com",
		FirstName:  "Ada",
		EventTitle: "Go Meetup",
		EventURL:   "https://rsvp.test/e/go-meetup",
		Subject:    "Venue change",
		Body:       "We moved to the big room.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Venue change", subject)
	assert.Contains(t, html, "We moved to the big room.")
	assert.Contains(t, html, "https://rsvp.test/e/go-meetup")
	assert.Contains(t, text, "Ada")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	_, _, _, err = renderer.Render("no_such_template", nil)
	assert.Error(t, err)
}
