package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	subjectID string
	err       error
}

func (f *fakeTokenVerifier) Verify(_ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.subjectID, nil
}

func TestRequireOrganizer(t *testing.T) {
	tests := []struct {
		name          string
		authHeader    string
		verifier      domain.TokenVerifier
		wantStatus    int
		wantBodyCode  string
		nextCalled    bool
		wantContextID string
	}{
		{
			name:          "valid token sets context and calls next",
			authHeader:    "Bearer valid-token",
			verifier:      &fakeTokenVerifier{subjectID: "org-123"},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantContextID: "org-123",
		},
		{
			name:         "missing authorization header",
			authHeader:   "",
			verifier:     &fakeTokenVerifier{subjectID: "org-123"},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "invalid authorization format no Bearer prefix",
			authHeader:   "Basic abc",
			verifier:     &fakeTokenVerifier{subjectID: "org-123"},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "empty token after Bearer",
			authHeader:   "Bearer ",
			verifier:     &fakeTokenVerifier{subjectID: "org-123"},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "verifier returns error",
			authHeader:   "Bearer bad-token",
			verifier:     &fakeTokenVerifier{err: errors.New("invalid or expired token")},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if id, ok := OrganizerIDFromContext(r.Context()); ok {
					capturedID = id
				}
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireOrganizer(tt.verifier)(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/events", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled && tt.wantContextID != "" {
				assert.Equal(t, tt.wantContextID, capturedID, "organizer ID in context")
			}
			if tt.wantStatus != http.StatusOK && tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestRequireRsvpSession(t *testing.T) {
	tests := []struct {
		name          string
		cookie        *http.Cookie
		verifier      domain.TokenVerifier
		wantStatus    int
		nextCalled    bool
		wantContextID string
	}{
		{
			name:          "valid session cookie",
			cookie:        &http.Cookie{Name: RsvpUserSessionCookie, Value: "signed-token"},
			verifier:      &fakeTokenVerifier{subjectID: "ru-123"},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantContextID: "ru-123",
		},
		{
			name:       "missing cookie",
			verifier:   &fakeTokenVerifier{subjectID: "ru-123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty cookie value",
			cookie:     &http.Cookie{Name: RsvpUserSessionCookie, Value: ""},
			verifier:   &fakeTokenVerifier{subjectID: "ru-123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid session token",
			cookie:     &http.Cookie{Name: RsvpUserSessionCookie, Value: "tampered"},
			verifier:   &fakeTokenVerifier{err: errors.New("signature mismatch")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if id, ok := RsvpUserIDFromContext(r.Context()); ok {
					capturedID = id
				}
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireRsvpSession(tt.verifier)(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/rsvp/me/responses", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled {
				assert.Equal(t, tt.wantContextID, capturedID, "respondent ID in context")
			}
		})
	}
}
