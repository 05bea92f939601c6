package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
)

type mockRsvpService struct {
	rsvp      *domain.Rsvp
	outcome   domain.SubmitOutcome
	submitErr error
	getErr    error

	gotEventID      string
	gotSessionToken string
	gotInput        domain.RsvpInput
}

func (m *mockRsvpService) Submit(ctx context.Context, eventID, sessionToken string, input domain.RsvpInput) (*domain.Rsvp, domain.SubmitOutcome, error) {
	m.gotEventID = eventID
	m.gotSessionToken = sessionToken
	m.gotInput = input
	if m.submitErr != nil {
		return nil, 0, m.submitErr
	}
	return m.rsvp, m.outcome, nil
}

func (m *mockRsvpService) GetForSession(ctx context.Context, eventID, sessionToken string) (*domain.Rsvp, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.rsvp, nil
}

func newRsvpController(svc domain.RsvpService) *RsvpController {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewRsvpController(logger, svc, &middleware.Sessions{})
}

func submitRequest(t *testing.T, ctrl *RsvpController, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/events/ev-1/rsvps", strings.NewReader(body))
	req.SetPathValue("eventID", "ev-1")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	ctrl.Submit(w, req)
	return w
}

func TestRsvpController_Submit_Created(t *testing.T) {
	svc := &mockRsvpService{
		rsvp:    &domain.Rsvp{ID: "rsvp-1", EventID: "ev-1", FirstName: "Ada", LastInitial: "L", Status: domain.StatusGoing},
		outcome: domain.OutcomeCreated,
	}
	ctrl := newRsvpController(svc)

	w := submitRequest(t, ctrl, `{"first_name":"Ada","last_initial":"L","status":"GOING"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if svc.gotEventID != "ev-1" {
		t.Fatalf("expected event ID ev-1, got %q", svc.gotEventID)
	}
	if svc.gotSessionToken == "" {
		t.Fatal("expected a minted session token for a cookieless request")
	}

	// The session cookie is issued so the browser is recognized next time.
	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AnonSessionCookie {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("expected the anonymous session cookie to be set")
	}
	if sessionCookie.Value != svc.gotSessionToken {
		t.Fatalf("cookie token %q does not match the submitted session %q", sessionCookie.Value, svc.gotSessionToken)
	}
}

func TestRsvpController_Submit_UpdateReturnsOK(t *testing.T) {
	svc := &mockRsvpService{
		rsvp:    &domain.Rsvp{ID: "rsvp-1", EventID: "ev-1", Status: domain.StatusMaybe},
		outcome: domain.OutcomeUpdated,
	}
	ctrl := newRsvpController(svc)

	cookie := &http.Cookie{Name: middleware.AnonSessionCookie, Value: "sess-1"}
	w := submitRequest(t, ctrl, `{"first_name":"Ada","last_initial":"L","status":"MAYBE"}`, cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if svc.gotSessionToken != "sess-1" {
		t.Fatalf("expected the existing session token, got %q", svc.gotSessionToken)
	}

	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %T", resp.Data)
	}
	if data["is_update"] != true {
		t.Fatal("expected is_update to be true")
	}
}

func TestRsvpController_Submit_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		submitErr  error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "event not found",
			body:       `{"first_name":"Ada","last_initial":"L","status":"GOING"}`,
			submitErr:  domain.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
		{
			name:       "capacity exceeded",
			body:       `{"first_name":"Ada","last_initial":"L","status":"GOING"}`,
			submitErr:  domain.ErrCapacityExceeded,
			wantStatus: http.StatusConflict,
			wantCode:   helpers.ErrCodeCapacityExceeded,
		},
		{
			name:       "invalid input",
			body:       `{"first_name":"Ada","last_initial":"L","status":"GOING"}`,
			submitErr:  domain.ErrInvalidInput,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "missing fields rejected before the service",
			body:       `{"first_name":"Ada"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "unknown fields rejected",
			body:       `{"first_name":"Ada","last_initial":"L","status":"GOING","admin":true}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockRsvpService{submitErr: tt.submitErr}
			ctrl := newRsvpController(svc)

			w := submitRequest(t, ctrl, tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var resp helpers.APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Fatalf("expected error code %q, got %+v", tt.wantCode, resp.Error)
			}
			// No cookie on failure.
			if len(w.Result().Cookies()) != 0 {
				t.Fatal("expected no cookies on a failed submission")
			}
		})
	}
}

func TestRsvpController_GetMine(t *testing.T) {
	t.Run("no cookie means no response", func(t *testing.T) {
		ctrl := newRsvpController(&mockRsvpService{})
		req := httptest.NewRequest(http.MethodGet, "/events/ev-1/rsvps/me", nil)
		req.SetPathValue("eventID", "ev-1")
		w := httptest.NewRecorder()

		ctrl.GetMine(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})

	t.Run("returns the session's response", func(t *testing.T) {
		svc := &mockRsvpService{rsvp: &domain.Rsvp{ID: "rsvp-1", EventID: "ev-1", Status: domain.StatusGoing}}
		ctrl := newRsvpController(svc)
		req := httptest.NewRequest(http.MethodGet, "/events/ev-1/rsvps/me", nil)
		req.SetPathValue("eventID", "ev-1")
		req.AddCookie(&http.Cookie{Name: middleware.AnonSessionCookie, Value: "sess-1"})
		w := httptest.NewRecorder()

		ctrl.GetMine(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		svc := &mockRsvpService{getErr: domain.ErrNotFound}
		ctrl := newRsvpController(svc)
		req := httptest.NewRequest(http.MethodGet, "/events/ev-1/rsvps/me", nil)
		req.SetPathValue("eventID", "ev-1")
		req.AddCookie(&http.Cookie{Name: middleware.AnonSessionCookie, Value: "sess-x"})
		w := httptest.NewRecorder()

		ctrl.GetMine(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})
}
