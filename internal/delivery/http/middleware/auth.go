package middleware

import (
	"context"
	"net/http"
	"strings"

	h "eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"
)

type contextKey string

const (
	organizerIDKey contextKey = "organizerID"
	rsvpUserIDKey  contextKey = "rsvpUserID"
)

// SetOrganizerID returns a context with the organizer ID set. Used by auth middleware.
func SetOrganizerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, organizerIDKey, id)
}

// OrganizerIDFromContext returns the authenticated organizer ID from the context, if present.
func OrganizerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(organizerIDKey).(string)
	return id, ok
}

// SetRsvpUserID returns a context with the verified respondent ID set.
func SetRsvpUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, rsvpUserIDKey, id)
}

// RsvpUserIDFromContext returns the verified respondent ID from the context, if present.
func RsvpUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(rsvpUserIDKey).(string)
	return id, ok
}

// RequireOrganizer returns a wrapper that validates the Bearer token and sets
// the organizer ID in the request context. If the token is missing or invalid,
// it responds with 401 and does not call next.
func RequireOrganizer(verifier domain.TokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			organizerID, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetOrganizerID(r.Context(), organizerID))
			next(w, r)
		}
	}
}

// RequireRsvpSession returns a wrapper that validates the respondent session
// cookie and sets the respondent ID in the request context.
func RequireRsvpSession(verifier domain.TokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(RsvpUserSessionCookie)
			if err != nil || c.Value == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing session")
				return
			}
			rsvpUserID, err := verifier.Verify(c.Value)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired session")
				return
			}
			r = r.WithContext(SetRsvpUserID(r.Context(), rsvpUserID))
			next(w, r)
		}
	}
}
