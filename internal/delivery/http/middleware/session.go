package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// AnonSessionCookie recognizes a returning anonymous respondent.
	AnonSessionCookie = "rsvp_anon_session"
	// RsvpUserSessionCookie carries the signed session of a verified respondent.
	RsvpUserSessionCookie = "rsvp_user_session"

	anonSessionMaxAge = 365 * 24 * time.Hour
	userSessionMaxAge = 7 * 24 * time.Hour
)

// Sessions issues and clears the respondent cookies. Secure should be true in
// production so cookies are only sent over TLS.
type Sessions struct {
	Secure bool
}

// SessionToken returns the anonymous session token from the request cookie,
// minting a fresh one when the browser has none. The token only sticks once a
// handler calls SetAnonCookie after a successful write.
func (s *Sessions) SessionToken(r *http.Request) string {
	if c, err := r.Cookie(AnonSessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return uuid.NewString()
}

// SetAnonCookie persists the anonymous session token for a year so the same
// browser is recognized on later visits.
func (s *Sessions) SetAnonCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AnonSessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(anonSessionMaxAge / time.Second),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetUserCookie stores the signed respondent session for seven days.
func (s *Sessions) SetUserCookie(w http.ResponseWriter, signedToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RsvpUserSessionCookie,
		Value:    signedToken,
		Path:     "/",
		MaxAge:   int(userSessionMaxAge / time.Second),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearUserCookie logs the respondent out.
func (s *Sessions) ClearUserCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RsvpUserSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserSessionMaxAge is the lifetime of the signed respondent session.
func UserSessionMaxAge() time.Duration { return userSessionMaxAge }
