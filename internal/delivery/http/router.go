package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventrsvp/internal/delivery/http/controllers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
)

// Controllers bundles everything the router wires up.
type Controllers struct {
	Events        *controllers.EventController
	Rsvps         *controllers.RsvpController
	RsvpUsers     *controllers.RsvpUserController
	Notifications *controllers.NotificationController
}

// NewRouter initializes the HTTP router with all application routes.
// organizerVerifier validates the Bearer tokens issued by the identity
// provider; sessionVerifier validates the respondent session cookie.
func NewRouter(c Controllers, organizerVerifier, sessionVerifier domain.TokenVerifier, uploadDir, uploadPublicBase string) *http.ServeMux {
	mux := http.NewServeMux()

	requireOrganizer := middleware.RequireOrganizer(organizerVerifier)
	requireRsvpSession := middleware.RequireRsvpSession(sessionVerifier)

	// Guest-facing
	mux.HandleFunc("GET /e/{slug}", c.Events.GetPublic)
	mux.HandleFunc("POST /events/{eventID}/rsvps", c.Rsvps.Submit)
	mux.HandleFunc("GET /events/{eventID}/rsvps/me", c.Rsvps.GetMine)

	// Respondent identity
	mux.HandleFunc("POST /rsvp/login", c.RsvpUsers.RequestLoginLink)
	mux.HandleFunc("POST /rsvp/verify", c.RsvpUsers.VerifyToken)
	mux.HandleFunc("GET /rsvp/manage", requireRsvpSession(c.RsvpUsers.ListResponses))
	mux.HandleFunc("POST /rsvp/logout", c.RsvpUsers.Logout)

	// Organizer
	mux.HandleFunc("POST /events", requireOrganizer(c.Events.Create))
	mux.HandleFunc("GET /events", requireOrganizer(c.Events.List))
	mux.HandleFunc("GET /events/{eventID}", requireOrganizer(c.Events.Get))
	mux.HandleFunc("PATCH /events/{eventID}", requireOrganizer(c.Events.Update))
	mux.HandleFunc("DELETE /events/{eventID}", requireOrganizer(c.Events.Delete))
	mux.HandleFunc("GET /events/{eventID}/rsvps", requireOrganizer(c.Events.ListRsvps))
	mux.HandleFunc("POST /events/{eventID}/image", requireOrganizer(c.Events.UploadImage))
	mux.HandleFunc("POST /events/{eventID}/notifications", requireOrganizer(c.Notifications.Send))
	mux.HandleFunc("GET /events/{eventID}/notifications", requireOrganizer(c.Notifications.History))

	// Uploaded event images
	mux.Handle("GET "+uploadPublicBase+"/", http.StripPrefix(uploadPublicBase+"/", http.FileServer(http.Dir(uploadDir))))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
