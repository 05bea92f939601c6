package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
)

type RsvpController struct {
	Logger   *slog.Logger
	Service  domain.RsvpService
	Sessions *middleware.Sessions
}

func NewRsvpController(logger *slog.Logger, svc domain.RsvpService, sessions *middleware.Sessions) *RsvpController {
	return &RsvpController{
		Logger:   logger,
		Service:  svc,
		Sessions: sessions,
	}
}

// SubmitRsvpRequest is the request body for POST /events/{eventID}/rsvps.
type SubmitRsvpRequest struct {
	FirstName   string `json:"first_name"`
	LastInitial string `json:"last_initial"`
	Email       string `json:"email,omitempty"`
	Status      string `json:"status"`
}

// Validate implements helpers.Validator. Field-level checks only; the service
// applies the full normalization rules.
func (r *SubmitRsvpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(r.LastInitial) == "" {
		errs = append(errs, "last_initial is required")
	}
	if r.Status == "" {
		errs = append(errs, "status is required")
	}
	return errs
}

// SubmitRsvpResponse is the data object returned by POST /events/{eventID}/rsvps.
type SubmitRsvpResponse struct {
	Rsvp     *domain.Rsvp `json:"rsvp"`
	IsUpdate bool         `json:"is_update"`
}

// Submit godoc
// @Summary Submit or update a guest response for an event
// @Description Reconciles the submission against any existing response for this browser session or email. Returns 201 on create, 200 on update. On success the anonymous session cookie is (re)issued for a year.
// @Tags rsvp
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param request body controllers.SubmitRsvpRequest true "Response fields"
// @Success 200 {object} helpers.APIResponse "Existing response updated"
// @Success 201 {object} helpers.APIResponse "New response created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: capacity_exceeded"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps [post]
func (c *RsvpController) Submit(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}

	var req SubmitRsvpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	sessionToken := c.Sessions.SessionToken(r)

	input := domain.RsvpInput{
		FirstName:   req.FirstName,
		LastInitial: req.LastInitial,
		Status:      domain.RsvpStatus(req.Status),
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		input.Email = &email
	}

	rsvp, outcome, err := c.Service.Submit(r.Context(), eventID, sessionToken, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrCapacityExceeded):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeCapacityExceeded, "event is at capacity")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "rsvp submit failed", "event_id", eventID, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not save response")
		}
		return
	}

	c.Sessions.SetAnonCookie(w, sessionToken)

	status := http.StatusCreated
	isUpdate := outcome == domain.OutcomeUpdated
	if isUpdate {
		status = http.StatusOK
	}
	helpers.WriteJSONSuccess(w, status, SubmitRsvpResponse{Rsvp: rsvp, IsUpdate: isUpdate})
}

// GetMine godoc
// @Summary Get the current browser's response for an event
// @Tags rsvp
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps/me [get]
func (c *RsvpController) GetMine(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}

	cookie, err := r.Cookie(middleware.AnonSessionCookie)
	if err != nil || cookie.Value == "" {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no response for this session")
		return
	}

	rsvp, err := c.Service.GetForSession(r.Context(), eventID, cookie.Value)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no response for this session")
			return
		}
		c.Logger.ErrorContext(r.Context(), "rsvp lookup failed", "event_id", eventID, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not load response")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvp)
}
