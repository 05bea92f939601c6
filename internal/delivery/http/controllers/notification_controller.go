package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
)

type NotificationController struct {
	Logger  *slog.Logger
	Service domain.NotificationService
}

func NewNotificationController(logger *slog.Logger, svc domain.NotificationService) *NotificationController {
	return &NotificationController{
		Logger:  logger,
		Service: svc,
	}
}

// SendNotificationRequest is the request body for POST /events/{eventID}/notifications.
type SendNotificationRequest struct {
	Subject  string   `json:"subject"`
	Body     string   `json:"body"`
	Statuses []string `json:"statuses"`
}

func (r *SendNotificationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Subject) == "" {
		errs = append(errs, "subject is required")
	}
	if strings.TrimSpace(r.Body) == "" {
		errs = append(errs, "body is required")
	}
	if len(r.Statuses) == 0 {
		errs = append(errs, "select at least one status")
	}
	return errs
}

// SendNotificationResponse is the data object returned by the send endpoint.
type SendNotificationResponse struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed,omitempty"`
}

// Send godoc
// @Summary Email all respondents in the selected statuses
// @Description Sends the message to every response with an email address in the requested status set. Sends are independent; failures for some recipients do not undo the rest, and the audit record keeps the actual success count.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param request body controllers.SendNotificationRequest true "Subject, body, target statuses"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: no_recipients"
// @Failure 502 {object} helpers.APIResponse "error.code: partial_delivery"
// @Router /events/{eventID}/notifications [post]
func (c *NotificationController) Send(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.OrganizerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req SendNotificationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	statuses := make([]domain.RsvpStatus, len(req.Statuses))
	for i, s := range req.Statuses {
		statuses[i] = domain.RsvpStatus(s)
	}

	result, err := c.Service.Send(r.Context(), organizerID, r.PathValue("eventID"), req.Subject, req.Body, statuses)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrNoRecipients):
			helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeNoRecipients, "no recipients with email addresses")
		case errors.Is(err, domain.ErrPartialDelivery):
			// Some messages went out; report the split rather than a bare error.
			helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodePartialDelivery,
				fmt.Sprintf("%d sent, %d failed: %s", result.Sent, len(result.Failed), strings.Join(result.Failed, ", ")))
		default:
			c.Logger.ErrorContext(r.Context(), "notification send failed", "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not send notifications")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SendNotificationResponse{Sent: result.Sent, Failed: result.Failed})
}

// History godoc
// @Summary List the last notification blasts for an event
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/notifications [get]
func (c *NotificationController) History(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.OrganizerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	history, err := c.Service.History(r.Context(), organizerID, r.PathValue("eventID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "notification history failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not load history")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, history)
}
