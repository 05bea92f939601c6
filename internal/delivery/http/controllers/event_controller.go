package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
	"eventrsvp/internal/services"
)

type EventController struct {
	Logger        *slog.Logger
	Service       domain.EventService
	UploadService domain.UploadService
}

func NewEventController(logger *slog.Logger, svc domain.EventService, uploads domain.UploadService) *EventController {
	return &EventController{
		Logger:        logger,
		Service:       svc,
		UploadService: uploads,
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DateTime    string `json:"date_time"`
	Location    string `json:"location"`
	Capacity    *int   `json:"capacity,omitempty"`
}

func (r *CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(r.Location) == "" {
		errs = append(errs, "location is required")
	}
	if _, err := time.Parse(time.RFC3339, r.DateTime); err != nil {
		errs = append(errs, "date_time must be RFC3339")
	}
	if r.Capacity != nil && *r.Capacity <= 0 {
		errs = append(errs, "capacity must be a positive number")
	}
	return errs
}

// Create godoc
// @Summary Create an event
// @Description Creates an event owned by the authenticated organizer. A unique public slug is minted server-side.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body controllers.CreateEventRequest true "Event fields"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.OrganizerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	dateTime, _ := time.Parse(time.RFC3339, req.DateTime)

	event := &domain.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		DateTime:    dateTime,
		Location:    strings.TrimSpace(req.Location),
		Capacity:    req.Capacity,
	}
	if err := c.Service.Create(r.Context(), organizerID, event); err != nil {
		c.writeError(w, r, err, "create event failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// List godoc
// @Summary List the organizer's events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.OrganizerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Service.ListByOrganizer(r.Context(), organizerID)
	if err != nil {
		c.writeError(w, r, err, "list events failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// Get godoc
// @Summary Get one of the organizer's events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.OrganizerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.GetForOrganizer(r.Context(), organizerID, r.PathValue("eventID"))
	if err != nil {
		c.writeError(w, r, err, "get event failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. Omitted
// fields are left unchanged; clear_capacity removes the limit (a null capacity
// cannot be told apart from an omitted one).
type UpdateEventRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	DateTime      *string `json:"date_time,omitempty"`
	Location      *string `json:"location,omitempty"`
	Capacity      *int    `json:"capacity,omitempty"`
	ClearCapacity bool    `json:"clear_capacity,omitempty"`
	Published     *bool   `json:"published,omitempty"`
}

func (r *UpdateEventRequest) Validate() []string {
	var errs []string
	if r.DateTime != nil {
		if _, err := time.Parse(time.RFC3339, *r.DateTime); err != nil {
			errs = append(errs, "date_time must be RFC3339")
		}
	}
	if r.Capacity != nil && *r.Capacity <= 0 {
		errs = append(errs, "capacity must be a positive number")
	}
	return errs
}

// Update godoc
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param request body controllers.UpdateEventRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.OrganizerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	update := &domain.EventUpdate{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		Capacity:      req.Capacity,
		ClearCapacity: req.ClearCapacity,
		Published:     req.Published,
	}
	if req.DateTime != nil {
		dt, _ := time.Parse(time.RFC3339, *req.DateTime)
		update.DateTime = &dt
	}

	event, err := c.Service.Update(r.Context(), organizerID, r.PathValue("eventID"), update)
	if err != nil {
		c.writeError(w, r, err, "update event failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event and all of its responses
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.OrganizerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Delete(r.Context(), organizerID, r.PathValue("eventID")); err != nil {
		c.writeError(w, r, err, "delete event failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

// ListRsvps godoc
// @Summary List all responses for an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/rsvps [get]
func (c *EventController) ListRsvps(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.OrganizerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvps, err := c.Service.ListRsvps(r.Context(), organizerID, r.PathValue("eventID"))
	if err != nil {
		c.writeError(w, r, err, "list rsvps failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvps)
}

// UploadImage godoc
// @Summary Upload an event image
// @Description Accepts a multipart form with a "file" part. JPEG, PNG, WebP, and GIF up to 5MB.
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param file formData file true "Image file"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/image [post]
func (c *EventController) UploadImage(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.OrganizerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")

	// Ownership is checked before anything touches the blob store, so a
	// failed upload never leaves a file behind.
	if _, err := c.Service.GetForOrganizer(r.Context(), organizerID, eventID); err != nil {
		c.writeError(w, r, err, "image upload failed")
		return
	}

	if err := r.ParseMultipartForm(services.MaxUploadSize); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxUploadSize+1))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "could not read file")
		return
	}

	path, err := c.UploadService.Store(r.Context(), data, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		c.writeError(w, r, err, "image upload failed")
		return
	}
	if err := c.Service.SetImage(r.Context(), organizerID, eventID, path); err != nil {
		c.writeError(w, r, err, "set event image failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"path": path})
}

// GetPublic godoc
// @Summary Public event page data by slug
// @Description Guest-facing view: the event plus its GOING count and remaining seats. Unpublished events are not found.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /e/{slug} [get]
func (c *EventController) GetPublic(w http.ResponseWriter, r *http.Request) {
	view, err := c.Service.GetPublicBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		c.writeError(w, r, err, "public event lookup failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

func (c *EventController) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrUnauthorized):
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), msg, "path", r.URL.Path, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}
