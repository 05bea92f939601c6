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

type RsvpUserController struct {
	Logger   *slog.Logger
	Service  domain.RsvpUserService
	Issuer   domain.TokenIssuer
	Sessions *middleware.Sessions
}

func NewRsvpUserController(logger *slog.Logger, svc domain.RsvpUserService, issuer domain.TokenIssuer, sessions *middleware.Sessions) *RsvpUserController {
	return &RsvpUserController{
		Logger:   logger,
		Service:  svc,
		Issuer:   issuer,
		Sessions: sessions,
	}
}

// LoginLinkRequest is the request body for POST /rsvp/login.
type LoginLinkRequest struct {
	Email string `json:"email"`
}

func (r *LoginLinkRequest) Validate() []string {
	if strings.TrimSpace(r.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// RequestLoginLink godoc
// @Summary Request a sign-in link for managing RSVPs
// @Description Emails a single-use, 24-hour sign-in link. A newer request invalidates older links. The response only acknowledges the request; it says nothing about delivery.
// @Tags rsvp-user
// @Accept json
// @Produce json
// @Param request body controllers.LoginLinkRequest true "Email address"
// @Success 202 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvp/login [post]
func (c *RsvpUserController) RequestLoginLink(w http.ResponseWriter, r *http.Request) {
	var req LoginLinkRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := c.Service.RequestLoginLink(r.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "login link request failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not send sign-in link")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusAccepted, map[string]string{"message": "check your email for a sign-in link"})
}

// VerifyTokenRequest is the request body for POST /rsvp/verify.
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

func (r *VerifyTokenRequest) Validate() []string {
	if strings.TrimSpace(r.Token) == "" {
		return []string{"token is required"}
	}
	return nil
}

// VerifyToken godoc
// @Summary Consume a sign-in link token
// @Description Verifies the emailed token, claims any anonymous responses that share the email, and establishes a seven-day session cookie. Tokens are single-use; expired tokens are deleted on sight.
// @Tags rsvp-user
// @Accept json
// @Produce json
// @Param request body controllers.VerifyTokenRequest true "Token from the emailed link"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_token"
// @Failure 410 {object} helpers.APIResponse "error.code: token_expired"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvp/verify [post]
func (c *RsvpUserController) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req VerifyTokenRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	user, err := c.Service.VerifyToken(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidToken):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeInvalidToken, "invalid or already used link")
		case errors.Is(err, domain.ErrTokenExpired):
			helpers.WriteJSONError(w, http.StatusGone, helpers.ErrCodeTokenExpired, "this link has expired, request a new one")
		default:
			c.Logger.ErrorContext(r.Context(), "token verification failed", "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not verify link")
		}
		return
	}

	session, err := c.Issuer.Issue(user.ID, user.Email, middleware.UserSessionMaxAge())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "session issue failed", "rsvp_user_id", user.ID, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not establish session")
		return
	}
	c.Sessions.SetUserCookie(w, session)
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// ListResponses godoc
// @Summary List the signed-in respondent's RSVPs across events
// @Tags rsvp-user
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvp/manage [get]
func (c *RsvpUserController) ListResponses(w http.ResponseWriter, r *http.Request) {
	rsvpUserID, ok := middleware.RsvpUserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	responses, err := c.Service.ListResponses(r.Context(), rsvpUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unknown session")
			return
		}
		c.Logger.ErrorContext(r.Context(), "list responses failed", "rsvp_user_id", rsvpUserID, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not load responses")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, responses)
}

// Logout godoc
// @Summary Clear the respondent session
// @Tags rsvp-user
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Router /rsvp/logout [post]
func (c *RsvpUserController) Logout(w http.ResponseWriter, r *http.Request) {
	c.Sessions.ClearUserCookie(w)
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "signed out"})
}
