// Session HTTP handlers.
//
//   - POST /auth/signup
//   - POST /auth/login
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/powerwise-backend/internal/services"
)

// Signup godoc
// @ID          signup
// @Summary     Create an account and start a session
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.Credentials  true  "Email and password (8-72 chars)"
//
// @Success     201  {object}  services.Session
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid credentials format"
// @Failure     409  {object}  handlers.ErrorResponse  "Account exists"
// @Failure     503  {object}  handlers.ErrorResponse  "Sessions not configured"
// @Router      /auth/signup [post]
func (h *Handlers) Signup(c *gin.Context) {
	creds, good := h.bindCredentials(c)
	if !good {
		return
	}
	s, err := h.auth.Register(c.Request.Context(), creds)
	switch {
	case err == nil:
		ok(c, http.StatusCreated, s)
	case failValidation(c, err, "invalid email or password format"):
	case errors.Is(err, services.ErrAccountExists):
		fail(c, http.StatusConflict, ErrCodeAccountExists, "an account with this email already exists")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not create account")
	}
}

// Login godoc
// @ID          login
// @Summary     Start a session
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.Credentials  true  "Email and password"
//
// @Success     200  {object}  services.Session
// @Failure     400  {object}  handlers.ErrorResponse  "Bad body"
// @Failure     401  {object}  handlers.ErrorResponse  "Wrong email or password"
// @Failure     503  {object}  handlers.ErrorResponse  "Sessions not configured"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	creds, good := h.bindCredentials(c)
	if !good {
		return
	}
	s, err := h.auth.Authenticate(c.Request.Context(), creds)
	switch {
	case err == nil:
		ok(c, http.StatusOK, s)
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not sign in")
	}
}

func (h *Handlers) bindCredentials(c *gin.Context) (services.Credentials, bool) {
	var creds services.Credentials
	if h.auth == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "sign in is not available")
		return creds, false
	}
	if err := c.ShouldBindJSON(&creds); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return creds, false
	}
	return creds, true
}
