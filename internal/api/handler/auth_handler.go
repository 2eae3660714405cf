package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SpiritX-2025-CodeChefs/auth-api/internal/api/metrics"
	"github.com/SpiritX-2025-CodeChefs/auth-api/internal/core/ports"
)

// sessionCookie is the cookie name carrying the hex session token.
const sessionCookie = "session"

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account and, on success, auto-authenticates it by
// setting the session cookie.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Registration credentials"
// @Success      200   {object}  baseResponse
// @Failure      400   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}
	if !result.Success {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return c.JSON(http.StatusOK, baseResponse{Success: false, Message: result.Message})
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	setSessionCookie(c, result.Token, result.Expiry)
	return c.JSON(http.StatusOK, baseResponse{Success: true})
}

// Login verifies credentials and sets the session cookie on success.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {object}  baseResponse
// @Failure      400   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}
	if !result.Success {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return c.JSON(http.StatusOK, baseResponse{Success: false, Message: result.Message})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	setSessionCookie(c, result.Token, result.Expiry)
	return c.JSON(http.StatusOK, baseResponse{Success: true})
}

// ValidateSession resolves the session cookie to a username. Every failure
// path clears the cookie so stale clients converge to logged-out.
//
// @Summary      Validate the current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /validate-session [post]
func (h *AuthHandler) ValidateSession(c echo.Context) error {
	result, err := h.authService.ValidateSession(c.Request().Context(), sessionToken(c))
	if err != nil {
		metrics.SessionValidationsTotal.WithLabelValues("error").Inc()
		return err
	}
	if !result.Success {
		metrics.SessionValidationsTotal.WithLabelValues("invalid").Inc()
		clearSessionCookie(c)
		return c.JSON(http.StatusOK, sessionResponse{Success: false})
	}

	metrics.SessionValidationsTotal.WithLabelValues("valid").Inc()
	return c.JSON(http.StatusOK, sessionResponse{Success: true, Username: result.Username})
}

// ValidateUsername reports whether a username could still be registered.
// Too-short names are reported unavailable; the endpoint itself always
// succeeds.
//
// @Summary      Check username availability
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      usernameRequest  true  "Candidate username"
// @Success      200   {object}  availabilityResponse
// @Failure      400   {object}  map[string]string
// @Router       /validate-username [post]
func (h *AuthHandler) ValidateUsername(c echo.Context) error {
	var req usernameRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	available, err := h.authService.UsernameAvailable(c.Request().Context(), req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, availabilityResponse{Success: true, Available: available})
}

// Logout deletes the session referenced by the cookie, if any, and always
// clears the cookie. Idempotent.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  baseResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), sessionToken(c)); err != nil {
		return err
	}

	metrics.LogoutsTotal.Inc()
	clearSessionCookie(c)
	return c.JSON(http.StatusOK, baseResponse{Success: true})
}

// sessionToken reads the session cookie, returning "" when absent.
func sessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setSessionCookie(c echo.Context, token string, expiry time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiry,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
