package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Handler provides HTTP handlers for the admin gate
type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login checks the submitted password against the shared secret
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Warn().Err(err).Str("remote_addr", c.Request().RemoteAddr).Msg("invalid login request body")
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request",
		})
	}

	if err := h.manager.CheckSecret(req.Password); err != nil {
		if errors.Is(err, ErrEmptySecret) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Please enter the password 💡",
			})
		}
		log.Warn().Str("remote_addr", c.Request().RemoteAddr).Msg("admin login failed")
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Wrong password. Try again 💔",
		})
	}

	token, expiresAt, err := h.manager.GenerateToken()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to generate token",
		})
	}

	log.Info().Msg("admin logged in")

	return c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
