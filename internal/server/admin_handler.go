package server

import (
	"context"
	"net/http"

	"github.com/dagbolade/proposal-box/internal/auth"
	"github.com/dagbolade/proposal-box/internal/reader"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type ResponseLoader interface {
	LoadAll(ctx context.Context) reader.Result
}

type AdminHandler struct {
	loader ResponseLoader
}

func NewAdminHandler(loader ResponseLoader) *AdminHandler {
	return &AdminHandler{loader: loader}
}

// GetResponses always answers 200; failures are described by the status.
func (h *AdminHandler) GetResponses(c echo.Context) error {
	res := h.loader.LoadAll(c.Request().Context())

	body := map[string]interface{}{
		"total":  len(res.Rows),
		"rows":   res.Rows,
		"status": res.Status,
		"source": res.Source,
	}

	// The page uses this to prompt for the password again before the token lapses.
	if claims := auth.ClaimsFromContext(c); claims != nil && claims.ExpiresAt != nil {
		body["session_expires_at"] = claims.ExpiresAt.Time
	}

	log.Debug().
		Int("total", len(res.Rows)).
		Str("source", string(res.Source)).
		Msg("admin responses loaded")

	return c.JSON(http.StatusOK, body)
}
