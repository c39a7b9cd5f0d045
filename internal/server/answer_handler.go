package server

import (
	"context"
	"net/http"

	"github.com/dagbolade/proposal-box/internal/answer"
	"github.com/dagbolade/proposal-box/internal/recorder"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type AnswerRecorder interface {
	Record(ctx context.Context, choice answer.Choice, userAgent string) bool
}

type AnswerHandler struct {
	recorder         AnswerRecorder
	hub              *Hub
	remoteConfigured bool
}

func NewAnswerHandler(rec AnswerRecorder, hub *Hub, remoteConfigured bool) *AnswerHandler {
	return &AnswerHandler{
		recorder:         rec,
		hub:              hub,
		remoteConfigured: remoteConfigured,
	}
}

type answerRequest struct {
	Choice string `json:"choice"`
}

type answerResponse struct {
	Choice      answer.Choice `json:"choice"`
	RemoteSaved bool          `json:"remote_saved"`
	Status      answer.Status `json:"status"`
}

// Record stores one choice. Once the remote write has been issued it runs to
// completion even if the client goes away.
func (h *AnswerHandler) Record(c echo.Context) error {
	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	choice, err := answer.ParseChoice(req.Choice)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	ctx := context.WithoutCancel(c.Request().Context())
	saved := h.recorder.Record(ctx, choice, c.Request().UserAgent())

	log.Info().Str("choice", string(choice)).Bool("remote_saved", saved).Msg("answer recorded")

	if h.hub != nil {
		h.hub.BroadcastAnswer(choice, saved)
	}

	return c.JSON(http.StatusOK, answerResponse{
		Choice:      choice,
		RemoteSaved: saved,
		Status:      recorder.StatusFor(choice, saved),
	})
}

// GetConfig tells the proposal page whether to show the local-only warning.
func (h *AnswerHandler) GetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{
		"remote_configured": h.remoteConfigured,
	})
}
