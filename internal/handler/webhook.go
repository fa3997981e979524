package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wearly/tryonbot/internal/domain"
	"github.com/wearly/tryonbot/internal/twilio"
)

// HandleWebhook processes one inbound message delivery and answers with a
// TwiML document the provider relays back to the sender.
func (h *Handler) HandleWebhook(c echo.Context) error {
	ev, err := parseInbound(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reply := h.conversation.HandleEvent(c.Request().Context(), ev)

	doc, err := twilio.RenderReply(reply)
	if err != nil {
		slog.Error("render reply", "sender", ev.Sender, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.Blob(http.StatusOK, "text/xml", []byte(doc))
}

func parseInbound(c echo.Context) (domain.InboundEvent, error) {
	sender := c.FormValue("From")
	if sender == "" {
		return domain.InboundEvent{}, errors.New("From is required")
	}

	// NumMedia may be absent; treat anything unparseable as zero media.
	numMedia, _ := strconv.Atoi(c.FormValue("NumMedia"))

	ev := domain.InboundEvent{
		Sender:   sender,
		To:       c.FormValue("To"),
		Body:     c.FormValue("Body"),
		NumMedia: numMedia,
	}
	if numMedia > 0 {
		// Only the first attachment is considered.
		ev.Media = &domain.MediaRef{
			URL:        c.FormValue("MediaUrl0"),
			MessageSID: c.FormValue("MessageSid"),
		}
	}
	return ev, nil
}
