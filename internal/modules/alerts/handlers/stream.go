package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/portsure/platform/internal/events"
)

const streamWriteWait = 10 * time.Second

// HandleStream upgrades the connection and forwards newly raised alerts to
// the client until it disconnects.
// GET /api/alerts/stream
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The dashboard is served from a different origin in dev mode
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "stream closed")

	subscriberID := "alert-stream-" + uuid.NewString()
	eventCh := h.eventBus.Subscribe(subscriberID)
	defer h.eventBus.Unsubscribe(subscriberID)

	h.log.Info().Str("subscriber", subscriberID).Msg("Alert stream connected")

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			if event.Type != events.AlertRaised {
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, streamWriteWait)
			err := wsjson.Write(writeCtx, conn, event)
			cancel()
			if err != nil {
				h.log.Debug().Err(err).Str("subscriber", subscriberID).Msg("Alert stream client gone")
				return
			}
		}
	}
}
