package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/courtline/tennis-ladder/live"
	"github.com/courtline/tennis-ladder/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict Origin to the club frontend before exposing this
	// beyond the LAN.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub           *live.Hub
	seasonService services.SeasonService
	logger        *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, seasonService services.SeasonService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, seasonService: seasonService, logger: logger}
}

// ServeSeason subscribes the caller to one season's event stream at
// /ws/seasons/{seasonID}.
func (h *WebSocketHandler) ServeSeason(w http.ResponseWriter, r *http.Request) {
	seasonID, err := readIDParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.seasonService.GetSeason(r.Context(), seasonID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("websocket upgrade failed",
			slog.Int("season_id", seasonID), slog.Any("error", err))
		return
	}

	room := live.SeasonRoom(seasonID)
	h.hub.Register(live.NewClient(h.hub, conn, room))
	h.logger.Debug("websocket client connected", slog.String("room", room))
}
