package realtime

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// clientMessage is what a connected client may send. The only supported
// event is "register", which binds the connection to a user ID.
type clientMessage struct {
	Event  string `json:"event"`
	UserID string `json:"userId"`
}

// Handler upgrades HTTP requests to websocket connections and drives the
// Unregistered -> Registered -> Unregistered lifecycle against the hub.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHandler creates a websocket handler bound to a hub
func NewHandler(hub *Hub, log zerolog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the UI origin; CORS for the
			// REST surface is handled by Echo middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log.With().Str("component", "ws").Logger(),
	}
}

// RegisterRoutes registers the websocket endpoint
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve upgrades the connection and reads client events until disconnect.
// The connection stays unregistered until the client identifies itself with
// a register event; teardown always unregisters.
func (h *Handler) Serve(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer func() {
		h.hub.Unregister(ws)
		ws.Close()
	}()

	h.log.Debug().Str("remote", ws.RemoteAddr().String()).Msg("socket connected")

	for {
		var msg clientMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Msg("socket read failed")
			}
			return nil
		}

		if msg.Event == "register" && msg.UserID != "" {
			h.hub.Register(ws, msg.UserID)
		}
	}
}
