package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/LernCasino/internal/apperrors"
	"github.com/thesrcielos/LernCasino/internal/leaderboard"
	"github.com/thesrcielos/LernCasino/internal/user"
	"github.com/thesrcielos/LernCasino/websocket/transport"
	"go.uber.org/zap"
)

// LiveHandler upgrades authenticated clients to a leaderboard feed.
type LiveHandler struct {
	tokens      *user.TokenIssuer
	hub         *transport.Hub
	leaderboard *leaderboard.LeaderboardService
	log         *zap.Logger
	upgrader    websocket.Upgrader
}

func NewLiveHandler(tokens *user.TokenIssuer, hub *transport.Hub, board *leaderboard.LeaderboardService, log *zap.Logger) *LiveHandler {
	return &LiveHandler{
		tokens:      tokens,
		hub:         hub,
		leaderboard: board,
		log:         log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *LiveHandler) RegisterLiveRoutes(g *echo.Group) {
	g.GET("/leaderboard/live", h.Handle)
}

func (h *LiveHandler) Handle(c echo.Context) error {
	tokenString := c.QueryParam("token")
	if tokenString == "" {
		return apperrors.Unauthorized("No token provided")
	}
	claims, err := h.tokens.Parse(tokenString)
	if err != nil {
		return apperrors.Unauthorized("Invalid token")
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}

	client := h.hub.Register(claims.UserID, ws)
	h.log.Info("live client connected",
		zap.String("conn", client.ID),
		zap.Uint("user", claims.UserID),
	)

	entries, err := h.leaderboard.Top(c.Request().Context())
	if err != nil {
		h.log.Warn("error loading initial leaderboard", zap.Error(err))
		entries = []leaderboard.Entry{}
	}
	snapshot := transport.OutgoingMessage{Type: leaderboard.UpdateMessageType, Payload: entries}
	if err := h.hub.SendTo(client.ID, snapshot); err != nil {
		h.log.Warn("error sending initial leaderboard", zap.String("conn", client.ID), zap.Error(err))
		h.hub.Unregister(client.ID)
		return nil
	}

	go listen(h.hub, client.ID, ws, h.log)
	return nil
}
