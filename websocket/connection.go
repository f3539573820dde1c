package websocket

import (
	"github.com/gorilla/websocket"
	"github.com/thesrcielos/LernCasino/websocket/transport"
	"go.uber.org/zap"
)

// listen drains the connection so control frames are processed; the feed is
// server-to-client only. The client is dropped on the first read error.
func listen(hub *transport.Hub, id string, conn *websocket.Conn, log *zap.Logger) {
	defer func() {
		log.Info("live client disconnected", zap.String("conn", id))
		hub.Unregister(id)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("error reading live message", zap.String("conn", id), zap.Error(err))
			}
			return
		}
	}
}
