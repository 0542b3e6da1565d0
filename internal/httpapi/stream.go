package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nikolayk812/cartsim/internal/app"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// streamHandler pushes the cart view to websocket clients: once on connect,
// then after every change. A slow client skips intermediate views and
// receives the latest one.
type streamHandler struct {
	shop     Shop
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func newStreamHandler(shop Shop, logger *zap.Logger) *streamHandler {
	return &streamHandler{
		shop:   shop,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *streamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates := make(chan app.View, 1)
	unsubscribe := h.shop.Subscribe(func(v app.View) {
		for {
			select {
			case updates <- v:
				return
			default:
			}
			// replace the pending view with the newer one
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	// the read loop only detects the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, h.shop.View()); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case v := <-updates:
			if err := h.write(conn, v); err != nil {
				h.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}

func (h *streamHandler) write(conn *websocket.Conn, v app.View) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
