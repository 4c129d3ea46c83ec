package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// viewers only listen; anything they send is read and dropped
	maxMsgSize = 512

	feedBroadcastBuf  = 1024
	feedRegisterBuf   = 64
	feedUnregisterBuf = 64
	clientSendBuf     = 64
	presenceDebounce  = 500 * time.Millisecond
	registerTimeout   = 2 * time.Second
	unregisterTimeout = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// the mini-app is served from the same host, other origins are read-only viewers
		return true
	},
}

// PositionMessage is pushed to viewers for every accepted driver location.
type PositionMessage struct {
	Type   string                `json:"type"` // "driver_position"
	Driver domain.DriverPosition `json:"driver"`
}

// PresenceMessage tells viewers how many are connected.
type PresenceMessage struct {
	Type    string `json:"type"` // "presence"
	Viewers int    `json:"viewers"`
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
	feed *LiveFeed
}

// LiveFeed fans driver positions out to websocket viewers.
type LiveFeed struct {
	logger     *zap.Logger
	clients    map[*feedClient]struct{}
	register   chan *feedClient
	unregister chan *feedClient
	broadcast  chan []byte
	viewers    atomic.Int64
}

func NewLiveFeed(logger *zap.Logger) *LiveFeed {
	return &LiveFeed{
		logger:     logger,
		clients:    make(map[*feedClient]struct{}),
		register:   make(chan *feedClient, feedRegisterBuf),
		unregister: make(chan *feedClient, feedUnregisterBuf),
		broadcast:  make(chan []byte, feedBroadcastBuf),
	}
}

// Run owns the viewer set until ctx is done.
func (f *LiveFeed) Run(ctx context.Context) {
	var presenceDirty bool
	presenceTicker := time.NewTicker(presenceDebounce)
	defer presenceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range f.clients {
				f.drop(c)
			}
			return

		case c := <-f.register:
			f.clients[c] = struct{}{}
			f.viewers.Store(int64(len(f.clients)))
			presenceDirty = true

		case c := <-f.unregister:
			if _, ok := f.clients[c]; ok {
				f.drop(c)
				presenceDirty = true
			}

		case msg := <-f.broadcast:
			for c := range f.clients {
				select {
				case c.send <- msg:
				default:
					// slow viewer, drop it rather than stall the feed
					f.drop(c)
					presenceDirty = true
				}
			}

		case <-presenceTicker.C:
			if presenceDirty {
				f.broadcastPresence()
				presenceDirty = false
			}
		}
	}
}

func (f *LiveFeed) drop(c *feedClient) {
	delete(f.clients, c)
	close(c.send)
	f.viewers.Store(int64(len(f.clients)))
}

func (f *LiveFeed) broadcastPresence() {
	data, _ := json.Marshal(PresenceMessage{Type: "presence", Viewers: len(f.clients)})
	for c := range f.clients {
		select {
		case c.send <- data:
		default:
			f.drop(c)
		}
	}
}

// Viewers returns the number of connected viewers.
func (f *LiveFeed) Viewers() int {
	return int(f.viewers.Load())
}

// Publish queues a position for all viewers. It never blocks; when the feed
// is saturated the update is dropped.
func (f *LiveFeed) Publish(pos domain.DriverPosition) {
	data, err := json.Marshal(PositionMessage{Type: "driver_position", Driver: pos})
	if err != nil {
		f.logger.Error("Failed to encode driver position", zap.Error(err))
		return
	}
	select {
	case f.broadcast <- data:
	default:
		f.logger.Warn("Live feed overloaded, position dropped", zap.Int64("driver_id", pos.DriverID))
	}
}

// ServeWS upgrades /ws/drivers connections.
func (f *LiveFeed) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Error("ws upgrade failed", zap.Error(err))
		return
	}

	client := &feedClient{
		conn: conn,
		send: make(chan []byte, clientSendBuf),
		feed: f,
	}

	select {
	case f.register <- client:
	case <-time.After(registerTimeout):
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *feedClient) readPump() {
	defer func() {
		select {
		case c.feed.unregister <- c:
		case <-time.After(unregisterTimeout):
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
