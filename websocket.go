/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/Seednode/impostor/games/impostor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 32
)

type Client struct {
	conn *websocket.Conn
	send chan any
	id   string
}

type inbound struct {
	client *Client
	msg    impostor.ClientMessage
}

// Hub owns the game session and every live client. Connects, disconnects
// and inbound messages are handled one at a time on the run goroutine, so
// the session never sees two events interleaved.
type Hub struct {
	clients map[string]*Client

	register chan *Client
	unreg    chan *Client
	inbox    chan inbound
	done     chan struct{}

	session *impostor.Session
	metrics *Metrics
}

func newHub(m *Metrics) *Hub {
	h := &Hub{
		clients:  make(map[string]*Client),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		inbox:    make(chan inbound),
		done:     make(chan struct{}),
		metrics:  m,
	}

	h.session = impostor.NewSession(h,
		impostor.WithMetrics(m),
		impostor.WithLogger(log.Logger),
	)

	return h
}

func (h *Hub) run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.clients[c.id] = c
			h.session.Connect(c.id)

		case c := <-h.unreg:
			if cur, ok := h.clients[c.id]; ok && cur == c {
				delete(h.clients, c.id)
				close(c.send)
			}
			h.session.Disconnect(c.id)

		case in := <-h.inbox:
			// Late frames from a client that was already dropped.
			if _, ok := h.clients[in.client.id]; !ok {
				continue
			}
			h.session.Handle(in.client.id, in.msg)

		case <-ctx.Done():
			for id, c := range h.clients {
				delete(h.clients, id)
				close(c.send)
			}

			return
		}

		h.metrics.observe(h.session.Stats(), len(h.clients))
	}
}

// Broadcast implements impostor.Publisher.
func (h *Hub) Broadcast(msg any) {
	for _, c := range h.clients {
		h.deliver(c, msg)
	}
}

// Send implements impostor.Publisher.
func (h *Hub) Send(connID string, msg any) {
	if c, ok := h.clients[connID]; ok {
		h.deliver(c, msg)
	}
}

// deliver never blocks; a client that cannot keep up is dropped and will
// report its own disconnect once the writer closes the socket.
func (h *Hub) deliver(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		log.Warn().Str("conn", c.id).Msg("GAMES: Dropping slow client")
		delete(h.clients, c.id)
		close(c.send)
	}
}

func newUpgrader(cfg *Config) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(cfg.corsOrigins) == 0 {
				return true
			}

			origin := r.Header.Get("Origin")

			return origin == "" || slices.Contains(cfg.corsOrigins, origin) || slices.Contains(cfg.corsOrigins, "*")
		},
	}
}

func serveWS(cfg *Config, h *Hub) httprouter.Handle {
	upgrader := newUpgrader(cfg)

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Str("ip", realIP(r)).Msg("SERVE: Websocket upgrade failed")
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, sendBuffer),
			id:   uuid.NewString(),
		}

		select {
		case h.register <- client:
		case <-h.done:
			_ = conn.Close()
			return
		}

		log.Debug().Str("conn", client.id).Str("ip", realIP(r)).Msg("GAMES: Connected")

		go client.writePump()
		client.readPump(h)

		log.Debug().Str("conn", client.id).Msg("GAMES: Disconnected")
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("conn", c.id).Msg("GAMES: Read failed")
			}
			return
		}

		var msg impostor.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Str("conn", c.id).Msg("GAMES: Ignoring malformed message")
			continue
		}

		select {
		case h.inbox <- inbound{client: c, msg: msg}:
		case <-h.done:
			return
		}
	}
}

func (c *Client) writePump() {
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
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
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
