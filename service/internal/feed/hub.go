// Package feed streams table events to websocket clients and carries the
// human seat's commands back to the table.
package feed

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/getzen/rookre/engine"
	"github.com/getzen/rookre/service/internal/game"
)

const (
	sendBuffer   = 256
	pingInterval = 15 * time.Second
	writeTimeout = 5 * time.Second
)

// Table is the part of a game table the hub drives.
type Table interface {
	Submit(a engine.PlayerAction) error
	State(observer int) game.ObfTableState
}

type client struct {
	id   uuid.UUID
	seat int // game.Spectator unless the client holds the human seat
	send chan game.TableEvent
}

// Hub fans table events out to connected clients. Public events go to every
// client; seat events go only to the client holding that seat.
type Hub struct {
	table     Table
	humanSeat int
	log       *logrus.Entry

	mu      sync.RWMutex
	clients map[*client]struct{}
	seated  *client
}

// NewHub creates a hub for table. humanSeat is the seat a client may claim with
// ?seat=N, or game.Spectator when every seat is a bot.
func NewHub(table Table, humanSeat int, logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		table:     table,
		humanSeat: humanSeat,
		log:       logger.WithField("component", "feed"),
		clients:   make(map[*client]struct{}),
	}
}

// Broadcast queues ev for every client. A client whose buffer is full misses it.
func (h *Hub) Broadcast(ev game.TableEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.enqueue(c, ev)
	}
}

// SendToSeat queues ev for the client holding seat, if any.
func (h *Hub) SendToSeat(seat int, ev game.TableEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.seated != nil && h.seated.seat == seat {
		h.enqueue(h.seated, ev)
	}
}

func (h *Hub) enqueue(c *client, ev game.TableEvent) {
	select {
	case c.send <- ev:
	default:
		h.log.WithField("client", c.id).Warnf("Client %s: send buffer full, dropping %s event.", c.id, ev.Type)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// register adds c, giving it the human seat when asked for and free.
func (h *Hub) register(c *client, wantSeat int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if wantSeat >= 0 && wantSeat == h.humanSeat && h.seated == nil {
		c.seat = wantSeat
		h.seated = c
	}
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	if h.seated == c {
		h.seated = nil
	}
	close(c.send)
}

// ServeHTTP upgrades the request and serves one client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		h.log.WithError(err).Warn("Websocket accept failed.")
		return
	}
	defer conn.CloseNow()

	wantSeat := game.Spectator
	if s := r.URL.Query().Get("seat"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			wantSeat = n
		}
	}

	c := &client{id: uuid.New(), seat: game.Spectator, send: make(chan game.TableEvent, sendBuffer)}
	h.register(c, wantSeat)
	defer h.unregister(c)
	log := h.log.WithFields(logrus.Fields{"client": c.id, "seat": c.seat})
	log.Infof("Client %s: connected.", c.id)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	state := h.table.State(c.seat)
	h.enqueue(c, game.TableEvent{Type: game.EventPrivateSyncState, State: &state})

	go h.writeLoop(ctx, cancel, conn, c)

	for {
		var a engine.PlayerAction
		if err := wsjson.Read(ctx, conn, &a); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				log.WithError(err).Debugf("Client %s: read ended.", c.id)
			}
			break
		}
		if c.seat == game.Spectator {
			log.Debugf("Client %s: spectator command ignored.", c.id)
			continue
		}
		a.Seat = c.seat
		// Rejections reach the client as action_rejected events.
		_ = h.table.Submit(a)
	}
	log.Infof("Client %s: disconnected.", c.id)
	conn.Close(websocket.StatusNormalClosure, "")
}

func (h *Hub) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, c *client) {
	defer cancel()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				return
			}
			wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, ev)
			wcancel()
			if err != nil {
				return
			}
		case <-ping.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
