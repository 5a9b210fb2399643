// Package debugfeed streams zone activity to websocket clients for
// debug overlays and tooling.
package debugfeed

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/forcezone/internal/core/events/bus"
	"github.com/zeusync/forcezone/internal/core/observability/log"
	"github.com/zeusync/forcezone/internal/core/systems"
)

const (
	Path = "/zones"

	MessageSnapshot = "snapshot"

	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SnapshotSource provides the zone states sent to new clients.
type SnapshotSource interface {
	Snapshot() []systems.ZoneState
}

// Message is one JSON frame on the feed. Type is MessageSnapshot or one of
// the zone event types.
type Message struct {
	Type      string              `json:"type"`
	Timestamp time.Time           `json:"timestamp"`
	Zones     []systems.ZoneState `json:"zones,omitempty"`
	Event     *systems.ZoneEvent  `json:"event,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed fans zone events out to every connected client. Slow clients miss
// messages rather than stall the simulation.
type Feed struct {
	bus    bus.EventBus
	source SnapshotSource
	logger log.Log

	mu      sync.RWMutex
	clients map[*client]struct{}
	subs    []bus.Subscription
}

func New(eventBus bus.EventBus, source SnapshotSource, logger log.Log) *Feed {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Feed{
		bus:     eventBus,
		source:  source,
		logger:  logger.With(log.String("component", "debug-feed")),
		clients: make(map[*client]struct{}),
	}
}

// Subscribe starts relaying zone events from the bus.
func (f *Feed) Subscribe() error {
	for _, eventType := range []string{
		systems.EventZoneEntered,
		systems.EventZoneExited,
		systems.EventZoneForceApplied,
		systems.EventZoneReloaded,
	} {
		sub, err := f.bus.Subscribe(eventType, f.relay)
		if err != nil {
			f.Unsubscribe()
			return err
		}
		f.mu.Lock()
		f.subs = append(f.subs, sub)
		f.mu.Unlock()
	}
	return nil
}

func (f *Feed) Unsubscribe() {
	f.mu.Lock()
	subs := f.subs
	f.subs = nil
	f.mu.Unlock()
	for _, sub := range subs {
		_ = f.bus.Unsubscribe(sub)
	}
}

func (f *Feed) Clients() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

func (f *Feed) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, f.serveWS)
	return mux
}

// ListenAndServe serves the feed on addr until ctx is done.
func (f *Feed) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return f.Serve(ctx, ln)
}

func (f *Feed) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: f.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	f.logger.Info("debug feed listening", log.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	f.closeClients()
	if err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (f *Feed) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	if f.source != nil {
		b, err := json.Marshal(Message{Type: MessageSnapshot, Timestamp: time.Now(), Zones: f.source.Snapshot()})
		if err == nil {
			c.send <- b
		}
	}
	f.add(c)
	defer func() {
		f.remove(c)
		_ = conn.Close()
	}()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				f.remove(c)
				return
			}
		}
	}()

	for b := range c.send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

func (f *Feed) relay(event bus.Event) error {
	data, ok := event.Data().(systems.ZoneEvent)
	if !ok {
		return nil
	}
	b, err := json.Marshal(Message{Type: event.Type(), Timestamp: event.Timestamp(), Event: &data})
	if err != nil {
		return err
	}
	f.broadcast(b)
	return nil
}

func (f *Feed) broadcast(b []byte) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for c := range f.clients {
		select {
		case c.send <- b:
		default:
		}
	}
}

func (f *Feed) add(c *client) {
	f.mu.Lock()
	f.clients[c] = struct{}{}
	f.mu.Unlock()
}

// remove closes the client's send queue once, which ends its writer loop.
func (f *Feed) remove(c *client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
}

func (f *Feed) closeClients() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		delete(f.clients, c)
		close(c.send)
		_ = c.conn.Close()
	}
}
