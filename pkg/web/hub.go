// Package web serves the serial output of a running GameBoy to
// websocket clients.
package web

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gorilla/websocket"
	"github.com/thelolagemann/dmgcore/pkg/log"
)

// compressThreshold is the smallest payload worth compressing.
const compressThreshold = 64

// Hub fans serial output out to every connected client.
type Hub struct {
	clients map[*Client]bool

	broadcast            chan []byte
	register, unregister chan *Client
	stats                chan chan []ClientStats
	done                 chan struct{}

	fingerprint uint64
	title       string

	compression      bool
	compressionLevel int
	currentID        uint8

	log log.Logger
	mu  sync.Mutex
}

// Opt configures a Hub.
type Opt func(h *Hub)

// WithCompression brotli compresses payloads at the given level.
func WithCompression(level int) Opt {
	return func(h *Hub) {
		h.compression = true
		h.compressionLevel = level
	}
}

// WithLogger sets the logger used to report client activity.
func WithLogger(l log.Logger) Opt {
	return func(h *Hub) {
		h.log = l
	}
}

// NewHub returns a Hub that greets clients with the fingerprint and
// title of the loaded ROM.
func NewHub(fingerprint uint64, title string, opts ...Opt) *Hub {
	h := &Hub{
		clients:     make(map[*Client]bool),
		broadcast:   make(chan []byte, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		stats:       make(chan chan []ClientStats),
		done:        make(chan struct{}),
		fingerprint: fingerprint,
		title:       title,
		log:         log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run handles client registration and broadcasting until ctx is
// cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.Send)
				delete(h.clients, c)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.log.Infof("client %d connected from %s", c.ID, c.RemoteAddr)
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.Send)
				st := c.Stats()
				h.log.Infof("client %d (%s) disconnected after %s, latency %s", st.ID, st.UserAgent, st.Connected.Round(time.Millisecond), st.Latency)
			}
		case reply := <-h.stats:
			stats := make([]ClientStats, 0, len(h.clients))
			for c := range h.clients {
				stats = append(stats, c.Stats())
			}
			reply <- stats
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.Send <- msg:
				default:
					// client is too slow to keep up
					close(c.Send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// ServeHTTP upgrades the request to a websocket connection, and
// registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("upgrading %s: %v", r.RemoteAddr, err)
		return
	}

	c := h.newClient(conn, r)
	if c == nil {
		conn.Close()
		return
	}

	go c.ReadPump()
	go c.WritePump()
}

// Clients returns the stats of every connected client. It returns nil
// once the hub has stopped.
func (h *Hub) Clients() []ClientStats {
	reply := make(chan []ClientStats, 1)
	select {
	case h.stats <- reply:
		return <-reply
	case <-h.done:
		return nil
	}
}

// BroadcastLine sends a line of serial output to every client. It
// never blocks, lines are dropped when the hub is saturated.
func (h *Hub) BroadcastLine(line string) {
	h.send(h.encode(Line, []byte(line)))
}

// BroadcastChar sends a byte of serial output to every client.
func (h *Hub) BroadcastChar(c byte) {
	h.send([]byte{Char, 0, c})
}

func (h *Hub) send(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
	}
}

// hello builds the greeting for a new client.
func (h *Hub) hello() []byte {
	payload := make([]byte, 8, 8+len(h.title))
	binary.LittleEndian.PutUint64(payload, h.fingerprint)
	payload = append(payload, h.title...)
	return h.encode(Hello, payload)
}

// encode frames payload as a message of type t, compressing it when
// enabled and worthwhile.
func (h *Hub) encode(t Type, payload []byte) []byte {
	if h.compression && len(payload) >= compressThreshold {
		var buf bytes.Buffer
		buf.Write([]byte{t, Compressed})
		w := brotli.NewWriterLevel(&buf, h.compressionLevel)
		if _, err := w.Write(payload); err == nil && w.Close() == nil {
			return buf.Bytes()
		}
	}
	return append([]byte{t, 0}, payload...)
}

// newClient creates a new client and registers it to the hub. It
// returns nil if the hub has stopped.
func (h *Hub) newClient(conn *websocket.Conn, r *http.Request) *Client {
	h.mu.Lock()
	h.currentID++
	id := h.currentID
	h.mu.Unlock()

	c := &Client{
		hub:         h,
		conn:        conn,
		Send:        make(chan []byte, 256),
		ID:          id,
		RemoteAddr:  r.RemoteAddr,
		UserAgent:   r.Header.Get("User-Agent"),
		connectedAt: time.Now(),
	}
	c.Send <- h.hello()

	select {
	case h.register <- c:
		return c
	case <-h.done:
		return nil
	}
}

// leave unregisters c, unless the hub has already stopped.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ListenAndServe serves h on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go h.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
