package web

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Client is a websocket connection receiving serial output.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	Send chan []byte
	ID   uint8

	RemoteAddr string
	UserAgent  string

	avgLatency  atomic.Uint32 // microseconds
	connectedAt time.Time
}

// ClientStats describes a connected client.
type ClientStats struct {
	ID         uint8
	RemoteAddr string
	UserAgent  string
	Latency    time.Duration
	Connected  time.Duration // time since the client connected
}

// Stats returns the current stats of c.
func (c *Client) Stats() ClientStats {
	return ClientStats{
		ID:         c.ID,
		RemoteAddr: c.RemoteAddr,
		UserAgent:  c.UserAgent,
		Latency:    c.Latency(),
		Connected:  time.Since(c.connectedAt),
	}
}

// Latency returns the smoothed round trip time of the connection, as
// reported by the kernel. It is zero where that is not available.
func (c *Client) Latency() time.Duration {
	return time.Duration(c.avgLatency.Load()) * time.Microsecond
}

// ReadPump discards incoming messages, and unregisters the client
// once the connection closes or the client says goodbye.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return // connection closed
		}
		if len(message) > 0 && message[0] == ClientClosing {
			return
		}
	}
}

// WritePump writes queued messages to the connection, and keeps it
// alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			// hub closed the channel
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				return
			}
			c.updateLatency()
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// updateLatency folds the current round trip time into the average.
func (c *Client) updateLatency() {
	tcp, ok := c.conn.UnderlyingConn().(*net.TCPConn)
	if !ok {
		return
	}
	rtt, err := roundTrip(tcp)
	if err != nil {
		return
	}
	sample := uint32(rtt / time.Microsecond)
	if avg := c.avgLatency.Load(); avg != 0 {
		sample = (avg*9 + sample) / 10
	}
	c.avgLatency.Store(sample)
}
