// Package push maintains a websocket subscription to the backend's order
// status stream. A received event only triggers a re-fetch; the fetched
// order remains the source of truth for rendering.
package push

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"tiffinbox/internal/models"
)

// StatusEvent is one pushed order status change.
type StatusEvent struct {
	OrderID string             `json:"orderId"`
	Status  models.OrderStatus `json:"status"`
}

// Listener dials the stream and invokes the refresh callback per event.
type Listener struct {
	wsURL     string
	onEvent   func(StatusEvent)
	dialer    *websocket.Dialer
	reconnect time.Duration
}

// NewListener builds a listener for the API base URL. onEvent runs on the
// listener goroutine; callbacks should hand off to their own context.
func NewListener(baseURL string, onEvent func(StatusEvent)) *Listener {
	return &Listener{
		wsURL:     wsEndpoint(baseURL),
		onEvent:   onEvent,
		dialer:    websocket.DefaultDialer,
		reconnect: 5 * time.Second,
	}
}

// wsEndpoint rewrites the http(s) base URL to its ws(s) /ws endpoint.
func wsEndpoint(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + "/ws"
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String()
}

// Run connects and consumes events until the context is cancelled,
// reconnecting after connection loss. Push is best effort: a dead stream
// only means the UI falls back to manual refresh.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.consume(ctx); err != nil && ctx.Err() == nil {
			log.Printf("push: stream closed: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.reconnect):
		}
	}
}

func (l *Listener) consume(ctx context.Context) error {
	conn, _, err := l.dialer.DialContext(ctx, l.wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var event StatusEvent
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("push: dropping malformed event: %v", err)
			continue
		}
		if event.OrderID == "" {
			continue
		}
		l.onEvent(event)
	}
}
