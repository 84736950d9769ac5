// Package livesync follows state changes the controller pushes over its
// websocket, so the panel reflects edits made from other clients.
package livesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/lightctl/internal/events"
	"github.com/muurk/lightctl/internal/field"
	"github.com/muurk/lightctl/internal/logging"
	"github.com/muurk/lightctl/internal/version"
)

const (
	// DefaultPort is the controller's websocket port.
	DefaultPort = 81

	// Subprotocol is offered during the handshake; the firmware expects it.
	Subprotocol = "arduino"

	DefaultMinBackoff = 1 * time.Second
	DefaultMaxBackoff = 30 * time.Second

	handshakeTimeout = 10 * time.Second
)

// ErrEmptyMessage is returned by Decode for frames carrying JSON null.
var ErrEmptyMessage = errors.New("empty message")

// Message is one state change pushed by the controller.
type Message struct {
	Name  string      `json:"name"`
	Value field.Value `json:"value"`
}

// Listener keeps a websocket to the controller open and publishes every
// message as an events.FieldChangedEvent.
type Listener struct {
	URL string
	Bus *events.Bus

	Dialer     *websocket.Dialer
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// Endpoint returns the websocket URL for a controller host.
func Endpoint(host string, port int) string {
	if port == 0 {
		port = DefaultPort
	}
	return "ws://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
}

// New creates a listener for the controller at host.
func New(host string, port int, bus *events.Bus) *Listener {
	return &Listener{
		URL: Endpoint(host, port),
		Bus: bus,
		Dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
			Subprotocols:     []string{Subprotocol},
		},
		MinBackoff: DefaultMinBackoff,
		MaxBackoff: DefaultMaxBackoff,
	}
}

// Run connects and reconnects until ctx is cancelled, then returns ctx's
// error. Backoff doubles after each failed attempt and resets once a
// connection has delivered a message.
func (l *Listener) Run(ctx context.Context) error {
	backoff := l.MinBackoff

	for {
		delivered, err := l.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		l.publish(events.LiveConnectionEvent{Connected: false, URL: l.URL, Err: err})
		if delivered {
			backoff = l.MinBackoff
		}

		logging.Debug("Live sync disconnected",
			zap.String("url", l.URL),
			zap.Duration("retry_in", backoff),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > l.MaxBackoff {
			backoff = l.MaxBackoff
		}
	}
}

// session runs one connection until it fails. It reports whether any
// message was received.
func (l *Listener) session(ctx context.Context) (bool, error) {
	header := http.Header{}
	header.Set("User-Agent", version.UserAgent())

	conn, _, err := l.Dialer.DialContext(ctx, l.URL, header)
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", l.URL, err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	logging.Info("Live sync connected", zap.String("url", l.URL), zap.String("subprotocol", conn.Subprotocol()))
	l.publish(events.LiveConnectionEvent{Connected: true, URL: l.URL})

	delivered := false
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn("Live sync read error", zap.String("url", l.URL), zap.Error(err))
			}
			return delivered, err
		}
		logging.LogWebSocketMessage(l.URL, msgType, data)

		msg, err := Decode(data)
		if err != nil {
			logging.Debug("Ignoring live sync message", zap.Error(err))
			continue
		}
		delivered = true
		l.publish(events.FieldChangedEvent{Name: msg.Name, Value: msg.Value, Source: events.SourceDevice})
	}
}

func (l *Listener) publish(ev events.Event) {
	if l.Bus != nil {
		l.Bus.Publish(ev)
	}
}

// Decode parses one text frame. Messages without a name are rejected.
func Decode(data []byte) (Message, error) {
	var msg *Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("decode live message: %w", err)
	}
	if msg == nil {
		return Message{}, ErrEmptyMessage
	}
	if msg.Name == "" {
		return Message{}, fmt.Errorf("live message has no name: %s", data)
	}
	return *msg, nil
}
