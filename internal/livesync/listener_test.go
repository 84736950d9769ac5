package livesync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/lightctl/internal/events"
)

func TestEndpoint(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"192.168.10.1", 0, "ws://192.168.10.1:81/"},
		{"lights.local", 8081, "ws://lights.local:8081/"},
		{"fe80::1", 81, "ws://[fe80::1]:81/"},
	}
	for _, tt := range tests {
		if got := Endpoint(tt.host, tt.port); got != tt.want {
			t.Errorf("Endpoint(%q, %d) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr bool
	}{
		{"power", `{"name":"power","value":1}`, "power", false},
		{"pattern", `{"name":"pattern","value":"3"}`, "pattern", false},
		{"null", `null`, "", true},
		{"no name", `{"value":1}`, "", true},
		{"garbage", `not json`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if msg.Name != tt.want {
				t.Errorf("Name = %q, want %q", msg.Name, tt.want)
			}
		})
	}

	if _, err := Decode([]byte("null")); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("Decode(null) error = %v, want ErrEmptyMessage", err)
	}
}

// newControllerServer accepts one websocket connection, checks the
// subprotocol and writes frames.
func newControllerServer(t *testing.T, frames ...string) *httptest.Server {
	upgrader := websocket.Upgrader{Subprotocols: []string{Subprotocol}}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade() error = %v", err)
			return
		}
		defer conn.Close()

		if conn.Subprotocol() != Subprotocol {
			t.Errorf("Subprotocol() = %q, want %q", conn.Subprotocol(), Subprotocol)
		}
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		// Hold the connection until the client goes away.
		_, _, _ = conn.ReadMessage()
	}))
}

func TestListener_PublishesFieldChanges(t *testing.T) {
	server := newControllerServer(t, `{"name":"power","value":1}`, `null`, `{"name":"pattern","value":4}`)
	defer server.Close()

	bus := events.New()
	changes := make(chan events.FieldChangedEvent, 4)
	unsub := bus.Subscribe(func(e events.FieldChangedEvent) { changes <- e })
	defer unsub()

	l := New("127.0.0.1", 81, bus)
	l.URL = "ws" + strings.TrimPrefix(server.URL, "http") + "/"

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	var got []events.FieldChangedEvent
	for len(got) < 2 {
		select {
		case e := <-changes:
			got = append(got, e)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out, got %+v", got)
		}
	}

	if got[0].Name != "power" || got[0].Value.Int() != 1 || got[0].Source != events.SourceDevice {
		t.Errorf("first change = %+v", got[0])
	}
	if got[1].Name != "pattern" || got[1].Value.Int() != 4 {
		t.Errorf("second change = %+v", got[1])
	}

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestListener_RetriesUntilCancelled(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	bus := events.New()
	states := make(chan events.LiveConnectionEvent, 8)
	unsub := bus.Subscribe(func(e events.LiveConnectionEvent) { states <- e })
	defer unsub()

	l := New("127.0.0.1", 81, bus)
	l.URL = "ws" + strings.TrimPrefix(server.URL, "http") + "/"
	l.MinBackoff = 5 * time.Millisecond
	l.MaxBackoff = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := l.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want context.DeadlineExceeded", err)
	}

	select {
	case e := <-states:
		if e.Connected || e.Err == nil {
			t.Errorf("state = %+v, want a failed attempt", e)
		}
	case <-time.After(time.Second):
		t.Fatal("no connection state published")
	}
}
