package feed

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ghuser/marketledger/pkg/config"
	"github.com/ghuser/marketledger/pkg/logger"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	log := logger.New(&config.Config{LogLevel: "error"})
	hub := NewHub(log)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubBroadcast(t *testing.T) {
	hub, srv := startHub(t)

	c1 := dial(t, srv)
	c2 := dial(t, srv)

	// Registration happens in ServeHTTP before the pumps start; wait for both
	// clients to be tracked before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want 2", hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}

	payload := []byte(`{"product_id":1,"purchased":true}`)
	hub.Broadcast(payload)

	for i, conn := range []*websocket.Conn{c1, c2} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("client %d read: %v", i, err)
		}
		if mt != websocket.TextMessage {
			t.Errorf("client %d message type = %d", i, mt)
		}
		if string(msg) != string(payload) {
			t.Errorf("client %d payload = %s", i, msg)
		}
	}
}

func TestHubDropsDisconnectedClient(t *testing.T) {
	hub, srv := startHub(t)

	conn := dial(t, srv)
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() < 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	_ = conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for hub.ClientCount() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d after disconnect, want 0", hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	log := logger.New(&config.Config{LogLevel: "error"})
	hub := NewHub(log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// More payloads than the hub queue holds; Broadcast must drop, not block.
		for i := 0; i < 200; i++ {
			hub.Broadcast([]byte("x"))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked with no Run loop draining the queue")
	}
}
