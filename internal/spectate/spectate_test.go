package spectate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/roomwalk/internal/telemetry"
)

func startServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil)
	srv := NewServer(":0", hub, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		hub.Close()
		ts.Close()
	})
	return hub, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitWatchers(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for hub.Count() != n {
		if time.Now().After(deadline) {
			t.Fatalf("hub has %d watchers, expected %d", hub.Count(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsEvents(t *testing.T) {
	hub, ts := startServer(t)
	conn := dial(t, ts, "")
	waitWatchers(t, hub, 1)

	hub.Record(telemetry.Event{Session: "s1", Game: "pyramid", Kind: telemetry.KindCollect, Room: "(1,1)", X: 7, Y: 8, Detail: "person"})

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got telemetry.Event
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Kind != telemetry.KindCollect || got.Detail != "person" || got.X != 7 {
		t.Errorf("received %+v", got)
	}
}

func TestHubFiltersByGame(t *testing.T) {
	hub, ts := startServer(t)
	conn := dial(t, ts, "?game=reef")
	waitWatchers(t, hub, 1)

	hub.Record(telemetry.Event{Game: "pyramid", Kind: telemetry.KindMove})
	hub.Record(telemetry.Event{Game: "reef", Kind: telemetry.KindLose, Detail: "sunk"})

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got telemetry.Event
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Game != "reef" || got.Detail != "sunk" {
		t.Errorf("first event = %+v, expected the reef event", got)
	}
}

func TestHubForgetsClosedWatchers(t *testing.T) {
	hub, ts := startServer(t)
	conn := dial(t, ts, "")
	waitWatchers(t, hub, 1)

	conn.Close()
	waitWatchers(t, hub, 0)

	// Recording with nobody listening is fine
	hub.Record(telemetry.Event{Kind: telemetry.KindMove})
}

func TestHealthz(t *testing.T) {
	_, ts := startServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Status   string `json:"status"`
		Watchers int    `json:"watchers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Watchers != 0 {
		t.Errorf("healthz = %+v", body)
	}

	// Only GET is routed
	post, err := http.Post(ts.URL+"/healthz", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusNotFound {
		t.Errorf("POST /healthz status = %d, expected 404", post.StatusCode)
	}
}
