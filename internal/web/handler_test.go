package web

import (
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// startTestServer spins up an httptest.Server with the site's routes and
// returns it with its WebSocket URL.
func startTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(NewHandler(ctx, Options{
		Rand: func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) },
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestStaticRoutes(t *testing.T) {
	srv, _ := startTestServer(t)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
		wantType   string
	}{
		{"/", http.StatusOK, "Apple Catch", "text/html"},
		{"/game.js", http.StatusOK, "class AppleCatch", "javascript"},
		{"/style.css", http.StatusOK, ".game-area", "text/css"},
		{"/missing", http.StatusNotFound, notFoundMessage, ""},
		{"/static/game.js", http.StatusNotFound, notFoundMessage, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, srv.URL+tt.path)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if !strings.Contains(body, tt.wantBody) {
				t.Errorf("body does not contain %q", tt.wantBody)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, tt.wantType) {
				t.Errorf("Content-Type = %q, want %q", ct, tt.wantType)
			}
		})
	}
}

func TestRecoverReturns500(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, serverErrorMessage) || strings.Contains(body, "boom") {
		t.Fatalf("body = %q", body)
	}
}

// readEnvelope reads one message, decoding its payload into a map.
func readEnvelope(t *testing.T, conn *websocket.Conn) (string, map[string]any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read WS: %v", err)
	}
	var env struct {
		T string         `json:"t"`
		D map[string]any `json:"d"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return env.T, env.D
}

// readUntil reads messages until one of type want arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) map[string]any {
	t.Helper()
	for range 200 {
		typ, d := readEnvelope(t, conn)
		if typ == want {
			return d
		}
	}
	t.Fatalf("no %q message", want)
	return nil
}

func sendMsg(t *testing.T, conn *websocket.Conn, typ string, data any) {
	t.Helper()
	raw, _ := json.Marshal(Envelope{T: typ, Data: data})
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write WS: %v", err)
	}
}

func TestWebSocketGame(t *testing.T) {
	_, wsURL := startTestServer(t)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	defer conn.Close()

	typ, welcome := readEnvelope(t, conn)
	if typ != MsgWelcome || welcome["sid"] == "" || welcome["cw"] != 80.0 {
		t.Fatalf("first message = %s %v", typ, welcome)
	}
	if status := readUntil(t, conn, MsgStatus); status["phase"] != "idle" || status["lives"] != 3.0 {
		t.Fatalf("initial status = %v", status)
	}

	sendMsg(t, conn, MsgResize, ResizeMsg{W: 400, H: 600})
	sendMsg(t, conn, MsgStart, nil)
	if status := readUntil(t, conn, MsgStatus); status["phase"] != "running" {
		t.Fatalf("status after start = %v", status)
	}

	spawn := readUntil(t, conn, MsgSpawn)
	if x := spawn["x"].(float64); x < 0 || x > 370 {
		t.Fatalf("spawn x = %v outside the 400px area", x)
	}
	if spawn["fall"] != 1800.0 {
		t.Fatalf("fall = %v, want 1800", spawn["fall"])
	}

	sendMsg(t, conn, MsgCatch, CatchMsg{ID: uint64(spawn["id"].(float64))})
	removed := readUntil(t, conn, MsgRemove)
	if removed["id"] != spawn["id"] {
		t.Fatalf("removed %v, want %v", removed["id"], spawn["id"])
	}
	if status := readUntil(t, conn, MsgStatus); status["score"] != 10.0 {
		t.Fatalf("status after catch = %v", status)
	}
	if text := readUntil(t, conn, MsgText); text["text"] != "+10" {
		t.Fatalf("catch effect = %v", text)
	}
}

func TestConnectionsPlaySeparateGames(t *testing.T) {
	_, wsURL := startTestServer(t)
	a, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	defer a.Close()
	b, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	defer b.Close()

	_, wa := readEnvelope(t, a)
	_, wb := readEnvelope(t, b)
	if wa["sid"] == wb["sid"] {
		t.Fatal("two connections share a session id")
	}
	readUntil(t, a, MsgStatus)
	readUntil(t, b, MsgStatus)

	sendMsg(t, a, MsgStart, nil)
	if status := readUntil(t, a, MsgStatus); status["phase"] != "running" {
		t.Fatalf("a after start = %v", status)
	}

	// b only hears about its own game.
	sendMsg(t, b, MsgPause, nil)
	sendMsg(t, b, MsgReset, nil)
	if status := readUntil(t, b, MsgStatus); status["phase"] != "idle" {
		t.Fatalf("b status = %v, want idle", status)
	}
}
