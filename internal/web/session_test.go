package web

import (
	"encoding/json"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/tomz197/applecatch/internal/engine"
)

// newOfflineSession builds a session without a connection; tests drive it
// through handleMessage and read what it queued.
func newOfflineSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(nil, nil, rand.New(rand.NewPCG(5, 6)))
	drain(s)
	return s
}

// drain returns the types of queued messages and their raw payloads.
func drain(s *Session) []InEnvelope {
	var out []InEnvelope
	for {
		select {
		case raw := <-s.send:
			var env InEnvelope
			if err := json.Unmarshal(raw, &env); err == nil {
				out = append(out, env)
			}
		default:
			return out
		}
	}
}

func types(envs []InEnvelope) []string {
	out := make([]string, len(envs))
	for i, env := range envs {
		out[i] = env.T
	}
	return out
}

func msg(t *testing.T, typ string, data any) InEnvelope {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	return InEnvelope{T: typ, D: raw}
}

func TestNewSessionGreets(t *testing.T) {
	s := NewSession(nil, nil, nil)
	got := types(drain(s))
	want := []string{MsgWelcome, MsgCatcher, MsgStatus}
	if len(got) != len(want) {
		t.Fatalf("greeting = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("greeting = %v, want %v", got, want)
		}
	}
}

func TestResizeBoundsSpawns(t *testing.T) {
	s := newOfflineSession(t)
	s.handleMessage(msg(t, MsgResize, ResizeMsg{W: 100, H: 300}))
	s.handleMessage(InEnvelope{T: MsgStart})

	for range 20 {
		s.queue.AdvanceBy(engine.SpawnInterval(1))
	}
	spawned := 0
	for _, env := range drain(s) {
		if env.T != MsgSpawn {
			continue
		}
		var sp SpawnMsg
		if err := json.Unmarshal(env.D, &sp); err != nil {
			t.Fatal(err)
		}
		if sp.X < 0 || sp.X > 100-engine.BrowserDimensions.ObjectWidth {
			t.Fatalf("spawn at x=%v in a 100px area", sp.X)
		}
		spawned++
	}
	if spawned == 0 {
		t.Fatal("no spawns")
	}
}

func TestRejectedResizeKeepsArea(t *testing.T) {
	s := newOfflineSession(t)
	for _, m := range []ResizeMsg{{W: 0, H: 300}, {W: 300, H: -1}, {W: 1e9, H: 300}} {
		s.handleMessage(msg(t, MsgResize, m))
	}
	if got := s.surface.PlayArea(); got.Width != defaultAreaWidth || got.Height != defaultAreaHeight {
		t.Fatalf("area = %+v after bad resizes", got)
	}
}

// lastCatcherX returns the x of the last catcher message in envs.
func lastCatcherX(t *testing.T, envs []InEnvelope) (float64, bool) {
	t.Helper()
	var x float64
	found := false
	for _, env := range envs {
		if env.T != MsgCatcher {
			continue
		}
		var c CatcherMsg
		if err := json.Unmarshal(env.D, &c); err != nil {
			t.Fatal(err)
		}
		x, found = c.X, true
	}
	return x, found
}

func TestResizeKeepsCatcherInside(t *testing.T) {
	s := newOfflineSession(t)
	s.handleMessage(msg(t, MsgResize, ResizeMsg{W: 300, H: 400}))

	maxX := 300 - engine.BrowserDimensions.CatcherWidth
	x, ok := lastCatcherX(t, drain(s))
	if !ok {
		t.Fatal("resize sent no catcher position")
	}
	if x != maxX || s.engine.CatcherX() != maxX {
		t.Fatalf("catcher x = %v after resize, want %v", x, maxX)
	}

	s.handleMessage(InEnvelope{T: MsgStart})
	if got := s.engine.CatcherX(); got > maxX {
		t.Fatalf("catcher x = %v after start, max %v", got, maxX)
	}
}

func TestRejectedResizeLeavesCatcher(t *testing.T) {
	s := newOfflineSession(t)
	before := s.engine.CatcherX()
	s.handleMessage(msg(t, MsgResize, ResizeMsg{W: 0, H: 400}))
	if _, ok := lastCatcherX(t, drain(s)); ok {
		t.Fatal("rejected resize moved the catcher")
	}
	if s.engine.CatcherX() != before {
		t.Fatalf("catcher x = %v, want %v", s.engine.CatcherX(), before)
	}
}

func TestSlowClientIsCut(t *testing.T) {
	s := newOfflineSession(t)
	for range sendBufSize + 10 {
		s.SendJSON(Envelope{T: MsgStatus, Data: StatusMsg{}})
	}
	if !s.stalled {
		t.Fatal("session not marked stalled after its buffer filled")
	}
	if len(s.send) != sendBufSize {
		t.Fatalf("queued %d messages, want %d", len(s.send), sendBufSize)
	}

	drain(s)
	s.SendJSON(Envelope{T: MsgStatus, Data: StatusMsg{}})
	if len(s.send) != 0 {
		t.Fatal("stalled session kept queueing")
	}
}

func TestPauseSendsFreeze(t *testing.T) {
	s := newOfflineSession(t)
	s.handleMessage(InEnvelope{T: MsgStart})
	s.queue.AdvanceBy(engine.SpawnInterval(1))
	drain(s)

	s.handleMessage(InEnvelope{T: MsgPause})
	var frozen *FreezeMsg
	for _, env := range drain(s) {
		if env.T == MsgFreeze {
			frozen = &FreezeMsg{}
			json.Unmarshal(env.D, frozen)
		}
	}
	if frozen == nil || !frozen.Frozen {
		t.Fatal("pause did not freeze the page")
	}

	// A paused game never drops apples.
	s.queue.AdvanceBy(time.Minute)
	for _, env := range drain(s) {
		if env.T == MsgRemove || env.T == MsgGameOver {
			t.Fatalf("%s while paused", env.T)
		}
	}
}

func TestClickAndMoveMessages(t *testing.T) {
	s := newOfflineSession(t)
	s.handleMessage(msg(t, MsgResize, ResizeMsg{W: 400, H: 600}))
	s.handleMessage(InEnvelope{T: MsgStart})
	drain(s)

	s.handleMessage(msg(t, MsgMove, PointerMsg{X: 1000}))
	var catcher CatcherMsg
	for _, env := range drain(s) {
		if env.T == MsgCatcher {
			json.Unmarshal(env.D, &catcher)
		}
	}
	if want := 400 - engine.BrowserDimensions.CatcherWidth; catcher.X != want {
		t.Fatalf("catcher x = %v, want %v", catcher.X, want)
	}

	s.queue.AdvanceBy(engine.SpawnInterval(1))
	obj := s.engine.Objects()[0]
	b, _ := s.engine.Bounds(obj.ID)
	s.handleMessage(msg(t, MsgClick, PointerMsg{X: b.X + 1, Y: b.Y + 1}))
	if s.engine.State().Score != engine.CatchScore {
		t.Fatalf("score = %d after clicking an apple", s.engine.State().Score)
	}
}

func TestGameOverAfterMisses(t *testing.T) {
	s := newOfflineSession(t)
	s.handleMessage(InEnvelope{T: MsgStart})
	s.queue.AdvanceBy(time.Minute)

	var over *GameOverMsg
	for _, env := range drain(s) {
		if env.T == MsgGameOver {
			over = &GameOverMsg{}
			json.Unmarshal(env.D, over)
		}
	}
	if over == nil || over.Score != 0 || over.Level != 1 {
		t.Fatalf("game over = %+v", over)
	}

	s.handleMessage(InEnvelope{T: MsgReset})
	got := types(drain(s))
	found := false
	for _, typ := range got {
		found = found || typ == MsgHideGameOver
	}
	if !found {
		t.Fatalf("reset sent %v, want a %s", got, MsgHideGameOver)
	}
}
