package loop

import (
	"bufio"
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/applecatch/internal/engine"
	"github.com/tomz197/applecatch/internal/input"
)

// newTestSession returns a session on a 120x40 terminal, which maps one
// column to one logical unit and one row to two.
func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s := NewSession(bufio.NewReader(strings.NewReader("")), &out, SessionOptions{
		TermSizeFunc: func() (int, int, error) { return 120, 40, nil },
		Rand:         rand.New(rand.NewPCG(3, 4)),
	})
	return s, &out
}

// startAndSpawn starts the game and fires the first spawn.
func startAndSpawn(t *testing.T, s *Session) time.Time {
	t.Helper()
	now := s.queue.Now()
	s.handleInput(input.Input{Start: true, Pressed: []byte(" ")}, now, 0)
	now = now.Add(engine.SpawnInterval(1))
	s.tick(now, 0)
	if got := len(s.surface.apples); got != 1 {
		t.Fatalf("apples after first spawn = %d, want 1", got)
	}
	return now
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{120, 40, 120, 40, 0, 0},
		{200, 40, MaxTermWidth, 40, 20, 0},
		{120, 61, 120, MaxTermHeight, 0, 5},
	}
	for _, tt := range tests {
		rw, rh, oc, or := clampTermSize(tt.w, tt.h)
		if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
			t.Errorf("clampTermSize(%d, %d) = %d, %d, %d, %d", tt.w, tt.h, rw, rh, oc, or)
		}
	}
}

func TestStartKeySpawnsApples(t *testing.T) {
	s, _ := newTestSession(t)
	startAndSpawn(t, s)
	if s.surface.status.Phase != engine.PhaseRunning {
		t.Fatalf("phase = %v, want running", s.surface.status.Phase)
	}
}

func TestClickOnAppleCatchesIt(t *testing.T) {
	s, _ := newTestSession(t)
	now := startAndSpawn(t, s)

	obj := s.engine.Objects()[0]
	b, ok := s.engine.Bounds(obj.ID)
	if !ok {
		t.Fatal("spawned object has no bounds")
	}
	click := input.PointerEvent{Col: int(b.X) + 3, Row: int(b.Y)/2 + 2, Click: true}
	s.handleInput(input.Input{Pointer: []input.PointerEvent{click}, Pressed: []byte("x")}, now, 0)

	if s.surface.status.Score != engine.CatchScore {
		t.Fatalf("score = %d, want %d", s.surface.status.Score, engine.CatchScore)
	}
	if len(s.surface.apples) != 0 {
		t.Fatal("caught apple still drawn")
	}
	if len(s.surface.texts) != 1 {
		t.Fatalf("floating texts = %d, want 1", len(s.surface.texts))
	}
	if len(s.surface.toSpawn) != BurstParticles {
		t.Fatalf("queued particles = %d, want a burst of %d", len(s.surface.toSpawn), BurstParticles)
	}
	s.tick(now, time.Millisecond)
	if len(s.surface.effects) != BurstParticles || len(s.surface.toSpawn) != 0 {
		t.Fatal("burst not moved into effects")
	}
}

func TestPointerMotionMovesCatcher(t *testing.T) {
	s, _ := newTestSession(t)
	startAndSpawn(t, s)
	now := s.queue.Now()

	s.handleInput(input.Input{Pointer: []input.PointerEvent{{Col: 61, Row: 20}}, Pressed: []byte("x")}, now, 0)
	want := 60.5 - TerminalDimensions.CatcherWidth/2
	if got := s.surface.catcher.X; got != want {
		t.Fatalf("catcher X = %v, want %v", got, want)
	}

	// Outside the canvas is ignored.
	s.handleInput(input.Input{Pointer: []input.PointerEvent{{Col: 500, Row: 20}}, Pressed: []byte("x")}, now, 0)
	if got := s.surface.catcher.X; got != want {
		t.Fatalf("catcher moved to %v by an off-canvas report", got)
	}
}

func TestHeldKeyNudgesCatcher(t *testing.T) {
	s, _ := newTestSession(t)
	startAndSpawn(t, s)
	now := s.queue.Now()
	before := s.engine.CatcherX()

	s.handleInput(input.Input{Right: true, Pressed: []byte("d")}, now, 100*time.Millisecond)
	if got, want := s.engine.CatcherX(), before+KeyboardSpeed*0.1; got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("catcher X = %v, want %v", got, want)
	}

	s.handleInput(input.Input{Left: true, Right: true, Pressed: []byte("ad")}, now, 100*time.Millisecond)
	if got, want := s.engine.CatcherX(), before+KeyboardSpeed*0.1; got < want-1e-9 || got > want+1e-9 {
		t.Fatal("opposing keys moved the catcher")
	}
}

func TestPauseFreezesApples(t *testing.T) {
	s, _ := newTestSession(t)
	now := startAndSpawn(t, s)
	s.tick(now, 200*time.Millisecond)

	s.handleInput(input.Input{Pause: true, Pressed: []byte("p")}, now, 0)
	if !s.surface.frozen {
		t.Fatal("surface not frozen after pause")
	}
	var y float64
	for _, a := range s.surface.apples {
		y = a.Y
	}
	s.tick(now.Add(time.Minute), time.Second)
	for _, a := range s.surface.apples {
		if a.Y != y {
			t.Fatalf("frozen apple moved from %v to %v", y, a.Y)
		}
	}
	if s.surface.status.Lives != engine.InitialLives {
		t.Fatal("life lost while paused")
	}
}

func TestMissesEndInGameOverAndResetClears(t *testing.T) {
	s, out := newTestSession(t)
	now := startAndSpawn(t, s)

	s.tick(now.Add(time.Minute), 0)
	if !s.surface.gameOver || s.surface.status.Phase != engine.PhaseGameOver {
		t.Fatalf("after a minute without catches: gameOver=%v phase=%v", s.surface.gameOver, s.surface.status.Phase)
	}
	if len(s.surface.apples) != 0 {
		t.Fatal("apples left after game over")
	}

	if err := s.drawFrame(now); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "GAME OVER") || !strings.Contains(out.String(), "Lives: 0") {
		t.Fatal("game-over frame missing panel or lives readout")
	}

	s.handleInput(input.Input{Reset: true, Pressed: []byte("r")}, now, 0)
	if s.surface.gameOver || s.surface.status.Phase != engine.PhaseIdle {
		t.Fatal("reset did not return to the title screen")
	}
	if s.surface.status.Lives != engine.InitialLives || s.surface.status.Score != 0 {
		t.Fatalf("status after reset = %+v", s.surface.status)
	}
}

func TestQuitAndClosedStopSession(t *testing.T) {
	for _, in := range []input.Input{{Quit: true}, {Closed: true}} {
		s, _ := newTestSession(t)
		s.handleInput(in, s.queue.Now(), 0)
		if s.running {
			t.Errorf("session still running after %+v", in)
		}
	}
}

func TestInactivityWarnsThenDisconnects(t *testing.T) {
	s, out := newTestSession(t)
	start := s.lastInput

	s.handleInput(input.Input{}, start.Add(InactivityWarnUser+time.Second), 0)
	if !s.inactive || !s.running {
		t.Fatalf("after warn threshold: inactive=%v running=%v", s.inactive, s.running)
	}
	if err := s.drawFrame(start.Add(InactivityWarnUser + time.Second)); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "INACTIVITY WARNING") {
		t.Fatal("warning not drawn")
	}

	s.handleInput(input.Input{Pressed: []byte("x")}, start.Add(InactivityWarnUser+2*time.Second), 0)
	if s.inactive {
		t.Fatal("keypress did not clear the warning")
	}

	s.handleInput(input.Input{}, start.Add(InactivityWarnUser+3*time.Second+InactivityDisconnectUser), 0)
	if s.running {
		t.Fatal("idle player not disconnected")
	}
}
