package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/applecatch/internal/draw"
	"github.com/tomz197/applecatch/internal/engine"
	"github.com/tomz197/applecatch/internal/input"
	"github.com/tomz197/applecatch/internal/object"
	"github.com/tomz197/applecatch/internal/sched"
)

// Session runs one game in one terminal: input, engine, rendering.
type Session struct {
	engine  *engine.Engine
	queue   *sched.Queue
	surface *termSurface

	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates frame output for chunked writes
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger

	lastInput time.Time
	inactive  bool
	running   bool
	clock     time.Duration // Time since the session started, for blinking
}

// SessionOptions configures a session.
type SessionOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
	Rand         *rand.Rand
}

// NewSession creates a session reading keys and mouse reports from r and
// drawing to w.
func NewSession(r *bufio.Reader, w io.Writer, opts SessionOptions) *Session {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, ViewWidth, ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	now := time.Now()
	queue := sched.NewQueue(now)
	surface := newTermSurface(engine.Size{Width: ViewWidth, Height: ViewHeight}, TerminalDimensions)
	eng := engine.New(surface, queue, engine.Options{
		Dimensions: TerminalDimensions,
		Rand:       opts.Rand,
		Logger:     logger,
	})

	return &Session{
		engine:       eng,
		queue:        queue,
		surface:      surface,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		logger:       logger,
		lastInput:    now,
		running:      true,
	}
}

// Run plays until the player quits, input closes, the player idles out or
// ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	draw.HideCursor(s.writer)
	draw.EnableMouse(s.writer)
	defer func() {
		draw.DisableMouse(s.writer)
		draw.ShowCursor(s.writer)
	}()
	draw.ClearScreen(s.writer)

	lastTime := time.Now()
	for s.running {
		if ctx.Err() != nil {
			break
		}
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		s.handleInput(input.ReadInput(s.inputStream), frameStart, delta)
		s.updateScreen()
		s.tick(frameStart, delta)

		if err := s.drawFrame(frameStart); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < TargetFrameTime {
			time.Sleep(TargetFrameTime - elapsed)
		}
	}

	s.logger.Info("session finished", "score", s.engine.State().Score, "level", s.engine.State().Level)
	draw.ClearScreen(s.writer)
	return nil
}

// handleInput applies one frame of input to the engine.
func (s *Session) handleInput(in input.Input, now time.Time, delta time.Duration) {
	switch {
	case in.Quit || in.Closed:
		s.running = false
		return
	case len(in.Pressed) > 0:
		s.lastInput = now
		s.inactive = false
	case now.Sub(s.lastInput) > InactivityDisconnectUser:
		s.logger.Info("disconnecting idle player")
		s.running = false
		return
	case now.Sub(s.lastInput) > InactivityWarnUser:
		s.inactive = true
	}

	if in.Reset {
		s.engine.Reset()
	}
	if in.Start {
		s.engine.Start()
	}
	if in.Pause {
		s.engine.TogglePause()
	}

	if in.Left != in.Right {
		step := KeyboardSpeed * delta.Seconds()
		if in.Left {
			step = -step
		}
		center := s.engine.CatcherX() + TerminalDimensions.CatcherWidth/2
		s.engine.MovePointer(center + step)
	}

	for _, ev := range in.Pointer {
		x, y, ok := s.canvas.TerminalToLogical(ev.Col, ev.Row)
		if !ok {
			continue
		}
		if ev.Click {
			s.engine.Click(x, y)
		} else {
			s.engine.MovePointer(x)
		}
	}
}

// tick fires due timers and advances animations.
func (s *Session) tick(now time.Time, delta time.Duration) {
	s.queue.Advance(now)
	s.surface.update(delta)
	s.clock += delta
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(s.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	s.canvas.Resize(renderWidth, renderHeight)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, MaxTermWidth)
	renderHeight = min(termHeight, MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// drawFrame renders the play area and the UI overlay in one flush.
func (s *Session) drawFrame(now time.Time) error {
	s.chunkWriter.WriteString("\033[H\033[2J")
	s.canvas.Clear()

	ctx := object.DrawContext{
		Canvas: s.canvas,
		Writer: s.chunkWriter,
	}
	if err := s.surface.drawShapes(ctx); err != nil {
		return err
	}
	s.canvas.Render(s.chunkWriter)
	s.canvas.RenderBorder(s.chunkWriter)
	if err := s.surface.drawTexts(ctx); err != nil {
		return err
	}
	s.drawUI(now)

	return s.chunkWriter.Flush()
}
