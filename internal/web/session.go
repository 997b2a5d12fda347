package web

import (
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tomz197/applecatch/internal/engine"
	"github.com/tomz197/applecatch/internal/sched"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 1024
	sendBufSize       = 256
	inboxSize         = 64
	maxMessagesPerSec = 120
	tickInterval      = 10 * time.Millisecond
)

// Session plays one game over one WebSocket connection. The read and write
// pumps only move bytes; Run owns the engine and handles every message and
// timer on its own goroutine.
type Session struct {
	ID string

	conn   *websocket.Conn
	send   chan []byte
	inbox  chan InEnvelope
	done   chan struct{}
	logger *log.Logger

	engine  *engine.Engine
	queue   *sched.Queue
	surface *wsSurface

	msgCount   int
	msgResetAt time.Time
	stalled    bool
}

// NewSession creates a session for conn. rng may be nil.
func NewSession(conn *websocket.Conn, logger *log.Logger, rng *rand.Rand) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	id := uuid.NewString()
	s := &Session{
		ID:     id,
		conn:   conn,
		send:   make(chan []byte, sendBufSize),
		inbox:  make(chan InEnvelope, inboxSize),
		done:   make(chan struct{}),
		logger: logger.With("session", id),
		queue:  sched.NewQueue(time.Now()),
	}
	s.surface = newWSSurface(s.SendJSON)
	s.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{
		Session:      id,
		ObjectWidth:  engine.BrowserDimensions.ObjectWidth,
		ObjectHeight: engine.BrowserDimensions.ObjectHeight,
		CatcherWidth: engine.BrowserDimensions.CatcherWidth,
	}})
	s.engine = engine.New(s.surface, s.queue, engine.Options{
		Dimensions: engine.BrowserDimensions,
		Rand:       rng,
		Logger:     s.logger,
	})
	return s
}

// Run handles messages and fires timers until the connection closes or ctx
// is cancelled. It closes the send channel on return, which ends WritePump.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer func() {
		ticker.Stop()
		close(s.done)
		close(s.send)
		st := s.engine.State()
		s.logger.Info("session finished", "score", st.Score, "level", st.Level)
	}()

	for {
		select {
		case env, ok := <-s.inbox:
			if !ok {
				return
			}
			s.queue.Advance(time.Now())
			s.handleMessage(env)
		case now := <-ticker.C:
			s.queue.Advance(now)
		case <-ctx.Done():
			return
		}
	}
}

// ReadPump reads messages from the WebSocket connection
func (s *Session) ReadPump() {
	defer func() {
		close(s.inbox)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("ws read", "err", err)
			}
			return
		}

		// Rate limiting
		now := time.Now()
		if now.After(s.msgResetAt) {
			s.msgCount = 0
			s.msgResetAt = now.Add(time.Second)
		}
		s.msgCount++
		if s.msgCount > maxMessagesPerSec {
			s.logger.Warn("rate limit exceeded, disconnecting")
			return
		}

		var env InEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			s.logger.Debug("unmarshal", "err", err)
			continue
		}
		select {
		case s.inbox <- env:
		case <-s.done:
			return
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON queues a message for the page. Only called from the goroutine
// that owns the engine.
func (s *Session) SendJSON(msg Envelope) {
	if s.stalled {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("marshal", "type", msg.T, "err", err)
		return
	}
	select {
	case s.send <- data:
	default:
		// Client too slow, cut it off
		s.stalled = true
		s.logger.Warn("send buffer full, closing", "type", msg.T)
		if s.conn != nil {
			s.conn.Close()
		}
	}
}

// handleMessage routes one incoming message to the engine.
func (s *Session) handleMessage(env InEnvelope) {
	switch env.T {
	case MsgStart:
		s.engine.Start()
	case MsgPause:
		s.engine.TogglePause()
	case MsgReset:
		s.engine.Reset()
	case MsgMove:
		var msg PointerMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		s.engine.MovePointer(msg.X)
	case MsgClick:
		var msg PointerMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		s.engine.Click(msg.X, msg.Y)
	case MsgCatch:
		var msg CatchMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		s.engine.Catch(engine.ObjectID(msg.ID))
	case MsgResize:
		var msg ResizeMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		if !s.surface.resize(msg.W, msg.H) {
			s.logger.Debug("rejected play area", "w", msg.W, "h", msg.H)
			return
		}
		s.engine.ClampCatcher()
	default:
		s.logger.Debug("unknown message", "type", env.T)
	}
}
