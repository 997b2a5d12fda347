// Package input decodes raw terminal bytes into game input: held movement
// keys, one-shot control keys, and xterm SGR mouse reports.
package input

import (
	"bufio"
	"bytes"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// maxSequenceLen bounds how long an unterminated escape sequence is carried
// between frames before it is discarded as garbage.
const maxSequenceLen = 32

// PointerEvent is a mouse report at a 1-based terminal cell.
type PointerEvent struct {
	Col   int
	Row   int
	Click bool // Left button pressed; otherwise a motion or release
}

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool // Held
	Right   bool // Held
	Start   bool // Pressed this frame
	Pause   bool // Pressed this frame
	Reset   bool // Pressed this frame
	Closed  bool // The underlying reader hit EOF or an error
	Pointer []PointerEvent
	Pressed []byte // Raw bytes received this frame
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	partial []byte // Incomplete escape sequence from the previous frame
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// decodes them.
func ReadInput(s *Stream) Input {
	now := time.Now()
	buf := append([]byte(nil), s.partial...)
	s.partial = s.partial[:0]

	// Drain all available bytes
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	return s.decode(buf, now)
}

// decode parses one frame's bytes at time now.
func (s *Stream) decode(buf []byte, now time.Time) Input {
	in := Input{Closed: s.closed, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			applyByte(&s.state, &in, b, now)
			continue
		}

		// ESC alone at the end may be the start of a split sequence.
		if i+1 >= len(buf) {
			s.carry(buf[i:])
			break
		}
		if buf[i+1] != '[' {
			continue // Bare escape key; unused
		}
		if i+2 >= len(buf) {
			s.carry(buf[i:])
			break
		}

		switch buf[i+2] {
		case '<':
			n, ev, ok := parseSGR(buf[i+3:])
			if n < 0 {
				s.carry(buf[i:])
				i = len(buf)
				continue
			}
			if ok {
				in.Pointer = append(in.Pointer, ev)
			}
			i += 2 + n
		case 'D': // Left arrow
			s.state.left = now
			i += 2
		case 'C': // Right arrow
			s.state.right = now
			i += 2
		default: // Other CSI keys (up/down arrows etc.)
			i += 2
		}
	}

	in.Quit = in.Quit || now.Sub(s.state.quit) < keyHoldDuration
	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	return in
}

// carry keeps an unterminated sequence for the next frame, unless it has
// grown too long to be a real one.
func (s *Stream) carry(seq []byte) {
	if len(seq) > maxSequenceLen || s.closed {
		return
	}
	s.partial = append(s.partial, seq...)
}

// parseSGR parses the body of an SGR mouse report ("b;x;yM" or "b;x;ym",
// after the "ESC [ <" prefix). It returns the number of bytes consumed, or
// -1 if the report is not terminated yet. ok is false for reports the game
// ignores (wheel, other buttons) and for malformed ones.
func parseSGR(body []byte) (n int, ev PointerEvent, ok bool) {
	end := bytes.IndexAny(body, "Mm")
	if end < 0 {
		return -1, PointerEvent{}, false
	}
	fields := bytes.Split(body[:end], []byte{';'})
	if len(fields) != 3 {
		return end + 1, PointerEvent{}, false
	}
	var nums [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(string(f))
		if err != nil {
			return end + 1, PointerEvent{}, false
		}
		nums[i] = v
	}

	code := nums[0]
	if code&64 != 0 {
		return end + 1, PointerEvent{}, false // Wheel
	}
	ev = PointerEvent{Col: nums[1], Row: nums[2]}
	motion := code&32 != 0
	button := code & 3
	pressed := body[end] == 'M'
	switch {
	case motion:
	case pressed && button == 0:
		ev.Click = true
	case !pressed:
	default:
		return end + 1, PointerEvent{}, false
	}
	return end + 1, ev, true
}

// applyByte updates key state and one-shot flags for a plain byte.
func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		state.quit = now
		in.Quit = true
	case 'a', 'A', 'j', 'J', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case ' ', '\n', '\r', 's', 'S':
		in.Start = true
	case 'p', 'P':
		in.Pause = true
	case 'r', 'R':
		in.Reset = true
	}
}
