package web

import "encoding/json"

// Client -> Server message types
const (
	MsgStart  = "start"
	MsgPause  = "pause" // Toggles pause
	MsgReset  = "reset"
	MsgMove   = "move"
	MsgClick  = "click"
	MsgCatch  = "catch" // Direct hit on an apple element
	MsgResize = "resize"
)

// Server -> Client message types
const (
	MsgWelcome      = "welcome"
	MsgStatus       = "status"
	MsgSpawn        = "spawn"
	MsgRemove       = "remove"
	MsgCatcher      = "catcher"
	MsgText         = "text"
	MsgFreeze       = "freeze"
	MsgGameOver     = "gameover"
	MsgHideGameOver = "hidegameover"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string `json:"t"`
	Data any    `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// PointerMsg is a pointer position in play-area pixels.
type PointerMsg struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CatchMsg names the apple the player clicked.
type CatchMsg struct {
	ID uint64 `json:"id"`
}

// ResizeMsg reports the play area's size in pixels.
type ResizeMsg struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// WelcomeMsg is sent once per connection.
type WelcomeMsg struct {
	Session      string  `json:"sid"`
	ObjectWidth  float64 `json:"ow"`
	ObjectHeight float64 `json:"oh"`
	CatcherWidth float64 `json:"cw"`
}

// StatusMsg carries the readouts.
type StatusMsg struct {
	Score int    `json:"score"`
	Lives int    `json:"lives"`
	Level int    `json:"level"`
	Phase string `json:"phase"`
}

// SpawnMsg starts an apple falling. Fall is in milliseconds.
type SpawnMsg struct {
	ID   uint64  `json:"id"`
	X    float64 `json:"x"`
	Fall int64   `json:"fall"`
}

// RemoveMsg takes an apple off the page.
type RemoveMsg struct {
	ID uint64 `json:"id"`
}

// CatcherMsg places the basket's left edge.
type CatcherMsg struct {
	X float64 `json:"x"`
}

// TextMsg shows a transient message. Dur is in milliseconds.
type TextMsg struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Dur  int64   `json:"dur"`
}

// FreezeMsg stops or resumes every fall animation.
type FreezeMsg struct {
	Frozen bool `json:"frozen"`
}

// GameOverMsg carries the final result.
type GameOverMsg struct {
	Score int `json:"score"`
	Level int `json:"level"`
}
