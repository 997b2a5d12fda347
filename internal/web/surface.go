package web

import (
	"time"

	"github.com/tomz197/applecatch/internal/engine"
)

// Play-area bounds accepted from the page, in pixels.
const (
	defaultAreaWidth  = 800
	defaultAreaHeight = 500
	maxAreaSide       = 4096
)

// wsSurface forwards the engine's decisions to the page as messages.
type wsSurface struct {
	area engine.Size
	emit func(Envelope)
}

var _ engine.Surface = (*wsSurface)(nil)

func newWSSurface(emit func(Envelope)) *wsSurface {
	return &wsSurface{
		area: engine.Size{Width: defaultAreaWidth, Height: defaultAreaHeight},
		emit: emit,
	}
}

// resize records the page's play area. Reports false for sizes it rejects.
func (s *wsSurface) resize(w, h float64) bool {
	if w <= 0 || h <= 0 || w > maxAreaSide || h > maxAreaSide {
		return false
	}
	s.area = engine.Size{Width: w, Height: h}
	return true
}

func (s *wsSurface) PlayArea() engine.Size {
	return s.area
}

func (s *wsSurface) SpawnObject(id engine.ObjectID, x float64, fall time.Duration) {
	s.emit(Envelope{T: MsgSpawn, Data: SpawnMsg{ID: uint64(id), X: x, Fall: fall.Milliseconds()}})
}

func (s *wsSurface) RemoveObject(id engine.ObjectID) {
	s.emit(Envelope{T: MsgRemove, Data: RemoveMsg{ID: uint64(id)}})
}

func (s *wsSurface) MoveCatcher(x float64) {
	s.emit(Envelope{T: MsgCatcher, Data: CatcherMsg{X: x}})
}

func (s *wsSurface) ShowText(text string, at engine.Point, d time.Duration) {
	s.emit(Envelope{T: MsgText, Data: TextMsg{Text: text, X: at.X, Y: at.Y, Dur: d.Milliseconds()}})
}

func (s *wsSurface) SetFrozen(frozen bool) {
	s.emit(Envelope{T: MsgFreeze, Data: FreezeMsg{Frozen: frozen}})
}

func (s *wsSurface) UpdateStatus(st engine.Status) {
	s.emit(Envelope{T: MsgStatus, Data: StatusMsg{
		Score: st.Score,
		Lives: st.Lives,
		Level: st.Level,
		Phase: st.Phase.String(),
	}})
}

func (s *wsSurface) ShowGameOver(r engine.Result) {
	s.emit(Envelope{T: MsgGameOver, Data: GameOverMsg{Score: r.Score, Level: r.Level}})
}

func (s *wsSurface) HideGameOver() {
	s.emit(Envelope{T: MsgHideGameOver})
}
