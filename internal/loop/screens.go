package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/applecatch/internal/engine"
	"github.com/tomz197/applecatch/internal/object"
)

// titleArt is "APPLE CATCH" in figlet's small font.
var titleArt = []string{
	`   _   ___ ___ _    ___    ___   _ _____ ___ _  _ `,
	`  /_\ | _ \ _ \ |  | __|  / __| /_\_   _/ __| || |`,
	` / _ \|  _/  _/ |__| _|  | (__ / _ \| || (__| __ |`,
	`/_/ \_\_| |_| |____|___|  \___/_/ \_\_| \___|_||_|`,
}

// drawUI draws the HUD and whichever panel the current phase needs.
func (s *Session) drawUI(now time.Time) {
	termWidth := s.canvas.TerminalWidth()
	termHeight := s.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	s.drawHUD(termWidth)

	if s.inactive {
		s.drawInactivityScreen(now, centerX, centerY)
		return
	}

	switch {
	case s.surface.gameOver:
		s.drawGameOverScreen(centerX, centerY)
	case s.surface.status.Phase == engine.PhaseIdle:
		s.drawStartScreen(now, centerX, centerY)
	case s.surface.status.Phase == engine.PhasePaused:
		s.drawPausedScreen(centerX, centerY)
	}
}

// drawHUD draws score, level and lives along the top row.
func (s *Session) drawHUD(termWidth int) {
	cw := s.chunkWriter
	st := s.surface.status
	cw.WriteAt(2, 1, fmt.Sprintf("Score: %-6d Level: %-3d", st.Score, st.Level))

	livesText := fmt.Sprintf("Lives: %d", st.Lives)
	cw.WriteAt(termWidth-len(livesText)-1, 1, livesText)
}

// drawStartScreen draws the title screen.
func (s *Session) drawStartScreen(now time.Time, centerX, centerY int) {
	cw := s.chunkWriter
	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}
	titleStartY := centerY - 8
	for i, line := range titleArt {
		cw.WriteAt(centerX-titleWidth/2, titleStartY+i, line)
	}

	controlsY := titleStartY + len(titleArt) + 2
	controlLines := []string{
		"Mouse  . . . . Move basket",
		"Click  . . . .  Pick apple",
		"A D / < >  . . Move basket",
		"P  . . . . . . . . . Pause",
		"R  . . . . . . . . . Reset",
		"Q  . . . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		cw.WriteAt(centerX-len(line)/2, controlsY+i, line)
	}

	if now.UnixMilli()/PromptBlinkPeriod.Milliseconds()%2 == 0 {
		prompt := ">>  Press SPACE to Start  <<"
		cw.WriteAt(centerX-len(prompt)/2, controlsY+len(controlLines)+1, prompt)
	}
}

// drawPausedScreen draws a blinking pause banner.
func (s *Session) drawPausedScreen(centerX, centerY int) {
	cw := s.chunkWriter
	if object.ShouldRenderBlink(s.clock.Seconds(), PauseBlinkFreq) {
		title := "PAUSED"
		cw.WriteAt(centerX-len(title)/2, centerY-1, title)
	}
	hint := "Press P to resume"
	cw.WriteAt(centerX-len(hint)/2, centerY+1, hint)
}

// drawGameOverScreen draws the final score panel.
func (s *Session) drawGameOverScreen(centerX, centerY int) {
	cw := s.chunkWriter
	r := s.surface.result

	title := "GAME OVER"
	cw.WriteAt(centerX-len(title)/2, centerY-3, title)

	scoreText := fmt.Sprintf("Final score: %d", r.Score)
	cw.WriteAt(centerX-len(scoreText)/2, centerY-1, scoreText)

	levelText := fmt.Sprintf("Level reached: %d", r.Level)
	cw.WriteAt(centerX-len(levelText)/2, centerY, levelText)

	prompt := ">>  Press R to Reset  <<"
	cw.WriteAt(centerX-len(prompt)/2, centerY+2, prompt)
}

// drawInactivityScreen draws the inactivity warning screen.
func (s *Session) drawInactivityScreen(now time.Time, centerX, centerY int) {
	cw := s.chunkWriter
	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	left := max(InactivityDisconnectUser-now.Sub(s.lastInput), 0)
	msg := fmt.Sprintf("You will be disconnected in %d seconds.", int(left.Seconds()))
	cw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}
