// Package loop runs the game in a terminal: it reads keys and mouse reports,
// drives the engine and its timer queue, and draws each frame with
// half-block characters.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// Run plays one local game on r and w until the player quits.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, logger *log.Logger) error {
	return NewSession(r, w, SessionOptions{Logger: logger}).Run(ctx)
}
