package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/tomz197/applecatch/internal/config"
	"github.com/tomz197/applecatch/internal/loop"
	"golang.org/x/term"
)

func main() {
	os.Exit(run())
}

// run plays one game and returns the exit code, so deferred cleanup runs
// before the process exits.
func run() int {
	logger := config.NewLogger("applecatch")

	// The terminal belongs to the game while it runs, so play logs go to
	// LOG_FILE or nowhere.
	playLogger := log.New(io.Discard)
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Error("failed to open log file", "path", path, "err", err)
			return 1
		}
		defer f.Close()
		playLogger = log.NewWithOptions(f, log.Options{Level: config.LogLevel(), ReportTimestamp: true})
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Error("failed to enable raw mode", "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	runErr := loop.Run(ctx, reader, os.Stdout, playLogger)
	_ = term.Restore(fd, oldState)

	if runErr != nil {
		logger.Error("game error", "err", runErr)
		return 1
	}
	return 0
}
