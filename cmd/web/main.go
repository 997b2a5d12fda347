package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/applecatch/internal/config"
	"github.com/tomz197/applecatch/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "3000"
)

func main() {
	logger := config.NewLogger("web")
	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("PORT", defaultPort)

	games, stopGames := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           web.NewHandler(games, web.Options{Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting web server", "url", "http://"+srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")
	stopGames()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}
