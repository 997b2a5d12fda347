// Package web serves the browser front end: the page and its assets, and a
// WebSocket endpoint that runs one game per connection.
package web

import (
	"context"
	"embed"
	"errors"
	"io"
	"io/fs"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

//go:embed static
var staticFiles embed.FS

// Response bodies for error statuses.
const (
	notFoundMessage    = "page not found"
	serverErrorMessage = "something went wrong on the server"
)

// Options configures the handler.
type Options struct {
	Logger *log.Logger
	// Rand, when set, returns the spawn randomness for each new game.
	Rand func() *rand.Rand
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// NewHandler returns the site's routes. Games started through it end when
// ctx is cancelled.
func NewHandler(ctx context.Context, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // The embedded tree is fixed at build time
	}

	mux := http.NewServeMux()
	mux.Handle("/", serveStatic(static))
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("upgrade", "remote", r.RemoteAddr, "err", err)
			return
		}

		var rng *rand.Rand
		if opts.Rand != nil {
			rng = opts.Rand()
		}
		sess := NewSession(conn, logger, rng)
		logger.Info("game connected", "session", sess.ID, "remote", r.RemoteAddr)

		go sess.WritePump()
		go sess.ReadPump()
		go sess.Run(ctx)
	})

	return Recover(logRequests(mux, logger), logger)
}

// serveStatic serves the page at "/" and the embedded assets by name.
// Anything else is a 404.
func serveStatic(static fs.FS) http.Handler {
	files := http.FileServerFS(static)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		if r.URL.Path == "/" {
			http.ServeFileFS(w, r, static, "index.html")
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/")
		if info, err := fs.Stat(static, name); err != nil || info.IsDir() || name == "index.html" {
			http.Error(w, notFoundMessage, http.StatusNotFound)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// Recover turns a panicking handler into a 500 with a generic message.
func Recover(next http.Handler, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			logger.Error("handler panic", "method", r.Method, "path", r.URL.Path, "panic", rec)
			http.Error(w, serverErrorMessage, http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the hijacker for upgrades.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// logRequests logs each request at Debug once it completes.
func logRequests(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r) // The upgrader needs the raw writer
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("http", "method", r.Method, "path", r.URL.Path, "status", rec.status, "took", time.Since(start))
	})
}
