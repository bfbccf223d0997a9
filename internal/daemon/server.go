// Package daemon runs the background side: the translation service behind a
// Unix socket for the CLI and an HTTP endpoint for a browser extension.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mithrel/hinglish/internal/ipc"
	"github.com/mithrel/hinglish/internal/metrics"
	"github.com/mithrel/hinglish/internal/wire"
	"github.com/mithrel/hinglish/pkg/api"
)

// MaxBodySize bounds a /v1/messages request body.
const MaxBodySize = 1 << 20

const requestIDHeader = "X-Request-Id"

// Run starts the daemon using the provided, already-wired App.
// The caller controls the lifecycle via ctx.
func Run(ctx context.Context, app *wire.App) error {
	addr := app.Cfg.GetString("http_addr")
	if strings.TrimSpace(addr) == "" {
		addr = "127.0.0.1:7465"
	}
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	sock, err := ipc.SocketPath()
	if err != nil {
		_ = l.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ipcDone := make(chan error, 1)
	go func() {
		ipcDone <- ipc.Serve(ctx, sock, app.Translator.Handle, app.Log.Named("ipc"))
	}()
	app.Log.Info("daemon listening", zap.String("http", l.Addr().String()), zap.String("socket", sock))

	err = Start(ctx, l, app)
	cancel()
	if ipcErr := <-ipcDone; err == nil {
		err = ipcErr
	}
	return err
}

// Start serves HTTP on a provided listener until ctx is done.
func Start(ctx context.Context, l net.Listener, app *wire.App) error {
	srv := &http.Server{
		Handler:           Handler(app),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the HTTP routes of the daemon.
func Handler(app *wire.App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", app.Metrics.Handler())
	mux.HandleFunc("POST /v1/messages", messages(app))
	mux.HandleFunc("OPTIONS /v1/messages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return withRequestLog(app.Log.Named("http"), app.Metrics, withExtensionCORS(mux))
}

func messages(app *wire.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
		var req api.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeJSON(w, http.StatusRequestEntityTooLarge, api.ErrorResult("Request too large."))
				return
			}
			writeJSON(w, http.StatusBadRequest, api.ErrorResult("Bad request."))
			return
		}
		// Notices travel in the body with 200, as the extension expects.
		writeJSON(w, http.StatusOK, app.Translator.Handle(r.Context(), req))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// withExtensionCORS lets browser extensions, and only them, call the API.
func withExtensionCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); isExtensionOrigin(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Add("Vary", "Origin")
		} else if origin != "" && r.URL.Path == "/v1/messages" {
			http.Error(w, "forbidden origin", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isExtensionOrigin(origin string) bool {
	return strings.HasPrefix(origin, "chrome-extension://") || strings.HasPrefix(origin, "moz-extension://")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func withRequestLog(log *zap.Logger, m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		switch path {
		case "/healthz", "/metrics", "/v1/messages":
		default:
			path = "other"
		}
		m.HTTPRequests.WithLabelValues(path, strconv.Itoa(rec.status)).Inc()
		log.Debug("request",
			zap.String("id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}
