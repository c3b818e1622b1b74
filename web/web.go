// Package web serves a loaded ledger as a read-only JSON API.
//
// The server keeps one ledger in memory and swaps it as a whole when the
// watched file changes, notifying connected clients through Server-Sent
// Events. Requests never observe a partially built ledger.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/kmy/ledger"
	"github.com/robinvdvleuten/kmy/loader"
	"github.com/robinvdvleuten/kmy/telemetry"
)

type Server struct {
	Port         int
	Host         string
	Version      string
	CommitSHA    string
	WatchEnabled bool
	Logger       zerolog.Logger

	mu         sync.RWMutex
	ledger     *ledger.Ledger
	validation []error // advisory validation errors of the current ledger
	loadedAt   time.Time

	ledgerFile string // absolute path of the served file

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, ledgerFile string) *Server {
	return NewWithVersion(port, ledgerFile, "", "")
}

func NewWithVersion(port int, ledgerFile, version, commitSHA string) *Server {
	if abs, err := filepath.Abs(ledgerFile); err == nil {
		ledgerFile = abs
	}
	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Version:    version,
		CommitSHA:  commitSHA,
		Logger:     zerolog.Nop(),
		ledgerFile: ledgerFile,
		sseClients: make(map[chan string]struct{}),
	}
}

// Start loads the ledger and serves the API until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("web.start %s:%d", s.Host, s.Port))

	if s.ledgerFile == "" {
		timer.End()
		return fmt.Errorf("ledger file is required")
	}

	loadTimer := timer.Child(fmt.Sprintf("web.load_ledger %s", filepath.Base(s.ledgerFile)))
	err := s.reloadLedger(ctx)
	loadTimer.End()
	if err != nil {
		timer.End()
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	setupTimer := timer.Child("web.setup_router")
	mux := s.setupRouter()
	setupTimer.End()
	timer.End()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.Logger.Info().Str("addr", srv.Addr).Str("file", s.ledgerFile).Msg("serving ledger")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) setupRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/version", s.handleGetVersion)
	mux.HandleFunc("GET /api/source", s.handleGetSource)
	mux.HandleFunc("GET /api/accounts", s.handleGetAccounts)
	mux.HandleFunc("GET /api/splits", s.handleGetSplits)
	mux.HandleFunc("GET /api/balance", s.handleGetBalance)
	mux.HandleFunc("GET /api/aggregate", s.handleGetAggregate)
	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux
}

// reloadLedger loads or reloads the ledger from disk. On failure the
// previous ledger stays in place.
// Caller must NOT hold the mutex - this method acquires it internally.
func (s *Server) reloadLedger(ctx context.Context) error {
	l, err := loader.New().Load(s.Logger.WithContext(ctx), s.ledgerFile)
	if err != nil {
		return err
	}

	var validationErrs []error
	var errs *ledger.ValidationErrors
	if errors.As(l.Validate(), &errs) {
		validationErrs = errs.Errors
	}

	s.mu.Lock()
	s.ledger = l
	s.validation = validationErrs
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.Logger.Debug().
		Int("accounts", len(l.Accounts())).
		Int("transactions", len(l.Transactions())).
		Int("errors", len(validationErrs)).
		Msg("ledger loaded")

	return nil
}

// startWatcher starts a file watcher for the ledger file.
// It reloads the ledger and broadcasts SSE events when the file changes.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(s.ledgerFile); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.ledgerFile, err)
	}

	go s.runWatcher(ctx, watcher)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// KMyMoney writes a temporary file and renames it over the original
	const debounceDelay = 250 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx, watcher)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.Logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// handleFileChange reloads the ledger and re-adds the watch, which an
// atomic rename drops.
func (s *Server) handleFileChange(ctx context.Context, watcher *fsnotify.Watcher) {
	if err := s.reloadLedger(ctx); err != nil {
		s.Logger.Error().Err(err).Msg("failed to reload ledger")
		return
	}

	if err := watcher.Add(s.ledgerFile); err != nil {
		s.Logger.Warn().Err(err).Str("file", s.ledgerFile).Msg("failed to watch ledger")
	}

	s.broadcast("reload")
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ErrorResponse is the JSON body of failed API requests.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Matches []string `json:"matches,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}
