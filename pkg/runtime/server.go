// Package runtime exposes the HTTP entrypoint that forwards prompts into the
// externally compiled research graph and relays its event stream back to the
// caller.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/naufal/reva/internal/metrics"
	"github.com/naufal/reva/internal/tracing"
	"github.com/naufal/reva/pkg/graph"
	"github.com/rs/zerolog"
)

// Server is the agent entrypoint HTTP server.
type Server struct {
	host           string
	port           int
	graph          graph.Graph
	server         *http.Server
	upgrader       websocket.Upgrader
	mirror         *EventMirror
	metrics        *metrics.Metrics
	logger         zerolog.Logger
	isShuttingDown bool
	shutdownMu     sync.RWMutex
	inFlightReqs   sync.WaitGroup
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Graph   graph.Graph
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// NewServer creates a new entrypoint server
func NewServer(cfg Config) (*Server, error) {
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Graph == nil {
		return nil, fmt.Errorf("graph is required")
	}

	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewMetrics()
	}

	return &Server{
		host:    cfg.Host,
		port:    cfg.Port,
		graph:   cfg.Graph,
		mirror:  NewEventMirror(cfg.Logger, cfg.Metrics),
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // observers are trusted infra, no origin policy
			},
		},
	}, nil
}

// Handler returns the server's route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/invocations", s.handleInvocations)
	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// Start starts the entrypoint server without blocking.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.host, s.port),
		Handler: s.Handler(),
	}

	s.logger.Info().Str("host", s.host).Int("port", s.port).Msg("Starting entrypoint server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Entrypoint server error")
		}
	}()

	return nil
}

// Stop gracefully stops the server, letting in-flight relays drain.
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	s.isShuttingDown = true
	s.shutdownMu.Unlock()

	s.logger.Info().Msg("Shutting down entrypoint server")

	done := make(chan struct{})
	go func() {
		s.inFlightReqs.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("All in-flight relays completed")
	case <-time.After(30 * time.Second):
		s.logger.Warn().Msg("Shutdown timeout reached, forcing close")
	}

	s.mirror.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info().Msg("Entrypoint server stopped")
	return nil
}

// handlePing answers the hosting runtime's health probe.
func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(PingResponse{Status: "Healthy"})
}

// handleInvocations unwraps the request envelope and relays the graph's event
// stream to the caller as server-sent events, preserving arrival order.
func (s *Server) handleInvocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.shutdownMu.RLock()
	if s.isShuttingDown {
		s.shutdownMu.RUnlock()
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	s.shutdownMu.RUnlock()

	s.inFlightReqs.Add(1)
	defer s.inFlightReqs.Done()

	start := time.Now()
	defer func() {
		s.metrics.InvocationDuration.Observe(time.Since(start).Seconds())
	}()

	prompt, err := extractPrompt(r.Body)
	if err != nil {
		s.metrics.InvocationsTotal.WithLabelValues("bad_request").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		sessionID = tracing.NewSessionID()
	}
	traceID := r.Header.Get(TraceHeader)
	if traceID == "" {
		traceID = tracing.NewTraceID()
	}

	ctx := tracing.WithTraceID(r.Context(), traceID)
	ctx = tracing.WithSessionID(ctx, sessionID)
	logger := tracing.LoggerFromContext(ctx, s.logger)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	stream, err := s.graph.Stream(ctx, graph.StreamInput{
		Prompt:    prompt,
		SessionID: sessionID,
	})
	if err != nil {
		s.metrics.InvocationsTotal.WithLabelValues("open_failed").Inc()
		logger.Error().Err(err).Msg("Failed to open graph stream")
		http.Error(w, fmt.Sprintf("failed to open graph stream: %v", err), http.StatusBadGateway)
		return
	}

	logger.Info().Msg("Relaying graph stream")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set(SessionHeader, sessionID)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	relayed := 0
	for ev := range stream.Events() {
		data, err := json.Marshal(ev)
		if err != nil {
			// An event the graph produced but we cannot encode; surface it
			// rather than dropping silently.
			logger.Error().Err(err).Msg("Failed to encode graph event")
			s.metrics.InvocationsTotal.WithLabelValues("stream_error").Inc()
			writeSSEError(w, flusher, fmt.Errorf("failed to encode graph event: %w", err))
			return
		}

		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
		relayed++
		s.metrics.EventsRelayedTotal.Inc()

		s.mirror.Publish(sessionID, data)
	}

	if err := stream.Err(); err != nil {
		logger.Error().Err(err).Int("relayed", relayed).Msg("Graph stream failed")
		s.metrics.InvocationsTotal.WithLabelValues("stream_error").Inc()
		writeSSEError(w, flusher, err)
		return
	}

	s.metrics.InvocationsTotal.WithLabelValues("ok").Inc()
	logger.Info().Int("relayed", relayed).Msg("Graph stream completed")
}

// handleWebSocket attaches an observer to the event mirror.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.shutdownMu.RLock()
	if s.isShuttingDown {
		s.shutdownMu.RUnlock()
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	s.shutdownMu.RUnlock()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade observer connection")
		return
	}

	s.mirror.Attach(conn, r.RemoteAddr)
}

// extractPrompt pulls the prompt out of the invocation envelope, falling back
// to the guidance prompt when the key is absent.
func extractPrompt(body io.Reader) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read request body: %w", err)
	}

	if len(raw) == 0 {
		return FallbackPrompt, nil
	}

	var envelope map[string]interface{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", fmt.Errorf("invalid request body: %w", err)
	}

	prompt, ok := envelope["prompt"].(string)
	if !ok {
		return FallbackPrompt, nil
	}
	return prompt, nil
}

func writeSSEError(w http.ResponseWriter, flusher http.Flusher, err error) {
	payload, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		payload = []byte(`{"error":"stream failed"}`)
	}
	fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
	flusher.Flush()
}
