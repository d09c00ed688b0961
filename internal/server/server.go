// Package server provides the HTTP REST API for the interview coach.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/history"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/pipeline"
	"github.com/jonathan/interview-coach/internal/recording"
	"github.com/jonathan/interview-coach/internal/transcription"
	"github.com/jonathan/interview-coach/internal/video"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	cfg        *config.Config

	audio       *transcription.Client
	videoClient *video.Client
	pipeline    *pipeline.Orchestrator
	history     *history.Store
	recordings  *recording.Store

	llmClient llm.Client
}

// New creates a new server instance. A Gemini client is only constructed when
// some configured mode actually calls the model.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	s := &Server{cfg: cfg}

	if cfg.GeminiAPIKey != "" && !cfg.AICallsDisabled {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.llmClient = client
	}

	s.audio = transcription.New(cfg, s.llmClient)
	s.videoClient = video.New(cfg)

	historyStore, err := history.Open(cfg.HistoryPath, cfg.HistoryCap)
	if err != nil {
		return nil, err
	}
	s.history = historyStore

	recordingStore, err := recording.Open(cfg.HistoryPath)
	if err != nil {
		_ = historyStore.Close()
		return nil, err
	}
	s.recordings = recordingStore

	s.pipeline = pipeline.New(s.audio, s.videoClient, s.history)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/transcribe", s.handleTranscribe)
	mux.HandleFunc("POST /api/technical", s.handleTechnical)
	mux.HandleFunc("POST /api/feedback", s.handleFeedback)
	mux.HandleFunc("POST /api/evaluate", s.handleEvaluate)

	mux.HandleFunc("GET /api/history", s.handleListHistory)
	mux.HandleFunc("DELETE /api/history", s.handleClearHistory)

	mux.HandleFunc("PUT /api/recordings/latest", s.handleSaveRecording)
	mux.HandleFunc("GET /api/recordings/latest", s.handleLoadRecording)
	mux.HandleFunc("DELETE /api/recordings/latest", s.handleClearRecording)

	mux.HandleFunc("GET /api/questions", s.handleQuestions)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 300 * time.Second, // the confidence path can poll for minutes
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close releases the server's stores and clients.
func (s *Server) Close() {
	if s.history != nil {
		_ = s.history.Close()
	}
	if s.recordings != nil {
		_ = s.recordings.Close()
	}
	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request with its duration
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}
