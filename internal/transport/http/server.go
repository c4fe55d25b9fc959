package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	chatService "github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/service"
	feedService "github.com/reshetovitsme/chat-alert-bot/internal/modules/feed/service"
	subscriberService "github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/service"
	"github.com/reshetovitsme/chat-alert-bot/internal/shared/config"
	sloghttp "github.com/samber/slog-http"
)

// Server exposes the operational HTTP surface: health, status, metrics
// and per-chat alert history feeds
type Server struct {
	cfg         *config.Config
	chats       *chatService.Service
	subscribers *subscriberService.Service
	feeds       *feedService.Service
	logger      *slog.Logger
}

// New creates a new HTTP server
func New(cfg *config.Config, chats *chatService.Service, subscribers *subscriberService.Service, feeds *feedService.Service) *Server {
	return &Server{
		cfg:         cfg,
		chats:       chats,
		subscribers: subscribers,
		feeds:       feeds,
		logger:      slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Alert history as RSS, one feed per chat
	mux.HandleFunc("GET /rss/{chatID}", s.handleRSSFeed)

	// Operational endpoints
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Root endpoint with instructions
	mux.HandleFunc("GET /", s.handleRoot)

	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("HTTP server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

func (s *Server) handleRSSFeed(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.ParseInt(r.PathValue("chatID"), 10, 64)
	if err != nil {
		http.Error(w, "Chat ID must be a number", http.StatusBadRequest)
		return
	}

	// Get base URL from request
	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)

	feed, err := s.feeds.GenerateFeed(r.Context(), chatID, baseURL)
	if err != nil {
		s.logger.Error("Error generating feed", "chat_id", chatID, "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300") // Cache for 5 minutes
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleStatus reports how many chats and subscribers the bot tracks.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	chats, err := s.chats.GetAllChats(r.Context())
	if err != nil {
		s.logger.Error("Error loading chats for status", "error", err)
		http.Error(w, "Failed to load status", http.StatusInternalServerError)
		return
	}

	subscribers, err := s.subscribers.GetAllSubscribers(r.Context())
	if err != nil {
		s.logger.Error("Error loading subscribers for status", "error", err)
		http.Error(w, "Failed to load status", http.StatusInternalServerError)
		return
	}

	muted := 0
	for _, chat := range chats {
		if chat.Muted {
			muted++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]int{
		"chats":       len(chats),
		"muted_chats": muted,
		"subscribers": len(subscribers),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Chat Alert Bot</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>Chat Alert Bot</h1>
    <div class="info">
        <p>This service watches Telegram chats and alerts subscribers when messages match their trigger patterns.</p>
        <p>Alert history per chat is available as RSS: <code>/rss/{chatID}</code></p>
        <p>Example: <code>/rss/-1001234567890</code></p>
    </div>
    <p><a href="/health">Health Check</a> | <a href="/status">Status</a> | <a href="/metrics">Metrics</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
