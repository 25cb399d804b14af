package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/stockpulse/newswire/internal/hub"
	"github.com/stockpulse/newswire/pkg/logger"
)

// upgrader accepts any origin, mirroring the open CORS policy of the
// subscriber-facing endpoint
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server exposes the subscriber websocket endpoint plus liveness,
// readiness and metrics routes
type Server struct {
	srv       *http.Server
	hub       *hub.Hub
	ready     bool
	readyMu   sync.RWMutex
	startTime time.Time
}

// healthStatus represents system health
type healthStatus struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Uptime      string `json:"uptime"`
	Subscribers int    `json:"subscribers"`
}

// New creates new server
func New(port int, h *hub.Hub) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		hub:       h,
		startTime: time.Now(),
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Stock News Realtime Server")
	})
	router.GET("/health", s.handleHealth)
	router.GET("/ready", s.handleReadiness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", s.handleWebsocket)

	s.srv = &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     router,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	return s
}

// Start starts the HTTP server, blocking until shutdown
func (s *Server) Start() error {
	logger.Info("server starting",
		zap.String("addr", s.srv.Addr),
	)

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	logger.Info("stopping server...")
	return s.srv.Shutdown(ctx)
}

// SetReady marks the service as ready to accept subscribers
func (s *Server) SetReady(ready bool) {
	s.readyMu.Lock()
	s.ready = ready
	s.readyMu.Unlock()
}

// handleHealth is the liveness probe, 200 while the process is alive
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthStatus{
		Status:      "healthy",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Uptime:      time.Since(s.startTime).Round(time.Second).String(),
		Subscribers: s.hub.ClientCount(),
	})
}

// handleReadiness is the readiness probe
func (s *Server) handleReadiness(c *gin.Context) {
	s.readyMu.RLock()
	ready := s.ready
	s.readyMu.RUnlock()

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true})
}

// handleWebsocket upgrades a subscriber connection and hands it to the
// hub for its lifetime
func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := hub.NewClient(s.hub, conn)
	client.Run()
}
