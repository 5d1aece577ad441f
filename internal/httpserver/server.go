package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/lotus-setup/internal/duckdb"
	"github.com/tinytelemetry/lotus-setup/internal/snapshot"
)

// HistoryStore is the narrow store contract required by the HTTP API.
type HistoryStore interface {
	ListRuns(limit int) ([]duckdb.Run, error)
	GetRun(id string) (duckdb.Run, error)
}

// SnapshotReader reads stored pre snapshot ids.
type SnapshotReader interface {
	Load(purpose string) (uint64, error)
	Purposes() (map[string]uint64, error)
}

// Server provides a read-only HTTP API over the setup history.
type Server struct {
	addr      string
	history   HistoryStore
	snapshots SnapshotReader
	logger    *log.Logger
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, history HistoryStore, snapshots SnapshotReader, logger *log.Logger) *Server {
	if addr == "" {
		addr = "127.0.0.1:3080"
	}
	if logger == nil {
		logger = log.Default().WithPrefix("http")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		history:   history,
		snapshots: snapshots,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/runs", s.handleRuns)
	r.GET("/api/runs/:id", s.handleRun)
	r.GET("/api/snapshots", s.handleSnapshots)
	r.GET("/api/snapshots/:purpose", s.handleSnapshot)
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	s.routes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()
	s.logger.Info("http api listening", "addr", listener.Addr().String())

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http api stopped", "err", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	runs, err := s.history.ListRuns(1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read run history"})
		return
	}

	body := gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	}
	if len(runs) > 0 {
		body["last_run"] = runs[0].FinishedAt
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleRuns(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 1000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 1000"})
			return
		}
		limit = n
	}

	runs, err := s.history.ListRuns(limit)
	if err != nil {
		s.logger.Error("list runs", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read run history"})
		return
	}
	if runs == nil {
		runs = []duckdb.Run{}
	}
	c.JSON(http.StatusOK, gin.H{
		"runs":      runs,
		"row_count": len(runs),
	})
}

func (s *Server) handleRun(c *gin.Context) {
	run, err := s.history.GetRun(c.Param("id"))
	if errors.Is(err, duckdb.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		s.logger.Error("get run", "id", c.Param("id"), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read run"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleSnapshots(c *gin.Context) {
	ids, err := s.snapshots.Purposes()
	if err != nil {
		s.logger.Error("list pre snapshots", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read snapshot ids"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pre_snapshots": ids})
}

func (s *Server) handleSnapshot(c *gin.Context) {
	purpose := c.Param("purpose")
	id, err := s.snapshots.Load(purpose)
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pre snapshot stored", "purpose": purpose})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read snapshot id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purpose": purpose, "pre_snapshot": id})
}
