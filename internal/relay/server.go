// Package relay implements the feedback relay: it persists incoming feedback
// records and forwards them to an outbound webhook, treating the two sinks as
// independent best-effort deliveries.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chatlens/chatlens/internal/feedback"
)

// FeedbackStore persists feedback records.
type FeedbackStore interface {
	InsertFeedback(ctx context.Context, rec feedback.Record) error
}

type Server struct {
	engine     *gin.Engine
	store      FeedbackStore
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewServer wires the relay routes. store may be nil (no durable sink) and
// webhookURL may be empty (no forward); each missing sink is simply skipped.
func NewServer(store FeedbackStore, webhookURL string, logger *zap.Logger) *Server {
	s := &Server{
		store:      store,
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.cors())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.POST("/feedback", s.handleFeedback)

	s.engine = engine
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	s.logger.Info("relay listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

// cors attaches permissive cross-origin headers to every response and
// answers preflight requests unconditionally.
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// handleFeedback accepts one record. An unparseable payload is a hard
// failure; after that, the storage insert and the webhook forward are
// attempted independently and the response is ok regardless of either
// outcome.
func (s *Server) handleFeedback(c *gin.Context) {
	var rec feedback.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		s.logger.Error("unparseable feedback payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	if err := rec.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec.Stamp()

	if s.store != nil {
		if err := s.store.InsertFeedback(c.Request.Context(), rec); err != nil {
			// storage trouble must not block the forward
			s.logger.Error("feedback insert failed", zap.Error(err),
				zap.String("session_id", rec.SessionID))
		}
	}

	if s.webhookURL != "" {
		if err := s.forward(c.Request.Context(), rec); err != nil {
			s.logger.Error("webhook forward failed", zap.Error(err),
				zap.String("session_id", rec.SessionID))
		}
	} else {
		s.logger.Warn("webhook url not configured, skipping forward")
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) forward(ctx context.Context, rec feedback.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		s.logger.Error("webhook returned non-ok status",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", msg))
	}
	return nil
}
