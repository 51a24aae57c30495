// Package server exposes the classification pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"topics/internal/category"
	"topics/internal/domain"
	"topics/internal/feed"
)

// PipelinePort is the server-facing subset of the classification pipeline.
type PipelinePort interface {
	Categories() *category.Table
	Run(ctx context.Context, account string, limit int) ([]domain.Record, error)
	ClassifyPosts(ctx context.Context, account string, posts []domain.Post) ([]domain.Record, error)
	Records(account string) ([]domain.Record, error)
}

// Server is the HTTP front of the pipeline.
type Server struct {
	pipeline       PipelinePort
	defaultAccount string
	defaultLimit   int
	engine         *gin.Engine
	logger         *log.Logger
}

// New builds the router.
func New(p PipelinePort, defaultAccount string, defaultLimit int, logger *log.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		pipeline:       p,
		defaultAccount: defaultAccount,
		defaultLimit:   defaultLimit,
		engine:         gin.New(),
		logger:         logger,
	}
	s.engine.Use(gin.Recovery())
	s.engine.GET("/healthz", s.health)
	s.engine.GET("/categories", s.categories)
	s.engine.GET("/topics", s.topics)
	s.engine.POST("/classify", s.classify)
	s.engine.GET("/records", s.records)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logf("server starts - %s", addr)
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.logf("server stops - %s", addr)
	return err
}

type categoryJSON struct {
	Index     int      `json:"index"`
	Name      string   `json:"name"`
	SeedTerms []string `json:"seed_terms"`
}

type classifyRequest struct {
	Account   string `json:"account"`
	Documents []struct {
		ID    string   `json:"id"`
		Text  string   `json:"text"`
		Time  string   `json:"time"`
		Words []string `json:"words"`
	} `json:"documents" binding:"required"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) categories(c *gin.Context) {
	cats := s.pipeline.Categories().Categories()
	out := make([]categoryJSON, len(cats))
	for i, cat := range cats {
		out[i] = categoryJSON{Index: i, Name: cat.Name, SeedTerms: cat.SeedTerms}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) topics(c *gin.Context) {
	account := c.DefaultQuery("account", s.defaultAccount)
	limit := s.defaultLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}
	records, err := s.pipeline.Run(c.Request.Context(), account, limit)
	if errors.Is(err, feed.ErrNoDocuments) {
		c.JSON(http.StatusOK, []domain.Record{})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(records))
}

func (s *Server) classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	// Documents carrying words skip key-phrase extraction.
	posts := make([]domain.Post, len(req.Documents))
	for i, d := range req.Documents {
		posts[i] = domain.Post{ID: d.ID, Account: req.Account, Text: d.Text, Time: d.Time, Words: d.Words}
	}
	out, err := s.pipeline.ClassifyPosts(c.Request.Context(), req.Account, posts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(out))
}

func (s *Server) records(c *gin.Context) {
	account := strings.TrimSpace(c.DefaultQuery("account", s.defaultAccount))
	records, err := s.pipeline.Records(account)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(records))
}

func (s *Server) fail(c *gin.Context, err error) {
	s.logf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func nonNil(r []domain.Record) []domain.Record {
	if r == nil {
		return []domain.Record{}
	}
	return r
}

func (s *Server) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
