// Package server exposes the row packer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/piwi3910/RollCut/internal/engine"
	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/report"
)

// Server serves planning requests. Each request packs its own job; nothing is
// shared between requests.
type Server struct {
	logger  *log.Logger
	timeout time.Duration // per plan, 0 means no limit
	engine  *gin.Engine
}

// New builds a server. A nil logger discards output.
func New(logger *log.Logger, timeout time.Duration) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{logger: logger, timeout: timeout}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger), limitBody(MaxBodyBytes))
	r.GET("/healthz", s.handleHealth)

	v1 := r.Group("/v1")
	v1.POST("/plans", s.handlePlan)
	v1.POST("/plans/report", s.handleReport)
	v1.POST("/estimate", s.handleEstimate)

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "timeout", s.timeout)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 1 << 20

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// bind decodes the JSON body into v. On failure the response has been written.
func bind(c *gin.Context, v any) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)})
		return false
	}
	c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
	return false
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start).Round(time.Millisecond))
	}
}

type errorResponse struct {
	Error   string            `json:"error"`
	Details []validationIssue `json:"details,omitempty"`
	Plan    *model.Plan       `json:"plan,omitempty"` // partial plan when the search timed out
}

type validationIssue struct {
	Piece  *int   `json:"piece,omitempty"` // 1-based
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func issuesOf(err error) []validationIssue {
	var out []validationIssue
	for _, ve := range model.ValidationErrors(err) {
		issue := validationIssue{Field: ve.Field, Reason: ve.Reason}
		if ve.Piece >= 0 {
			n := ve.Piece + 1
			issue.Piece = &n
		}
		out = append(out, issue)
	}
	return out
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// plan decodes a job from the request body and packs it. On failure the
// response has been written and ok is false.
func (s *Server) plan(c *gin.Context) (plan model.Plan, ok bool) {
	job := model.NewJob()
	if !bind(c, &job) {
		return model.Plan{}, false
	}

	ctx := c.Request.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	plan, err := engine.PlanJob(ctx, job, engine.WithLogger(s.logger))
	switch {
	case err == nil:
		return plan, true
	case errors.Is(err, model.ErrInvalidJob):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: model.ErrInvalidJob.Error(), Details: issuesOf(err)})
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("plan timed out", "job", job.Name, "rows", len(plan.Result.Rows))
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Plan: &plan})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return model.Plan{}, false
}

func (s *Server) handlePlan(c *gin.Context) {
	if plan, ok := s.plan(c); ok {
		c.JSON(http.StatusOK, plan)
	}
}

func (s *Server) handleReport(c *gin.Context) {
	if plan, ok := s.plan(c); ok {
		c.String(http.StatusOK, report.String(plan))
	}
}

type estimateRequest struct {
	Pieces        []model.PieceType `json:"pieces"`
	RollWidth     int               `json:"roll_width"`
	RollLength    int               `json:"roll_length"`
	WastePercent  float64           `json:"waste_percent"`
	PricePerMeter float64           `json:"price_per_meter"`
}

func (s *Server) handleEstimate(c *gin.Context) {
	req := estimateRequest{RollWidth: model.DefaultRollWidth, WastePercent: 10}
	if !bind(c, &req) {
		return
	}
	var errs []error
	if req.RollWidth <= 0 {
		errs = append(errs, &model.ValidationError{Piece: -1, Field: "roll_width", Reason: fmt.Sprintf("must be greater than zero, got %d", req.RollWidth)})
	}
	if err := errors.Join(append(errs, model.ValidatePieces(req.Pieces, req.RollWidth))...); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: model.ErrInvalidJob.Error(), Details: issuesOf(err)})
		return
	}
	c.JSON(http.StatusOK, model.CalculateRollEstimate(req.Pieces, req.RollWidth, req.RollLength, req.WastePercent, req.PricePerMeter))
}
