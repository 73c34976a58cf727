// Package server exposes the extraction pipeline over HTTP with fasthttp.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/baditaflorin/go_number_words/internal/config"
	"github.com/baditaflorin/go_number_words/internal/core/domain"
	"github.com/baditaflorin/go_number_words/internal/ports"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestTimeout bounds the oracle call of a single request.
const RequestTimeout = 30 * time.Second

// Request is the body accepted by /parse and /extract.
type Request struct {
	Text string `json:"text"`
}

// ParseResponse is returned by /parse.
type ParseResponse struct {
	RequestID  string                `json:"request_id"`
	Normalized string                `json:"normalized"`
	Numbers    []domain.ParsedNumber `json:"numbers"`
}

// ExtractResponse is returned by /extract.
type ExtractResponse struct {
	RequestID   string                `json:"request_id"`
	Substituted string                `json:"substituted,omitempty"`
	Numbers     []domain.ParsedNumber `json:"numbers"`
	Records     []domain.OutputRecord `json:"records"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
}

// Server serves the pipeline over HTTP.
type Server struct {
	extractor ports.Extractor
	logger    ports.Logger
	metrics   fasthttp.RequestHandler
	server    *fasthttp.Server
}

// New creates a server. gatherer backs /metrics; nil selects the default
// Prometheus gatherer.
func New(cfg config.ServerConfig, extractor ports.Extractor, logger ports.Logger, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		extractor: extractor,
		logger:    logger,
		metrics:   fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
	}
	s.server = &fasthttp.Server{
		Handler:               s.Handler,
		Name:                  "numwords",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		MaxRequestBodySize:    cfg.MaxRequestSize,
		Concurrency:           cfg.Concurrency,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
	}
	return s
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("Server listening", "address", addr)
	return s.server.ListenAndServe(addr)
}

// Serve serves on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	return s.server.Serve(ln)
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown() error {
	return s.server.Shutdown()
}

// Handler routes requests.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	requestID := string(ctx.Request.Header.Peek(RequestIDHeader))
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx.Response.Header.Set(RequestIDHeader, requestID)

	switch string(ctx.Path()) {
	case "/health":
		s.handleHealthCheck(ctx)
	case "/parse":
		s.handleParse(ctx, requestID)
	case "/extract":
		s.handleExtract(ctx, requestID)
	case "/metrics":
		s.metrics(ctx)
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, requestID, "Not found")
	}

	s.logger.Info("Request processed",
		"request_id", requestID,
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

// handleHealthCheck responds to health check requests
func (s *Server) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	s.writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleParse(ctx *fasthttp.RequestCtx, requestID string) {
	req, ok := s.decode(ctx, requestID)
	if !ok {
		return
	}

	parsed, err := s.extractor.Parse(req.Text)
	if err != nil {
		s.writeFailure(ctx, requestID, err)
		return
	}

	s.writeJSON(ctx, fasthttp.StatusOK, ParseResponse{
		RequestID:  requestID,
		Normalized: parsed.Normalized.Text,
		Numbers:    nonNilNumbers(parsed.Numbers),
	})
}

func (s *Server) handleExtract(ctx *fasthttp.RequestCtx, requestID string) {
	req, ok := s.decode(ctx, requestID)
	if !ok {
		return
	}

	// RequestCtx is done once the server shuts down.
	c, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	ex, err := s.extractor.Extract(c, req.Text)
	if err != nil {
		s.writeFailure(ctx, requestID, err)
		return
	}

	records := ex.Records
	if records == nil {
		records = []domain.OutputRecord{}
	}
	s.writeJSON(ctx, fasthttp.StatusOK, ExtractResponse{
		RequestID:   requestID,
		Substituted: ex.Substituted,
		Numbers:     nonNilNumbers(ex.Numbers),
		Records:     records,
	})
}

// decode accepts POST requests with a JSON body.
func (s *Server) decode(ctx *fasthttp.RequestCtx, requestID string) (Request, bool) {
	var req Request
	if !ctx.IsPost() {
		s.writeError(ctx, fasthttp.StatusMethodNotAllowed, requestID, "Method not allowed")
		return req, false
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, requestID, "Invalid request: "+err.Error())
		return req, false
	}
	return req, true
}

func (s *Server) writeFailure(ctx *fasthttp.RequestCtx, requestID string, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		s.writeError(ctx, fasthttp.StatusBadRequest, requestID, "text is required")
	case errors.Is(err, context.Canceled):
		s.logger.Warn("Request cancelled", "request_id", requestID, "error", err)
		s.writeError(ctx, fasthttp.StatusServiceUnavailable, requestID, "request cancelled")
	case errors.Is(err, domain.ErrOracleUnavailable):
		s.logger.Warn("Oracle unavailable", "request_id", requestID, "error", err)
		s.writeError(ctx, fasthttp.StatusServiceUnavailable, requestID, err.Error())
	default:
		s.logger.Error("Extraction failed", "request_id", requestID, "error", err)
		s.writeError(ctx, fasthttp.StatusInternalServerError, requestID, "Internal server error")
	}
}

// writeJSON writes a JSON response to the context
func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("Error marshaling JSON response", "error", err)
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

// writeError writes a JSON error response to the context
func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, requestID, message string) {
	s.writeJSON(ctx, status, ErrorResponse{RequestID: requestID, Error: message})
}

func nonNilNumbers(n []domain.ParsedNumber) []domain.ParsedNumber {
	if n == nil {
		return []domain.ParsedNumber{}
	}
	return n
}
