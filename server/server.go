// Package server exposes a Generator over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ByLCY/xstitch/binding"
	"github.com/ByLCY/xstitch/dsl"
	"github.com/ByLCY/xstitch/pattern"
	"github.com/ByLCY/xstitch/pipeline"
)

// RequestIDHeader carries the per-request id on every response.
const RequestIDHeader = "X-Request-Id"

// maxBodyBytes caps the JSON request body.
const maxBodyBytes = 1 << 20

// Server routes HTTP requests to a single Generator.
type Server struct {
	gen      *pipeline.Generator
	defaults pattern.Request
	logger   *log.Logger
	router   chi.Router
}

// New builds the router. defaults fills fields the client leaves out.
func New(gen *pipeline.Generator, defaults pattern.Request, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{gen: gen, defaults: defaults, logger: logger}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/patterns", s.handleGenerate)
		r.Get("/patterns/latest", s.handleLatest)
		r.Delete("/patterns/latest", s.handleClear)
		r.Get("/patterns/latest.png", s.handlePNG)
		r.Get("/patterns/latest.pdf", s.handlePDF)
		r.Get("/patterns/latest/view", s.handleView)
		r.Post("/zoom/{action}", s.handleZoom)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("关闭 HTTP 服务失败: %w", err)
		}
		return nil
	}
}

// PatternRequest is the JSON body of POST /api/patterns. Omitted fields take
// the server defaults; option values use the same spelling as request files.
type PatternRequest struct {
	Text        string `json:"text"`
	Data        any    `json:"data,omitempty"`
	MaxLines    *int   `json:"maxLines,omitempty"`
	FontSize    string `json:"fontSize,omitempty"`
	FontFamily  string `json:"fontFamily,omitempty"`
	LineSpacing string `json:"lineSpacing,omitempty"`
	StitchColor string `json:"stitchColor,omitempty"`
	FabricColor string `json:"fabricColor,omitempty"`
	ShowGrid    *bool  `json:"showGrid,omitempty"`
}

// PatternResponse summarizes a generation.
type PatternResponse struct {
	Empty       bool   `json:"empty"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	StitchCount int    `json:"stitchCount"`
	Dimensions  string `json:"dimensions,omitempty"`
	Time        string `json:"time,omitempty"`
	Fabric      string `json:"fabric,omitempty"`
	Floss       string `json:"floss,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}

type ctxKey int

const requestIDKey ctxKey = 0

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", requestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Millisecond))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body PatternRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: 请求体无效: %v", pattern.ErrInvalidOption, err)
		}
		s.fail(w, r, err)
		return
	}
	req, err := body.toRequest(s.defaults)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(res))
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	res, err := s.gen.Latest()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(res))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.gen.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	withGrid, _ := strconv.ParseBool(r.URL.Query().Get("grid"))
	var buf bytes.Buffer
	name, err := s.gen.ExportPNG(&buf, withGrid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAttachment(w, "image/png", name, buf.Bytes())
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	name, err := s.gen.ExportPDF(&buf)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeAttachment(w, "application/pdf", name, buf.Bytes())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	img, err := s.gen.View()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var z float64
	switch chi.URLParam(r, "action") {
	case "in":
		z = s.gen.ZoomIn()
	case "out":
		z = s.gen.ZoomOut()
	case "reset":
		z = s.gen.ZoomReset()
	default:
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"zoom": z})
}

func (body PatternRequest) toRequest(defaults pattern.Request) (pattern.Request, error) {
	req := defaults
	req.Text = binding.Interpolate(body.Text, body.Data)
	if body.MaxLines != nil {
		req.MaxLines = *body.MaxLines
	}
	if body.ShowGrid != nil {
		req.ShowGrid = *body.ShowGrid
	}
	options := []struct{ key, value string }{
		{"font-size", body.FontSize},
		{"font-family", body.FontFamily},
		{"line-spacing", body.LineSpacing},
		{"stitch-color", body.StitchColor},
		{"fabric", body.FabricColor},
	}
	for _, opt := range options {
		if opt.value == "" {
			continue
		}
		if err := dsl.ApplyOption(&req, opt.key, opt.value); err != nil {
			return defaults, err
		}
	}
	return req, nil
}

func summarize(res *pipeline.Result) PatternResponse {
	if res.Empty {
		return PatternResponse{Empty: true}
	}
	m := res.Metrics
	return PatternResponse{
		Width:       m.Width,
		Height:      m.Height,
		StitchCount: m.StitchCount,
		Dimensions:  m.Dimensions,
		Time:        m.Time,
		Fabric:      m.Fabric,
		Floss:       m.Floss,
	}
}

// fail maps pipeline errors onto HTTP status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, pattern.ErrPatternTooLarge), errors.As(err, &maxBytes):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, pattern.ErrNoPattern):
		status = http.StatusNotFound
	case errors.Is(err, pattern.ErrInvalidOption):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		status = 499
	}
	id := requestIDFrom(r.Context())
	if status >= 500 {
		s.logger.Error("request failed", "id", id, "err", err)
	} else {
		s.logger.Warn("request rejected", "id", id, "status", status, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAttachment(w http.ResponseWriter, contentType, name string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
