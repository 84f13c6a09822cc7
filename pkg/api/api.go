// Package api exposes conversion and evaluation over HTTP with JSON
// bodies. The routes and payload shapes follow the service this plotter
// pipeline originally shipped behind.
package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"penplot/pkg/eval"
	"penplot/pkg/gcode"
	"penplot/pkg/geometry"
)

// Server handles the REST endpoints. The conversion options are fixed
// at construction and shared by every request.
type Server struct {
	opts gcode.Options
	log  *slog.Logger
}

func NewServer(opts gcode.Options, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{opts: opts, log: log}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/convert/", s.handleConvert)
	mux.HandleFunc("POST /api/evaluate/execution-error/", s.handleExecutionError)
	mux.HandleFunc("POST /api/evaluate/smoothness/", s.handleSmoothness)
	mux.HandleFunc("POST /api/evaluate/ssim/", s.handleSSIM)
	mux.HandleFunc("GET /api/health/", s.handleHealth)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

type convertRequest struct {
	SVGData string `json:"svg_data"`
}

type convertMetadata struct {
	GcodeLines int `json:"gcode_lines"`
	GcodeSize  int `json:"gcode_size"`
}

type convertResponse struct {
	Success  bool            `json:"success"`
	Gcode    string          `json:"gcode"`
	Metadata convertMetadata `json:"metadata"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.SVGData == "" {
		writeError(w, http.StatusBadRequest, errors.New("svg_data is required"))
		return
	}

	program, err := gcode.Convert([]byte(req.SVGData), s.opts)
	if err != nil {
		s.log.Warn("conversion failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Success: true,
		Gcode:   program,
		Metadata: convertMetadata{
			// The converter returns text only; stats come from scanning it.
			GcodeLines: strings.Count(program, "\n"),
			GcodeSize:  len(program),
		},
	})
}

// pointList decodes [[x,y], ...] pairs.
type pointList [][2]float64

func (l pointList) points() []geometry.Point {
	points := make([]geometry.Point, len(l))
	for i, p := range l {
		points[i] = geometry.Point{X: p[0], Y: p[1]}
	}
	return points
}

func (s *Server) handleExecutionError(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Expected pointList `json:"expected"`
		Actual   pointList `json:"actual"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	mean, perPoint, err := eval.ExecutionError(req.Expected.points(), req.Actual.points())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"mean_error": mean,
		"per_point":  perPoint,
	})
}

func (s *Server) handleSmoothness(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Points pointList `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"smoothness": eval.Smoothness(req.Points.points()),
	})
}

func (s *Server) handleSSIM(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageA string `json:"image_a"`
		ImageB string `json:"image_b"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	a, err := decodeImage(req.ImageA)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("image_a: %w", err))
		return
	}
	b, err := decodeImage(req.ImageB)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("image_b: %w", err))
		return
	}

	score, err := eval.SSIM(a, b)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"ssim":    score,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

// decodeImage decodes a base64-encoded PNG or JPEG.
func decodeImage(encoded string) (image.Image, error) {
	if encoded == "" {
		return nil, errors.New("missing image data")
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}
