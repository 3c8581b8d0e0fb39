package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/presentation/graph"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/expr"
	"github.com/aretw0/abacus/pkg/format"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CreateSessionRequest is the optional body of POST /sessions.
type CreateSessionRequest struct {
	AngleMode string `json:"angle_mode,omitempty"`
}

// CreateSessionResponse is returned by POST /sessions.
type CreateSessionResponse struct {
	ID   string      `json:"id"`
	View runner.View `json:"view"`
}

// KeyRequest presses Key, then every entry of Keys.
type KeyRequest struct {
	Key  string   `json:"key,omitempty"`
	Keys []string `json:"keys,omitempty"`
}

// EvaluateRequest is the body of the stateless POST /evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
	AngleMode  string `json:"angle_mode,omitempty"`
	Tree       bool   `json:"tree,omitempty"`
}

// EvaluateResponse reports the outcome of an evaluation.
type EvaluateResponse struct {
	OK         bool             `json:"ok"`
	Result     string           `json:"result,omitempty"`
	Expression string           `json:"expression,omitempty"`
	Error      domain.ErrorKind `json:"error,omitempty"`
	Message    string           `json:"message,omitempty"`
	Tree       string           `json:"tree,omitempty"`
}

// Server implements ServerInterface on top of a session manager.
type Server struct {
	Manager *session.Manager
	Streams *StreamManager
	Logger  *slog.Logger

	// Mode is the angle mode of stateless evaluations that do not name one.
	Mode domain.AngleMode
	// MaxLineSize bounds expressions and keys in bytes. Zero uses the runner default.
	MaxLineSize int

	gatherer prometheus.Gatherer
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the HTTP server.
type Option func(*Server)

// WithStreams shares a StreamManager that is also wired as the manager's ChangeFunc.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithAngleMode sets the default mode of stateless evaluations.
func WithAngleMode(mode domain.AngleMode) Option {
	return func(s *Server) {
		s.Mode = mode
	}
}

// WithMaxLineSize bounds the size of expressions and keys.
func WithMaxLineSize(n int) Option {
	return func(s *Server) {
		s.MaxLineSize = n
	}
}

// WithMetrics exposes g at /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer builds a Server with defaults applied.
func NewServer(manager *session.Manager, opts ...Option) *Server {
	s := &Server{
		Manager: manager,
		Logger:  slog.Default(),
		Mode:    domain.Degrees,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.Logger)
	}
	return s
}

// NewHandler creates a new HTTP handler for the calculator sessions of manager.
func NewHandler(manager *session.Manager, opts ...Option) http.Handler {
	server := NewServer(manager, opts...)
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}

	handler := HandlerFromMux(server, r)
	return enableCORS(handler)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Abacus API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "abacus-http",
		"version":     abacus.Version,
		"api_version": apiVersion,
	})
}

// Evaluate handles the stateless POST /evaluate request.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if err := decodeBody(r, "EvaluateRequest", true, &body); err != nil {
		s.Logger.Warn("Evaluate: Invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	input, err := runner.SanitizeInputLimit(body.Expression, s.MaxLineSize)
	if err != nil {
		s.Logger.Warn("Evaluate: Input rejected", "error", err, "size", len(body.Expression))
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	mode := s.Mode
	if body.AngleMode != "" {
		if mode, err = domain.ParseAngleMode(body.AngleMode); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_angle_mode", err.Error())
			return
		}
	}

	resp := EvaluateResponse{Expression: input}
	value, node, err := evaluate(input, mode)
	if node != nil && body.Tree {
		resp.Tree = graph.GenerateMermaid(node, &graph.TreeOverlay{Mode: mode})
	}
	if err != nil {
		s.Logger.Debug("Evaluate: Failed", "expression", input, "error", err)
		resp.Error = domain.KindOf(err)
		resp.Message = domain.Message(err)
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	resp.OK = true
	resp.Result = format.Number(value)
	writeJSON(w, http.StatusOK, resp)
}

// evaluate runs the pipeline keeping the parsed tree, which is nil when parsing failed.
func evaluate(input string, mode domain.AngleMode) (float64, expr.Node, error) {
	tokens, err := expr.Tokenize(input)
	if err != nil {
		return 0, nil, err
	}
	node, err := expr.Parse(tokens)
	if err != nil {
		return 0, nil, err
	}
	value, err := expr.Evaluate(node, mode)
	return value, node, err
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Manager.List(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if err := decodeBody(r, "CreateSessionRequest", false, &body); err != nil {
		s.Logger.Warn("CreateSession: Invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	var mode domain.AngleMode
	if body.AngleMode != "" {
		var err error
		if mode, err = domain.ParseAngleMode(body.AngleMode); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_angle_mode", err.Error())
			return
		}
	}

	id, snap, err := s.Manager.Create(r.Context())
	if err != nil {
		s.fail(w, "CreateSession", err)
		return
	}
	if mode != "" && mode != snap.AngleMode {
		snap, err = s.Manager.Do(r.Context(), id, func(sess *session.Session) error {
			sess.SetAngleMode(mode)
			return nil
		})
		if err != nil {
			s.fail(w, "CreateSession", err)
			return
		}
	}

	s.Logger.Info("Session created", "session_id", id)
	writeJSON(w, http.StatusCreated, CreateSessionResponse{ID: id, View: runner.NewView(snap, nil)})
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request, id string) {
	snap, err := s.Manager.Load(r.Context(), id)
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	writeJSON(w, http.StatusOK, runner.NewView(snap, nil))
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.Manager.Delete(r.Context(), id); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	s.Streams.Close(id)
	s.Logger.Info("Session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles the POST /sessions/{id}/keys request.
// Keys are pressed in order and the first failing key stops the sequence.
func (s *Server) PressKeys(w http.ResponseWriter, r *http.Request, id string) {
	var body KeyRequest
	if err := decodeBody(r, "KeyRequest", true, &body); err != nil {
		s.Logger.Warn("PressKeys: Invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	var keys []string
	if body.Key != "" {
		keys = append(keys, body.Key)
	}
	keys = append(keys, body.Keys...)
	if len(keys) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_body", "no key pressed")
		return
	}
	for i, key := range keys {
		clean, err := runner.SanitizeInputLimit(key, s.MaxLineSize)
		if err != nil {
			s.Logger.Warn("PressKeys: Input rejected", "error", err, "size", len(key))
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
			return
		}
		keys[i] = clean
	}

	snap, err := s.Manager.Do(r.Context(), id, func(sess *session.Session) error {
		for _, key := range keys {
			if err := runner.Dispatch(sess, key); err != nil {
				return err
			}
		}
		return nil
	})
	if snap == nil {
		s.fail(w, "PressKeys", err)
		return
	}
	writeJSON(w, http.StatusOK, runner.NewView(snap, err))
}

// EvaluateSession handles the POST /sessions/{id}/evaluate request.
func (s *Server) EvaluateSession(w http.ResponseWriter, r *http.Request, id string) {
	var outcome session.Outcome
	snap, err := s.Manager.Do(r.Context(), id, func(sess *session.Session) error {
		var err error
		outcome, err = sess.Evaluate()
		return err
	})
	if snap == nil {
		s.fail(w, "EvaluateSession", err)
		return
	}
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, EvaluateResponse{
			Error:   domain.KindOf(err),
			Message: domain.Message(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, EvaluateResponse{
		OK:         true,
		Result:     outcome.Result,
		Expression: outcome.Expression,
	})
}

// GetHistory handles the GET /sessions/{id}/history request.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request, id string) {
	snap, err := s.Manager.Load(r.Context(), id)
	if err != nil {
		s.fail(w, "GetHistory", err)
		return
	}
	history := snap.Recent()
	if history == nil {
		history = []domain.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.HistoryEntry{"history": history})
}

// SelectHistory handles the POST /sessions/{id}/history/{index} request.
func (s *Server) SelectHistory(w http.ResponseWriter, r *http.Request, id string, index int) {
	snap, err := s.Manager.Do(r.Context(), id, func(sess *session.Session) error {
		_, err := sess.SelectHistory(index)
		return err
	})
	if snap == nil {
		s.fail(w, "SelectHistory", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, string(domain.KindOf(err)), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runner.NewView(snap, nil))
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, id string, params SubscribeEventsParams) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming not supported")
		return
	}

	if _, err := s.Manager.Load(r.Context(), id); err != nil {
		s.fail(w, "SubscribeEvents", err)
		return
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.Logger.Info("SSE: Subscribing to Session Updates", "session_id", id)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	fields := parseWatch(params.Watch)
	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE Client Disconnected", "session_id", id)
			return
		case diff, ok := <-ch:
			if !ok {
				return
			}
			if !watches(fields, diff) {
				continue
			}
			data, err := json.Marshal(diff)
			if err != nil {
				s.Logger.Error("SSE: Diff encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// fail maps err to a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err.Error())
	case domain.IsEvaluation(err):
		writeError(w, http.StatusUnprocessableEntity, string(domain.KindOf(err)), domain.Message(err))
	default:
		s.Logger.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, map[string]string{"error": kind, "message": message})
}
