package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/expr"
	"github.com/aretw0/abacus/pkg/format"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// DefaultSessionID is used by session tools called without a session_id.
	DefaultSessionID = "default"

	keypadURI    = "abacus://keypad"
	functionsURI = "abacus://functions"
)

// CalculateArgs are the arguments of the calculate tool.
type CalculateArgs struct {
	Expression string `json:"expression"`
	AngleMode  string `json:"angle_mode,omitempty"`
}

// CalculateResponse aligns with the EvaluateResponse of the HTTP API.
type CalculateResponse struct {
	OK         bool             `json:"ok" jsonschema_description:"Whether the expression evaluated"`
	Result     string           `json:"result,omitempty" jsonschema_description:"The formatted result"`
	Expression string           `json:"expression,omitempty" jsonschema_description:"The evaluated expression"`
	Error      domain.ErrorKind `json:"error,omitempty" jsonschema_description:"Failure kind, such as divide_by_zero"`
	Message    string           `json:"message,omitempty" jsonschema_description:"What the calculator display shows on failure"`
}

// KeyArgs are the arguments of the press_key tool.
type KeyArgs struct {
	Key       string `json:"key"`
	SessionID string `json:"session_id,omitempty"`
}

// HistoryArgs are the arguments of the get_history tool.
type HistoryArgs struct {
	SessionID string `json:"session_id,omitempty"`
}

// HistoryResponse lists past evaluations, most recent first.
type HistoryResponse struct {
	SessionID string                `json:"session_id"`
	History   []domain.HistoryEntry `json:"history"`
}

// Server exposes calculator sessions as an MCP Server.
type Server struct {
	manager   *session.Manager
	mode      domain.AngleMode
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the MCP server.
type Option func(*Server)

// WithAngleMode sets the default mode of the calculate tool.
func WithAngleMode(mode domain.AngleMode) Option {
	return func(s *Server) {
		s.mode = mode
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(manager *session.Manager, opts ...Option) *Server {
	s := &Server{
		manager:   manager,
		mode:      domain.Degrees,
		logger:    slog.Default(),
		mcpServer: server.NewMCPServer("abacus-mcp", abacus.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: calculate
	calculateTool := mcp.NewTool("calculate",
		mcp.WithDescription("Evaluate a calculator expression such as 2*sin(30)+1 or fact(5). Supports + - * / % mod ** ( ), the constants pi and e and the functions sin cos tan log ln sqrt sqr recip abs fact."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("The expression to evaluate")),
		mcp.WithString("angle_mode", mcp.Description("DEG or RAD (defaults to the server mode)")),
		mcp.WithOutputSchema[CalculateResponse](),
	)
	s.mcpServer.AddTool(calculateTool, mcp.NewStructuredToolHandler(s.handleCalculate))

	// TOOL: press_key
	keyTool := mcp.NewTool("press_key",
		mcp.WithDescription("Press a key on a stateful calculator. Read "+keypadURI+" for the keys. Free text is typed into the expression."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Key label, alias or expression text, e.g. 7, +, sin, M+, =")),
		mcp.WithString("session_id", mcp.Description("Calculator session (defaults to "+DefaultSessionID+")")),
		mcp.WithOutputSchema[runner.View](),
	)
	s.mcpServer.AddTool(keyTool, mcp.NewStructuredToolHandler(s.handlePressKey))

	// TOOL: get_history
	historyTool := mcp.NewTool("get_history",
		mcp.WithDescription("List the past evaluations of a calculator session, most recent first."),
		mcp.WithString("session_id", mcp.Description("Calculator session (defaults to "+DefaultSessionID+")")),
		mcp.WithOutputSchema[HistoryResponse](),
	)
	s.mcpServer.AddTool(historyTool, mcp.NewStructuredToolHandler(s.handleGetHistory))
}

func (s *Server) handleCalculate(ctx context.Context, request mcp.CallToolRequest, args CalculateArgs) (CalculateResponse, error) {
	input, err := runner.SanitizeInput(args.Expression)
	if err != nil {
		s.logger.Warn("MCP Calculate: Input rejected", "error", err, "size", len(args.Expression))
		return CalculateResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	mode := s.mode
	if args.AngleMode != "" {
		if mode, err = domain.ParseAngleMode(args.AngleMode); err != nil {
			return CalculateResponse{}, err
		}
	}

	value, err := expr.Calculate(input, mode)
	if err != nil {
		return CalculateResponse{
			Expression: input,
			Error:      domain.KindOf(err),
			Message:    domain.Message(err),
		}, nil
	}
	return CalculateResponse{OK: true, Result: format.Number(value), Expression: input}, nil
}

func (s *Server) handlePressKey(ctx context.Context, request mcp.CallToolRequest, args KeyArgs) (runner.View, error) {
	key, err := runner.SanitizeInput(args.Key)
	if err != nil {
		s.logger.Warn("MCP PressKey: Input rejected", "error", err, "size", len(args.Key))
		return runner.View{}, fmt.Errorf("input rejected: %w", err)
	}

	id := sessionID(args.SessionID)
	if _, err := s.manager.LoadOrCreate(ctx, id); err != nil {
		return runner.View{}, fmt.Errorf("failed to load session: %w", err)
	}

	snap, err := s.manager.Do(ctx, id, func(sess *session.Session) error {
		return runner.Dispatch(sess, key)
	})
	if snap == nil {
		return runner.View{}, fmt.Errorf("press_key failed: %w", err)
	}
	return runner.NewView(snap, err), nil
}

func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest, args HistoryArgs) (HistoryResponse, error) {
	id := sessionID(args.SessionID)
	snap, err := s.manager.LoadOrCreate(ctx, id)
	if err != nil {
		return HistoryResponse{}, fmt.Errorf("failed to load session: %w", err)
	}
	history := snap.Recent()
	if history == nil {
		history = []domain.HistoryEntry{}
	}
	return HistoryResponse{SessionID: id, History: history}, nil
}

func sessionID(id string) string {
	if id == "" {
		return DefaultSessionID
	}
	return id
}

func (s *Server) registerResources() {
	// EXPOSE: abacus://keypad
	s.mcpServer.AddResource(mcp.NewResource(keypadURI, "Calculator Keypad",
		mcp.WithResourceDescription("Every key press_key accepts, with aliases."),
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      keypadURI,
				MIMEType: "text/markdown",
				Text:     runner.KeypadMarkdown(),
			},
		}, nil
	})

	// EXPOSE: abacus://functions
	s.mcpServer.AddResource(mcp.NewResource(functionsURI, "Calculator Functions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(expr.Functions())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      functionsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
