package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/twoway"
	"github.com/aretw0/twoway/internal/presentation/graph"
	"github.com/aretw0/twoway/pkg/domain"
	"github.com/aretw0/twoway/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	machineURI = "twoway://machine"
	graphURI   = "twoway://graph"
)

// TraceResponse is the structured result of trace_word.
type TraceResponse struct {
	Word    string                   `json:"word" jsonschema_description:"The word that was traced"`
	Steps   []domain.StepObservation `json:"steps" jsonschema_description:"Every applied transition, in order"`
	Outcome domain.Outcome           `json:"outcome" jsonschema_description:"Final verdict and step count"`
	Error   string                   `json:"error,omitempty" jsonschema_description:"Execution error, if the trace failed"`
}

// Server wraps an Evaluator and exposes it as an MCP Server.
type Server struct {
	engine    ports.Evaluator
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Evaluator) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("twoway-mcp", strings.TrimSpace(twoway.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and blocks until
// ctx is cancelled or the listener fails.
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
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: evaluate_words
	evaluateTool := mcp.NewTool("evaluate_words",
		mcp.WithDescription("Evaluate words against the loaded 2DFA and report which are accepted, rejected or failed."),
		mcp.WithString("words", mcp.Required(),
			mcp.Description(`Words to evaluate: a JSON array of strings (use "" for the empty word), or a comma/newline separated list`)),
		mcp.WithOutputSchema[domain.Report](),
	)
	s.mcpServer.AddTool(evaluateTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	// TOOL: trace_word
	traceTool := mcp.NewTool("trace_word",
		mcp.WithDescription("Run one word step by step and return every transition the machine applied."),
		mcp.WithString("word", mcp.Required(), mcp.Description("The input word, without end markers")),
		mcp.WithOutputSchema[TraceResponse](),
	)
	s.mcpServer.AddTool(traceTool, mcp.NewStructuredToolHandler(s.handleTrace))

	// TOOL: get_machine
	s.mcpServer.AddTool(mcp.NewTool("get_machine",
		mcp.WithDescription("Get the full machine definition for introspection."),
	), s.handleGetMachine)
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Report, error) {
	raw, _ := args["words"].(string)
	words, err := splitWords(raw)
	if err != nil {
		return domain.Report{}, err
	}
	for _, w := range words {
		if err := domain.CheckWord(w); err != nil {
			slog.Warn("MCP Evaluate: Input rejected", "error", err)
			return domain.Report{}, err
		}
	}

	report := s.engine.EvaluateAll(ctx, words)
	if report.Entries == nil {
		report.Entries = []domain.ReportEntry{}
	}
	return report, nil
}

func (s *Server) handleTrace(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TraceResponse, error) {
	word, _ := args["word"].(string)
	if err := domain.CheckWord(word); err != nil {
		slog.Warn("MCP Trace: Input rejected", "error", err)
		return TraceResponse{}, err
	}

	steps, outcome, err := s.engine.Trace(ctx, word)
	resp := TraceResponse{Word: word, Steps: steps, Outcome: outcome}
	if resp.Steps == nil {
		resp.Steps = []domain.StepObservation{}
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp, nil
}

func (s *Server) handleGetMachine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(s.engine.Inspect())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: twoway://machine
	s.mcpServer.AddResource(mcp.NewResource(machineURI, "Current Machine Definition",
		mcp.WithMIMEType("application/json"),
	), s.readMachine)

	// EXPOSE: twoway://graph
	s.mcpServer.AddResource(mcp.NewResource(graphURI, "Machine State Diagram (Mermaid)",
		mcp.WithMIMEType("text/plain"),
	), s.readGraph)
}

func (s *Server) readMachine(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.engine.Inspect())
	if err != nil {
		return nil, fmt.Errorf("failed to inspect machine: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      machineURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      graphURI,
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(s.engine.Inspect(), nil),
		},
	}, nil
}

// splitWords accepts a JSON array of strings or a comma/newline separated
// list. Blank entries of the list form are dropped; the empty word is only
// expressible as "" inside a JSON array.
func splitWords(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") {
		var words []string
		if err := json.Unmarshal([]byte(trimmed), &words); err != nil {
			return nil, fmt.Errorf("invalid words array: %w", err)
		}
		return words, nil
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			words = append(words, f)
		}
	}
	return words, nil
}
