package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// Handler executes one registered tool. A nil value with a nil error is a
// legitimate result: tools degrade to null output on upstream failure.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Server dispatches JSON-RPC requests to registered tool handlers. It serves
// either a stdio pipe (one spawned worker per agent run) or an HTTP endpoint.
type Server struct {
	name     string
	version  string
	tools    []Tool
	handlers map[string]Handler
}

func NewServer(name, version string) *Server {
	return &Server{
		name:     name,
		version:  version,
		handlers: make(map[string]Handler),
	}
}

// Register adds a tool to the catalog. Later registrations with the same
// name replace the handler but not the advertised entry.
func (s *Server) Register(tool Tool, h Handler) {
	if _, exists := s.handlers[tool.Name]; !exists {
		s.tools = append(s.tools, tool)
	}
	s.handlers[tool.Name] = h
}

// Tools returns the advertised catalog in registration order.
func (s *Server) Tools() []Tool {
	out := make([]Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

// ServeStdio reads newline-delimited requests from r and writes one response
// line per request to w, until EOF or ctx cancellation. Requests are handled
// sequentially, so responses stay in request order.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp := s.handleRaw(ctx, line)
		out, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}
		if _, err := w.Write(append(out, '\n')); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	return scanner.Err()
}

// HTTPHandler serves the same dispatch over HTTP: one JSON-RPC frame per
// POST body.
func (s *Server) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}
		resp := s.handleRaw(r.Context(), body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})
}

func (s *Server) handleRaw(ctx context.Context, raw []byte) Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(0, codeParseError, "invalid JSON-RPC frame")
	}
	return s.dispatch(ctx, req)
}

func (s *Server) dispatch(ctx context.Context, req Request) Response {
	switch req.Method {
	case MethodInitialize:
		return resultResponse(req.ID, InitializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      ServerInfo{Name: s.name, Version: s.version},
		})
	case MethodListTools:
		return resultResponse(req.ID, ListToolsResult{Tools: s.Tools()})
	case MethodCallTool:
		return s.callTool(ctx, req)
	default:
		return errorResponse(req.ID, codeMethodNotFound, "unknown method: "+req.Method)
	}
}

func (s *Server) callTool(ctx context.Context, req Request) Response {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid tools/call params")
	}
	h, ok := s.handlers[params.Name]
	if !ok {
		return resultResponse(req.ID, CallToolResult{
			Content: []ContentItem{{Type: "text", Text: "unknown tool: " + params.Name}},
			IsError: true,
		})
	}

	// Tool contract: one outbound call, parsed JSON on success, null on any
	// failure. Failures are logged here and degraded, never propagated.
	value, err := h(ctx, params.Arguments)
	if err != nil {
		log.Printf("tool %s failed: %v", params.Name, err)
		value = nil
	}
	text, err := json.Marshal(value)
	if err != nil {
		log.Printf("tool %s returned unencodable value: %v", params.Name, err)
		text = []byte("null")
	}
	return resultResponse(req.ID, CallToolResult{
		Content: []ContentItem{{Type: "text", Text: string(text)}},
	})
}

func resultResponse(id int64, v any) Response {
	raw, err := json.Marshal(v)
	if err != nil {
		return errorResponse(id, codeParseError, "marshal result")
	}
	return Response{JSONRPC: jsonrpcVersion, ID: id, Result: raw}
}

func errorResponse(id int64, code int, msg string) Response {
	return Response{JSONRPC: jsonrpcVersion, ID: id, Error: &RPCError{Code: code, Message: msg}}
}
