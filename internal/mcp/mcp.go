// Package mcp exposes a store to MCP clients: agents can record their own
// executions and decisions and look up earlier ones.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/herd-ag/herdstore/internal/store"
)

// Server wraps the MCP server around a store.
type Server struct {
	mcpServer *mcpserver.MCPServer
	store     *store.Store
	logger    *slog.Logger
}

// New creates an MCP server with every tool registered.
func New(s *store.Store, logger *slog.Logger, version string) *Server {
	srv := &Server{store: s, logger: logger}

	srv.mcpServer = mcpserver.NewMCPServer(
		"herdstore",
		version,
		mcpserver.WithToolCapabilities(true),
	)
	srv.registerTools()

	return srv
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcplib.NewTool("herd_get",
			mcplib.WithDescription("Fetch one record by id. Returns the record as JSON, or found=false."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithString("type",
				mcplib.Description("Record type: agent or decision"),
				mcplib.Required(),
			),
			mcplib.WithString("id",
				mcplib.Description("Primary key of the record"),
				mcplib.Required(),
			),
		),
		s.handleGet,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("herd_list",
			mcplib.WithDescription(`List records of a type in insertion order.

filters is an object of field -> value; every pair must match exactly.
Agent fields: id, agent, model, ticket_id, state, spawned_by, started_at, ended_at.
Decision fields: id, title, body, decision_maker, principle, scope, status.
A null value matches records where the field is absent.`),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithString("type",
				mcplib.Description("Record type: agent or decision"),
				mcplib.Required(),
			),
			mcplib.WithObject("filters",
				mcplib.Description("Equality filters keyed by field name"),
			),
		),
		s.handleList,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("herd_save",
			mcplib.WithDescription(`Save a record. Omit id to have one assigned.
Agent state is one of spawning, running, completed, failed, stopped (default spawning).
Decision status defaults to proposed. Timestamps are RFC 3339.`),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithString("type",
				mcplib.Description("Record type: agent or decision"),
				mcplib.Required(),
			),
			mcplib.WithObject("record",
				mcplib.Description("Field values keyed by field name"),
				mcplib.Required(),
			),
		),
		s.handleSave,
	)
}

func (s *Server) handleGet(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	t, err := s.store.Lookup(request.GetString("type", ""))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	id := request.GetString("id", "")
	if id == "" {
		return errorResult("id is required"), nil
	}

	rec, err := s.store.Get(ctx, t, id)
	if err != nil {
		s.logger.Error("herd_get failed", "type", t.Name, "id", id, "error", err)
		return errorResult(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"type":   t.Name,
		"found":  rec != nil,
		"record": rec,
	})
}

func (s *Server) handleList(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	t, err := s.store.Lookup(request.GetString("type", ""))
	if err != nil {
		return errorResult(err.Error()), nil
	}

	filters, err := objectArg(request, "filters")
	if err != nil {
		return errorResult(err.Error()), nil
	}

	recs, err := s.store.List(ctx, t, filters)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"type":    t.Name,
		"count":   len(recs),
		"records": recs,
	})
}

func (s *Server) handleSave(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	t, err := s.store.Lookup(request.GetString("type", ""))
	if err != nil {
		return errorResult(err.Error()), nil
	}

	values, err := objectArg(request, "record")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if values == nil {
		return errorResult("record is required"), nil
	}

	rec, err := t.New(values)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	id, err := s.store.Save(ctx, rec)
	if err != nil {
		s.logger.Error("herd_save failed", "type", t.Name, "error", err)
		return errorResult(err.Error()), nil
	}

	return jsonResult(map[string]any{"type": t.Name, "id": id})
}

// objectArg returns the named object argument, or nil when it is absent.
func objectArg(request mcplib.CallToolRequest, name string) (map[string]any, error) {
	v, ok := request.GetArguments()[name]
	if !ok || v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object, got %T", name, v)
	}
	return obj, nil
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: string(data)},
		},
	}, nil
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
