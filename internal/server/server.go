// internal/server/server.go

// Package server is the composition root: it builds the entity client,
// the workflow handlers, and the MCP server that exposes them as tools.
// No business logic lives here, only wiring.
package server

import (
	"context"
	stderrs "errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/config"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/errors"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/logger"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/metrics"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/elicit"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/prompts"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/resources"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/workflows/lookup"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/workflows/search"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/workflows/suggester"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/workflows/teambuilder"
)

// Server owns the MCP server instance and its registered tools.
type Server struct {
	mcp    *server.MCPServer
	logger logger.Logger
}

// New wires every tool against one shared entity client.
func New(cfg *config.Config, log logger.Logger) *Server {
	client := pokeapi.NewClient(
		cfg.PokeAPI.BaseURL,
		config.GetDuration(cfg.PokeAPI.Timeout),
		cfg.PokeAPI.UserAgent,
		log,
	)

	s := server.NewMCPServer(
		cfg.App.Name,
		cfg.App.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)

	srv := &Server{mcp: s, logger: log}
	srv.registerLookup(client, log)
	srv.registerTeamBuilder(client, cfg, log)
	srv.registerSuggester(client, cfg, log)
	srv.registerSearch(client, cfg, log)
	resources.NewHandler(client, cfg.PokeAPI.PageLimit, log).Register(s)
	prompts.NewHandler(client, log).Register(s)
	return srv
}

// ServeStdio blocks serving MCP over stdin/stdout until the stream
// closes or the process receives an interrupt.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCP exposes the underlying server, mainly for tests.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

func (s *Server) registerLookup(client *pokeapi.Client, log logger.Logger) {
	handler := lookup.NewHandler(client, log)
	tool := mcp.NewTool(lookup.ToolName,
		mcp.WithDescription("Consulta la ficha completa de un Pokémon por nombre o número. Si falta el nombre, la respuesta pide uno y devuelve un estado que debes reenviar en la siguiente llamada."),
		mcp.WithString("name", mcp.Description("Nombre o número del Pokémon, o una palabra reservada (reiniciar, cancelar)")),
		mcp.WithString("state", mcp.Description("Estado devuelto por la llamada anterior, sin modificar")),
	)
	s.mcp.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		out, err := handler.Execute(ctx, &lookup.Input{
			Name:  req.GetString("name", ""),
			State: []byte(req.GetString("state", "")),
		})
		metrics.ToolCallDuration.WithLabelValues(lookup.ToolName).Observe(time.Since(start).Seconds())
		return s.outcomeResult(lookup.ToolName, out, err)
	})
}

func (s *Server) registerTeamBuilder(client *pokeapi.Client, cfg *config.Config, log logger.Logger) {
	handler := teambuilder.NewHandler(client, &teambuilder.Config{TeamSize: cfg.Team.Size}, log)
	tool := mcp.NewTool(teambuilder.ToolName,
		mcp.WithDescription("Construye un equipo Pokémon miembro a miembro. Cada llamada agrega un Pokémon; reenvía el estado devuelto hasta completar el equipo."),
		mcp.WithString("name", mcp.Description("Nombre o número del siguiente miembro, o una palabra reservada (reiniciar, cancelar)")),
		mcp.WithString("state", mcp.Description("Estado devuelto por la llamada anterior, sin modificar")),
	)
	s.mcp.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		out, err := handler.Execute(ctx, &teambuilder.Input{
			Name:  req.GetString("name", ""),
			State: []byte(req.GetString("state", "")),
		})
		metrics.ToolCallDuration.WithLabelValues(teambuilder.ToolName).Observe(time.Since(start).Seconds())
		return s.outcomeResult(teambuilder.ToolName, out, err)
	})
}

func (s *Server) registerSuggester(client *pokeapi.Client, cfg *config.Config, log logger.Logger) {
	handler := suggester.NewHandler(client, &suggester.Config{
		CandidateLimit: cfg.Suggest.CandidateLimit,
		MinTotalStats:  cfg.Suggest.MinTotalStats,
	}, log)
	tool := mcp.NewTool(suggester.ToolName,
		mcp.WithDescription("Sugiere un Pokémon según tipo y rol. Responde a cada pregunta y reenvía el estado devuelto; acepta o rechaza las propuestas con sí/no."),
		mcp.WithString("input", mcp.Description("Respuesta del usuario a la última pregunta, o una palabra reservada (reiniciar, cancelar)")),
		mcp.WithString("state", mcp.Description("Estado devuelto por la llamada anterior, sin modificar")),
	)
	s.mcp.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		out, err := handler.Execute(ctx, &suggester.Input{
			Text:  req.GetString("input", ""),
			State: []byte(req.GetString("state", "")),
		})
		metrics.ToolCallDuration.WithLabelValues(suggester.ToolName).Observe(time.Since(start).Seconds())
		return s.outcomeResult(suggester.ToolName, out, err)
	})
}

func (s *Server) registerSearch(client *pokeapi.Client, cfg *config.Config, log logger.Logger) {
	handler := search.NewHandler(client, log)
	tool := mcp.NewTool(search.ToolName,
		mcp.WithDescription("Lista Pokémon disponibles con paginación."),
		mcp.WithNumber("limit", mcp.Description("Cantidad de resultados por página (máximo 100)")),
		mcp.WithNumber("offset", mcp.Description("Posición inicial dentro del índice")),
	)
	s.mcp.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		page, err := handler.Execute(ctx, &search.Input{
			Limit:  req.GetInt("limit", 0),
			Offset: req.GetInt("offset", 0),
		})
		metrics.ToolCallDuration.WithLabelValues(search.ToolName).Observe(time.Since(start).Seconds())
		if err != nil {
			return s.errorResult(search.ToolName, err), nil
		}
		metrics.ToolCallsCompleted.WithLabelValues(search.ToolName, string(elicit.KindFinal)).Inc()
		return mcp.NewToolResultText(page), nil
	})
}

// outcomeResult converts a workflow outcome into a tool result. Final
// outcomes carry the rendered payload; elicitations carry the encoded
// envelope so the caller can echo the state back.
func (s *Server) outcomeResult(tool string, out *elicit.Outcome, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return s.errorResult(tool, err), nil
	}

	metrics.ToolCallsCompleted.WithLabelValues(tool, string(out.Kind)).Inc()
	if out.IsFinal() {
		return mcp.NewToolResultText(out.Payload), nil
	}
	return mcp.NewToolResultText(out.Encode()), nil
}

func (s *Server) errorResult(tool string, err error) *mcp.CallToolResult {
	var malformed *elicit.MalformedStateError
	var std *errors.StandardError
	switch {
	case stderrs.As(err, &malformed):
		std = errors.NewMalformedStateError(malformed.Workflow, malformed.Reason)
	case stderrs.As(err, &std):
	default:
		std = errors.NewProviderUnavailableError(err)
	}

	metrics.ToolCallsFailed.WithLabelValues(tool, string(std.Code)).Inc()
	fields := map[string]interface{}{
		"tool":      tool,
		"code":      string(std.Code),
		"retryable": errors.IsRetryableErrorCode(std.Code),
		"error":     err.Error(),
	}
	// A fatal code ends the conversation; everything else the caller
	// may simply retry.
	if errors.IsConversationFatal(std.Code) {
		s.logger.Error("tool call aborted", fields)
	} else {
		s.logger.Warn("tool call failed", fields)
	}
	return mcp.NewToolResultError(string(std.Code) + ": " + err.Error())
}
