// internal/prompts/prompts.go

// Package prompts exposes reusable prompt templates over the reference
// data: a battle strategy planner seeded with live team stats and a
// single-Pokémon analysis. The text surface is Spanish-first like the
// tools'.
package prompts

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/errors"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/logger"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/roles"
)

const maxTeamSize = 6

// Provider is the slice of the entity client the prompts need.
type Provider interface {
	GetPokemon(ctx context.Context, token string) (*pokeapi.Pokemon, error)
}

type Handler struct {
	client Provider
	logger logger.Logger
}

func NewHandler(client Provider, log logger.Logger) *Handler {
	return &Handler{
		client: client,
		logger: log.WithFields(map[string]interface{}{"surface": "prompts"}),
	}
}

// Register wires the prompt surface onto the MCP server.
func (h *Handler) Register(s *server.MCPServer) {
	s.AddPrompt(mcp.Prompt{
		Name:        "battle_strategy",
		Description: "Plan de estrategia de batalla para un equipo, con sus datos reales",
		Arguments: []mcp.PromptArgument{
			{Name: "team", Description: "Nombres de los miembros separados por comas", Required: true},
			{Name: "focus", Description: "Enfoque estratégico: ataque, defensa, velocidad, soporte o equilibrado"},
		},
	}, h.battleStrategy)

	s.AddPrompt(mcp.Prompt{
		Name:        "pokemon_analysis",
		Description: "Análisis competitivo de un Pokémon a partir de sus estadísticas",
		Arguments: []mcp.PromptArgument{
			{Name: "name", Description: "Nombre o número del Pokémon", Required: true},
		},
	}, h.pokemonAnalysis)
}

func (h *Handler) battleStrategy(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	raw := strings.TrimSpace(req.Params.Arguments["team"])
	if raw == "" {
		return nil, errors.NewInvalidInputError("team argument is required")
	}

	focus := roles.Balanced
	if parsed, ok := roles.ParseRole(req.Params.Arguments["focus"]); ok {
		focus = parsed
	}

	names := strings.Split(raw, ",")
	if len(names) > maxTeamSize {
		names = names[:maxTeamSize]
	}

	var members []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		pokemon, err := h.client.GetPokemon(ctx, name)
		if err != nil {
			return nil, h.fetchError(name, err)
		}
		class := roles.Classify(pokemon.StatMap())
		members = append(members, fmt.Sprintf(
			"- %s (#%d): Tipos %s, Rol %s, Stats totales %d",
			titleCase(pokemon.Name), pokemon.ID,
			titleCaseList(pokemon.TypeNames()),
			roles.SpanishName(class.Role), pokemon.TotalStats(),
		))
	}
	if len(members) == 0 {
		return nil, errors.NewInvalidInputError("team argument contains no names")
	}

	var b strings.Builder
	b.WriteString("Eres un entrenador Pokémon experto. Diseña una estrategia de batalla para este equipo:\n\n")
	b.WriteString(strings.Join(members, "\n"))
	fmt.Fprintf(&b, "\n\nEnfoque solicitado: %s.\n", roles.SpanishName(focus))
	b.WriteString("Cubre: orden de salida, sinergias de tipos, amenazas principales y cómo responder a ellas.")

	h.logger.Info("battle strategy prompt built", map[string]interface{}{
		"members": len(members),
		"focus":   string(focus),
	})
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Estrategia de batalla (%s) para %d Pokémon", roles.SpanishName(focus), len(members)),
		Messages: []mcp.PromptMessage{
			{Role: mcp.RoleUser, Content: mcp.TextContent{Type: "text", Text: b.String()}},
		},
	}, nil
}

func (h *Handler) pokemonAnalysis(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := strings.TrimSpace(req.Params.Arguments["name"])
	if name == "" {
		return nil, errors.NewInvalidInputError("name argument is required")
	}

	pokemon, err := h.client.GetPokemon(ctx, name)
	if err != nil {
		return nil, h.fetchError(name, err)
	}
	class := roles.Classify(pokemon.StatMap())

	var b strings.Builder
	fmt.Fprintf(&b, "Analiza a %s (#%d) desde una perspectiva competitiva.\n\n", titleCase(pokemon.Name), pokemon.ID)
	fmt.Fprintf(&b, "Tipos: %s\n", titleCaseList(pokemon.TypeNames()))
	fmt.Fprintf(&b, "Rol estimado: %s (%s)\n", roles.SpanishName(class.Role), class.Highlight)
	b.WriteString("Estadísticas base:\n")
	for _, s := range pokemon.Stats {
		fmt.Fprintf(&b, "- %s: %d\n", s.Stat.Name, s.BaseStat)
	}
	fmt.Fprintf(&b, "Total: %d\n\n", pokemon.TotalStats())
	b.WriteString("Cubre: fortalezas, debilidades de tipo, compañeros de equipo recomendados y contra qué rivales destaca.")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Análisis competitivo de %s", titleCase(pokemon.Name)),
		Messages: []mcp.PromptMessage{
			{Role: mcp.RoleUser, Content: mcp.TextContent{Type: "text", Text: b.String()}},
		},
	}, nil
}

func (h *Handler) fetchError(name string, err error) error {
	switch {
	case stderrs.Is(err, pokeapi.ErrNotFound), stderrs.Is(err, pokeapi.ErrInvalidInput):
		return errors.NewPokemonNotFoundError(name)
	default:
		h.logger.Warn("provider failure building prompt", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
		return errors.NewProviderUnavailableError(err)
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func titleCaseList(items []string) string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = titleCase(item)
	}
	return strings.Join(out, ", ")
}
