// internal/resources/resources.go

// Package resources exposes the reference data as read-only MCP
// resources: a canonical type index, per-type rosters, and per-Pokémon
// records. Resources are plain data views over the entity client, with
// none of the tools' conversation machinery.
package resources

import (
	"context"
	"encoding/json"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/errors"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/logger"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/lexicon"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi"
)

const (
	TypesURI        = "pokemon://types"
	PokemonTemplate = "pokemon://{name}"
	TypeTemplate    = "pokemon://type/{type}"
)

// Provider is the slice of the entity client the resources need.
type Provider interface {
	GetPokemon(ctx context.Context, token string) (*pokeapi.Pokemon, error)
	GetTypePokemon(ctx context.Context, typeName string, limit int) ([]pokeapi.NamedRef, error)
}

type Handler struct {
	client      Provider
	rosterLimit int
	logger      logger.Logger
}

func NewHandler(client Provider, rosterLimit int, log logger.Logger) *Handler {
	return &Handler{
		client:      client,
		rosterLimit: rosterLimit,
		logger:      log.WithFields(map[string]interface{}{"surface": "resources"}),
	}
}

// Register wires the resource surface onto the MCP server.
func (h *Handler) Register(s *server.MCPServer) {
	s.AddResource(
		mcp.NewResource(TypesURI, "Tipos Pokémon",
			mcp.WithResourceDescription("Los 18 tipos Pokémon canónicos"),
			mcp.WithMIMEType("application/json"),
		),
		h.readTypes,
	)
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(TypeTemplate, "Pokémon por tipo",
			mcp.WithTemplateDescription("Lista de Pokémon de un tipo dado"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		h.readTypeRoster,
	)
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(PokemonTemplate, "Ficha de Pokémon",
			mcp.WithTemplateDescription("Datos completos de un Pokémon por nombre o número"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		h.readPokemon,
	)
}

func (h *Handler) readTypes(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	types := lexicon.Canonical()
	return jsonContents(req.Params.URI, map[string]interface{}{
		"types": types,
		"count": len(types),
	})
}

func (h *Handler) readTypeRoster(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	raw := strings.TrimPrefix(req.Params.URI, "pokemon://type/")

	canonical, err := lexicon.Normalize(raw)
	if err != nil {
		return nil, errors.NewUnknownTypeError(raw)
	}

	roster, err := h.client.GetTypePokemon(ctx, canonical, h.rosterLimit)
	if err != nil {
		return nil, errors.NewProviderUnavailableError(err)
	}

	names := make([]string, 0, len(roster))
	for _, ref := range roster {
		names = append(names, ref.Name)
	}
	h.logger.Info("type roster read", map[string]interface{}{
		"type":  canonical,
		"count": len(names),
	})
	return jsonContents(req.Params.URI, map[string]interface{}{
		"type":    canonical,
		"pokemon": names,
		"count":   len(names),
	})
}

func (h *Handler) readPokemon(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	token := strings.TrimPrefix(req.Params.URI, "pokemon://")

	pokemon, err := h.client.GetPokemon(ctx, token)
	if err != nil {
		switch {
		case stderrs.Is(err, pokeapi.ErrNotFound), stderrs.Is(err, pokeapi.ErrInvalidInput):
			return nil, errors.NewPokemonNotFoundError(token)
		default:
			return nil, errors.NewProviderUnavailableError(err)
		}
	}

	abilities := make([]map[string]interface{}, 0, len(pokemon.Abilities))
	for _, a := range pokemon.Abilities {
		abilities = append(abilities, map[string]interface{}{
			"name":   a.Ability.Name,
			"hidden": a.IsHidden,
		})
	}
	return jsonContents(req.Params.URI, map[string]interface{}{
		"id":              pokemon.ID,
		"name":            pokemon.Name,
		"height_m":        pokemon.HeightMeters(),
		"weight_kg":       pokemon.WeightKg(),
		"base_experience": pokemon.BaseExperience,
		"types":           pokemon.TypeNames(),
		"stats":           pokemon.StatMap(),
		"total_stats":     pokemon.TotalStats(),
		"abilities":       abilities,
	})
}

func jsonContents(uri string, payload interface{}) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode resource %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
