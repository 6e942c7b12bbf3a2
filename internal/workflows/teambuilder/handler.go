// internal/workflows/teambuilder/handler.go
package teambuilder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/logger"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/elicit"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi"
)

const ToolName = "build_pokemon_team"

var stateSchema = elicit.MustSchema(`{
	"type": "object",
	"properties": {
		"slots": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"id": {"type": "integer"},
					"types": {"type": "array", "items": {"type": "string"}},
					"total_stats": {"type": "integer"}
				},
				"required": ["name", "id"],
				"additionalProperties": false
			}
		},
		"capacity": {"type": "integer"}
	},
	"additionalProperties": false
}`)

// PokemonFetcher is the slice of the entity client this workflow needs.
type PokemonFetcher interface {
	GetPokemon(ctx context.Context, token string) (*pokeapi.Pokemon, error)
}

type Handler struct {
	client PokemonFetcher
	logger logger.Logger
	config *Config
}

func NewHandler(client PokemonFetcher, cfg *Config, log logger.Logger) *Handler {
	if cfg == nil {
		cfg = LoadConfig()
	}
	return &Handler{
		client: client,
		logger: log.WithFields(map[string]interface{}{"tool": ToolName}),
		config: cfg,
	}
}

// Execute runs one turn of the team collector. Accepted slots only ever
// grow; a duplicate, a failed fetch, or an empty input re-elicits with
// the state unchanged. The only error returned is
// *elicit.MalformedStateError.
func (h *Handler) Execute(ctx context.Context, input *Input) (*elicit.Outcome, error) {
	if elicit.IsReset(input.Name) {
		fresh := &State{Capacity: h.config.TeamSize}
		return elicit.Ask(h.progressPrompt(fresh), fresh), nil
	}

	var state State
	if err := elicit.DecodeState(ToolName, stateSchema, input.State, &state); err != nil {
		h.logger.Error("rejecting malformed state", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	if state.Capacity <= 0 {
		state.Capacity = h.config.TeamSize
	}
	// A replayed blob of an already completed team never grows; the
	// team renders again as the terminal outcome.
	if len(state.Slots) >= state.Capacity {
		return elicit.Final(renderTeam(&state)), nil
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return elicit.Ask(h.progressPrompt(&state), &state), nil
	}
	if elicit.IsCancel(name) {
		return elicit.Final("Construcción del equipo cancelada. ¡Vuelve cuando quieras!"), nil
	}

	if state.contains(name) {
		return elicit.Ask(fmt.Sprintf(
			"⚠️ %s ya está en tu equipo. Elige un Pokémon diferente.\n\n%s",
			titleCase(name), h.progressPrompt(&state),
		), &state), nil
	}

	pokemon, err := h.client.GetPokemon(ctx, name)
	if err != nil {
		return h.retryOutcome(&state, name, err)
	}
	if state.contains(pokemon.Name) {
		// Caught an alias for an existing slot (numeric id, case variant).
		return elicit.Ask(fmt.Sprintf(
			"⚠️ %s ya está en tu equipo. Elige un Pokémon diferente.\n\n%s",
			titleCase(pokemon.Name), h.progressPrompt(&state),
		), &state), nil
	}

	state.Slots = append(state.Slots, pokemon.Summarize())
	h.logger.Info("slot accepted", map[string]interface{}{
		"name": pokemon.Name,
		"slot": len(state.Slots),
	})

	if len(state.Slots) < state.Capacity {
		return elicit.Ask(fmt.Sprintf(
			"✅ %s agregado al equipo.\n\n%s",
			titleCase(pokemon.Name), h.progressPrompt(&state),
		), &state), nil
	}
	return elicit.Final(renderTeam(&state)), nil
}

func (h *Handler) retryOutcome(state *State, name string, err error) (*elicit.Outcome, error) {
	switch {
	case errors.Is(err, pokeapi.ErrNotFound), errors.Is(err, pokeapi.ErrInvalidInput):
		return elicit.Ask(fmt.Sprintf(
			"❌ No encontré a '%s'. Revisa el nombre e inténtalo otra vez.\n\n%s",
			name, h.progressPrompt(state),
		), state), nil
	default:
		h.logger.Warn("provider failure during team building", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
		return elicit.Ask(fmt.Sprintf(
			"❌ Ocurrió un error al buscar '%s'. ¿Puedes intentar de nuevo en un momento?\n\n%s",
			name, h.progressPrompt(state),
		), state), nil
	}
}

// progressPrompt asks for the next slot and shows the team so far.
func (h *Handler) progressPrompt(state *State) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🎯 Construyamos tu equipo Pokémon de %d.\n", state.Capacity)
	if len(state.Slots) > 0 {
		b.WriteString("\n**Equipo actual:**\n")
		for i, slot := range state.Slots {
			fmt.Fprintf(&b, "%d. %s (#%d) - Tipos: %s\n",
				i+1, titleCase(slot.Name), slot.ID, titleCaseList(slot.Types))
		}
	}
	fmt.Fprintf(&b, "\nDime el nombre del Pokémon #%d:", len(state.Slots)+1)
	return b.String()
}

func renderTeam(state *State) string {
	var b strings.Builder

	b.WriteString("# 🎉 ¡Equipo Pokémon Completo!\n\n")
	b.WriteString("## 👥 Tu Equipo\n")
	total := 0
	for i, slot := range state.Slots {
		fmt.Fprintf(&b, "**%d. %s** (#%d)\n", i+1, titleCase(slot.Name), slot.ID)
		fmt.Fprintf(&b, "   - Tipos: %s\n", titleCaseList(slot.Types))
		fmt.Fprintf(&b, "   - Stats totales: %d\n", slot.TotalStats)
		total += slot.TotalStats
	}

	coverage := typeCoverage(state.Slots)
	avg := float64(total) / float64(len(state.Slots))

	b.WriteString("\n## 📈 Análisis del Equipo\n")
	fmt.Fprintf(&b, "- **Estadísticas totales:** %d\n", total)
	fmt.Fprintf(&b, "- **Estadísticas promedio:** %.1f\n", avg)
	fmt.Fprintf(&b, "- **Cobertura de tipos:** %d tipos únicos\n", coverage)
	if isBalanced(state.Slots) {
		b.WriteString("- **Equilibrio:** ✅ Cada miembro aporta un tipo que nadie más cubre\n")
	} else {
		b.WriteString("- **Equilibrio:** ⚠️ Hay tipos repetidos entre los miembros\n")
	}

	b.WriteString("\n*¡Tu equipo está listo para la batalla!*")
	return b.String()
}

// typeCoverage counts the distinct types across the whole team.
func typeCoverage(slots []pokeapi.Summary) int {
	seen := make(map[string]struct{})
	for _, slot := range slots {
		for _, t := range slot.Types {
			seen[strings.ToLower(t)] = struct{}{}
		}
	}
	return len(seen)
}

// isBalanced reports whether every member contributes at least one type
// no other member has.
func isBalanced(slots []pokeapi.Summary) bool {
	counts := make(map[string]int)
	for _, slot := range slots {
		for _, t := range slot.Types {
			counts[strings.ToLower(t)]++
		}
	}
	for _, slot := range slots {
		unique := false
		for _, t := range slot.Types {
			if counts[strings.ToLower(t)] == 1 {
				unique = true
				break
			}
		}
		if !unique {
			return false
		}
	}
	return true
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
