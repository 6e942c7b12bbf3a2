// internal/workflows/lookup/handler.go
package lookup

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

const ToolName = "get_pokemon_info"

const askNamePrompt = "¿De qué Pokémon quieres saber información? (Escribe el nombre o número)"

var stateSchema = elicit.MustSchema(`{
	"type": "object",
	"properties": {
		"value": {"type": "string"}
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
}

func NewHandler(client PokemonFetcher, log logger.Logger) *Handler {
	return &Handler{
		client: client,
		logger: log.WithFields(map[string]interface{}{"tool": ToolName}),
	}
}

// Execute runs one turn of the single-slot lookup. The only error it
// returns is *elicit.MalformedStateError; every recoverable condition
// becomes an elicitation outcome.
func (h *Handler) Execute(ctx context.Context, input *Input) (*elicit.Outcome, error) {
	if elicit.IsReset(input.Name) {
		return elicit.AskFresh(askNamePrompt), nil
	}

	var state State
	if err := elicit.DecodeState(ToolName, stateSchema, input.State, &state); err != nil {
		h.logger.Error("rejecting malformed state", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = strings.TrimSpace(state.Value)
	}
	if name == "" {
		return elicit.AskFresh(askNamePrompt), nil
	}
	if elicit.IsCancel(name) {
		return elicit.Final("Búsqueda cancelada. ¡Vuelve cuando quieras!"), nil
	}

	pokemon, err := h.client.GetPokemon(ctx, name)
	if err != nil {
		return h.retryOutcome(name, err)
	}

	h.logger.Info("lookup completed", map[string]interface{}{
		"name": pokemon.Name,
		"id":   pokemon.ID,
	})
	return elicit.Final(renderPokemon(pokemon)), nil
}

// retryOutcome maps a fetch failure to a re-elicitation with an
// error-qualified prompt and empty state. The retry loop is unbounded;
// only the caller decides when to stop.
func (h *Handler) retryOutcome(name string, err error) (*elicit.Outcome, error) {
	switch {
	case errors.Is(err, pokeapi.ErrNotFound), errors.Is(err, pokeapi.ErrInvalidInput):
		return elicit.AskFresh(fmt.Sprintf(
			"❌ No encontré información para '%s'. ¿Puedes escribir otro nombre? (Ejemplos: pikachu, charizard, 25)",
			name,
		)), nil
	default:
		h.logger.Warn("provider failure during lookup", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
		return elicit.AskFresh(fmt.Sprintf(
			"❌ Ocurrió un error al buscar '%s'. ¿Puedes intentar de nuevo en un momento?",
			name,
		)), nil
	}
}

func renderPokemon(p *pokeapi.Pokemon) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# ✨ %s (#%d)\n\n", titleCase(p.Name), p.ID)
	fmt.Fprintf(&b, "**Altura:** %.1fm\n", p.HeightMeters())
	fmt.Fprintf(&b, "**Peso:** %.1fkg\n", p.WeightKg())
	fmt.Fprintf(&b, "**Tipos:** %s\n", titleCaseList(p.TypeNames()))
	fmt.Fprintf(&b, "**Experiencia Base:** %d\n\n", p.BaseExperience)

	b.WriteString("## 📊 Estadísticas\n")
	for _, s := range p.Stats {
		label := strings.ReplaceAll(s.Stat.Name, "-", " ")
		fmt.Fprintf(&b, "- **%s:** %d\n", titleCase(label), s.BaseStat)
	}

	b.WriteString("\n## 🎯 Habilidades\n")
	for _, a := range p.Abilities {
		label := titleCase(strings.ReplaceAll(a.Ability.Name, "-", " "))
		if a.IsHidden {
			fmt.Fprintf(&b, "- %s (Oculta)\n", label)
		} else {
			fmt.Fprintf(&b, "- %s\n", label)
		}
	}

	b.WriteString("\n*¿Quieres información de otro Pokémon? ¡Solo dímelo!*")
	return b.String()
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
