// internal/workflows/suggester/handler.go
package suggester

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/logger"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/elicit"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/lexicon"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/roles"
)

const ToolName = "suggest_pokemon"

const categoryPrompt = "🔍 ¡Busquemos tu Pokémon ideal! ¿De qué tipo lo quieres? (Ejemplos: fuego, agua, eléctrico)"

var stateSchema = elicit.MustSchema(`{
	"type": "object",
	"properties": {
		"category": {"type": "string"},
		"role": {"type": "string"},
		"current_suggestion": {
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"id": {"type": "integer"},
				"types": {"type": "array", "items": {"type": "string"}},
				"total_stats": {"type": "integer"}
			},
			"required": ["name", "id"],
			"additionalProperties": false
		},
		"rejected_names": {"type": "array", "items": {"type": "string"}}
	},
	"additionalProperties": false
}`)

// Provider is the slice of the entity client this workflow needs.
type Provider interface {
	GetPokemon(ctx context.Context, token string) (*pokeapi.Pokemon, error)
	GetTypePokemon(ctx context.Context, typeName string, limit int) ([]pokeapi.NamedRef, error)
}

type Handler struct {
	client Provider
	logger logger.Logger
	config *Config
}

func NewHandler(client Provider, cfg *Config, log logger.Logger) *Handler {
	if cfg == nil {
		cfg = LoadConfig()
	}
	return &Handler{
		client: client,
		logger: log.WithFields(map[string]interface{}{"tool": ToolName}),
		config: cfg,
	}
}

// Execute runs one turn of the constrained suggester. The candidate
// pool is recomputed from the provider on every proposing turn, so the
// state never carries a roster, only the criteria and the rejections.
// The only error returned is *elicit.MalformedStateError.
func (h *Handler) Execute(ctx context.Context, input *Input) (*elicit.Outcome, error) {
	if elicit.IsReset(input.Text) {
		return elicit.AskFresh(categoryPrompt), nil
	}

	var state State
	if err := elicit.DecodeState(ToolName, stateSchema, input.State, &state); err != nil {
		h.logger.Error("rejecting malformed state", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	text := strings.TrimSpace(input.Text)
	if elicit.IsCancel(text) {
		return elicit.Final("Búsqueda de sugerencias cancelada. ¡Vuelve cuando quieras!"), nil
	}

	switch {
	case state.Category == "":
		return h.collectCategory(&state, text)
	case state.Role == "":
		return h.collectRole(ctx, &state, text)
	default:
		return h.propose(ctx, &state, text)
	}
}

func (h *Handler) collectCategory(state *State, text string) (*elicit.Outcome, error) {
	if text == "" {
		return elicit.AskFresh(categoryPrompt), nil
	}

	canonical, err := lexicon.Normalize(text)
	if err != nil {
		valid := lexicon.Canonical()
		var unknown *lexicon.UnknownTypeError
		if errors.As(err, &unknown) {
			valid = unknown.Valid
		}
		return elicit.AskFresh(fmt.Sprintf(
			"❌ No reconozco el tipo '%s'. Tipos válidos: %s",
			text, strings.Join(valid, ", "),
		)), nil
	}

	state.Category = canonical
	return elicit.Ask(h.rolePrompt(state), state), nil
}

func (h *Handler) collectRole(ctx context.Context, state *State, text string) (*elicit.Outcome, error) {
	if text == "" {
		return elicit.Ask(h.rolePrompt(state), state), nil
	}

	role, ok := roles.ParseRole(text)
	if !ok {
		return elicit.Ask(fmt.Sprintf(
			"❌ No reconozco el rol '%s'. Opciones: %s\n\n%s",
			text, roleOptions(), h.rolePrompt(state),
		), state), nil
	}

	state.Role = string(role)
	return h.proposeNext(ctx, state)
}

func (h *Handler) propose(ctx context.Context, state *State, text string) (*elicit.Outcome, error) {
	switch {
	case text == "" || state.CurrentSuggestion == nil:
		return h.proposeNext(ctx, state)
	case elicit.IsAccept(text):
		return h.accept(ctx, state)
	case elicit.IsDecline(text):
		h.logger.Info("suggestion declined", map[string]interface{}{
			"name": state.CurrentSuggestion.Name,
		})
		state.reject(state.CurrentSuggestion.Name)
		return h.proposeNext(ctx, state)
	default:
		return elicit.Ask(fmt.Sprintf(
			"🤔 No entendí tu respuesta.\n\n%s",
			h.proposalPrompt(state.CurrentSuggestion),
		), state), nil
	}
}

// proposeNext rescans the type roster, filters and ranks it, and
// presents the top candidate.
func (h *Handler) proposeNext(ctx context.Context, state *State) (*elicit.Outcome, error) {
	wanted := roles.Role(state.Role)

	roster, err := h.client.GetTypePokemon(ctx, state.Category, h.config.CandidateLimit)
	if err != nil {
		return h.retryOutcome(state, err)
	}

	var matches, rest []pokeapi.Summary
	for _, ref := range roster {
		if state.isRejected(ref.Name) {
			continue
		}
		pokemon, err := h.client.GetPokemon(ctx, ref.Name)
		if errors.Is(err, pokeapi.ErrNotFound) {
			continue
		}
		if err != nil {
			return h.retryOutcome(state, err)
		}
		if pokemon.TotalStats() < h.config.MinTotalStats {
			continue
		}
		if roles.Classify(pokemon.StatMap()).Role == wanted {
			matches = append(matches, pokemon.Summarize())
		} else {
			rest = append(rest, pokemon.Summarize())
		}
	}

	ordered := append(matches, rest...)
	if len(ordered) == 0 {
		state.CurrentSuggestion = nil
		return elicit.Ask(fmt.Sprintf(
			"😕 No encontré más candidatos de tipo %s con rol %s. Escribe 'reiniciar' para empezar con otros criterios.",
			titleCase(state.Category), roles.SpanishName(wanted),
		), state), nil
	}

	pick := ordered[0]
	state.CurrentSuggestion = &pick
	h.logger.Info("suggestion proposed", map[string]interface{}{
		"name":     pick.Name,
		"category": state.Category,
		"role":     state.Role,
	})
	return elicit.Ask(h.proposalPrompt(&pick), state), nil
}

func (h *Handler) accept(ctx context.Context, state *State) (*elicit.Outcome, error) {
	pokemon, err := h.client.GetPokemon(ctx, state.CurrentSuggestion.Name)
	if err != nil {
		return h.retryOutcome(state, err)
	}

	class := roles.Classify(pokemon.StatMap())
	var b strings.Builder
	fmt.Fprintf(&b, "# 🏆 ¡Excelente elección: %s! (#%d)\n\n", titleCase(pokemon.Name), pokemon.ID)
	fmt.Fprintf(&b, "**Tipos:** %s\n", titleCaseList(pokemon.TypeNames()))
	fmt.Fprintf(&b, "**Stats totales:** %d\n", pokemon.TotalStats())
	fmt.Fprintf(&b, "**Rol:** %s (%s)\n\n", titleCase(roles.SpanishName(class.Role)), class.Highlight)
	fmt.Fprintf(&b, "%s\n\n", class.Rationale)
	b.WriteString("*¡Que disfrutes a tu nuevo compañero!*")
	return elicit.Final(b.String()), nil
}

func (h *Handler) retryOutcome(state *State, err error) (*elicit.Outcome, error) {
	h.logger.Warn("provider failure during suggestion", map[string]interface{}{
		"error": err.Error(),
	})
	return elicit.Ask(
		"❌ Ocurrió un error consultando los datos. ¿Puedes intentar de nuevo en un momento?",
		state,
	), nil
}

func (h *Handler) rolePrompt(state *State) string {
	return fmt.Sprintf(
		"👍 Tipo %s elegido. ¿Qué rol buscas? Opciones: %s",
		titleCase(state.Category), roleOptions(),
	)
}

func (h *Handler) proposalPrompt(pick *pokeapi.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💡 Te sugiero a **%s** (#%d)\n", titleCase(pick.Name), pick.ID)
	fmt.Fprintf(&b, "- Tipos: %s\n", titleCaseList(pick.Types))
	fmt.Fprintf(&b, "- Stats totales: %d\n\n", pick.TotalStats)
	b.WriteString("¿Lo aceptas? (sí/no)")
	return b.String()
}

func roleOptions() string {
	names := make([]string, 0, len(roles.All()))
	for _, role := range roles.All() {
		names = append(names, roles.SpanishName(role))
	}
	return strings.Join(names, ", ")
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
