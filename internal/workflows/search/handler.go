// internal/workflows/search/handler.go

// Package search implements the one-shot paginated listing tool. It has
// no conversation state: every call resolves to a page or an error.
package search

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/errors"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/logger"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi"
)

const ToolName = "search_pokemon"

const defaultLimit = 20

// Lister is the slice of the entity client this tool needs.
type Lister interface {
	ListPokemon(ctx context.Context, limit, offset int) (*pokeapi.Page, error)
}

type Input struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

type Handler struct {
	client Lister
	logger logger.Logger
}

func NewHandler(client Lister, log logger.Logger) *Handler {
	return &Handler{
		client: client,
		logger: log.WithFields(map[string]interface{}{"tool": ToolName}),
	}
}

// Execute fetches one page of the species index. Errors carry the
// standard taxonomy so the transport can surface the code.
func (h *Handler) Execute(ctx context.Context, input *Input) (string, error) {
	limit := input.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	page, err := h.client.ListPokemon(ctx, limit, input.Offset)
	if err != nil {
		switch {
		case stderrs.Is(err, pokeapi.ErrInvalidInput):
			return "", errors.NewInvalidInputError(err.Error())
		default:
			return "", errors.NewProviderUnavailableError(err)
		}
	}

	h.logger.Info("search page served", map[string]interface{}{
		"limit":  limit,
		"offset": input.Offset,
		"count":  page.Count,
	})
	return renderPage(page, limit, input.Offset), nil
}

func renderPage(page *pokeapi.Page, limit, offset int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 📋 Pokémon disponibles (%d en total)\n\n", page.Count)
	fmt.Fprintf(&b, "Mostrando %d desde la posición %d:\n", len(page.Results), offset)
	for i, ref := range page.Results {
		fmt.Fprintf(&b, "%d. %s\n", offset+i+1, titleCase(ref.Name))
	}
	b.WriteString("\n*Ajusta limit y offset para ver otra página.*")
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
