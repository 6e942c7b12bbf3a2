// Package lexicon maps free-text, bilingual type input onto the closed
// set of canonical Pokémon type tokens.
package lexicon

import (
	"fmt"
	"strings"
)

// canonicalTypes is the fixed closed set of category tokens, in the
// provider's conventional order.
var canonicalTypes = []string{
	"normal", "fighting", "flying", "poison", "ground", "rock",
	"bug", "ghost", "steel", "fire", "water", "grass",
	"electric", "psychic", "ice", "dragon", "dark", "fairy",
}

// aliases maps Spanish type names (accented and plain spellings) to
// their canonical English tokens.
var aliases = map[string]string{
	"fuego":     "fire",
	"agua":      "water",
	"planta":    "grass",
	"hierba":    "grass",
	"eléctrico": "electric",
	"electrico": "electric",
	"psíquico":  "psychic",
	"psiquico":  "psychic",
	"hielo":     "ice",
	"dragón":    "dragon",
	"siniestro": "dark",
	"oscuro":    "dark",
	"hada":      "fairy",
	"lucha":     "fighting",
	"veneno":    "poison",
	"tierra":    "ground",
	"roca":      "rock",
	"bicho":     "bug",
	"fantasma":  "ghost",
	"acero":     "steel",
	"volador":   "flying",
}

var canonicalSet = func() map[string]bool {
	set := make(map[string]bool, len(canonicalTypes))
	for _, t := range canonicalTypes {
		set[t] = true
	}
	return set
}()

// UnknownTypeError reports input that matches neither an alias nor a
// canonical token. Callers use it to drive re-elicitation; there is no
// default substitution.
type UnknownTypeError struct {
	Attempt string
	Valid   []string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown pokemon type %q", e.Attempt)
}

// Normalize resolves raw user text to a canonical type token. Matching
// is case-insensitive, trims whitespace, and consults the alias table
// before the canonical set, so Normalize is idempotent over its own
// output.
func Normalize(raw string) (string, error) {
	token := strings.ToLower(strings.TrimSpace(raw))

	if canonical, ok := aliases[token]; ok {
		return canonical, nil
	}
	if canonicalSet[token] {
		return token, nil
	}

	return "", &UnknownTypeError{Attempt: raw, Valid: Canonical()}
}

// Canonical returns a copy of the canonical token list.
func Canonical() []string {
	out := make([]string, len(canonicalTypes))
	copy(out, canonicalTypes)
	return out
}
