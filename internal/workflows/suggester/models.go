// internal/workflows/suggester/models.go
package suggester

import (
	"encoding/json"
	"strings"

	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi"
)

// Input is the tool-call surface for one suggestion turn.
type Input struct {
	Text  string          `json:"input,omitempty"`
	State json.RawMessage `json:"state,omitempty"`
}

// State carries the conversation across turns. The phase is implicit:
// no category means we are asking for one, a category without a role
// means we are asking for the role, and both set means we are proposing
// candidates.
type State struct {
	Category          string           `json:"category,omitempty"`
	Role              string           `json:"role,omitempty"`
	CurrentSuggestion *pokeapi.Summary `json:"current_suggestion,omitempty"`
	RejectedNames     []string         `json:"rejected_names,omitempty"`
}

func (s *State) reject(name string) {
	s.RejectedNames = append(s.RejectedNames, strings.ToLower(name))
	s.CurrentSuggestion = nil
}

func (s *State) isRejected(name string) bool {
	lowered := strings.ToLower(name)
	for _, r := range s.RejectedNames {
		if r == lowered {
			return true
		}
	}
	return false
}
