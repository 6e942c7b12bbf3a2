// internal/workflows/teambuilder/models.go
package teambuilder

import (
	"encoding/json"
	"strings"

	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi"
)

// Input is the tool-call surface for one team-building turn.
type Input struct {
	Name  string          `json:"name,omitempty"`
	State json.RawMessage `json:"state,omitempty"`
}

// State is the collector snapshot: slots accepted so far, in acceptance
// order. Slots are never revisited or removed.
type State struct {
	Slots    []pokeapi.Summary `json:"slots,omitempty"`
	Capacity int               `json:"capacity,omitempty"`
}

func (s *State) contains(name string) bool {
	for _, slot := range s.Slots {
		if strings.EqualFold(slot.Name, name) {
			return true
		}
	}
	return false
}
