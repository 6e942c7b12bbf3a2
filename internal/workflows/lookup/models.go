// internal/workflows/lookup/models.go
package lookup

import "encoding/json"

// Input is the tool-call surface: an optional name and the optional
// state blob echoed back by the caller.
type Input struct {
	Name  string          `json:"name,omitempty"`
	State json.RawMessage `json:"state,omitempty"`
}

// State is the single-slot conversation snapshot.
type State struct {
	Value string `json:"value,omitempty"`
}
