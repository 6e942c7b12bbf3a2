// internal/elicit/state.go
package elicit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// MalformedStateError is the only conversation-fatal condition: the
// caller presented a state blob that does not match the shape the
// invoking workflow last emitted. The workflow refuses to guess intent
// rather than risk corrupting an unrelated conversation.
type MalformedStateError struct {
	Workflow string
	Reason   string
}

func (e *MalformedStateError) Error() string {
	return fmt.Sprintf("malformed state for workflow %q: %s", e.Workflow, e.Reason)
}

// MustSchema compiles a workflow state schema. Schemas are package-level
// constants, so compilation failure is a programming error.
func MustSchema(doc string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("invalid state schema: %v", err))
	}
	return schema
}

// DecodeState validates a caller-supplied state blob against the
// workflow's schema and unmarshals it into out. An absent, empty, null
// or {} blob means a fresh conversation and leaves out at its zero
// value. Any other blob that fails validation yields a
// *MalformedStateError.
func DecodeState(workflow string, schema *gojsonschema.Schema, blob json.RawMessage, out interface{}) error {
	trimmed := strings.TrimSpace(string(blob))
	if trimmed == "" || trimmed == "null" || trimmed == "{}" {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(trimmed))
	if err != nil {
		return &MalformedStateError{Workflow: workflow, Reason: fmt.Sprintf("state is not valid JSON: %v", err)}
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return &MalformedStateError{Workflow: workflow, Reason: strings.Join(reasons, "; ")}
	}

	if err := json.Unmarshal(blob, out); err != nil {
		return &MalformedStateError{Workflow: workflow, Reason: fmt.Sprintf("decode state: %v", err)}
	}
	return nil
}
