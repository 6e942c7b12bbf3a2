// Package elicit implements the shared envelope and state-machine
// contract of the interactive workflows: every tool call ends in either
// a final payload or a request for more input carrying the serialized
// conversation state the caller must echo back.
package elicit

import "encoding/json"

// Kind tags the two possible workflow outcomes.
type Kind string

const (
	KindFinal  Kind = "final"
	KindElicit Kind = "elicit"
)

// Outcome is the envelope returned by every workflow call. For
// KindElicit, State must be echoed back unchanged by the caller on the
// next turn, alongside the answer to Prompt. For KindFinal the caller
// discards any state it holds.
type Outcome struct {
	Kind    Kind            `json:"kind"`
	Payload string          `json:"payload,omitempty"`
	Prompt  string          `json:"prompt,omitempty"`
	State   json.RawMessage `json:"state,omitempty"`
}

// Final builds a terminal outcome.
func Final(payload string) *Outcome {
	return &Outcome{Kind: KindFinal, Payload: payload}
}

// Ask builds an elicitation outcome carrying the serialized state.
// State values are the workflows' own structs, so marshaling cannot
// fail for any value the workflows construct.
func Ask(prompt string, state interface{}) *Outcome {
	raw, _ := json.Marshal(state)
	return &Outcome{Kind: KindElicit, Prompt: prompt, State: raw}
}

// AskFresh builds an elicitation outcome with empty state, used for
// brand-new conversations and resets.
func AskFresh(prompt string) *Outcome {
	return &Outcome{Kind: KindElicit, Prompt: prompt, State: json.RawMessage("{}")}
}

func (o *Outcome) IsFinal() bool {
	return o.Kind == KindFinal
}

// Encode renders the outcome envelope as JSON for the transport layer.
func (o *Outcome) Encode() string {
	data, _ := json.Marshal(o)
	return string(data)
}
