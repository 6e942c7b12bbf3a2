// internal/workflows/suggester/handler_test.go
package suggester

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/logger"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/elicit"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi/pokeapitest"
)

func createTestHandler(t *testing.T, provider *pokeapitest.Server) *Handler {
	t.Helper()
	client := pokeapi.NewClient(provider.URL, 5*time.Second, "test", logger.NewNoOpLogger())
	return NewHandler(client, nil, logger.NewTestLogger(t))
}

func decodeState(t *testing.T, out *elicit.Outcome) State {
	t.Helper()
	var state State
	require.NoError(t, json.Unmarshal(out.State, &state))
	return state
}

func TestExecute_AsksForCategoryFirst(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	out, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Equal(t, elicit.KindElicit, out.Kind)
	assert.Contains(t, out.Prompt, "¿De qué tipo")
}

// Spanish alias in, role in, one decline, then accept. Role matches
// come first in roster order, so the offensive fire picks are charizard
// then arcanine.
func TestExecute_FuegoAtaqueScenario(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	out, err := handler.Execute(context.Background(), &Input{Text: "fuego"})
	require.NoError(t, err)
	require.Equal(t, elicit.KindElicit, out.Kind)
	assert.Contains(t, out.Prompt, "Tipo Fire elegido")
	assert.Equal(t, "fire", decodeState(t, out).Category)

	out, err = handler.Execute(context.Background(), &Input{Text: "ataque", State: out.State})
	require.NoError(t, err)
	require.Equal(t, elicit.KindElicit, out.Kind)
	assert.Contains(t, out.Prompt, "**Charizard** (#6)")

	out, err = handler.Execute(context.Background(), &Input{Text: "no", State: out.State})
	require.NoError(t, err)
	require.Equal(t, elicit.KindElicit, out.Kind)
	assert.Contains(t, out.Prompt, "**Arcanine** (#59)")
	assert.Contains(t, decodeState(t, out).RejectedNames, "charizard")

	out, err = handler.Execute(context.Background(), &Input{Text: "sí", State: out.State})
	require.NoError(t, err)
	require.True(t, out.IsFinal())
	assert.Contains(t, out.Payload, "Arcanine")
	assert.Contains(t, out.Payload, "**Rol:** Ataque")
}

func TestExecute_UnknownTypeReprompts(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	out, err := handler.Execute(context.Background(), &Input{Text: "plasma"})
	require.NoError(t, err)
	assert.Equal(t, elicit.KindElicit, out.Kind)
	assert.Contains(t, out.Prompt, "No reconozco el tipo 'plasma'")
	assert.Contains(t, out.Prompt, "fire")
	assert.Empty(t, decodeState(t, out).Category)
}

func TestExecute_UnknownRoleReprompts(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	out, err := handler.Execute(context.Background(), &Input{Text: "agua"})
	require.NoError(t, err)

	out, err = handler.Execute(context.Background(), &Input{Text: "tanque", State: out.State})
	require.NoError(t, err)
	assert.Equal(t, elicit.KindElicit, out.Kind)
	assert.Contains(t, out.Prompt, "No reconozco el rol 'tanque'")

	state := decodeState(t, out)
	assert.Equal(t, "water", state.Category)
	assert.Empty(t, state.Role)
}

// Declined names never come back, call after call.
func TestExecute_RejectionIsMonotonic(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	out, err := handler.Execute(context.Background(), &Input{Text: "fuego"})
	require.NoError(t, err)
	out, err = handler.Execute(context.Background(), &Input{Text: "ataque", State: out.State})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for out.Kind == elicit.KindElicit {
		state := decodeState(t, out)
		if state.CurrentSuggestion == nil {
			break
		}
		name := state.CurrentSuggestion.Name
		assert.False(t, seen[name], "candidate %s proposed twice", name)
		seen[name] = true

		out, err = handler.Execute(context.Background(), &Input{Text: "no", State: out.State})
		require.NoError(t, err)
	}
	assert.True(t, seen["charizard"])
	assert.True(t, seen["arcanine"])
}

// Shrink the roster to one candidate; declining it empties the pool.
func TestExecute_EmptyPoolOffersReset(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	provider.SetTypeRoster("fire", []string{"charmander"})
	handler := createTestHandler(t, provider)

	out, err := handler.Execute(context.Background(), &Input{Text: "fuego"})
	require.NoError(t, err)
	out, err = handler.Execute(context.Background(), &Input{Text: "ataque", State: out.State})
	require.NoError(t, err)
	require.Equal(t, elicit.KindElicit, out.Kind)
	assert.Contains(t, out.Prompt, "**Charmander**")

	out, err = handler.Execute(context.Background(), &Input{Text: "no", State: out.State})
	require.NoError(t, err)
	require.Equal(t, elicit.KindElicit, out.Kind)
	assert.Contains(t, out.Prompt, "No encontré más candidatos")
	assert.Contains(t, out.Prompt, "reiniciar")
	assert.Nil(t, decodeState(t, out).CurrentSuggestion)
}

func TestExecute_ResetFromEveryPhase(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	blobs := []string{
		`{}`,
		`{"category":"fire"}`,
		`{"category":"fire","role":"offense","rejected_names":["charizard"]}`,
	}
	for _, blob := range blobs {
		out, err := handler.Execute(context.Background(), &Input{
			Text:  "reiniciar",
			State: json.RawMessage(blob),
		})
		require.NoError(t, err)
		assert.Equal(t, elicit.KindElicit, out.Kind)
		assert.Contains(t, out.Prompt, "¿De qué tipo")
		assert.JSONEq(t, "{}", string(out.State))
	}
}

func TestExecute_UnrecognizedAnswerRepresents(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	out, err := handler.Execute(context.Background(), &Input{Text: "fuego"})
	require.NoError(t, err)
	out, err = handler.Execute(context.Background(), &Input{Text: "ataque", State: out.State})
	require.NoError(t, err)

	out, err = handler.Execute(context.Background(), &Input{Text: "tal vez", State: out.State})
	require.NoError(t, err)
	assert.Equal(t, elicit.KindElicit, out.Kind)
	assert.Contains(t, out.Prompt, "No entendí")
	assert.Contains(t, out.Prompt, "**Charizard** (#6)")
}

func TestExecute_ProviderUnavailable(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	out, err := handler.Execute(context.Background(), &Input{Text: "fuego"})
	require.NoError(t, err)

	provider.FailWith(503)
	out, err = handler.Execute(context.Background(), &Input{Text: "ataque", State: out.State})
	require.NoError(t, err)
	assert.Equal(t, elicit.KindElicit, out.Kind)
	assert.Contains(t, out.Prompt, "intentar de nuevo")
}

func TestExecute_Cancel(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	out, err := handler.Execute(context.Background(), &Input{
		Text:  "cancelar",
		State: json.RawMessage(`{"category":"fire","role":"offense"}`),
	})
	require.NoError(t, err)
	assert.True(t, out.IsFinal())
	assert.Contains(t, out.Payload, "cancelada")
}

func TestExecute_MalformedState(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	tests := []struct {
		name string
		blob string
	}{
		{"lookup shape", `{"value":"pikachu"}`},
		{"wrong rejection type", `{"category":"fire","rejected_names":"charizard"}`},
		{"garbage", `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Execute(context.Background(), &Input{
				Text:  "fuego",
				State: json.RawMessage(tt.blob),
			})
			require.Error(t, err)

			var malformed *elicit.MalformedStateError
			assert.True(t, errors.As(err, &malformed))
		})
	}
}
