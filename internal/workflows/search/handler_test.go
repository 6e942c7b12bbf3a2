// internal/workflows/search/handler_test.go
package search

import (
	"context"
	stderrs "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/errors"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/logger"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi/pokeapitest"
)

func createTestHandler(t *testing.T, provider *pokeapitest.Server) *Handler {
	t.Helper()
	client := pokeapi.NewClient(provider.URL, 5*time.Second, "test", logger.NewNoOpLogger())
	return NewHandler(client, logger.NewTestLogger(t))
}

func TestExecute_FirstPage(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	out, err := handler.Execute(context.Background(), &Input{Limit: 3})
	require.NoError(t, err)

	assert.Contains(t, out, "(9 en total)")
	assert.Contains(t, out, "Mostrando 3 desde la posición 0")
	assert.Contains(t, out, "1. Venusaur")
	assert.Contains(t, out, "3. Charizard")
	assert.NotContains(t, out, "Squirtle")
}

func TestExecute_OffsetNumbersAbsolutely(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	out, err := handler.Execute(context.Background(), &Input{Limit: 3, Offset: 3})
	require.NoError(t, err)

	assert.Contains(t, out, "4. Squirtle")
	assert.Contains(t, out, "6. Pikachu")
	assert.NotContains(t, out, "Venusaur")
}

func TestExecute_DefaultLimit(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	out, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Contains(t, out, "Mostrando 9 desde la posición 0")
}

func TestExecute_InvalidBounds(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	tests := []struct {
		name  string
		input Input
	}{
		{"negative limit", Input{Limit: -1}},
		{"limit above cap", Input{Limit: pokeapi.MaxPageLimit + 1}},
		{"negative offset", Input{Limit: 5, Offset: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Execute(context.Background(), &tt.input)
			require.Error(t, err)

			var std *errors.StandardError
			require.True(t, stderrs.As(err, &std))
			assert.Equal(t, errors.ErrCodeInvalidInput, std.Code)
		})
	}
}

func TestExecute_ProviderUnavailable(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	handler := createTestHandler(t, provider)

	provider.FailWith(503)
	_, err := handler.Execute(context.Background(), &Input{Limit: 5})
	require.Error(t, err)

	var std *errors.StandardError
	require.True(t, stderrs.As(err, &std))
	assert.Equal(t, errors.ErrCodeProviderUnavailable, std.Code)
	assert.True(t, std.Retryable)
}
