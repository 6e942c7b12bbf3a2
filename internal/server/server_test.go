// internal/server/server_test.go
package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/config"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/logger"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/elicit"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi/pokeapitest"
)

func createTestClient(t *testing.T, provider *pokeapitest.Server) *client.Client {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Name = "pokemon-server-test"
	cfg.App.Version = "0.0.0"
	cfg.PokeAPI.BaseURL = provider.URL
	cfg.PokeAPI.Timeout = 5000
	cfg.PokeAPI.UserAgent = "test"
	cfg.Team.Size = 3
	cfg.Suggest.CandidateLimit = 20
	cfg.Suggest.MinTotalStats = 300

	srv := New(cfg, logger.NewNoOpLogger())

	cli, err := client.NewInProcessClient(srv.MCP())
	require.NoError(t, err)
	t.Cleanup(func() { cli.Close() })

	ctx := context.Background()
	require.NoError(t, cli.Start(ctx))

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{Name: "test-client", Version: "0.0.0"}
	_, err = cli.Initialize(ctx, initRequest)
	require.NoError(t, err)

	return cli
}

func callTool(t *testing.T, cli *client.Client, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	result, err := cli.CallTool(context.Background(), req)
	require.NoError(t, err)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestServer_ExposesAllTools(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	cli := createTestClient(t, provider)

	result, err := cli.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"get_pokemon_info",
		"build_pokemon_team",
		"suggest_pokemon",
		"search_pokemon",
	}, names)
}

func TestServer_ExposesResourcesAndPrompts(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	cli := createTestClient(t, provider)

	res, err := cli.ListResources(context.Background(), mcp.ListResourcesRequest{})
	require.NoError(t, err)
	require.Len(t, res.Resources, 1)
	assert.Equal(t, "pokemon://types", res.Resources[0].URI)

	tmpl, err := cli.ListResourceTemplates(context.Background(), mcp.ListResourceTemplatesRequest{})
	require.NoError(t, err)
	assert.Len(t, tmpl.ResourceTemplates, 2)

	prompts, err := cli.ListPrompts(context.Background(), mcp.ListPromptsRequest{})
	require.NoError(t, err)

	names := make([]string, 0, len(prompts.Prompts))
	for _, p := range prompts.Prompts {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"battle_strategy", "pokemon_analysis"}, names)
}

func TestServer_LookupFinal(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	cli := createTestClient(t, provider)

	result := callTool(t, cli, "get_pokemon_info", map[string]interface{}{"name": "pikachu"})
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Pikachu (#25)")
}

func TestServer_LookupElicitsWithoutName(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	cli := createTestClient(t, provider)

	result := callTool(t, cli, "get_pokemon_info", map[string]interface{}{})
	assert.False(t, result.IsError)

	var envelope elicit.Outcome
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &envelope))
	assert.Equal(t, elicit.KindElicit, envelope.Kind)
	assert.Contains(t, envelope.Prompt, "¿De qué Pokémon")
}

// The state blob round-trips through the transport untouched: three
// calls echoing it back complete a team.
func TestServer_TeamBuilderRoundTrip(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	cli := createTestClient(t, provider)

	state := ""
	for _, name := range []string{"charizard", "blastoise"} {
		result := callTool(t, cli, "build_pokemon_team", map[string]interface{}{
			"name":  name,
			"state": state,
		})
		require.False(t, result.IsError)

		var envelope elicit.Outcome
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &envelope))
		require.Equal(t, elicit.KindElicit, envelope.Kind)
		state = string(envelope.State)
	}

	result := callTool(t, cli, "build_pokemon_team", map[string]interface{}{
		"name":  "venusaur",
		"state": state,
	})
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "¡Equipo Pokémon Completo!")
}

func TestServer_MalformedStateIsToolError(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	cli := createTestClient(t, provider)

	result := callTool(t, cli, "get_pokemon_info", map[string]interface{}{
		"name":  "pikachu",
		"state": `{"slots":[]}`,
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "MALFORMED_STATE")
}

func TestServer_SearchPage(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	cli := createTestClient(t, provider)

	result := callTool(t, cli, "search_pokemon", map[string]interface{}{"limit": 3})
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "1. Venusaur")

	bad := callTool(t, cli, "search_pokemon", map[string]interface{}{"limit": 500})
	assert.True(t, bad.IsError)
	assert.Contains(t, resultText(t, bad), "INVALID_INPUT")
}
