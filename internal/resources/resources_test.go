// internal/resources/resources_test.go
package resources

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/logger"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/pokeapi/pokeapitest"
)

func createTestClient(t *testing.T, provider *pokeapitest.Server) *client.Client {
	t.Helper()

	entityClient := pokeapi.NewClient(provider.URL, 5*time.Second, "test", logger.NewNoOpLogger())
	s := server.NewMCPServer("resources-test", "0.0.0",
		server.WithResourceCapabilities(false, true),
	)
	NewHandler(entityClient, 100, logger.NewTestLogger(t)).Register(s)

	cli, err := client.NewInProcessClient(s)
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

func readJSON(t *testing.T, cli *client.Client, uri string) map[string]interface{} {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri

	result, err := cli.ReadResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)

	text, ok := result.Contents[0].(mcp.TextResourceContents)
	require.True(t, ok, "expected text contents")
	assert.Equal(t, uri, text.URI)
	assert.Equal(t, "application/json", text.MIMEType)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func TestReadTypes(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	cli := createTestClient(t, provider)

	payload := readJSON(t, cli, "pokemon://types")
	assert.EqualValues(t, 18, payload["count"])
	assert.Contains(t, payload["types"], "fire")
	assert.Contains(t, payload["types"], "fairy")
}

func TestReadTypeRoster(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	cli := createTestClient(t, provider)

	payload := readJSON(t, cli, "pokemon://type/fuego")
	assert.Equal(t, "fire", payload["type"])
	assert.EqualValues(t, 4, payload["count"])
	assert.Contains(t, payload["pokemon"], "charizard")
}

func TestReadTypeRoster_UnknownType(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	cli := createTestClient(t, provider)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "pokemon://type/plasma"
	_, err := cli.ReadResource(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNKNOWN_TYPE")
}

func TestReadPokemon(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	cli := createTestClient(t, provider)

	payload := readJSON(t, cli, "pokemon://pikachu")
	assert.EqualValues(t, 25, payload["id"])
	assert.Equal(t, "pikachu", payload["name"])
	assert.InDelta(t, 0.4, payload["height_m"], 0.001)
	assert.EqualValues(t, 320, payload["total_stats"])
	assert.Contains(t, payload["types"], "electric")
}

func TestReadPokemon_NotFound(t *testing.T) {
	provider := pokeapitest.New()
	defer provider.Close()
	cli := createTestClient(t, provider)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "pokemon://missingno"
	_, err := cli.ReadResource(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POKEMON_NOT_FOUND")
}
