// internal/pokeapi/client.go
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	chttp "github.com/ShimaCoding/mcp-pokemon-server/internal/common/http"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/logger"
	"github.com/ShimaCoding/mcp-pokemon-server/internal/common/metrics"
)

const (
	DefaultBaseURL = "https://pokeapi.co/api/v2"

	// MaxPageLimit is the hard cap for paginated listings.
	MaxPageLimit = 100
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
	ErrNotFound     = errors.New("POKEMON_NOT_FOUND")
	ErrUnavailable  = errors.New("PROVIDER_UNAVAILABLE")
)

// Client fetches entity records from the PokéAPI provider. It surfaces
// failures immediately; retry policy belongs to the provider contract,
// not this layer.
type Client struct {
	baseURL string
	http    *chttp.Client
	logger  logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, userAgent string, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    chttp.NewClient(timeout, userAgent),
		logger:  log.WithFields(map[string]interface{}{"component": "pokeapi"}),
	}
}

// GetPokemon fetches a single Pokémon by name or numeric id.
func (c *Client) GetPokemon(ctx context.Context, token string) (*Pokemon, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return nil, fmt.Errorf("%w: empty pokemon token", ErrInvalidInput)
	}

	var pokemon Pokemon
	if err := c.get(ctx, "/pokemon/"+url.PathEscape(token), "pokemon", &pokemon); err != nil {
		return nil, err
	}

	c.logger.Debug("pokemon fetched", map[string]interface{}{
		"name": pokemon.Name,
		"id":   pokemon.ID,
	})
	return &pokemon, nil
}

// GetTypePokemon returns up to limit Pokémon of the given type, in
// provider order.
func (c *Client) GetTypePokemon(ctx context.Context, typeName string, limit int) ([]NamedRef, error) {
	typeName = strings.ToLower(strings.TrimSpace(typeName))
	if typeName == "" {
		return nil, fmt.Errorf("%w: empty type name", ErrInvalidInput)
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	var info typeInfo
	if err := c.get(ctx, "/type/"+url.PathEscape(typeName), "type", &info); err != nil {
		return nil, err
	}

	refs := make([]NamedRef, 0, limit)
	for _, entry := range info.Pokemon {
		refs = append(refs, entry.Pokemon)
		if len(refs) == limit {
			break
		}
	}
	return refs, nil
}

// ListPokemon fetches one page of the Pokémon listing.
func (c *Client) ListPokemon(ctx context.Context, limit, offset int) (*Page, error) {
	if limit < 1 || limit > MaxPageLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxPageLimit)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}

	var page Page
	path := fmt.Sprintf("/pokemon?limit=%d&offset=%d", limit, offset)
	if err := c.get(ctx, path, "pokemon_list", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) get(ctx context.Context, path, endpoint string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrInvalidInput, err)
	}

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		c.logger.Warn("provider request failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: provider returned status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}
