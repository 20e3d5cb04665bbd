// Package pokeapi fetches species data from the public PokéAPI and caches
// sprite images in memory.
package pokeapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"github.com/typedex/dexgraph/models"
)

// DefaultBaseURL is the public PokéAPI endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// ErrNotFound reports a 404 from the remote API.
var ErrNotFound = errors.New("resource not found")

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Client talks to a PokéAPI-compatible server.
type Client struct {
	BaseURL string
	Client  *http.Client

	sprites *SpriteCache
}

// NewClient builds a client for baseURL. Sprite responses are cached in
// memory for spriteTTL; a non-positive TTL keeps them for an hour.
func NewClient(baseURL string, timeout, spriteTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: timeout,
		},
		sprites: NewSpriteCache(spriteTTL),
	}
}

// pokemonWire mirrors the subset of /pokemon/{id} the app consumes.
type pokemonWire struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Height  int        `json:"height"`
	Weight  int        `json:"weight"`
	Stats   []statWire `json:"stats"`
	Types   []typeWire `json:"types"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
}

type statWire struct {
	BaseStat int `json:"base_stat"`
	Stat     struct {
		Name string `json:"name"`
	} `json:"stat"`
}

type typeWire struct {
	Slot int `json:"slot"`
	Type struct {
		Name string `json:"name"`
	} `json:"type"`
}

// speciesWire mirrors the subset of /pokemon-species/{id} the app consumes.
type speciesWire struct {
	CaptureRate int `json:"capture_rate"`
}

// Fetch retrieves one species, combining the pokemon and species endpoints.
func (c *Client) Fetch(ctx context.Context, id int) (models.Pokemon, error) {
	var wire pokemonWire
	if err := c.get(ctx, fmt.Sprintf("%s/pokemon/%d", c.BaseURL, id), &wire); err != nil {
		return models.Pokemon{}, fmt.Errorf("fetch species %d: %w", id, err)
	}
	var species speciesWire
	if err := c.get(ctx, fmt.Sprintf("%s/pokemon-species/%d", c.BaseURL, id), &species); err != nil {
		return models.Pokemon{}, fmt.Errorf("fetch species data %d: %w", id, err)
	}
	return wire.toModel(species), nil
}

func (w pokemonWire) toModel(species speciesWire) models.Pokemon {
	p := models.Pokemon{
		ID:          w.ID,
		Name:        w.Name,
		Height:      w.Height,
		Weight:      w.Weight,
		CaptureRate: species.CaptureRate,
		SpriteURL:   w.Sprites.FrontDefault,
		FetchedAt:   time.Now().UTC(),
	}

	for _, s := range w.Stats {
		switch s.Stat.Name {
		case "hp":
			p.Stats.HP = s.BaseStat
		case "attack":
			p.Stats.Attack = s.BaseStat
		case "defense":
			p.Stats.Defense = s.BaseStat
		case "special-attack":
			p.Stats.SpAttack = s.BaseStat
		case "special-defense":
			p.Stats.SpDefense = s.BaseStat
		case "speed":
			p.Stats.Speed = s.BaseStat
		}
	}

	types := append([]typeWire(nil), w.Types...)
	sort.Slice(types, func(i, j int) bool { return types[i].Slot < types[j].Slot })
	for _, t := range types {
		p.Types = append(p.Types, t.Type.Name)
	}

	return p
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// fetchBytes downloads a raw payload, used for sprite images.
func (c *Client) fetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}
