package pokeapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://pokeapi.co/api/v2/"

// StatusError is returned for any response other than 200.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pokeapi: %s returned %d", e.URL, e.StatusCode)
}

func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	client  *http.Client
	sugar   *zap.SugaredLogger
}

// NewClient builds a client against baseURL. A zero timeout leaves requests
// unbounded apart from the caller's context.
func NewClient(baseURL string, timeout time.Duration, sugar *zap.SugaredLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		sugar:   sugar,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) getAndDecode(ctx context.Context, target string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, URL: target}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}
	return nil
}

func (c *Client) ListReferences(ctx context.Context, limit int) ([]Reference, error) {
	target := fmt.Sprintf("%spokemon/?limit=%d", c.baseURL, limit)
	c.sugar.Debugf("Fetching Pokemon list %s", target)
	var result ReferenceList
	if err := c.getAndDecode(ctx, target, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (c *Client) GetPokemonByURL(ctx context.Context, target string) (*Pokemon, error) {
	c.sugar.Debugf("Fetching Pokemon %s", target)
	var pokemon Pokemon
	if err := c.getAndDecode(ctx, target, &pokemon); err != nil {
		return nil, err
	}
	return &pokemon, nil
}

func (c *Client) GetPokemon(ctx context.Context, name string) (*Pokemon, error) {
	if name == "" {
		return nil, errors.New("pokeapi: empty pokemon name")
	}
	return c.GetPokemonByURL(ctx, c.baseURL+"pokemon/"+url.PathEscape(name))
}
