package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/pkg/config"
	"github.com/samandr77/microservices/portal/pkg/transport"
)

type Suggestion struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

type Place struct {
	PlaceID string  `json:"place_id"`
	Name    string  `json:"name"`
	Address string  `json:"formatted_address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Client proxies the geocoding provider. The API key never leaves the server.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewClient(cfg config.Places) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = time.Second
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.HTTPClient.Transport = transport.NewRequestIDRoundTripper(retryClient.HTTPClient.Transport)
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		client:  retryClient.StandardClient(),
		baseURL: cfg.APIURL,
		apiKey:  cfg.APIKey,
	}
}

type autocompleteResponse struct {
	Predictions []Suggestion `json:"predictions"`
}

func (c *Client) Autocomplete(ctx context.Context, input string) ([]Suggestion, error) {
	if input == "" {
		return nil, fmt.Errorf("%w: empty input", entity.ErrInvalidArgument)
	}

	var data autocompleteResponse

	err := c.get(ctx, "/autocomplete?input="+url.QueryEscape(input), &data)
	if err != nil {
		return nil, err
	}

	if data.Predictions == nil {
		data.Predictions = []Suggestion{}
	}

	return data.Predictions, nil
}

type placeResponse struct {
	Result struct {
		PlaceID  string `json:"place_id"`
		Name     string `json:"name"`
		Address  string `json:"formatted_address"`
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"result"`
}

func (c *Client) Place(ctx context.Context, placeID string) (Place, error) {
	var data placeResponse

	err := c.get(ctx, "/places/"+url.PathEscape(placeID), &data)
	if err != nil {
		return Place{}, err
	}

	return Place{
		PlaceID: data.Result.PlaceID,
		Name:    data.Result.Name,
		Address: data.Result.Address,
		Lat:     data.Result.Location.Lat,
		Lng:     data.Result.Location.Lng,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return entity.ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d\nbody: %s", resp.StatusCode, body)
	}

	err = json.NewDecoder(resp.Body).Decode(dst)
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
