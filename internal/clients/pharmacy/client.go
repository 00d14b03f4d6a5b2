package pharmacy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/internal/schema"
	"github.com/samandr77/microservices/portal/pkg/config"
	"github.com/samandr77/microservices/portal/pkg/transport"
)

const defaultRetryWaitMax = time.Second * 2

// Client talks to the pharmacy backend REST API on behalf of a bearer token.
type Client struct {
	client  *http.Client
	writer  *http.Client
	baseURL string
}

func NewClient(cfg config.Pharmacy) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.HTTPClient.Transport = transport.NewRequestIDRoundTripper(retryClient.HTTPClient.Transport)

	retryClient.Logger = nil
	retryClient.CheckRetry = checkRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	// writes are not idempotent, a transport error must not resend them
	writer := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: retryClient.HTTPClient.Transport,
	}

	return &Client{
		client:  retryClient.StandardClient(),
		writer:  writer,
		baseURL: cfg.APIURL,
	}
}

// checkRetry retries transport errors and gateway errors. Only reads go
// through the retrying client.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, nil
	default:
		return false, nil
	}
}

// Me returns the token owner with all pharmacy memberships.
func (c *Client) Me(ctx context.Context, token string) (entity.User, error) {
	body, err := c.do(ctx, token, http.MethodGet, "/api/v1/me", nil)
	if err != nil {
		return entity.User{}, err
	}

	user, err := schema.Decode[entity.User](body).Unpack()
	if err != nil {
		return entity.User{}, fmt.Errorf("decode user: %w", err)
	}

	return user, nil
}

// Membership returns the current role and governance status for one pharmacy.
func (c *Client) Membership(ctx context.Context, token, pharmacyID string) (entity.Membership, error) {
	body, err := c.do(ctx, token, http.MethodGet, "/api/v1/pharmacies/"+url.PathEscape(pharmacyID)+"/membership", nil)
	if err != nil {
		return entity.Membership{}, err
	}

	m, err := schema.Decode[entity.Membership](body).Unpack()
	if err != nil {
		return entity.Membership{}, fmt.Errorf("decode membership: %w", err)
	}

	return m, nil
}

func (c *Client) CreateOrder(ctx context.Context, token, pharmacyID string, order json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, token, http.MethodPost, "/api/v1/pharmacies/"+url.PathEscape(pharmacyID)+"/orders", order)
}

func (c *Client) FinancialSummary(ctx context.Context, token, pharmacyID string) (json.RawMessage, error) {
	return c.do(ctx, token, http.MethodGet, "/api/v1/pharmacies/"+url.PathEscape(pharmacyID)+"/financials/summary", nil)
}

func (c *Client) do(ctx context.Context, token, method, path string, payload []byte) (json.RawMessage, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.client
	if method != http.MethodGet {
		client = c.writer
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, statusErr(resp.StatusCode, body)
	}

	return body, nil
}

func statusErr(code int, body []byte) error {
	switch code {
	case http.StatusUnauthorized:
		return entity.ErrUnauthorized
	case http.StatusForbidden:
		return entity.ErrForbidden
	case http.StatusNotFound:
		return entity.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", entity.ErrInvalidArgument, body)
	default:
		return fmt.Errorf("unexpected status code: %d\nbody: %s", code, body)
	}
}
