package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient implements Client against the provider's REST API.
type HTTPClient struct {
	rest *resty.Client
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Authorization", "Bearer "+apiKey)
	return &HTTPClient{rest: rest}
}

func (c *HTTPClient) PushOrder(ctx context.Context, req PushRequest) (*PushResponse, error) {
	var out PushResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/api/v1/orders")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("provider push status: %d", resp.StatusCode())
	}
	return &out, nil
}

func (c *HTTPClient) OrderStatus(ctx context.Context, orderCode string) (*StatusResponse, error) {
	var out StatusResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/v1/orders/" + orderCode)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("provider status request: %d", resp.StatusCode())
	}
	return &out, nil
}
