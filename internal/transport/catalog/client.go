// Package catalog is the HTTP client for the property catalog
// collaborator. The engine only reads from the catalog.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/harsh17-bit/estate-alerts/internal/domain/property"
)

// Config holds catalog connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Retries int
}

// Client queries the catalog service over HTTP JSON.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// listResponse is the catalog's listing envelope.
type listResponse struct {
	Items []property.Property `json:"items"`
}

// NewClient creates a catalog client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		c.SetAuthToken(cfg.APIKey)
	}
	return &Client{http: c, logger: logger}
}

// Query returns candidate listings, optionally pre-filtered by the
// coarse hints to bound the candidate set.
func (c *Client) Query(ctx context.Context, f property.Filter) ([]property.Property, error) {
	req := c.http.R().SetContext(ctx).SetResult(&listResponse{})
	if f.City != "" {
		req.SetQueryParam("city", f.City)
	}
	if f.ListingType != "" {
		req.SetQueryParam("listingType", f.ListingType)
	}

	resp, err := req.Get("/api/v1/properties")
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("query catalog: status %d", resp.StatusCode())
	}

	result := resp.Result().(*listResponse)
	return result.Items, nil
}

// ByIDs resolves specific listings by id. Ids unknown to the catalog
// (delisted properties) are simply absent from the result.
func (c *Client) ByIDs(ctx context.Context, ids []string) ([]property.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("ids", strings.Join(ids, ",")).
		SetResult(&listResponse{}).
		Get("/api/v1/properties")
	if err != nil {
		return nil, fmt.Errorf("resolve listings: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("resolve listings: status %d", resp.StatusCode())
	}

	result := resp.Result().(*listResponse)
	return result.Items, nil
}

// Ping checks catalog availability.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("ping catalog: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("ping catalog: status %d", resp.StatusCode())
	}
	return nil
}
