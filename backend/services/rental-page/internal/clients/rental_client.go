package clients

import (
	"context"
	"fmt"
	"net/url"

	"energyrental/backend/services/rental-page/internal/models"
)

// RentalClient reads payment and energy status from the rental backend.
type RentalClient struct {
	base *BaseClient
}

// NewRentalClient returns client.
func NewRentalClient(baseURL string, httpClient HTTPDoer) *RentalClient {
	return &RentalClient{base: NewBaseClient(baseURL, httpClient)}
}

// WithBearer attaches an Authorization header to every request.
func (c *RentalClient) WithBearer(token string) *RentalClient {
	if token != "" {
		c.base.SetHeader("Authorization", "Bearer "+token)
	}
	return c
}

// PaymentStatus fetches GET /api/check_payment/{address}.
func (c *RentalClient) PaymentStatus(ctx context.Context, address string) (*models.PaymentStatusResponse, error) {
	var resp models.PaymentStatusResponse
	if _, err := c.base.GetJSON(ctx, "/api/check_payment/"+url.PathEscape(address), &resp); err != nil {
		return nil, fmt.Errorf("check payment %s: %w", address, err)
	}
	return &resp, nil
}

// EnergyStatus fetches GET /api/energy_status/{address}.
func (c *RentalClient) EnergyStatus(ctx context.Context, address string) (*models.EnergyStatusResponse, error) {
	var resp models.EnergyStatusResponse
	if _, err := c.base.GetJSON(ctx, "/api/energy_status/"+url.PathEscape(address), &resp); err != nil {
		return nil, fmt.Errorf("energy status %s: %w", address, err)
	}
	return &resp, nil
}
