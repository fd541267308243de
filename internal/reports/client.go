package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrBackendUnavailable = errors.New("servicio de datos no disponible")

// Client fetches the raw data the generators aggregate, relaying the
// caller's bearer token to the sales and inventory services.
type Client struct {
	SalesURL     string
	InventoryURL string
	HTTP         *http.Client
}

func NewClient(salesURL, inventoryURL string, timeout time.Duration) *Client {
	return &Client{
		SalesURL:     salesURL,
		InventoryURL: inventoryURL,
		HTTP:         &http.Client{Timeout: timeout},
	}
}

func (c *Client) fetchSales(ctx context.Context, token string) ([]saleRecord, error) {
	var out []saleRecord
	err := c.getJSON(ctx, c.SalesURL+"/api/v1/ventas", token, &out)
	return out, err
}

func (c *Client) fetchProducts(ctx context.Context, token string) ([]productRecord, error) {
	var out []productRecord
	err := c.getJSON(ctx, c.InventoryURL+"/api/v1/productos", token, &out)
	return out, err
}

func (c *Client) getJSON(ctx context.Context, url, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s devolvió %d", ErrBackendUnavailable, url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
