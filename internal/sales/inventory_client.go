package sales

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrInventoryUnavailable = errors.New("servicio de inventario no disponible")
	ErrProductNotFound      = errors.New("producto no encontrado en inventario")
)

// InsufficientStockError names the offending product so the caller's detail
// message can say which line item failed.
type InsufficientStockError struct {
	Nombre     string
	Stock      int
	Solicitado int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s. Stock: %d, Solicitado: %d",
		e.Nombre, e.Stock, e.Solicitado)
}

// Client talks to the inventory service over its versioned HTTP API,
// relaying the caller's bearer token. One long-lived client per process.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetProduct(ctx context.Context, productID, token string) (InventoryProduct, error) {
	url := fmt.Sprintf("%s/api/v1/productos/%s", c.BaseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return InventoryProduct{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return InventoryProduct{}, fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return InventoryProduct{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	var p InventoryProduct
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return InventoryProduct{}, fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	return p, nil
}

// DecrementStock re-fetches the product, re-checks sufficiency and writes
// stock - qty back. The check and the write are two separate calls with no
// lock in between: concurrent sales of the same product can interleave
// here, which is the documented consistency gap of the sale flow.
func (c *Client) DecrementStock(ctx context.Context, productID string, qty int, token string) error {
	p, err := c.GetProduct(ctx, productID, token)
	if err != nil {
		return err
	}
	if p.Stock < qty {
		return &InsufficientStockError{Nombre: p.Nombre, Stock: p.Stock, Solicitado: qty}
	}

	body, _ := json.Marshal(map[string]int{"stock": p.Stock - qty})
	url := fmt.Sprintf("%s/api/v1/productos/%s", c.BaseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error al actualizar stock: estado %d", resp.StatusCode)
	}
	return nil
}
