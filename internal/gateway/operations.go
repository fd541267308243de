package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Typed operations on a handle call a fixed versioned path instead of blind
// forwarding. They still relay the backend's status and body verbatim.

func (h *Handle) RegisterUser(ctx context.Context, body []byte) (int, []byte, error) {
	return h.do(ctx, http.MethodPost, "/api/v1/registrar", "", body, "")
}

func (h *Handle) Login(ctx context.Context, body []byte) (int, []byte, error) {
	return h.do(ctx, http.MethodPost, "/api/v1/login", "", body, "")
}

func (h *Handle) CreateProduct(ctx context.Context, body []byte, token string) (int, []byte, error) {
	return h.do(ctx, http.MethodPost, "/api/v1/productos", "", body, token)
}

func (h *Handle) ListProducts(ctx context.Context, token string) (int, []byte, error) {
	return h.do(ctx, http.MethodGet, "/api/v1/productos", "", nil, token)
}

// Forward relays an arbitrary request to the backend's versioned API path:
// same method and body, original query string, bearer header injected when
// a token is present.
func (h *Handle) Forward(ctx context.Context, method, path, rawQuery string, body []byte, token string) (int, []byte, error) {
	return h.do(ctx, method, "/api/v1/"+path, rawQuery, body, token)
}

func (h *Handle) do(ctx context.Context, method, path, rawQuery string, body []byte, token string) (int, []byte, error) {
	url := h.BaseURL + path
	if rawQuery != "" {
		url += "?" + rawQuery
	}
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", h.Name, err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", h.Name, err)
	}
	return resp.StatusCode, out, nil
}
