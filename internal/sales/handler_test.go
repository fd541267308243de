package sales

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func newTestHandler(inv *fakeInventory, store *fakeStore) *chi.Mux {
	h := &Handler{
		Orchestrator: newTestOrchestrator(inv, store),
		Log:          zerolog.Nop(),
	}
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func postSale(t *testing.T, r http.Handler, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ventas", strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Detail
}

const saleBody = `{
	"usuario_id": "u1",
	"detalles": [{"producto_id": "p1", "cantidad": 2, "precio_unitario": "25.50"}],
	"metodo_pago": "tarjeta"
}`

func TestCreateSaleEndpoint(t *testing.T) {
	r := newTestHandler(stockedInventory(), &fakeStore{})

	rec := postSale(t, r, "tok", saleBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	var sale Sale
	if err := json.Unmarshal(rec.Body.Bytes(), &sale); err != nil {
		t.Fatalf("decode sale: %v", err)
	}
	if sale.ID == "" {
		t.Error("sale id not set")
	}
	if !sale.Total.Equal(dec("51.00")) {
		t.Errorf("total = %s, want 51.00", sale.Total)
	}
	if sale.Estado != StatusCompleted {
		t.Errorf("estado = %q, want %q", sale.Estado, StatusCompleted)
	}
}

func TestCreateSaleEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		inv        *fakeInventory
		body       string
		wantStatus int
		wantDetail string
	}{
		{
			name:       "no token",
			token:      "",
			inv:        stockedInventory(),
			body:       saleBody,
			wantStatus: http.StatusUnauthorized,
			wantDetail: "token de autenticación requerido",
		},
		{
			name:       "malformed body",
			token:      "tok",
			inv:        stockedInventory(),
			body:       `{"detalles": [`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "cuerpo de petición inválido",
		},
		{
			name:       "insufficient stock",
			token:      "tok",
			inv:        stockedInventory(),
			body:       `{"usuario_id":"u1","detalles":[{"producto_id":"p2","cantidad":99,"precio_unitario":"12.00"}],"metodo_pago":"efectivo"}`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "stock insuficiente para Mouse. Stock: 3, Solicitado: 99",
		},
		{
			name:       "unknown product",
			token:      "tok",
			inv:        stockedInventory(),
			body:       `{"usuario_id":"u1","detalles":[{"producto_id":"ghost","cantidad":1,"precio_unitario":"1"}],"metodo_pago":"efectivo"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unsupported method",
			token:      "tok",
			inv:        stockedInventory(),
			body:       `{"usuario_id":"u1","detalles":[{"producto_id":"p1","cantidad":1,"precio_unitario":"1"}],"metodo_pago":"cheque"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "inventory down",
			token:      "tok",
			inv:        &fakeInventory{unavailable: true},
			body:       saleBody,
			wantStatus: http.StatusServiceUnavailable,
			wantDetail: "servicio de inventario no disponible",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			r := newTestHandler(tt.inv, store)
			rec := postSale(t, r, tt.token, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}
			if tt.wantDetail != "" {
				if got := detailOf(t, rec); got != tt.wantDetail {
					t.Errorf("detail = %q, want %q", got, tt.wantDetail)
				}
			}
			if len(store.sales) != 0 {
				t.Errorf("persisted sales = %d, want 0", len(store.sales))
			}
		})
	}
}

func TestGetSaleStatusEndpoint(t *testing.T) {
	r := newTestHandler(stockedInventory(), &fakeStore{})

	rec := postSale(t, r, "tok", saleBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed sale: status = %d", rec.Code)
	}
	var sale Sale
	if err := json.Unmarshal(rec.Body.Bytes(), &sale); err != nil {
		t.Fatalf("decode sale: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ventas/"+sale.ID+"/estado", nil)
	got := httptest.NewRecorder()
	r.ServeHTTP(got, req)

	if got.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", got.Code, got.Body)
	}
	var body struct {
		Estado SaleStatus `json:"estado"`
	}
	if err := json.Unmarshal(got.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if body.Estado != StatusCompleted {
		t.Errorf("estado = %q, want %q", body.Estado, StatusCompleted)
	}
}

func TestGetSaleStatusNotFound(t *testing.T) {
	r := newTestHandler(stockedInventory(), &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ventas/ghost/estado", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body)
	}
	if got := detailOf(t, rec); got != "venta no encontrada" {
		t.Errorf("detail = %q", got)
	}
}

func TestListSalesEndpoint(t *testing.T) {
	r := newTestHandler(stockedInventory(), &fakeStore{})

	if rec := postSale(t, r, "tok", saleBody); rec.Code != http.StatusCreated {
		t.Fatalf("seed sale: status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ventas", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var ventas []Sale
	if err := json.Unmarshal(rec.Body.Bytes(), &ventas); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(ventas) != 1 {
		t.Fatalf("ventas = %d, want 1", len(ventas))
	}
}
