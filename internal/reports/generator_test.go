package reports

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestForType(t *testing.T) {
	for _, tipo := range []string{"ventas", "inventario", "rendimiento"} {
		if _, err := ForType(tipo, nil); err != nil {
			t.Errorf("ForType(%q): %v", tipo, err)
		}
	}
	if _, err := ForType("nomina", nil); !errors.Is(err, ErrUnknownType) {
		t.Errorf("ForType(nomina) = %v, want ErrUnknownType", err)
	}
}

func TestDateRange(t *testing.T) {
	tests := []struct {
		name       string
		params     Params
		wantInicio string
		wantFin    string
		wantErr    bool
	}{
		{
			name:       "open window by default",
			params:     Params{},
			wantInicio: "2000-01-01",
			wantFin:    "2100-01-01",
		},
		{
			name:       "explicit bounds",
			params:     Params{FechaInicio: "2025-01-01", FechaFin: "2025-06-30"},
			wantInicio: "2025-01-01",
			wantFin:    "2025-06-30",
		},
		{
			name:    "fin before inicio",
			params:  Params{FechaInicio: "2025-06-30", FechaFin: "2025-01-01"},
			wantErr: true,
		},
		{
			name:    "unparseable fecha",
			params:  Params{FechaInicio: "hoy"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inicio, fin, err := DateRange(tt.params)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DateRange: %v", err)
			}
			if got := inicio.Format("2006-01-02"); got != tt.wantInicio {
				t.Errorf("inicio = %s, want %s", got, tt.wantInicio)
			}
			if got := fin.Format("2006-01-02"); got != tt.wantFin {
				t.Errorf("fin = %s, want %s", got, tt.wantFin)
			}
		})
	}
}

func TestTopProducts(t *testing.T) {
	got := topProducts(map[string]int{
		"Teclado": 3,
		"Mouse":   7,
		"Monitor": 3,
		"Cable":   1,
	}, 3)

	want := []rankedProduct{
		{Nombre: "Mouse", Cantidad: 7},
		{Nombre: "Monitor", Cantidad: 3},
		{Nombre: "Teclado", Cantidad: 3},
	}
	if len(got) != len(want) {
		t.Fatalf("ranked = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ranked[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

const salesPayload = `[
	{"total": "100.00", "metodo_pago": "tarjeta", "fecha_creacion": "2025-03-10T12:00:00Z",
	 "detalles": [{"nombre_producto": "Teclado", "cantidad": 2}]},
	{"total": "50.00", "metodo_pago": "efectivo", "fecha_creacion": "2025-03-15T09:30:00Z",
	 "detalles": [{"nombre_producto": "Mouse", "cantidad": 5}]},
	{"total": "999.00", "metodo_pago": "tarjeta", "fecha_creacion": "2024-01-01T00:00:00Z",
	 "detalles": [{"nombre_producto": "Monitor", "cantidad": 1}]}
]`

const productsPayload = `[
	{"nombre": "Teclado", "sku": "TEC-01", "precio": "25.50", "stock": 10, "categoria": "electronica", "activo": true},
	{"nombre": "Mouse", "sku": "MOU-01", "precio": "12.00", "stock": 3, "categoria": "electronica", "activo": true},
	{"nombre": "Silla", "sku": "SIL-01", "precio": "80.00", "stock": 0, "categoria": "oficina", "activo": false}
]`

func testBackends(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/ventas":
			w.Write([]byte(salesPayload))
		case "/api/v1/productos":
			w.Write([]byte(productsPayload))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.URL, time.Second)
}

func TestSalesReport(t *testing.T) {
	gen, err := ForType("ventas", testBackends(t))
	if err != nil {
		t.Fatalf("ForType: %v", err)
	}

	out, err := gen.Generate(context.Background(), Params{FechaInicio: "2025-01-01", FechaFin: "2025-12-31"}, "tok")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	datos := out.(map[string]any)

	if got := datos["cantidad_ventas"].(int); got != 2 {
		t.Errorf("cantidad_ventas = %d, want 2 (the 2024 sale is outside the window)", got)
	}
	if got := datos["total_ventas"].(decimal.Decimal); !got.Equal(decimal.NewFromInt(150)) {
		t.Errorf("total_ventas = %s, want 150", got)
	}
	porMetodo := datos["ventas_por_metodo"].(map[string]decimal.Decimal)
	if !porMetodo["tarjeta"].Equal(decimal.NewFromInt(100)) {
		t.Errorf("tarjeta = %s, want 100", porMetodo["tarjeta"])
	}
	top := datos["productos_mas_vendidos"].([]rankedProduct)
	if len(top) != 2 || top[0].Nombre != "Mouse" || top[0].Cantidad != 5 {
		t.Errorf("productos_mas_vendidos = %v", top)
	}
}

func TestInventoryReport(t *testing.T) {
	gen, err := ForType("inventario", testBackends(t))
	if err != nil {
		t.Fatalf("ForType: %v", err)
	}

	out, err := gen.Generate(context.Background(), Params{}, "tok")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	datos := out.(map[string]any)

	if got := datos["total_productos"].(int); got != 3 {
		t.Errorf("total_productos = %d, want 3", got)
	}
	if got := datos["productos_activos"].(int); got != 2 {
		t.Errorf("productos_activos = %d, want 2", got)
	}
	// 25.50*10 + 12.00*3 + 80.00*0 = 291.00
	if got := datos["valor_inventario"].(decimal.Decimal); !got.Equal(decimal.NewFromInt(291)) {
		t.Errorf("valor_inventario = %s, want 291", got)
	}
	stockBajo := datos["stock_bajo"].([]map[string]any)
	if len(stockBajo) != 2 {
		t.Fatalf("stock_bajo = %v, want Mouse and Silla", stockBajo)
	}
}

func TestPerformanceReport(t *testing.T) {
	gen, err := ForType("rendimiento", testBackends(t))
	if err != nil {
		t.Fatalf("ForType: %v", err)
	}

	out, err := gen.Generate(context.Background(), Params{FechaInicio: "2025-01-01", FechaFin: "2025-12-31"}, "tok")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	datos := out.(map[string]any)

	if got := datos["cantidad_ventas"].(int); got != 2 {
		t.Errorf("cantidad_ventas = %d, want 2", got)
	}
	if got := datos["venta_promedio"].(decimal.Decimal); !got.Equal(decimal.NewFromInt(75)) {
		t.Errorf("venta_promedio = %s, want 75", got)
	}
}

func TestGenerateBackendDown(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()
	c := NewClient(dead.URL, dead.URL, time.Second)

	gen, err := ForType("ventas", c)
	if err != nil {
		t.Fatalf("ForType: %v", err)
	}
	if _, err := gen.Generate(context.Background(), Params{}, "tok"); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("error = %v, want ErrBackendUnavailable", err)
	}
}
