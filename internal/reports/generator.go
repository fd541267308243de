package reports

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const lowStockThreshold = 5

var (
	ErrValidation  = errors.New("parámetros de reporte inválidos")
	ErrUnknownType = errors.New("tipo de reporte no soportado")
)

// Generator produces the data section of one report type.
type Generator interface {
	Generate(ctx context.Context, p Params, token string) (any, error)
}

func ForType(tipo string, c *Client) (Generator, error) {
	switch tipo {
	case "ventas":
		return &salesReport{client: c}, nil
	case "inventario":
		return &inventoryReport{client: c}, nil
	case "rendimiento":
		return &performanceReport{client: c}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, tipo)
	}
}

// DateRange parses the report window, applying the open defaults when a
// bound is missing. A window that ends before it starts is a validation
// error, never silently swapped.
func DateRange(p Params) (time.Time, time.Time, error) {
	inicio, err := parseDate(p.FechaInicio, "2000-01-01")
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: fecha_inicio inválida", ErrValidation)
	}
	fin, err := parseDate(p.FechaFin, "2100-01-01")
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: fecha_fin inválida", ErrValidation)
	}
	if fin.Before(inicio) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: la fecha fin no puede ser anterior a la fecha inicio", ErrValidation)
	}
	return inicio, fin, nil
}

func parseDate(s, def string) (time.Time, error) {
	if s == "" {
		s = def
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

type salesReport struct{ client *Client }

func (g *salesReport) Generate(ctx context.Context, p Params, token string) (any, error) {
	inicio, fin, err := DateRange(p)
	if err != nil {
		return nil, err
	}
	ventas, err := g.client.fetchSales(ctx, token)
	if err != nil {
		return nil, err
	}

	filtered := make([]saleRecord, 0, len(ventas))
	for _, v := range ventas {
		if !v.FechaCreacion.Before(inicio) && !v.FechaCreacion.After(fin) {
			filtered = append(filtered, v)
		}
	}

	total := decimal.Zero
	porMetodo := map[string]decimal.Decimal{}
	vendidos := map[string]int{}
	for _, v := range filtered {
		total = total.Add(v.Total)
		porMetodo[v.MetodoPago] = porMetodo[v.MetodoPago].Add(v.Total)
		for _, d := range v.Detalles {
			vendidos[d.NombreProducto] += d.Cantidad
		}
	}

	return map[string]any{
		"total_ventas":           total,
		"cantidad_ventas":        len(filtered),
		"ventas_por_metodo":      porMetodo,
		"productos_mas_vendidos": topProducts(vendidos, 10),
		"ventas":                 filtered,
	}, nil
}

type rankedProduct struct {
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}

func topProducts(counts map[string]int, n int) []rankedProduct {
	ranked := make([]rankedProduct, 0, len(counts))
	for nombre, cantidad := range counts {
		ranked = append(ranked, rankedProduct{Nombre: nombre, Cantidad: cantidad})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Cantidad != ranked[j].Cantidad {
			return ranked[i].Cantidad > ranked[j].Cantidad
		}
		return ranked[i].Nombre < ranked[j].Nombre
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

type inventoryReport struct{ client *Client }

func (g *inventoryReport) Generate(ctx context.Context, p Params, token string) (any, error) {
	productos, err := g.client.fetchProducts(ctx, token)
	if err != nil {
		return nil, err
	}

	activos := 0
	valor := decimal.Zero
	porCategoria := map[string]int{}
	stockBajo := []map[string]any{}
	for _, pr := range productos {
		if pr.Activo {
			activos++
		}
		valor = valor.Add(pr.Precio.Mul(decimal.NewFromInt(int64(pr.Stock))))
		porCategoria[pr.Categoria]++
		if pr.Stock <= lowStockThreshold {
			stockBajo = append(stockBajo, map[string]any{
				"nombre":       pr.Nombre,
				"stock_actual": pr.Stock,
				"sku":          pr.SKU,
			})
		}
	}

	return map[string]any{
		"total_productos":         len(productos),
		"productos_activos":       activos,
		"stock_bajo":              stockBajo,
		"valor_inventario":        valor,
		"productos_por_categoria": porCategoria,
	}, nil
}

type performanceReport struct{ client *Client }

func (g *performanceReport) Generate(ctx context.Context, p Params, token string) (any, error) {
	inicio, fin, err := DateRange(p)
	if err != nil {
		return nil, err
	}
	ventas, err := g.client.fetchSales(ctx, token)
	if err != nil {
		return nil, err
	}
	productos, err := g.client.fetchProducts(ctx, token)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	count := 0
	for _, v := range ventas {
		if !v.FechaCreacion.Before(inicio) && !v.FechaCreacion.After(fin) {
			total = total.Add(v.Total)
			count++
		}
	}
	promedio := decimal.Zero
	if count > 0 {
		promedio = total.Div(decimal.NewFromInt(int64(count))).Round(2)
	}

	return map[string]any{
		"total_ventas":    total,
		"cantidad_ventas": count,
		"venta_promedio":  promedio,
		"total_productos": len(productos),
	}, nil
}
