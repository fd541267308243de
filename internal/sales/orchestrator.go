package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrTokenRequired = errors.New("token de autenticación requerido")
	ErrValidation    = errors.New("venta inválida")
)

// InventoryAPI is the slice of the inventory client the orchestrator uses.
type InventoryAPI interface {
	GetProduct(ctx context.Context, productID, token string) (InventoryProduct, error)
	DecrementStock(ctx context.Context, productID string, qty int, token string) error
}

// SaleStore persists sales. CreateSale writes the sale and its line items
// together, before any stock mutation.
type SaleStore interface {
	CreateSale(ctx context.Context, s Sale) (Sale, error)
	GetSale(ctx context.Context, id string) (Sale, error)
	ListSales(ctx context.Context) ([]Sale, error)
}

// Orchestrator runs the sale flow: validate every line item against live
// inventory, settle the payment, persist, then decrement stock item by item.
// The steps are strictly ordered and there is no compensating rollback: a
// stock decrement that fails after the sale is persisted leaves the sale in
// place with stock not fully decremented.
type Orchestrator struct {
	Store     SaleStore
	Inventory InventoryAPI
	Log       zerolog.Logger
}

func (o *Orchestrator) CreateSale(ctx context.Context, token string, in SaleCreate) (Sale, error) {
	if token == "" {
		return Sale{}, ErrTokenRequired
	}
	if len(in.Detalles) == 0 {
		return Sale{}, fmt.Errorf("%w: la venta no tiene detalles", ErrValidation)
	}
	for _, d := range in.Detalles {
		if d.Cantidad <= 0 {
			return Sale{}, fmt.Errorf("%w: cantidad inválida para producto %s", ErrValidation, d.ProductoID)
		}
		if !d.PrecioUnitario.IsPositive() {
			return Sale{}, fmt.Errorf("%w: precio inválido para producto %s", ErrValidation, d.ProductoID)
		}
	}

	// Resolve every item against live inventory before committing anything.
	total := decimal.Zero
	items := make([]LineItem, 0, len(in.Detalles))
	for _, d := range in.Detalles {
		p, err := o.Inventory.GetProduct(ctx, d.ProductoID, token)
		if err != nil {
			return Sale{}, err
		}
		if p.Stock < d.Cantidad {
			return Sale{}, &InsufficientStockError{Nombre: p.Nombre, Stock: p.Stock, Solicitado: d.Cantidad}
		}
		subtotal := d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad)))
		total = total.Add(subtotal)
		items = append(items, LineItem{
			ProductoID:     d.ProductoID,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			SKU:            p.SKU,
			Subtotal:       subtotal,
			NombreProducto: p.Nombre,
		})
	}

	strategy, err := ForMethod(in.MetodoPago)
	if err != nil {
		return Sale{}, err
	}
	settlement := strategy(total, in.DatosPago)

	estado := StatusPending
	if settlement.Estado == SettlementApproved {
		estado = StatusCompleted
	}

	sale, err := o.Store.CreateSale(ctx, Sale{
		UsuarioID:     in.UsuarioID,
		Detalles:      items,
		Total:         total,
		MetodoPago:    in.MetodoPago,
		DatosPago:     in.DatosPago,
		Estado:        estado,
		FechaCreacion: time.Now().UTC(),
		ResultadoPago: &settlement,
	})
	if err != nil {
		return Sale{}, fmt.Errorf("error al crear venta: %w", err)
	}

	// Stock decrements happen after the sale is persisted; a failure here
	// surfaces to the caller but the sale stays committed.
	for _, it := range sale.Detalles {
		if err := o.Inventory.DecrementStock(ctx, it.ProductoID, it.Cantidad, token); err != nil {
			o.Log.Error().Err(err).
				Str("venta_id", sale.ID).
				Str("producto_id", it.ProductoID).
				Msg("stock decrement failed after sale persisted")
			return Sale{}, err
		}
	}

	return sale, nil
}

func (o *Orchestrator) GetSale(ctx context.Context, id string) (Sale, error) {
	return o.Store.GetSale(ctx, id)
}

func (o *Orchestrator) ListSales(ctx context.Context) ([]Sale, error) {
	return o.Store.ListSales(ctx)
}
