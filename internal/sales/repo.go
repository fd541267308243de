package sales

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSaleNotFound = errors.New("venta no encontrada")

const salesSchema = `
CREATE TABLE IF NOT EXISTS sales (
	id UUID PRIMARY KEY,
	usuario_id TEXT NOT NULL,
	total NUMERIC(12,2) NOT NULL,
	metodo_pago TEXT NOT NULL,
	datos_pago JSONB NOT NULL DEFAULT '{}',
	estado TEXT NOT NULL,
	resultado_pago JSONB,
	fecha_creacion TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS sale_items (
	id UUID PRIMARY KEY,
	venta_id UUID NOT NULL REFERENCES sales(id),
	producto_id TEXT NOT NULL,
	cantidad INT NOT NULL,
	precio_unitario NUMERIC(12,2) NOT NULL,
	sku TEXT NOT NULL,
	subtotal NUMERIC(12,2) NOT NULL,
	nombre_producto TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sale_items_venta ON sale_items (venta_id);`

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, salesSchema)
	return err
}

// CreateSale persists the sale and its line items in one transaction and
// returns the sale with its generated id.
func (r *Repo) CreateSale(ctx context.Context, s Sale) (Sale, error) {
	datosPago, err := json.Marshal(s.DatosPago)
	if err != nil {
		return Sale{}, err
	}
	resultadoPago, err := json.Marshal(s.ResultadoPago)
	if err != nil {
		return Sale{}, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Sale{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	s.ID = uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO sales(id, usuario_id, total, metodo_pago, datos_pago, estado, resultado_pago, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.UsuarioID, s.Total, s.MetodoPago, datosPago, s.Estado, resultadoPago, s.FechaCreacion,
	)
	if err != nil {
		return Sale{}, err
	}

	for _, it := range s.Detalles {
		_, err = tx.Exec(ctx, `
			INSERT INTO sale_items(id, venta_id, producto_id, cantidad, precio_unitario, sku, subtotal, nombre_producto)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.NewString(), s.ID, it.ProductoID, it.Cantidad, it.PrecioUnitario, it.SKU, it.Subtotal, it.NombreProducto,
		)
		if err != nil {
			return Sale{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Sale{}, err
	}
	return s, nil
}

func (r *Repo) GetSale(ctx context.Context, id string) (Sale, error) {
	var s Sale
	var datosPago, resultadoPago []byte
	err := r.DB.QueryRow(ctx, `
		SELECT id, usuario_id, total, metodo_pago, datos_pago, estado, resultado_pago, fecha_creacion
		FROM sales WHERE id=$1`, id,
	).Scan(&s.ID, &s.UsuarioID, &s.Total, &s.MetodoPago,
		&datosPago, &s.Estado, &resultadoPago, &s.FechaCreacion)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, ErrSaleNotFound
	}
	if err != nil {
		return Sale{}, err
	}
	if len(datosPago) > 0 {
		if err := json.Unmarshal(datosPago, &s.DatosPago); err != nil {
			return Sale{}, err
		}
	}
	if len(resultadoPago) > 0 && string(resultadoPago) != "null" {
		s.ResultadoPago = &Settlement{}
		if err := json.Unmarshal(resultadoPago, s.ResultadoPago); err != nil {
			return Sale{}, err
		}
	}

	rows, err := r.DB.Query(ctx, `
		SELECT producto_id, cantidad, precio_unitario, sku, subtotal, nombre_producto
		FROM sale_items WHERE venta_id=$1`, id)
	if err != nil {
		return Sale{}, err
	}
	defer rows.Close()

	s.Detalles = []LineItem{}
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ProductoID, &it.Cantidad, &it.PrecioUnitario,
			&it.SKU, &it.Subtotal, &it.NombreProducto); err != nil {
			return Sale{}, err
		}
		s.Detalles = append(s.Detalles, it)
	}
	return s, rows.Err()
}

// ListSales joins each sale with its items by sale id at read time.
func (r *Repo) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, usuario_id, total, metodo_pago, datos_pago, estado, resultado_pago, fecha_creacion
		FROM sales ORDER BY fecha_creacion`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Sale{}
	for rows.Next() {
		var s Sale
		var datosPago, resultadoPago []byte
		if err := rows.Scan(&s.ID, &s.UsuarioID, &s.Total, &s.MetodoPago,
			&datosPago, &s.Estado, &resultadoPago, &s.FechaCreacion); err != nil {
			return nil, err
		}
		if len(datosPago) > 0 {
			if err := json.Unmarshal(datosPago, &s.DatosPago); err != nil {
				return nil, err
			}
		}
		if len(resultadoPago) > 0 && string(resultadoPago) != "null" {
			s.ResultadoPago = &Settlement{}
			if err := json.Unmarshal(resultadoPago, s.ResultadoPago); err != nil {
				return nil, err
			}
		}
		s.Detalles = []LineItem{}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := r.DB.Query(ctx, `
		SELECT venta_id, producto_id, cantidad, precio_unitario, sku, subtotal, nombre_producto
		FROM sale_items`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	bySale := map[string][]LineItem{}
	for itemRows.Next() {
		var ventaID string
		var it LineItem
		if err := itemRows.Scan(&ventaID, &it.ProductoID, &it.Cantidad,
			&it.PrecioUnitario, &it.SKU, &it.Subtotal, &it.NombreProducto); err != nil {
			return nil, err
		}
		bySale[ventaID] = append(bySale[ventaID], it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if items, ok := bySale[out[i].ID]; ok {
			out[i].Detalles = items
		}
	}
	return out, nil
}
