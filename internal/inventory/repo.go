package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProductNotFound = errors.New("producto no encontrado")

const productsSchema = `
CREATE TABLE IF NOT EXISTS products (
	id UUID PRIMARY KEY,
	nombre TEXT NOT NULL,
	descripcion TEXT,
	precio NUMERIC(12,2) NOT NULL CHECK (precio > 0),
	stock INT NOT NULL CHECK (stock >= 0),
	categoria TEXT NOT NULL,
	sku TEXT NOT NULL,
	activo BOOLEAN NOT NULL DEFAULT TRUE,
	fecha_creacion TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_products_sku ON products (sku) WHERE activo;`

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, productsSchema)
	return err
}

const productCols = `id, nombre, COALESCE(descripcion, ''), precio, stock, categoria, sku, activo, fecha_creacion`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Nombre, &p.Descripcion, &p.Precio, &p.Stock,
		&p.Categoria, &p.SKU, &p.Activo, &p.FechaCreacion)
	return p, err
}

func (r *Repo) Create(ctx context.Context, in ProductCreate) (Product, error) {
	id := uuid.NewString()
	row := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, nombre, descripcion, precio, stock, categoria, sku)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
		RETURNING `+productCols,
		id, in.Nombre, in.Descripcion, in.Precio, in.Stock, in.Categoria, in.SKU,
	)
	return scanProduct(row)
}

// SKUActiveExists reports whether an active product already carries the SKU.
func (r *Repo) SKUActiveExists(ctx context.Context, sku string) (bool, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE sku=$1 AND activo`, sku).Scan(&n)
	return n > 0, err
}

func (r *Repo) ListActive(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products WHERE activo ORDER BY sku`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id string) (Product, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1 AND activo`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

// Update applies the non-nil fields and returns the updated product.
func (r *Repo) Update(ctx context.Context, id string, in ProductUpdate) (Product, error) {
	set := ""
	args := []any{id}
	add := func(col string, v any) {
		if set != "" {
			set += ", "
		}
		args = append(args, v)
		set += fmt.Sprintf("%s=$%d", col, len(args))
	}
	if in.Nombre != nil {
		add("nombre", *in.Nombre)
	}
	if in.Descripcion != nil {
		add("descripcion", *in.Descripcion)
	}
	if in.Precio != nil {
		add("precio", *in.Precio)
	}
	if in.Stock != nil {
		add("stock", *in.Stock)
	}
	if in.Categoria != nil {
		add("categoria", *in.Categoria)
	}

	row := r.DB.QueryRow(ctx, `
		UPDATE products SET `+set+` WHERE id=$1 AND activo
		RETURNING `+productCols, args...)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}
