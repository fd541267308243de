package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCard     PaymentMethod = "tarjeta"
	MethodCash     PaymentMethod = "efectivo"
	MethodTransfer PaymentMethod = "transferencia"
)

type SaleStatus string

const (
	StatusPending   SaleStatus = "pendiente"
	StatusCompleted SaleStatus = "completada"
	StatusCancelled SaleStatus = "cancelada"
)

const (
	SettlementApproved = "aprobado"
	SettlementPending  = "pendiente"
)

// PaymentData is the opaque per-method payload supplied by the caller
// (tendered amount for cash, transfer reference, card fields).
type PaymentData map[string]any

// Settlement is the outcome of a payment attempt, embedded read-only into
// the sale record.
type Settlement struct {
	Estado     string           `json:"estado"`
	Metodo     string           `json:"metodo"`
	Monto      decimal.Decimal  `json:"monto"`
	Referencia string           `json:"referencia,omitempty"`
	Cambio     *decimal.Decimal `json:"cambio,omitempty"`
	Mensaje    string           `json:"mensaje"`
}

type LineItemInput struct {
	ProductoID     string          `json:"producto_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

// LineItem is a resolved line of a sale, immutable once the sale exists.
type LineItem struct {
	ProductoID     string          `json:"producto_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	SKU            string          `json:"sku"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	NombreProducto string          `json:"nombre_producto"`
}

type SaleCreate struct {
	UsuarioID  string          `json:"usuario_id"`
	Detalles   []LineItemInput `json:"detalles"`
	MetodoPago PaymentMethod   `json:"metodo_pago"`
	DatosPago  PaymentData     `json:"datos_pago"`
}

type Sale struct {
	ID            string          `json:"id"`
	UsuarioID     string          `json:"usuario_id"`
	Detalles      []LineItem      `json:"detalles"`
	Total         decimal.Decimal `json:"total"`
	MetodoPago    PaymentMethod   `json:"metodo_pago"`
	DatosPago     PaymentData     `json:"datos_pago"`
	Estado        SaleStatus      `json:"estado"`
	FechaCreacion time.Time       `json:"fecha_creacion"`
	ResultadoPago *Settlement     `json:"resultado_pago,omitempty"`
}

// InventoryProduct is the slice of the inventory service's product the
// orchestrator needs: live price and stock at sale time.
type InventoryProduct struct {
	ID     string          `json:"id"`
	Nombre string          `json:"nombre"`
	Precio decimal.Decimal `json:"precio"`
	Stock  int             `json:"stock"`
	SKU    string          `json:"sku"`
}
