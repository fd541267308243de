package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

type Params struct {
	TipoReporte string `json:"tipo_reporte"`
	FechaInicio string `json:"fecha_inicio,omitempty"`
	FechaFin    string `json:"fecha_fin,omitempty"`
}

type Response struct {
	TipoReporte     string    `json:"tipo_reporte"`
	FechaGeneracion time.Time `json:"fecha_generacion"`
	Params          Params    `json:"parametros"`
	Datos           any       `json:"datos"`
}

// saleRecord and productRecord mirror the slices of the sales and inventory
// payloads the generators aggregate over; unknown fields are ignored.
type saleRecord struct {
	Total         decimal.Decimal `json:"total"`
	MetodoPago    string          `json:"metodo_pago"`
	FechaCreacion time.Time       `json:"fecha_creacion"`
	Detalles      []saleDetail    `json:"detalles"`
}

type saleDetail struct {
	NombreProducto string `json:"nombre_producto"`
	Cantidad       int    `json:"cantidad"`
}

type productRecord struct {
	Nombre    string          `json:"nombre"`
	SKU       string          `json:"sku"`
	Precio    decimal.Decimal `json:"precio"`
	Stock     int             `json:"stock"`
	Categoria string          `json:"categoria"`
	Activo    bool            `json:"activo"`
}
