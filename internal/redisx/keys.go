package redisx

import "time"

const (
	// Cache of a sale's status: venta_estado:{sale_id} -> {"estado": "..."}
	KeySaleStatus = "venta_estado:%s"

	// Dedup for event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
