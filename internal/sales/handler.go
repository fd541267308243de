package sales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/16NatGc/Pos-core-v2/internal/httpx"
	"github.com/16NatGc/Pos-core-v2/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Handler struct {
	Orchestrator *Orchestrator
	Redis        *redis.Client
	Log          zerolog.Logger
}

func (h *Handler) Register(r *chi.Mux) {
	r.Get("/", h.root)
	r.Get("/salud", h.health)
	r.Post("/api/v1/ventas", h.createSale)
	r.Get("/api/v1/ventas", h.listSales)
	r.Get("/api/v1/ventas/{id}/estado", h.getSaleStatus)
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"servicio": "Ventas POS Core",
		"estado":   "Funcionando",
		"version":  "1.0.0",
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"estado":     "Saludable",
		"servicio":   "ventas",
		"base_datos": "PostgreSQL",
	})
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	token := httpx.BearerToken(r)
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "token de autenticación requerido")
		return
	}

	var in SaleCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "cuerpo de petición inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	sale, err := h.Orchestrator.CreateSale(ctx, token, in)
	if err != nil {
		h.writeSaleError(w, err)
		return
	}

	// Best-effort status cache; the database stays the source of truth.
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeySaleStatus, sale.ID)
		_ = h.Redis.Set(ctx, key, fmt.Sprintf(`{"estado":%q}`, sale.Estado), redisx.TTLStatusCache).Err()
	}

	httpx.WriteJSON(w, http.StatusCreated, sale)
}

func (h *Handler) writeSaleError(w http.ResponseWriter, err error) {
	var stockErr *InsufficientStockError
	switch {
	case errors.Is(err, ErrTokenRequired):
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &stockErr):
		httpx.WriteError(w, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, ErrProductNotFound):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnsupportedMethod):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInventoryUnavailable):
		httpx.WriteError(w, http.StatusServiceUnavailable, "servicio de inventario no disponible")
	default:
		h.Log.Error().Err(err).Msg("create sale")
		httpx.WriteError(w, http.StatusInternalServerError, "error al crear venta")
	}
}

// getSaleStatus answers from the status cache when it can; on a miss it
// loads the sale and refills the cache.
func (h *Handler) getSaleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeySaleStatus, id)
	if h.Redis != nil {
		if cached, err := h.Redis.Get(ctx, key).Result(); err == nil {
			httpx.WriteRaw(w, http.StatusOK, []byte(cached))
			return
		}
	}

	sale, err := h.Orchestrator.GetSale(ctx, id)
	if errors.Is(err, ErrSaleNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "venta no encontrada")
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Str("venta_id", id).Msg("get sale status")
		httpx.WriteError(w, http.StatusInternalServerError, "error al obtener venta")
		return
	}

	if h.Redis != nil {
		_ = h.Redis.Set(ctx, key, fmt.Sprintf(`{"estado":%q}`, sale.Estado), redisx.TTLStatusCache).Err()
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]SaleStatus{"estado": sale.Estado})
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ventas, err := h.Orchestrator.ListSales(ctx)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "error al listar ventas")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ventas)
}
