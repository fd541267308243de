package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/16NatGc/Pos-core-v2/internal/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Store interface {
	Create(ctx context.Context, in ProductCreate) (Product, error)
	SKUActiveExists(ctx context.Context, sku string) (bool, error)
	ListActive(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	Update(ctx context.Context, id string, in ProductUpdate) (Product, error)
}

type Handler struct {
	Store    Store
	Notifier *Notifier
	Log      zerolog.Logger
}

func (h *Handler) Register(r *chi.Mux) {
	r.Get("/", h.root)
	r.Get("/salud", h.health)
	r.Post("/api/v1/productos", h.createProduct)
	r.Get("/api/v1/productos", h.listProducts)
	r.Get("/api/v1/productos/{id}", h.getProduct)
	r.Put("/api/v1/productos/{id}", h.updateProduct)
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"servicio": "Inventario POS Core",
		"estado":   "Funcionando",
		"version":  "1.0.0",
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"estado":     "Saludable",
		"servicio":   "inventario",
		"base_datos": "PostgreSQL",
	})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in ProductCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "cuerpo de petición inválido")
		return
	}
	if in.Nombre == "" || in.SKU == "" {
		httpx.WriteError(w, http.StatusBadRequest, "nombre y sku son requeridos")
		return
	}
	if !in.Precio.IsPositive() {
		httpx.WriteError(w, http.StatusBadRequest, "el precio debe ser mayor que cero")
		return
	}
	if in.Stock < 0 {
		httpx.WriteError(w, http.StatusBadRequest, "el stock no puede ser negativo")
		return
	}
	if !in.Categoria.Valid() {
		httpx.WriteError(w, http.StatusBadRequest, "categoría inválida")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	exists, err := h.Store.SKUActiveExists(ctx, in.SKU)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "error al crear producto")
		return
	}
	if exists {
		httpx.WriteError(w, http.StatusBadRequest, "el SKU ya está registrado")
		return
	}

	p, err := h.Store.Create(ctx, in)
	if err != nil {
		h.Log.Error().Err(err).Str("sku", in.SKU).Msg("create product")
		httpx.WriteError(w, http.StatusInternalServerError, "error al crear producto")
		return
	}

	h.Notifier.Observe(ctx, p)
	httpx.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ps, err := h.Store.ListActive(ctx)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "error al listar productos")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ps)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Store.GetByID(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, ErrProductNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "producto no encontrado")
		return
	}
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "error al obtener producto")
		return
	}

	h.Notifier.Observe(ctx, p)
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "cuerpo de petición inválido")
		return
	}
	if in.Empty() {
		httpx.WriteError(w, http.StatusBadRequest, "no hay datos para actualizar")
		return
	}
	if in.Precio != nil && !in.Precio.IsPositive() {
		httpx.WriteError(w, http.StatusBadRequest, "el precio debe ser mayor que cero")
		return
	}
	if in.Stock != nil && *in.Stock < 0 {
		httpx.WriteError(w, http.StatusBadRequest, "el stock no puede ser negativo")
		return
	}
	if in.Categoria != nil && !in.Categoria.Valid() {
		httpx.WriteError(w, http.StatusBadRequest, "categoría inválida")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Store.Update(ctx, chi.URLParam(r, "id"), in)
	if errors.Is(err, ErrProductNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "producto no encontrado")
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Str("id", chi.URLParam(r, "id")).Msg("update product")
		httpx.WriteError(w, http.StatusInternalServerError, "error al actualizar producto")
		return
	}

	h.Notifier.Observe(ctx, p)
	httpx.WriteJSON(w, http.StatusOK, p)
}
