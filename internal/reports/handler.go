package reports

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

type Handler struct {
	Client *Client
	Log    zerolog.Logger
}

func (h *Handler) Register(r *chi.Mux) {
	r.Get("/", h.root)
	r.Get("/salud", h.health)
	r.Post("/api/v1/reportes/generar", h.generate)
	r.Get("/api/v1/reportes/tipos", h.listTypes)
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"servicio": "Reportes POS Core",
		"estado":   "Funcionando",
		"version":  "1.0.0",
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"estado":   "Saludable",
		"servicio": "reportes",
	})
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	token := httpx.BearerToken(r)
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "token de autenticación requerido")
		return
	}

	var p Params
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "cuerpo de petición inválido")
		return
	}

	gen, err := ForType(p.TipoReporte, h.Client)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	datos, err := gen.Generate(ctx, p, token)
	switch {
	case errors.Is(err, ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrBackendUnavailable):
		httpx.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		h.Log.Error().Err(err).Str("tipo", p.TipoReporte).Msg("generate report")
		httpx.WriteError(w, http.StatusInternalServerError, "error al generar reporte")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, Response{
		TipoReporte:     p.TipoReporte,
		FechaGeneracion: time.Now().UTC(),
		Params:          p,
		Datos:           datos,
	})
}

func (h *Handler) listTypes(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"tipos_disponibles": []map[string]any{
			{
				"tipo":        "ventas",
				"descripcion": "Reporte de ventas por periodo",
				"parametros":  []string{"fecha_inicio", "fecha_fin"},
			},
			{
				"tipo":        "inventario",
				"descripcion": "Reporte de estado de inventario",
				"parametros":  []string{},
			},
			{
				"tipo":        "rendimiento",
				"descripcion": "Reporte de rendimiento general",
				"parametros":  []string{"fecha_inicio", "fecha_fin"},
			},
		},
	})
}
