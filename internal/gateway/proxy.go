package gateway

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/16NatGc/Pos-core-v2/internal/auth"
	"github.com/16NatGc/Pos-core-v2/internal/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Proxy routes inbound requests to the downstream services. Requests under
// the auth prefix pass through unauthenticated (registration and login must
// work without a prior token); every other service-prefixed path requires a
// verified bearer token before forwarding.
type Proxy struct {
	Registry *Registry
	Verifier *auth.Verifier
	Metrics  *Metrics
	Log      zerolog.Logger
}

func (p *Proxy) Register(r *chi.Mux) {
	if p.Metrics != nil {
		r.Use(p.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", p.Metrics.ExpositionHandler())
	}
	r.Get("/", p.root)
	r.Get("/health", p.health)
	r.HandleFunc("/api/auth/*", p.handleAuth)
	r.HandleFunc("/api/{servicio}/*", p.handleProtected)
}

func (p *Proxy) root(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"mensaje": "POS Core API Gateway",
		"estado":  "activo",
		"version": "2.0.0",
	})
}

func (p *Proxy) health(w http.ResponseWriter, r *http.Request) {
	servicios := map[string]HealthStatus{}
	for _, name := range p.Registry.Names() {
		h, _ := p.Registry.Resolve(name)
		servicios[name] = h.HealthCheck(r.Context())
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"gateway":   "activo",
		"servicios": servicios,
	})
}

func (p *Proxy) handleAuth(w http.ResponseWriter, r *http.Request) {
	handle, ok := p.Registry.Resolve("autenticacion")
	if !ok {
		httpx.WriteError(w, http.StatusServiceUnavailable, "servicio de autenticación no disponible")
		return
	}
	path := chi.URLParam(r, "*")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "cuerpo de petición inválido")
		return
	}

	var code int
	var out []byte
	if r.Method == http.MethodPost && path == "registrar" {
		code, out, err = handle.RegisterUser(r.Context(), body)
	} else if r.Method == http.MethodPost && path == "login" {
		code, out, err = handle.Login(r.Context(), body)
	} else {
		code, out, err = handle.Forward(r.Context(), r.Method, path, r.URL.RawQuery, body, "")
	}
	p.relay(w, handle, code, out, err)
}

func (p *Proxy) handleProtected(w http.ResponseWriter, r *http.Request) {
	token := httpx.BearerToken(r)
	claims, err := p.Verifier.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			httpx.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		httpx.WriteError(w, http.StatusUnauthorized, "token inválido")
		return
	}

	servicio := chi.URLParam(r, "servicio")
	handle, ok := p.Registry.Resolve(servicio)
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, fmt.Sprintf("servicio '%s' no encontrado", servicio))
		return
	}
	path := chi.URLParam(r, "*")

	p.Log.Debug().
		Str("sub", claims.Subject).
		Str("servicio", servicio).
		Str("path", path).
		Msg("proxy protected request")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "cuerpo de petición inválido")
		return
	}

	var code int
	var out []byte
	switch {
	case servicio == "inventario" && path == "productos" && r.Method == http.MethodPost:
		code, out, err = handle.CreateProduct(r.Context(), body, token)
	case servicio == "inventario" && path == "productos" && r.Method == http.MethodGet:
		code, out, err = handle.ListProducts(r.Context(), token)
	default:
		code, out, err = handle.Forward(r.Context(), r.Method, path, r.URL.RawQuery, body, token)
	}
	p.relay(w, handle, code, out, err)
}

// relay passes the backend's status code and body through verbatim; the
// gateway never reinterprets backend error codes. A transport failure on a
// resolved handle is the one case the gateway answers for itself.
func (p *Proxy) relay(w http.ResponseWriter, handle *Handle, code int, body []byte, err error) {
	if err != nil {
		p.Log.Error().Err(err).Str("servicio", handle.Name).Msg("backend unreachable")
		httpx.WriteError(w, http.StatusServiceUnavailable,
			fmt.Sprintf("%s no disponible", handle.DisplayName))
		return
	}
	httpx.WriteRaw(w, code, body)
}
