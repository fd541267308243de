package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/16NatGc/Pos-core-v2/internal/config"
)

// Descriptor identifies one downstream service: logical name, base URL,
// request timeout and a human-readable display name. Immutable after boot.
type Descriptor struct {
	Name        string
	BaseURL     string
	DisplayName string
	Timeout     time.Duration
}

func DefaultDescriptors(cfg config.Config) []Descriptor {
	return []Descriptor{
		{Name: "autenticacion", BaseURL: cfg.AuthURL, DisplayName: "Servicio de Autenticación", Timeout: cfg.ClientTimeout},
		{Name: "inventario", BaseURL: cfg.InventoryURL, DisplayName: "Servicio de Inventario", Timeout: cfg.ClientTimeout},
		{Name: "ventas", BaseURL: cfg.SalesURL, DisplayName: "Servicio de Ventas", Timeout: cfg.ClientTimeout},
		{Name: "reportes", BaseURL: cfg.ReportsURL, DisplayName: "Servicio de Reportes", Timeout: cfg.ClientTimeout},
	}
}

// Handle is the long-lived client for one downstream service. One instance
// per service, created at startup and shared by reference.
type Handle struct {
	Descriptor
	client *http.Client
}

func newHandle(d Descriptor) *Handle {
	return &Handle{
		Descriptor: d,
		client:     &http.Client{Timeout: d.Timeout},
	}
}

// Registry is the static service directory: built once at startup, map
// reads only thereafter, never re-validated against liveness.
type Registry struct {
	handles map[string]*Handle
}

func NewRegistry(descs []Descriptor) *Registry {
	handles := make(map[string]*Handle, len(descs))
	for _, d := range descs {
		handles[d.Name] = newHandle(d)
	}
	return &Registry{handles: handles}
}

func (r *Registry) Resolve(name string) (*Handle, bool) {
	h, ok := r.handles[name]
	return h, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handles))
	for n := range r.handles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// HealthStatus is one backend's entry in the gateway health aggregate.
type HealthStatus struct {
	Estado  string `json:"estado"`
	Detalle string `json:"detalle,omitempty"`
}

// HealthCheck probes the backend's liveness endpoint. Failures degrade to a
// status entry instead of an error so one down backend never blocks the
// aggregate report.
func (h *Handle) HealthCheck(ctx context.Context) HealthStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+"/salud", nil)
	if err != nil {
		return HealthStatus{Estado: "error", Detalle: err.Error()}
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return HealthStatus{Estado: "error", Detalle: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return HealthStatus{Estado: "degradado", Detalle: fmt.Sprintf("estado %d", resp.StatusCode)}
	}
	return HealthStatus{Estado: "activo"}
}
