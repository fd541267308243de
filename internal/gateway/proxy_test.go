package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/16NatGc/Pos-core-v2/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const testSecret = "secreto-de-prueba"

func issueToken(t *testing.T) string {
	t.Helper()
	return mustSign(t, testSecret)
}

func newTestProxy(reg *Registry) *chi.Mux {
	p := &Proxy{
		Registry: reg,
		Verifier: auth.NewVerifier(testSecret),
		Log:      zerolog.Nop(),
	}
	r := chi.NewRouter()
	p.Register(r)
	return r
}

func send(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestProtectedRequiresToken(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend reached without a valid token")
	}))
	defer backend.Close()

	r := newTestProxy(testRegistry("http://unused", backend.URL))

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "no-es-un-jwt"},
		{"wrong secret", mustSign(t, "otro-secreto")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(r, http.MethodGet, "/api/inventario/productos", tt.token, "")
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401: %s", rec.Code, rec.Body)
			}
		})
	}
}

func mustSign(t *testing.T, secret string) string {
	t.Helper()
	tok, err := auth.NewIssuer(secret, time.Hour).Issue("u1", auth.RoleCashier, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func TestProtectedUnknownService(t *testing.T) {
	r := newTestProxy(testRegistry("http://unused", "http://unused"))

	rec := send(r, http.MethodGet, "/api/facturacion/algo", issueToken(t), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "servicio 'facturacion' no encontrado") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestProtectedRelaysVerbatim(t *testing.T) {
	const backendBody = `{"detail":"producto no encontrado"}`
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/productos/p9" {
			t.Errorf("backend path = %q, want /api/v1/productos/p9", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); !strings.HasPrefix(got, "Bearer ") {
			t.Errorf("authorization header not forwarded: %q", got)
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(backendBody))
	}))
	defer backend.Close()

	r := newTestProxy(testRegistry("http://unused", backend.URL))

	rec := send(r, http.MethodGet, "/api/inventario/productos/p9", issueToken(t), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want backend 404 relayed", rec.Code)
	}
	if rec.Body.String() != backendBody {
		t.Errorf("body = %s, want backend body relayed verbatim", rec.Body)
	}
}

func TestProtectedBackendDown(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	r := newTestProxy(testRegistry("http://unused", dead.URL))

	rec := send(r, http.MethodGet, "/api/inventario/productos", issueToken(t), "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "Servicio de Inventario no disponible") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestAuthPassthrough(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/login" {
			t.Errorf("backend path = %q, want /api/v1/login", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("auth routes must not carry a bearer header, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
	}))
	defer backend.Close()

	r := newTestProxy(testRegistry(backend.URL, "http://unused"))

	rec := send(r, http.MethodPost, "/api/auth/login", "", `{"username":"ana","password":"x"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "access_token") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestInventoryTypedRoutes(t *testing.T) {
	var gotMethod, gotPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[]`))
	}))
	defer backend.Close()

	r := newTestProxy(testRegistry("http://unused", backend.URL))
	token := issueToken(t)

	rec := send(r, http.MethodGet, "/api/inventario/productos", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	if gotMethod != http.MethodGet || gotPath != "/api/v1/productos" {
		t.Errorf("list hit %s %s, want GET /api/v1/productos", gotMethod, gotPath)
	}

	rec = send(r, http.MethodPost, "/api/inventario/productos", token, `{"nombre":"Teclado"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: status = %d", rec.Code)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/v1/productos" {
		t.Errorf("create hit %s %s, want POST /api/v1/productos", gotMethod, gotPath)
	}
}

func TestHealthAggregate(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	r := newTestProxy(testRegistry(healthy.URL, dead.URL))

	rec := send(r, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even with a backend down", rec.Code)
	}

	var body struct {
		Gateway   string                  `json:"gateway"`
		Servicios map[string]HealthStatus `json:"servicios"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if body.Gateway != "activo" {
		t.Errorf("gateway = %q, want activo", body.Gateway)
	}
	if body.Servicios["autenticacion"].Estado != "activo" {
		t.Errorf("autenticacion = %+v, want activo", body.Servicios["autenticacion"])
	}
	if body.Servicios["inventario"].Estado != "error" {
		t.Errorf("inventario = %+v, want error", body.Servicios["inventario"])
	}
}
