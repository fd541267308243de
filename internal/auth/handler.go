package auth

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

// Store is what the handler needs from the user repository.
type Store interface {
	Create(ctx context.Context, in UserCreate, passwordHash string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, string, error)
	GetByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
}

type Handler struct {
	Store  Store
	Issuer *Issuer
	Log    zerolog.Logger
}

func (h *Handler) Register(r *chi.Mux) {
	r.Get("/", h.root)
	r.Get("/salud", h.health)
	r.Post("/api/v1/registrar", h.registerUser)
	r.Post("/api/v1/login", h.login)
	r.Get("/api/v1/usuarios", h.listUsers)
	r.Get("/api/v1/usuarios/{id}", h.getUser)
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"servicio": "Autenticación POS Core",
		"estado":   "Funcionando",
		"version":  "1.0.0",
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"estado":     "Saludable",
		"servicio":   "autenticacion",
		"base_datos": "PostgreSQL",
	})
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var in UserCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "cuerpo de petición inválido")
		return
	}
	if in.Usuario == "" || in.Contrasena == "" || in.Nombre == "" {
		httpx.WriteError(w, http.StatusBadRequest, "usuario, nombre y contraseña son requeridos")
		return
	}
	if in.Rol != RoleAdmin && in.Rol != RoleCashier {
		httpx.WriteError(w, http.StatusBadRequest, "rol inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, _, err := h.Store.GetByUsername(ctx, in.Usuario); err == nil {
		httpx.WriteError(w, http.StatusBadRequest, "el nombre de usuario ya está registrado")
		return
	} else if !errors.Is(err, ErrUserNotFound) {
		httpx.WriteError(w, http.StatusInternalServerError, "error al registrar usuario")
		return
	}

	hash, err := HashPassword(in.Contrasena)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "error al registrar usuario")
		return
	}
	u, err := h.Store.Create(ctx, in, hash)
	if err != nil {
		h.Log.Error().Err(err).Str("usuario", in.Usuario).Msg("create user")
		httpx.WriteError(w, http.StatusInternalServerError, "error al registrar usuario")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in UserLogin
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "cuerpo de petición inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, hash, err := h.Store.GetByUsername(ctx, in.Usuario)
	if err != nil || !CheckPassword(in.Contrasena, hash) {
		httpx.WriteError(w, http.StatusUnauthorized, "credenciales incorrectas")
		return
	}

	token, err := h.Issuer.Issue(u.Usuario, u.Rol, time.Now().UTC())
	if err != nil {
		h.Log.Error().Err(err).Msg("sign token")
		httpx.WriteError(w, http.StatusInternalServerError, "error en login")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Usuario:     u,
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	users, err := h.Store.List(ctx)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "error al listar usuarios")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Store.GetByID(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, ErrUserNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "usuario no encontrado")
		return
	}
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "error al obtener usuario")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}
