package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("usuario no encontrado")

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	nombre TEXT NOT NULL,
	usuario TEXT UNIQUE NOT NULL,
	correo TEXT,
	rol TEXT NOT NULL,
	contrasena TEXT NOT NULL,
	activo BOOLEAN NOT NULL DEFAULT TRUE,
	fecha_creacion TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, usersSchema)
	return err
}

func (r *Repo) Create(ctx context.Context, in UserCreate, passwordHash string) (User, error) {
	u := User{
		ID:      uuid.NewString(),
		Nombre:  in.Nombre,
		Usuario: in.Usuario,
		Correo:  in.Correo,
		Rol:     in.Rol,
		Activo:  true,
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO users(id, nombre, usuario, correo, rol, contrasena)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Nombre, u.Usuario, u.Correo, u.Rol, passwordHash,
	)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// GetByUsername returns the user and its password hash for login checks.
func (r *Repo) GetByUsername(ctx context.Context, username string) (User, string, error) {
	var u User
	var hash string
	err := r.DB.QueryRow(ctx, `
		SELECT id, nombre, usuario, COALESCE(correo, ''), rol, contrasena, activo
		FROM users WHERE usuario=$1`, username,
	).Scan(&u.ID, &u.Nombre, &u.Usuario, &u.Correo, &u.Rol, &hash, &u.Activo)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, "", ErrUserNotFound
	}
	if err != nil {
		return User{}, "", err
	}
	return u, hash, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, nombre, usuario, COALESCE(correo, ''), rol, activo
		FROM users WHERE id=$1`, id,
	).Scan(&u.ID, &u.Nombre, &u.Usuario, &u.Correo, &u.Rol, &u.Activo)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, nombre, usuario, COALESCE(correo, ''), rol, activo
		FROM users ORDER BY usuario`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Usuario, &u.Correo, &u.Rol, &u.Activo); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
