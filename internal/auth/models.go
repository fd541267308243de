package auth

type User struct {
	ID      string `json:"id"`
	Nombre  string `json:"nombre"`
	Usuario string `json:"usuario"`
	Correo  string `json:"correo,omitempty"`
	Rol     Role   `json:"rol"`
	Activo  bool   `json:"activo"`
}

type UserCreate struct {
	Nombre     string `json:"nombre"`
	Usuario    string `json:"usuario"`
	Correo     string `json:"correo,omitempty"`
	Rol        Role   `json:"rol"`
	Contrasena string `json:"contrasena"`
}

type UserLogin struct {
	Usuario    string `json:"usuario"`
	Contrasena string `json:"contrasena"`
}

// TokenResponse is the login payload: the signed token plus the user it
// identifies, so the frontend never decodes the token itself.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Usuario     User   `json:"usuario"`
}
