package dto

// FirstLoginMarker valor de access_token cuando el trabajador debe cambiar su contraseña
// antes de operar. No es un token utilizable.
const FirstLoginMarker = "primer_inicio"

// LoginRequest entrada para login con RUT y contraseña.
type LoginRequest struct {
	RUT      int64  `json:"rut" validate:"required,gt=0"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida del login. Si RequirePasswordChange es true, AccessToken es FirstLoginMarker.
type LoginResponse struct {
	AccessToken           string `json:"access_token"`
	TokenType             string `json:"token_type"`
	RequirePasswordChange bool   `json:"require_password_change"`
}

// ChangePasswordRequest entrada para cambio de contraseña. RUT solo se usa en el primer inicio
// de sesión, cuando el trabajador aún no tiene token.
type ChangePasswordRequest struct {
	RUT         int64  `json:"rut" validate:"omitempty,gt=0"`
	Password    string `json:"password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

// TokenResponse token emitido tras cambiar la contraseña.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
