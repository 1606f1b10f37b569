package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más RUT y cargo del trabajador.
// El cargo viaja en el token para que el cliente móvil pueda decidir qué pantallas mostrar;
// el servidor siempre vuelve a cargar al trabajador antes de autorizar.
type Claims struct {
	jwt.RegisteredClaims
	RUT   int64 `json:"rut"`
	Cargo int   `json:"cargo"`
}

// Generate genera un token JWT HS256 firmado con RUT (también en sub) y cargo.
func Generate(secret string, rut int64, cargo int, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(rut, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		RUT:   rut,
		Cargo: cargo,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración del token y devuelve RUT y cargo.
func Parse(secret, tokenString string) (rut int64, cargo int, err error) {
	if secret == "" {
		return 0, 0, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return 0, 0, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, 0, fmt.Errorf("claims inválidos")
	}
	if claims.RUT <= 0 {
		return 0, 0, fmt.Errorf("claims inválidos: rut ausente")
	}
	return claims.RUT, claims.Cargo, nil
}
