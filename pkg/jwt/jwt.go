package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más el nombre del servicio que llama al backend.
type Claims struct {
	jwt.RegisteredClaims
	Service string `json:"service"`
}

// Generate genera un token de servicio firmado (HS256) con el que este servicio se presenta
// ante el colaborador remoto.
func Generate(secret, service, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   service,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Service: service,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve sus claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}

// TokenSource cachea un token de servicio y lo renueva poco antes de expirar.
// No es seguro para uso concurrente sin sincronización externa; el cliente remoto lo protege.
type TokenSource struct {
	Secret     string
	Service    string
	Issuer     string
	ExpMinutes int

	token   string
	expires time.Time
}

// Token devuelve el token vigente, generando uno nuevo si falta menos de un minuto para expirar.
func (s *TokenSource) Token() (string, error) {
	now := time.Now()
	if s.token != "" && now.Add(time.Minute).Before(s.expires) {
		return s.token, nil
	}
	tok, err := Generate(s.Secret, s.Service, s.Issuer, s.ExpMinutes)
	if err != nil {
		return "", err
	}
	s.token = tok
	s.expires = now.Add(time.Duration(s.ExpMinutes) * time.Minute)
	return tok, nil
}
