package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

var (
	jwks   keyfunc.Keyfunc
	issuer string
)

// InitJWKS loads the signing keys of the user pool. Every token accepted by
// ValidateToken must be issued by that pool.
func InitJWKS(region, poolID string) error {
	issuer = fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, poolID)
	jwksURL := issuer + "/.well-known/jwks.json"

	var err error
	jwks, err = keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return fmt.Errorf("failed to create JWKS from resource at %s: %w", jwksURL, err)
	}

	log.Infof("JWKS initialized. Keys loaded from %s", jwksURL)
	return nil
}

// TokenData is what the API keeps from a verified token. Sub is the
// identity provider subject every user and operator row is keyed by.
type TokenData struct {
	Sub   string
	Email string
	Exp   int64
}

// TokenVerifier turns a raw Authorization header value into token data.
type TokenVerifier func(tokenString string) (*TokenData, error)

type cognitoClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	TokenUse string `json:"token_use"`
}

// ValidateToken checks signature, issuer and expiry locally. Both ID and
// access tokens of the pool are accepted.
func ValidateToken(tokenString string) (*TokenData, error) {
	if jwks == nil {
		return nil, errors.New("JWKS not initialized")
	}

	clean := SanitizeToken(tokenString)
	if clean == "" {
		return nil, errors.New("empty token")
	}

	var claims cognitoClaims
	_, err := jwt.ParseWithClaims(clean, &claims, jwks.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims.TokenUse != "id" && claims.TokenUse != "access" {
		return nil, fmt.Errorf("unexpected token_use %q", claims.TokenUse)
	}

	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return &TokenData{
		Sub:   claims.Subject,
		Email: claims.Email,
		Exp:   claims.ExpiresAt.Unix(),
	}, nil
}

func ParseTokenDataCtx(ctx echo.Context, verify TokenVerifier) (*TokenData, error) {
	token := ctx.Request().Header.Get(echo.HeaderAuthorization)
	return verify(token)
}

func SanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}
