package middleware

import (
	"errors"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/LernCasino/internal/apperrors"
	"github.com/thesrcielos/LernCasino/internal/user"
)

const (
	claimsKey    = "user"
	bearerScheme = "Bearer "
)

var errMissingBearer = errors.New("missing bearer scheme")

// SetupJWTMiddleware guards routes with a bearer token. Every failure is a
// 401; the cause is not disclosed beyond missing vs invalid. The scheme is
// matched case-sensitively.
func SetupJWTMiddleware(tokens *user.TokenIssuer) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":" + bearerScheme,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			if !hasBearer(c) {
				return nil, errMissingBearer
			}
			return tokens.Parse(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if !hasBearer(c) {
				return apperrors.Unauthorized("No token provided")
			}
			return apperrors.Unauthorized("Invalid token")
		},
	})
}

func hasBearer(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderAuthorization), bearerScheme)
}

// ClaimsFrom returns the claims stored by SetupJWTMiddleware.
func ClaimsFrom(c echo.Context) (*user.Claims, error) {
	claims, ok := c.Get(claimsKey).(*user.Claims)
	if !ok || claims == nil {
		return nil, apperrors.Unauthorized("Invalid token")
	}
	return claims, nil
}
