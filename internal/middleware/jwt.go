package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set from verified token claims.
const (
	KeyUserID = "user_id"
	KeyRole   = "role"
	KeyName   = "name"
	KeyEmail  = "email"
)

var (
	errMissingHeader = errors.New("missing Authorization header")
	errBadFormat     = errors.New("invalid Authorization format")
)

// JWTMiddleware rejects requests without a valid Bearer token and stores the
// token's claims in the echo context.
func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseBearer(c, secret)
			switch {
			case errors.Is(err, errMissingHeader), errors.Is(err, errBadFormat):
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			case err != nil:
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}
			if !setClaims(c, claims) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
			}
			return next(c)
		}
	}
}

// OptionalJWT stores claims when a valid token is present and otherwise lets
// the request through anonymously.
func OptionalJWT(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := parseBearer(c, secret); err == nil {
				setClaims(c, claims)
			}
			return next(c)
		}
	}
}

func parseBearer(c echo.Context, secret []byte) (jwt.MapClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, errMissingHeader
	}

	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return nil, errBadFormat
	}
	tokenStr := strings.TrimSpace(authHeader[len(prefix):])

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func setClaims(c echo.Context, claims jwt.MapClaims) bool {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return false
	}
	c.Set(KeyUserID, userID)
	role, _ := claims["role"].(string)
	c.Set(KeyRole, role)
	name, _ := claims["name"].(string)
	c.Set(KeyName, name)
	email, _ := claims["email"].(string)
	c.Set(KeyEmail, email)
	return true
}

// UserID returns the authenticated user's ID, or "" for anonymous requests.
func UserID(c echo.Context) string {
	id, _ := c.Get(KeyUserID).(string)
	return id
}

// Role returns the authenticated user's role.
func Role(c echo.Context) string {
	role, _ := c.Get(KeyRole).(string)
	return role
}

// Name returns the display name from the token, if any.
func Name(c echo.Context) string {
	name, _ := c.Get(KeyName).(string)
	return name
}

// Email returns the email from the token, if any.
func Email(c echo.Context) string {
	email, _ := c.Get(KeyEmail).(string)
	return email
}
