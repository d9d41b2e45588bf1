// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// UserIDFromContext reads the subject out of the verified token. The claims
// middleware also mirrors it into "user_id" for handlers that prefer that.
func UserIDFromContext(c echo.Context) (int64, error) {
	if id, ok := c.Get("user_id").(int64); ok && id > 0 {
		return id, nil
	}

	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return 0, errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid jwt claims")
	}
	if f, ok := claims["sub"].(float64); ok {
		return int64(f), nil
	}
	return 0, errors.New("sub missing in claims")
}

func IsAdminFromContext(c echo.Context) bool {
	if adm, ok := c.Get("is_admin").(bool); ok {
		return adm
	}

	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	adm, _ := claims["adm"].(bool)
	return adm
}
