package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issue signs an HS256 token carrying the user id and admin flag.
func Issue(secret string, userID int64, isAdmin bool, ttlHours int) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"adm": isAdmin,
		"exp": time.Now().Add(time.Duration(ttlHours) * time.Hour).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
