package auth

import (
	"fmt"
	"time"

	"gaurosa-backend/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the access token payload. Fields mirror what the
// storefront reads client side, nothing more.
type AccessClaims struct {
	CustomerID uint    `json:"customerId"`
	Email      string  `json:"email"`
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a short lived HS256 JWT for the customer
func GenerateAccessToken(customerID uint, email string, firstName, lastName *string) (string, error) {
	cfg := config.GetConfig()

	claims := AccessClaims{
		CustomerID: customerID,
		Email:      email,
		FirstName:  firstName,
		LastName:   lastName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.GetAccessTokenExpire())),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ValidateAccessToken parses a JWT and returns its claims, or an error
// for any invalid, expired or tampered token.
func ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	cfg := config.GetConfig()

	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
