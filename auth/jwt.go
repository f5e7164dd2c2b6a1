package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"blog/logging"

	"github.com/golang-jwt/jwt/v5"
)

// UserEmailHeader carries the authenticated email to the wrapped handler.
const UserEmailHeader = "User-Email"

var ErrInvalidToken = errors.New("invalid token")

// GenerateJWT signs an HS256 token for email that expires after ttl.
func GenerateJWT(email string, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("jwt secret is empty")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ExtractEmailFromToken verifies tokenString and returns its email claim.
func ExtractEmailFromToken(tokenString string, secret []byte) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("%w: email not found in token", ErrInvalidToken)
	}
	return email, nil
}

// JwtMiddleware rejects requests without a valid bearer token. With an empty
// secret it lets every request through.
func JwtMiddleware(secret []byte, logger logging.Logger, next http.HandlerFunc) http.HandlerFunc {
	if len(secret) == 0 {
		return next
	}
	if logger == nil {
		logger = logging.NullLogger()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		email, err := ExtractEmailFromToken(tokenString, secret)
		if err != nil {
			logger.Printf("[JWT] Invalid token: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		r.Header.Set(UserEmailHeader, email)
		next(w, r)
	}
}
