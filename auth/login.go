package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"blog/logging"

	"golang.org/x/crypto/bcrypt"
)

// Credentials is the single operator account allowed to log in.
type Credentials struct {
	Email        string
	PasswordHash string
	Secret       []byte
	TokenTTL     time.Duration
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HashPassword returns the bcrypt hash to configure as Credentials.PasswordHash.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// LoginHandler exchanges the operator's email and password for a JWT.
func LoginHandler(creds Credentials, logger logging.Logger) http.HandlerFunc {
	if logger == nil {
		logger = logging.NullLogger()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid method", http.StatusMethodNotAllowed)
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		if creds.Email == "" || creds.PasswordHash == "" || req.Email != creds.Email {
			logger.Printf("[Login] Unknown user %q", req.Email)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.Password)); err != nil {
			logger.Printf("[Login] Invalid password for %s", req.Email)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		token, err := GenerateJWT(req.Email, creds.Secret, creds.TokenTTL)
		if err != nil {
			logger.Printf("[Login] Token generation failed: %v", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		logger.Printf("[Login] %s logged in", req.Email)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"token": token}); err != nil {
			logger.Printf("[Login] Writing token response failed: %v", err)
		}
	}
}
