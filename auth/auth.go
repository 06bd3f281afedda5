/*
Package auth issues and verifies contractor session tokens.

PURPOSE:
  Contractors sign in once and carry an HS256 bearer token; every
  protected handler reads the contractor id from the request context the
  middleware populated. Passwords are stored as bcrypt hashes.

SECURITY NOTE:
  The signing secret comes from configuration. There are no roles: a
  token grants access to exactly one contractor's data, and handlers
  scope every query by that id.

SEE ALSO:
  - api/handlers.go: register/login endpoints
*/
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims are the JWT claims carried by a session token.
type Claims struct {
	ContractorID string `json:"contractorId"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the contractor.
func IssueToken(contractorID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		ContractorID: contractorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   contractorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken validates a session token and returns its claims.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("auth: empty token")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("auth: invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ContractorID == "" {
		return nil, errors.New("auth: invalid token")
	}
	return claims, nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

type contextKey struct{}

// ContractorID returns the authenticated contractor id, if any.
func ContractorID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// Middleware validates bearer tokens and injects the contractor id.
type Middleware struct {
	Secret []byte
}

func NewMiddleware(secret []byte) *Middleware {
	return &Middleware{Secret: secret}
}

// Handler rejects requests without a valid bearer token.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := ParseToken(extractBearer(r), m.Secret)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), contextKey{}, claims.ContractorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearer(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
