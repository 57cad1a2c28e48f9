package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"libraryapi/internal/httpx"
)

const (
	// PrincipalName and PrincipalRole identify every caller holding the API key.
	PrincipalName = "library-api-client"
	PrincipalRole = "library-client"

	invalidKeyMessage = "Invalid API KEY"
)

// ErrInvalidAPIKey is returned when the credential is missing or does not match.
var ErrInvalidAPIKey = errors.New("invalid api key")

// Claims is the identity granted to an authenticated request.
type Claims struct {
	Name string
	Role string
}

// APIKey authenticates requests against a single shared secret.
type APIKey struct {
	key []byte
}

func NewAPIKey(key string) *APIKey {
	return &APIKey{key: []byte(key)}
}

// Authenticate compares the Authorization header value with the configured key.
func (a *APIKey) Authenticate(header string) (*Claims, error) {
	if header == "" || len(a.key) == 0 {
		return nil, ErrInvalidAPIKey
	}
	if subtle.ConstantTimeCompare([]byte(header), a.key) != 1 {
		return nil, ErrInvalidAPIKey
	}
	return &Claims{Name: PrincipalName, Role: PrincipalRole}, nil
}

// Middleware rejects requests without the API key before they reach next.
func (a *APIKey) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			httpx.JSONErrorWithRequest(r, w, http.StatusUnauthorized, "UNAUTHORIZED", invalidKeyMessage, nil)
			return
		}

		ctx := httpx.ContextWithUser(r.Context(), claims.Name, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
