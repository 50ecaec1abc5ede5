package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the caller as asserted by the identity provider's token.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// ParseTokenFromRequest extracts and validates an HS256 bearer token, returning its claims if valid
func ParseTokenFromRequest(r *http.Request, secret []byte) (jwt.MapClaims, error) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}

// JWTAuthMiddleware rejects requests without a valid token and stores the caller's identity
// in the request context. The "sub" claim is the owner id.
func JWTAuthMiddleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := ParseTokenFromRequest(r, key)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, err.Error())
				return
			}

			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				WriteError(w, http.StatusUnauthorized, "missing subject")
				return
			}

			email, _ := claims["email"].(string)
			name, _ := claims["name"].(string)

			ctx := context.WithValue(r.Context(), identityKey, Identity{
				Subject: subject,
				Email:   email,
				Name:    name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// OwnerFromContext returns the authenticated owner id, or "" when the request is anonymous.
func OwnerFromContext(ctx context.Context) string {
	id, _ := IdentityFromContext(ctx)
	return id.Subject
}
