package rpc

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"sidecar/jsonrpc"
)

type bearerTokenKey struct{}

// withBearerToken copies the request's bearer token, if any, into the
// context so handlers requiring authentication can check it.
func withBearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token != "" {
				r = r.WithContext(context.WithValue(r.Context(), bearerTokenKey{}, token))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(ctx context.Context) string {
	token, _ := ctx.Value(bearerTokenKey{}).(string)
	return token
}

// requireAuth compares the caller-supplied bearer token against the
// configured one in constant time. A server with no configured token skips
// the check.
func requireAuth(ctx context.Context, configured string) *jsonrpc.Error {
	if configured == "" {
		return nil
	}
	token := bearerToken(ctx)
	if token == "" {
		return jsonrpc.NewError(CodeUnauthorized, "missing bearer token")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(configured)) != 1 {
		return jsonrpc.NewError(CodeUnauthorized, "invalid rpc credentials")
	}
	return nil
}
