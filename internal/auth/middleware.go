package auth

import (
	"net/http"
	"strings"
)

// ForwardBearer is a middleware for the local API. Browser editors already
// hold the user's backend token (their auth store is outside this module);
// when a request carries "Authorization: Bearer <token>", the token is
// handed to tokens so subsequent backend calls use it.
//
// Requests without the header pass through untouched. The local API never
// rejects a request here: whether a token is required is decided when a
// backend call is actually made.
func ForwardBearer(tokens *TokenSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok, ok := bearerFromHeader(r); ok {
				tokens.Set(tok)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerFromHeader(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}
