package middleware

import (
	"net/http"
	"strings"
)

type Authenticator interface {
	Authenticate(token string, r *http.Request) (*http.Request, error)
}

// Authenticate возвращает middleware для поверки токена пользователя.
func Authenticate(a Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			r, err := a.Authenticate(token, r)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
