package security

import (
	"context"
	"errors"
	"net/http"
)

type Authenticator struct {
	identity IdentityClient
}

type IdentityClient interface {
	UserIdentifier(ctx context.Context, token string) (string, error)
}

type userIDContextKey string

const userIDKey userIDContextKey = "currentUserID"

func NewAuthenticator(c IdentityClient) *Authenticator {
	return &Authenticator{identity: c}
}

// Authenticate проверяет токен у внешнего провайдера аутентификации
// и устанавливает идентификатор пользователя в контекст запроса. Если не
// удается проверить подлинность токена, возвращает ошибку.
func (a *Authenticator) Authenticate(token string, r *http.Request) (*http.Request, error) {
	userID, err := a.identity.UserIdentifier(r.Context(), token)
	if err != nil {
		return r, err
	}

	return a.setIdentifier(userID, r), nil
}

// UserIdentifier возвращает идентификатор аутентифицированного пользователя из контекста запроса.
func (a *Authenticator) UserIdentifier(r *http.Request) (string, error) {
	val := r.Context().Value(userIDKey)
	if val == nil {
		return "", errors.New("not found")
	}

	return val.(string), nil
}

func (a *Authenticator) setIdentifier(userID string, r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
}
