package client

import (
	"context"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
)

type Identity struct {
	req *req.Client
}

func NewIdentity(addr string) *Identity {
	return &Identity{
		req: req.C().
			SetBaseURL(addr).
			SetTimeout(5 * time.Second),
	}
}

// UserIdentifier проверяет токен пользователя у провайдера аутентификации
// и возвращает идентификатор пользователя.
func (c *Identity) UserIdentifier(ctx context.Context, token string) (string, error) {
	respBody := struct {
		ID string `json:"id"`
	}{}
	resp, err := c.req.R().
		SetContext(ctx).
		SetBearerAuthToken(token).
		SetSuccessResult(&respBody).
		Get("/auth/v1/user")
	if err != nil {
		return "", err
	}

	if resp.IsErrorState() {
		return "", fmt.Errorf("server responded with status code %d", resp.StatusCode)
	}

	return respBody.ID, nil
}
