package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

type CreateOrderRequest struct {
	FilePath string `json:"filePath" validate:"required,max=500"`
	FileName string `json:"fileName" validate:"required,max=255"`
}

type CheckoutRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid4"`
}

type ConvertRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid4"`
}

type IdentityProvider interface {
	UserIdentifier(*http.Request) (string, error)
}

type Validator interface {
	Struct(ctx context.Context, s any) error
	Var(ctx context.Context, field any, tag string) error
}

func readJSONBody(v any, r *http.Request) error {
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, v)
}

func readJSONBodyAndValidate(ctx context.Context, v any, r *http.Request, validator Validator) error {
	if err := readJSONBody(v, r); err != nil {
		return err
	}

	return validator.Struct(ctx, v)
}
