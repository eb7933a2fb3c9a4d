package errors

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNotBelongToUser = errors.New("order does not belong to user")
	ErrOrderAlreadyPaid     = errors.New("order already paid")
	ErrConflict             = errors.New("order state conflict")
	ErrPaymentInitFailed    = errors.New("payment initialization failed")
	ErrPaymentFailed        = errors.New("payment capture failed")
	ErrSourceMissing        = errors.New("source file missing")
	ErrUnsupportedFormat    = errors.New("unsupported document format")
	ErrRenderFailed         = errors.New("document rendering failed")
)

// GatewayError содержит код и тело ответа платёжного провайдера
// для диагностики. Клиентам приложения не показывается.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway responded with status code %d: %s", e.StatusCode, e.Body)
}
