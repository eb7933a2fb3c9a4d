package service

import (
	"context"
	"errors"

	"github.com/ivanpodgorny/doc2pdf/internal/entity"
	inerr "github.com/ivanpodgorny/doc2pdf/internal/errors"
)

type Checkout struct {
	repository CheckoutRepository
	gateway    PaymentGateway
	returnAddr string
}

type CheckoutRepository interface {
	Find(ctx context.Context, id string) (entity.Order, error)
	SetPaymentPending(ctx context.Context, id, paymentRef string) error
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, currency, referenceID, returnURL, cancelURL, idempotencyKey string) (paymentRef string, approvalURL string, err error)
}

func NewCheckout(r CheckoutRepository, g PaymentGateway, returnAddr string) *Checkout {
	return &Checkout{
		repository: r,
		gateway:    g,
		returnAddr: returnAddr,
	}
}

// Start создает платёж у платёжного провайдера и возвращает ссылку для
// подтверждения оплаты пользователем. Заказ переводится в статус ожидания
// оплаты. Идентификатор заказа используется как ключ идемпотентности,
// поэтому повторный вызов после ошибки не создает дублирующийся платёж.
// Для уже оплаченного заказа возвращает ошибку errors.ErrOrderAlreadyPaid.
func (s *Checkout) Start(ctx context.Context, orderID, userID string) (string, error) {
	order, err := s.repository.Find(ctx, orderID)
	if err != nil {
		return "", err
	}

	if order.UserID != userID {
		return "", inerr.ErrOrderNotBelongToUser
	}

	if order.PaymentStatus == entity.PaymentStatusPaid {
		return "", inerr.ErrOrderAlreadyPaid
	}

	paymentRef, approvalURL, err := s.gateway.CreateOrder(
		ctx,
		order.Amount,
		order.Currency,
		orderID,
		s.returnAddr+"/approve?orderId="+orderID,
		s.returnAddr+"/cancel?orderId="+orderID,
		orderID,
	)
	if err != nil {
		return "", errors.Join(inerr.ErrPaymentInitFailed, err)
	}

	// Созданный у провайдера платёж не отменяется при проигрыше гонки
	// за обновление заказа: неподтвержденный платёж истекает на стороне
	// провайдера.
	if err := s.repository.SetPaymentPending(ctx, orderID, paymentRef); err != nil {
		return "", err
	}

	return approvalURL, nil
}
