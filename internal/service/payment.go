package service

import (
	"context"
	"errors"

	"github.com/ivanpodgorny/doc2pdf/internal/entity"
	inerr "github.com/ivanpodgorny/doc2pdf/internal/errors"
)

type Payment struct {
	repository PaymentRepository
	gateway    CaptureGateway
	queue      chan<- entity.ConversionJob
}

type PaymentRepository interface {
	Find(ctx context.Context, id string) (entity.Order, error)
	SetPaid(ctx context.Context, id string) error
	SetUnpaid(ctx context.Context, id string) error
}

type CaptureGateway interface {
	CaptureOrder(ctx context.Context, orderID string) (captured bool, amount float64, err error)
}

func NewPayment(r PaymentRepository, g CaptureGateway, q chan<- entity.ConversionJob) *Payment {
	return &Payment{
		repository: r,
		gateway:    g,
		queue:      q,
	}
}

// Approve подтверждает оплату заказа после возврата пользователя от платёжного
// провайдера: списывает средства, отмечает заказ оплаченным и создает задачу
// на конвертацию документа. Повторное подтверждение уже оплаченного заказа
// завершается успешно без повторного списания. Если провайдер отклонил
// списание, заказ возвращается в неоплаченный статус и возвращается ошибка
// errors.ErrPaymentFailed.
func (s *Payment) Approve(ctx context.Context, orderID, userID string) error {
	order, err := s.repository.Find(ctx, orderID)
	if err != nil {
		return err
	}

	if order.UserID != userID {
		return inerr.ErrOrderNotBelongToUser
	}

	if order.PaymentStatus == entity.PaymentStatusPaid {
		return nil
	}

	if order.PaymentRef == "" {
		return inerr.ErrConflict
	}

	captured, _, err := s.gateway.CaptureOrder(ctx, order.PaymentRef)
	if err != nil {
		return errors.Join(inerr.ErrPaymentFailed, err)
	}

	if !captured {
		if err := s.repository.SetUnpaid(ctx, orderID); err != nil {
			return err
		}

		return inerr.ErrPaymentFailed
	}

	if err := s.repository.SetPaid(ctx, orderID); err != nil {
		return err
	}

	go func() {
		s.queue <- entity.NewConversionJob(orderID)
	}()

	return nil
}

// Cancel возвращает заказ в неоплаченный статус после отказа пользователя
// от оплаты. Повторная отмена завершается успешно.
func (s *Payment) Cancel(ctx context.Context, orderID, userID string) error {
	order, err := s.repository.Find(ctx, orderID)
	if err != nil {
		return err
	}

	if order.UserID != userID {
		return inerr.ErrOrderNotBelongToUser
	}

	return s.repository.SetUnpaid(ctx, orderID)
}
