package service

import (
	"context"

	"github.com/ivanpodgorny/doc2pdf/internal/entity"
	inerr "github.com/ivanpodgorny/doc2pdf/internal/errors"
)

type Order struct {
	repository OrderRepository
	price      float64
	currency   string
}

type OrderRepository interface {
	Create(ctx context.Context, userID, originalPath, originalName string, amount float64, currency string) (entity.Order, error)
	Find(ctx context.Context, id string) (entity.Order, error)
	FindAllByUserID(ctx context.Context, userID string) ([]entity.Order, error)
}

func NewOrder(r OrderRepository, price float64, currency string) *Order {
	return &Order{
		repository: r,
		price:      price,
		currency:   currency,
	}
}

// Create регистрирует загруженный в хранилище файл как новый заказ
// на конвертацию с фиксированной стоимостью.
func (s *Order) Create(ctx context.Context, userID, originalPath, originalName string) (entity.Order, error) {
	return s.repository.Create(ctx, userID, originalPath, originalName, s.price, s.currency)
}

// Get возвращает заказ пользователя. Если заказ принадлежит другому
// пользователю, возвращает ошибку errors.ErrOrderNotBelongToUser.
func (s *Order) Get(ctx context.Context, id, userID string) (entity.Order, error) {
	order, err := s.repository.Find(ctx, id)
	if err != nil {
		return order, err
	}

	if order.UserID != userID {
		return entity.Order{}, inerr.ErrOrderNotBelongToUser
	}

	return order, nil
}

// GetAll возвращает список заказов пользователя.
func (s *Order) GetAll(ctx context.Context, userID string) ([]entity.Order, error) {
	return s.repository.FindAllByUserID(ctx, userID)
}
