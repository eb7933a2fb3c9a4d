package handler

import (
	"context"
	"net/http"

	"github.com/ivanpodgorny/doc2pdf/internal/entity"
)

type Order struct {
	processor     OrderProcessor
	authenticator IdentityProvider
	validator     Validator
}

type OrderProcessor interface {
	Create(ctx context.Context, userID, originalPath, originalName string) (entity.Order, error)
	GetAll(ctx context.Context, userID string) ([]entity.Order, error)
}

func NewOrder(p OrderProcessor, a IdentityProvider, v Validator) *Order {
	return &Order{
		processor:     p,
		authenticator: a,
		validator:     v,
	}
}

// Create обрабатывает запрос на регистрацию загруженного документа. Возвращает
// созданный заказ с кодом 201. Для документов неподдерживаемых форматов
// возвращает ответ с кодом 422.
func (h *Order) Create(w http.ResponseWriter, r *http.Request) {
	req := CreateOrderRequest{}
	if err := readJSONBodyAndValidate(r.Context(), &req, r, h.validator); err != nil {
		badRequest(w)

		return
	}

	if err := h.validator.Var(r.Context(), req.FileName, "document"); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)

		return
	}

	userID, _ := h.authenticator.UserIdentifier(r)

	order, err := h.processor.Create(r.Context(), userID, req.FilePath, req.FileName)
	if err != nil {
		serverError(w)

		return
	}

	responseAsJSON(w, order, http.StatusCreated)
}

// GetAll возвращает список заказов пользователя. Если заказов нет,
// возвращает ответ с кодом 204.
func (h *Order) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.authenticator.UserIdentifier(r)

	orders, err := h.processor.GetAll(r.Context(), userID)
	if err != nil {
		serverError(w)

		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)

		return
	}

	responseAsJSON(w, orders, http.StatusOK)
}
