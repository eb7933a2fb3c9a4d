package handler

import (
	"context"
	"errors"
	"net/http"

	inerr "github.com/ivanpodgorny/doc2pdf/internal/errors"
)

type Payment struct {
	processor     PaymentProcessor
	authenticator IdentityProvider
	validator     Validator
}

type PaymentProcessor interface {
	Approve(ctx context.Context, orderID, userID string) error
	Cancel(ctx context.Context, orderID, userID string) error
}

func NewPayment(p PaymentProcessor, a IdentityProvider, v Validator) *Payment {
	return &Payment{
		processor:     p,
		authenticator: a,
		validator:     v,
	}
}

// Approve обрабатывает возврат пользователя от платёжного провайдера после
// подтверждения оплаты. Возвращает ответ {"status": "paid"} с кодом 200,
// в том числе при повторном переходе по ссылке возврата. Если провайдер
// отклонил списание средств, возвращает ответ с кодом 402.
func (h *Payment) Approve(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderId")
	if err := h.validator.Var(r.Context(), orderID, "required,uuid4"); err != nil {
		badRequest(w)

		return
	}

	userID, _ := h.authenticator.UserIdentifier(r)

	err := h.processor.Approve(r.Context(), orderID, userID)
	switch {
	case errors.Is(err, inerr.ErrOrderNotFound):
		http.Error(w, "404 not found", http.StatusNotFound)

		return
	case errors.Is(err, inerr.ErrOrderNotBelongToUser):
		http.Error(w, "403 forbidden", http.StatusForbidden)

		return
	case errors.Is(err, inerr.ErrPaymentFailed):
		errorAsJSON(w, "payment was declined", http.StatusPaymentRequired)

		return
	case errors.Is(err, inerr.ErrConflict):
		http.Error(w, "409 conflict", http.StatusConflict)

		return
	case err != nil:
		serverError(w)

		return
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "paid",
	}
	responseAsJSON(w, resp, http.StatusOK)
}

// Cancel обрабатывает возврат пользователя от платёжного провайдера после
// отказа от оплаты. Возвращает ответ {"status": "unpaid"} с кодом 200,
// повторная отмена не является ошибкой.
func (h *Payment) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderId")
	if err := h.validator.Var(r.Context(), orderID, "required,uuid4"); err != nil {
		badRequest(w)

		return
	}

	userID, _ := h.authenticator.UserIdentifier(r)

	err := h.processor.Cancel(r.Context(), orderID, userID)
	switch {
	case errors.Is(err, inerr.ErrOrderNotFound):
		http.Error(w, "404 not found", http.StatusNotFound)

		return
	case errors.Is(err, inerr.ErrOrderNotBelongToUser):
		http.Error(w, "403 forbidden", http.StatusForbidden)

		return
	case err != nil:
		serverError(w)

		return
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "unpaid",
	}
	responseAsJSON(w, resp, http.StatusOK)
}
