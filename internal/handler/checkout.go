package handler

import (
	"context"
	"errors"
	"net/http"

	inerr "github.com/ivanpodgorny/doc2pdf/internal/errors"
)

type Checkout struct {
	processor     CheckoutProcessor
	authenticator IdentityProvider
	validator     Validator
}

type CheckoutProcessor interface {
	Start(ctx context.Context, orderID, userID string) (approvalURL string, err error)
}

func NewCheckout(p CheckoutProcessor, a IdentityProvider, v Validator) *Checkout {
	return &Checkout{
		processor:     p,
		authenticator: a,
		validator:     v,
	}
}

// Start обрабатывает запрос на оплату заказа. Возвращает ссылку для
// подтверждения оплаты на стороне платёжного провайдера в формате
// {"approvalUrl": "..."}. Для уже оплаченного заказа и при ошибке создания
// платежа возвращает ответ с кодом 400.
func (h *Checkout) Start(w http.ResponseWriter, r *http.Request) {
	req := CheckoutRequest{}
	if err := readJSONBodyAndValidate(r.Context(), &req, r, h.validator); err != nil {
		badRequest(w)

		return
	}

	userID, _ := h.authenticator.UserIdentifier(r)

	approvalURL, err := h.processor.Start(r.Context(), req.OrderID, userID)
	switch {
	case errors.Is(err, inerr.ErrOrderNotFound):
		http.Error(w, "404 not found", http.StatusNotFound)

		return
	case errors.Is(err, inerr.ErrOrderNotBelongToUser):
		http.Error(w, "403 forbidden", http.StatusForbidden)

		return
	case errors.Is(err, inerr.ErrOrderAlreadyPaid):
		errorAsJSON(w, "order is already paid", http.StatusBadRequest)

		return
	case errors.Is(err, inerr.ErrPaymentInitFailed):
		errorAsJSON(w, "payment creation failed", http.StatusBadRequest)

		return
	case errors.Is(err, inerr.ErrConflict):
		http.Error(w, "409 conflict", http.StatusConflict)

		return
	case err != nil:
		serverError(w)

		return
	}

	resp := struct {
		ApprovalURL string `json:"approvalUrl"`
	}{
		ApprovalURL: approvalURL,
	}
	responseAsJSON(w, resp, http.StatusOK)
}
