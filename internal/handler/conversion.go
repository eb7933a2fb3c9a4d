package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/ivanpodgorny/doc2pdf/internal/entity"
	inerr "github.com/ivanpodgorny/doc2pdf/internal/errors"
)

type Conversion struct {
	finder        OrderFinder
	converter     DocumentConverter
	authenticator IdentityProvider
	validator     Validator
}

type OrderFinder interface {
	Get(ctx context.Context, id, userID string) (entity.Order, error)
}

type DocumentConverter interface {
	Convert(ctx context.Context, orderID string) (convertedPath string, err error)
}

func NewConversion(f OrderFinder, c DocumentConverter, a IdentityProvider, v Validator) *Conversion {
	return &Conversion{
		finder:        f,
		converter:     c,
		authenticator: a,
		validator:     v,
	}
}

// Convert обрабатывает запрос на синхронную конвертацию документа оплаченного
// заказа. Возвращает путь к готовому PDF в формате {"convertedLocation": "..."},
// в том числе для уже сконвертированного заказа. Если заказ взят в обработку
// другим воркером, возвращает ответ с кодом 409, если предыдущая конвертация
// завершилась ошибкой - с кодом 400.
func (h *Conversion) Convert(w http.ResponseWriter, r *http.Request) {
	req := ConvertRequest{}
	if err := readJSONBodyAndValidate(r.Context(), &req, r, h.validator); err != nil {
		badRequest(w)

		return
	}

	userID, _ := h.authenticator.UserIdentifier(r)

	order, err := h.finder.Get(r.Context(), req.OrderID, userID)
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

	if order.Status == entity.StatusCompleted {
		h.converted(w, order.ConvertedPath)

		return
	}
	if order.Status == entity.StatusFailed {
		errorAsJSON(w, "conversion failed", http.StatusBadRequest)

		return
	}

	convertedPath, err := h.converter.Convert(r.Context(), req.OrderID)
	switch {
	case errors.Is(err, inerr.ErrConflict):
		// Проигрыш гонки может означать, что конкурирующий воркер уже
		// завершил конвертацию.
		order, findErr := h.finder.Get(r.Context(), req.OrderID, userID)
		if findErr == nil && order.Status == entity.StatusCompleted {
			h.converted(w, order.ConvertedPath)

			return
		}

		http.Error(w, "409 conflict", http.StatusConflict)

		return
	case errors.Is(err, inerr.ErrSourceMissing):
		errorAsJSON(w, "source document is missing", http.StatusBadRequest)

		return
	case errors.Is(err, inerr.ErrUnsupportedFormat):
		errorAsJSON(w, "unsupported document format", http.StatusBadRequest)

		return
	case errors.Is(err, inerr.ErrRenderFailed):
		errorAsJSON(w, "conversion failed", http.StatusBadRequest)

		return
	case err != nil:
		serverError(w)

		return
	}

	h.converted(w, convertedPath)
}

func (h *Conversion) converted(w http.ResponseWriter, path string) {
	resp := struct {
		ConvertedLocation string `json:"convertedLocation"`
	}{
		ConvertedLocation: path,
	}
	responseAsJSON(w, resp, http.StatusOK)
}
