package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/imroc/req/v3"
	inerr "github.com/ivanpodgorny/doc2pdf/internal/errors"
)

// PayPal выполняет запросы к API платёжного провайдера. Токен доступа
// кэшируется до истечения срока действия и обновляется при ответе
// с кодом 401.
type PayPal struct {
	req      *req.Client
	clientID string
	secret   string

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

const tokenExpiryMargin = time.Minute

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id"`
	Amount      paypalAmount `json:"amount"`
}

type paypalApplicationContext struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

func NewPayPal(addr, clientID, secret string) *PayPal {
	return &PayPal{
		req: req.C().
			SetBaseURL(addr).
			SetTimeout(5 * time.Second).
			SetCommonRetryCount(2).
			SetCommonRetryFixedInterval(time.Second).
			SetCommonRetryCondition(func(resp *req.Response, err error) bool {
				return err != nil || resp.StatusCode >= http.StatusInternalServerError
			}),
		clientID: clientID,
		secret:   secret,
	}
}

// CreateOrder создает платёж у провайдера и возвращает его идентификатор
// и ссылку для подтверждения оплаты пользователем. Заголовок PayPal-Request-Id
// с ключом идемпотентности защищает повторные запросы от создания
// дублирующихся платежей.
func (c *PayPal) CreateOrder(ctx context.Context, amount float64, currency, referenceID, returnURL, cancelURL, idempotencyKey string) (string, string, error) {
	reqBody := struct {
		Intent             string                   `json:"intent"`
		PurchaseUnits      []paypalPurchaseUnit     `json:"purchase_units"`
		ApplicationContext paypalApplicationContext `json:"application_context"`
	}{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalPurchaseUnit{{
			ReferenceID: referenceID,
			Amount: paypalAmount{
				CurrencyCode: currency,
				Value:        strconv.FormatFloat(amount, 'f', 2, 64),
			},
		}},
		ApplicationContext: paypalApplicationContext{
			ReturnURL: returnURL,
			CancelURL: cancelURL,
		},
	}
	respBody := struct {
		ID    string `json:"id"`
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}{}
	resp, err := c.postAuthorized(ctx, "/v2/checkout/orders", func(r *req.Request) *req.Request {
		return r.
			SetHeader("PayPal-Request-Id", idempotencyKey).
			SetBodyJsonMarshal(&reqBody).
			SetSuccessResult(&respBody)
	})
	if err != nil {
		return "", "", err
	}

	if resp.IsErrorState() {
		return "", "", &inerr.GatewayError{StatusCode: resp.StatusCode, Body: resp.String()}
	}

	for _, l := range respBody.Links {
		if l.Rel == "approve" {
			return respBody.ID, l.Href, nil
		}
	}

	return "", "", fmt.Errorf("approve link not found in response for order %s", respBody.ID)
}

// CaptureOrder списывает средства по подтвержденному пользователем платежу.
// Возвращает признак успешного списания и списанную сумму. Отклоненное
// провайдером списание не является ошибкой.
func (c *PayPal) CaptureOrder(ctx context.Context, orderID string) (bool, float64, error) {
	respBody := struct {
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					Amount paypalAmount `json:"amount"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}{}
	resp, err := c.postAuthorized(ctx, "/v2/checkout/orders/{id}/capture", func(r *req.Request) *req.Request {
		return r.
			SetPathParam("id", orderID).
			SetContentType("application/json").
			SetSuccessResult(&respBody)
	})
	if err != nil {
		return false, 0, err
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return false, 0, nil
	}

	if resp.IsErrorState() {
		return false, 0, &inerr.GatewayError{StatusCode: resp.StatusCode, Body: resp.String()}
	}

	if respBody.Status != "COMPLETED" {
		return false, 0, nil
	}

	captured := 0.0
	for _, u := range respBody.PurchaseUnits {
		for _, cpt := range u.Payments.Captures {
			amount, err := strconv.ParseFloat(cpt.Amount.Value, 64)
			if err != nil {
				continue
			}

			captured += amount
		}
	}

	return true, captured, nil
}

// postAuthorized выполняет запрос с токеном доступа. При ответе с кодом 401
// обновляет токен и повторяет запрос один раз.
func (c *PayPal) postAuthorized(ctx context.Context, url string, prepare func(*req.Request) *req.Request) (*req.Response, error) {
	refresh := false
	for {
		token, err := c.accessToken(ctx, refresh)
		if err != nil {
			return nil, err
		}

		resp, err := prepare(c.req.R().SetContext(ctx).SetBearerAuthToken(token)).Post(url)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusUnauthorized && !refresh {
			refresh = true

			continue
		}

		return resp, nil
	}
}

func (c *PayPal) accessToken(ctx context.Context, refresh bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !refresh && c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	respBody := struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}{}
	resp, err := c.req.R().
		SetContext(ctx).
		SetBasicAuth(c.clientID, c.secret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetSuccessResult(&respBody).
		Post("/v1/oauth2/token")
	if err != nil {
		return "", err
	}

	if resp.IsErrorState() {
		return "", &inerr.GatewayError{StatusCode: resp.StatusCode, Body: resp.String()}
	}

	c.token = respBody.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(respBody.ExpiresIn)*time.Second - tokenExpiryMargin)

	return c.token, nil
}
