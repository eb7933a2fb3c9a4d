package client

import (
	"context"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
)

// Renderer отправляет документы внешнему сервису конвертации. Конвертация
// больших документов может занимать десятки секунд, поэтому таймаут запроса
// больше, чем у остальных клиентов.
type Renderer struct {
	req *req.Client
}

func NewRenderer(addr string) *Renderer {
	return &Renderer{
		req: req.C().
			SetBaseURL(addr).
			SetTimeout(120 * time.Second),
	}
}

// Render выполняет конвертацию документа в PDF и возвращает содержимое
// готового файла.
func (c *Renderer) Render(ctx context.Context, name string, data []byte) ([]byte, error) {
	resp, err := c.req.R().
		SetContext(ctx).
		SetFileBytes("files", name, data).
		Post("/forms/libreoffice/convert")
	if err != nil {
		return nil, err
	}

	if resp.IsErrorState() {
		return nil, fmt.Errorf("server responded with status code %d", resp.StatusCode)
	}

	return resp.ToBytes()
}
