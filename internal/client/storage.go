package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/imroc/req/v3"
	inerr "github.com/ivanpodgorny/doc2pdf/internal/errors"
)

type Storage struct {
	req    *req.Client
	bucket string
}

func NewStorage(addr, serviceKey, bucket string) *Storage {
	return &Storage{
		req: req.C().
			SetBaseURL(addr).
			SetCommonBearerAuthToken(serviceKey).
			SetTimeout(30 * time.Second),
		bucket: bucket,
	}
}

// Download возвращает содержимое файла из хранилища. Если файл не найден,
// возвращает ошибку errors.ErrSourceMissing.
func (c *Storage) Download(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.req.R().
		SetContext(ctx).
		Get("/storage/v1/object/" + c.bucket + "/" + path)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, inerr.ErrSourceMissing
	}

	if resp.IsErrorState() {
		return nil, fmt.Errorf("server responded with status code %d", resp.StatusCode)
	}

	return resp.ToBytes()
}

// Upload сохраняет файл в хранилище. Существующий файл по этому пути
// перезаписывается.
func (c *Storage) Upload(ctx context.Context, path string, data []byte) error {
	resp, err := c.req.R().
		SetContext(ctx).
		SetHeader("x-upsert", "true").
		SetContentType("application/pdf").
		SetBodyBytes(data).
		Post("/storage/v1/object/" + c.bucket + "/" + path)
	if err != nil {
		return err
	}

	if resp.IsErrorState() {
		return fmt.Errorf("server responded with status code %d", resp.StatusCode)
	}

	return nil
}
