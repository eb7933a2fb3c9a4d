package worker

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ivanpodgorny/doc2pdf/internal/entity"
	inerr "github.com/ivanpodgorny/doc2pdf/internal/errors"
)

// Converter выполняет конвертацию документов оплаченных заказов в PDF.
// Для выполнения конвертации создается Converter.workersCount воркеров.
// При вызове NewConverter добавляет в очередь оплаченные заказы, обработка
// которых не была завершена до перезапуска сервиса. Перевод заказа в статус
// обработки выполняется условным обновлением, поэтому каждый заказ
// конвертируется не более одного раза.
type Converter struct {
	repository   ConverterRepository
	storage      ObjectStorage
	renderer     DocumentRenderer
	jobs         chan entity.ConversionJob
	wg           *sync.WaitGroup
	workersCount int
}

type ConverterRepository interface {
	Find(ctx context.Context, id string) (entity.Order, error)
	FindPaidUnprocessed(ctx context.Context) []entity.Order
	SetProcessing(ctx context.Context, id string) error
	SetCompleted(ctx context.Context, id, convertedPath string) error
	SetFailed(ctx context.Context, id string) error
}

type ObjectStorage interface {
	Download(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, path string, data []byte) error
}

type DocumentRenderer interface {
	Render(ctx context.Context, name string, data []byte) ([]byte, error)
}

func NewConverter(
	ctx context.Context,
	r ConverterRepository,
	s ObjectStorage,
	d DocumentRenderer,
	j chan entity.ConversionJob,
	wg *sync.WaitGroup,
	w int,
) *Converter {
	converter := &Converter{
		repository:   r,
		storage:      s,
		renderer:     d,
		jobs:         j,
		wg:           wg,
		workersCount: w,
	}

	for _, o := range converter.repository.FindPaidUnprocessed(ctx) {
		go func(order entity.Order) {
			converter.jobs <- entity.NewConversionJob(order.ID)
		}(o)
	}

	return converter
}

func (c *Converter) Do(ctx context.Context) {
	for i := 0; i < c.workersCount; i++ {
		c.wg.Add(1)

		go c.worker(ctx)
	}
}

func (c *Converter) worker(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case j, ok := <-c.jobs:
			if !ok {
				return
			}

			if _, err := c.Convert(ctx, j.ID); err != nil && !errors.Is(err, inerr.ErrConflict) {
				log.Printf("ошибка конвертации документа заказа %s: %v", j.ID, err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Convert выполняет конвертацию документа заказа: скачивает исходный документ,
// преобразует его в PDF, загружает результат в хранилище рядом с исходным
// файлом и возвращает путь к результату. Если заказ уже взят в обработку
// другим воркером, возвращает ошибку errors.ErrConflict без повторной
// конвертации. Отсутствие исходного документа, неподдерживаемый формат
// и ошибки преобразования переводят заказ в статус failed.
func (c *Converter) Convert(ctx context.Context, orderID string) (string, error) {
	order, err := c.repository.Find(ctx, orderID)
	if err != nil {
		return "", err
	}

	if err := c.repository.SetProcessing(ctx, orderID); err != nil {
		return "", err
	}

	data, err := c.storage.Download(ctx, order.OriginalPath)
	if errors.Is(err, inerr.ErrSourceMissing) {
		return "", c.fail(ctx, orderID, err)
	}
	if err != nil {
		return "", err
	}

	if _, ok := entity.DetectFormat(order.OriginalName); !ok {
		return "", c.fail(ctx, orderID, inerr.ErrUnsupportedFormat)
	}

	pdf, err := c.renderer.Render(ctx, order.OriginalName, data)
	if err != nil {
		return "", c.fail(ctx, orderID, errors.Join(inerr.ErrRenderFailed, err))
	}

	// Ошибка загрузки результата не переводит заказ в failed.
	convertedPath := strings.TrimSuffix(order.OriginalPath, filepath.Ext(order.OriginalPath)) + ".pdf"
	if err := c.storage.Upload(ctx, convertedPath, pdf); err != nil {
		return "", err
	}

	if err := c.repository.SetCompleted(ctx, orderID, convertedPath); err != nil {
		return "", err
	}

	return convertedPath, nil
}

func (c *Converter) fail(ctx context.Context, orderID string, convErr error) error {
	if err := c.repository.SetFailed(ctx, orderID); err != nil {
		return errors.Join(convErr, err)
	}

	return convErr
}
