package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ivanpodgorny/doc2pdf/internal/entity"
	inerr "github.com/ivanpodgorny/doc2pdf/internal/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type Order struct {
	db *sql.DB
}

func NewOrder(db *sql.DB) *Order {
	return &Order{db: db}
}

// Create добавляет новый заказ на конвертацию загруженного файла
// с фиксированной стоимостью.
func (r *Order) Create(ctx context.Context, userID, originalPath, originalName string, amount float64, currency string) (entity.Order, error) {
	order := entity.Order{
		UserID:        userID,
		OriginalPath:  originalPath,
		OriginalName:  originalName,
		PaymentStatus: entity.PaymentStatusUnpaid,
		Status:        entity.StatusCreated,
		Amount:        amount,
		Currency:      currency,
	}
	err := r.db.QueryRowContext(ctx, `
INSERT INTO orders (user_id, original_path, original_name, amount, currency)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, uploaded_at
	`, userID, originalPath, originalName, amount, currency).Scan(&order.ID, &order.UploadedAt)

	return order, err
}

// Find возвращает заказ по идентификатору. Если заказ не найден,
// возвращает ошибку errors.ErrOrderNotFound.
func (r *Order) Find(ctx context.Context, id string) (entity.Order, error) {
	var (
		order         = entity.Order{ID: id}
		convertedPath sql.NullString
		paymentRef    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, original_path, original_name, converted_path, payment_ref, payment_status, status, amount, currency, uploaded_at
FROM orders
WHERE id = $1
	`, id).Scan(
		&order.UserID,
		&order.OriginalPath,
		&order.OriginalName,
		&convertedPath,
		&paymentRef,
		&order.PaymentStatus,
		&order.Status,
		&order.Amount,
		&order.Currency,
		&order.UploadedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return order, inerr.ErrOrderNotFound
	}
	if err != nil {
		return order, err
	}

	order.ConvertedPath = convertedPath.String
	order.PaymentRef = paymentRef.String

	return order, nil
}

// FindAllByUserID возвращает список заказов пользователя. Данные отсортированы
// по времени добавления от самых старых к самым новым.
func (r *Order) FindAllByUserID(ctx context.Context, userID string) (orders []entity.Order, err error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, original_name, coalesce(converted_path, ''), payment_status, status, amount, currency, uploaded_at
FROM orders
WHERE user_id = $1
ORDER BY uploaded_at
	`, userID)
	if err != nil {
		return nil, err
	}

	defer func(rows *sql.Rows) {
		err = rows.Close()
	}(rows)

	for rows.Next() {
		order := entity.Order{UserID: userID}
		err = rows.Scan(
			&order.ID,
			&order.OriginalName,
			&order.ConvertedPath,
			&order.PaymentStatus,
			&order.Status,
			&order.Amount,
			&order.Currency,
			&order.UploadedAt,
		)
		if err != nil {
			continue
		}

		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, err
}

// FindPaidUnprocessed возвращает список оплаченных заказов, конвертация которых
// ещё не начиналась.
func (r *Order) FindPaidUnprocessed(ctx context.Context) (orders []entity.Order) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM orders WHERE payment_status = 'paid' AND status = 'created'")
	if err != nil {
		return nil
	}

	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		order := entity.Order{}
		err = rows.Scan(&order.ID)
		if err != nil {
			continue
		}

		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil
	}

	return orders
}

// SetPaymentPending сохраняет идентификатор платежа и переводит заказ в статус
// ожидания оплаты. Условие на текущий статус защищает от конкурирующих
// запросов: если заказ уже оплачен или идентификатор платежа занят другим
// заказом, возвращает ошибку errors.ErrConflict.
func (r *Order) SetPaymentPending(ctx context.Context, id, paymentRef string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders
SET payment_status = 'pending', payment_ref = $1
WHERE id = $2
  AND payment_status IN ('unpaid', 'pending')
	`, paymentRef, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return inerr.ErrConflict
		}

		return err
	}

	return expectUpdated(res)
}

// SetPaid переводит заказ из статуса ожидания оплаты в оплаченный.
func (r *Order) SetPaid(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET payment_status = 'paid' WHERE id = $1 AND payment_status = 'pending'", id)
	if err != nil {
		return err
	}

	return expectUpdated(res)
}

// SetUnpaid возвращает заказ в неоплаченный статус. Повторный вызов для
// неоплаченного заказа завершается успешно, для оплаченного возвращает
// ошибку errors.ErrConflict.
func (r *Order) SetUnpaid(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET payment_status = 'unpaid' WHERE id = $1 AND payment_status IN ('unpaid', 'pending')", id)
	if err != nil {
		return err
	}

	return expectUpdated(res)
}

// SetProcessing берет оплаченный заказ в обработку. Условие на текущий статус
// гарантирует не более одной конвертации на заказ: повторный вызов возвращает
// ошибку errors.ErrConflict.
func (r *Order) SetProcessing(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET status = 'processing' WHERE id = $1 AND status = 'created' AND payment_status = 'paid'", id)
	if err != nil {
		return err
	}

	return expectUpdated(res)
}

// SetCompleted завершает конвертацию заказа и сохраняет путь к готовому файлу.
func (r *Order) SetCompleted(ctx context.Context, id, convertedPath string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET status = 'completed', converted_path = $1 WHERE id = $2 AND status = 'processing'", convertedPath, id)
	if err != nil {
		return err
	}

	return expectUpdated(res)
}

// SetFailed отмечает конвертацию заказа как неудавшуюся.
func (r *Order) SetFailed(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET status = 'failed' WHERE id = $1 AND status = 'processing'", id)
	if err != nil {
		return err
	}

	return expectUpdated(res)
}

func expectUpdated(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return inerr.ErrConflict
	}

	return nil
}
