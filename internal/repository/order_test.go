package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ivanpodgorny/doc2pdf/internal/entity"
	inerr "github.com/ivanpodgorny/doc2pdf/internal/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_Create(t *testing.T) {
	var (
		ctx          = context.Background()
		id           = "f6ad2375-a844-41e0-a5c8-4875dcc76981"
		userID       = "7d3efd97-c66c-4f26-b2a5-aba0cd041e06"
		originalPath = "uploads/7d3efd97/report.docx"
		originalName = "report.docx"
		amount       = 1.99
		currency     = "USD"
		uploadedAt   = time.Now()
		query        = `
INSERT INTO orders (user_id, original_path, original_name, amount, currency)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, uploaded_at
`
	)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectQuery(query).
		WithArgs(userID, originalPath, originalName, amount, currency).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uploaded_at"}).AddRow(id, uploadedAt))

	order, err := r.Create(ctx, userID, originalPath, originalName, amount, currency)
	assert.NoError(t, err, "успешное добавление заказа")
	assert.Equal(
		t,
		entity.Order{
			ID:            id,
			UserID:        userID,
			OriginalPath:  originalPath,
			OriginalName:  originalName,
			PaymentStatus: entity.PaymentStatusUnpaid,
			Status:        entity.StatusCreated,
			Amount:        amount,
			Currency:      currency,
			UploadedAt:    uploadedAt,
		},
		order,
		"успешное добавление заказа",
	)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_Find(t *testing.T) {
	var (
		ctx           = context.Background()
		id            = "f6ad2375-a844-41e0-a5c8-4875dcc76981"
		nonexistentID = "e9764e79-51a9-49b2-a8f8-7ad05211d28f"
		order         = entity.Order{
			ID:            id,
			UserID:        "7d3efd97-c66c-4f26-b2a5-aba0cd041e06",
			OriginalPath:  "uploads/7d3efd97/report.docx",
			OriginalName:  "report.docx",
			ConvertedPath: "uploads/7d3efd97/report.pdf",
			PaymentRef:    "5O190127TN364715T",
			PaymentStatus: entity.PaymentStatusPaid,
			Status:        entity.StatusCompleted,
			Amount:        1.99,
			Currency:      "USD",
			UploadedAt:    time.Now(),
		}
		query = `
SELECT user_id, original_path, original_name, converted_path, payment_ref, payment_status, status, amount, currency, uploaded_at
FROM orders
WHERE id = $1
`
	)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectQuery(query).
		WithArgs(id).
		WillReturnRows(sqlmock.
			NewRows([]string{"user_id", "original_path", "original_name", "converted_path", "payment_ref", "payment_status", "status", "amount", "currency", "uploaded_at"}).
			AddRow(order.UserID, order.OriginalPath, order.OriginalName, order.ConvertedPath, order.PaymentRef, order.PaymentStatus, order.Status, order.Amount, order.Currency, order.UploadedAt),
		)
	mock.ExpectQuery(query).
		WithArgs(nonexistentID).
		WillReturnError(sqlmock.ErrCancelled)

	foundOrder, err := r.Find(ctx, id)
	assert.NoError(t, err, "успешное получение заказа")
	assert.Equal(t, order, foundOrder, "успешное получение заказа")

	_, err = r.Find(ctx, nonexistentID)
	assert.Error(t, err, "ошибка при получении заказа")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_FindNotExists(t *testing.T) {
	id := "e9764e79-51a9-49b2-a8f8-7ad05211d28f"

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectQuery(`
SELECT user_id, original_path, original_name, converted_path, payment_ref, payment_status, status, amount, currency, uploaded_at
FROM orders
WHERE id = $1
`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err = r.Find(context.Background(), id)
	assert.ErrorIs(t, err, inerr.ErrOrderNotFound, "заказ не найден")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_FindAllByUserID(t *testing.T) {
	var (
		ctx       = context.Background()
		userID    = "7d3efd97-c66c-4f26-b2a5-aba0cd041e06"
		errUserID = "a7a5d3b8-2fd9-4626-a5b5-26ed9f832501"
		orders    = []entity.Order{
			{
				ID:            "f6ad2375-a844-41e0-a5c8-4875dcc76981",
				UserID:        userID,
				OriginalName:  "report.docx",
				PaymentStatus: entity.PaymentStatusUnpaid,
				Status:        entity.StatusCreated,
				Amount:        1.99,
				Currency:      "USD",
				UploadedAt:    time.Now(),
			},
			{
				ID:            "e9764e79-51a9-49b2-a8f8-7ad05211d28f",
				UserID:        userID,
				OriginalName:  "budget.xlsx",
				ConvertedPath: "uploads/7d3efd97/budget.pdf",
				PaymentStatus: entity.PaymentStatusPaid,
				Status:        entity.StatusCompleted,
				Amount:        1.99,
				Currency:      "USD",
				UploadedAt:    time.Now(),
			},
		}
		query = `
SELECT id, original_name, coalesce(converted_path, ''), payment_status, status, amount, currency, uploaded_at
FROM orders
WHERE user_id = $1
ORDER BY uploaded_at
`
	)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	rows := sqlmock.NewRows([]string{"id", "original_name", "converted_path", "payment_status", "status", "amount", "currency", "uploaded_at"})
	for _, o := range orders {
		rows.AddRow(o.ID, o.OriginalName, o.ConvertedPath, o.PaymentStatus, o.Status, o.Amount, o.Currency, o.UploadedAt)
	}
	mock.ExpectQuery(query).
		WithArgs(userID).
		WillReturnRows(rows)
	mock.ExpectQuery(query).
		WithArgs(errUserID).
		WillReturnError(errors.New(""))

	foundOrders, err := r.FindAllByUserID(ctx, userID)
	assert.NoError(t, err, "успешное получение заказов пользователя")
	assert.Equal(t, orders, foundOrders, "успешное получение заказов пользователя")

	_, err = r.FindAllByUserID(ctx, errUserID)
	assert.Error(t, err, "ошибка при получении заказов пользователя")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_FindPaidUnprocessed(t *testing.T) {
	orders := []entity.Order{
		{ID: "f6ad2375-a844-41e0-a5c8-4875dcc76981"},
		{ID: "e9764e79-51a9-49b2-a8f8-7ad05211d28f"},
	}

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	rows := sqlmock.NewRows([]string{"id"})
	for _, o := range orders {
		rows.AddRow(o.ID)
	}
	mock.
		ExpectQuery("SELECT id FROM orders WHERE payment_status = 'paid' AND status = 'created'").
		WillReturnRows(rows)

	assert.Equal(t, orders, r.FindPaidUnprocessed(context.Background()), "успешное получение необработанных заказов")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_SetPaymentPending(t *testing.T) {
	var (
		ctx            = context.Background()
		id             = "f6ad2375-a844-41e0-a5c8-4875dcc76981"
		paidID         = "e9764e79-51a9-49b2-a8f8-7ad05211d28f"
		duplicateRefID = "0ca9b2a0-4a08-4ac9-8ff4-fd9df87b4765"
		paymentRef     = "5O190127TN364715T"
		query          = `
UPDATE orders
SET payment_status = 'pending', payment_ref = $1
WHERE id = $2
  AND payment_status IN ('unpaid', 'pending')
`
	)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectExec(query).
		WithArgs(paymentRef, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs(paymentRef, paidID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(query).
		WithArgs(paymentRef, duplicateRefID).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	assert.NoError(t, r.SetPaymentPending(ctx, id, paymentRef), "успешное сохранение идентификатора платежа")
	assert.ErrorIs(
		t,
		r.SetPaymentPending(ctx, paidID, paymentRef),
		inerr.ErrConflict,
		"попытка изменить оплаченный заказ",
	)
	assert.ErrorIs(
		t,
		r.SetPaymentPending(ctx, duplicateRefID, paymentRef),
		inerr.ErrConflict,
		"идентификатор платежа занят другим заказом",
	)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_SetPaid(t *testing.T) {
	var (
		ctx      = context.Background()
		id       = "f6ad2375-a844-41e0-a5c8-4875dcc76981"
		unpaidID = "e9764e79-51a9-49b2-a8f8-7ad05211d28f"
		query    = "UPDATE orders SET payment_status = 'paid' WHERE id = $1 AND payment_status = 'pending'"
	)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectExec(query).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs(unpaidID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, r.SetPaid(ctx, id), "успешное подтверждение оплаты")
	assert.ErrorIs(t, r.SetPaid(ctx, unpaidID), inerr.ErrConflict, "заказ не ожидает оплаты")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_SetUnpaid(t *testing.T) {
	var (
		ctx    = context.Background()
		id     = "f6ad2375-a844-41e0-a5c8-4875dcc76981"
		paidID = "e9764e79-51a9-49b2-a8f8-7ad05211d28f"
		query  = "UPDATE orders SET payment_status = 'unpaid' WHERE id = $1 AND payment_status IN ('unpaid', 'pending')"
	)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectExec(query).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs(paidID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, r.SetUnpaid(ctx, id), "успешная отмена оплаты")
	assert.ErrorIs(t, r.SetUnpaid(ctx, paidID), inerr.ErrConflict, "попытка отменить оплаченный заказ")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_SetProcessing(t *testing.T) {
	var (
		ctx          = context.Background()
		id           = "f6ad2375-a844-41e0-a5c8-4875dcc76981"
		processingID = "e9764e79-51a9-49b2-a8f8-7ad05211d28f"
		query        = "UPDATE orders SET status = 'processing' WHERE id = $1 AND status = 'created' AND payment_status = 'paid'"
	)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectExec(query).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs(processingID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, r.SetProcessing(ctx, id), "успешное взятие заказа в обработку")
	assert.ErrorIs(t, r.SetProcessing(ctx, processingID), inerr.ErrConflict, "заказ уже в обработке")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_SetCompleted(t *testing.T) {
	var (
		ctx           = context.Background()
		id            = "f6ad2375-a844-41e0-a5c8-4875dcc76981"
		completedID   = "e9764e79-51a9-49b2-a8f8-7ad05211d28f"
		convertedPath = "uploads/7d3efd97/report.pdf"
		query         = "UPDATE orders SET status = 'completed', converted_path = $1 WHERE id = $2 AND status = 'processing'"
	)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectExec(query).
		WithArgs(convertedPath, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs(convertedPath, completedID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, r.SetCompleted(ctx, id, convertedPath), "успешное завершение конвертации")
	assert.ErrorIs(t, r.SetCompleted(ctx, completedID, convertedPath), inerr.ErrConflict, "заказ уже завершен")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrder_SetFailed(t *testing.T) {
	var (
		ctx         = context.Background()
		id          = "f6ad2375-a844-41e0-a5c8-4875dcc76981"
		completedID = "e9764e79-51a9-49b2-a8f8-7ad05211d28f"
		query       = "UPDATE orders SET status = 'failed' WHERE id = $1 AND status = 'processing'"
	)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	r := NewOrder(db)

	mock.ExpectExec(query).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs(completedID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, r.SetFailed(ctx, id), "успешная отметка о неудавшейся конвертации")
	assert.ErrorIs(t, r.SetFailed(ctx, completedID), inerr.ErrConflict, "заказ уже завершен")

	assert.NoError(t, mock.ExpectationsWereMet())
}
