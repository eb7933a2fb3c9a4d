package entity

import (
	"path/filepath"
	"strings"
	"time"
)

type Order struct {
	ID            string        `json:"id"`
	UserID        string        `json:"-"`
	OriginalPath  string        `json:"original_path"`
	OriginalName  string        `json:"original_name"`
	ConvertedPath string        `json:"converted_path,omitempty"`
	PaymentRef    string        `json:"-"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Status        Status        `json:"status"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	UploadedAt    time.Time     `json:"uploaded_at"`
}

type ConversionJob struct {
	ID string
}

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type Status string

const (
	StatusCreated    Status = "created"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type DocumentFormat string

const (
	FormatDocument    DocumentFormat = "document"
	FormatSpreadsheet DocumentFormat = "spreadsheet"
)

func NewConversionJob(id string) ConversionJob {
	return ConversionJob{ID: id}
}

// DetectFormat определяет формат документа по расширению имени файла.
// Для файлов неподдерживаемых форматов возвращает false.
func DetectFormat(name string) (DocumentFormat, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".doc", ".docx":
		return FormatDocument, true
	case ".xls", ".xlsx":
		return FormatSpreadsheet, true
	}

	return "", false
}
