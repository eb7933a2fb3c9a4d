package validator

import (
	"context"
	"reflect"

	v10validator "github.com/go-playground/validator/v10"
	"github.com/ivanpodgorny/doc2pdf/internal/entity"
)

type Validator struct {
	engine Engine
}

type Engine interface {
	StructCtx(ctx context.Context, s any) error
	VarCtx(ctx context.Context, field any, tag string) error
}

func New(e Engine) *Validator {
	return &Validator{engine: e}
}

func (v *Validator) Struct(ctx context.Context, s any) error {
	return v.engine.StructCtx(ctx, s)
}

func (v *Validator) Var(ctx context.Context, field any, tag string) error {
	return v.engine.VarCtx(ctx, field, tag)
}

// Document проверяет, что имя файла имеет расширение поддерживаемого
// формата документа.
func Document(fl v10validator.FieldLevel) bool {
	val := fl.Field()
	if val.Kind() != reflect.String {
		return false
	}

	_, ok := entity.DetectFormat(val.String())

	return ok
}
