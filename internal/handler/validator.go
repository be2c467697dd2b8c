package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator builds a validator with the decimal rules the request DTOs
// use: dgt (decimal > 0) and dgte (decimal >= 0).
func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("dgt", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.Sign() > 0
	})

	_ = v.RegisterValidation("dgte", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.Sign() >= 0
	})

	return v
}
