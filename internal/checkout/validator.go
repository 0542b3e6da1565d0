package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nikolayk812/cartsim/internal/domain"
)

// Validator checks buyer fields. An empty accepted set allows any non-empty
// payment method.
type Validator struct {
	validate *validator.Validate
	payments map[string]struct{}
}

func NewValidator(acceptedPayments []string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	payments := make(map[string]struct{}, len(acceptedPayments))
	for _, p := range acceptedPayments {
		if p = strings.TrimSpace(p); p != "" {
			payments[p] = struct{}{}
		}
	}

	return &Validator{validate: v, payments: payments}
}

// Validate expects an already trimmed buyer and returns a
// *domain.ValidationError naming every invalid field.
func (v *Validator) Validate(b domain.Buyer) error {
	var fields []string

	if err := v.validate.Struct(b); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate.Struct: %w", err)
		}
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
	}

	if b.Payment != "" && len(v.payments) > 0 {
		if _, ok := v.payments[b.Payment]; !ok {
			fields = append(fields, "payment")
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}

	return nil
}
