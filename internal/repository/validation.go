package repository

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maxviazov/dispensing-data-access/internal/model"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string {
	parts := make([]string, len(e.fields))
	for i, f := range e.fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, "; "))
}
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInput builds an aggregated validation error, or nil when fe is empty.
func NewInvalidInput(fe ...FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	var v *invalidInputError
	if errors.As(err, &v) {
		return v.Fields()
	}
	return nil
}

// maxQuantityScale is the number of decimal places the quantity columns store.
const maxQuantityScale = 4

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("quantity", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative() && d.Exponent() >= -maxQuantityScale
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		tx := sl.Current().Interface().(model.InventoryTransaction)
		if tx.Type != model.TransactionCount && tx.Quantity.IsZero() {
			sl.ReportError(tx.Quantity, "quantity", "Quantity", "nonzero", "")
		}
	}, model.InventoryTransaction{})
	return v
}

// Validate checks v against its struct tags and returns an ErrInvalidInput carrying one
// FieldError per failed rule.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fe := make([]FieldError, 0, len(verrs))
	for _, ve := range verrs {
		fe = append(fe, FieldError{Field: ve.Field(), Message: ruleMessage(ve)})
	}
	return NewInvalidInput(fe...)
}

func ruleMessage(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + ve.Param() + " characters"
	case "oneof":
		return "must be one of: " + ve.Param()
	case "gte":
		return "must be >= " + ve.Param()
	case "quantity":
		return fmt.Sprintf("must be non-negative with at most %d decimal places", maxQuantityScale)
	case "nonzero":
		return "must not be zero"
	default:
		return "failed " + ve.Tag() + " check"
	}
}

// RequireKey fails with ErrInvalidInput when key is the nil UUID.
func RequireKey(field string, key uuid.UUID) error {
	if key == uuid.Nil {
		return NewInvalidInput(FieldError{Field: field, Message: "is required"})
	}
	return nil
}

// RequireName fails with ErrInvalidInput when name is blank.
func RequireName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return NewInvalidInput(FieldError{Field: field, Message: "is required"})
	}
	return nil
}
