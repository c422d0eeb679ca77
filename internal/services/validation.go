package services

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"catalogo/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ProductInput carries the raw form fields of a product, as typed by the user.
type ProductInput struct {
	Code      string `json:"code" validate:"len=5"`
	Name      string `json:"name" validate:"required,max=100"`
	Price     string `json:"price" validate:"required,decimal,nonnegative,maxdecimals=2,maxdigits=8"`
	Available bool   `json:"available"`
}

// updateFields holds the fields that stay editable once the code is locked.
type updateFields struct {
	Name  string `json:"name" validate:"required,max=100"`
	Price string `json:"price" validate:"required,decimal,nonnegative,maxdecimals=2,maxdigits=8"`
}

// FieldError is a single violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated rule of one input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages returns the human readable messages in field order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

// Validator turns a ProductInput into a Product, collecting all violations.
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the decimal rules on a fresh validator instance.
// Prices must fit the decimal(10,2) precio column: at most 2 decimal places
// and 8 integer digits.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})

	// Unparseable values pass every rule but "decimal", which reports them.
	rules := map[string]validator.Func{
		"decimal": func(fl validator.FieldLevel) bool {
			_, err := decimal.NewFromString(fl.Field().String())
			return err == nil
		},
		"nonnegative": decimalRule(func(d decimal.Decimal, _ int) bool {
			return !d.IsNegative()
		}),
		"maxdecimals": decimalRule(func(d decimal.Decimal, places int) bool {
			return d.Equal(d.Truncate(int32(places)))
		}),
		"maxdigits": decimalRule(func(d decimal.Decimal, digits int) bool {
			return d.Abs().LessThan(decimal.New(1, int32(digits)))
		}),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register %s validation: %v", tag, err))
		}
	}
	return &Validator{validate: v}
}

func decimalRule(check func(d decimal.Decimal, param int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return true
		}
		return check(d, paramInt(fl.Param()))
	}
}

// ForCreate validates every field and builds the product to insert.
func (v *Validator) ForCreate(in ProductInput) (models.Product, error) {
	in = normalize(in)
	if err := v.check(v.validate.Struct(in)); err != nil {
		return models.Product{}, err
	}
	return toProduct(in), nil
}

// ForUpdate validates everything but the code, which is locked once a
// product exists, and builds the replacement record for code.
func (v *Validator) ForUpdate(code string, in ProductInput) (models.Product, error) {
	in = normalize(in)
	in.Code = code
	if err := v.check(v.validate.Struct(updateFields{Name: in.Name, Price: in.Price})); err != nil {
		return models.Product{}, err
	}
	return toProduct(in), nil
}

func (v *Validator) check(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate product: %w", err)
	}
	out := &ValidationError{}
	for _, e := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: e.Field(), Message: messageFor(e)})
	}
	return out
}

func messageFor(e validator.FieldError) string {
	switch e.Tag() {
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters long", e.Field(), e.Param())
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", e.Field(), e.Param())
	case "decimal":
		return fmt.Sprintf("%s must be a valid number", e.Field())
	case "nonnegative":
		return fmt.Sprintf("%s must not be negative", e.Field())
	case "maxdecimals":
		return fmt.Sprintf("%s must have at most %s decimal places", e.Field(), e.Param())
	case "maxdigits":
		return fmt.Sprintf("%s must be less than %s", e.Field(), decimal.New(1, int32(paramInt(e.Param()))).String())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", e.Field(), e.Tag())
	}
}

func paramInt(param string) int {
	n, _ := strconv.Atoi(param)
	return n
}

func normalize(in ProductInput) ProductInput {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Price = strings.TrimSpace(in.Price)
	return in
}

func toProduct(in ProductInput) models.Product {
	return models.Product{
		Code:      in.Code,
		Name:      in.Name,
		Price:     decimal.RequireFromString(in.Price),
		Available: in.Available,
	}
}
