package myvalidate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// New returns a validator that understands decimal amounts and reports
// fields by their form (or json) name instead of the go field name.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterCustomTypeFunc(DecimalValue, decimal.Decimal{}, decimal.NullDecimal{})

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})

	return v
}

// DecimalValue exposes a decimal to the numeric validation tags (gte, lte, ...).
func DecimalValue(v reflect.Value) interface{} {
	switch d := v.Interface().(type) {
	case decimal.Decimal:
		f, _ := d.Float64()
		return f
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		f, _ := d.Decimal.Float64()
		return f
	}
	return nil
}
