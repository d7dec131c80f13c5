// Package validation wraps go-playground/validator so services report
// failures keyed by the JSON field path the client sent.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct validates s and returns one message per failing field, or nil.
// Keys are dotted JSON paths such as "details[1].offer_type", prefixed with prefix when set.
func Struct(s any, prefix string) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"non_field_errors": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fe.Namespace()
		// Drop the root struct name
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		if _, seen := fields[key]; !seen {
			fields[key] = message(fe)
		}
	}
	return fields
}

// Price checks a money amount against the decimal(10,2) column and the > 0 rule.
// It returns an empty string when the amount is acceptable.
func Price(d decimal.Decimal) string {
	switch {
	case !d.IsPositive():
		return "Ensure this value is greater than 0."
	case !d.Equal(d.Truncate(2)):
		return "Ensure that there are no more than 2 decimal places."
	case d.GreaterThanOrEqual(decimal.New(1, 8)):
		return "Ensure that there are no more than 10 digits in total."
	}
	return ""
}

// Merge copies src into dst and returns dst, allocating it when needed
func Merge(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min", "gte":
		if isString {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Ensure this field has at least %s elements.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max", "lte":
		if isString {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("\"%v\" is not a valid choice.", fe.Value())
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "Passwords must match."
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
	}
}
