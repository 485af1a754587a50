// Package validate checks the presence, type and format of request fields
// before anything is persisted. Failures are reported as a FieldErrors map
// keyed by field name (the JSON name unless fieldKeys renames it), never as
// a panic or a bare boolean.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a JSON field name to a human readable message.
type FieldErrors map[string]string

// Error implements error so a FieldErrors can travel through error returns.
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

const passwordSpecials = "@$!%*#?&"

// PasswordMessage is reported for a password that is too weak.
const PasswordMessage = "Password is invalid, should be at least 8 characters with upper and lower case letters, numbers and special characters"

var instance = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "strongpassword", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	mustRegister(v, "date", func(fl validator.FieldLevel) bool {
		return DateFormat(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %q: %v", tag, err))
	}
}

// fieldKeys renames payload fields whose error key differs from their JSON
// name.
var fieldKeys = map[string]string{"user_name": "username"}

func errorKey(field string) string {
	if k, ok := fieldKeys[field]; ok {
		return k
	}
	return field
}

// Struct validates s against its `validate` tags. It returns nil when s is
// valid.
func Struct(s any) FieldErrors {
	err := instance.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"body": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[errorKey(fe.Field())] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	field := errorKey(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Email is invalid"
	case "strongpassword":
		return PasswordMessage
	case "date":
		return field + " must be a valid date/datetime"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// StrongPassword reports whether p is 8 to 20 characters drawn from letters,
// digits and @$!%*#?&, with at least one lower case letter, one upper case
// letter, one digit and one special character.
func StrongPassword(p string) bool {
	if len(p) < 8 || len(p) > 20 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range p {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// DateFormat reports whether s parses as a date or datetime. Many textual
// layouts are accepted ("2006-01-02", "January 2, 2006", RFC 3339, ...).
func DateFormat(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// ParseDate parses s with the same permissive rules as DateFormat.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	return dateparse.ParseAny(s)
}

// DecodeError turns a JSON decoding failure into field errors. Type
// mismatches name the offending field; anything else is reported on "body".
func DecodeError(err error) FieldErrors {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := typeErr.Field
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		field = errorKey(field)
		return FieldErrors{field: field + " must be " + kindName(typeErr.Type.Kind())}
	}
	return FieldErrors{"body": "request body must be a valid JSON object"}
}

func kindName(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Bool:
		return "a boolean"
	case reflect.Float32, reflect.Float64:
		return "a number"
	default:
		return "of type " + k.String()
	}
}
