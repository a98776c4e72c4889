package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every error returned from Struct.
var ErrInvalid = errors.New("invalid field")

// FieldError names the first rule a payload broke. It is meant for logs;
// clients only ever see a generic message.
type FieldError struct {
	Field string
	Rule  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field %q failed %q", ErrInvalid, e.Field, e.Rule)
}

func (e *FieldError) Unwrap() error { return ErrInvalid }

// New builds a validator with the storefront tags registered:
//
//	textlen=MIN-MAX  trimmed, non-blank string of MIN..MAX runes (MAX 0 = unbounded)
//	wholenum         whole number in 0..MaxInt32
//	payment          payment method 1..3
//	twmobile         09 followed by 8 digits
//	emailshape       local@domain.tld
//	password         8-32 chars, digit + lower + upper
//	recipient        2-50 letters or digits
//	https            https:// URL
//	uuidstr          non-blank string parsing as a UUID
//	role             admin | user
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	must(v.RegisterValidation("textlen", func(fl validator.FieldLevel) bool {
		min, max, err := parseRange(fl.Param())
		if err != nil {
			return false
		}
		s, ok := fl.Field().Interface().(string)
		return ok && IsValidString(s, min, max)
	}))
	must(v.RegisterValidation("wholenum", func(fl validator.FieldLevel) bool {
		return asFloat(fl.Field(), IsValidInteger)
	}))
	must(v.RegisterValidation("payment", func(fl validator.FieldLevel) bool {
		return asFloat(fl.Field(), IsValidPaymentMethod)
	}))
	must(v.RegisterValidation("twmobile", stringRule(IsValidTel)))
	must(v.RegisterValidation("emailshape", stringRule(IsValidEmail)))
	must(v.RegisterValidation("password", stringRule(IsValidPassword)))
	must(v.RegisterValidation("recipient", stringRule(IsValidRecipient)))
	must(v.RegisterValidation("https", stringRule(IsValidHTTPS)))
	must(v.RegisterValidation("uuidstr", stringRule(IsValidUUID)))
	must(v.RegisterValidation("role", stringRule(func(s string) bool {
		_, ok := RoleFromString(s)
		return ok
	})))

	return v
}

var std = New()

// Struct validates v with the shared validator and converts the first failure
// into a *FieldError.
func Struct(v any) error {
	return toFieldError(std.Struct(v))
}

// EchoValidator plugs the shared validator into echo.Context.Validate.
type EchoValidator struct{}

func (EchoValidator) Validate(i any) error {
	return Struct(i)
}

func toFieldError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		return &FieldError{Field: field, Rule: fe.Tag()}
	}
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

func stringRule(fn func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && fn(s)
	}
}

func asFloat(f reflect.Value, fn func(float64) bool) bool {
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		return fn(f.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fn(float64(f.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fn(float64(f.Uint()))
	}
	return false
}

func parseRange(p string) (int, int, error) {
	lo, hi, ok := strings.Cut(p, "-")
	if !ok {
		return 0, 0, fmt.Errorf("textlen: bad param %q", p)
	}
	min, err := strconv.Atoi(lo)
	if err != nil {
		return 0, 0, err
	}
	max, err := strconv.Atoi(hi)
	if err != nil {
		return 0, 0, err
	}
	return min, max, nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
