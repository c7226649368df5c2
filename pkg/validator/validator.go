package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
)

const passwordSpecials = "@$!%*?&"

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so messages line up with request payloads.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return len(PasswordProblems(fl.Field().String())) == 0
	})
	_ = v.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return NameProblem(fl.Field().String()) == ""
	})
	return v
}

// Validate validates a struct using go-playground/validator tags. Slices and
// arrays are validated element by element; non-struct values pass.
func Validate(s any) error {
	v := reflect.ValueOf(s)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return validateStruct(v.Interface())
	case reflect.Slice, reflect.Array:
		var all validator.ValidationErrors
		for i := 0; i < v.Len(); i++ {
			err := Validate(v.Index(i).Interface())
			if err == nil {
				continue
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				return fmt.Errorf("element %d: %w", i, err)
			}
			all = append(all, ve.Errors...)
		}
		if len(all) > 0 {
			return &ValidationError{Errors: all}
		}
	}
	return nil
}

func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return &ValidationError{Errors: validationErrors}
		}
		return err
	}
	return nil
}

// ValidationError wraps validator.ValidationErrors with a user-friendly message.
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("field '%s' %s", err.Field(), msgForTag(err)))
	}
	return strings.Join(msgs, "; ")
}

// Fields returns a map of field names to error messages.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for _, err := range e.Errors {
		fields[err.Field()] = msgForTag(err)
	}
	return fields
}

// AppError converts the failure into a VALIDATION_ERROR with one detail per field.
func (e *ValidationError) AppError() *apperrors.AppError {
	details := make([]apperrors.Detail, 0, len(e.Errors))
	for _, err := range e.Errors {
		details = append(details, apperrors.Detail{Field: err.Field(), Message: msgForTag(err)})
	}
	msg := "validation failed"
	if len(details) > 0 {
		msg = details[0].Message
	}
	return apperrors.Validation(msg, details)
}

// PasswordProblems lists every password rule the value breaks, in the order
// they are presented to the user.
func PasswordProblems(password string) []string {
	var problems []string
	if utf8.RuneCountInString(password) < 8 {
		problems = append(problems, "Password must be at least 8 characters long")
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if !upper {
		problems = append(problems, "Password must contain at least one uppercase letter")
	}
	if !lower {
		problems = append(problems, "Password must contain at least one lowercase letter")
	}
	if !digit {
		problems = append(problems, "Password must contain at least one number")
	}
	if !special {
		problems = append(problems, "Password must contain at least one special character")
	}
	return problems
}

// NameProblem returns the first rule a display name breaks, or "".
func NameProblem(name string) string {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	switch {
	case n == 0:
		return "Name is required"
	case n < 2:
		return "Name must be at least 2 characters long"
	case n > 50:
		return "Name must be less than 50 characters"
	}
	return ""
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "password":
		if problems := PasswordProblems(fe.Value().(string)); len(problems) > 0 {
			return problems[0]
		}
		return "is not a valid password"
	case "person_name":
		return NameProblem(fe.Value().(string))
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}

// DecodeAndValidate reads JSON from the request body, decodes it into dst,
// and validates it.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return Validate(dst)
}
