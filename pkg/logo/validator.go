// validator.go — Validate decoded logo descriptions before they reach a session.
package logo

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/xob0t/GoLogo/pkg/geometry"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		_ = v.RegisterValidation("color", func(fl validator.FieldLevel) bool {
			_, err := ParseColor(fl.Field().String())
			return err == nil
		})

		v.RegisterStructValidation(func(sl validator.StructLevel) {
			r := sl.Current().Interface().(geometry.AspectRatio)
			if r.B < r.S {
				sl.ReportError(r.B, "B", "b", "gtefield", "S")
			}
			if r.Square() {
				return
			}
			if r.Dir == nil || (!r.Dir.L && !r.Dir.P) {
				sl.ReportError(r.Dir, "Dir", "dir", "orientation", "")
			}
		}, geometry.AspectRatio{})

		validateInst = v
	})
	return validateInst
}

// Validate checks a description and returns a *ValidationError for the
// first broken rule.
func Validate(l *Logo) error {
	if l == nil {
		return &ValidationError{Message: "missing logo"}
	}

	err := validatorInstance().Struct(l)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{Field: fieldPath(fe.Namespace()), Message: describe(fe)}
}

// fieldPath trims the root type name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "color":
		return fmt.Sprintf("invalid color %q", fe.Value())
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min", "max":
		return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	case "gtefield":
		return "bigger side must not be smaller than the smaller side"
	case "orientation":
		return "non-square ratio must allow landscape or portrait"
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
