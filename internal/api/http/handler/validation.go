package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/dtroode/taskhub-server/internal/apierror"
)

const minPasswordLength = 8

var registerOnce sync.Once

// RegisterValidators installs the custom rules on gin's validator engine
// and makes validation errors report JSON field names. Safe to call more
// than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("password", validatePassword)
	})
}

// validatePassword requires a lowercase and an uppercase letter plus a digit
// or special character.
func validatePassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if utf8.RuneCountInString(s) < minPasswordLength {
		return false
	}

	var lower, upper, other bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r), unicode.IsPunct(r), unicode.IsSymbol(r):
			other = true
		}
	}
	return lower && upper && other
}

// bindJSON decodes the request body into dst and validates it. The body is
// cached on the context, so middleware that read it earlier does not starve
// the handler.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindBodyWith(dst, binding.JSON)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return validationError(verrs)
	}
	return apierror.NewErrValidation(map[string]string{"body": "must be valid JSON"})
}

func bindQuery(c *gin.Context, dst any) error {
	err := c.ShouldBindQuery(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return validationError(verrs)
	}
	return apierror.NewErrValidation(map[string]string{"query": err.Error()})
}

func validationError(verrs validator.ValidationErrors) error {
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = describe(fe)
	}
	return apierror.NewErrValidation(details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "numeric":
		return "must contain digits only"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "password":
		return fmt.Sprintf("must be at least %d characters with a lowercase letter, an uppercase letter and a digit or special character", minPasswordLength)
	case "eqfield":
		return "does not match " + passwordFieldName(fe.Param())
	case "nefield":
		return "must differ from " + passwordFieldName(fe.Param())
	default:
		return "is invalid"
	}
}

func passwordFieldName(structField string) string {
	switch structField {
	case "NewPassword":
		return "new_password"
	case "CurrentPassword":
		return "current_password"
	default:
		return strings.ToLower(structField)
	}
}
