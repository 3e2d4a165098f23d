package utils

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const MaxVersionNameLength = 50

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the process validator with the custom rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = RegisterValidations(validate)
	})
	return validate
}

// RegisterValidations installs the custom tags on v. It is also applied to
// gin's binding engine so request structs can use them.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("versionname", func(fl validator.FieldLevel) bool {
		return ValidVersionName(fl.Field().String())
	})
}

// NormalizeVersionName trims surrounding whitespace.
func NormalizeVersionName(name string) string {
	return strings.TrimSpace(name)
}

// ValidVersionName reports whether the trimmed name is 1-50 runes long and
// free of control characters.
func ValidVersionName(name string) bool {
	name = NormalizeVersionName(name)
	n := utf8.RuneCountInString(name)
	if n == 0 || n > MaxVersionNameLength {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// RegisterGinValidations installs the custom tags on gin's binding engine.
func RegisterGinValidations() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return RegisterValidations(v)
	}
	return nil
}
