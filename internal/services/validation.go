package services

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tbourn/powerwise-backend/internal/domain"
)

var phoneRE = regexp.MustCompile(`^[\d\s+\-()]+$`)

// Validators are safe for concurrent use and cache struct metadata.
var (
	inputValidator      = newInputValidator()
	completionValidator = newCompletionValidator()
)

// newInputValidator returns a validator that reports JSON field names and
// knows the Nigerian state and phone rules.
func newInputValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("ng_state", func(fl validator.FieldLevel) bool {
		return domain.IsNigerianState(fl.Field().String())
	})
	_ = v.RegisterValidation("ng_phone", func(fl validator.FieldLevel) bool {
		return phoneRE.MatchString(fl.Field().String())
	})
	return v
}
