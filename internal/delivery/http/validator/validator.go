// Package validator plugs go-playground/validator into echo's Validator slot.
package validator

import (
	"strings"

	domainerrors "storefront/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

// CustomValidator adapts the playground validator to echo's interface.
type CustomValidator struct {
	validate *playground.Validate
}

// New creates the validator used by the echo server.
func New() *CustomValidator {
	return &CustomValidator{validate: playground.New()}
}

// Validate checks a bound request DTO. All field failures are flattened into
// one validation error so multi-field mistakes surface in a single response.
func (v *CustomValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !isValidationErrors(err, &fieldErrs) {
		return domainerrors.ErrValidationFailed
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}

	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(msgs, "; "))
}

func isValidationErrors(err error, target *playground.ValidationErrors) bool {
	fieldErrs, ok := err.(playground.ValidationErrors)
	if ok {
		*target = fieldErrs
	}

	return ok
}

func describe(fe playground.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "gte":
		return field + " must be >= " + fe.Param()
	case "lte":
		return field + " must be <= " + fe.Param()
	default:
		return field + " failed " + fe.Tag() + " validation"
	}
}
