package transport

import (
	"strings"

	"revenue_engine_backend/internal/leads/domain"
	"revenue_engine_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// RegisterValidations installs the tags the lead DTOs rely on.
func RegisterValidations(val *validator.Validator) error {
	if err := val.RegisterValidation("leadstatus", func(fl playground.FieldLevel) bool {
		return domain.Status(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return val.RegisterValidation("notblank", func(fl playground.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}
