package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zero-day-ai/maestro/internal/types"
)

// Validator validates configuration values.
type Validator interface {
	Validate(cfg *Config) error
}

// validatorImpl implements Validator using go-playground/validator.
type validatorImpl struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator instance.
func NewValidator() Validator {
	return &validatorImpl{
		validate: validator.New(),
	}
}

// Validate validates the configuration and returns detailed error messages.
func (v *validatorImpl) Validate(cfg *Config) error {
	if cfg == nil {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "configuration is nil")
	}

	if err := v.validate.Struct(cfg); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return types.WrapError(types.CONFIG_VALIDATION_FAILED, "validation error", err)
		}

		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, formatValidationError(e))
		}

		return types.NewErrorf(types.CONFIG_VALIDATION_FAILED,
			"configuration validation failed:\n  - %s", strings.Join(messages, "\n  - "))
	}

	// Thresholds must be strictly monotonic so banding is well-defined.
	t := cfg.Scoring.Thresholds
	if !(t.Medium < t.High && t.High < t.Critical) {
		return types.NewErrorf(types.CONFIG_VALIDATION_FAILED,
			"risk thresholds must be strictly increasing (medium=%v, high=%v, critical=%v)",
			t.Medium, t.High, t.Critical)
	}

	// Blend weights must carry some mass.
	if cfg.Scoring.WEIWeight+cfg.Scoring.RPSWeight <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			"scoring.wei_weight and scoring.rps_weight must not both be zero")
	}

	return nil
}

// formatValidationError converts a field validation error into a readable
// message naming the offending field and constraint.
func formatValidationError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())

	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s (got: %v)", field, e.Param(), e.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s (got: %v)", field, e.Param(), e.Value())
	case "lt":
		return fmt.Sprintf("%s must be less than %s (got: %v)", field, e.Param(), e.Value())
	case "lte":
		return fmt.Sprintf("%s must be at most %s (got: %v)", field, e.Param(), e.Value())
	case "len":
		return fmt.Sprintf("%s must have exactly %s entries", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation rule %q", field, e.Tag())
	}
}
