package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrorFormatting tests the coded error message format
func TestErrorFormatting(t *testing.T) {
	err := NewError(INVALID_PARAMETER, "n_simulations must be positive")
	assert.Equal(t, "[INVALID_PARAMETER] n_simulations must be positive", err.Error())

	wrapped := WrapError(ASSESSMENT_FAILED, "risk calculation failed", err)
	assert.Equal(t,
		"[ASSESSMENT_FAILED] risk calculation failed: [INVALID_PARAMETER] n_simulations must be positive",
		wrapped.Error())

	formatted := NewErrorf(CONFIG_LOAD_FAILED, "cannot read %q", "maestro.yaml")
	assert.Contains(t, formatted.Error(), `"maestro.yaml"`)
}

// TestErrorUnwrapping tests errors.Is/As support through wrap chains
func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("file not found")
	err := WrapError(CONFIG_LOAD_FAILED, "failed to read config", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))

	// Is matches by code across instances.
	assert.ErrorIs(t, err, NewError(CONFIG_LOAD_FAILED, "different message"))
	assert.NotErrorIs(t, err, NewError(CONFIG_PARSE_FAILED, ""))
}

// TestCodeOf tests code extraction from arbitrary error chains
func TestCodeOf(t *testing.T) {
	inner := NewError(INVALID_DISTRIBUTION, "beta needs bounds")
	chain := fmt.Errorf("outer: %w", WrapError(ASSESSMENT_FAILED, "assessment", inner))

	assert.Equal(t, ASSESSMENT_FAILED, CodeOf(chain))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}
