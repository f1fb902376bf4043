package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtailor/contactkit/pkg/validator"
)

func TestApplyCollectsAll(t *testing.T) {
	t.Parallel()

	err := validator.Apply(
		validator.Required("name", ""),
		validator.Required("email", "  "),
		validator.ValidEmail("email", "  "),
		validator.Required("message", "hi"),
	)
	require.Error(t, err)

	errs := validator.ExtractValidationErrors(err)
	require.Len(t, errs, 3)
	assert.Equal(t, []string{"name", "email"}, errs.Fields())
	assert.Equal(t, []string{"field is required", "must be a valid email address"}, errs.Get("email"))
	assert.False(t, errs.Has("message"))
}

func TestApplyFirstStopsAtFirstViolation(t *testing.T) {
	t.Parallel()

	calls := 0
	counting := validator.Rule{
		Check: func() bool {
			calls++
			return false
		},
		Error: validator.ValidationError{Field: "later"},
	}

	err := validator.ApplyFirst(
		validator.Required("name", "Taro"),
		validator.Required("email", ""),
		counting,
	)
	require.Error(t, err)

	errs := validator.ExtractValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
	assert.Zero(t, calls)
}

func TestApplyValid(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(validator.Required("name", "Taro")))
	assert.NoError(t, validator.ApplyFirst(validator.Required("name", "Taro")))
	assert.NoError(t, validator.Apply())
}

func TestValidationErrorsMap(t *testing.T) {
	t.Parallel()

	errs := validator.ValidationErrors{
		{Field: "email", Message: "required"},
		{Field: "email", Message: "invalid"},
		{Field: "name", Message: "required"},
	}

	assert.Equal(t, map[string]string{"email": "required", "name": "required"}, errs.Map())

	first, ok := errs.First()
	require.True(t, ok)
	assert.Equal(t, "email", first.Field)

	_, ok = validator.ValidationErrors{}.First()
	assert.False(t, ok)
}

func TestValidationErrorsAsError(t *testing.T) {
	t.Parallel()

	err := validator.Apply(validator.Required("name", ""))
	wrapped := fmt.Errorf("submit: %w", err)

	assert.True(t, validator.IsValidationError(wrapped))
	assert.True(t, errors.Is(wrapped, validator.ErrValidationFailed))
	assert.Equal(t, "validation failed: name: field is required", err.Error())
	assert.Len(t, validator.ExtractValidationErrors(wrapped), 1)

	assert.False(t, validator.IsValidationError(errors.New("other")))
	assert.Nil(t, validator.ExtractValidationErrors(nil))
}

func TestRuleWithMessage(t *testing.T) {
	t.Parallel()

	rule := validator.Required("name", "").WithMessage("お名前は必須です。")
	err := validator.ApplyFirst(rule)

	errs := validator.ExtractValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "お名前は必須です。", errs[0].Message)
	assert.Equal(t, "validation.required", errs[0].TranslationKey)
}
