package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorSingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("name", "required")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation: name: required", err.Error())
}

func TestValidationErrorMultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "name", Message: "required"},
		{Field: "status", Message: "must be draft or published"},
	})

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation: 2 errors", err.Error())
	assert.Len(t, err.Errors, 2)
}
