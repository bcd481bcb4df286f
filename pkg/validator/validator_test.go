package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mergington/pkg/validator"
)

type request struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
}

func TestValidateRequiredFields(t *testing.T) {
	ctx := context.Background()

	err := validator.Validate(ctx, request{Name: "Chess Club", Email: "a@x.com"})
	assert.NoError(t, err)

	err = validator.Validate(ctx, request{Name: "Chess Club"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), validator.ErrFieldRequired)
}

func TestValidateDoesNotCheckEmailFormat(t *testing.T) {
	// Presence only. Any non-empty string is accepted as an email.
	err := validator.Validate(context.Background(), request{Name: "Chess Club", Email: "not-an-email"})
	assert.NoError(t, err)
}
