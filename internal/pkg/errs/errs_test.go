package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryMarksSurviveWrapping(t *testing.T) {
	errRateNotFound := NotFound("exchange rate not found")
	wrapped := fmt.Errorf("convert USD->PHP: %w", errRateNotFound)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.True(t, errors.Is(wrapped, errRateNotFound))
	assert.Equal(t, "not_found", CategoryName(wrapped))
}

func TestCategoryName(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{Validation("bad value"), "validation"},
		{Policy("mandatory component"), "policy_violation"},
		{Integrity("formula failed"), "integrity"},
		{errors.New("boom"), "internal"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CategoryName(c.err))
	}
}
