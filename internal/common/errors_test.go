package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeAndMessageOf(t *testing.T) {
	cause := errors.New("connection refused")
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantMsg  string
		sentinel error
	}{
		{"invalid input", InvalidInput("File is empty"), CodeInvalidInput, "File is empty", ErrInvalidInput},
		{"upstream", Upstream("Failed to extract menu data", cause), CodeUpstream, "Failed to extract menu data", ErrUpstream},
		{"parse", Parse("Failed to parse AI response", cause), CodeParse, "Failed to parse AI response", ErrParse},
		{"storage wrapped", fmt.Errorf("process: %w", Storage("Failed to save menu items", cause)), CodeStorage, "Failed to save menu items", ErrDatabase},
		{"plain error", cause, CodeInternal, "internal error", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, CodeOf(tt.err))
			assert.Equal(t, tt.wantMsg, MessageOf(tt.err))
			if tt.sentinel != nil {
				assert.ErrorIs(t, tt.err, tt.sentinel)
			}
		})
	}
}

func TestAppError_KeepsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Upstream("Failed to extract menu data", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "UPSTREAM_ERROR")
	assert.Contains(t, err.Error(), "timeout")
	assert.NotContains(t, MessageOf(err), "timeout")
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))

	base := errors.New("boom")
	err := WrapError(base, "writing batch")
	assert.EqualError(t, err, "writing batch: boom")
	assert.ErrorIs(t, err, base)
}
