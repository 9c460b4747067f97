package exitcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodexForgeBR/llm-planner/internal/exitcode"
)

func TestExitCodeNames(t *testing.T) {
	tests := []struct {
		code         int
		expectedCode int
		expectedName string
	}{
		{exitcode.Success, 0, "Success"},
		{exitcode.Error, 1, "Error"},
		{exitcode.NoPlan, 2, "NoPlan"},
		{exitcode.Interrupted, 130, "Interrupted"},
	}

	for _, tt := range tests {
		t.Run(tt.expectedName, func(t *testing.T) {
			assert.Equal(t, tt.expectedCode, tt.code)
			assert.Equal(t, tt.expectedName, exitcode.Name(tt.code))
		})
	}
}

func TestUnknownCode(t *testing.T) {
	assert.Equal(t, "unknown", exitcode.Name(42))
}
