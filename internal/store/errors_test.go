package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrTaskNotFound", err: ErrTaskNotFound, expected: true},
		{
			name:     "wrapped ErrTaskNotFound",
			err:      fmt.Errorf("failed to get task: %w", ErrTaskNotFound),
			expected: true,
		},
		{
			name:     "StoreError wrapping ErrTaskNotFound",
			err:      NewStoreError("task", "delete", "no rows", ErrTaskNotFound),
			expected: true,
		},
		{name: "ErrTransactionFailed", err: ErrTransactionFailed, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	inner := errors.New("connection reset")
	err := NewStoreError("task", "create", "insert failed", inner)

	assert.Equal(t, "create operation on task failed: insert failed: connection reset", err.Error())
	assert.ErrorIs(t, err, inner)

	bare := NewStoreError("task", "list", "scan failed", nil)
	assert.Equal(t, "list operation on task failed: scan failed", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestErrTaskNotFoundMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "entity not found: task", ErrTaskNotFound.Error())
	assert.ErrorIs(t, ErrTaskNotFound, ErrNotFound)
}
