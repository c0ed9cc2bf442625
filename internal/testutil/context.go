package testutil

import (
	"context"
	"testing"
	"time"
)

const defaultTestTimeout = 5 * time.Second

// NewTestContext creates a context with the default test timeout.
func NewTestContext(t *testing.T) context.Context {
	t.Helper()

	return NewTestContextWithTimeout(t, defaultTestTimeout)
}

// NewTestContextWithTimeout creates a context with custom timeout.
func NewTestContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}
