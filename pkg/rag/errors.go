package rag

import (
	"context"
	"errors"
	"fmt"
)

// ErrTimeout marks an external embedding or generation call that exceeded its
// deadline. Callers match it with errors.Is to distinguish transient latency
// from malformed output.
var ErrTimeout = errors.New("external call timed out")

// WrapTimeout maps context deadline errors onto ErrTimeout while keeping the
// original error in the chain. Non-deadline errors are wrapped with the
// operation name only.
func WrapTimeout(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
