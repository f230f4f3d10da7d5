package db

import (
	"context"
	"errors"
	"testing"
)

func TestError_Unwrap(t *testing.T) {
	err := &Error{Op: OpHSet, Err: context.DeadlineExceeded}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected errors.Is to see the wrapped cause")
	}
	if err.Error() != "HSET: context deadline exceeded" {
		t.Errorf("Error() = %q", err.Error())
	}
}
