package utils

import (
	"errors"
	"testing"
)

func TestWrapProcessError(t *testing.T) {
	original := errors.New("original error")
	err := WrapProcessError("directory walk src", original)

	if got, want := err.Error(), "failed to process directory walk src: original error"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !errors.Is(err, original) {
		t.Error("wrapped error should unwrap to the original")
	}
}
