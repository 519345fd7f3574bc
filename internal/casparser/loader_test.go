package casparser

import (
	"errors"
	"strings"
	"testing"

	"casfolio/cas-import/internal/parsererror"
)

func TestOpenDocumentEmptyInput(t *testing.T) {
	_, err := OpenDocument(nil, "")

	var corruptErr *parsererror.CorruptDocumentError
	if !errors.As(err, &corruptErr) {
		t.Fatalf("expected CorruptDocumentError, got %v", err)
	}
}

func TestOpenDocumentGarbageInput(t *testing.T) {
	_, err := OpenDocument([]byte("this is not a pdf at all"), "")

	var corruptErr *parsererror.CorruptDocumentError
	if !errors.As(err, &corruptErr) {
		t.Fatalf("expected CorruptDocumentError, got %v", err)
	}
}

func TestOpenDocumentTruncatedInput(t *testing.T) {
	// A plausible header with nothing behind it. The reader must fail
	// cleanly, never panic through to the caller.
	data := []byte("%PDF-1.4\n" + strings.Repeat("x", 64))

	_, err := OpenDocument(data, "")

	var corruptErr *parsererror.CorruptDocumentError
	if !errors.As(err, &corruptErr) {
		t.Fatalf("expected CorruptDocumentError, got %v", err)
	}
}
