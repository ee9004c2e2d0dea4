package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vecmark/vecmark/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("matrix has no indices")

	if err.Error() != "matrix has no indices" {
		t.Errorf("expected 'matrix has no indices', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("yaml: line 3")
	err := apperr.NewValidationWrap("invalid matrix file", inner)

	if err.Error() != "invalid matrix file: yaml: line 3" {
		t.Errorf("expected 'invalid matrix file: yaml: line 3', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("unknown index type")

	wrapped := fmt.Errorf("select indices: %w", original)
	doubleWrapped := fmt.Errorf("configure run: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "unknown index type" {
		t.Errorf("expected 'unknown index type', got %q", ve.Message)
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("milvus connection failed")
	wrapped := fmt.Errorf("benchmark aborted: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
}

func TestSetupError(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := apperr.NewSetup("milvus", inner)

	if err.Error() != "milvus: connection refused" {
		t.Errorf("expected 'milvus: connection refused', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}

	wrapped := fmt.Errorf("run failed: %w", err)
	var se *apperr.SetupError
	if !errors.As(wrapped, &se) {
		t.Fatal("errors.As should find SetupError through wrapping")
	}
	if se.Stage != "milvus" {
		t.Errorf("expected stage 'milvus', got %q", se.Stage)
	}
}
