package pkg

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError(t *testing.T) {
	cause := errors.New("dynamodb timeout")
	e := NewDomainError("INTERNAL_ERROR", "An internal error occurred", cause, http.StatusInternalServerError)

	if !errors.Is(e, cause) {
		t.Fatalf("expected wrapped cause")
	}
	if e.Error() != "INTERNAL_ERROR: An internal error occurred: dynamodb timeout" {
		t.Fatalf("unexpected message: %s", e.Error())
	}

	body := e.ToHTTPError()
	if body.Code != "INTERNAL_ERROR" || body.Message != "An internal error occurred" || body.Details != nil {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAppError_WithDetails(t *testing.T) {
	base := NewDomainErrorSimple("VALIDATION_FAILED", "Validation failed", http.StatusUnprocessableEntity)
	withDetails := base.WithDetails(map[string]any{"missing": []string{"title"}})

	if base.Details != nil {
		t.Fatalf("base error must not be mutated")
	}
	if withDetails.ToHTTPError().Details["missing"] == nil {
		t.Fatalf("expected details in http error")
	}
	if base.Error() != "VALIDATION_FAILED: Validation failed" {
		t.Fatalf("unexpected message: %s", base.Error())
	}
}
