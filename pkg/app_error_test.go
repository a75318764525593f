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
	body := e.ToHTTPError()
	if body.Code != "INTERNAL_ERROR" || body.Details != nil {
		t.Fatalf("unexpected body %+v", body)
	}

	base := NewDomainErrorSimple("VALIDATION_ERROR", "Invalid input", http.StatusBadRequest)
	detailed := base.WithDetails(map[string]string{"currency": "is not supported"})
	if base.Details != nil {
		t.Fatalf("WithDetails must not mutate the receiver")
	}
	if detailed.ToHTTPError().Details["currency"] != "is not supported" || detailed.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected detailed error %+v", detailed)
	}
	if detailed.Error() != "VALIDATION_ERROR: Invalid input" {
		t.Fatalf("unexpected message %q", detailed.Error())
	}
}
