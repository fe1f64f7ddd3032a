package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validationf("id must not be zero"), KindValidation},
		{"not found", NotFoundf("account %d not found", 42), KindNotFound},
		{"business rule", BusinessRulef("card limit reached"), KindBusinessRule},
		{"forbidden", Forbiddenf("principal %d denied", 7), KindAuthorizationDenied},
		{"internal", Internal(errors.New("conn reset"), "store failure"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindOf_ForeignError(t *testing.T) {
	if got := KindOf(errors.New("driver: bad connection")); got != KindInternal {
		t.Errorf("KindOf(foreign error) = %v, want %v", got, KindInternal)
	}
}

func TestPredicates_SurviveWrapping(t *testing.T) {
	base := NotFoundf("card 9 not found")
	wrapped := fmt.Errorf("loading card: %w", base)

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound() = false for wrapped not-found error")
	}
	if IsForbidden(wrapped) {
		t.Error("IsForbidden() = true for wrapped not-found error")
	}
}

func TestInternal_Unwrap(t *testing.T) {
	cause := errors.New("broken pipe")
	err := Internal(cause, "updating account %d", 3)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not reach the wrapped cause")
	}
	if err.Error() != "internal: updating account 3: broken pipe" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestForbiddenIsNotNotFound(t *testing.T) {
	// The guard must never report a denial as absence.
	err := Forbiddenf("card owned by another account")
	if IsNotFound(err) {
		t.Error("authorization denial classified as not-found")
	}
}
