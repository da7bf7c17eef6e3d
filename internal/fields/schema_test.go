package fields

import (
	"errors"
	"testing"

	"github.com/joseph-ayodele/lease-extractor/internal/common"
)

func TestValidateJSONRejectsMissingField(t *testing.T) {
	data := []byte(`{"vehicle_name": "Kia Niro"}`)
	err := ValidateJSON(data)
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateRejectsBadCategory(t *testing.T) {
	rec := NewRecord()
	rec.MaintenanceIncluded = "Maybe"
	if err := Validate(rec); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateRejectsEmptyString(t *testing.T) {
	rec := NewRecord()
	rec.FuelType = ""
	if err := Validate(rec); err == nil {
		t.Fatalf("expected empty fuel type to fail")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if err := ValidateJSON([]byte("not json")); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
