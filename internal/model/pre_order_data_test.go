package model

import (
	"errors"
	"reflect"
	"testing"

	"gorm.io/datatypes"
)

func TestPreOrderData_Validate(t *testing.T) {
	p := &PreOrderData{Fields: datatypes.NewJSONType(map[string]string{
		"name":      "Ivan",
		"complaint": "   ",
	})}

	err := p.Validate([]string{"phone", "name", "complaint"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !reflect.DeepEqual(ve.Missing, []string{"complaint", "phone"}) {
		t.Fatalf("unexpected missing fields: %v", ve.Missing)
	}
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("error must unwrap to ErrValidationFailed")
	}

	if err := p.Validate([]string{"name"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := p.Validate(nil); err != nil {
		t.Fatalf("no required fields must always pass, got %v", err)
	}
}

func TestPreOrderData_ValidateNil(t *testing.T) {
	var p *PreOrderData
	if err := p.Validate([]string{"name"}); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("nil data with required fields must fail, got %v", err)
	}
}

func TestPreOrderData_Merge(t *testing.T) {
	p := &PreOrderData{Fields: datatypes.NewJSONType(map[string]string{"a": "1", "b": "2"})}
	p.Merge(map[string]string{"b": "", "c": "3"})

	want := map[string]string{"a": "1", "c": "3"}
	if got := p.Fields.Data(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Merge = %v, want %v", got, want)
	}
}

func TestDomainConfiguration_RequiredFields(t *testing.T) {
	c := DomainConfiguration{Fields: datatypes.NewJSONType([]FieldDescriptor{
		{Name: "name", Required: true},
		{Name: "comment"},
		{Name: "phone", Required: true},
	})}
	if got := c.RequiredFields(); !reflect.DeepEqual(got, []string{"name", "phone"}) {
		t.Fatalf("RequiredFields = %v", got)
	}
}
