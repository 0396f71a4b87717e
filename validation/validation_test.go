package validation

import "testing"

func TestRequired(t *testing.T) {
	v := make(Violations)
	Required("name", "Acme", v)
	Required("email", "   ", v)
	Required("city", "", v)
	if v.Empty() {
		t.Fatal("expected violations")
	}
	if _, ok := v["name"]; ok {
		t.Fatal("name flagged despite value")
	}
	if v["email"] != "required" || v["city"] != "required" {
		t.Fatalf("violations = %+v", v)
	}
}

func TestPositiveFloat(t *testing.T) {
	v := make(Violations)
	PositiveFloat("quantity", 1.5, v)
	PositiveFloat("hours", 0, v)
	PositiveFloat("rate", -3, v)
	if _, ok := v["quantity"]; ok {
		t.Fatal("positive value flagged")
	}
	if v["hours"] != "must_be_positive" || v["rate"] != "must_be_positive" {
		t.Fatalf("violations = %+v", v)
	}
}

func TestRangeFloat(t *testing.T) {
	v := make(Violations)
	RangeFloat("discount", 0, 0, 100, v)
	RangeFloat("discount2", 100, 0, 100, v)
	if !v.Empty() {
		t.Fatalf("bounds are inclusive: %+v", v)
	}
	RangeFloat("low", -0.1, 0, 100, v)
	RangeFloat("high", 100.1, 0, 100, v)
	if v["low"] != "out_of_range" || v["high"] != "out_of_range" {
		t.Fatalf("violations = %+v", v)
	}
}

func TestOneOf(t *testing.T) {
	allowed := []string{"draft", "sent", "paid"}
	v := make(Violations)
	OneOf("status", "sent", allowed, v)
	OneOf("status2", "", allowed, v) // empties are Required's job
	if !v.Empty() {
		t.Fatalf("violations = %+v", v)
	}
	OneOf("status", "archived", allowed, v)
	if v["status"] != "invalid_value" {
		t.Fatalf("violations = %+v", v)
	}
}
