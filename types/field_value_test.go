package types

import (
	"encoding/json"
	"testing"
)

func TestFieldValue_JSON(t *testing.T) {
	tests := []struct {
		in   string
		kind FieldValueKind
		str  string
	}{
		{`"blue"`, FieldValueString, "blue"},
		{`42`, FieldValueLong, "42"},
		{`-7`, FieldValueLong, "-7"},
		{`1.5`, FieldValueDouble, "1.5"},
		{`true`, FieldValueBool, "true"},
		{`null`, FieldValueNull, "null"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			var v FieldValue
			if err := json.Unmarshal([]byte(tc.in), &v); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if v.Kind() != tc.kind {
				t.Errorf("Kind() = %v, want %v", v.Kind(), tc.kind)
			}
			if v.String() != tc.str {
				t.Errorf("String() = %q, want %q", v.String(), tc.str)
			}
			out, err := json.Marshal(v)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(out) != tc.in {
				t.Errorf("marshal = %s, want %s", out, tc.in)
			}
		})
	}
}

func TestFieldValue_RejectsComposite(t *testing.T) {
	var v FieldValue
	if err := json.Unmarshal([]byte(`{"a":1}`), &v); err == nil {
		t.Error("expected error for object")
	}
	if err := json.Unmarshal([]byte(`[1]`), &v); err == nil {
		t.Error("expected error for array")
	}
}

func TestFieldValue_Accessors(t *testing.T) {
	if s, ok := StringValue("x").Str(); !ok || s != "x" {
		t.Error("Str()")
	}
	if _, ok := StringValue("x").Long(); ok {
		t.Error("string should not report long")
	}
	if d, ok := DoubleValue(2.5).Double(); !ok || d != 2.5 {
		t.Error("Double()")
	}
	if NullValue().Any() != nil {
		t.Error("null Any() should be nil")
	}
}
