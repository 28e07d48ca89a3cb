package types

import "testing"

func TestEnumUnmarshalText(t *testing.T) {
	var vt VersionType
	if err := vt.UnmarshalText([]byte("external_gte")); err != nil || vt != VersionTypeExternalGte {
		t.Errorf("VersionType = %q, %v", vt, err)
	}
	if err := vt.UnmarshalText([]byte("sometimes")); err == nil {
		t.Error("expected error for unknown version type")
	}

	var r Refresh
	if err := r.UnmarshalText([]byte("wait_for")); err != nil || r.ParamValue() != "wait_for" {
		t.Errorf("Refresh = %q, %v", r, err)
	}

	var st SearchType
	if err := st.UnmarshalText([]byte("scan")); err == nil {
		t.Error("expected error for unknown search type")
	}

	if err := vt.UnmarshalText([]byte("EXTERNAL")); err != nil || vt != VersionTypeExternal {
		t.Errorf("VersionType(EXTERNAL) = %q, %v, want %q", vt, err, VersionTypeExternal)
	}

	var op OpType
	if err := op.UnmarshalText([]byte("create")); err != nil || op != OpTypeCreate {
		t.Errorf("OpType = %q, %v", op, err)
	}
}
