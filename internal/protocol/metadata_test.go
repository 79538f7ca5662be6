package protocol

import "testing"

func TestFieldDescriptorNullable(t *testing.T) {
	optional := &FieldDescriptor{Options: coOptional}
	mandatory := &FieldDescriptor{Options: coMandatory}
	if !optional.Nullable() {
		t.Error("coOptional column should be nullable")
	}
	if mandatory.Nullable() {
		t.Error("coMandatory column should not be nullable")
	}
}

func TestResultSetMetadataRefCounting(t *testing.T) {
	m := &ResultSetMetadata{}
	m.Retain()
	m.Retain()
	if got := m.Release(); got != 1 {
		t.Fatalf("release after 2 retains = %d, want 1", got)
	}
	if got := m.Release(); got != 0 {
		t.Fatalf("release after 1 retain = %d, want 0", got)
	}
}

func TestParameterDescriptorModes(t *testing.T) {
	in := &ParameterDescriptor{Mode: ParamIn}
	out := &ParameterDescriptor{Mode: ParamOut}
	inout := &ParameterDescriptor{Mode: ParamInOut}

	if !in.In() || in.Out() {
		t.Errorf("ParamIn: In=%v Out=%v, want true/false", in.In(), in.Out())
	}
	if out.In() || !out.Out() {
		t.Errorf("ParamOut: In=%v Out=%v, want false/true", out.In(), out.Out())
	}
	if !inout.In() || !inout.Out() {
		t.Errorf("ParamInOut: In=%v Out=%v, want true/true", inout.In(), inout.Out())
	}
}

func TestRowsAffectedTotal(t *testing.T) {
	r := RowsAffected{3, raSuccessNoInfo, 5, raExecutionFailed, 0}
	if got := r.Total(); got != 8 {
		t.Fatalf("Total = %d, want 8", got)
	}
}
