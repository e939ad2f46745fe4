package nbt

import "testing"

func TestMergeToList(t *testing.T) {
	ops := NewTagOps(NewSmallValues())
	tests := []struct {
		name string
		list Tag
		elem Tag
		want Tag
	}{
		{"end", End{}, Int(1), NewList(Int(1))},
		{"list", NewList(String("a")), String("b"), NewList(String("a"), String("b"))},
		{"byte array stays typed", NewByteArray(1), Byte(2), NewByteArray(1, 2)},
		{"byte array falls back", NewByteArray(1), Int(2), NewList(Byte(1), Int(2))},
		{"empty array is generic", NewIntArray(), Int(3), NewList(Int(3))},
		{"long array stays typed", NewLongArray(7), Long(8), NewLongArray(7, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ops.MergeToList(tt.list, tt.elem)
			if err != nil {
				t.Fatalf("MergeToList() error = %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("MergeToList() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := ops.MergeToList(String("x"), Int(1)); err == nil {
		t.Error("MergeToList() on a string succeeded")
	}
}

func TestMergeToListDoesNotMutate(t *testing.T) {
	ops := NewTagOps(nil)
	orig := NewIntArray(1, 2)
	if _, err := ops.MergeToList(orig, Int(3)); err != nil {
		t.Fatal(err)
	}
	if orig.Len() != 2 {
		t.Errorf("input length = %d, want 2", orig.Len())
	}
}

func TestMergeToMapAndRemove(t *testing.T) {
	ops := NewTagOps(nil)
	m, err := ops.MergeToMap(End{}, "a", Int(1))
	if err != nil {
		t.Fatalf("MergeToMap() error = %v", err)
	}
	m2, err := ops.MergeToMap(m, "b", Int(2))
	if err != nil {
		t.Fatalf("MergeToMap() error = %v", err)
	}
	if m.(*Compound).Len() != 1 || m2.(*Compound).Len() != 2 {
		t.Error("MergeToMap() mutated its input")
	}
	if _, err := ops.MergeToMap(Int(1), "a", Int(1)); err == nil {
		t.Error("MergeToMap() on an int succeeded")
	}
	removed := ops.Remove(m2, "a").(*Compound)
	if removed.Contains("a") || !m2.(*Compound).Contains("a") {
		t.Error("Remove() result mismatch")
	}
}

func TestBoolValue(t *testing.T) {
	ops := NewTagOps(nil)
	if b, err := ops.BoolValue(Double(0.5)); err != nil || b {
		t.Errorf("BoolValue(0.5) = %v, %v, want false", b, err)
	}
	if b, err := ops.BoolValue(Short(256)); err != nil || b {
		t.Errorf("BoolValue(256s) = %v, %v, want false", b, err)
	}
	if b, err := ops.BoolValue(Byte(2)); err != nil || !b {
		t.Errorf("BoolValue(2b) = %v, %v, want true", b, err)
	}
	if _, err := ops.BoolValue(String("true")); err == nil {
		t.Error("BoolValue() on a string succeeded")
	}
}

func TestConvertIdentity(t *testing.T) {
	ops := NewTagOps(nil)
	tree := sampleTree()
	got, err := Convert[Tag, Tag](ops, ops, tree)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !Equal(got, tree) {
		t.Error("Convert() through TagOps changed the tree")
	}
	got, err = ConvertTag[Tag](ops, tree)
	if err != nil {
		t.Fatalf("ConvertTag() error = %v", err)
	}
	if !Equal(got, tree) {
		t.Error("ConvertTag() through TagOps changed the tree")
	}
}

func TestListValuesOfArrays(t *testing.T) {
	ops := NewTagOps(nil)
	got, err := ops.ListValues(NewByteArray(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != Byte(2) {
		t.Errorf("ListValues() = %v, want [1 2]", got)
	}
	ints, err := ops.IntListValue(NewList(Byte(1), Short(2)))
	if err != nil {
		t.Fatal(err)
	}
	if len(ints) != 2 || ints[1] != 2 {
		t.Errorf("IntListValue() = %v, want [1 2]", ints)
	}
}
