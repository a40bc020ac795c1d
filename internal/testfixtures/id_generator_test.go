package testfixtures

import "testing"

func TestIDGenerator(t *testing.T) {
	gen := NewIDGenerator(0)
	if got := gen.Next(); got != "1" {
		t.Fatalf("first id = %s", got)
	}
	if got := gen.Next(); got != "2" {
		t.Fatalf("second id = %s", got)
	}

	from100 := NewIDGenerator(100)
	if got := from100.Next(); got != "100" {
		t.Fatalf("expected 100, got %s", got)
	}
}
