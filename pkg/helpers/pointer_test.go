package helpers

import "testing"

func TestValueOr(t *testing.T) {
	if got := ValueOr[int](nil, 7); got != 7 {
		t.Fatalf("ValueOr(nil) = %d, want 7", got)
	}
	if got := ValueOr(Ptr(3), 7); got != 3 {
		t.Fatalf("ValueOr(3) = %d, want 3", got)
	}
	if got := Value[string](nil); got != "" {
		t.Fatalf("Value(nil) = %q, want empty", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "Nairobi", "Unknown"); got != "Nairobi" {
		t.Fatalf("got %q", got)
	}
	if got := FirstNonEmpty("", ""); got != "" {
		t.Fatalf("got %q", got)
	}
}
