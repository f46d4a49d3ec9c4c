package xferlib

import "testing"

func TestSizeUnknownRoundTrip(t *testing.T) {
	if !UnknownSize.IsUnknown() {
		t.Fatal("UnknownSize should report IsUnknown")
	}
	if got := UnknownSize.ToUint64(); got != SizeUnknown {
		t.Errorf("ToUint64() = %d, want %d", got, SizeUnknown)
	}
	if got := SizeFromUint64(SizeUnknown); got != UnknownSize {
		t.Errorf("SizeFromUint64(SizeUnknown) = %d, want UnknownSize", got)
	}
}

func TestSizeKnownRoundTrip(t *testing.T) {
	s := SizeFromUint64(1048576)
	if s.IsUnknown() {
		t.Fatal("known size reported as unknown")
	}
	if got := s.ToUint64(); got != 1048576 {
		t.Errorf("ToUint64() = %d, want 1048576", got)
	}
}
