package marker

import "testing"

func TestPackColor(t *testing.T) {
	cases := []struct {
		name string
		hex  string
		want int32
	}{
		{"red with hash", "#FF0000", 0xFF0000},
		{"green lowercase", "00ff00", 0x00FF00},
		{"blue mixed case", "#0000Ff", 0x0000FF},
		{"white", "#FFFFFF", 0xFFFFFF},
		{"black", "#000000", 0},
		{"empty", "", 0},
		{"short", "#FFF", 0},
		{"not hex", "#GGGGGG", 0},
		{"padded", "  #123456  ", 0x123456},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PackColor(tc.hex); got != tc.want {
				t.Fatalf("PackColor(%q) = %#x, want %#x", tc.hex, got, tc.want)
			}
		})
	}
}

func TestChebyshevXZIgnoresVertical(t *testing.T) {
	a := Position{X: 0, Y: 0, Z: 0}
	b := Position{X: 3, Y: 100, Z: -4}

	if got := a.ChebyshevXZ(b); got != 4 {
		t.Fatalf("expected Chebyshev distance 4, got %f", got)
	}
	if got := b.ChebyshevXZ(a); got != 4 {
		t.Fatalf("expected symmetric distance 4, got %f", got)
	}
}

func TestDistanceToUsesAllAxes(t *testing.T) {
	a := Position{X: 1, Y: 2, Z: 3}
	b := Position{X: 4, Y: 6, Z: 3}

	if got := a.DistanceTo(b); got != 5 {
		t.Fatalf("expected distance 5, got %f", got)
	}
}
