package sizing

import (
	"strings"
	"testing"
)

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   Class
	}{
		{"empty", 0, Class{Tier: XS, Width: 80, Height: 80, CornerRadius: 40, FontScale: 0.75}},
		{"xs_edge", 15, Class{Tier: XS, Width: 80, Height: 80, CornerRadius: 40, FontScale: 0.75}},
		{"s_low", 16, Class{Tier: S, Width: 140, Height: 70, CornerRadius: 35, FontScale: 0.8}},
		{"s_edge", 40, Class{Tier: S, Width: 140, Height: 70, CornerRadius: 35, FontScale: 0.8}},
		{"m", 80, Class{Tier: M, Width: 190, Height: 90, CornerRadius: 45, FontScale: 0.85}},
		{"l", 120, Class{Tier: L, Width: 240, Height: 110, CornerRadius: 55, FontScale: 0.9}},
		{"xl", 121, Class{Tier: XL, Width: 280, Height: 130, CornerRadius: 65, FontScale: 1.0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(strings.Repeat("a", tc.length), Normal)
			if got != tc.want {
				t.Fatalf("Classify(len=%d) = %+v, want %+v", tc.length, got, tc.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	for n := 0; n <= 200; n++ {
		text := strings.Repeat("x", n)
		for _, d := range []Density{Normal, Compact} {
			a := Classify(text, d)
			b := Classify(text, d)
			if a != b {
				t.Fatalf("Classify not pure for len=%d density=%s: %+v vs %+v", n, d, a, b)
			}
		}
	}
}

func TestCompactIsSmaller(t *testing.T) {
	for tier := XS; tier <= XL; tier++ {
		n := normalTable[tier]
		c := compactTable[tier]
		if c.Width >= n.Width || c.Height >= n.Height || c.CornerRadius >= n.CornerRadius {
			t.Fatalf("compact %s not smaller than normal: %+v vs %+v", tier, c, n)
		}
		if r := c.Width / n.Width; r < 0.6 || r > 0.8 {
			t.Fatalf("compact %s width ratio %.2f out of range", tier, r)
		}
	}
}

func TestFontScaleMonotonic(t *testing.T) {
	for _, table := range [][5]Class{normalTable, compactTable} {
		for i := 1; i < len(table); i++ {
			if table[i].FontScale <= table[i-1].FontScale {
				t.Fatalf("font scale not increasing at %s: %v <= %v", table[i].Tier, table[i].FontScale, table[i-1].FontScale)
			}
		}
	}
}

func TestClassifyCountsRunes(t *testing.T) {
	// 15 runes, 45 bytes.
	text := strings.Repeat("ជ", 15)
	if got := Classify(text, Normal).Tier; got != XS {
		t.Fatalf("expected XS for 15 runes, got %s", got)
	}
}

func TestDensityForWidth(t *testing.T) {
	if DensityForWidth(639) != Compact {
		t.Fatalf("expected compact below 640")
	}
	if DensityForWidth(640) != Normal {
		t.Fatalf("expected normal at 640")
	}
}
