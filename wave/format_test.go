package wave

import (
	"math/big"
	"testing"

	"github.com/sansecio/wavegrep/search"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		tick uint64
		ts   *Timescale
		want string
	}{
		{10, &Timescale{Factor: 1, Unit: "ns"}, "10ns"},
		{3, &Timescale{Factor: 100, Unit: "ps"}, "300ps"},
		{0, &Timescale{Factor: 1, Unit: "us"}, "0us"},
		{42, nil, "42 (unknown timescale)"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.tick, tt.ts); got != tt.want {
			t.Errorf("FormatTime(%d, %+v) = %q, want %q", tt.tick, tt.ts, got, tt.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		mag   int64
		width uint
		want  string
	}{
		{1, 1, "1'b1"},
		{0, 1, "1'b0"},
		{5, 4, "4'b0101"},
		{2, 3, "3'b010"},
		{0xA5, 8, "8'ha5"},
		{0x1A2B, 16, "16'h1a2b"},
		{7, 12, "12'h007"},
	}
	for _, tt := range tests {
		v := search.NewValue(big.NewInt(tt.mag), tt.width)
		if got := FormatValue(v); got != tt.want {
			t.Errorf("FormatValue(%d'd%d) = %q, want %q", tt.width, tt.mag, got, tt.want)
		}
	}
}
