package search

import (
	"errors"
	"math/big"
	"testing"
)

func TestNewValueMasks(t *testing.T) {
	tests := []struct {
		mag   int64
		width uint
		want  int64
	}{
		{5, 4, 5},
		{255, 4, 15},
		{7, 2, 3},
		{0, 8, 0},
		{1, 1, 1},
	}
	for _, tt := range tests {
		v := NewValue(big.NewInt(tt.mag), tt.width)
		if v.Mag.Int64() != tt.want || v.Width != tt.width {
			t.Errorf("NewValue(%d, %d) = %v (width %d), want %d", tt.mag, tt.width, v.Mag, v.Width, tt.want)
		}
	}
}

func TestNewValueCopies(t *testing.T) {
	mag := big.NewInt(10)
	v := NewValue(mag, 8)
	mag.SetInt64(99)
	if v.Mag.Int64() != 10 {
		t.Errorf("NewValue retained its argument: got %v", v.Mag)
	}
}

func TestBool(t *testing.T) {
	if v := Bool(true); v.Mag.Int64() != 1 || v.Width != 1 {
		t.Errorf("Bool(true) = %v (width %d)", v.Mag, v.Width)
	}
	if v := Bool(false); v.Mag.Sign() != 0 || v.Width != 1 {
		t.Errorf("Bool(false) = %v (width %d)", v.Mag, v.Width)
	}
}

func TestNot(t *testing.T) {
	tests := []struct {
		mag   int64
		width uint
		want  int64
	}{
		{5, 4, 10},  // ~0101 = 1010
		{0, 4, 15},  // ~0000 = 1111
		{255, 8, 0}, // ~11111111 = 0
		{1, 1, 0},
	}
	for _, tt := range tests {
		v := NewValue(big.NewInt(tt.mag), tt.width).Not()
		if v.Mag.Int64() != tt.want || v.Width != tt.width {
			t.Errorf("Not(%d'd%d) = %v (width %d), want %d", tt.width, tt.mag, v.Mag, v.Width, tt.want)
		}
	}
}

func TestBits(t *testing.T) {
	v := NewValue(big.NewInt(0xA5), 8) // 1010 0101

	tests := []struct {
		high, low uint
		want      int64
		width     uint
	}{
		{0, 0, 1, 1},
		{7, 7, 1, 1},
		{3, 0, 5, 4},
		{7, 4, 10, 4},
		{7, 0, 0xA5, 8},
		{5, 2, 9, 4}, // 1001
	}
	for _, tt := range tests {
		got, err := v.Bits(tt.high, tt.low)
		if err != nil {
			t.Fatalf("Bits(%d, %d): %v", tt.high, tt.low, err)
		}
		if got.Mag.Int64() != tt.want || got.Width != tt.width {
			t.Errorf("Bits(%d, %d) = %v (width %d), want %d (width %d)",
				tt.high, tt.low, got.Mag, got.Width, tt.want, tt.width)
		}
	}
}

func TestBitsOutOfRange(t *testing.T) {
	v := NewValue(big.NewInt(0xA5), 8)
	_, err := v.Bits(8, 0)
	if err == nil {
		t.Fatal("expected error for high index at operand width")
	}
	var bre *BitRangeError
	if !errors.As(err, &bre) {
		t.Fatalf("expected *BitRangeError, got %T", err)
	}
	if bre.High != 8 || bre.Width != 8 {
		t.Errorf("unexpected error fields: %+v", bre)
	}
}
