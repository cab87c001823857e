package search

import "math/big"

// Value is a width-tagged arbitrary-precision unsigned integer. The
// magnitude is always below 2^Width; the width bounds bitwise masking and
// zero-extension, never the internal representation. Comparisons and
// boolean results are width-1 values.
type Value struct {
	Mag   *big.Int
	Width uint
}

// NewValue builds a Value, reducing mag modulo 2^width. mag is copied, not
// retained.
func NewValue(mag *big.Int, width uint) Value {
	m := new(big.Int).Set(mag)
	if m.BitLen() > int(width) {
		m.And(m, widthMask(width))
	}
	return Value{Mag: m, Width: width}
}

// Bool is the width-1 encoding of a truth value.
func Bool(b bool) Value {
	if b {
		return Value{Mag: big.NewInt(1), Width: 1}
	}
	return Value{Mag: new(big.Int), Width: 1}
}

// IsTrue reports whether the magnitude is non-zero.
func (v Value) IsTrue() bool { return v.Mag.Sign() != 0 }

// Not inverts every bit within the value's width. The width is unchanged.
func (v Value) Not() Value {
	return Value{Mag: new(big.Int).Xor(v.Mag, widthMask(v.Width)), Width: v.Width}
}

// Bits extracts bits [low..high], producing a value of width high-low+1.
// high must be below the operand's width.
func (v Value) Bits(high, low uint) (Value, error) {
	if high >= v.Width {
		return Value{}, &BitRangeError{High: high, Width: v.Width}
	}
	m := new(big.Int).Rsh(v.Mag, low)
	m.And(m, widthMask(high-low+1))
	return Value{Mag: m, Width: high - low + 1}, nil
}

func widthMask(width uint) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), width)
	return m.Sub(m, big.NewInt(1))
}
