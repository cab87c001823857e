package wave

import (
	"fmt"

	"github.com/sansecio/wavegrep/search"
)

// FormatTime renders a raw time-table tick with its timescale, e.g. "10ns".
func FormatTime(tick uint64, ts *Timescale) string {
	if ts == nil {
		return fmt.Sprintf("%d (unknown timescale)", tick)
	}
	return fmt.Sprintf("%d%s", tick*ts.Factor, ts.Unit)
}

// FormatValue renders a value Verilog-style: binary for widths up to four
// bits, hex above.
func FormatValue(v search.Value) string {
	if v.Width <= 4 {
		return fmt.Sprintf("%d'b%0*b", v.Width, v.Width, v.Mag)
	}
	digits := (v.Width + 3) / 4
	return fmt.Sprintf("%d'h%0*x", v.Width, digits, v.Mag)
}
