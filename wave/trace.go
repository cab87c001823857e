// Package wave decodes VCD waveform traces and serves per-index signal
// values to the search engine.
package wave

import (
	"math/big"
	"sort"

	"github.com/sansecio/wavegrep/search"
)

// Timescale is the physical duration of one time-table tick.
type Timescale struct {
	Factor uint64
	Unit   string // fs, ps, ns, us, ms, s
}

// Var is a single signal declaration in the trace hierarchy.
type Var struct {
	Name  string
	Type  string // wire, reg, integer, real, ...
	Width uint
	Path  string // dotted full path

	id string // VCD identifier code
}

// Scope is one level of the trace hierarchy.
type Scope struct {
	Name   string
	Scopes []*Scope
	Vars   []*Var
}

// change records one value change of a signal.
type change struct {
	idx uint64 // time-table index
	val *big.Int
}

// Trace is a fully decoded waveform. Traces are immutable once read and
// safe for concurrent use.
type Trace struct {
	Timescale *Timescale
	TimeTable []uint64 // raw tick value per time index
	Scopes    []*Scope

	vars    []*Var
	byPath  map[string]*Var
	changes map[string][]change // VCD id -> ordered changes
}

// Vars returns every signal declaration in hierarchy order.
func (t *Trace) Vars() []*Var { return t.vars }

// NumSamples returns the number of recorded sample points.
func (t *Trace) NumSamples() int { return len(t.TimeTable) }

// FindVar resolves a dotted signal path, or nil if it does not exist.
func (t *Trace) FindVar(path string) *Var { return t.byPath[path] }

// TimeIndexRange implements search.Provider. An empty trace has the
// degenerate range (0, 0).
func (t *Trace) TimeIndexRange() (min, max uint64) {
	if len(t.TimeTable) == 0 {
		return 0, 0
	}
	return 0, uint64(len(t.TimeTable) - 1)
}

// ValueAt implements search.Provider. A signal with no recorded change at
// or before idx reads as zero.
func (t *Trace) ValueAt(path string, idx uint64) (search.Value, error) {
	v := t.byPath[path]
	if v == nil {
		return search.Value{}, &search.SignalNotFoundError{Path: path}
	}
	chs := t.changes[v.id]
	n := sort.Search(len(chs), func(i int) bool { return chs[i].idx > idx })
	if n == 0 {
		return search.Value{Mag: new(big.Int), Width: v.Width}, nil
	}
	return search.NewValue(chs[n-1].val, v.Width), nil
}
