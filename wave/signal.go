package wave

import (
	"fmt"

	"github.com/sansecio/wavegrep/search"
)

// Sample is a signal value at one recorded time index.
type Sample struct {
	Index uint64
	Time  uint64 // raw time-table tick
	Value search.Value
}

// ReadValues reads a signal's value at each of the given time indices.
func (t *Trace) ReadValues(path string, indices []uint64) ([]Sample, error) {
	if t.FindVar(path) == nil {
		return nil, &search.SignalNotFoundError{Path: path}
	}
	_, maxIdx := t.TimeIndexRange()
	samples := make([]Sample, 0, len(indices))
	for _, idx := range indices {
		if len(t.TimeTable) == 0 || idx > maxIdx {
			return nil, fmt.Errorf("time index %d out of range (max %d)", idx, maxIdx)
		}
		val, err := t.ValueAt(path, idx)
		if err != nil {
			return nil, err
		}
		samples = append(samples, Sample{Index: idx, Time: t.TimeTable[idx], Value: val})
	}
	return samples, nil
}

// SignalEvents returns the recorded value changes of one signal within
// [start, end], capped at limit (negative for unlimited).
func (t *Trace) SignalEvents(path string, start, end uint64, limit int) ([]Sample, error) {
	v := t.FindVar(path)
	if v == nil {
		return nil, &search.SignalNotFoundError{Path: path}
	}
	var events []Sample
	for _, ch := range t.changes[v.id] {
		if ch.idx < start || ch.idx > end {
			continue
		}
		if limit >= 0 && len(events) >= limit {
			break
		}
		events = append(events, Sample{
			Index: ch.idx,
			Time:  t.TimeTable[ch.idx],
			Value: search.NewValue(ch.val, v.Width),
		})
	}
	return events, nil
}

// SignalInfo returns the declaration for a signal path.
func (t *Trace) SignalInfo(path string) (*Var, error) {
	v := t.FindVar(path)
	if v == nil {
		return nil, &search.SignalNotFoundError{Path: path}
	}
	return v, nil
}
