package wave

import (
	"errors"
	"testing"

	"github.com/sansecio/wavegrep/search"
)

func TestReadValues(t *testing.T) {
	tr := readTestVCD(t)

	samples, err := tr.ReadValues("TOP.data", []uint64{0, 1, 3})
	if err != nil {
		t.Fatalf("ReadValues: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}

	tests := []struct {
		idx  uint64
		time uint64
		want int64
	}{
		{0, 0, 0},
		{1, 10, 0xA5},
		{3, 30, 0xFF},
	}
	for i, tt := range tests {
		s := samples[i]
		if s.Index != tt.idx || s.Time != tt.time || s.Value.Mag.Int64() != tt.want {
			t.Errorf("sample %d: got index %d time %d value %v, want %d/%d/%d",
				i, s.Index, s.Time, s.Value.Mag, tt.idx, tt.time, tt.want)
		}
	}
}

func TestReadValuesErrors(t *testing.T) {
	tr := readTestVCD(t)

	if _, err := tr.ReadValues("TOP.missing", []uint64{0}); err == nil {
		t.Error("expected error for unknown signal")
	}
	if _, err := tr.ReadValues("TOP.data", []uint64{99}); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestSignalEvents(t *testing.T) {
	tr := readTestVCD(t)

	events, err := tr.SignalEvents("TOP.data", 0, 3, search.Unlimited)
	if err != nil {
		t.Fatalf("SignalEvents: %v", err)
	}
	// data changes at 0, 10 and 20; nothing at 30
	wantIdx := []uint64{0, 1, 2}
	wantVal := []int64{0, 0xA5, 0xFF}
	if len(events) != len(wantIdx) {
		t.Fatalf("expected %d events, got %d", len(wantIdx), len(events))
	}
	for i, e := range events {
		if e.Index != wantIdx[i] || e.Value.Mag.Int64() != wantVal[i] {
			t.Errorf("event %d: got index %d value %v, want %d/%d",
				i, e.Index, e.Value.Mag, wantIdx[i], wantVal[i])
		}
	}
}

func TestSignalEventsWindowAndLimit(t *testing.T) {
	tr := readTestVCD(t)

	events, err := tr.SignalEvents("TOP.data", 1, 3, search.Unlimited)
	if err != nil {
		t.Fatalf("SignalEvents: %v", err)
	}
	if len(events) != 2 || events[0].Index != 1 || events[1].Index != 2 {
		t.Errorf("unexpected windowed events %v", events)
	}

	events, err = tr.SignalEvents("TOP.data", 0, 3, 1)
	if err != nil {
		t.Fatalf("SignalEvents: %v", err)
	}
	if len(events) != 1 || events[0].Index != 0 {
		t.Errorf("unexpected limited events %v", events)
	}
}

func TestSignalInfo(t *testing.T) {
	tr := readTestVCD(t)

	v, err := tr.SignalInfo("TOP.cpu.state")
	if err != nil {
		t.Fatalf("SignalInfo: %v", err)
	}
	if v.Path != "TOP.cpu.state" || v.Type != "reg" || v.Width != 4 {
		t.Errorf("unexpected info %+v", v)
	}

	_, err = tr.SignalInfo("TOP.missing")
	var snf *search.SignalNotFoundError
	if !errors.As(err, &snf) {
		t.Fatalf("expected *SignalNotFoundError, got %v", err)
	}
}
