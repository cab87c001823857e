package wave

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/sansecio/wavegrep/search"
)

func listPaths(t *testing.T, tr *Trace, opts ListOptions) []string {
	t.Helper()
	paths, err := tr.ListSignals(opts)
	if err != nil {
		t.Fatalf("ListSignals: %v", err)
	}
	return paths
}

func TestListSignalsAll(t *testing.T) {
	tr := readTestVCD(t)
	got := listPaths(t, tr, ListOptions{Recursive: true, Limit: search.Unlimited})
	want := []string{"TOP.clk", "TOP.valid", "TOP.data", "TOP.cpu.state"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestListSignalsPatterns(t *testing.T) {
	tr := readTestVCD(t)

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"case insensitive", []string{"CLK"}, []string{"TOP.clk"}},
		{"mixed case", []string{"Cpu.StAtE"}, []string{"TOP.cpu.state"}},
		{"substring of path", []string{"cpu."}, []string{"TOP.cpu.state"}},
		{"any pattern matches", []string{"clk", "valid"}, []string{"TOP.clk", "TOP.valid"}},
		{"no match", []string{"reset"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := listPaths(t, tr, ListOptions{
				Patterns:  tt.patterns,
				Recursive: true,
				Limit:     search.Unlimited,
			})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestListSignalsRegex(t *testing.T) {
	tr := readTestVCD(t)
	got := listPaths(t, tr, ListOptions{Regex: `state$`, Recursive: true, Limit: search.Unlimited})
	want := []string{"TOP.cpu.state"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := tr.ListSignals(ListOptions{Regex: `(`, Recursive: true, Limit: search.Unlimited}); err == nil {
		t.Error("expected error for invalid regex")
	}
}

func TestListSignalsPrefix(t *testing.T) {
	tr := readTestVCD(t)

	got := listPaths(t, tr, ListOptions{Prefix: "TOP.cpu", Recursive: true, Limit: search.Unlimited})
	want := []string{"TOP.cpu.state"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// non-recursive listing stays at the scope's own level
	got = listPaths(t, tr, ListOptions{Prefix: "TOP", Recursive: false, Limit: search.Unlimited})
	want = []string{"TOP.clk", "TOP.valid", "TOP.data"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// unknown prefix yields an empty listing, not an error
	got = listPaths(t, tr, ListOptions{Prefix: "TOP.gpu", Recursive: true, Limit: search.Unlimited})
	if len(got) != 0 {
		t.Errorf("expected no signals, got %v", got)
	}
}

func TestListSignalsLimit(t *testing.T) {
	tr := readTestVCD(t)

	got := listPaths(t, tr, ListOptions{Recursive: true, Limit: 2})
	want := []string{"TOP.clk", "TOP.valid"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := listPaths(t, tr, ListOptions{Recursive: true, Limit: 0}); len(got) != 0 {
		t.Errorf("expected no signals at limit 0, got %v", got)
	}
}

func TestFindScope(t *testing.T) {
	tr := readTestVCD(t)
	if s := tr.FindScope("TOP.cpu"); s == nil || s.Name != "cpu" {
		t.Errorf("expected scope cpu, got %v", s)
	}
	if s := tr.FindScope("cpu"); s != nil {
		t.Errorf("expected nil for non-root path, got %v", s)
	}
}

func TestListSignalsGolden(t *testing.T) {
	tr := readTestVCD(t)
	paths := listPaths(t, tr, ListOptions{Recursive: true, Limit: search.Unlimited})

	g := goldie.New(t)
	g.Assert(t, "list_signals", []byte(strings.Join(paths, "\n")+"\n"))
}
