// Package server exposes waveform search as a set of tools over
// line-delimited JSON-RPC on stdio.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sansecio/wavegrep/ast"
	"github.com/sansecio/wavegrep/parser"
	"github.com/sansecio/wavegrep/search"
	"github.com/sansecio/wavegrep/wave"
)

// Version is reported to clients during initialization.
const Version = "0.1.0"

type openWaveform struct {
	id    string
	alias string
	trace *wave.Trace
}

// Server holds the registry of open waveforms and dispatches tool calls.
// The registry is the only mutable state; each query otherwise runs on
// exclusively-owned data.
type Server struct {
	cfg    Config
	log    *slog.Logger
	parser *parser.Parser

	mu        sync.RWMutex
	waveforms map[string]*openWaveform // keyed by alias and by id
}

// New creates a server with the given limits. A nil logger falls back to
// slog.Default.
func New(cfg Config, log *slog.Logger) (*Server, error) {
	p, err := parser.New()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		log:       log,
		parser:    p,
		waveforms: map[string]*openWaveform{},
	}, nil
}

// ToolResult is the content payload returned by tools/call.
type ToolResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// ContentItem is one block of tool output.
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textResult(format string, args ...any) *ToolResult {
	return &ToolResult{Content: []ContentItem{{Type: "text", Text: fmt.Sprintf(format, args...)}}}
}

func failResult(format string, args ...any) *ToolResult {
	r := textResult(format, args...)
	r.IsError = true
	return r
}

// callTool dispatches a tools/call by name. Domain failures (bad paths,
// malformed conditions) come back as error-flagged tool results; only
// protocol-level problems return an error.
func (s *Server) callTool(name string, args json.RawMessage) (*ToolResult, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	switch name {
	case "open_waveform":
		return s.openWaveformTool(args)
	case "close_waveform":
		return s.closeWaveformTool(args)
	case "list_waveforms":
		return s.listWaveformsTool()
	case "list_signals":
		return s.listSignalsTool(args)
	case "read_signal":
		return s.readSignalTool(args)
	case "get_signal_info":
		return s.signalInfoTool(args)
	case "find_signal_events":
		return s.signalEventsTool(args)
	case "find_events":
		return s.findEventsTool(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func (s *Server) lookup(id string) (*openWaveform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := s.waveforms[id]
	if w == nil {
		return nil, fmt.Errorf("waveform %q not found", id)
	}
	return w, nil
}

func (s *Server) openCount() int {
	ids := map[string]bool{}
	for _, w := range s.waveforms {
		ids[w.id] = true
	}
	return len(ids)
}

type openWaveformArgs struct {
	FilePath string `json:"file_path"`
	Alias    string `json:"alias"`
}

func (s *Server) openWaveformTool(raw json.RawMessage) (*ToolResult, error) {
	var args openWaveformArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("bad open_waveform arguments: %w", err)
	}
	if args.FilePath == "" {
		return failResult("file_path is required"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.MaxOpenWaveforms > 0 && s.openCount() >= s.cfg.MaxOpenWaveforms {
		return failResult("too many open waveforms (max %d)", s.cfg.MaxOpenWaveforms), nil
	}

	alias := args.Alias
	if alias == "" {
		alias = strings.TrimSuffix(filepath.Base(args.FilePath), filepath.Ext(args.FilePath))
	}
	if _, exists := s.waveforms[alias]; exists {
		return failResult("waveform %q is already open", alias), nil
	}

	trace, err := wave.ReadVCDFile(args.FilePath)
	if err != nil {
		return failResult("opening waveform: %v", err), nil
	}

	w := &openWaveform{id: uuid.NewString(), alias: alias, trace: trace}
	s.waveforms[alias] = w
	s.waveforms[w.id] = w
	s.log.Info("opened waveform",
		"alias", alias, "id", w.id,
		"signals", len(trace.Vars()), "samples", trace.NumSamples())
	return textResult("Opened waveform %q (id %s): %d signals, %d sample points",
		alias, w.id, len(trace.Vars()), trace.NumSamples()), nil
}

type waveformArgs struct {
	WaveformID string `json:"waveform_id"`
}

func (s *Server) closeWaveformTool(raw json.RawMessage) (*ToolResult, error) {
	var args waveformArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("bad close_waveform arguments: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.waveforms[args.WaveformID]
	if w == nil {
		return failResult("waveform %q not found", args.WaveformID), nil
	}
	delete(s.waveforms, w.alias)
	delete(s.waveforms, w.id)
	s.log.Info("closed waveform", "alias", w.alias, "id", w.id)
	return textResult("Closed waveform %q", w.alias), nil
}

func (s *Server) listWaveformsTool() (*ToolResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{}
	var lines []string
	for _, w := range s.waveforms {
		if seen[w.id] {
			continue
		}
		seen[w.id] = true
		lines = append(lines, fmt.Sprintf("%s (id %s): %d signals, %d sample points",
			w.alias, w.id, len(w.trace.Vars()), w.trace.NumSamples()))
	}
	if len(lines) == 0 {
		return textResult("No open waveforms"), nil
	}
	sort.Strings(lines)
	return textResult("%s", strings.Join(lines, "\n")), nil
}

type listSignalsArgs struct {
	WaveformID      string   `json:"waveform_id"`
	NamePattern     string   `json:"name_pattern"`
	NamePatterns    []string `json:"name_patterns"`
	NameRegex       string   `json:"name_regex"`
	HierarchyPrefix string   `json:"hierarchy_prefix"`
	Recursive       *bool    `json:"recursive"`
	Limit           *int     `json:"limit"`
}

func (s *Server) listSignalsTool(raw json.RawMessage) (*ToolResult, error) {
	var args listSignalsArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("bad list_signals arguments: %w", err)
	}
	w, err := s.lookup(args.WaveformID)
	if err != nil {
		return failResult("%v", err), nil
	}

	opts := wave.ListOptions{
		Patterns:  args.NamePatterns,
		Regex:     args.NameRegex,
		Prefix:    args.HierarchyPrefix,
		Recursive: true,
		Limit:     search.Unlimited,
	}
	if args.NamePattern != "" {
		opts.Patterns = append(opts.Patterns, args.NamePattern)
	}
	if args.Recursive != nil {
		opts.Recursive = *args.Recursive
	}
	if args.Limit != nil {
		opts.Limit = *args.Limit
	}

	paths, err := w.trace.ListSignals(opts)
	if err != nil {
		return failResult("%v", err), nil
	}
	if len(paths) == 0 {
		return textResult("No signals found"), nil
	}
	return textResult("%s", strings.Join(paths, "\n")), nil
}

type readSignalArgs struct {
	WaveformID  string   `json:"waveform_id"`
	SignalPath  string   `json:"signal_path"`
	TimeIndex   *uint64  `json:"time_index"`
	TimeIndices []uint64 `json:"time_indices"`
}

func (s *Server) readSignalTool(raw json.RawMessage) (*ToolResult, error) {
	var args readSignalArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("bad read_signal arguments: %w", err)
	}
	w, err := s.lookup(args.WaveformID)
	if err != nil {
		return failResult("%v", err), nil
	}

	indices := args.TimeIndices
	if args.TimeIndex != nil {
		indices = append(indices, *args.TimeIndex)
	}
	if len(indices) == 0 {
		return failResult("time_index or time_indices is required"), nil
	}

	samples, err := w.trace.ReadValues(args.SignalPath, indices)
	if err != nil {
		return failResult("%v", err), nil
	}
	return textResult("%s", formatSamples(w.trace, samples)), nil
}

func (s *Server) signalInfoTool(raw json.RawMessage) (*ToolResult, error) {
	var args struct {
		WaveformID string `json:"waveform_id"`
		SignalPath string `json:"signal_path"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("bad get_signal_info arguments: %w", err)
	}
	w, err := s.lookup(args.WaveformID)
	if err != nil {
		return failResult("%v", err), nil
	}

	v, err := w.trace.SignalInfo(args.SignalPath)
	if err != nil {
		return failResult("%v", err), nil
	}
	return textResult("Signal: %s\nType: %s\nWidth: %d bits", v.Path, v.Type, v.Width), nil
}

type signalEventsArgs struct {
	WaveformID string  `json:"waveform_id"`
	SignalPath string  `json:"signal_path"`
	StartIndex *uint64 `json:"start_index"`
	EndIndex   *uint64 `json:"end_index"`
	Limit      *int    `json:"limit"`
}

func (s *Server) signalEventsTool(raw json.RawMessage) (*ToolResult, error) {
	var args signalEventsArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("bad find_signal_events arguments: %w", err)
	}
	w, err := s.lookup(args.WaveformID)
	if err != nil {
		return failResult("%v", err), nil
	}

	start, end := w.trace.TimeIndexRange()
	if args.StartIndex != nil {
		start = *args.StartIndex
	}
	if args.EndIndex != nil {
		end = *args.EndIndex
	}
	limit := s.cfg.DefaultEventLimit
	if args.Limit != nil {
		limit = *args.Limit
	}

	events, err := w.trace.SignalEvents(args.SignalPath, start, end, limit)
	if err != nil {
		return failResult("%v", err), nil
	}
	if len(events) == 0 {
		return textResult("No events found"), nil
	}
	return textResult("%s", formatSamples(w.trace, events)), nil
}

type findEventsArgs struct {
	WaveformID string  `json:"waveform_id"`
	Condition  string  `json:"condition"`
	StartIndex *uint64 `json:"start_index"`
	EndIndex   *uint64 `json:"end_index"`
	Limit      *int    `json:"limit"`
}

func (s *Server) findEventsTool(raw json.RawMessage) (*ToolResult, error) {
	var args findEventsArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("bad find_events arguments: %w", err)
	}
	w, err := s.lookup(args.WaveformID)
	if err != nil {
		return failResult("%v", err), nil
	}

	expr, err := s.parser.Parse(args.Condition)
	if err != nil {
		return failResult("parsing condition: %v", err), nil
	}

	// A path that does not resolve makes the whole query malformed;
	// reject it before scanning rather than at the first index.
	paths := ast.SignalPaths(expr)
	for _, p := range paths {
		if w.trace.FindVar(p) == nil {
			return failResult("signal not found: %s", p), nil
		}
	}

	start, end := w.trace.TimeIndexRange()
	if args.StartIndex != nil {
		start = *args.StartIndex
	}
	if args.EndIndex != nil {
		end = *args.EndIndex
	}
	limit := s.cfg.DefaultEventLimit
	if args.Limit != nil {
		limit = *args.Limit
	}

	indices, err := search.FindEvents(expr, w.trace, start, end, limit)
	if err != nil {
		return failResult("%v", err), nil
	}
	s.log.Info("find_events",
		"waveform", w.alias, "condition", args.Condition,
		"start", start, "end", end, "matches", len(indices))
	if len(indices) == 0 {
		return textResult("No matching events found"), nil
	}

	lines := make([]string, 0, len(indices))
	for _, idx := range indices {
		lines = append(lines, formatEvent(w.trace, idx, paths))
	}
	return textResult("%s", strings.Join(lines, "\n")), nil
}

// formatEvent renders one matching index with the value of every signal
// the condition references.
func formatEvent(t *wave.Trace, idx uint64, paths []string) string {
	values := make([]string, 0, len(paths))
	for _, p := range paths {
		v, err := t.ValueAt(p, idx)
		if err != nil {
			continue
		}
		values = append(values, fmt.Sprintf("%s = %s", p, wave.FormatValue(v)))
	}
	return fmt.Sprintf("Time index %d (%s): %s",
		idx, wave.FormatTime(t.TimeTable[idx], t.Timescale), strings.Join(values, ", "))
}

func formatSamples(t *wave.Trace, samples []wave.Sample) string {
	lines := make([]string, len(samples))
	for i, smp := range samples {
		lines[i] = fmt.Sprintf("Time index %d (%s): %s",
			smp.Index, wave.FormatTime(smp.Time, t.Timescale), wave.FormatValue(smp.Value))
	}
	return strings.Join(lines, "\n")
}
