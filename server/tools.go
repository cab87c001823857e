package server

// Tool describes one callable tool for tools/list.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func schema(required []string, props map[string]any) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func arrayProp(itemType, desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": itemType},
		"description": desc,
	}
}

var toolList = []Tool{
	{
		Name:        "open_waveform",
		Description: "Open a VCD waveform file and register it for queries.",
		InputSchema: schema([]string{"file_path"}, map[string]any{
			"file_path": prop("string", "Path to the VCD file"),
			"alias":     prop("string", "Registry name for the waveform; defaults to the file name without extension"),
		}),
	},
	{
		Name:        "close_waveform",
		Description: "Close an open waveform and free its data.",
		InputSchema: schema([]string{"waveform_id"}, map[string]any{
			"waveform_id": prop("string", "Waveform alias or id"),
		}),
	},
	{
		Name:        "list_waveforms",
		Description: "List all open waveforms.",
		InputSchema: schema(nil, map[string]any{}),
	},
	{
		Name:        "list_signals",
		Description: "List signal paths in a waveform, optionally filtered by name or hierarchy.",
		InputSchema: schema([]string{"waveform_id"}, map[string]any{
			"waveform_id":      prop("string", "Waveform alias or id"),
			"name_pattern":     prop("string", "Case-insensitive substring to match against signal paths"),
			"name_patterns":    arrayProp("string", "Multiple substrings; a signal matches if any of them does"),
			"name_regex":       prop("string", "Regular expression to match against signal paths"),
			"hierarchy_prefix": prop("string", "Restrict to signals under this dotted scope path"),
			"recursive":        prop("boolean", "Include signals in nested scopes (default true)"),
			"limit":            prop("integer", "Maximum number of results; negative for unlimited"),
		}),
	},
	{
		Name:        "read_signal",
		Description: "Read a signal's value at one or more time indices.",
		InputSchema: schema([]string{"waveform_id", "signal_path"}, map[string]any{
			"waveform_id":  prop("string", "Waveform alias or id"),
			"signal_path":  prop("string", "Full dotted signal path"),
			"time_index":   prop("integer", "Single time index to read"),
			"time_indices": arrayProp("integer", "Multiple time indices to read"),
		}),
	},
	{
		Name:        "get_signal_info",
		Description: "Show a signal's declaration: type and bit width.",
		InputSchema: schema([]string{"waveform_id", "signal_path"}, map[string]any{
			"waveform_id": prop("string", "Waveform alias or id"),
			"signal_path": prop("string", "Full dotted signal path"),
		}),
	},
	{
		Name:        "find_signal_events",
		Description: "List the recorded value changes of one signal within a time-index range.",
		InputSchema: schema([]string{"waveform_id", "signal_path"}, map[string]any{
			"waveform_id": prop("string", "Waveform alias or id"),
			"signal_path": prop("string", "Full dotted signal path"),
			"start_index": prop("integer", "First time index to include; defaults to the start of the waveform"),
			"end_index":   prop("integer", "Last time index to include; defaults to the end of the waveform"),
			"limit":       prop("integer", "Maximum number of events; negative for unlimited"),
		}),
	},
	{
		Name: "find_events",
		Description: "Find time indices where a condition over signals holds. " +
			"Conditions support ==, !=, &, |, ^, ~, &&, ||, !, bit selects like sig[7:0], " +
			"sized literals like 8'hFF, and $past(expr) for the previous time index.",
		InputSchema: schema([]string{"waveform_id", "condition"}, map[string]any{
			"waveform_id": prop("string", "Waveform alias or id"),
			"condition":   prop("string", "Condition expression, e.g. \"top.valid && top.data[7:0] == 8'hA5\""),
			"start_index": prop("integer", "First time index to scan; defaults to the start of the waveform"),
			"end_index":   prop("integer", "Last time index to scan; defaults to the end of the waveform"),
			"limit":       prop("integer", "Maximum number of matches; negative for unlimited"),
		}),
	},
}
