package wave

import (
	"fmt"
	"strings"

	ahocorasick "github.com/pgavlin/aho-corasick"
	regexp "github.com/wasilibs/go-re2"
)

// ListOptions filters the signals returned by ListSignals.
type ListOptions struct {
	// Patterns are case-insensitive substrings; a signal is kept when any
	// of them occurs in its full path.
	Patterns []string

	// Regex, when non-empty, must match the full dotted path.
	Regex string

	// Prefix restricts the listing to the scope at this dotted path. An
	// unknown prefix yields an empty listing.
	Prefix string

	// Recursive includes signals from child scopes.
	Recursive bool

	// Limit caps the number of paths returned; negative means unlimited.
	Limit int
}

// ListSignals returns the dotted paths of signals matching opts, in
// hierarchy order. Substring patterns are matched with a single
// case-insensitive Aho-Corasick automaton over the full path.
func (t *Trace) ListSignals(opts ListOptions) ([]string, error) {
	var matcher *ahocorasick.AhoCorasick
	if len(opts.Patterns) > 0 {
		patterns := make([][]byte, len(opts.Patterns))
		for i, pat := range opts.Patterns {
			patterns[i] = []byte(pat)
		}
		builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
			AsciiCaseInsensitive: true,
			MatchKind:            ahocorasick.StandardMatch,
		})
		ac := builder.BuildByte(patterns)
		matcher = &ac
	}

	var re *regexp.Regexp
	if opts.Regex != "" {
		var err error
		re, err = regexp.Compile(opts.Regex)
		if err != nil {
			return nil, fmt.Errorf("invalid name regex: %w", err)
		}
	}

	var candidates []*Var
	if opts.Prefix != "" {
		scope := t.FindScope(opts.Prefix)
		if scope == nil {
			return nil, nil
		}
		candidates = collectVars(scope, opts.Recursive)
	} else {
		for _, s := range t.Scopes {
			candidates = append(candidates, collectVars(s, opts.Recursive)...)
		}
	}

	var paths []string
	for _, v := range candidates {
		if matcher != nil && !anyMatch(matcher, v.Path) {
			continue
		}
		if re != nil && !re.MatchString(v.Path) {
			continue
		}
		if opts.Limit >= 0 && len(paths) >= opts.Limit {
			break
		}
		paths = append(paths, v.Path)
	}
	return paths, nil
}

// FindScope resolves a dotted scope path, or nil if it does not exist.
func (t *Trace) FindScope(path string) *Scope {
	scopes := t.Scopes
	var cur *Scope
	for _, name := range strings.Split(path, ".") {
		cur = nil
		for _, s := range scopes {
			if s.Name == name {
				cur = s
				break
			}
		}
		if cur == nil {
			return nil
		}
		scopes = cur.Scopes
	}
	return cur
}

func collectVars(s *Scope, recursive bool) []*Var {
	vars := append([]*Var{}, s.Vars...)
	if recursive {
		for _, c := range s.Scopes {
			vars = append(vars, collectVars(c, true)...)
		}
	}
	return vars
}

func anyMatch(ac *ahocorasick.AhoCorasick, path string) bool {
	iter := ac.IterOverlappingByte([]byte(path))
	return iter.Next() != nil
}
