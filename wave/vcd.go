package wave

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"
)

// ReadVCDFile decodes a VCD waveform file.
func ReadVCDFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadVCD(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadVCD decodes a VCD waveform from r.
func ReadVCD(r io.Reader) (*Trace, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	p := &vcdReader{sc: sc, trace: &Trace{
		byPath:  map[string]*Var{},
		changes: map[string][]change{},
	}}
	if err := p.readHeader(); err != nil {
		return nil, err
	}
	if err := p.readChanges(); err != nil {
		return nil, err
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return p.trace, nil
}

type vcdReader struct {
	sc      *bufio.Scanner
	trace   *Trace
	stack   []*Scope
	prefix  []string
	started bool // saw the first #time marker
}

func (p *vcdReader) next() (string, bool) {
	if p.sc.Scan() {
		return p.sc.Text(), true
	}
	return "", false
}

// skipToEnd consumes tokens up to and including $end.
func (p *vcdReader) skipToEnd() error {
	for {
		tok, ok := p.next()
		if !ok {
			return fmt.Errorf("unterminated directive")
		}
		if tok == "$end" {
			return nil
		}
	}
}

// collectToEnd consumes tokens up to $end and returns them.
func (p *vcdReader) collectToEnd() ([]string, error) {
	var toks []string
	for {
		tok, ok := p.next()
		if !ok {
			return nil, fmt.Errorf("unterminated directive")
		}
		if tok == "$end" {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func (p *vcdReader) readHeader() error {
	for {
		tok, ok := p.next()
		if !ok {
			return fmt.Errorf("missing $enddefinitions")
		}
		switch tok {
		case "$date", "$version", "$comment", "$attrbegin", "$attrend":
			if err := p.skipToEnd(); err != nil {
				return err
			}
		case "$timescale":
			toks, err := p.collectToEnd()
			if err != nil {
				return err
			}
			ts, err := parseTimescale(strings.Join(toks, ""))
			if err != nil {
				return err
			}
			p.trace.Timescale = ts
		case "$scope":
			toks, err := p.collectToEnd()
			if err != nil {
				return err
			}
			if len(toks) != 2 {
				return fmt.Errorf("malformed $scope: %v", toks)
			}
			p.pushScope(toks[1])
		case "$upscope":
			if err := p.skipToEnd(); err != nil {
				return err
			}
			p.popScope()
		case "$var":
			toks, err := p.collectToEnd()
			if err != nil {
				return err
			}
			if err := p.addVar(toks); err != nil {
				return err
			}
		case "$enddefinitions":
			return p.skipToEnd()
		default:
			return fmt.Errorf("unexpected token %q in header", tok)
		}
	}
}

func (p *vcdReader) pushScope(name string) {
	s := &Scope{Name: name}
	if len(p.stack) == 0 {
		p.trace.Scopes = append(p.trace.Scopes, s)
	} else {
		parent := p.stack[len(p.stack)-1]
		parent.Scopes = append(parent.Scopes, s)
	}
	p.stack = append(p.stack, s)
	p.prefix = append(p.prefix, name)
}

func (p *vcdReader) popScope() {
	if len(p.stack) > 0 {
		p.stack = p.stack[:len(p.stack)-1]
		p.prefix = p.prefix[:len(p.prefix)-1]
	}
}

// addVar records a $var declaration: <type> <width> <id> <name> [range].
// Any trailing bit-range token like [7:0] is part of the declaration, not
// the name.
func (p *vcdReader) addVar(toks []string) error {
	if len(toks) < 4 {
		return fmt.Errorf("malformed $var: %v", toks)
	}
	width, err := strconv.ParseUint(toks[1], 10, 32)
	if err != nil || width == 0 {
		return fmt.Errorf("bad $var width %q", toks[1])
	}

	name := toks[3]
	path := name
	if len(p.prefix) > 0 {
		path = strings.Join(p.prefix, ".") + "." + name
	}
	v := &Var{
		Name:  name,
		Type:  toks[0],
		Width: uint(width),
		Path:  path,
		id:    toks[2],
	}
	p.trace.vars = append(p.trace.vars, v)
	p.trace.byPath[v.Path] = v
	if len(p.stack) > 0 {
		s := p.stack[len(p.stack)-1]
		s.Vars = append(s.Vars, v)
	}
	return nil
}

func (p *vcdReader) readChanges() error {
	for {
		tok, ok := p.next()
		if !ok {
			return nil
		}
		switch {
		case tok[0] == '#':
			tick, err := strconv.ParseUint(tok[1:], 10, 64)
			if err != nil {
				return fmt.Errorf("bad time marker %q", tok)
			}
			if !p.started && len(p.trace.TimeTable) == 1 {
				// changes before the first marker landed on an
				// implicit index 0; give it the real tick
				p.trace.TimeTable[0] = tick
			} else {
				p.trace.TimeTable = append(p.trace.TimeTable, tick)
			}
			p.started = true

		case tok[0] == 'b' || tok[0] == 'B':
			id, ok := p.next()
			if !ok {
				return fmt.Errorf("vector change %q missing identifier", tok)
			}
			p.record(id, parseBits(tok[1:]))

		case tok[0] == 'r' || tok[0] == 'R':
			id, ok := p.next()
			if !ok {
				return fmt.Errorf("real change %q missing identifier", tok)
			}
			f, err := strconv.ParseFloat(tok[1:], 64)
			if err != nil {
				return fmt.Errorf("bad real value %q", tok)
			}
			// reals truncate to unsigned integers; negatives clamp to zero
			if f < 0 {
				f = 0
			}
			p.record(id, new(big.Int).SetUint64(uint64(f)))

		case tok[0] == 's' || tok[0] == 'S':
			id, ok := p.next()
			if !ok {
				return fmt.Errorf("string change %q missing identifier", tok)
			}
			p.record(id, parseStringValue(tok[1:]))

		case strings.ContainsRune("01xXzZ", rune(tok[0])):
			// scalar change: the value digit is glued to the identifier
			if len(tok) < 2 {
				return fmt.Errorf("malformed scalar change %q", tok)
			}
			p.record(tok[1:], parseBits(tok[:1]))

		case tok == "$dumpvars", tok == "$dumpall", tok == "$dumpon", tok == "$dumpoff", tok == "$end":
			// dump sections carry ordinary value changes; $end closes them

		case tok == "$comment":
			if err := p.skipToEnd(); err != nil {
				return err
			}

		default:
			return fmt.Errorf("unexpected token %q in value changes", tok)
		}
	}
}

// record appends a change for the signal id at the current time index.
// Changes before the first #marker land on an implicit index 0. A repeated
// change at the same index keeps the last value.
func (p *vcdReader) record(id string, val *big.Int) {
	if len(p.trace.TimeTable) == 0 {
		p.trace.TimeTable = append(p.trace.TimeTable, 0)
	}
	idx := uint64(len(p.trace.TimeTable) - 1)
	chs := p.trace.changes[id]
	if n := len(chs); n > 0 && chs[n-1].idx == idx {
		chs[n-1].val = val
		return
	}
	p.trace.changes[id] = append(chs, change{idx: idx, val: val})
}

// parseBits decodes a VCD bit string. Unknown (x) and high-impedance (z)
// bits read as zero.
func parseBits(s string) *big.Int {
	v := new(big.Int)
	for _, c := range s {
		v.Lsh(v, 1)
		if c == '1' {
			v.SetBit(v, 0, 1)
		}
	}
	return v
}

// parseStringValue maps VCD string values into a numeric reading: boolean
// words and decimal strings keep their value, anything else reads as zero.
func parseStringValue(s string) *big.Int {
	switch strings.ToLower(s) {
	case "1", "true":
		return big.NewInt(1)
	case "0", "false":
		return new(big.Int)
	}
	if v, ok := new(big.Int).SetString(s, 10); ok && v.Sign() >= 0 {
		return v
	}
	return new(big.Int)
}

func parseTimescale(s string) (*Timescale, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	factor, err := strconv.ParseUint(s[:i], 10, 64)
	if i == 0 || err != nil {
		return nil, fmt.Errorf("bad timescale %q", s)
	}
	unit := s[i:]
	switch unit {
	case "fs", "ps", "ns", "us", "ms", "s":
	default:
		return nil, fmt.Errorf("bad timescale unit %q", unit)
	}
	return &Timescale{Factor: factor, Unit: unit}, nil
}
