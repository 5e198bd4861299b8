package level

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wireworld/internal/core"
	"wireworld/internal/sims/wireworld"
)

// ErrMalformedLevel is matched by every error Parse returns.
var ErrMalformedLevel = errors.New("malformed level")

// ErrMissing reports that the input ended before a required field.
var ErrMissing = errors.New("missing")

// ParseError describes the first field of a level file that could not be
// parsed.
type ParseError struct {
	// Line is the 1-based line number, or 0 when the input ended early.
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("level: line %d: %s: %v", e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("level: %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes every ParseError match ErrMalformedLevel.
func (e *ParseError) Is(target error) bool { return target == ErrMalformedLevel }

// Token returns the level file cell for a row token.
func Token(tok string) wireworld.Cell {
	switch tok {
	case "a":
		return wireworld.Electron(false)
	case "w":
		return wireworld.Wire(false)
	case "A":
		return wireworld.Electron(true)
	case "W":
		return wireworld.Wire(true)
	case "E":
		return wireworld.Empty(true)
	default:
		return wireworld.Empty(false)
	}
}

// Parse reads a level from its text form. No Descriptor is returned unless
// the whole input parsed.
func Parse(text string) (*Descriptor, error) {
	p := newLineParser(text)

	w, h, err := p.size()
	if err != nil {
		return nil, err
	}
	available, err := p.flag("electron available flag")
	if err != nil {
		return nil, err
	}
	size := core.Size{W: w, H: h}
	cells, err := p.rows(size)
	if err != nil {
		return nil, err
	}
	d := &Descriptor{Size: size, ElectronAvailable: available, Cells: cells}

	count, err := p.count("exercise count")
	if err != nil {
		return nil, err
	}
	d.Exercises = make([]Exercise, 0, min(count, p.remaining()))
	for i := 0; i < count; i++ {
		ex, err := p.exercise(i, d)
		if err != nil {
			return nil, err
		}
		d.Exercises = append(d.Exercises, ex)
	}
	return d, nil
}

// ParseReader reads a whole level from r.
func ParseReader(r io.Reader) (*Descriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("level: read: %w", err)
	}
	return Parse(string(data))
}

// ParseFile loads the level stored at path. The descriptor is named after the
// file without its extension.
func ParseFile(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}
	d, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return d, nil
}

// ParseGrid reads exactly size.H rows of cell tokens, the same row syntax a
// level file uses. It is used for player solutions.
func ParseGrid(text string, size core.Size) ([]wireworld.Cell, error) {
	if size.W <= 0 || size.H <= 0 {
		return nil, &ParseError{Field: "grid size", Err: fmt.Errorf("invalid size %dx%d", size.W, size.H)}
	}
	return newLineParser(text).rows(size)
}

type lineParser struct {
	lines []string
	pos   int
}

func newLineParser(text string) *lineParser {
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
		if strings.HasSuffix(text, "\n") {
			lines = lines[:len(lines)-1]
		}
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &lineParser{lines: lines}
}

// next returns the following line and its 1-based number.
func (p *lineParser) next(field string) (string, int, error) {
	if p.pos >= len(p.lines) {
		return "", 0, &ParseError{Field: field, Err: ErrMissing}
	}
	line := p.lines[p.pos]
	p.pos++
	return line, p.pos, nil
}

func (p *lineParser) size() (int, int, error) {
	line, n, err := p.next("size")
	if err != nil {
		return 0, 0, err
	}
	toks := strings.Split(line, " ")
	w, err := parseCount(toks[0])
	if err != nil {
		return 0, 0, &ParseError{Line: n, Field: "width", Err: err}
	}
	if len(toks) < 2 {
		return 0, 0, &ParseError{Line: n, Field: "height", Err: ErrMissing}
	}
	h, err := parseCount(toks[1])
	if err != nil {
		return 0, 0, &ParseError{Line: n, Field: "height", Err: err}
	}
	if w == 0 || h == 0 {
		return 0, 0, &ParseError{Line: n, Field: "size", Err: fmt.Errorf("empty grid %dx%d", w, h)}
	}
	return w, h, nil
}

func (p *lineParser) flag(field string) (bool, error) {
	line, n, err := p.next(field)
	if err != nil {
		return false, err
	}
	switch line {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &ParseError{Line: n, Field: field, Err: fmt.Errorf("want true or false, got %q", line)}
}

func (p *lineParser) rows(size core.Size) ([]wireworld.Cell, error) {
	var cells []wireworld.Cell
	for y := 0; y < size.H; y++ {
		field := fmt.Sprintf("row %d", y)
		line, n, err := p.next(field)
		if err != nil {
			return nil, err
		}
		toks := strings.Split(line, " ")
		if len(toks) < size.W {
			return nil, &ParseError{Line: n, Field: field, Err: fmt.Errorf("got %d cells, want %d", len(toks), size.W)}
		}
		for _, tok := range toks[:size.W] {
			cells = append(cells, Token(tok))
		}
	}
	return cells, nil
}

func (p *lineParser) count(field string) (int, error) {
	line, n, err := p.next(field)
	if err != nil {
		return 0, err
	}
	v, err := parseCount(line)
	if err != nil {
		return 0, &ParseError{Line: n, Field: field, Err: err}
	}
	return v, nil
}

// fields parses the first len(names) space-separated numbers of one line.
func (p *lineParser) fields(field string, names ...string) ([]int, int, error) {
	line, n, err := p.next(field)
	if err != nil {
		return nil, 0, err
	}
	toks := strings.Split(line, " ")
	out := make([]int, len(names))
	for i, name := range names {
		if i >= len(toks) {
			return nil, n, &ParseError{Line: n, Field: field + " " + name, Err: ErrMissing}
		}
		v, err := parseCount(toks[i])
		if err != nil {
			return nil, n, &ParseError{Line: n, Field: field + " " + name, Err: err}
		}
		out[i] = v
	}
	return out, n, nil
}

func (p *lineParser) exercise(id int, d *Descriptor) (Exercise, error) {
	prefix := fmt.Sprintf("exercise %d ", id)
	ex := Exercise{ID: id}

	start := p.pos + 1
	var desc []string
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		p.pos++
		if line == "" {
			break
		}
		desc = append(desc, line)
	}
	if len(desc) == 0 {
		return ex, &ParseError{Line: start, Field: prefix + "description", Err: ErrMissing}
	}
	ex.Description = strings.Join(desc, "\n")

	var err error
	if ex.Timeout, err = p.count(prefix + "timeout"); err != nil {
		return ex, err
	}

	spawns, err := p.count(prefix + "spawn count")
	if err != nil {
		return ex, err
	}
	ex.Spawns = make([]Spawn, 0, min(spawns, p.remaining()))
	for i := 0; i < spawns; i++ {
		field := fmt.Sprintf("%sspawn %d", prefix, i)
		v, n, err := p.fields(field, "instant", "x", "y")
		if err != nil {
			return ex, err
		}
		pos := core.Point{X: v[1], Y: v[2]}
		if !d.Contains(pos) {
			return ex, &ParseError{Line: n, Field: field, Err: fmt.Errorf("position (%d,%d) outside %dx%d grid", pos.X, pos.Y, d.Size.W, d.Size.H)}
		}
		ex.Spawns = append(ex.Spawns, Spawn{Pos: pos, Instant: v[0]})
	}

	outputs, err := p.count(prefix + "output count")
	if err != nil {
		return ex, err
	}
	ex.Outputs = make([]Output, 0, min(outputs, p.remaining()))
	for i := 0; i < outputs; i++ {
		field := fmt.Sprintf("%soutput %d", prefix, i)
		v, n, err := p.fields(field, "from", "until", "x", "y")
		if err != nil {
			return ex, err
		}
		pos := core.Point{X: v[2], Y: v[3]}
		if !d.Contains(pos) {
			return ex, &ParseError{Line: n, Field: field, Err: fmt.Errorf("position (%d,%d) outside %dx%d grid", pos.X, pos.Y, d.Size.W, d.Size.H)}
		}
		ex.Outputs = append(ex.Outputs, Output{Pos: pos, From: v[0], Until: v[1]})
	}
	return ex, nil
}

// parseCount parses a non-negative decimal number. A single leading '+' is
// accepted.
func parseCount(s string) (int, error) {
	digits := strings.TrimPrefix(s, "+")
	v, err := strconv.ParseUint(digits, 10, strconv.IntSize-1)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return int(v), nil
}

func (p *lineParser) remaining() int { return len(p.lines) - p.pos }
