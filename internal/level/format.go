package level

import (
	"strings"

	"wireworld/internal/core"
	"wireworld/internal/sims/wireworld"
)

// TokenFor is the inverse of Token. Tails have no level file token and are
// written as "t" (or "T" when fixed), which reads back as Empty.
func TokenFor(c wireworld.Cell) string {
	var tok string
	switch c.Kind {
	case wireworld.KindWire:
		tok = "w"
	case wireworld.KindElectron:
		tok = "a"
	case wireworld.KindTail:
		tok = "t"
	default:
		if c.Fixed {
			return "E"
		}
		return "."
	}
	if c.Fixed {
		return strings.ToUpper(tok)
	}
	return tok
}

// FormatRows renders cells as level file rows, one string per row.
func FormatRows(cells []wireworld.Cell, size core.Size) []string {
	rows := make([]string, 0, size.H)
	toks := make([]string, size.W)
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			toks[x] = TokenFor(cells[y*size.W+x])
		}
		rows = append(rows, strings.Join(toks, " "))
	}
	return rows
}

// FormatGrid renders cells in the row syntax ParseGrid reads.
func FormatGrid(cells []wireworld.Cell, size core.Size) string {
	return strings.Join(FormatRows(cells, size), "\n") + "\n"
}
