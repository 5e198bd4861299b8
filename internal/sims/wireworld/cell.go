package wireworld

import "fmt"

// Kind enumerates the four Wireworld cell states.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindWire
	KindElectron
	KindTail
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindWire:
		return "wire"
	case KindElectron:
		return "electron"
	case KindTail:
		return "tail"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind maps the names produced by Kind.String back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "empty":
		return KindEmpty, nil
	case "wire":
		return KindWire, nil
	case "electron":
		return KindElectron, nil
	case "tail":
		return KindTail, nil
	}
	return KindEmpty, fmt.Errorf("unknown cell kind %q", s)
}

// Cell is one grid position. Fixed cells were placed by the level author and
// cannot be edited by the player; the flag never changes during play.
type Cell struct {
	Kind  Kind
	Fixed bool
}

func (c Cell) String() string {
	if c.Fixed {
		return c.Kind.String() + "(fixed)"
	}
	return c.Kind.String()
}

// With returns the cell switched to kind k, keeping its fixed flag.
func (c Cell) With(k Kind) Cell { return Cell{Kind: k, Fixed: c.Fixed} }

// Convenience constructors mirroring the level file tokens.
func Empty(fixed bool) Cell    { return Cell{Kind: KindEmpty, Fixed: fixed} }
func Wire(fixed bool) Cell     { return Cell{Kind: KindWire, Fixed: fixed} }
func Electron(fixed bool) Cell { return Cell{Kind: KindElectron, Fixed: fixed} }
func Tail(fixed bool) Cell     { return Cell{Kind: KindTail, Fixed: fixed} }

const (
	displayKindMask  = 0x03
	displayFixedBit  = 0x04
	DisplayValueSize = 8
)

// DisplayValue packs a cell into the byte layout used by the renderers.
func (c Cell) DisplayValue() uint8 {
	v := uint8(c.Kind) & displayKindMask
	if c.Fixed {
		v |= displayFixedBit
	}
	return v
}

// CellFromDisplay is the inverse of Cell.DisplayValue.
func CellFromDisplay(v uint8) Cell {
	return Cell{Kind: Kind(v & displayKindMask), Fixed: v&displayFixedBit != 0}
}
