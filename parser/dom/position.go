package dom

import "fmt"

// Position is a location in the original input. Line and Column are 1-based,
// Offset is a 0-based byte offset. Positions only make sense relative to the
// document they were produced from.
type Position struct {
	Line   uint
	Column uint
	Offset uint
}

// StartPosition is the position of the first byte of an input.
var StartPosition = Position{Line: 1, Column: 1}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Advance returns the position reached after consuming s starting at p.
// Tabs move the column to the next tab stop; "\n", "\r" and "\r\n" each end
// exactly one line.
func (p Position) Advance(s string, tabStop uint) Position {
	if tabStop == 0 {
		tabStop = 1
	}
	prevCR := false
	for _, r := range s {
		switch r {
		case '\n':
			if !prevCR {
				p.Line++
				p.Column = 1
			}
		case '\r':
			p.Line++
			p.Column = 1
		case '\t':
			p.Column = ((p.Column-1)/tabStop+1)*tabStop + 1
		default:
			p.Column++
		}
		prevCR = r == '\r'
	}
	p.Offset += uint(len(s))
	return p
}
