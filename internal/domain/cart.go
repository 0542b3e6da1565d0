package domain

import (
	"github.com/google/uuid"
)

type Cart struct {
	OwnerID string
	Lines   []CartLine
}

type CartLine struct {
	ProductID uuid.UUID `json:"id"`
	Quantity  int       `json:"qty"`
}

// Line returns the line for productID and its index, or -1 when absent.
func (c Cart) Line(productID uuid.UUID) (CartLine, int) {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return l, i
		}
	}
	return CartLine{}, -1
}

// CopyLines returns a detached copy so callers cannot alias ledger state.
func CopyLines(lines []CartLine) []CartLine {
	if lines == nil {
		return []CartLine{}
	}
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}
