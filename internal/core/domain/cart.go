package domain

import (
	"slices"
	"strings"
	"time"
)

type CartLine struct {
	ProductID string
	Quantity  int
	UnitPrice float64
}

// A Cart holds at most one line per product id.
type Cart struct {
	Lines map[string]CartLine
}

func NewCart() Cart {
	return Cart{Lines: make(map[string]CartLine)}
}

func (c Cart) Clone() Cart {
	clone := Cart{Lines: make(map[string]CartLine, len(c.Lines))}
	for id, line := range c.Lines {
		clone.Lines[id] = line
	}
	return clone
}

func (c Cart) SortedLines() []CartLine {
	lines := make([]CartLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, line)
	}
	slices.SortFunc(lines, func(a, b CartLine) int {
		return strings.Compare(a.ProductID, b.ProductID)
	})
	return lines
}

// A CartItem is a request to put a product into the cart.
type CartItem struct {
	ProductID string
	UnitPrice float64
	Quantity  int
}

type CartItemAdded struct {
	EventID    string
	ProductID  string
	UnitPrice  float64
	Quantity   int
	TotalItems int
	OccurredAt time.Time
}
