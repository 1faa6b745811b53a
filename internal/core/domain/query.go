package domain

import "fmt"

const DefaultPageSize = 9

type Ordering int

const (
	OrderNone Ordering = iota
	OrderMostRecent
	OrderPriceAsc
	OrderPriceDesc
)

var orderingNames = map[Ordering]string{
	OrderNone:       "",
	OrderMostRecent: "recent",
	OrderPriceAsc:   "price_asc",
	OrderPriceDesc:  "price_desc",
}

func ParseOrdering(s string) (Ordering, error) {
	const op = "ParseOrdering"
	for o, name := range orderingNames {
		if name == s {
			return o, nil
		}
	}
	return OrderNone, fmt.Errorf("%s: unknown ordering %q: %w", op, s, ErrInvalidArgument)
}

func (o Ordering) Valid() bool {
	_, ok := orderingNames[o]
	return ok
}

func (o Ordering) String() string {
	if name, ok := orderingNames[o]; ok {
		if name == "" {
			return "none"
		}
		return name
	}
	return fmt.Sprintf("Ordering(%d)", int(o))
}

type ProductQuery struct {
	Criteria FilterCriteria
	Ordering Ordering
	Page     int
	PageSize int
}

type Page struct {
	Items   []Product
	HasMore bool
}
