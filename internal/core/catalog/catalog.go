// Package catalog filters, orders and paginates a product collection.
//
// All functions are pure: the input collection is never modified and every
// returned slice is safe for the caller to mutate.
package catalog

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/niksmo/storefront/internal/core/domain"
)

// Filter returns products matching all criteria predicates, in input order.
// The result is a shallow copy: Sizes slices are shared with ps.
//
// Within a predicate the selected values are alternatives: a product matches
// a color, any of its sizes matches a size, its price falls in any range.
func Filter(ps []domain.Product, c domain.FilterCriteria) []domain.Product {
	if c.Empty() {
		return clone(ps)
	}

	colors := toSet(c.Colors)
	sizes := toSet(c.Sizes)

	res := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if matchColor(p, colors) && matchSize(p, sizes) &&
			matchPrice(p, c.PriceRanges) {
			res = append(res, p)
		}
	}
	return res
}

func matchColor(p domain.Product, colors map[string]struct{}) bool {
	if len(colors) == 0 {
		return true
	}
	_, ok := colors[p.Color]
	return ok
}

func matchSize(p domain.Product, sizes map[string]struct{}) bool {
	if len(sizes) == 0 {
		return true
	}
	for _, s := range p.Sizes {
		if _, ok := sizes[s]; ok {
			return true
		}
	}
	return false
}

func matchPrice(p domain.Product, ranges []domain.PriceRange) bool {
	if len(ranges) == 0 {
		return true
	}
	for _, r := range ranges {
		if r.Contains(p.Price) {
			return true
		}
	}
	return false
}

// Order returns a stably sorted shallow copy of ps. [domain.OrderNone] keeps
// input order.
func Order(ps []domain.Product, o domain.Ordering) ([]domain.Product, error) {
	const op = "catalog.Order"

	if !o.Valid() {
		return nil, fmt.Errorf("%s: ordering %s: %w", op, o, domain.ErrInvalidArgument)
	}

	res := clone(ps)

	var compare func(a, b domain.Product) int
	switch o {
	case domain.OrderNone:
		return res, nil
	case domain.OrderMostRecent:
		compare = func(a, b domain.Product) int {
			return b.Date.Compare(a.Date)
		}
	case domain.OrderPriceAsc:
		compare = func(a, b domain.Product) int {
			return cmp.Compare(a.Price, b.Price)
		}
	case domain.OrderPriceDesc:
		compare = func(a, b domain.Product) int {
			return cmp.Compare(b.Price, a.Price)
		}
	}

	slices.SortStableFunc(res, compare)
	return res, nil
}

// Paginate returns the 1-indexed page of ps.
//
// HasMore is derived from the full length of ps, so it is true only when
// items remain after the returned window.
func Paginate(ps []domain.Product, page, pageSize int) (domain.Page, error) {
	const op = "catalog.Paginate"

	if pageSize < 1 {
		return domain.Page{}, fmt.Errorf(
			"%s: page size %d: %w", op, pageSize, domain.ErrInvalidArgument,
		)
	}
	if page < 1 {
		return domain.Page{}, fmt.Errorf(
			"%s: page %d: %w", op, page, domain.ErrInvalidArgument,
		)
	}

	total := len(ps)
	if page-1 > total/pageSize {
		return domain.Page{Items: []domain.Product{}}, nil
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	items := make([]domain.Product, end-start)
	copy(items, ps[start:end])

	return domain.Page{Items: items, HasMore: end < total}, nil
}

// Query is Paginate(Order(Filter(ps))).
func Query(ps []domain.Product, q domain.ProductQuery) (domain.Page, error) {
	const op = "catalog.Query"

	ordered, err := Order(Filter(ps, q.Criteria), q.Ordering)
	if err != nil {
		return domain.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	page, err := Paginate(ordered, q.Page, q.PageSize)
	if err != nil {
		return domain.Page{}, fmt.Errorf("%s: %w", op, err)
	}
	return page, nil
}

func clone(ps []domain.Product) []domain.Product {
	res := make([]domain.Product, len(ps))
	copy(res, ps)
	return res
}

func toSet(vs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		set[v] = struct{}{}
	}
	return set
}
