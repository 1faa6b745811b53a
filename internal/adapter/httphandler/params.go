package httphandler

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

const (
	pageParam    = "page"
	perPageParam = "per_page"
	colorParam   = "color"
	sizeParam    = "size"
	priceParam   = "price"
	orderParam   = "order"
)

// parseProductQuery reads the catalog query string.
//
// price is "min-max" or "min-" for an open upper bound.
func parseProductQuery(v url.Values, defaultPageSize int) (domain.ProductQuery, error) {
	q := domain.ProductQuery{Page: 1, PageSize: defaultPageSize}

	var err error
	if s := v.Get(pageParam); s != "" {
		if q.Page, err = strconv.Atoi(s); err != nil {
			return q, fmt.Errorf("%s: %w", pageParam, domain.ErrInvalidArgument)
		}
	}
	if s := v.Get(perPageParam); s != "" {
		if q.PageSize, err = strconv.Atoi(s); err != nil {
			return q, fmt.Errorf("%s: %w", perPageParam, domain.ErrInvalidArgument)
		}
	}

	q.Criteria.Colors = nonEmpty(v[colorParam])
	q.Criteria.Sizes = nonEmpty(v[sizeParam])

	for _, s := range nonEmpty(v[priceParam]) {
		r, err := parsePriceRange(s)
		if err != nil {
			return q, err
		}
		q.Criteria.PriceRanges = append(q.Criteria.PriceRanges, r)
	}

	if q.Ordering, err = domain.ParseOrdering(v.Get(orderParam)); err != nil {
		return q, err
	}
	return q, nil
}

func parsePriceRange(s string) (domain.PriceRange, error) {
	invalid := fmt.Errorf("%s %q: %w", priceParam, s, domain.ErrInvalidArgument)

	fromS, toS, ok := strings.Cut(s, "-")
	if !ok {
		return domain.PriceRange{}, invalid
	}

	from, err := strconv.ParseFloat(strings.TrimSpace(fromS), 64)
	if err != nil || !finite(from) || from < 0 {
		return domain.PriceRange{}, invalid
	}

	toS = strings.TrimSpace(toS)
	if toS == "" {
		return domain.From(from), nil
	}

	to, err := strconv.ParseFloat(toS, 64)
	if err != nil || !finite(to) || to < from {
		return domain.PriceRange{}, invalid
	}
	return domain.Between(from, to), nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func nonEmpty(vs []string) []string {
	var res []string
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}
