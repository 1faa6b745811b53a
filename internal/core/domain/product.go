package domain

import "time"

type (
	Product struct {
		ID          string
		Name        string
		Image       string
		Price       float64
		Installment Installment
		Color       string
		Sizes       []string
		Date        time.Time
	}

	// An Installment is the financing breakdown shown next to the price.
	// Values are taken from the product source as is.
	Installment struct {
		Count int
		Price float64
	}
)

// A PriceRange matches prices in [Min, Max], or [Min, +inf) when Unbounded.
type PriceRange struct {
	Min       float64
	Max       float64
	Unbounded bool
}

func Between(min, max float64) PriceRange {
	return PriceRange{Min: min, Max: max}
}

func From(min float64) PriceRange {
	return PriceRange{Min: min, Unbounded: true}
}

func (r PriceRange) Contains(price float64) bool {
	if price < r.Min {
		return false
	}
	return r.Unbounded || price <= r.Max
}

// A FilterCriteria is the user selection for one catalog query.
//
// Empty fields put no constraint on the result.
type FilterCriteria struct {
	Colors      []string
	Sizes       []string
	PriceRanges []PriceRange
}

func (c FilterCriteria) Empty() bool {
	return len(c.Colors) == 0 && len(c.Sizes) == 0 && len(c.PriceRanges) == 0
}
