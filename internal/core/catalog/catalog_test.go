package catalog_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []domain.Product {
	day := func(d int) time.Time {
		return time.Date(2022, time.May, d, 0, 0, 0, 0, time.UTC)
	}
	return []domain.Product{
		{ID: "1", Color: "Preto", Sizes: []string{"P", "M"}, Price: 15, Date: day(3)},
		{ID: "2", Color: "Branco", Sizes: []string{"G"}, Price: 1000, Date: day(1)},
		{ID: "3", Color: "Azul", Sizes: []string{"M", "GG"}, Price: 5, Date: day(5)},
		{ID: "4", Color: "Preto", Sizes: []string{"U"}, Price: 15, Date: day(2)},
		{ID: "5", Color: "Amarelo", Sizes: []string{"36", "38"}, Price: 250, Date: day(4)},
	}
}

func seqProducts(n int) []domain.Product {
	ps := make([]domain.Product, n)
	for i := range ps {
		ps[i] = domain.Product{ID: strconv.Itoa(i)}
	}
	return ps
}

func ids(ps []domain.Product) []string {
	res := make([]string, len(ps))
	for i, p := range ps {
		res[i] = p.ID
	}
	return res
}

func TestFilter(t *testing.T) {
	t.Run("NoCriteriaReturnsCopy", func(t *testing.T) {
		src := testProducts()
		res := catalog.Filter(src, domain.FilterCriteria{})
		require.Equal(t, src, res)

		res[0].ID = "changed"
		assert.Equal(t, "1", src[0].ID)
	})

	t.Run("Colors", func(t *testing.T) {
		src := testProducts()
		colors := []string{"Preto", "Azul"}
		res := catalog.Filter(src, domain.FilterCriteria{Colors: colors})

		assert.Equal(t, []string{"1", "3", "4"}, ids(res))
		for _, p := range res {
			assert.Contains(t, colors, p.Color)
		}
	})

	t.Run("AnySizeMatches", func(t *testing.T) {
		res := catalog.Filter(testProducts(), domain.FilterCriteria{
			Sizes: []string{"M", "38"},
		})
		assert.Equal(t, []string{"1", "3", "5"}, ids(res))
	})

	t.Run("PriceRangesAreDisjunctive", func(t *testing.T) {
		res := catalog.Filter(testProducts(), domain.FilterCriteria{
			PriceRanges: []domain.PriceRange{
				domain.From(10),
				domain.Between(10, 20),
			},
		})
		assert.Equal(t, []string{"1", "2", "4", "5"}, ids(res))
	})

	t.Run("RangeBoundsAreInclusive", func(t *testing.T) {
		res := catalog.Filter(testProducts(), domain.FilterCriteria{
			PriceRanges: []domain.PriceRange{domain.Between(5, 15)},
		})
		assert.Equal(t, []string{"1", "3", "4"}, ids(res))
	})

	t.Run("PredicatesAreConjunctive", func(t *testing.T) {
		res := catalog.Filter(testProducts(), domain.FilterCriteria{
			Colors:      []string{"Preto"},
			Sizes:       []string{"M"},
			PriceRanges: []domain.PriceRange{domain.Between(0, 50)},
		})
		assert.Equal(t, []string{"1"}, ids(res))
	})

	t.Run("NoMatch", func(t *testing.T) {
		res := catalog.Filter(testProducts(), domain.FilterCriteria{
			Colors: []string{"Rosa"},
		})
		assert.Empty(t, res)
	})
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name     string
		ordering domain.Ordering
		want     []string
	}{
		{"None", domain.OrderNone, []string{"1", "2", "3", "4", "5"}},
		{"MostRecent", domain.OrderMostRecent, []string{"3", "5", "1", "4", "2"}},
		{"PriceAscStable", domain.OrderPriceAsc, []string{"3", "1", "4", "5", "2"}},
		{"PriceDescStable", domain.OrderPriceDesc, []string{"2", "5", "1", "4", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := testProducts()
			res, err := catalog.Order(src, tt.ordering)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(res))
			assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(src))
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		_, err := catalog.Order(testProducts(), domain.Ordering(42))
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestPaginate(t *testing.T) {
	t.Run("MiddlePage", func(t *testing.T) {
		src := seqProducts(20)
		page, err := catalog.Paginate(src, 2, 9)
		require.NoError(t, err)
		assert.Equal(t, ids(src[9:18]), ids(page.Items))
		assert.True(t, page.HasMore)
		assert.Len(t, src, 20)
	})

	t.Run("LastPartialPage", func(t *testing.T) {
		src := seqProducts(20)
		page, err := catalog.Paginate(src, 3, 9)
		require.NoError(t, err)
		assert.Equal(t, []string{"18", "19"}, ids(page.Items))
		assert.False(t, page.HasMore)
	})

	t.Run("ExactlyFullLastPage", func(t *testing.T) {
		page, err := catalog.Paginate(seqProducts(18), 2, 9)
		require.NoError(t, err)
		assert.Len(t, page.Items, 9)
		assert.False(t, page.HasMore)
	})

	t.Run("BeyondEnd", func(t *testing.T) {
		page, err := catalog.Paginate(seqProducts(5), 100, 9)
		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
		assert.False(t, page.HasMore)
	})

	t.Run("ItemsDoNotAliasSource", func(t *testing.T) {
		src := seqProducts(3)
		page, err := catalog.Paginate(src, 1, 2)
		require.NoError(t, err)
		page.Items[0].ID = "changed"
		assert.Equal(t, "0", src[0].ID)
	})

	t.Run("InvalidArguments", func(t *testing.T) {
		for _, args := range [][2]int{{1, 0}, {1, -9}, {0, 9}, {-1, 9}} {
			_, err := catalog.Paginate(seqProducts(3), args[0], args[1])
			assert.ErrorIs(t, err, domain.ErrInvalidArgument, "page=%d size=%d", args[0], args[1])
		}
	})
}

func TestQuery(t *testing.T) {
	t.Run("EmptyCatalog", func(t *testing.T) {
		page, err := catalog.Query(nil, domain.ProductQuery{Page: 1, PageSize: 9})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.False(t, page.HasMore)
	})

	t.Run("FilterOrderPaginate", func(t *testing.T) {
		src := testProducts()
		page, err := catalog.Query(src, domain.ProductQuery{
			Criteria: domain.FilterCriteria{
				PriceRanges: []domain.PriceRange{domain.From(10)},
			},
			Ordering: domain.OrderPriceDesc,
			Page:     1,
			PageSize: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "5"}, ids(page.Items))
		assert.True(t, page.HasMore)
		assert.Equal(t, testProducts(), src)
	})

	t.Run("InvalidPageSize", func(t *testing.T) {
		_, err := catalog.Query(testProducts(), domain.ProductQuery{Page: 1})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}
