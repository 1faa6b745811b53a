package httphandler

import (
	"time"

	"github.com/niksmo/storefront/internal/core/cart"
	"github.com/niksmo/storefront/internal/core/domain"
)

type (
	Product struct {
		ID          string      `json:"id"`
		Name        string      `json:"name"`
		Image       string      `json:"image"`
		Price       float64     `json:"price"`
		Installment Installment `json:"installment"`
		Color       string      `json:"color"`
		Sizes       []string    `json:"sizes"`
		Date        time.Time   `json:"date"`
	}

	Installment struct {
		Count int     `json:"count"`
		Price float64 `json:"price"`
	}

	ProductsPage struct {
		Products []Product `json:"products"`
		Page     int       `json:"page"`
		HasMore  bool      `json:"has_more"`
	}
)

type (
	AddCartItem struct {
		ProductID string  `json:"product_id"`
		Price     float64 `json:"price"`
		Quantity  *int    `json:"quantity,omitempty"`
	}

	CartLine struct {
		ProductID string  `json:"product_id"`
		Quantity  int     `json:"quantity"`
		Price     float64 `json:"price"`
	}

	Cart struct {
		Items      []CartLine `json:"items"`
		TotalItems int        `json:"total_items"`
	}

	CartAdds struct {
		ProductID string `json:"product_id"`
		Quantity  int64  `json:"quantity"`
	}
)

func toProductsPage(page domain.Page, n int) ProductsPage {
	res := ProductsPage{
		Products: make([]Product, len(page.Items)),
		Page:     n,
		HasMore:  page.HasMore,
	}
	for i, p := range page.Items {
		sizes := p.Sizes
		if sizes == nil {
			sizes = []string{}
		}
		res.Products[i] = Product{
			ID:    p.ID,
			Name:  p.Name,
			Image: p.Image,
			Price: p.Price,
			Installment: Installment{
				Count: p.Installment.Count,
				Price: p.Installment.Price,
			},
			Color: p.Color,
			Sizes: sizes,
			Date:  p.Date,
		}
	}
	return res
}

func toCart(c domain.Cart) Cart {
	lines := c.SortedLines()
	res := Cart{
		Items:      make([]CartLine, len(lines)),
		TotalItems: cart.TotalItemCount(c),
	}
	for i, line := range lines {
		res.Items[i] = CartLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		}
	}
	return res
}

func (it AddCartItem) toDomain() domain.CartItem {
	quantity := 1
	if it.Quantity != nil {
		quantity = *it.Quantity
	}
	return domain.CartItem{
		ProductID: it.ProductID,
		UnitPrice: it.Price,
		Quantity:  quantity,
	}
}
