// Package cart keeps the shopping cart in a key-value storage under a single key.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const DefaultKey = "cart"

var _ port.CartStore = (*Store)(nil)

type (
	document struct {
		Items []documentItem `json:"items"`
	}

	documentItem struct {
		ProductID string  `json:"productId"`
		Quantity  int     `json:"quantity"`
		Price     float64 `json:"price"`
	}
)

type Store struct {
	storage port.KeyValueStorage
	key     string
}

func NewStore(storage port.KeyValueStorage, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{storage: storage, key: key}
}

// Load returns the persisted cart.
//
// Absent or malformed state yields an empty cart. Only storage failures
// are returned as errors.
func (s *Store) Load(ctx context.Context) (domain.Cart, error) {
	const op = "cart.Store.Load"
	log := slog.With("op", op, "key", s.key)

	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewCart(), nil
		}
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := decode(data)
	if err != nil {
		log.Warn("discard persisted cart", "err", err)
		return domain.NewCart(), nil
	}
	return c, nil
}

// AddItem puts item into a copy of c and persists the result.
//
// A repeated product accumulates quantity and keeps the first recorded unit price.
func (s *Store) AddItem(
	ctx context.Context, c domain.Cart, item domain.CartItem,
) (domain.Cart, error) {
	const op = "cart.Store.AddItem"

	if err := validate(item); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	updated := c.Clone()
	line, ok := updated.Lines[item.ProductID]
	if ok {
		if item.Quantity > math.MaxInt-line.Quantity {
			return domain.Cart{}, fmt.Errorf(
				"%s: quantity %d overflows line %q: %w",
				op, item.Quantity, item.ProductID, domain.ErrInvalidArgument,
			)
		}
		line.Quantity += item.Quantity
	} else {
		line = domain.CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	updated.Lines[item.ProductID] = line

	data, err := encode(updated)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.Set(ctx, s.key, data); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func TotalItemCount(c domain.Cart) int {
	var total int
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

func validate(item domain.CartItem) error {
	switch {
	case item.ProductID == "":
		return fmt.Errorf("empty product id: %w", domain.ErrInvalidArgument)
	case item.Quantity < 1:
		return fmt.Errorf("quantity %d: %w", item.Quantity, domain.ErrInvalidArgument)
	case item.UnitPrice < 0:
		return fmt.Errorf("unit price %v: %w", item.UnitPrice, domain.ErrInvalidArgument)
	}
	return nil
}

func decode(data []byte) (domain.Cart, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Cart{}, fmt.Errorf("%w: %w", domain.ErrMalformedState, err)
	}

	c := domain.NewCart()
	for _, it := range doc.Items {
		if it.ProductID == "" || it.Quantity < 1 || it.Price < 0 {
			return domain.Cart{}, fmt.Errorf(
				"%w: invalid line %+v", domain.ErrMalformedState, it,
			)
		}
		line, ok := c.Lines[it.ProductID]
		if ok {
			if it.Quantity > math.MaxInt-line.Quantity {
				return domain.Cart{}, fmt.Errorf(
					"%w: quantity overflow for %q", domain.ErrMalformedState, it.ProductID,
				)
			}
			line.Quantity += it.Quantity
		} else {
			line = domain.CartLine{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.Price,
			}
		}
		c.Lines[it.ProductID] = line
	}
	return c, nil
}

func encode(c domain.Cart) ([]byte, error) {
	lines := c.SortedLines()
	doc := document{Items: make([]documentItem, len(lines))}
	for i, line := range lines {
		doc.Items[i] = documentItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		}
	}
	return json.Marshal(doc)
}
