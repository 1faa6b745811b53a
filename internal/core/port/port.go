package port

import (
	"context"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

// Inbound ports.

type ProductsQuerier interface {
	QueryProducts(context.Context, domain.ProductQuery) (domain.Page, error)
}

type CartKeeper interface {
	AddToCart(context.Context, domain.CartItem) (domain.Cart, error)
	Cart(context.Context) (domain.Cart, error)
}

type CartAddsCounter interface {
	CartAdds(ctx context.Context, productID string) (int64, error)
}

// Outbound ports.

// A ProductSource returns the full catalog snapshot.
type ProductSource interface {
	FetchProducts(context.Context) ([]domain.Product, error)
}

// A KeyValueStorage returns [domain.ErrNotFound] from Get when key is absent.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type CartStore interface {
	Load(context.Context) (domain.Cart, error)
	AddItem(context.Context, domain.Cart, domain.CartItem) (domain.Cart, error)
}

type CartEventsProducer interface {
	ProduceItemAdded(context.Context, domain.CartItemAdded) error
}

type CartAddsReader interface {
	AddedQuantity(productID string) (int64, error)
}

type CartAddsProcessor interface {
	runnerContextWg
	closer
}

type CartAddsView interface {
	CartAddsReader
	runnerContextWg
}
