package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/cart"
	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ProductsQuerier = (*Service)(nil)
var _ port.CartKeeper = (*Service)(nil)
var _ port.CartAddsCounter = (*Service)(nil)

type Service struct {
	productSource port.ProductSource
	cartStore     port.CartStore
	cartEvents    port.CartEventsProducer
	cartAddsProc  port.CartAddsProcessor
	cartAddsView  port.CartAddsView
	cartMu        sync.Mutex
	now           func() time.Time
	newEventID    func() string
}

// New creates the core service.
//
// The cart events components are optional and may be nil.
func New(
	productSource port.ProductSource,
	cartStore port.CartStore,
	cartEvents port.CartEventsProducer,
	cartAddsProc port.CartAddsProcessor,
	cartAddsView port.CartAddsView,
) *Service {
	return &Service{
		productSource: productSource,
		cartStore:     cartStore,
		cartEvents:    cartEvents,
		cartAddsProc:  cartAddsProc,
		cartAddsView:  cartAddsView,
		now:           time.Now,
		newEventID:    uuid.NewString,
	}
}

// Run runs the cart events components in separate goroutines.
//
// Blocks current goroutine while components is preparing to ready state.
func (s *Service) Run(ctx context.Context, stopFn context.CancelFunc) {
	var wg sync.WaitGroup
	if s.cartAddsProc != nil {
		wg.Add(1)
		go s.cartAddsProc.Run(ctx, stopFn, &wg)
	}
	if s.cartAddsView != nil {
		wg.Add(1)
		go s.cartAddsView.Run(ctx, stopFn, &wg)
	}
	wg.Wait()
}

func (s *Service) Close() {
	if s.cartAddsProc != nil {
		s.cartAddsProc.Close()
	}
}

func (s *Service) QueryProducts(
	ctx context.Context, q domain.ProductQuery,
) (domain.Page, error) {
	const op = "Service.QueryProducts"

	if err := ctx.Err(); err != nil {
		return domain.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.productSource.FetchProducts(ctx)
	if err != nil {
		return domain.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	page, err := catalog.Query(ps, q)
	if err != nil {
		return domain.Page{}, fmt.Errorf("%s: %w", op, err)
	}
	return page, nil
}

func (s *Service) AddToCart(
	ctx context.Context, item domain.CartItem,
) (domain.Cart, error) {
	const op = "Service.AddToCart"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.addItem(ctx, item)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	s.publishItemAdded(ctx, item, c)
	return c, nil
}

func (s *Service) addItem(
	ctx context.Context, item domain.CartItem,
) (domain.Cart, error) {
	s.cartMu.Lock()
	defer s.cartMu.Unlock()

	c, err := s.cartStore.Load(ctx)
	if err != nil {
		return domain.Cart{}, err
	}
	return s.cartStore.AddItem(ctx, c, item)
}

func (s *Service) publishItemAdded(
	ctx context.Context, item domain.CartItem, c domain.Cart,
) {
	const op = "Service.publishItemAdded"

	if s.cartEvents == nil {
		return
	}

	evt := domain.CartItemAdded{
		EventID:    s.newEventID(),
		ProductID:  item.ProductID,
		UnitPrice:  c.Lines[item.ProductID].UnitPrice,
		Quantity:   item.Quantity,
		TotalItems: cart.TotalItemCount(c),
		OccurredAt: s.now(),
	}

	if err := s.cartEvents.ProduceItemAdded(ctx, evt); err != nil {
		slog.Warn(
			"failed to publish cart event",
			"op", op, "productID", item.ProductID, "err", err,
		)
	}
}

func (s *Service) Cart(ctx context.Context) (domain.Cart, error) {
	const op = "Service.Cart"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	s.cartMu.Lock()
	defer s.cartMu.Unlock()

	c, err := s.cartStore.Load(ctx)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *Service) CartAdds(
	ctx context.Context, productID string,
) (int64, error) {
	const op = "Service.CartAdds"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if s.cartAddsView == nil {
		return 0, fmt.Errorf("%s: %w", op, domain.ErrFeatureDisabled)
	}

	n, err := s.cartAddsView.AddedQuantity(productID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
