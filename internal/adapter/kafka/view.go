package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CartAddsView = (*CartAddsView)(nil)

const viewReadyPollInterval = 200 * time.Millisecond

// A CartAddsView reads the [CartAddsProcessor] group table.
type CartAddsView struct {
	opPrefix string
	gv       *goka.View
}

func NewCartAddsView(seedBrokers []string, group string) (*CartAddsView, error) {
	const op = "NewCartAddsView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		quantityCodec{},
		withNonlogViewOpt(),
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &CartAddsView{opPrefix: "CartAddsView", gv: gv}, nil
}

// Run starts the view and returns after it has recovered the table.
func (v *CartAddsView) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "Run"
	log := slog.With("op", makeOp(v.opPrefix, op))

	defer wg.Done()

	go func() {
		defer stopFn()
		if err := v.gv.Run(ctx); err != nil {
			log.Error("stopped", "err", err)
			return
		}
		log.Info("stopped")
	}()

	log.Info("recovering...")
	ticker := time.NewTicker(viewReadyPollInterval)
	defer ticker.Stop()
	for !v.gv.Recovered() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
	log.Info("running")
}

func (v *CartAddsView) AddedQuantity(productID string) (int64, error) {
	const op = "AddedQuantity"

	val, err := v.gv.Get(productID)
	if err != nil {
		return 0, opErr(err, v.opPrefix, op)
	}
	if val == nil {
		return 0, nil
	}

	qv, ok := val.(quantityValue)
	if !ok {
		return 0, opErr(
			fmt.Errorf("%w: %T", ErrInvalidValueType, val), v.opPrefix, op,
		)
	}
	return int64(qv), nil
}
