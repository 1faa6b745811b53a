package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

var _ port.CartAddsProcessor = (*CartAddsProcessor)(nil)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "runProc"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	if err := p.gp.Run(ctx); err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("fall down while preparing", "err", err)
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A cartEventCodec used for serde [schema.CartItemAddedV1]
type cartEventCodec struct {
	serde Serde
}

func (c cartEventCodec) Encode(v any) ([]byte, error) {
	const op = "cartEventCodec.Encode"
	if _, ok := v.(schema.CartItemAddedV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c cartEventCodec) Decode(data []byte) (any, error) {
	const op = "cartEventCodec.Decode"
	var s schema.CartItemAddedV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// A quantityValue is the accumulated added quantity of one product.
type quantityValue int64

// A quantityCodec used for serde [quantityValue]
type quantityCodec struct{}

func (quantityCodec) Encode(v any) ([]byte, error) {
	const op = "quantityCodec.Encode"
	qv, ok := v.(quantityValue)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendInt(nil, int64(qv), 10), nil
}

func (quantityCodec) Decode(data []byte) (any, error) {
	const op = "quantityCodec.Decode"
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return quantityValue(n), nil
}

// A CartAddsProcessor accumulates cart events from the input stream
// into the group table keyed by product id.
type CartAddsProcessor struct {
	opPrefix string
	proc     processor
}

func NewCartAddsProc(
	seedBrokers []string,
	inputStream string,
	group string,
	cartEventSerde Serde,
) (*CartAddsProcessor, error) {
	const op = "NewCartAddsProc"

	p := &CartAddsProcessor{opPrefix: "CartAddsProcessor"}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputStream),
			cartEventCodec{cartEventSerde},
			p.processFn,
		),
		goka.Persist(quantityCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{opPrefix: p.opPrefix, gp: gp}
	return p, nil
}

func (p *CartAddsProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *CartAddsProcessor) Close() {
	p.proc.close()
}

func (p *CartAddsProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"

	evt, ok := msg.(schema.CartItemAddedV1)
	if !ok {
		return
	}
	log := slog.With(
		"op", makeOp(p.opPrefix, op), "productID", evt.ProductID,
	)

	total, _ := ctx.Value().(quantityValue)
	total = accumulate(total, evt)
	ctx.SetValue(total)
	log.Debug("cart adds accumulated", "total", int64(total))
}

func accumulate(total quantityValue, evt schema.CartItemAddedV1) quantityValue {
	if evt.Quantity < 1 {
		return total
	}
	return total + quantityValue(evt.Quantity)
}
