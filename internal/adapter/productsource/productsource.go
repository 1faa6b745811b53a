package productsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
)

var _ port.ProductSource = (*HTTPSource)(nil)

var errRetryable = errors.New("retryable")

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	Backoff     retry.Backoff
}

// A HTTPSource fetches the catalog from the storefront products endpoint.
type HTTPSource struct {
	client   *http.Client
	url      string
	retryCfg retry.RetryConfig
}

func NewHTTPSource(cfg Config) HTTPSource {
	backoff := cfg.Backoff
	if backoff == nil {
		backoff = retry.ExponentialBackoff(100 * time.Millisecond)
	}

	return HTTPSource{
		client: &http.Client{Timeout: cfg.Timeout},
		url:    strings.TrimRight(cfg.BaseURL, "/") + "/products",
		retryCfg: retry.RetryConfig{
			MaxAttempts: cfg.MaxAttempts,
			Backoff:     backoff,
			ShouldRetry: func(err error) bool {
				return errors.Is(err, errRetryable)
			},
		},
	}
}

// FetchProducts returns the full catalog in source order.
//
// All failures wrap [domain.ErrSourceUnavailable].
func (s HTTPSource) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "HTTPSource.FetchProducts"
	log := slog.With("op", op)

	ps, err := retry.DoWithResult(ctx, s.retryCfg, func() ([]product, error) {
		ps, err := s.fetch(ctx)
		if err != nil {
			log.Warn("fetch attempt failed", "err", err)
		}
		return ps, err
	})
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrSourceUnavailable, err,
		)
	}

	res := make([]domain.Product, len(ps))
	for i, p := range ps {
		res[i] = s.toDomain(p)
	}
	log.Debug("products fetched", "nProducts", len(res))
	return res, nil
}

func (s HTTPSource) fetch(ctx context.Context) ([]product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", errRetryable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %s", errRetryable, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var ps []product
	if err := json.NewDecoder(resp.Body).Decode(&ps); err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}
	return ps, nil
}

func (HTTPSource) toDomain(p product) domain.Product {
	dp := domain.Product{
		ID:    string(p.ID),
		Name:  p.Name,
		Image: p.Image,
		Price: p.Price,
		Color: p.Color,
		Sizes: p.Size,
		Date:  time.Time(p.Date),
	}

	if len(p.Parcelamento) == 2 {
		count, _ := p.Parcelamento[0].Int64()
		price, _ := p.Parcelamento[1].Float64()
		dp.Installment = domain.Installment{Count: int(count), Price: price}
	}
	return dp
}
