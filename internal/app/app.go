package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/productsource"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/cart"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type cartEvents struct {
	enabled  bool
	producer kafka.CartEventsProducer
	proc     *kafka.CartAddsProcessor
	view     *kafka.CartAddsView
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	storage    port.KeyValueStorage
	closers    []func()
	source     productsource.HTTPSource
	events     cartEvents
	service    *service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initProductSource()
	app.initCartEvents()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"
	cfg := app.cfg.Cart

	switch cfg.Storage {
	case config.StorageRedis:
		var tlsConfig *tls.Config
		if cfg.RedisTLS.CA != "" {
			c, err := adapter.MakeTLSConfig(
				cfg.RedisTLS.CA, cfg.RedisTLS.Cert, cfg.RedisTLS.Key,
			)
			if err != nil {
				app.fallDown(op, err)
			}
			tlsConfig = c
		}
		rs, err := storage.NewRedisStorage(app.ctx, cfg.RedisAddr, tlsConfig)
		if err != nil {
			app.fallDown(op, err)
		}
		app.storage = rs
		app.closers = append(app.closers, rs.Close)
	case config.StorageSQL:
		sqldb, err := storage.NewSQLDB(app.ctx, cfg.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		app.storage = storage.NewSQLStorage(sqldb)
		app.closers = append(app.closers, sqldb.Close)
	default:
		app.storage = storage.NewMemoryStorage()
	}
	slog.Info("cart storage is ready", "storage", cfg.Storage)
}

func (app *App) initProductSource() {
	cfg := app.cfg.Catalog
	app.source = productsource.NewHTTPSource(productsource.Config{
		BaseURL:     cfg.SourceURL,
		Timeout:     cfg.FetchTimeout,
		MaxAttempts: cfg.FetchAttempts,
	})
}

func (app *App) initCartEvents() {
	const op = "App.initCartEvents"
	cfg := app.cfg.Broker
	if !cfg.Enabled {
		slog.Info("cart events are disabled")
		return
	}

	srClient, err := sr.NewClient(sr.URLs(cfg.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	cartEventSerde, err := schema.NewSerdeCartItemAddedV1(
		app.ctx,
		schema.SubjectOpt(cfg.Topics.CartEvents+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientOpt(app.ctx, cfg.SeedBrokers, cfg.Topics.CartEvents),
		kafka.ProducerEncoderOpt(cartEventSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	proc, err := kafka.NewCartAddsProc(
		cfg.SeedBrokers,
		cfg.Topics.CartEvents,
		cfg.Consumers.CartAddsGroup,
		cartEventSerde,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	view, err := kafka.NewCartAddsView(
		cfg.SeedBrokers, cfg.Consumers.CartAddsGroup,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.events = cartEvents{
		enabled:  true,
		producer: producer,
		proc:     proc,
		view:     view,
	}
}

func (app *App) initCoreService() {
	cartStore := cart.NewStore(app.storage, app.cfg.Cart.Key)

	if !app.events.enabled {
		app.service = service.New(app.source, cartStore, nil, nil, nil)
		return
	}

	app.service = service.New(
		app.source,
		cartStore,
		app.events.producer,
		app.events.proc,
		app.events.view,
	)
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterProducts(mux, app.service, app.cfg.Catalog.PageSize)
	httphandler.RegisterCart(mux, app.service)
	httphandler.RegisterCartAdds(mux, app.service)

	handler := httphandler.LogRequests(httphandler.AllowJSON(mux))
	timeouts := app.cfg.HTTPServerTimeouts
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler, httphandler.ServerTimeouts{
			Handler:    timeouts.Handler,
			ReadHeader: timeouts.ReadHeader,
			Idle:       timeouts.Idle,
		},
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	app.service.Run(app.ctx, stopFn)
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Close()
	if app.events.enabled {
		app.events.producer.Close()
	}
	for _, closeFn := range app.closers {
		closeFn()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
