package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQL    = "sql"
)

type httpServerTimeouts struct {
	Handler    time.Duration `mapstructure:"handler"`
	ReadHeader time.Duration `mapstructure:"read_header"`
	Idle       time.Duration `mapstructure:"idle"`
}

type catalog struct {
	SourceURL     string        `mapstructure:"source_url"`
	PageSize      int           `mapstructure:"page_size"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	FetchAttempts int           `mapstructure:"fetch_attempts"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type cart struct {
	Storage   string   `mapstructure:"storage"`
	Key       string   `mapstructure:"key"`
	RedisAddr string   `mapstructure:"redis_addr"`
	RedisTLS  tlsFiles `mapstructure:"redis_tls"`
	SQLDB     string   `mapstructure:"sql_db"`
}

type topics struct {
	CartEvents string `mapstructure:"cart_events"`
}

type consumers struct {
	CartAddsGroup string `mapstructure:"cart_adds_group"`
}

type broker struct {
	Enabled            bool      `mapstructure:"enabled"`
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
}

type Config struct {
	LogLevel           slog.Level         `mapstructure:"log_level"`
	HTTPServerAddr     string             `mapstructure:"http_server_addr"`
	HTTPServerTimeouts httpServerTimeouts `mapstructure:"http_server_timeouts"`
	Catalog            catalog            `mapstructure:"catalog"`
	Cart               cart               `mapstructure:"cart"`
	Broker             broker             `mapstructure:"broker"`
}

func Load() Config {
	cfg, err := load(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

func load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("http_server_timeouts.handler", 5*time.Second)
	v.SetDefault("http_server_timeouts.read_header", 5*time.Second)
	v.SetDefault("http_server_timeouts.idle", 2*time.Second)
	v.SetDefault("catalog.page_size", 9)
	v.SetDefault("catalog.fetch_timeout", 5*time.Second)
	v.SetDefault("catalog.fetch_attempts", 3)
	v.SetDefault("cart.storage", StorageMemory)
	v.SetDefault("cart.key", "cart")
	v.SetDefault("broker.topics.cart_events", "cart-events")
	v.SetDefault("broker.consumers.cart_adds_group", "cart-adds")
}

func (c Config) validate() error {
	switch {
	case c.HTTPServerTimeouts.Handler <= 0,
		c.HTTPServerTimeouts.ReadHeader <= 0,
		c.HTTPServerTimeouts.Idle <= 0:
		return fmt.Errorf("http_server_timeouts: must be positive")
	case c.Catalog.SourceURL == "":
		return fmt.Errorf("catalog.source_url: required")
	case c.Catalog.PageSize < 1:
		return fmt.Errorf("catalog.page_size: must be positive")
	}

	switch c.Cart.Storage {
	case StorageMemory:
	case StorageRedis:
		if c.Cart.RedisAddr == "" {
			return fmt.Errorf("cart.redis_addr: required for %q storage", StorageRedis)
		}
	case StorageSQL:
		if c.Cart.SQLDB == "" {
			return fmt.Errorf("cart.sql_db: required for %q storage", StorageSQL)
		}
	default:
		return fmt.Errorf("cart.storage: unknown storage %q", c.Cart.Storage)
	}

	if c.Broker.Enabled && len(c.Broker.SeedBrokers) == 0 {
		return fmt.Errorf("broker.seed_brokers: required when broker is enabled")
	}
	return nil
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HTTPServerTimeouts:
		Handler=%q
		ReadHeader=%q
		Idle=%q

	Catalog:
	SourceURL=%q
	PageSize=%d
	FetchTimeout=%q
	FetchAttempts=%d

	Cart:
	Storage=%q
	Key=%q
	RedisAddr=%q

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		CartEvents=%q
	Consumers:
		CartAddsGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HTTPServerTimeouts.Handler,
		c.HTTPServerTimeouts.ReadHeader,
		c.HTTPServerTimeouts.Idle,
		c.Catalog.SourceURL,
		c.Catalog.PageSize,
		c.Catalog.FetchTimeout,
		c.Catalog.FetchAttempts,
		c.Cart.Storage,
		c.Cart.Key,
		c.Cart.RedisAddr,
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.CartEvents,
		c.Broker.Consumers.CartAddsGroup,
	)
}
