package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"rxdelivery/internal/adapters/out/gormstore"
	"rxdelivery/internal/adapters/out/rabbitmq"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/joho/godotenv"
)

const defaultSQLiteFile = "rxdelivery.db"

// Config holds the complete application configuration, loadable from a .env file,
// environment variables (RXD_ prefix), flags, or YAML config files.
type Config struct {
	HTTPPort string `default:"8080" usage:"HTTP listen port"`
	LogLevel string `default:"info" usage:"Log level: debug, info, warn or error"`
	DB       DBConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Jobs     JobsConfig
	Seed     SeedConfig
	Metrics  MetricsConfig
	Graceful GracefulConfig
}

// DBConfig selects the storage. With driver sqlite only DSN is used; with postgres
// DSN wins over the individual connection fields when set.
type DBConfig struct {
	Driver   string `default:"sqlite" usage:"Database driver: sqlite or postgres"`
	DSN      string `usage:"Database DSN or SQLite file (default rxdelivery.db for sqlite)"`
	Host     string `default:"localhost" usage:"PostgreSQL host"`
	Port     string `default:"5432" usage:"PostgreSQL port"`
	User     string `default:"postgres" usage:"PostgreSQL user"`
	Password string `usage:"PostgreSQL password"`
	Name     string `default:"delivery" usage:"PostgreSQL database"`
	SslMode  string `default:"disable" usage:"PostgreSQL sslmode"`
}

// RedisConfig enables the board snapshot cache when Addr is set.
type RedisConfig struct {
	Addr     string        `usage:"Redis address; empty disables the board cache"`
	Password string        `usage:"Redis password"`
	DB       int           `default:"0" usage:"Redis database"`
	Key      string        `default:"delivery:board" usage:"Hash key of the board snapshot"`
	TTL      time.Duration `default:"0s" usage:"Snapshot expiry; 0 keeps it until overwritten"`
}

// RabbitMQConfig enables status change notifications when Host is set.
type RabbitMQConfig struct {
	Host     string `usage:"RabbitMQ host; empty disables notifications"`
	Port     int    `default:"5672" usage:"RabbitMQ port"`
	User     string `default:"guest" usage:"RabbitMQ user"`
	Password string `default:"guest" usage:"RabbitMQ password"`
	VHost    string `usage:"RabbitMQ virtual host"`
	Exchange string `default:"delivery_topic" usage:"Topic exchange for status changes"`
}

type JobsConfig struct {
	SLA              time.Duration `default:"45m" usage:"Age after which an active delivery is reported overdue"`
	SLASchedule      string        `default:"0 * * * * *" usage:"Cron schedule (with seconds) of the SLA check"`
	SnapshotSchedule string        `default:"*/10 * * * * *" usage:"Cron schedule (with seconds) of the board snapshot"`
}

// SeedConfig controls the deliveries inserted into empty storage.
type SeedConfig struct {
	Enabled bool   `default:"true" usage:"Seed empty storage"`
	File    string `usage:"Seed YAML file; empty uses the built-in deliveries"`
}

type MetricsConfig struct {
	Stdout   bool          `default:"false" usage:"Export metrics to stdout"`
	Interval time.Duration `default:"1m" usage:"Metrics export interval"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration"`
}

// LoadConfig reads .env (if present) into the environment, then loads defaults,
// config.yaml, RXD_ environment variables and args as flags, later sources winning.
func LoadConfig(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "RXD",
		Args:      args,
		Files:     []string{"config.yaml", "/etc/rxdelivery/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case gormstore.DriverSQLite, gormstore.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DB.Driver))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Jobs.SLA <= 0 {
		errs = append(errs, fmt.Errorf("SLA must be positive, got %s", c.Jobs.SLA))
	}
	return errors.Join(errs...)
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Database converts the storage settings for gormstore.Open.
func (c Config) Database() gormstore.Config {
	dsn := c.DB.DSN
	if dsn == "" && c.DB.Driver == gormstore.DriverSQLite {
		dsn = defaultSQLiteFile
	}
	return gormstore.Config{
		Driver:   c.DB.Driver,
		DSN:      dsn,
		Host:     c.DB.Host,
		Port:     c.DB.Port,
		User:     c.DB.User,
		Password: c.DB.Password,
		Name:     c.DB.Name,
		SSLMode:  c.DB.SslMode,
	}
}

// Broker converts the notification settings for rabbitmq.Connect.
func (c Config) Broker() rabbitmq.Config {
	return rabbitmq.Config{
		Host:     c.RabbitMQ.Host,
		Port:     c.RabbitMQ.Port,
		User:     c.RabbitMQ.User,
		Password: c.RabbitMQ.Password,
		VHost:    c.RabbitMQ.VHost,
		Exchange: c.RabbitMQ.Exchange,
	}
}
