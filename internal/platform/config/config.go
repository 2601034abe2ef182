package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers understood by the storage factory.
const (
	DriverMemory   = "memory"
	DriverLevelDB  = "leveldb"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Event sinks understood by the events factory.
const (
	SinkLog   = "log"
	SinkKafka = "kafka"
	SinkNATS  = "nats"
	SinkNone  = "none"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	MetricsAddr string
	Storage     StorageConfig
	Redis       RedisConfig
	Postgres    PostgresConfig
	Events      EventsConfig
	Engine      EngineConfig
	Log         LogConfig
	SchemesFile string
}

// StorageConfig selects the key/value bucket backing every scheme.
type StorageConfig struct {
	Driver      string
	LevelDBPath string
}

// RedisConfig configures the go-redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the lib/pq connection pool.
type PostgresConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// EventsConfig selects where registration events are delivered.
type EventsConfig struct {
	Sink         string
	BufferSize   int
	KafkaBrokers []string
	KafkaTopic   string
	NATSURL      string
	NATSSubject  string
}

// EngineConfig holds timing knobs of the registration engine.
type EngineConfig struct {
	DraftDebounce time.Duration
	SubmitDelay   time.Duration
	PhotoCacheTTL time.Duration
	Location      *time.Location
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// Defaults mirrored by the engine when a value is left unset.
var (
	DefaultDraftDebounce = 2 * time.Second
	DefaultSubmitDelay   = 600 * time.Millisecond
	DefaultPhotoCacheTTL = 30 * time.Minute
)

// LoadDotEnv loads variables from the given .env files (".env" when none is
// given). Missing files are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var errs []error

	cfg := Server{
		Addr:        envOr("REGDESK_ADDR", ":8080"),
		MetricsAddr: os.Getenv("REGDESK_METRICS_ADDR"),
		Storage: StorageConfig{
			Driver:      strings.ToLower(envOr("STORAGE_DRIVER", DriverMemory)),
			LevelDBPath: envOr("LEVELDB_PATH", "data/regdesk.ldb"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10, &errs),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2, &errs),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second, &errs),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second, &errs),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second, &errs),
		},
		Postgres: PostgresConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 10, &errs),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5, &errs),
		},
		Events: EventsConfig{
			Sink:         strings.ToLower(envOr("EVENTS_SINK", SinkLog)),
			BufferSize:   envInt("EVENTS_BUFFER", 256, &errs),
			KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
			KafkaTopic:   envOr("KAFKA_TOPIC", "regdesk.registrations"),
			NATSURL:      envOr("NATS_URL", "nats://127.0.0.1:4222"),
			NATSSubject:  envOr("NATS_SUBJECT", "regdesk.registrations"),
		},
		Engine: EngineConfig{
			DraftDebounce: envDuration("DRAFT_DEBOUNCE", DefaultDraftDebounce, &errs),
			SubmitDelay:   envDuration("SUBMIT_DELAY", DefaultSubmitDelay, &errs),
			PhotoCacheTTL: envDuration("PHOTO_CACHE_TTL", DefaultPhotoCacheTTL, &errs),
			Location:      time.Local,
		},
		Log: LogConfig{
			Level:  strings.ToLower(envOr("LOG_LEVEL", "info")),
			Format: strings.ToLower(envOr("LOG_FORMAT", "text")),
		},
		SchemesFile: os.Getenv("SCHEMES_FILE"),
	}

	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
		} else {
			cfg.Engine.Location = loc
		}
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	return cfg, errors.Join(errs...)
}

// Validate checks driver specific requirements.
func (c Server) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverLevelDB:
		if c.Storage.LevelDBPath == "" {
			return errors.New("LEVELDB_PATH is required for the leveldb driver")
		}
	case DriverRedis:
		if c.Redis.URL == "" {
			return errors.New("REDIS_URL is required for the redis driver")
		}
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Events.Sink {
	case SinkLog, SinkNone, SinkNATS:
	case SinkKafka:
		if len(c.Events.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required for the kafka sink")
		}
	default:
		return fmt.Errorf("unknown EVENTS_SINK %q", c.Events.Sink)
	}

	if c.Engine.DraftDebounce < 0 || c.Engine.SubmitDelay < 0 {
		return errors.New("DRAFT_DEBOUNCE and SUBMIT_DELAY must not be negative")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
