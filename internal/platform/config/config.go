package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	platformstrings "soknadpdf/pkg/platform/strings"
)

// Config is the service configuration. Values come from an optional YAML file
// named by CONFIG_FILE, then environment variables override individual fields.
type Config struct {
	Server    Server    `yaml:"server"`
	Log       Log       `yaml:"log"`
	Kafka     Kafka     `yaml:"kafka"`
	Redis     Redis     `yaml:"redis"`
	Postgres  Postgres  `yaml:"postgres"`
	Storage   Storage   `yaml:"storage"`
	Converter Converter `yaml:"converter"`
	Clients   Clients   `yaml:"clients"`
	OAuth     OAuth     `yaml:"oauth"`
	// SkipSubmissions lists submission ids whose needs are logged and skipped.
	SkipSubmissions []string `yaml:"skip_submissions"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string `yaml:"addr"`
}

// Log configures the application and secure loggers.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// SecurePath is where records carrying personal data are written.
	// Empty means stderr.
	SecurePath string `yaml:"secure_path"`
}

// Kafka configures the need consumer and solution producer.
type Kafka struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	GroupID  string   `yaml:"group_id"`
	ClientID string   `yaml:"client_id"`
}

// Redis configures the skip list store. An empty URL disables it.
type Redis struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Postgres configures the archive receipt log. An empty DSN keeps receipts in
// memory.
type Postgres struct {
	DSN string `yaml:"dsn"`
}

// Storage selects where produced PDFs are stored.
type Storage struct {
	// Backend is one of "mellomlagring", "s3" or "gcs".
	Backend          string `yaml:"backend"`
	MellomlagringURL string `yaml:"mellomlagring_url"`
	Bucket           string `yaml:"bucket"`
	Region           string `yaml:"region"`
	Endpoint         string `yaml:"endpoint"`
}

// Converter configures the HTML to PDF/A conversion service.
type Converter struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Clients configures the upstream services the inputs are fetched from.
type Clients struct {
	SoknadURL string        `yaml:"soknad_url"`
	PDLURL    string        `yaml:"pdl_url"`
	Timeout   time.Duration `yaml:"timeout"`
	// PersonFailures consecutive failed person lookups mark the person register
	// unhealthy; PersonRecoveries consecutive successes clear it again.
	PersonFailures   int `yaml:"person_failures"`
	PersonRecoveries int `yaml:"person_recoveries"`
}

// OAuth configures client credentials for outbound calls. An empty TokenURL
// sends requests without a token.
type OAuth struct {
	TokenURL           string `yaml:"token_url"`
	ClientID           string `yaml:"client_id"`
	ClientSecret       string `yaml:"client_secret"`
	SoknadScope        string `yaml:"soknad_scope"`
	PDLScope           string `yaml:"pdl_scope"`
	MellomlagringScope string `yaml:"mellomlagring_scope"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info", Format: "json"},
		Kafka: Kafka{
			Brokers:  []string{"localhost:9092"},
			Topic:    "teamdagpenger.rapid.v1",
			GroupID:  "soknadpdf",
			ClientID: "soknadpdf",
		},
		Redis: Redis{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Storage:   Storage{Backend: "mellomlagring", MellomlagringURL: "http://dp-mellomlagring"},
		Converter: Converter{URL: "http://pdf-converter", Timeout: 30 * time.Second},
		Clients: Clients{
			SoknadURL:        "http://dp-soknad",
			PDLURL:           "http://pdl-api.pdl/graphql",
			Timeout:          10 * time.Second,
			PersonFailures:   5,
			PersonRecoveries: 2,
		},
	}
}

// Load reads CONFIG_FILE if set and applies environment overrides.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// FromEnv builds the config from defaults and environment variables only.
func FromEnv() (Config, error) {
	cfg := Defaults()
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required")
	}
	if c.Kafka.Topic == "" {
		return fmt.Errorf("kafka topic is required")
	}
	switch c.Storage.Backend {
	case "mellomlagring":
		if c.Storage.MellomlagringURL == "" {
			return fmt.Errorf("mellomlagring url is required")
		}
	case "s3", "gcs":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("bucket is required for %s storage", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Converter.URL == "" {
		return fmt.Errorf("converter url is required")
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = platformstrings.Split(v)
		}
	}
	var errs []string
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = d
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = n
		}
	}

	str("SERVER_ADDR", &cfg.Server.Addr)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("SECURE_LOG_PATH", &cfg.Log.SecurePath)

	list("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	str("KAFKA_RAPID_TOPIC", &cfg.Kafka.Topic)
	str("KAFKA_CONSUMER_GROUP_ID", &cfg.Kafka.GroupID)
	str("KAFKA_CLIENT_ID", &cfg.Kafka.ClientID)

	str("REDIS_URL", &cfg.Redis.URL)
	num("REDIS_POOL_SIZE", &cfg.Redis.PoolSize)
	num("REDIS_MIN_IDLE_CONNS", &cfg.Redis.MinIdleConns)
	dur("REDIS_DIAL_TIMEOUT", &cfg.Redis.DialTimeout)
	dur("REDIS_READ_TIMEOUT", &cfg.Redis.ReadTimeout)
	dur("REDIS_WRITE_TIMEOUT", &cfg.Redis.WriteTimeout)

	str("DATABASE_URL", &cfg.Postgres.DSN)

	str("STORAGE_BACKEND", &cfg.Storage.Backend)
	str("DP_MELLOMLAGRING_BASE_URL", &cfg.Storage.MellomlagringURL)
	str("STORAGE_BUCKET", &cfg.Storage.Bucket)
	str("STORAGE_REGION", &cfg.Storage.Region)
	str("STORAGE_ENDPOINT", &cfg.Storage.Endpoint)

	str("PDF_CONVERTER_URL", &cfg.Converter.URL)
	dur("PDF_CONVERTER_TIMEOUT", &cfg.Converter.Timeout)

	str("DP_SOKNAD_BASE_URL", &cfg.Clients.SoknadURL)
	str("PDL_API_URL", &cfg.Clients.PDLURL)
	dur("CLIENT_TIMEOUT", &cfg.Clients.Timeout)
	num("PDL_BREAKER_FAILURES", &cfg.Clients.PersonFailures)
	num("PDL_BREAKER_RECOVERIES", &cfg.Clients.PersonRecoveries)

	str("AZURE_OPENID_CONFIG_TOKEN_ENDPOINT", &cfg.OAuth.TokenURL)
	str("AZURE_APP_CLIENT_ID", &cfg.OAuth.ClientID)
	str("AZURE_APP_CLIENT_SECRET", &cfg.OAuth.ClientSecret)
	str("DP_SOKNAD_SCOPE", &cfg.OAuth.SoknadScope)
	str("PDL_API_SCOPE", &cfg.OAuth.PDLScope)
	str("DP_MELLOMLAGRING_SCOPE", &cfg.OAuth.MellomlagringScope)

	list("SKIP_SUBMISSIONS", &cfg.SkipSubmissions)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}
