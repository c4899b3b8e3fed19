package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 8080

	DefaultProviderBaseURL = "http://localhost:9090"
	DefaultProviderTimeout = 30 * time.Second

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "titleorder"
	DefaultDBMaxConns = 10

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "titleorder:"
	DefaultSearchTTL      = 2 * time.Minute

	DefaultKafkaBroker = "localhost:9092"
	DefaultKafkaTopic  = "titleorder.order.line-placed"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "titleorder-payloads"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "titleorder"
	DefaultMetricsPath      = "/metrics"

	DefaultCurrency = "AUD"
)

// defaultValues is registered with viper so that every key is known to it
// and AutomaticEnv can override keys absent from the config file.
var defaultValues = map[string]interface{}{
	"server.host":             DefaultServerHost,
	"server.port":             DefaultServerPort,
	"server.read_timeout":     15 * time.Second,
	"server.write_timeout":    60 * time.Second,
	"server.shutdown_timeout": 10 * time.Second,
	"server.max_body_size":    int64(1 << 20),
	"server.session_ttl":      2 * time.Hour,

	"provider.base_url":   DefaultProviderBaseURL,
	"provider.api_key":    "",
	"provider.timeout":    DefaultProviderTimeout,
	"provider.user_agent": "titleorder/1.0",

	"database.enabled":            false,
	"database.host":               DefaultDBHost,
	"database.port":               DefaultDBPort,
	"database.user":               "titleorder",
	"database.password":           "",
	"database.db_name":            DefaultDBName,
	"database.ssl_mode":           "disable",
	"database.max_conns":          DefaultDBMaxConns,
	"database.min_conns":          1,
	"database.conn_max_lifetime":  time.Hour,
	"database.conn_max_idle_time": 30 * time.Minute,
	"database.auto_migrate":       false,

	"redis.enabled":       false,
	"redis.addr":          DefaultRedisAddr,
	"redis.password":      "",
	"redis.db":            0,
	"redis.pool_size":     10,
	"redis.dial_timeout":  5 * time.Second,
	"redis.read_timeout":  3 * time.Second,
	"redis.write_timeout": 3 * time.Second,
	"redis.search_ttl":    DefaultSearchTTL,
	"redis.key_prefix":    DefaultRedisKeyPrefix,

	"kafka.enabled":       false,
	"kafka.brokers":       []string{DefaultKafkaBroker},
	"kafka.topic":         DefaultKafkaTopic,
	"kafka.batch_timeout": 50 * time.Millisecond,
	"kafka.required_acks": -1,

	"minio.enabled":    false,
	"minio.endpoint":   DefaultMinIOEndpoint,
	"minio.access_key": "",
	"minio.secret_key": "",
	"minio.bucket":     DefaultMinIOBucket,
	"minio.region":     "",
	"minio.use_ssl":    false,

	"log.level":  DefaultLogLevel,
	"log.format": DefaultLogFormat,

	"metrics.enabled":   true,
	"metrics.namespace": DefaultMetricsNamespace,
	"metrics.path":      DefaultMetricsPath,

	"pricing.currency": DefaultCurrency,
	"pricing.default":  0.0,
}

// ApplyDefaults fills zero-value fields in cfg with defaults.  Explicitly set
// values always win.  It is called after unmarshalling and before Validate.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = 1 << 20
	}
	if cfg.Server.SessionTTL == 0 {
		cfg.Server.SessionTTL = 2 * time.Hour
	}

	// ── Provider ──────────────────────────────────────────────────────────────
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = DefaultProviderBaseURL
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = DefaultProviderTimeout
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.SearchTTL == 0 {
		cfg.Redis.SearchTTL = DefaultSearchTTL
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Pricing ───────────────────────────────────────────────────────────────
	if cfg.Pricing.Currency == "" {
		cfg.Pricing.Currency = DefaultCurrency
	}
}
