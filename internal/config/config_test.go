package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultProviderBaseURL, cfg.Provider.BaseURL)
	assert.Equal(t, DefaultProviderTimeout, cfg.Provider.Timeout)
	assert.Equal(t, DefaultSearchTTL, cfg.Redis.SearchTTL)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultKafkaTopic, cfg.Kafka.Topic)
	assert.Equal(t, DefaultMinIOBucket, cfg.MinIO.Bucket)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "AUD", cfg.Pricing.Currency)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: 9999}, Provider: ProviderConfig{Timeout: time.Second}}
	ApplyDefaults(cfg)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, time.Second, cfg.Provider.Timeout)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"relative provider url", func(c *Config) { c.Provider.BaseURL = "registry" }, "provider.base_url"},
		{"zero timeout", func(c *Config) { c.Provider.Timeout = -1 }, "provider.timeout"},
		{"database enabled without user", func(c *Config) {
			c.Database.Enabled = true
			c.Database.User = ""
		}, "database.user"},
		{"database disabled skips checks", func(c *Config) { c.Database.User = "" }, ""},
		{"kafka enabled without brokers", func(c *Config) {
			c.Kafka.Enabled = true
			c.Kafka.Brokers = nil
		}, "kafka.brokers"},
		{"redis negative db", func(c *Config) {
			c.Redis.Enabled = true
			c.Redis.DB = -1
		}, "redis.db"},
		{"minio missing bucket", func(c *Config) {
			c.MinIO.Enabled = true
			c.MinIO.Bucket = ""
		}, "minio"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"negative price", func(c *Config) { c.Pricing.Products = map[string]float64{"x": -1} }, "pricing.products"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database.User = "titleorder"
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPricingConfig_PriceFor(t *testing.T) {
	p := PricingConfig{Default: 10, Products: map[string]float64{"sa_volume_folio": 25.5}}
	assert.Equal(t, 25.5, p.PriceFor("SA_VOLUME_FOLIO"))
	assert.Equal(t, 10.0, p.PriceFor("NSW_ADDRESS"))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/ledger?sslmode=disable", d.DSN())
}

func TestServerConfig_Addr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", ServerConfig{Host: "127.0.0.1", Port: 8080}.Addr())
}
