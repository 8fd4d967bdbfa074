package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func validCfg() *Config {
	return &Config{
		Data: DataConfig{
			Driver:         DataDriverFile,
			Dir:            "data",
			PersonsFile:    "personnes.json",
			TitlesFile:     "titres.json",
			ComplaintsFile: "reclamations.json",
		},
		Pricing: PricingConfig{TicketPrice: 50, CardBasePrice: 5000},
		Events:  EventsConfig{Driver: EventsDriverMemory, ConsumerGroup: "transit"},
		HTTP:    HTTPConfig{ListenAddr: ":8080"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DataDriverFile, cfg.Data.Driver)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "personnes.json", cfg.Data.PersonsFile)
	assert.Equal(t, "titres.json", cfg.Data.TitlesFile)
	assert.Equal(t, "reclamations.json", cfg.Data.ComplaintsFile)
	assert.Equal(t, 50, cfg.Pricing.TicketPrice)
	assert.Equal(t, 5000, cfg.Pricing.CardBasePrice)
	assert.Equal(t, EventsDriverMemory, cfg.Events.Driver)
	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  dir: /var/lib/transit
pricing:
  card_base_price: 4000
events:
  driver: kafka
  kafka_brokers: ["k1:9092", "k2:9092"]
`), 0o644))
	t.Setenv("TRANSIT_HTTP_LISTEN_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/transit", cfg.Data.Dir)
	assert.Equal(t, 4000, cfg.Pricing.CardBasePrice)
	assert.Equal(t, 50, cfg.Pricing.TicketPrice)
	assert.Equal(t, EventsDriverKafka, cfg.Events.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, ":9090", cfg.HTTP.ListenAddr)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown data driver", func(c *Config) { c.Data.Driver = "sqlite" }, "data.driver"},
		{"postgres without dsn", func(c *Config) { c.Data.Driver = DataDriverPostgres }, "data.postgres_dsn"},
		{"empty file name", func(c *Config) { c.Data.TitlesFile = "" }, "file names"},
		{"zero card price", func(c *Config) { c.Pricing.CardBasePrice = 0 }, "pricing.card_base_price"},
		{"negative ticket price", func(c *Config) { c.Pricing.TicketPrice = -1 }, "pricing.ticket_price"},
		{"unknown events driver", func(c *Config) { c.Events.Driver = "nats" }, "events.driver"},
		{"redis without addr", func(c *Config) { c.Events.Driver = EventsDriverRedis }, "events.redis_addr"},
		{"kafka without brokers", func(c *Config) { c.Events.Driver = EventsDriverKafka }, "events.kafka_brokers"},
		{"empty listen addr", func(c *Config) { c.HTTP.ListenAddr = "" }, "http.listen_addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validCfg()
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

func TestDataConfig_StringMasksPassword(t *testing.T) {
	c := DataConfig{Driver: DataDriverPostgres, PostgresDSN: "host=db user=transit password=s3cret dbname=transit"}
	assert.NotContains(t, c.String(), "s3cret")
	assert.Contains(t, c.String(), "password=***")
}
