package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	DataDriverFile     = "file"
	DataDriverPostgres = "postgres"

	EventsDriverMemory   = "memory"
	EventsDriverChannels = "channels"
	EventsDriverRedis    = "redis"
	EventsDriverKafka    = "kafka"
)

type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Pricing PricingConfig `mapstructure:"pricing"`
	Events  EventsConfig  `mapstructure:"events"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DataConfig escolhe onde os três documentos vivem.
type DataConfig struct {
	Driver         string `mapstructure:"driver"`
	Dir            string `mapstructure:"dir"`
	PersonsFile    string `mapstructure:"persons_file"`
	TitlesFile     string `mapstructure:"titles_file"`
	ComplaintsFile string `mapstructure:"complaints_file"`
	PostgresDSN    string `mapstructure:"postgres_dsn"`
}

type PricingConfig struct {
	TicketPrice   int `mapstructure:"ticket_price"`
	CardBasePrice int `mapstructure:"card_base_price"`
}

type EventsConfig struct {
	Driver        string   `mapstructure:"driver"`
	RedisAddr     string   `mapstructure:"redis_addr"`
	KafkaBrokers  []string `mapstructure:"kafka_brokers"`
	ConsumerGroup string   `mapstructure:"consumer_group"`
}

type HTTPConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// String esconde a senha do DSN.
func (c DataConfig) String() string {
	return fmt.Sprintf("DataConfig{Driver:%s, Dir:%s, PostgresDSN:%s}", c.Driver, c.Dir, maskDSN(c.PostgresDSN))
}

func maskDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	fields := strings.Fields(dsn)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=***"
		}
	}
	return strings.Join(fields, " ")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.driver", DataDriverFile)
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.persons_file", "personnes.json")
	v.SetDefault("data.titles_file", "titres.json")
	v.SetDefault("data.complaints_file", "reclamations.json")
	v.SetDefault("data.postgres_dsn", "")

	v.SetDefault("pricing.ticket_price", 50)
	v.SetDefault("pricing.card_base_price", 5000)

	v.SetDefault("events.driver", EventsDriverMemory)
	v.SetDefault("events.redis_addr", "localhost:6379")
	v.SetDefault("events.kafka_brokers", []string{"localhost:9092"})
	v.SetDefault("events.consumer_group", "transit")

	v.SetDefault("http.listen_addr", ":8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "json")
}

// Load lê defaults, config.yaml opcional e variáveis TRANSIT_*.
// configFile vazio procura em $HOME/.transit e no diretório atual.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(homeDir(), ".transit"))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TRANSIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Data.Driver {
	case DataDriverFile:
		if c.Data.Dir == "" {
			return fmt.Errorf("data.dir must not be empty")
		}
	case DataDriverPostgres:
		if c.Data.PostgresDSN == "" {
			return fmt.Errorf("data.postgres_dsn must not be empty when data.driver is postgres")
		}
	default:
		return fmt.Errorf("data.driver must be %s or %s, got %q", DataDriverFile, DataDriverPostgres, c.Data.Driver)
	}
	if c.Data.PersonsFile == "" || c.Data.TitlesFile == "" || c.Data.ComplaintsFile == "" {
		return fmt.Errorf("data file names must not be empty")
	}

	if c.Pricing.TicketPrice < 0 {
		return fmt.Errorf("pricing.ticket_price must be >= 0")
	}
	if c.Pricing.CardBasePrice <= 0 {
		return fmt.Errorf("pricing.card_base_price must be greater than 0")
	}

	switch c.Events.Driver {
	case EventsDriverMemory, EventsDriverChannels:
	case EventsDriverRedis:
		if c.Events.RedisAddr == "" {
			return fmt.Errorf("events.redis_addr must not be empty when events.driver is redis")
		}
	case EventsDriverKafka:
		if len(c.Events.KafkaBrokers) == 0 {
			return fmt.Errorf("events.kafka_brokers must not be empty when events.driver is kafka")
		}
	default:
		return fmt.Errorf("events.driver %q is not supported", c.Events.Driver)
	}
	if (c.Events.Driver == EventsDriverRedis || c.Events.Driver == EventsDriverKafka) && c.Events.ConsumerGroup == "" {
		return fmt.Errorf("events.consumer_group must not be empty")
	}

	if c.HTTP.ListenAddr == "" {
		return fmt.Errorf("http.listen_addr must not be empty")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
