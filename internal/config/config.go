package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	RatesFromInput    = "input"
	RatesFromPostgres = "postgres"
)

type Config struct {
	InputPath   string `envconfig:"INPUT_PATH"   required:"true"`
	OutputPath  string `envconfig:"OUTPUT_PATH"  default:"out.json"`
	LogFile     string `envconfig:"LOG_FILE"     default:"ledger.log"`
	LogLevel    string `envconfig:"LOG_LEVEL"    default:"info"`
	RatesSource string `envconfig:"RATES_SOURCE" default:"input"`
	DB          DBConfig
	Kafka       KafkaConfig
	HTTP        HTTPConfig
}

type DBConfig struct {
	Host           string `envconfig:"POSTGRES_HOST"     default:"localhost"`
	Port           string `envconfig:"POSTGRES_PORT"     default:"5432"`
	User           string `envconfig:"POSTGRES_USER"`
	Password       string `envconfig:"POSTGRES_PASSWORD"`
	DBName         string `envconfig:"POSTGRES_DB"`
	SSLMode        string `envconfig:"POSTGRES_SSLMODE"  default:"disable"`
	Migrate        bool   `envconfig:"DB_MIGRATE"        default:"true"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_PATH" default:"migrations"`
}

type KafkaConfig struct {
	Brokers []string      `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic   string        `envconfig:"KAFKA_TOPIC" default:"split-payments"`
	Enabled bool          `envconfig:"KAFKA_ENABLED" default:"false"`
	Workers int           `envconfig:"KAFKA_WORKERS" default:"2"`
	Buffer  int           `envconfig:"KAFKA_BUFFER" default:"256"`
	Timeout time.Duration `envconfig:"KAFKA_SEND_TIMEOUT" default:"5s"`
}

type HTTPConfig struct {
	Enabled bool   `envconfig:"HTTP_ENABLED" default:"false"`
	Port    string `envconfig:"APP_PORT" default:"8080"`
}

func NewConfig() (*Config, error) {
	envFile := "config.env"

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("warning: не удалось загрузить файл %s, используются только системные переменные окружения: %v", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return &cfg, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("INPUT_PATH не может быть пустым")
	}

	switch c.RatesSource {
	case RatesFromInput:
	case RatesFromPostgres:
		if c.DB.User == "" || c.DB.DBName == "" {
			return errors.New("POSTGRES_USER и POSTGRES_DB обязательны при RATES_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("неизвестный RATES_SOURCE %q", c.RatesSource)
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return errors.New("KAFKA_BROKERS не может быть пустым")
		}
		if c.Kafka.Workers < 1 || c.Kafka.Buffer < 1 {
			return errors.New("KAFKA_WORKERS и KAFKA_BUFFER должны быть положительными")
		}
	}
	return nil
}

func (c *Config) UsePostgres() bool {
	return c.RatesSource == RatesFromPostgres
}

func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}
func (d *DBConfig) MigrationURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}
