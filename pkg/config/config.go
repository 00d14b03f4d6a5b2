package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTP     HTTP
	Logger   Logger
	Postgres Postgres
	Pharmacy Pharmacy
	Places   Places
	Realtime Realtime
	Session  Session
	Kafka    Kafka
	Jobs     Jobs
}

type HTTP struct {
	Port              int           `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"1s"`
	AllowedOrigins    []string      `env:"HTTP_ALLOWED_ORIGINS" envSeparator:","`
}

type Logger struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

type Postgres struct {
	DSN             string        `env:"POSTGRES_DSN"`
	MaxConn         int32         `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConn         int32         `env:"POSTGRES_MIN_CONNS" envDefault:"1"`
	MaxConnIdle     time.Duration `env:"POSTGRES_MAX_CONN_IDLE" envDefault:"5m"`
	ConnectAttempts uint64        `env:"POSTGRES_CONNECT_ATTEMPTS" envDefault:"10"`
	ConnectDelay    time.Duration `env:"POSTGRES_CONNECT_DELAY" envDefault:"500ms"`
	SkipMigrations  bool          `env:"POSTGRES_SKIP_MIGRATIONS"`
}

// Pharmacy is the remote pharmacy backend the portal consumes.
type Pharmacy struct {
	APIURL        string        `env:"PHARMACY_API_URL"`
	WSURL         string        `env:"PHARMACY_WS_URL"`
	Timeout       time.Duration `env:"PHARMACY_TIMEOUT" envDefault:"10s"`
	RetryAttempts int           `env:"PHARMACY_RETRY_ATTEMPTS" envDefault:"3"`
}

type Places struct {
	APIURL        string        `env:"PLACES_API_URL"`
	APIKey        string        `env:"PLACES_API_KEY"`
	Timeout       time.Duration `env:"PLACES_TIMEOUT" envDefault:"5s"`
	RetryAttempts int           `env:"PLACES_RETRY_ATTEMPTS" envDefault:"2"`
}

type Realtime struct {
	MaxReconnects    uint64        `env:"REALTIME_MAX_RECONNECTS" envDefault:"5"`
	ReconnectDelay   time.Duration `env:"REALTIME_RECONNECT_DELAY" envDefault:"500ms"`
	ReconnectMax     time.Duration `env:"REALTIME_RECONNECT_MAX_DELAY" envDefault:"10s"`
	HandshakeTimeout time.Duration `env:"REALTIME_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	AckTimeout       time.Duration `env:"REALTIME_ACK_TIMEOUT" envDefault:"5s"`
}

type Session struct {
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	JWTPublicKey string        `env:"JWT_PUBLIC_KEY"`
}

type Kafka struct {
	Brokers            []string `env:"KAFKA_BROKERS" envSeparator:","`
	ConsumerID         string   `env:"KAFKA_CONSUMER_ID" envDefault:"pharmacy-portal"`
	LifecycleTopic     string   `env:"KAFKA_LIFECYCLE_TOPIC" envDefault:"pharmacy-lifecycle"`
	AccessChangedTopic string   `env:"KAFKA_ACCESS_CHANGED_TOPIC" envDefault:"pharmacy-access-changed"`
}

type Jobs struct {
	AccessRefreshInterval time.Duration `env:"JOB_ACCESS_REFRESH_INTERVAL" envDefault:"5m"`
	OrgContextPurge       time.Duration `env:"JOB_ORG_CONTEXT_PURGE_INTERVAL" envDefault:"24h"`
	OrgContextRetention   time.Duration `env:"ORG_CONTEXT_RETENTION" envDefault:"720h"`
}

func New(envPath string) (Config, error) {
	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	if c.Postgres.DSN == "" {
		return Config{}, errors.New("POSTGRES_DSN is required")
	}

	if c.Pharmacy.APIURL == "" || c.Pharmacy.WSURL == "" {
		return Config{}, errors.New("PHARMACY_API_URL and PHARMACY_WS_URL are required")
	}

	return c, nil
}
