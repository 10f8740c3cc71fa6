package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Temporal TemporalConfig `mapstructure:"temporal"`
	Session  SessionConfig  `mapstructure:"session"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// UpstreamConfig points at the remote airline REST API.
type UpstreamConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	FlightPageSize  int           `mapstructure:"flight_page_size"`
	TicketPageSize  int           `mapstructure:"ticket_page_size"`
	RosterPageSize  int           `mapstructure:"roster_page_size"`
	TakenSeatsLimit int           `mapstructure:"taken_seats_limit"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	TaskQueue string `mapstructure:"task_queue"`
}

type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
}

func LoadConfig() (*viper.Viper, error) {
	v := viper.New()

	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Defaults are complete; a missing file is not fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", GetEnv("API_PORT", "8080"))
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("upstream.base_url", GetEnv("UPSTREAM_BASE_URL", "http://localhost:8000/api/"))
	v.SetDefault("upstream.timeout", 10*time.Second)
	v.SetDefault("upstream.flight_page_size", 100)
	v.SetDefault("upstream.ticket_page_size", 50)
	v.SetDefault("upstream.roster_page_size", 100)
	v.SetDefault("upstream.taken_seats_limit", 500)

	v.SetDefault("redis.host", GetEnv("REDIS_HOST", "localhost"))
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("temporal.host_port", GetEnv("TEMPORAL_HOST", "localhost:7233"))
	v.SetDefault("temporal.task_queue", "ticket-purchase-queue")

	v.SetDefault("session.cookie_name", "bookingdesk_session")
	v.SetDefault("session.ttl", 24*time.Hour)
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
