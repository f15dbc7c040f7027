package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// EnvPrefix префикс переменных окружения, переопределяющих файл (BOOKING_DATABASE_PASSWORD)
const EnvPrefix = "BOOKING"

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig          `toml:"server" split_words:"true"`
	Database        DatabaseConfig        `toml:"database" split_words:"true"`
	Logs            LogsConfig            `toml:"logs" split_words:"true"`
	Metrics         MetricsConfig         `toml:"metrics" split_words:"true"`
	IdentityService IdentityServiceConfig `toml:"identity_service" split_words:"true"`
	Events          EventsConfig          `toml:"events" split_words:"true"`
	Booking         BookingConfig         `toml:"booking" split_words:"true"`
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// IdentityServiceConfig сервис, определяющий права пользователя
type IdentityServiceConfig struct {
	URL     string `toml:"url" split_words:"true"`
	Timeout int    `toml:"timeout" split_words:"true"` // секунды
}

// EventsConfig публикация событий жизненного цикла в RabbitMQ
type EventsConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	URL      string `toml:"url" split_words:"true"`
	Exchange string `toml:"exchange" split_words:"true"`
}

// BookingConfig параметры бронирований
type BookingConfig struct {
	DefaultHoldSeconds int            `toml:"default_hold_seconds" split_words:"true"`
	DefaultCurrency    string         `toml:"default_currency" split_words:"true"`
	Statuses           StatusesConfig `toml:"statuses" split_words:"true"`
}

// StatusesConfig коды статусов и политики отката
type StatusesConfig struct {
	HoldCode         string `toml:"hold_code" split_words:"true"`
	HoldFallbackCode string `toml:"hold_fallback_code" split_words:"true"`
	CancelledCode    string `toml:"cancelled_code" split_words:"true"`
	CancelFallback   string `toml:"cancel_fallback" split_words:"true"`
}

// Policy переводит настройки статусов в политику переходов
func (c StatusesConfig) Policy() domain.StatusPolicy {
	return domain.StatusPolicy{
		Hold:           domain.BookingStatus(c.HoldCode),
		HoldFallback:   domain.BookingStatus(c.HoldFallbackCode),
		Cancelled:      domain.BookingStatus(c.CancelledCode),
		CancelFallback: domain.CancelFallback(c.CancelFallback),
	}
}

// Load читает TOML файл, затем применяет переменные окружения BOOKING_*.
// Отсутствующий файл не ошибка: конфигурация берется из окружения и значений по умолчанию.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to read environment: %v", ErrInvalidConfig, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	setInt(&c.Server.HTTPPort, 8080)
	setInt(&c.Server.ReadTimeout, 15)
	setInt(&c.Server.WriteTimeout, 15)
	setInt(&c.Server.IdleTimeout, 60)
	setInt(&c.Server.ShutdownTimeout, 10)

	setString(&c.Database.Host, "localhost")
	setInt(&c.Database.Port, 5432)
	setString(&c.Database.SSLMode, "disable")
	setInt(&c.Database.MaxOpenConns, 25)
	setInt(&c.Database.MaxIdleConns, 5)
	setInt(&c.Database.ConnMaxLifetime, 300)

	setString(&c.Logs.Level, "info")

	setString(&c.Metrics.Path, "/metrics")
	setString(&c.Metrics.ServiceName, "facility_booking")

	setInt(&c.IdentityService.Timeout, 5)

	setString(&c.Events.Exchange, "booking.events")

	setInt(&c.Booking.DefaultHoldSeconds, domain.DefaultHoldSeconds)
	setString(&c.Booking.DefaultCurrency, domain.DefaultCurrency)

	defaults := domain.DefaultStatusPolicy()
	setString(&c.Booking.Statuses.HoldCode, string(defaults.Hold))
	setString(&c.Booking.Statuses.HoldFallbackCode, string(defaults.HoldFallback))
	setString(&c.Booking.Statuses.CancelledCode, string(defaults.Cancelled))
	setString(&c.Booking.Statuses.CancelFallback, string(defaults.CancelFallback))
}

func (c *Config) validate() error {
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.IdentityService.URL == "" {
		return fmt.Errorf("%w: identity_service.url is required", ErrInvalidConfig)
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return fmt.Errorf("%w: events.url is required when events are enabled", ErrInvalidConfig)
	}
	if c.Booking.DefaultHoldSeconds < domain.MinHoldSeconds {
		return fmt.Errorf("%w: booking.default_hold_seconds must be at least %d", ErrInvalidConfig, domain.MinHoldSeconds)
	}

	currency, ok := domain.NormalizeCurrency(c.Booking.DefaultCurrency)
	if !ok {
		return fmt.Errorf("%w: booking.default_currency must be a 3-letter code", ErrInvalidConfig)
	}
	c.Booking.DefaultCurrency = currency

	c.Booking.Statuses.CancelFallback = strings.TrimSpace(c.Booking.Statuses.CancelFallback)
	switch domain.CancelFallback(c.Booking.Statuses.CancelFallback) {
	case domain.CancelFallbackExpireHold, domain.CancelFallbackNone:
	default:
		return fmt.Errorf("%w: booking.statuses.cancel_fallback must be %q or %q",
			ErrInvalidConfig, domain.CancelFallbackExpireHold, domain.CancelFallbackNone)
	}

	return nil
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}
