package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// FleetAPI holds the fleet backend connection settings.
	FleetAPI FleetAPIConfig `mapstructure:",squash"`

	// Redis holds the session storage connection settings.
	Redis RedisConfig `mapstructure:",squash"`

	// Session holds the browser session settings.
	Session SessionConfig `mapstructure:",squash"`

	// Proxy holds the optional upstream proxy used for backend calls.
	Proxy ProxyConfig `mapstructure:",squash"`

	// DashboardCacheSeconds is how long a dashboard KPI snapshot is reused.
	// Zero disables the snapshot cache.
	DashboardCacheSeconds int `mapstructure:"DASHBOARD_CACHE_SECONDS" default:"30"`
}

// DashboardCacheTTL returns the KPI snapshot lifetime as a duration.
func (c AppConfig) DashboardCacheTTL() time.Duration {
	return time.Duration(c.DashboardCacheSeconds) * time.Second
}

// FleetAPIConfig describes how to reach the fleet REST backend.
type FleetAPIConfig struct {
	// URL is the base URL of the backend API, including the /api prefix.
	URL string `mapstructure:"FLEET_API_URL" required:"true"`
	// TimeoutSeconds is the fixed timeout applied to every outbound request.
	TimeoutSeconds int `mapstructure:"FLEET_API_TIMEOUT_SECONDS" default:"15"`
	// RatePerSecond caps the outbound request rate.
	RatePerSecond int `mapstructure:"FLEET_API_RATE_PER_SECOND" default:"20"`
	// Burst is the limiter bucket size.
	Burst int `mapstructure:"FLEET_API_BURST" default:"40"`
}

// Timeout returns the outbound request timeout as a duration.
func (c FleetAPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RedisConfig holds the Redis connection string.
type RedisConfig struct {
	// URL has the form redis://[:password@]host[:port][/database].
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// SessionConfig holds settings for UI sessions kept by this service.
type SessionConfig struct {
	// TTLHours bounds how long stored tokens survive; matches the backend refresh lifetime.
	TTLHours int `mapstructure:"SESSION_TTL_HOURS" default:"168"`
	// CookieName is the cookie carrying the session identifier.
	CookieName string `mapstructure:"SESSION_COOKIE" default:"fleet_session"`
}

// TTL returns the session lifetime as a duration.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// ProxyConfig holds upstream proxy credentials.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED" default:"false"`
	Hostname string `mapstructure:"PROXY_HOSTNAME"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if config.FleetAPI.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid configuration: FLEET_API_TIMEOUT_SECONDS must be positive")
	}

	return &config, nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
