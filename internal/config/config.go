// Package config loads and validates application configuration from an
// optional YAML file overlaid with environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pkordes/transitlog-sink/internal/domain"
)

// Config holds all configuration values for the ingester.
// Keys are dotted paths (db.timezone); each may be overridden by the
// upper-cased, underscore-joined environment variable (DB_TIMEZONE).
type Config struct {
	DB         DB         `mapstructure:"db"`
	Kafka      Kafka      `mapstructure:"kafka"`
	Redelivery Redelivery `mapstructure:"redelivery"`
	Health     Health     `mapstructure:"health"`
	Log        Log        `mapstructure:"log"`
}

// DB configures the database connection.
type DB struct {
	// Timezone is the IANA zone timestamps are bound in. Required.
	Timezone string `mapstructure:"timezone" validate:"required,timezone"`

	// ConnectionString is the Postgres connection string. Required.
	// The alert path uses it as-is.
	ConnectionString string `mapstructure:"connectionString" validate:"required"`

	// Username and Password, when set, override the credentials in
	// ConnectionString for the cancellation path.
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Kafka configures the bus subscriptions.
// Topics are checked per pipeline by RequireTopics, since a process may host
// only one of them.
type Kafka struct {
	Brokers            []string      `mapstructure:"brokers" validate:"min=1,dive,required"`
	GroupID            string        `mapstructure:"groupId" validate:"required"`
	AlertsTopic        string        `mapstructure:"alertsTopic"`
	CancellationsTopic string        `mapstructure:"cancellationsTopic"`
	CommitInterval     time.Duration `mapstructure:"commitInterval" validate:"gt=0"`

	// DeadLetterTopic receives messages that can never be decoded. Empty
	// disables dead-lettering: such a message then stops its subscription.
	DeadLetterTopic string `mapstructure:"deadLetterTopic"`
}

// Redelivery configures how failing messages are retried.
type Redelivery struct {
	MaxAttempts    uint64        `mapstructure:"maxAttempts" validate:"gte=1"`
	InitialBackoff time.Duration `mapstructure:"initialBackoff" validate:"gt=0"`
}

// Health configures the optional health HTTP server.
type Health struct {
	// Addr is the listen address, e.g. ":8080". Empty disables the server.
	Addr string `mapstructure:"addr"`
}

// Log configures logging.
type Log struct {
	// Level controls the minimum log level: debug, info, warn, error.
	Level string `mapstructure:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

var defaults = map[string]any{
	"db.timezone":               "",
	"db.connectionString":       "",
	"db.username":               "",
	"db.password":               "",
	"kafka.brokers":             []string{"localhost:9092"},
	"kafka.groupId":             "transitlog-sink",
	"kafka.alertsTopic":         "transitdata.service-alerts",
	"kafka.cancellationsTopic":  "transitdata.trip-cancellations",
	"kafka.commitInterval":      time.Second,
	"kafka.deadLetterTopic":     "transitdata.transitlog-sink.dead-letter",
	"redelivery.maxAttempts":    5,
	"redelivery.initialBackoff": 500 * time.Millisecond,
	"health.addr":               "",
	"log.level":                 "info",
}

// Load reads configuration from the YAML file at path (skipped when path is
// empty) and from environment variables, then validates it.
// Every failure wraps domain.ErrConfigInvalid.
func Load(path string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// A variable set to "" clears the key, e.g. to disable dead-lettering.
	v.AllowEmptyEnv(true)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config.Load: %w: read %s: %w", domain.ErrConfigInvalid, path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w: %w", domain.ErrConfigInvalid, err)
	}

	if err := newValidator().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w: %s", domain.ErrConfigInvalid, describe(err))
	}
	return cfg, nil
}

// newValidator reports fields by their configuration key rather than the Go
// field name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		return name
	})
	return v
}

// describe lists each failing key, e.g. "db.timezone (required)".
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s (%s)", keyOf(fe.Namespace()), fe.Tag()))
	}
	return "invalid keys: " + strings.Join(parts, ", ")
}

// keyOf turns a validator namespace such as "Config.db.timezone" into the
// configuration key "db.timezone".
func keyOf(ns string) string {
	_, key, found := strings.Cut(ns, ".")
	if !found {
		return ns
	}
	return key
}

// RequireTopics checks that every enabled pipeline has a topic to consume.
func (c Config) RequireTopics(alerts, cancellations bool) error {
	var missing []string
	if alerts && c.Kafka.AlertsTopic == "" {
		missing = append(missing, "kafka.alertsTopic (required)")
	}
	if cancellations && c.Kafka.CancellationsTopic == "" {
		missing = append(missing, "kafka.cancellationsTopic (required)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config.RequireTopics: %w: invalid keys: %s", domain.ErrConfigInvalid, strings.Join(missing, ", "))
	}
	return nil
}
