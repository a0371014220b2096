package app

import (
	"github.com/nil-go/konf"
	"github.com/nil-go/konf/provider/file"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Web     WebConfig     `konf:"web"`
	Logging LoggingConfig `konf:"logging"`
	DB      DBConfig      `konf:"db"`
	Auth    AuthConfig    `konf:"auth"`
	Rental  RentalConfig  `konf:"rental"`
	Kafka   KafkaConfig   `konf:"kafka"`
}

type WebConfig struct {
	Host                string `konf:"host"`
	Port                string `konf:"port"`
	ReadTimeoutSeconds  int    `konf:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `konf:"write_timeout_seconds"`
}

type LoggingConfig struct {
	Level int `konf:"level"`
}

type DBConfig struct {
	DriverName       string `konf:"driver_name"`
	ConnectionString string `konf:"connection_string"`
	MigrationsPath   string `konf:"migrations_path"`
}

type AuthConfig struct {
	JWTSecret       string `konf:"jwt_secret"`
	TokenTTLMinutes int    `konf:"token_ttl_minutes"`
}

const (
	GroupedWriteTransaction  = "transaction"
	GroupedWriteCompensation = "compensation"
)

type RentalConfig struct {
	GroupedWrite string `konf:"grouped_write"`
}

type KafkaConfig struct {
	Enabled   bool     `konf:"enabled"`
	Addresses []string `konf:"addresses"`
	Topic     string   `konf:"topic"`
}

type ConfigError string

func (e ConfigError) Error() string {
	return string(e)
}

const (
	ErrNoConnectionString ConfigError = "db.connection_string is not defined"
	ErrNoJWTSecret        ConfigError = "auth.jwt_secret is not defined"
	ErrBadGroupedWrite    ConfigError = "rental.grouped_write must be transaction or compensation"
	ErrNoKafkaTopic       ConfigError = "kafka.topic is not defined"
)

func defaultConfig() Config {
	return Config{
		Web: WebConfig{
			Host:                "0.0.0.0",
			Port:                "8080",
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
		},
		DB: DBConfig{
			DriverName:     "postgres",
			MigrationsPath: "migrations",
		},
		Auth: AuthConfig{
			TokenTTLMinutes: 24 * 60,
		},
		Rental: RentalConfig{
			GroupedWrite: GroupedWriteTransaction,
		},
	}
}

// ReadLocalConfig reads a YAML config file on top of the defaults.
func ReadLocalConfig(path string) (Config, error) {
	var loader konf.Config
	if err := loader.Load(file.New(path, file.WithUnmarshal(yaml.Unmarshal))); err != nil {
		return Config{}, errors.Wrap(err, "load config "+path)
	}

	config := defaultConfig()
	if err := loader.Unmarshal("", &config); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	if c.DB.ConnectionString == "" {
		return ErrNoConnectionString
	}

	switch c.Rental.GroupedWrite {
	case GroupedWriteTransaction, GroupedWriteCompensation:
	default:
		return ErrBadGroupedWrite
	}

	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return ErrNoKafkaTopic
	}

	return nil
}

// RequireAuth checks the settings only the API service needs.
func (c Config) RequireAuth() error {
	if c.Auth.JWTSecret == "" {
		return ErrNoJWTSecret
	}
	return nil
}
