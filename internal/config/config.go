package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Increment policies understood by the bid validator
const (
	PolicyFixed   = "fixed"
	PolicyPercent = "percent"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`

	StoreDriver  string `mapstructure:"STORE_DRIVER"`
	PostgresConn string `mapstructure:"POSTGRES_CONN"`
	MigrationURL string `mapstructure:"MIGRATION_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	NATSURL       string `mapstructure:"NATS_URL"`
	EventBuffer   int    `mapstructure:"EVENT_BUFFER"`

	AuthSecret string `mapstructure:"AUTH_SECRET"`

	LotDuration        time.Duration `mapstructure:"LOT_DURATION"`
	SnipeWindow        time.Duration `mapstructure:"SNIPE_WINDOW"`
	SnipeExtension     time.Duration `mapstructure:"SNIPE_EXTENSION"`
	TickInterval       time.Duration `mapstructure:"TICK_INTERVAL"`
	EnrollmentDuration time.Duration `mapstructure:"ENROLLMENT_DURATION"`

	MaxRosterSize    int     `mapstructure:"MAX_ROSTER_SIZE"`
	MaxBid           float64 `mapstructure:"MAX_BID"`
	IncrementPolicy  string  `mapstructure:"INCREMENT_POLICY"`
	IncrementStep    float64 `mapstructure:"INCREMENT_STEP"`
	IncrementPercent float64 `mapstructure:"INCREMENT_PERCENT"`
	RequireMultiple  bool    `mapstructure:"REQUIRE_MULTIPLE"`

	DefaultTeamBudget   float64 `mapstructure:"DEFAULT_TEAM_BUDGET"`
	SelfEnrollBasePrice float64 `mapstructure:"SELF_ENROLL_BASE_PRICE"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":         ":8080",
	"LOG_LEVEL":              "info",
	"STORE_DRIVER":           DriverMemory,
	"POSTGRES_CONN":          "",
	"MIGRATION_URL":          "file://migrations",
	"REDIS_ADDR":             "",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               0,
	"NATS_URL":               "",
	"EVENT_BUFFER":           256,
	"AUTH_SECRET":            "",
	"LOT_DURATION":           "30s",
	"SNIPE_WINDOW":           "10s",
	"SNIPE_EXTENSION":        "10s",
	"TICK_INTERVAL":          "1s",
	"ENROLLMENT_DURATION":    "24h",
	"MAX_ROSTER_SIZE":        6,
	"MAX_BID":                500,
	"INCREMENT_POLICY":       PolicyFixed,
	"INCREMENT_STEP":         10,
	"INCREMENT_PERCENT":      10,
	"REQUIRE_MULTIPLE":       true,
	"DEFAULT_TEAM_BUDGET":    1000,
	"SELF_ENROLL_BASE_PRICE": 0,
}

// Default returns the configuration used when no file or environment overrides exist
func Default() Config {
	cfg, err := load(viper.New())
	if err != nil {
		// defaults are static and always decode
		panic(err)
	}
	return cfg
}

// LoadConfig reads app.env from path (if present); environment variables override it
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read app.env: %w", err)
		}
	}

	cfg, err := load(v)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func load(v *viper.Viper) (Config, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// Validate rejects values the auction cannot run with
func (c Config) Validate() error {
	switch {
	case c.StoreDriver != DriverMemory && c.StoreDriver != DriverPostgres:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	case c.StoreDriver == DriverPostgres && c.PostgresConn == "":
		return errors.New("config: POSTGRES_CONN is required for the postgres store")
	case c.LotDuration <= 5*time.Second:
		return errors.New("config: LOT_DURATION must exceed 5s")
	case c.SnipeWindow < 0 || c.SnipeExtension < 0:
		return errors.New("config: snipe window and extension must not be negative")
	case c.TickInterval <= 0:
		return errors.New("config: TICK_INTERVAL must be positive")
	case c.EnrollmentDuration <= 0:
		return errors.New("config: ENROLLMENT_DURATION must be positive")
	case c.MaxRosterSize <= 0:
		return errors.New("config: MAX_ROSTER_SIZE must be positive")
	case c.MaxBid <= 0:
		return errors.New("config: MAX_BID must be positive")
	case c.IncrementPolicy != PolicyFixed && c.IncrementPolicy != PolicyPercent:
		return fmt.Errorf("config: unknown INCREMENT_POLICY %q", c.IncrementPolicy)
	case c.IncrementPolicy == PolicyFixed && c.IncrementStep <= 0:
		return errors.New("config: INCREMENT_STEP must be positive")
	case c.IncrementPolicy == PolicyPercent && c.IncrementPercent <= 0:
		return errors.New("config: INCREMENT_PERCENT must be positive")
	case c.DefaultTeamBudget < 0 || c.SelfEnrollBasePrice < 0:
		return errors.New("config: budgets and prices must not be negative")
	case c.EventBuffer <= 0:
		return errors.New("config: EVENT_BUFFER must be positive")
	}
	return nil
}
