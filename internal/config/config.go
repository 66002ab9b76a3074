package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	MigrationsDir  string   `mapstructure:"MIGRATIONS_DIR"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`

	// Scheduling policy.
	SlotMinutes     int    `mapstructure:"SLOT_MINUTES"`
	LookaheadDays   int    `mapstructure:"LOOKAHEAD_DAYS"`
	DefaultDayStart string `mapstructure:"DEFAULT_DAY_START"`
	DefaultDayEnd   string `mapstructure:"DEFAULT_DAY_END"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("SLOT_MINUTES", 30)
	v.SetDefault("LOOKAHEAD_DAYS", 90)
	v.SetDefault("DEFAULT_DAY_START", "09:00")
	v.SetDefault("DEFAULT_DAY_END", "17:00")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("MIGRATIONS_DIR")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("SLOT_MINUTES")
	v.BindEnv("LOOKAHEAD_DAYS")
	v.BindEnv("DEFAULT_DAY_START")
	v.BindEnv("DEFAULT_DAY_END")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the scheduling policy settings are usable. The slot
// length must divide evenly into an hour so that generated slot times stay on
// predictable clock boundaries.
func (c *Config) Validate() error {
	if c.SlotMinutes <= 0 || 60%c.SlotMinutes != 0 {
		return fmt.Errorf("SLOT_MINUTES must be a positive divisor of 60, got %d", c.SlotMinutes)
	}
	if c.LookaheadDays < 1 {
		return fmt.Errorf("LOOKAHEAD_DAYS must be at least 1, got %d", c.LookaheadDays)
	}
	start, err := parseClock(c.DefaultDayStart)
	if err != nil {
		return fmt.Errorf("DEFAULT_DAY_START: %w", err)
	}
	end, err := parseClock(c.DefaultDayEnd)
	if err != nil {
		return fmt.Errorf("DEFAULT_DAY_END: %w", err)
	}
	if start >= end {
		return fmt.Errorf("DEFAULT_DAY_START %s must be before DEFAULT_DAY_END %s", c.DefaultDayStart, c.DefaultDayEnd)
	}
	return nil
}

func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid HH:MM value %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid HH:MM value %q", s)
	}
	return h*60 + m, nil
}
