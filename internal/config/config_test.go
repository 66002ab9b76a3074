package config

import (
	"testing"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/clinic")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %s, want 8000", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Errorf("Env should default to development")
	}
	if cfg.SlotMinutes != 30 {
		t.Errorf("SlotMinutes = %d, want 30", cfg.SlotMinutes)
	}
	if cfg.LookaheadDays != 90 {
		t.Errorf("LookaheadDays = %d, want 90", cfg.LookaheadDays)
	}
	if cfg.DefaultDayStart != "09:00" || cfg.DefaultDayEnd != "17:00" {
		t.Errorf("default window = %s-%s, want 09:00-17:00", cfg.DefaultDayStart, cfg.DefaultDayEnd)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/clinic")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("SLOT_MINUTES", "15")
	t.Setenv("LOOKAHEAD_DAYS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.IsDev() {
		t.Errorf("production env reported as dev")
	}
	if cfg.SlotMinutes != 15 || cfg.LookaheadDays != 30 {
		t.Errorf("scheduling overrides not picked up: %d/%d", cfg.SlotMinutes, cfg.LookaheadDays)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		SlotMinutes:     30,
		LookaheadDays:   90,
		DefaultDayStart: "09:00",
		DefaultDayEnd:   "17:00",
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero slot", func(c *Config) { c.SlotMinutes = 0 }},
		{"slot not dividing hour", func(c *Config) { c.SlotMinutes = 45 }},
		{"zero lookahead", func(c *Config) { c.LookaheadDays = 0 }},
		{"bad start", func(c *Config) { c.DefaultDayStart = "nine" }},
		{"bad end", func(c *Config) { c.DefaultDayEnd = "25:00" }},
		{"inverted window", func(c *Config) { c.DefaultDayStart, c.DefaultDayEnd = "17:00", "09:00" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
