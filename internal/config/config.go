// Package config loads process configuration from the environment.
//
// A .env file in the working directory is honored when present, so local
// development matches the deployed environment shape.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Category is one expense category, tagged with the emoji used as its
// stored identifier.
type Category struct {
	Emoji string
	Label string
}

// Config carries everything the process needs at startup. The currency and
// category sets are injected into the services from here; nothing below the
// bot layer hardcodes them.
type Config struct {
	BotToken        string
	DBPath          string
	MetricsAddr     string
	Currencies      []string
	DefaultCurrency string
	Categories      []Category
	DefaultCategory string
}

// Load reads configuration from the environment, after loading .env if one
// exists. It fails only when the bot token is missing.
func Load() (Config, error) {
	// Missing .env is fine; env vars may be set directly.
	_ = godotenv.Load()

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return Config{}, fmt.Errorf("BOT_TOKEN not set; export it or add it to .env")
	}

	cfg := Config{
		BotToken:        token,
		DBPath:          getEnv("DB_PATH", "./data/tripsplit.db"),
		MetricsAddr:     getEnv("METRICS_ADDR", ":9090"),
		Currencies:      splitList(getEnv("CURRENCIES", "EUR,USD,RUB,THB,GEL,TRY,CNY")),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "EUR"),
		Categories:      defaultCategories(),
		DefaultCategory: "💸",
	}

	if !contains(cfg.Currencies, cfg.DefaultCurrency) {
		return Config{}, fmt.Errorf("default currency %q not in currency set %v", cfg.DefaultCurrency, cfg.Currencies)
	}
	return cfg, nil
}

func defaultCategories() []Category {
	return []Category{
		{Emoji: "💸", Label: "General"},
		{Emoji: "🍽", Label: "Food"},
		{Emoji: "🚕", Label: "Taxi"},
		{Emoji: "🏨", Label: "Lodging"},
		{Emoji: "🎟", Label: "Tickets"},
		{Emoji: "🛒", Label: "Shopping"},
		{Emoji: "🎉", Label: "Fun"},
	}
}

// CategoryLabel returns the label for a stored category emoji, falling back
// to the emoji itself for values not in the configured set.
func (c Config) CategoryLabel(emoji string) string {
	for _, cat := range c.Categories {
		if cat.Emoji == emoji {
			return cat.Label
		}
	}
	return emoji
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
