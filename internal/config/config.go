package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port        string
	HTTPTimeout time.Duration
	LogLevel    slog.Level

	// SourceURL is the optional default endpoint for pull ingestion (a
	// JSON array of row objects, e.g. a sheet sync export).
	SourceURL string

	// DisplayCurrency is VND or USD. Only the unit-scale heuristic and
	// downstream formatting care.
	DisplayCurrency string
	// AssumeThousandsVND gates the thousands-VND correction. Defaults to
	// true when the currency is VND; set ASSUME_THOUSANDS_VND=false to
	// opt out.
	AssumeThousandsVND bool
	// ScaleAvgCPC additionally scales avg_cpc when the correction fires.
	ScaleAvgCPC bool
}

func FromEnv() Config {
	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	currency := strings.ToUpper(envOr("DISPLAY_CURRENCY", "VND"))
	assume := currency == "VND"
	if v := os.Getenv("ASSUME_THOUSANDS_VND"); v != "" {
		assume = v == "true" || v == "1"
	}
	return Config{
		Port:               envOr("PORT", "8080"),
		HTTPTimeout:        to,
		LogLevel:           lvl,
		SourceURL:          os.Getenv("SOURCE_URL"),
		DisplayCurrency:    currency,
		AssumeThousandsVND: assume,
		ScaleAvgCPC:        os.Getenv("SCALE_AVG_CPC") == "true",
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
