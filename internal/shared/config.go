package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	APIBase         string
	APIRPS          int
	APITimeout      time.Duration
	BreakerFailures int
	SessionBackend  string // memory|redis
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	SessionTTL      time.Duration
	SecureCookie    bool
	RecentLimit     int
	DisplayTZ       *time.Location
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric setting")
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		APIBase:         env("HOTEL_API_BASE_URL", "https://hotel-management-api-b4dl.onrender.com/api"),
		APIRPS:          atoi("HOTEL_API_RPS", 10),
		APITimeout:      time.Duration(atoi("HOTEL_API_TIMEOUT_SECONDS", 15)) * time.Second,
		BreakerFailures: atoi("HOTEL_API_BREAKER_FAILURES", 5),
		SessionBackend:  env("SESSION_BACKEND", "memory"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		SessionTTL:      time.Duration(atoi("SESSION_TTL_SECONDS", 3600)) * time.Second,
		SecureCookie:    env("SECURE_COOKIE", "false") == "true",
		RecentLimit:     atoi("RECENT_BOOKINGS_LIMIT", 5),
		DisplayTZ:       time.UTC,
	}
	if tz := os.Getenv("DISPLAY_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Warn().Err(err).Str("tz", tz).Msg("unknown DISPLAY_TZ, using UTC")
		} else {
			c.DisplayTZ = loc
		}
	}
	if c.SessionBackend != "memory" && c.SessionBackend != "redis" {
		log.Warn().Str("backend", c.SessionBackend).Msg("unknown SESSION_BACKEND, using memory")
		c.SessionBackend = "memory"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
