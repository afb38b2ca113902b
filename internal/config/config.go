package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI              string
	DBName                string
	PostgresURI           string // optional; selects the postgres billing ledger
	RedisURI              string // optional; enables shared cache, feed fan-out and rate limit
	SessionSecret         string
	Port                  string
	FrontendURL           string
	AllowedOrigins        []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
	CloudinaryName        string
	CloudinaryAPIKey      string
	CloudinaryAPISecret   string
	CloudinaryFolder      string
	Host                  string // Raw HOST env (e.g. https://api.nainix.com)
	AllowedHost           string // Hostname only for strict host check (production only)
	Environment           string // ENV: production, development, etc.
	LogLevel              string
	SeedFallback          bool
	JobCacheTTL           time.Duration
	FeaturedSweepInterval time.Duration
}

var (
	ErrMissingSessionSecret = errors.New("SESSION_SECRET is required")
	ErrMissingMongoURI      = errors.New("MONGODB_URI (or MONGO_URL) is required")
)

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	host := getEnv("HOST", "http://localhost:8080")

	// AllowedHost is only set in production; host check is skipped in development
	var allowedHost string
	if env == "production" {
		allowedHost = hostname(host)
	}

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	// When HOST is a backend host (e.g. api.nainix.com), always add https://domain and https://www.domain
	if h := hostname(host); h != "" && h != "localhost" {
		parts := strings.Split(h, ".")
		if len(parts) >= 2 {
			domain := strings.Join(parts[1:], ".")
			for _, origin := range []string{"https://" + domain, "https://www." + domain} {
				if !containsOrigin(allowedOrigins, origin) {
					allowedOrigins = append(allowedOrigins, origin)
				}
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		MongoURI:              getEnv("MONGODB_URI", getEnv("MONGO_URL", "")),
		DBName:                getEnv("DB_NAME", "nainix"),
		PostgresURI:           getEnv("POSTGRES_URI", ""),
		RedisURI:              getEnv("REDIS_URI", ""),
		SessionSecret:         getEnv("SESSION_SECRET", ""),
		Host:                  host,
		AllowedHost:           allowedHost,
		Environment:           env,
		Port:                  getEnv("PORT", "8080"),
		FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins:        allowedOrigins,
		CloudinaryName:        getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:      getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:   getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:      getEnv("CLOUDINARY_FOLDER", "nainix/avatars"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		SeedFallback:          getBool("SEED_FALLBACK", false),
		JobCacheTTL:           getDuration("JOB_CACHE_TTL", 30*time.Second),
		FeaturedSweepInterval: getDuration("FEATURED_SWEEP_INTERVAL", time.Minute),
	}
}

// Validate reports the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.SessionSecret) == "" {
		errs = append(errs, ErrMissingSessionSecret)
	}
	if strings.TrimSpace(c.MongoURI) == "" {
		errs = append(errs, ErrMissingMongoURI)
	}
	return errors.Join(errs...)
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// CloudinaryEnabled reports whether all Cloudinary credentials are set.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// hostname strips scheme, path and port from a HOST value.
func hostname(host string) string {
	for _, prefix := range []string{"https://", "http://"} {
		host = strings.TrimPrefix(host, prefix)
	}
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return strings.TrimSpace(host)
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsOrigin(list []string, o string) bool {
	o = strings.TrimSpace(strings.ToLower(o))
	for _, v := range list {
		if strings.TrimSpace(strings.ToLower(v)) == o {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return v
}

// getDuration accepts Go durations ("45s", "2m") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
