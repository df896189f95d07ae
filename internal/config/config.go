// Package config provides application configuration management with support
// for command-line flags, environment variables, .env files and an optional
// TOML config file.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Kakao     KakaoConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	// DataPath holds the SQLite file, the revocation store and the generated auth key.
	DataPath string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string // json or pretty; empty picks by environment
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               string        // Server port (default: 8000)
	ReadTimeout        time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout       time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout        time.Duration // HTTP idle timeout (default: 60s)
	CORSAllowedOrigins []string      // default: *
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// DatabaseConfig holds the store backend configuration.
type DatabaseConfig struct {
	Driver       string        // sqlite or postgres (default: sqlite)
	URL          string        // sqlite file path or postgres:// DSN
	QueryTimeout time.Duration // per store call (default: 5s)
}

// AuthConfig holds token configuration.
type AuthConfig struct {
	// JWTSecret signs access tokens. Empty means a key is generated under DataPath.
	JWTSecret string
	// AccessTokenDuration is the JWT lifetime (JWT_EXPIRE_MINUTES, default 60).
	AccessTokenDuration time.Duration
}

// KakaoConfig holds the Kakao Login application settings.
type KakaoConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	HTTPTimeout  time.Duration
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// fileConfig is the TOML config file layout. Every key maps onto the env
// variable of the same setting.
type fileConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	DataPath string `toml:"data_path"`
	Server   struct {
		Port               string   `toml:"port"`
		ReadTimeout        string   `toml:"read_timeout"`
		WriteTimeout       string   `toml:"write_timeout"`
		IdleTimeout        string   `toml:"idle_timeout"`
		CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
		TrustProxyHeaders  bool     `toml:"trust_proxy_headers"`
	} `toml:"server"`
	Database struct {
		Driver       string `toml:"driver"`
		URL          string `toml:"url"`
		QueryTimeout string `toml:"query_timeout"`
	} `toml:"database"`
	JWT struct {
		SecretKey     string `toml:"secret_key"`
		ExpireMinutes int    `toml:"expire_minutes"`
	} `toml:"jwt"`
	Kakao struct {
		ClientID     string `toml:"client_id"`
		ClientSecret string `toml:"client_secret"`
		RedirectURI  string `toml:"redirect_uri"`
		HTTPTimeout  string `toml:"http_timeout"`
	} `toml:"kakao"`
	RateLimit struct {
		RPS   float64 `toml:"rps"`
		Burst int     `toml:"burst"`
	} `toml:"rate_limit"`
}

// values flattens the file into env-style keys, skipping unset fields.
func (f *fileConfig) values() map[string]string {
	out := map[string]string{}
	set := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	set("ENV", f.Env)
	set("LOG_LEVEL", f.LogLevel)
	set("DATA_PATH", f.DataPath)
	set("SERVER_PORT", f.Server.Port)
	set("SERVER_READ_TIMEOUT", f.Server.ReadTimeout)
	set("SERVER_WRITE_TIMEOUT", f.Server.WriteTimeout)
	set("SERVER_IDLE_TIMEOUT", f.Server.IdleTimeout)
	set("CORS_ALLOWED_ORIGINS", strings.Join(f.Server.CORSAllowedOrigins, ","))
	if f.Server.TrustProxyHeaders {
		set("TRUST_PROXY_HEADERS", "true")
	}
	set("DATABASE_DRIVER", f.Database.Driver)
	set("DATABASE_URL", f.Database.URL)
	set("DATABASE_QUERY_TIMEOUT", f.Database.QueryTimeout)
	set("JWT_SECRET_KEY", f.JWT.SecretKey)
	if f.JWT.ExpireMinutes > 0 {
		set("JWT_EXPIRE_MINUTES", strconv.Itoa(f.JWT.ExpireMinutes))
	}
	set("KAKAO_CLIENT_ID", f.Kakao.ClientID)
	set("KAKAO_CLIENT_SECRET", f.Kakao.ClientSecret)
	set("KAKAO_REDIRECT_URI", f.Kakao.RedirectURI)
	set("KAKAO_HTTP_TIMEOUT", f.Kakao.HTTPTimeout)
	if f.RateLimit.RPS > 0 {
		set("RATE_LIMIT_RPS", strconv.FormatFloat(f.RateLimit.RPS, 'f', -1, 64))
	}
	if f.RateLimit.Burst > 0 {
		set("RATE_LIMIT_BURST", strconv.Itoa(f.RateLimit.Burst))
	}
	return out
}

// source resolves a setting by precedence:
// 1. Command-line flag (highest priority).
// 2. Environment variable (including values loaded from .env).
// 3. TOML config file.
// 4. Default value (lowest priority).
type source struct {
	flags *flag.FlagSet
	file  map[string]string
}

func (s *source) get(flagName, envKey, defaultValue string) string {
	if flagName != "" {
		if f := s.flags.Lookup(flagName); f != nil && f.Value.String() != "" {
			return f.Value.String()
		}
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	if fileValue := s.file[envKey]; fileValue != "" {
		return fileValue
	}
	return defaultValue
}

func (s *source) duration(flagName, envKey, defaultValue string) (time.Duration, error) {
	raw := s.get(flagName, envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, raw, err)
	}
	return d, nil
}

func (s *source) integer(flagName, envKey string, defaultValue int) (int, error) {
	raw := s.get(flagName, envKey, strconv.Itoa(defaultValue))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, raw, err)
	}
	return n, nil
}

func (s *source) boolean(flagName, envKey string, defaultValue bool) (bool, error) {
	raw := s.get(flagName, envKey, strconv.FormatBool(defaultValue))
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", envKey, raw, err)
	}
	return b, nil
}

// LoadConfig loads configuration from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load parses args and resolves every setting.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("massi5", flag.ContinueOnError)
	fs.String("env", "", "Environment (development, staging, production)")
	fs.String("log-level", "", "Log level (debug, info, warn, error)")
	fs.String("data-path", "", "Directory for the SQLite file, auth key and revocation store")
	fs.String("port", "", "Server port (default: 8000)")
	fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	fs.String("db-driver", "", "Database driver: sqlite or postgres (default: sqlite)")
	fs.String("db-url", "", "SQLite path or postgres:// DSN")
	envFile := fs.String("env-file", ".env", "Path to .env file")
	configFile := fs.String("config", "", "Path to TOML config file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	src := &source{flags: fs, file: map[string]string{}}
	if path := src.get("config", "CONFIG_FILE", *configFile); path != "" {
		fc, err := loadConfigFile(path)
		if err != nil {
			return nil, err
		}
		src.file = fc.values()
	}

	cfg := &Config{
		App: AppConfig{
			Environment: src.get("env", "ENV", "development"),
			DataPath:    src.get("data-path", "DATA_PATH", ""),
		},
		Logger: LoggerConfig{
			Level:  src.get("log-level", "LOG_LEVEL", "info"),
			Format: src.get("", "LOG_FORMAT", ""),
		},
		Server: ServerConfig{
			Port:               src.get("port", "SERVER_PORT", "8000"),
			CORSAllowedOrigins: splitList(src.get("", "CORS_ALLOWED_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(src.get("db-driver", "DATABASE_DRIVER", "sqlite")),
			URL:    src.get("db-url", "DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret: src.get("", "JWT_SECRET_KEY", ""),
		},
		Kakao: KakaoConfig{
			ClientID:     src.get("", "KAKAO_CLIENT_ID", ""),
			ClientSecret: src.get("", "KAKAO_CLIENT_SECRET", ""),
			RedirectURI:  src.get("", "KAKAO_REDIRECT_URI", ""),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = src.duration("read-timeout", "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = src.duration("write-timeout", "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = src.duration("idle-timeout", "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Server.TrustProxyHeaders, err = src.boolean("", "TRUST_PROXY_HEADERS", false); err != nil {
		return nil, err
	}
	if cfg.Database.QueryTimeout, err = src.duration("", "DATABASE_QUERY_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.Kakao.HTTPTimeout, err = src.duration("", "KAKAO_HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	expireMinutes, err := src.integer("", "JWT_EXPIRE_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	cfg.Auth.AccessTokenDuration = time.Duration(expireMinutes) * time.Minute

	rps := src.get("", "RATE_LIMIT_RPS", "10")
	if cfg.RateLimit.RPS, err = strconv.ParseFloat(rps, 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", rps, err)
	}
	if cfg.RateLimit.Burst, err = src.integer("", "RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.URL == "" {
		cfg.Database.URL = filepath.Join(cfg.App.DataPath, "massi5.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid database driver: %s (must be sqlite or postgres)", c.Database.Driver)
	}

	if c.Database.QueryTimeout <= 0 {
		return errors.New("DATABASE_QUERY_TIMEOUT must be positive")
	}
	if c.Auth.AccessTokenDuration <= 0 {
		return errors.New("JWT_EXPIRE_MINUTES must be positive")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	// Kakao settings are checked per request so the server can boot without them.
	if c.App.Environment == "production" && c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET_KEY is required in production")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data directory to ./data.
func (c *Config) expandDataPath() error {
	expanded, err := expandPath(c.App.DataPath, "")
	if err != nil {
		return err
	}
	if expanded == "" {
		if expanded, err = expandPath("data", ""); err != nil {
			return err
		}
	}
	c.App.DataPath = expanded
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadConfigFile decodes a TOML config file. Unknown keys are rejected.
func loadConfigFile(path string) (*fileConfig, error) {
	file, err := os.Open(path) //#nosec G304 -- config file path from user input is expected
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()

	var fc fileConfig
	dec := toml.NewDecoder(file)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return &fc, nil
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
