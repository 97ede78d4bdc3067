// Package config loads application configuration from command-line flags,
// environment variables, and an optional .env file.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Data     DataConfig
	Library  LibraryConfig
	Server   ServerConfig
	Auth     AuthConfig
	Resolver ResolverConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds server state storage configuration (database, auth key,
// stream cache, search index).
type DataConfig struct {
	BasePath string
}

// LibraryConfig holds the local music library configuration.
type LibraryConfig struct {
	MusicPath string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name          string
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	CORSOrigins   []string
	AdvertiseMDNS bool
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes).
	// Populated by auth.LoadKey during bootstrap, not here.
	TokenKey []byte
	// Access token validity window. The original client expects 24h.
	TokenDuration time.Duration
}

// ResolverConfig holds yt-dlp stream resolution configuration.
type ResolverConfig struct {
	// YtdlpPath overrides binary lookup on PATH.
	YtdlpPath string
	// Timeout bounds a single yt-dlp invocation.
	Timeout time.Duration
	// CacheTTL is how long resolved stream URLs stay cached.
	CacheTTL time.Duration
}

// Load builds configuration with precedence:
// 1. command-line flags, 2. environment variables, 3. .env file, 4. defaults.
func Load() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for server state (database, keys, caches)")
	musicPath := flag.String("music-path", "", "Path to the local music folder")
	serverName := flag.String("server-name", "", "Display name for the server")
	serverPort := flag.String("port", "", "Server port (default: 4000)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins")
	advertiseMDNS := flag.String("advertise-mdns", "", "Advertise via mDNS/Zeroconf (default: true)")
	tokenDuration := flag.String("token-duration", "", "Access token lifetime (default: 24h)")
	ytdlpPath := flag.String("ytdlp-path", "", "Path to the yt-dlp binary (default: lookup on PATH)")
	resolveTimeout := flag.String("resolve-timeout", "", "yt-dlp invocation timeout (default: 30s)")
	resolveCacheTTL := flag.String("resolve-cache-ttl", "", "Resolved stream URL cache TTL (default: 30m)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env if present; absence is fine.
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getValue(*dataPath, "DATA_PATH", ""),
		},
		Library: LibraryConfig{
			MusicPath: getValue(*musicPath, "MUSIC_PATH", ""),
		},
		Server: ServerConfig{
			Name:          getValue(*serverName, "SERVER_NAME", "Off The Record"),
			Port:          getValue(*serverPort, "SERVER_PORT", "4000"),
			CORSOrigins:   splitOrigins(getValue(*corsOrigins, "CORS_ORIGINS", "")),
			AdvertiseMDNS: getBoolValue(*advertiseMDNS, "ADVERTISE_MDNS", true),
		},
	}

	var err error
	if cfg.Auth.TokenDuration, err = getDurationValue(*tokenDuration, "TOKEN_DURATION", "24h"); err != nil {
		return nil, fmt.Errorf("invalid token duration: %w", err)
	}
	if cfg.Server.ReadTimeout, err = getDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = getDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = getDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}

	cfg.Resolver.YtdlpPath = getValue(*ytdlpPath, "YTDLP_PATH", "")
	if cfg.Resolver.Timeout, err = getDurationValue(*resolveTimeout, "RESOLVE_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid resolve timeout: %w", err)
	}
	if cfg.Resolver.CacheTTL, err = getDurationValue(*resolveCacheTTL, "RESOLVE_CACHE_TTL", "30m"); err != nil {
		return nil, fmt.Errorf("invalid resolve cache TTL: %w", err)
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if err := cfg.expandMusicPath(); err != nil {
		return nil, fmt.Errorf("invalid music path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required values are present and well-formed.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	case "":
		return errors.New("ENV is required")
	default:
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Auth.TokenDuration <= 0 {
		return errors.New("token duration must be positive")
	}

	// MusicPath may be empty; the library endpoints then serve an empty list.

	return nil
}

// IsProduction reports whether the server runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// DatabasePath returns the sqlite database location under the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Data.BasePath, "otr.db")
}

// StreamCachePath returns the badger cache location under the data dir.
func (c *Config) StreamCachePath() string {
	return filepath.Join(c.Data.BasePath, "cache", "streams")
}

// expandPath expands a leading ~ and makes the path absolute.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "offtherecord", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

func (c *Config) expandMusicPath() error {
	if c.Library.MusicPath == "" {
		return nil
	}

	expanded, err := expandPath(c.Library.MusicPath, "")
	if err != nil {
		return err
	}
	c.Library.MusicPath = expanded
	return nil
}

// splitOrigins parses a comma-separated origin list, dropping empties.
func splitOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var origins []string
	for part := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// getValue returns the first non-empty value of flag, env var, or default.
func getValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolValue accepts "true", "1", "yes" (case-insensitive) as true.
func getBoolValue(flagValue, envKey string, defaultValue bool) bool {
	v := getValue(flagValue, envKey, "")
	if v == "" {
		return defaultValue
	}
	v = strings.ToLower(v)
	return v == "true" || v == "1" || v == "yes"
}

func getDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	return time.ParseDuration(getValue(flagValue, envKey, defaultValue))
}

// loadEnvFile loads KEY=value lines from a .env file into the environment.
// Existing environment variables win.
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- env file path is operator input
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if key == "" || os.Getenv(key) != "" {
			continue
		}
		os.Setenv(key, value)
	}

	return scanner.Err()
}
