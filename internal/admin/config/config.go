package config

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile        = ".env"
	defaultAddress        = ":8080"
	defaultBasePath       = "/admin"
	defaultLoginPath      = "/admin/login"
	defaultEnvironment    = "Development"
	defaultSubmitPath     = "/url"
	defaultSubmitTimeout  = 15 * time.Second
	defaultUploadMaxBytes = 10 << 20
	defaultEditorCapacity = 512
	defaultEditorTTL      = 30 * time.Minute
	defaultShutdown       = 10 * time.Second
	defaultLogLevel       = "info"
)

// Config captures the admin server's runtime configuration by concern.
type Config struct {
	Server   ServerConfig
	Firebase FirebaseConfig
	Session  SessionConfig
	Catalog  CatalogConfig
	Uploads  UploadsConfig
	Editors  EditorsConfig
	LogLevel string
}

// ServerConfig configures the HTTP listener and routing.
type ServerConfig struct {
	Address         string
	BasePath        string
	LoginPath       string
	Environment     string
	ShutdownTimeout time.Duration
}

// FirebaseConfig enables Firebase ID token verification when ProjectID is set.
type FirebaseConfig struct {
	ProjectID string
}

// SessionConfig holds the secure cookie keys.
type SessionConfig struct {
	HashKey      []byte
	BlockKey     []byte
	CookieSecure bool
	// Generated is set when the keys were created at startup, so sessions
	// will not survive a restart.
	Generated bool
}

// CatalogConfig points at the catalog backend.
type CatalogConfig struct {
	APIBaseURL    string
	SubmitPath    string
	SubmitTimeout time.Duration
	FeaturesFile  string
}

// UploadsConfig selects where image files are stored. An empty bucket keeps
// them in memory.
type UploadsConfig struct {
	Bucket   string
	Prefix   string
	MaxBytes int64
}

// EditorsConfig bounds the in-memory editor registry.
type EditorsConfig struct {
	Capacity int
	TTL      time.Duration
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map. Values in the map take
// precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves the configuration from the explicit map, the process
// environment and the .env file, in that order of precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Address:         stringWithDefault(lookup, "ADMIN_HTTP_ADDR", defaultAddress),
			BasePath:        stringWithDefault(lookup, "ADMIN_BASE_PATH", defaultBasePath),
			LoginPath:       stringWithDefault(lookup, "ADMIN_LOGIN_PATH", defaultLoginPath),
			Environment:     stringWithDefault(lookup, "ADMIN_ENVIRONMENT", defaultEnvironment),
			ShutdownTimeout: durationWithDefault(lookup, "ADMIN_SHUTDOWN_TIMEOUT", defaultShutdown),
		},
		Firebase: FirebaseConfig{
			ProjectID: stringWithDefault(lookup, "FIREBASE_PROJECT_ID", ""),
		},
		Session: SessionConfig{
			CookieSecure: boolWithDefault(lookup, "ADMIN_SESSION_COOKIE_SECURE", false),
		},
		Catalog: CatalogConfig{
			APIBaseURL:    stringWithDefault(lookup, "CATALOG_API_BASE_URL", ""),
			SubmitPath:    stringWithDefault(lookup, "CATALOG_SUBMIT_PATH", defaultSubmitPath),
			SubmitTimeout: durationWithDefault(lookup, "CATALOG_SUBMIT_TIMEOUT", defaultSubmitTimeout),
			FeaturesFile:  stringWithDefault(lookup, "CATALOG_FEATURES_FILE", ""),
		},
		Uploads: UploadsConfig{
			Bucket:   stringWithDefault(lookup, "UPLOADS_BUCKET", ""),
			Prefix:   stringWithDefault(lookup, "UPLOADS_PREFIX", "characteristics"),
			MaxBytes: int64(intWithDefault(lookup, "UPLOADS_MAX_BYTES", defaultUploadMaxBytes)),
		},
		Editors: EditorsConfig{
			Capacity: intWithDefault(lookup, "EDITORS_CAPACITY", defaultEditorCapacity),
			TTL:      durationWithDefault(lookup, "EDITORS_TTL", defaultEditorTTL),
		},
		LogLevel: stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	var invalid []string
	hashKey, err := keyWithDefault(lookup, "ADMIN_SESSION_HASH_KEY")
	if err != nil {
		invalid = append(invalid, "Session.HashKey")
	}
	blockKey, err := keyWithDefault(lookup, "ADMIN_SESSION_BLOCK_KEY")
	if err != nil {
		invalid = append(invalid, "Session.BlockKey")
	}
	if len(hashKey) == 0 {
		hashKey = randomKey(64)
		blockKey = randomKey(32)
		cfg.Session.Generated = true
	}
	cfg.Session.HashKey = hashKey
	cfg.Session.BlockKey = blockKey

	if err := validateConfig(cfg, invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config, invalid []string) error {
	missing := append([]string(nil), invalid...)

	if strings.TrimSpace(cfg.Server.Address) == "" {
		missing = append(missing, "Server.Address")
	}
	if !strings.HasPrefix(cfg.Server.BasePath, "/") {
		missing = append(missing, "Server.BasePath")
	}
	if len(cfg.Session.HashKey) < 32 {
		missing = append(missing, "Session.HashKey")
	}
	switch len(cfg.Session.BlockKey) {
	case 0, 16, 24, 32:
	default:
		missing = append(missing, "Session.BlockKey")
	}
	if cfg.Catalog.SubmitTimeout <= 0 {
		missing = append(missing, "Catalog.SubmitTimeout")
	}
	if cfg.Uploads.MaxBytes <= 0 {
		missing = append(missing, "Uploads.MaxBytes")
	}
	if cfg.Editors.Capacity <= 0 {
		missing = append(missing, "Editors.Capacity")
	}
	if cfg.Editors.TTL <= 0 {
		missing = append(missing, "Editors.TTL")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

// keyWithDefault decodes a hex or base64 key. Missing keys yield nil.
func keyWithDefault(lookup func(string) (string, bool), key string) ([]byte, error) {
	raw, ok := lookup(key)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil, nil
	}
	if decoded, err := hex.DecodeString(raw); err == nil {
		return decoded, nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	return nil, fmt.Errorf("config: %s is neither hex nor base64", key)
}

func randomKey(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("config: generate key: %v", err))
	}
	return buf
}
