package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// Database drivers.
const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Embedding providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderStub   = "stub"
)

const minJWTSecret = 32

// Config holds the jobmatch API configuration.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Database      DatabaseConfig      `yaml:"database"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Matching      MatchingConfig      `yaml:"matching"`
	Auth          AuthConfig          `yaml:"auth"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, memory (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // openai, gemini, stub
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	TaskType   string `yaml:"task_type"` // gemini only
	TimeoutSec int    `yaml:"timeout_sec"`
	CacheTTLH  int    `yaml:"cache_ttl_hours"` // 0 = keep forever
}

// MatchingConfig holds ranking and pagination settings.
type MatchingConfig struct {
	Concurrency     int `yaml:"concurrency"`
	DefaultLimit    int `yaml:"default_limit"`
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// NotificationsConfig selects the notification observers besides the store.
type NotificationsConfig struct {
	PushEnabled bool `yaml:"push_enabled"`
	LogEvents   bool `yaml:"log_events"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML with ${VAR} substitution, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "jobmatch:"
	}

	def := domain.DefaultEmbedding()
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = def.Provider
	}
	if c.Embedding.Provider == ProviderOpenAI {
		if c.Embedding.Model == "" {
			c.Embedding.Model = def.Model
		}
		if c.Embedding.Dimensions <= 0 {
			c.Embedding.Dimensions = def.Dimensions
		}
	}
	if c.Embedding.Provider == ProviderGemini {
		if c.Embedding.Model == "" {
			c.Embedding.Model = "gemini-embedding-001"
		}
		if c.Embedding.Dimensions <= 0 {
			c.Embedding.Dimensions = 768
		}
		if c.Embedding.TaskType == "" {
			c.Embedding.TaskType = "SEMANTIC_SIMILARITY"
		}
	}
	if c.Embedding.Provider == ProviderStub && c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = domain.StubDimensions
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 15
	}

	if c.Matching.Concurrency <= 0 {
		c.Matching.Concurrency = 4
	}
	if c.Matching.DefaultLimit <= 0 {
		c.Matching.DefaultLimit = 20
	}
	if c.Matching.DefaultPageSize <= 0 {
		c.Matching.DefaultPageSize = 20
	}
	if c.Matching.MaxPageSize <= 0 {
		c.Matching.MaxPageSize = 100
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 24
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Database.Driver {
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", DriverRedis)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverRedis, DriverMemory, c.Database.Driver)
	}

	switch c.Embedding.Provider {
	case ProviderOpenAI, ProviderGemini:
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("embedding.api_key is required for provider %q", c.Embedding.Provider)
		}
	case ProviderStub:
	default:
		return fmt.Errorf("embedding.provider must be one of openai, gemini, stub, got %q", c.Embedding.Provider)
	}

	if c.Embedding.CacheTTLH < 0 {
		return fmt.Errorf("embedding.cache_ttl_hours must not be negative, got %d", c.Embedding.CacheTTLH)
	}

	if c.Matching.DefaultPageSize > c.Matching.MaxPageSize {
		return fmt.Errorf("matching.default_page_size (%d) exceeds matching.max_page_size (%d)",
			c.Matching.DefaultPageSize, c.Matching.MaxPageSize)
	}

	if len(c.Auth.JWTSecret) < minJWTSecret {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes", minJWTSecret)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
