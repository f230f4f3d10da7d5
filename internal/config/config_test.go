package config

import (
	"strings"
	"testing"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() Config {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{Provider: ProviderOpenAI, APIKey: "sk-test"},
		Auth:      AuthConfig{JWTSecret: testSecret},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Database.Driver != DriverRedis {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Database.KeyPrefix != "jobmatch:" {
		t.Errorf("key prefix = %q", cfg.Database.KeyPrefix)
	}
	if cfg.Embedding.Provider != ProviderOpenAI || cfg.Embedding.Model != "text-embedding-3-small" || cfg.Embedding.Dimensions != 1536 {
		t.Errorf("embedding = %+v", cfg.Embedding)
	}
	if cfg.Matching.Concurrency != 4 || cfg.Matching.DefaultLimit != 20 {
		t.Errorf("matching = %+v", cfg.Matching)
	}
	if cfg.Auth.TokenTTLHours != 24 {
		t.Errorf("token ttl = %d", cfg.Auth.TokenTTLHours)
	}
}

func TestApplyDefaults_ProviderSpecific(t *testing.T) {
	gemini := Config{Embedding: EmbeddingConfig{Provider: ProviderGemini}}
	gemini.ApplyDefaults()
	if gemini.Embedding.Model != "gemini-embedding-001" || gemini.Embedding.Dimensions != 768 ||
		gemini.Embedding.TaskType != "SEMANTIC_SIMILARITY" {
		t.Errorf("gemini = %+v", gemini.Embedding)
	}

	stub := Config{Embedding: EmbeddingConfig{Provider: ProviderStub}}
	stub.ApplyDefaults()
	if stub.Embedding.Dimensions != 256 || stub.Embedding.Model != "" {
		t.Errorf("stub = %+v", stub.Embedding)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"redis without addrs", func(c *Config) { c.Database.Addrs = nil }, "database.addrs"},
		{"memory without addrs", func(c *Config) { c.Database.Driver = DriverMemory; c.Database.Addrs = nil }, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "valkey" }, "database.driver"},
		{"missing api key", func(c *Config) { c.Embedding.APIKey = "" }, "embedding.api_key"},
		{"stub without api key", func(c *Config) { c.Embedding.Provider = ProviderStub; c.Embedding.APIKey = "" }, ""},
		{"unknown provider", func(c *Config) { c.Embedding.Provider = "cohere" }, "embedding.provider"},
		{"negative cache ttl", func(c *Config) { c.Embedding.CacheTTLH = -1 }, "cache_ttl_hours"},
		{"page sizes", func(c *Config) { c.Matching.DefaultPageSize = 500 }, "default_page_size"},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "secret" }, "auth.jwt_secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("JOBMATCH_TEST_SECRET", testSecret)
	t.Setenv("JOBMATCH_TEST_PORT", "9090")

	cfg, err := Parse([]byte(`
http:
  port: ${JOBMATCH_TEST_PORT}
database:
  driver: ${JOBMATCH_TEST_DRIVER:-memory}
embedding:
  provider: stub
auth:
  jwt_secret: ${JOBMATCH_TEST_SECRET}
notifications:
  push_enabled: true
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.Database.Driver != DriverMemory || cfg.Auth.JWTSecret != testSecret {
		t.Errorf("config = %+v", cfg)
	}
	if !cfg.Notifications.PushEnabled {
		t.Error("push should be enabled")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Error("expected validation error")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("JOBMATCH_SET", "value")
	got := string(expandEnvVars([]byte("a=${JOBMATCH_SET} b=${JOBMATCH_UNSET:-fallback} c=${JOBMATCH_UNSET}")))
	if got != "a=value b=fallback c=" {
		t.Errorf("got %q", got)
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("load local: %v", err)
	}
	if cfg.Database.Driver != DriverMemory || cfg.Embedding.Provider != ProviderStub {
		t.Errorf("local config = %+v", cfg)
	}
}
