package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Vector:   VectorConfig{URL: "http://localhost:6334"},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingVectorURL(t *testing.T) {
	cfg := validConfig()
	cfg.Vector.URL = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing vector url")
	}
}

func TestValidate_ThresholdAboveOne(t *testing.T) {
	cfg := validConfig()
	cfg.Search.RoleExpansionThreshold = 1.2

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for threshold above 1")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Vector.Collection != "talents" {
		t.Errorf("expected collection=talents, got %q", cfg.Vector.Collection)
	}
	if cfg.Vector.Dimensions != 1536 {
		t.Errorf("expected Dimensions=1536, got %d", cfg.Vector.Dimensions)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("expected default embedding model, got %q", cfg.Embedding.Model)
	}
	if cfg.Search.DirectMatchThreshold != 0.70 {
		t.Errorf("expected DirectMatchThreshold=0.70, got %v", cfg.Search.DirectMatchThreshold)
	}
	if cfg.Search.LexicalRerankThreshold != 0.70 {
		t.Errorf("expected LexicalRerankThreshold=0.70, got %v", cfg.Search.LexicalRerankThreshold)
	}
	if cfg.Search.RoleExpansionThreshold != 0.65 {
		t.Errorf("expected RoleExpansionThreshold=0.65, got %v", cfg.Search.RoleExpansionThreshold)
	}
	if cfg.Search.SimilarTalentThreshold != 0.67 {
		t.Errorf("expected SimilarTalentThreshold=0.67, got %v", cfg.Search.SimilarTalentThreshold)
	}
	if cfg.Search.ExpansionBeam != 3 {
		t.Errorf("expected ExpansionBeam=3, got %d", cfg.Search.ExpansionBeam)
	}
	if cfg.Ingest.MaxBatchSize != 100 {
		t.Errorf("expected MaxBatchSize=100, got %d", cfg.Ingest.MaxBatchSize)
	}
	if cfg.Storage.KeyPrefix != "talent:" {
		t.Errorf("expected KeyPrefix=talent:, got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Search: SearchConfig{RoleExpansionThreshold: 0.8, ExpansionBeam: 5},
	}
	cfg.ApplyDefaults()

	if cfg.Search.RoleExpansionThreshold != 0.8 {
		t.Errorf("explicit threshold overwritten: %v", cfg.Search.RoleExpansionThreshold)
	}
	if cfg.Search.ExpansionBeam != 5 {
		t.Errorf("explicit beam overwritten: %d", cfg.Search.ExpansionBeam)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TS_TEST_KEY", "secret-value")

	in := []byte("api_key: ${TS_TEST_KEY}\nmodel: ${TS_TEST_MODEL:-text-embedding-3-small}\n")
	out := string(expandEnvVars(in))

	want := "api_key: secret-value\nmodel: text-embedding-3-small\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	content := []byte(`
http:
  port: 9090
database:
  addrs: ["localhost:6379"]
vector:
  url: "http://localhost:6334"
search:
  role_expansion_threshold: 0.72
`)
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), content, 0o600); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("Port = %d", cfg.HTTP.Port)
	}
	if cfg.Search.RoleExpansionThreshold != 0.72 {
		t.Errorf("RoleExpansionThreshold = %v", cfg.Search.RoleExpansionThreshold)
	}
	// Untouched fields still pick up defaults.
	if cfg.Search.ExpansionBeam != 3 {
		t.Errorf("ExpansionBeam = %d", cfg.Search.ExpansionBeam)
	}
}
