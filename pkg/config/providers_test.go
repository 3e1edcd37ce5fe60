package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, path string, homePrice string) {
	t.Helper()
	content := "scenario:\n  home_price: " + homePrice + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func resolveOrFail(t *testing.T, flagPath string) (*Config, string) {
	t.Helper()
	cfg, source, err := Resolve(flagPath)
	if err != nil {
		t.Fatalf("resolving config: %v", err)
	}
	return cfg, source
}

// =============================================================================
// Provider Chain Priority
// =============================================================================

func TestResolve_FlagBeatsEverything(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	flagFile := filepath.Join(dir, "flag.yaml")
	envFile := filepath.Join(dir, "env.yaml")
	writeConfigFile(t, flagFile, "111111")
	writeConfigFile(t, envFile, "222222")
	writeConfigFile(t, LocalConfigFile, "333333")
	t.Setenv(EnvConfigPath, envFile)

	cfg, source := resolveOrFail(t, flagFile)
	if cfg.Scenario.HomePrice != 111111 {
		t.Errorf("expected the flag file's value, got %.0f", cfg.Scenario.HomePrice)
	}
	if !strings.HasPrefix(source, "flag ") {
		t.Errorf("expected a flag source, got %q", source)
	}
}

func TestResolve_EnvBeatsLocalFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	envFile := filepath.Join(dir, "env.yaml")
	writeConfigFile(t, envFile, "222222")
	writeConfigFile(t, LocalConfigFile, "333333")
	t.Setenv(EnvConfigPath, envFile)

	cfg, source := resolveOrFail(t, "")
	if cfg.Scenario.HomePrice != 222222 {
		t.Errorf("expected the env file's value, got %.0f", cfg.Scenario.HomePrice)
	}
	if !strings.HasPrefix(source, "env ") {
		t.Errorf("expected an env source, got %q", source)
	}
}

func TestResolve_LocalFileBeatsEmbedded(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfigPath, "")

	writeConfigFile(t, LocalConfigFile, "333333")

	cfg, source := resolveOrFail(t, "")
	if cfg.Scenario.HomePrice != 333333 {
		t.Errorf("expected the local file's value, got %.0f", cfg.Scenario.HomePrice)
	}
	if source != "file "+LocalConfigFile {
		t.Errorf("expected the local file source, got %q", source)
	}
}

func TestResolve_EmbeddedFallback(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfigPath, "")

	cfg, source := resolveOrFail(t, "")
	if source != "embedded defaults" {
		t.Errorf("expected the embedded source, got %q", source)
	}
	if cfg.Scenario.HomePrice != 500000 {
		t.Errorf("expected the embedded default price, got %.0f", cfg.Scenario.HomePrice)
	}
}

// =============================================================================
// Explicit Sources Fail Loudly
// =============================================================================

func TestResolve_MissingFlagFileFails(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfigPath, "")

	if _, _, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("a named but missing config file should fail, not fall through")
	}
}

func TestResolve_MissingEnvFileFails(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))

	if _, _, err := Resolve(""); err == nil {
		t.Fatal("an env-named but missing config file should fail, not fall through")
	}
}

func TestResolve_MalformedLocalFileFails(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfigPath, "")

	if err := os.WriteFile(LocalConfigFile, []byte("scenario: [not: valid"), 0644); err != nil {
		t.Fatalf("writing malformed file: %v", err)
	}
	if _, _, err := Resolve(""); err == nil {
		t.Fatal("a malformed local file should fail, not fall through")
	}
}
