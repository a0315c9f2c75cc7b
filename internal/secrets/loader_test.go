package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSecret(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeSecret(t, "  crm-token\n")

	secret, err := Load(Source{Name: "crm token", Value: "inline", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "crm-token" {
		t.Fatalf("expected file secret, got %q", secret)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeSecret(t, "\n")

	_, err := Load(Source{Name: "crm token", Value: "inline", File: path})
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Source{File: filepath.Join(t.TempDir(), "missing")})
	if err == nil || !strings.Contains(err.Error(), "reading secret from file") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestLoadValueAndEnv(t *testing.T) {
	t.Setenv("PROPERTY_ALERTS_TEST_TOKEN", " from-env ")

	secret, err := Load(Source{Value: " inline ", Env: "PROPERTY_ALERTS_TEST_TOKEN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "inline" {
		t.Fatalf("expected inline value to win, got %q", secret)
	}

	secret, err = Load(Source{Env: "PROPERTY_ALERTS_TEST_TOKEN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "from-env" {
		t.Fatalf("expected env value, got %q", secret)
	}

	t.Setenv("PROPERTY_ALERTS_TEST_TOKEN", "")
	_, err = Load(Source{Name: "gemini api key", Env: "PROPERTY_ALERTS_TEST_TOKEN"})
	want := "gemini api key is not configured (checked $PROPERTY_ALERTS_TEST_TOKEN)"
	if err == nil || err.Error() != want {
		t.Fatalf("expected %q, got %v", want, err)
	}
}

func TestLoadNothingConfigured(t *testing.T) {
	_, err := Load(Source{})
	if err == nil || err.Error() != "secret is not configured" {
		t.Fatalf("unexpected error: %v", err)
	}
}
