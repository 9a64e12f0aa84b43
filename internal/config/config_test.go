package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	p := writeFile(t, `
addr: ":9000"
canvas:
  width: 240
challenge:
  length: 6
  failure_delay: 5s
stats:
  store: none
token:
  secret: s3cret
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	want.Addr = ":9000"
	want.Canvas.Width = 240
	want.Challenge.Length = 6
	want.Challenge.FailureDelay = 5 * time.Second
	want.Stats.Store = "none"
	want.Token.Secret = "s3cret"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	for _, body := range []string{
		"stats:\n  store: sqlite\n",
		"canvas:\n  width: -1\n",
		"challenge: [",
	} {
		cfg, err := LoadConfig(writeFile(t, body))
		if err == nil {
			t.Errorf("%q: expected an error", body)
		}
		if cfg.Stats.Store != "memory" {
			t.Errorf("%q: did not fall back to defaults", body)
		}
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	if got := Path("config.yaml"); got != "config.yaml" {
		t.Fatalf("Path = %q", got)
	}
	t.Setenv(EnvPath, "/etc/scrawl.yaml")
	if got := Path("config.yaml"); got != "/etc/scrawl.yaml" {
		t.Fatalf("Path = %q", got)
	}
}
