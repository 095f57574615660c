package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "markerserver.cfg.json"), []byte(body), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{
		"listen": ":9090",
		"logLevel": "debug",
		"rules": { "path": "/etc/marker/waypoints.json" },
		"storage": { "path": "/var/lib/marker/waypoints.db" },
		"influx": { "enabled": true, "token": "secret" }
	}`)

	if err := Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := viper.GetString("listen"); got != ":9090" {
		t.Fatalf("listen = %q, want %q", got, ":9090")
	}
	if got := viper.GetString("logLevel"); got != "debug" {
		t.Fatalf("logLevel = %q, want %q", got, "debug")
	}
	if got := viper.GetString("rules.path"); got != "/etc/marker/waypoints.json" {
		t.Fatalf("rules.path = %q", got)
	}
	if got := viper.GetString("storage.path"); got != "/var/lib/marker/waypoints.db" {
		t.Fatalf("storage.path = %q", got)
	}
	if !viper.GetBool("influx.enabled") {
		t.Fatalf("influx.enabled = false, want true")
	}
	if got := viper.GetString("influx.token"); got != "secret" {
		t.Fatalf("influx.token = %q, want %q", got, "secret")
	}
	// Keys absent from the file keep their defaults.
	if got := viper.GetString("influx.org"); got != "mapmarkers" {
		t.Fatalf("influx.org = %q, want default %q", got, "mapmarkers")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{}`)

	if err := Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cases := []struct {
		key  string
		want string
	}{
		{"listen", ":8080"},
		{"logLevel", "info"},
		{"logFile", ""},
		{"rules.path", "config/waypoints.json"},
		{"storage.path", ""},
		{"graylog.address", "localhost:12201"},
		{"influx.url", "http://localhost:8086"},
		{"influx.token", ""},
		{"influx.org", "mapmarkers"},
		{"influx.bucket", "waypoints"},
	}
	for _, tc := range cases {
		if got := viper.GetString(tc.key); got != tc.want {
			t.Fatalf("%s = %q, want %q", tc.key, got, tc.want)
		}
	}
	if viper.GetBool("graylog.enabled") {
		t.Fatalf("graylog.enabled defaults to true, want false")
	}
	if viper.GetBool("influx.enabled") {
		t.Fatalf("influx.enabled defaults to true, want false")
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	if err := Load(t.TempDir()); err != nil {
		t.Fatalf("Load with no config file: %v", err)
	}

	if got := viper.GetString("listen"); got != ":8080" {
		t.Fatalf("listen = %q, want default %q", got, ":8080")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{"listen": `)

	err := Load(dir)
	if err == nil {
		t.Fatalf("expected error for malformed config file")
	}
	if !strings.Contains(err.Error(), "reading config file") {
		t.Fatalf("unexpected error: %v", err)
	}
}
