package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tailgate.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Minimal(t *testing.T) {
	path := writeConfig(t, "log: /var/log/access.log\n")

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log != "/var/log/access.log" {
		t.Errorf("Log = %q", cfg.Log)
	}
	if cfg.Format != DefaultFormat {
		t.Errorf("Format = %q, want %q", cfg.Format, DefaultFormat)
	}
	if cfg.RLARunTime != DefaultRunTime {
		t.Errorf("RLARunTime = %q, want %q", cfg.RLARunTime, DefaultRunTime)
	}

	hour, minute := cfg.RunTime()
	if hour != 23 || minute != 45 {
		t.Errorf("RunTime() = %02d:%02d, want 23:45", hour, minute)
	}

	if cfg.LogFormat() == nil || cfg.LogFormat().Name != "common" {
		t.Errorf("LogFormat() = %v, want the common format", cfg.LogFormat())
	}
	// Window format defaults to the live-tail format.
	if cfg.SeekFormat() == nil || cfg.SeekFormat().Name != "common" {
		t.Errorf("SeekFormat() = %v, want the common format", cfg.SeekFormat())
	}
	if cfg.StateFile == "" {
		t.Error("StateFile not defaulted")
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `log: /var/log/access.log
format: combined
window_format: rla
rla_run_time: "01:30"
state_file: /var/lib/tailgate/state.json
analysis_command: /usr/local/bin/rla
analysis_args: ["--daily"]
top_paths: 5
webhooks:
  - name: ops
    url: https://hooks.example.com/ops
    trigger: always
`)

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogFormat().Name != "combined" {
		t.Errorf("LogFormat() = %q, want combined", cfg.LogFormat().Name)
	}
	if cfg.SeekFormat().Name != "rla" {
		t.Errorf("SeekFormat() = %q, want rla", cfg.SeekFormat().Name)
	}

	hour, minute := cfg.RunTime()
	if hour != 1 || minute != 30 {
		t.Errorf("RunTime() = %02d:%02d, want 01:30", hour, minute)
	}

	if cfg.AnalysisCommand != "/usr/local/bin/rla" || len(cfg.AnalysisArgs) != 1 {
		t.Errorf("analysis command = %q %v", cfg.AnalysisCommand, cfg.AnalysisArgs)
	}
	if cfg.TopPaths != 5 {
		t.Errorf("TopPaths = %d, want 5", cfg.TopPaths)
	}

	if len(cfg.Webhooks) != 1 {
		t.Fatalf("Webhooks = %v", cfg.Webhooks)
	}
	wh := cfg.Webhooks[0]
	if wh.Trigger != WebhookTriggerAlways {
		t.Errorf("Trigger = %q", wh.Trigger)
	}
	if wh.Timeout != DefaultWebhookTimeout {
		t.Errorf("Timeout = %v, want default", wh.Timeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(context.Background(), "/nonexistent/tailgate.yaml"); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "log: [unclosed\n")
	if _, err := Load(context.Background(), path); err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "log: /var/log/access.log\n")

	t.Setenv(EnvLog, "/srv/other.log")
	t.Setenv(EnvStateFile, "/srv/state.json")

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log != "/srv/other.log" {
		t.Errorf("Log = %q, want env override", cfg.Log)
	}
	if cfg.StateFile != "/srv/state.json" {
		t.Errorf("StateFile = %q, want env override", cfg.StateFile)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name:    "missing log",
			cfg:     &Config{},
			wantErr: "log:",
		},
		{
			name:    "unknown format",
			cfg:     &Config{Log: "/x.log", Format: "nonsense"},
			wantErr: "format:",
		},
		{
			name:    "unknown window format",
			cfg:     &Config{Log: "/x.log", WindowFormat: "nonsense"},
			wantErr: "window_format:",
		},
		{
			name:    "bad run time shape",
			cfg:     &Config{Log: "/x.log", RLARunTime: "2345"},
			wantErr: "rla_run_time:",
		},
		{
			name:    "hour out of range",
			cfg:     &Config{Log: "/x.log", RLARunTime: "24:00"},
			wantErr: "rla_run_time:",
		},
		{
			name:    "minute out of range",
			cfg:     &Config{Log: "/x.log", RLARunTime: "23:60"},
			wantErr: "rla_run_time:",
		},
		{
			name:    "negative top paths",
			cfg:     &Config{Log: "/x.log", TopPaths: -1},
			wantErr: "top_paths:",
		},
		{
			name: "webhook without url",
			cfg: &Config{Log: "/x.log", Webhooks: []WebhookConfig{
				{Name: "bad"},
			}},
			wantErr: "url is required",
		},
		{
			name: "webhook bad scheme",
			cfg: &Config{Log: "/x.log", Webhooks: []WebhookConfig{
				{URL: "ftp://example.com/hook"},
			}},
			wantErr: "scheme",
		},
		{
			name: "webhook bad trigger",
			cfg: &Config{Log: "/x.log", Webhooks: []WebhookConfig{
				{URL: "https://example.com/hook", Trigger: "sometimes"},
			}},
			wantErr: "trigger",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_WebhookDefaults(t *testing.T) {
	cfg := &Config{
		Log: "/x.log",
		Webhooks: []WebhookConfig{
			{URL: "https://example.com/hook"},
		},
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	wh := cfg.Webhooks[0]
	if wh.Trigger != WebhookTriggerOnSummary {
		t.Errorf("Trigger = %q, want on_summary default", wh.Trigger)
	}
	if wh.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s default", wh.Timeout)
	}
}

func TestValidate_TokenExpansion(t *testing.T) {
	t.Setenv("TAILGATE_TEST_TOKEN", "s3cret")

	tests := []struct {
		token string
		want  string
	}{
		{"${TAILGATE_TEST_TOKEN}", "s3cret"},
		{"$TAILGATE_TEST_TOKEN", "s3cret"},
		{"literal-token", "literal-token"},
		{"", ""},
	}

	for _, tt := range tests {
		cfg := &Config{
			Log: "/x.log",
			Webhooks: []WebhookConfig{
				{URL: "https://example.com/hook", Token: tt.token},
			},
		}
		if err := Validate(cfg); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if got := cfg.Webhooks[0].Token; got != tt.want {
			t.Errorf("token %q expanded to %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestParseRunTime(t *testing.T) {
	hour, minute, err := parseRunTime("09:05")
	if err != nil {
		t.Fatalf("parseRunTime() error = %v", err)
	}
	if hour != 9 || minute != 5 {
		t.Errorf("parseRunTime() = %d:%d, want 9:5", hour, minute)
	}

	for _, bad := range []string{"", "23", "23:45:00", "aa:bb", "-1:00"} {
		if _, _, err := parseRunTime(bad); err == nil {
			t.Errorf("parseRunTime(%q) expected error", bad)
		}
	}
}
