package config

import (
	"testing"

	utilviper "github.com/awxops/igsync/internal/util/viper"
)

func TestBuildProfiledConfig_ProfileEnvWithDashes(t *testing.T) {
	t.Setenv("IGSYNC_STAGING_AWX_CONTROLLER_TOKEN", "token-123")

	profile := "staging-awx"
	mainv := utilviper.NewViper("nonexistent.yaml")
	mainv.Set(profile, map[string]any{})

	cfg := BuildProfiledConfig(profile, "nonexistent.yaml", mainv)

	if got := cfg.GetString("controller.token"); got != "token-123" {
		t.Fatalf("expected controller.token to be %q, got %q", "token-123", got)
	}
}

func TestProfiledConfigGetIntOrElse(t *testing.T) {
	mainv := utilviper.NewViper("nonexistent.yaml")
	mainv.Set("default", map[string]any{
		"controller": map[string]any{"page-size": 50},
	})

	cfg := BuildProfiledConfig("default", "nonexistent.yaml", mainv)

	if got := cfg.GetIntOrElse("controller.page-size", 200); got != 50 {
		t.Fatalf("expected configured page size 50, got %d", got)
	}
	if got := cfg.GetIntOrElse("controller.timeout", 30); got != 30 {
		t.Fatalf("expected fallback 30, got %d", got)
	}
}
