package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STRUCTURE_MODEL", "")
	t.Setenv("INTERVIEW_MODEL", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StructureModel != "anthropic/claude-opus-4" {
		t.Fatalf("structure model default = %q", cfg.StructureModel)
	}
	if cfg.InterviewModel != "anthropic/claude-3.5-haiku" {
		t.Fatalf("interview model default = %q", cfg.InterviewModel)
	}
	if cfg.SMTPHost != "smtp.gmail.com" || cfg.SMTPPort != 587 {
		t.Fatalf("smtp defaults = %q:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.StructureMaxTokens != 2000 || cfg.InterviewMaxTokens != 1000 {
		t.Fatalf("token defaults = %d/%d", cfg.StructureMaxTokens, cfg.InterviewMaxTokens)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STRUCTURE_MODEL", "anthropic/claude-sonnet-4")
	t.Setenv("STRUCTURE_TEMPERATURE", "0.2")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StructureModel != "anthropic/claude-sonnet-4" {
		t.Fatalf("structure model = %q", cfg.StructureModel)
	}
	if cfg.StructureTemperature != 0.2 {
		t.Fatalf("structure temperature = %v", cfg.StructureTemperature)
	}
	if cfg.SMTPPort != 2525 {
		t.Fatalf("smtp port = %d", cfg.SMTPPort)
	}
}

func TestLoadYAMLOverlayEnvWins(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	overlay := "smtp_host: smtp.internal.cmg\nsmtp_port: 465\ninterview_model: anthropic/claude-3.5-sonnet\n"
	if err := os.WriteFile(file, []byte(overlay), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	t.Setenv("CONFIG_FILE", file)
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("INTERVIEW_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SMTPHost != "smtp.internal.cmg" {
		t.Fatalf("overlay should fill unset host, got %q", cfg.SMTPHost)
	}
	if cfg.SMTPPort != 587 {
		t.Fatalf("env should win over overlay, got %d", cfg.SMTPPort)
	}
	if cfg.InterviewModel != "anthropic/claude-3.5-sonnet" {
		t.Fatalf("overlay interview model = %q", cfg.InterviewModel)
	}
}

func TestLoadMissingOverlayFileFails(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
