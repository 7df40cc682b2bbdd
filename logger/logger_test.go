package logger

import (
	"strings"
	"testing"
	"time"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level info, got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format console, got %q", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid json", Config{Level: "debug", Format: "json"}, false},
		{"valid console", Config{Level: "info", Format: "console"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two")
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected map: %v", m)
	}

	// odd trailing value is dropped
	m = Fields("a", 1, "dangling")
	if len(m) != 1 {
		t.Errorf("expected 1 entry, got %v", m)
	}
}

func TestErrorFields(t *testing.T) {
	m := ErrorFields("call", errString("boom"))
	if m[FieldOperation] != "call" {
		t.Errorf("operation missing: %v", m)
	}
	if !strings.Contains(m[FieldError].(string), "boom") {
		t.Errorf("error missing: %v", m)
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("call", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("duration = %v", m[FieldDuration])
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("base").WithComponent("runner")
	if l.component != "runner" {
		t.Errorf("component = %q", l.component)
	}
}

func TestDefaultIsLazy(t *testing.T) {
	SetDefault(nil)
	if Default() == nil {
		t.Fatal("expected lazily created default logger")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
