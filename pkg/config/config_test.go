package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/treelist/pkg/treelist"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.List.Axis != "vertical" {
		t.Errorf("expected default axis 'vertical', got %q", cfg.List.Axis)
	}
	if cfg.Cells.Parent != (CellSize{Width: 40, Height: 1}) {
		t.Errorf("expected 40x1 parent cells, got %+v", cfg.Cells.Parent)
	}
	if cfg.Data.Debounce != 200*time.Millisecond {
		t.Errorf("expected 200ms debounce, got %s", cfg.Data.Debounce)
	}
	if !cfg.UI.Mouse {
		t.Error("expected mouse enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Cells.Child.Width != 40 {
		t.Errorf("expected default config, got child width %d", cfg.Cells.Child.Width)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
list:
  parent_spacing: 2
  child_spacing: 1
  single_expand: true
  axis: horizontal
cells:
  parent: {width: 16, height: 3}
  child: {width: 12, height: 3}
data:
  paths: [tree.json, /abs/tree.yaml]
  watch: true
  debounce: 500ms
ui:
  mouse: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	opts, err := cfg.ListOptions()
	if err != nil {
		t.Fatalf("ListOptions: %v", err)
	}
	want := treelist.Options{ParentSpacing: 2, ChildSpacing: 1, SingleExpand: true, Axis: treelist.Horizontal}
	if opts != want {
		t.Errorf("expected options %+v, got %+v", want, opts)
	}

	parent, child := cfg.CellSizes()
	if parent != (treelist.Size{Width: 16, Height: 3}) || child != (treelist.Size{Width: 12, Height: 3}) {
		t.Errorf("unexpected cell sizes %+v %+v", parent, child)
	}
	if cfg.Data.Debounce != 500*time.Millisecond || !cfg.Data.Watch {
		t.Errorf("unexpected data section %+v", cfg.Data)
	}
	if cfg.Data.Paths[0] != filepath.Join(dir, "tree.json") {
		t.Errorf("expected relative path resolved against config dir, got %q", cfg.Data.Paths[0])
	}
	if cfg.Data.Paths[1] != "/abs/tree.yaml" {
		t.Errorf("expected absolute path kept, got %q", cfg.Data.Paths[1])
	}
	if cfg.UI.Mouse {
		t.Error("expected mouse disabled")
	}
	// unset keys keep their defaults
	if !cfg.UI.RememberSelection {
		t.Error("expected remember_selection default kept")
	}
}

func TestLoadFrom_Layered(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "user.yaml")
	project := filepath.Join(dir, "project", ProjectConfigName)
	if err := os.MkdirAll(filepath.Dir(project), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(user, []byte("list:\n  parent_spacing: 3\n  child_spacing: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(project, []byte("list:\n  child_spacing: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(user, project)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.List.ParentSpacing != 3 {
		t.Errorf("expected user parent_spacing 3, got %d", cfg.List.ParentSpacing)
	}
	if cfg.List.ChildSpacing != 0 {
		t.Errorf("expected project child_spacing 0, got %d", cfg.List.ChildSpacing)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("list: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("expected wrapped parse error, got %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.List.SingleExpand = true
	cfg.Data.Debounce = time.Second
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !loaded.List.SingleExpand || loaded.Data.Debounce != time.Second {
		t.Errorf("expected saved values, got %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative parent spacing", func(c *Config) { c.List.ParentSpacing = -1 }, "list.parent_spacing"},
		{"negative child spacing", func(c *Config) { c.List.ChildSpacing = -2 }, "list.child_spacing"},
		{"unknown axis", func(c *Config) { c.List.Axis = "diagonal" }, "list.axis"},
		{"zero parent width", func(c *Config) { c.Cells.Parent.Width = 0 }, "cells.parent"},
		{"zero child height", func(c *Config) { c.Cells.Child.Height = 0 }, "cells.child"},
		{"negative debounce", func(c *Config) { c.Data.Debounce = -time.Second }, "data.debounce"},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", tt.name, err)
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: expected error mentioning %q, got %v", tt.name, tt.want, err)
		}
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.List.ParentSpacing = -1
	cfg.List.Axis = "sideways"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"list.parent_spacing", "list.axis"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in      string
		want    treelist.Axis
		wantErr bool
	}{
		{"", treelist.Vertical, false},
		{"vertical", treelist.Vertical, false},
		{"Horizontal", treelist.Horizontal, false},
		{" h ", treelist.Horizontal, false},
		{"diagonal", treelist.Vertical, true},
	}
	for _, tt := range tests {
		got, err := ParseAxis(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAxis(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseAxis(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")

	if got := ConfigPath(); got != "/tmp/xdg-config/treelist/config.yaml" {
		t.Errorf("unexpected config path %q", got)
	}
	if got := StateDir(); got != "/tmp/xdg-state/treelist" {
		t.Errorf("unexpected state dir %q", got)
	}
}
