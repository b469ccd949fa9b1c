// Package config handles loading and saving treelist configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/treelist/config.yaml
//   - State:  ~/.local/state/treelist/ (remembered selection)
//
// A project-local .treelist.yaml, found by walking up from the working
// directory, is layered over the user config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treelist/pkg/treelist"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// ListConfig mirrors treelist.Options.
type ListConfig struct {
	ParentSpacing int    `yaml:"parent_spacing"`
	ChildSpacing  int    `yaml:"child_spacing"`
	SingleExpand  bool   `yaml:"single_expand"`
	Axis          string `yaml:"axis"` // vertical, horizontal
}

// CellSize is a cell size in terminal cells.
type CellSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// CellsConfig holds the fixed size of each cell kind.
type CellsConfig struct {
	Parent CellSize `yaml:"parent"`
	Child  CellSize `yaml:"child"`
}

// DataConfig controls where tree data comes from.
type DataConfig struct {
	Paths     []string      `yaml:"paths,omitempty"`      // JSON, YAML or SQLite files
	ScanPaths []string      `yaml:"scan_paths,omitempty"` // Directories to scan for *.tree.* files
	MaxDepth  int           `yaml:"max_depth,omitempty"`  // How deep to scan (default 3)
	Watch     bool          `yaml:"watch"`
	Debounce  time.Duration `yaml:"debounce"`
}

// UIConfig holds terminal preferences.
type UIConfig struct {
	Mouse             bool   `yaml:"mouse"`
	RememberSelection bool   `yaml:"remember_selection"`
	Title             string `yaml:"title,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	List  ListConfig  `yaml:"list"`
	Cells CellsConfig `yaml:"cells"`
	Data  DataConfig  `yaml:"data"`
	UI    UIConfig    `yaml:"ui"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		List: ListConfig{Axis: treelist.Vertical.String()},
		Cells: CellsConfig{
			Parent: CellSize{Width: 40, Height: 1},
			Child:  CellSize{Width: 40, Height: 1},
		},
		Data: DataConfig{
			MaxDepth: 3,
			Debounce: 200 * time.Millisecond,
		},
		UI: UIConfig{
			Mouse:             true,
			RememberSelection: true,
		},
	}
}

// ConfigDir returns the XDG config directory for treelist.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "treelist")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "treelist")
}

// StateDir returns the XDG state directory for treelist.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "treelist")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "treelist")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the user config and layers the nearest project config over it.
func Load() (Config, error) {
	paths := []string{ConfigPath()}
	if project, ok := DetectProjectConfig(); ok {
		paths = append(paths, project)
	}
	return LoadFrom(paths...)
}

// LoadFrom reads each path in order over DefaultConfig; later files only
// override the keys they set. Missing files are skipped.
func LoadFrom(paths ...string) (Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
		// relative data paths are relative to the file that names them
		base := filepath.Dir(path)
		for i, p := range cfg.Data.Paths {
			cfg.Data.Paths[i] = resolvePath(base, p)
		}
		for i, p := range cfg.Data.ScanPaths {
			cfg.Data.ScanPaths[i] = resolvePath(base, p)
		}
	}

	return cfg, nil
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate reports every invalid setting, joined.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if c.List.ParentSpacing < 0 {
		bad("list.parent_spacing must not be negative, got %d", c.List.ParentSpacing)
	}
	if c.List.ChildSpacing < 0 {
		bad("list.child_spacing must not be negative, got %d", c.List.ChildSpacing)
	}
	if _, err := ParseAxis(c.List.Axis); err != nil {
		bad("list.axis: %v", err)
	}
	if p := c.Cells.Parent; p.Width <= 0 || p.Height <= 0 {
		bad("cells.parent must have a positive size, got %dx%d", p.Width, p.Height)
	}
	if ch := c.Cells.Child; ch.Width <= 0 || ch.Height <= 0 {
		bad("cells.child must have a positive size, got %dx%d", ch.Width, ch.Height)
	}
	if c.Data.Debounce < 0 {
		bad("data.debounce must not be negative, got %s", c.Data.Debounce)
	}
	return errors.Join(errs...)
}

// ParseAxis converts the config spelling of an axis. Empty means vertical.
func ParseAxis(s string) (treelist.Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vertical", "v":
		return treelist.Vertical, nil
	case "horizontal", "h":
		return treelist.Horizontal, nil
	}
	return treelist.Vertical, fmt.Errorf("unknown axis %q (want vertical or horizontal)", s)
}

// ListOptions converts the list section to treelist.Options.
func (c Config) ListOptions() (treelist.Options, error) {
	axis, err := ParseAxis(c.List.Axis)
	if err != nil {
		return treelist.Options{}, err
	}
	return treelist.Options{
		ParentSpacing: c.List.ParentSpacing,
		ChildSpacing:  c.List.ChildSpacing,
		SingleExpand:  c.List.SingleExpand,
		Axis:          axis,
	}, nil
}

// CellSizes returns the parent and child cell sizes.
func (c Config) CellSizes() (parent, child treelist.Size) {
	return treelist.Size{Width: c.Cells.Parent.Width, Height: c.Cells.Parent.Height},
		treelist.Size{Width: c.Cells.Child.Width, Height: c.Cells.Child.Height}
}

func resolvePath(base, path string) string {
	path = expandHome(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
