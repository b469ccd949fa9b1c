package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/treelist/pkg/config"
	"github.com/vanderheijden86/treelist/pkg/debug"
	"github.com/vanderheijden86/treelist/pkg/loader"
	"github.com/vanderheijden86/treelist/pkg/model"
	"github.com/vanderheijden86/treelist/pkg/ui"
	"github.com/vanderheijden86/treelist/pkg/version"
	"github.com/vanderheijden86/treelist/pkg/watcher"
)

// errNoTerminal is returned when the TUI is started without a terminal.
var errNoTerminal = errors.New("treelist needs an interactive terminal; use 'treelist dump' for plain output")

type app struct {
	configPath   string
	dataPaths    []string
	demo         bool
	axis         string
	singleExpand bool
	watch        bool

	// isTerminal is swapped in tests.
	isTerminal func() bool
}

func newRootCmd() *cobra.Command {
	return rootCmd(&app{
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	})
}

func rootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "treelist",
		Short:        "Browse two-level tree data in the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Browse the built-in sample tree
  treelist --demo

  # Browse a data file and reload it when it changes
  treelist --data tree.json --watch

  # Print the tree without a terminal
  treelist dump --data tree.yaml
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: user config plus nearest .treelist.yaml)")
	cmd.PersistentFlags().StringSliceVar(&a.dataPaths, "data", nil, "Data file(s): .json, .yaml, .yml, .db (replaces data.paths)")
	cmd.PersistentFlags().BoolVar(&a.demo, "demo", false, "Use the built-in sample tree")
	cmd.Flags().StringVar(&a.axis, "axis", "", "Scroll axis: vertical or horizontal")
	cmd.Flags().BoolVar(&a.singleExpand, "single-expand", false, "Collapse other parents when one expands")
	cmd.Flags().BoolVar(&a.watch, "watch", false, "Reload data files when they change")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newDumpCmd(a))

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "treelist %s\n", version.Version)
		},
	}
}

// loadConfig reads the config and applies command-line overrides. project
// is the project config in effect, if any.
func (a *app) loadConfig(cmd *cobra.Command) (cfg config.Config, project string, err error) {
	if a.configPath != "" {
		if _, statErr := os.Stat(a.configPath); statErr != nil {
			return cfg, "", fmt.Errorf("config file: %w", statErr)
		}
		cfg, err = config.LoadFrom(a.configPath)
		if filepath.Base(a.configPath) == config.ProjectConfigName {
			project = a.configPath
		}
	} else {
		cfg, err = config.Load()
		project, _ = config.DetectProjectConfig()
	}
	if err != nil {
		return cfg, "", err
	}

	flags := cmd.Flags()
	if flags.Changed("axis") {
		cfg.List.Axis = a.axis
	}
	if flags.Changed("single-expand") {
		cfg.List.SingleExpand = a.singleExpand
	}
	if flags.Changed("watch") {
		cfg.Data.Watch = a.watch
	}
	if len(a.dataPaths) > 0 {
		cfg.Data.Paths = a.dataPaths
		cfg.Data.ScanPaths = nil
	}

	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}
	return cfg, project, nil
}

// source is where the tree comes from: the demo generator or data files.
type source struct {
	demo  bool
	paths []string
}

func (a *app) source(cfg config.Config) source {
	if a.demo {
		return source{demo: true}
	}
	paths := config.DiscoverDataFiles(cfg)
	if len(paths) == 0 {
		debug.Log("no data files configured, using demo data")
		return source{demo: true}
	}
	return source{paths: paths}
}

func (s source) String() string {
	switch {
	case s.demo:
		return "demo"
	case len(s.paths) == 1:
		return filepath.Base(s.paths[0])
	}
	return fmt.Sprintf("%d files", len(s.paths))
}

func (s source) load(ctx context.Context) (model.Tree, error) {
	if s.demo {
		return loader.Demo(), nil
	}
	tree, results, err := loader.LoadAll(ctx, s.paths)
	for _, r := range results {
		if r.Error != nil && err == nil {
			debug.Log("warning: %v", r.Error)
		}
	}
	return tree, err
}

// reload loads the source again as a ui.DataMsg.
func (s source) reload(ctx context.Context) tea.Msg {
	tree, err := s.load(ctx)
	if err != nil {
		return ui.DataMsg{Source: s.String(), Err: err}
	}
	return ui.DataMsg{Data: tree.Nodes(), Source: s.String()}
}

func (a *app) runTUI(cmd *cobra.Command) error {
	if !a.isTerminal() {
		return errNoTerminal
	}

	cfg, project, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src := a.source(cfg)
	tree, err := src.load(ctx)
	if err != nil {
		return err
	}

	listOpts, err := cfg.ListOptions()
	if err != nil {
		return err
	}
	parentSize, childSize := cfg.CellSizes()

	title := cfg.UI.Title
	if title == "" {
		title = tree.Title
	}

	var statePath string
	if cfg.UI.RememberSelection {
		statePath = config.StatePath(project)
		if project != "" {
			if err := config.EnsureStateIgnored(filepath.Dir(project)); err != nil {
				debug.Log("warning: could not update .gitignore: %v", err)
			}
		}
	}

	m := ui.NewTreeModel(tree.Nodes(), ui.Options{
		List:       listOpts,
		ParentSize: parentSize,
		ChildSize:  childSize,
		Title:      title,
		Mouse:      cfg.UI.Mouse,
		StatePath:  statePath,
		Reload:     func() tea.Msg { return src.reload(ctx) },
	}, ui.DefaultTheme(lipgloss.DefaultRenderer()))

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	if cfg.Data.Watch && !src.demo {
		w, err := watcher.New(src.paths,
			watcher.WithDebounceDuration(cfg.Data.Debounce),
			watcher.WithOnChange(func() { p.Send(src.reload(ctx)) }),
			watcher.WithOnError(func(err error) {
				p.Send(ui.DataMsg{Source: src.String(), Err: err})
			}),
		)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("watching data files: %w", err)
		}
		defer w.Stop()
	}

	_, err = p.Run()
	return err
}
