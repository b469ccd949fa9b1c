package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treelist/pkg/loader"
	"github.com/vanderheijden86/treelist/pkg/model"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the loaded tree without starting the TUI",
		Example: strings.TrimSpace(`
  treelist dump --demo
  treelist dump --data a.json --data b.yaml --format yaml
  treelist dump --data tree.yaml --out tree.db
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			tree, err := a.source(cfg).load(ctx)
			if err != nil {
				return err
			}

			if out != "" {
				if err := loader.Save(ctx, out, tree); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d parents to %s\n", len(tree.Parents), out)
				return nil
			}

			w := cmd.OutOrStdout()
			switch format {
			case "text":
				writeText(w, tree)
				return nil
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(tree)
			case "yaml":
				return writeYAML(w, tree)
			}
			return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a data file instead (format from extension, .db for SQLite)")
	return cmd
}

// writeText prints one line per parent with its child count, children
// indented beneath.
func writeText(w io.Writer, tree model.Tree) {
	if tree.Title != "" {
		fmt.Fprintln(w, tree.Title)
	}
	for _, p := range tree.Parents {
		fmt.Fprintf(w, "%s (%d)\n", p.Name, len(p.Children))
		for i, c := range p.Children {
			branch := "├─"
			if i == len(p.Children)-1 {
				branch = "└─"
			}
			fmt.Fprintf(w, "  %s %s\n", branch, c)
		}
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
