// Package loader reads tree data files.
//
// Supported formats, picked by extension:
//   - .json             {"title": ..., "parents": [{"name": ..., "children": [...]}]}
//   - .yaml, .yml       the same shape in YAML
//   - .db, .sqlite(3)   a SQLite database with parents and children tables
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treelist/pkg/debug"
	"github.com/vanderheijden86/treelist/pkg/model"
)

// ErrUnsupportedFormat is returned for files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported data format")

// maxParallel caps concurrent file loads.
const maxParallel = 8

// Format is a data file encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// LoadFile reads a single data file.
func LoadFile(ctx context.Context, path string) (model.Tree, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return model.Tree{}, err
	}

	var tree model.Tree
	switch format {
	case FormatSQLite:
		tree, err = LoadSQLite(ctx, path)
	default:
		tree, err = loadDocument(path, format)
	}
	if err != nil {
		return model.Tree{}, err
	}

	if err := tree.Validate(); err != nil {
		return model.Tree{}, fmt.Errorf("invalid data in %s: %w", path, err)
	}
	return tree, nil
}

func loadDocument(path string, format Format) (model.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Tree{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var tree model.Tree
	if len(strings.TrimSpace(string(data))) == 0 {
		return tree, nil
	}
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &tree)
	case FormatYAML:
		err = yaml.Unmarshal(data, &tree)
	}
	if err != nil {
		return model.Tree{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return tree, nil
}

// Result is the outcome of loading one file.
type Result struct {
	Path  string
	Tree  model.Tree
	Error error
}

// LoadAll reads every path concurrently and merges the trees in path order.
// A file that fails to load is reported in its Result and skipped; the
// returned error is non-nil only when every file failed or ctx ended.
func LoadAll(ctx context.Context, paths []string) (model.Tree, []Result, error) {
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, path := range paths {
		g.Go(func() error {
			results[i].Path = path
			if err := gctx.Err(); err != nil {
				results[i].Error = err
				return nil
			}
			tree, err := LoadFile(gctx, path)
			results[i].Tree = tree
			results[i].Error = err
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return model.Tree{}, results, err
	}

	var (
		trees []model.Tree
		errs  []error
	)
	for _, r := range results {
		if r.Error != nil {
			debug.Log("loader: skipping %s: %v", r.Path, r.Error)
			errs = append(errs, r.Error)
			continue
		}
		trees = append(trees, r.Tree)
	}
	if len(paths) > 0 && len(trees) == 0 {
		return model.Tree{}, results, errors.Join(errs...)
	}
	return model.Merge(trees...), results, nil
}

// Demo returns the built-in sample tree: five parents where parent i has
// (5-i)*3 children.
func Demo() model.Tree {
	const parents = 5
	tree := model.Tree{Title: "Demo", Parents: make([]model.Parent, parents)}
	for i := range parents {
		children := make([]model.Child, (parents-i)*3)
		for j := range children {
			children[j] = model.Child{Name: fmt.Sprintf("child => %d", j)}
		}
		tree.Parents[i] = model.Parent{Name: fmt.Sprintf("parent => %d", i), Children: children}
	}
	return tree
}

// Save writes a tree in the format matching path's extension.
func Save(ctx context.Context, path string, tree model.Tree) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatSQLite:
		return SaveSQLite(ctx, path, tree)
	case FormatJSON:
		data, err = json.MarshalIndent(tree, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(tree)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
