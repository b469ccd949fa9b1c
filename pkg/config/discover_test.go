package config

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanForData(t *testing.T) {
	root := t.TempDir()

	a := filepath.Join(root, "a.tree.json")
	b := filepath.Join(root, "sub", "b.tree.yaml")
	c := filepath.Join(root, "sub", "c.TREE.db")
	for _, p := range []string{a, b, c} {
		touch(t, p)
	}
	touch(t, filepath.Join(root, "plain.json"))
	touch(t, filepath.Join(root, ".hidden", "h.tree.json"))

	results := scanForData(root, 3)

	if len(results) != 3 {
		t.Fatalf("expected 3 data files, got %d: %v", len(results), results)
	}
	found := make(map[string]bool)
	for _, r := range results {
		found[r] = true
	}
	for _, want := range []string{a, b, c} {
		if !found[want] {
			t.Errorf("expected to find %s", want)
		}
	}
}

func TestScanForData_DepthLimit(t *testing.T) {
	root := t.TempDir()

	deep := filepath.Join(root, "a", "b", "c", "d", "deep.tree.json")
	shallow := filepath.Join(root, "shallow", "s.tree.json")
	touch(t, deep)
	touch(t, shallow)

	results := scanForData(root, 2)
	if len(results) != 1 || results[0] != shallow {
		t.Errorf("expected only %s, got %v", shallow, results)
	}
}

func TestDiscoverDataFiles(t *testing.T) {
	root := t.TempDir()
	explicit := filepath.Join(root, "explicit.json")
	scanned := filepath.Join(root, "scan", "x.tree.json")
	touch(t, explicit)
	touch(t, scanned)

	cfg := DefaultConfig()
	cfg.Data.Paths = []string{explicit, explicit}
	cfg.Data.ScanPaths = []string{filepath.Join(root, "scan"), filepath.Join(root, "scan")}

	got := DiscoverDataFiles(cfg)
	if len(got) != 2 || got[0] != explicit || got[1] != scanned {
		t.Errorf("expected [%s %s], got %v", explicit, scanned, got)
	}
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "proj", ProjectConfigName)
	touch(t, cfgPath)
	nested := filepath.Join(root, "proj", "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok := findProjectConfig(nested)
	if !ok || got != cfgPath {
		t.Errorf("expected %s, got %q ok=%v", cfgPath, got, ok)
	}

	if _, ok := findProjectConfig(filepath.Join(root)); ok {
		t.Error("expected no project config above the project")
	}
}
