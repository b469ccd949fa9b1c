package loader

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/treelist/pkg/model"
)

func TestLoadSQLite_OrdersByPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	stmts := []string{
		Schema,
		`INSERT INTO parents (id, name, position) VALUES (1, 'second', 1), (2, 'first', 0)`,
		`INSERT INTO children (parent_id, name, value, position) VALUES
			(1, 'b', NULL, 1), (1, 'a', 'va', 0), (2, 'only', NULL, 0), (99, 'orphan', NULL, 0)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	db.Close()

	tree, err := LoadSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	if len(tree.Parents) != 2 || tree.Parents[0].Name != "first" || tree.Parents[1].Name != "second" {
		t.Fatalf("unexpected parents %+v", tree.Parents)
	}
	want := []model.Child{{Name: "a", Value: "va"}, {Name: "b"}}
	got := tree.Parents[1].Children
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("children = %+v, want %+v", got, want)
	}
	if tree.ChildCount() != 3 {
		t.Errorf("orphan child should be skipped, got %d children", tree.ChildCount())
	}
}

func TestLoadSQLite_Missing(t *testing.T) {
	if _, err := LoadSQLite(context.Background(), filepath.Join(t.TempDir(), "none.db")); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestLoadSQLite_NoTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE other (x INTEGER)`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := LoadSQLite(context.Background(), path); err == nil {
		t.Error("expected error for database without parents table")
	}
}

func TestSaveSQLite_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.db")
	ctx := context.Background()
	first := model.Tree{Parents: []model.Parent{{Name: "old", Children: []model.Child{{Name: "c"}}}}}
	second := model.Tree{Parents: []model.Parent{{Name: "new"}}}

	if err := SaveSQLite(ctx, path, first); err != nil {
		t.Fatal(err)
	}
	if err := SaveSQLite(ctx, path, second); err != nil {
		t.Fatal(err)
	}
	tree, err := LoadSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Parents) != 1 || tree.Parents[0].Name != "new" || tree.ChildCount() != 0 {
		t.Errorf("expected replaced contents, got %+v", tree)
	}
}
