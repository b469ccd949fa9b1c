package loader

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/treelist/pkg/model"
)

// Schema is the layout LoadSQLite reads and SaveSQLite writes. Rows are
// ordered by position, then id.
const Schema = `
CREATE TABLE IF NOT EXISTS parents (
	id       INTEGER PRIMARY KEY,
	name     TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS children (
	id        INTEGER PRIMARY KEY,
	parent_id INTEGER NOT NULL REFERENCES parents(id),
	name      TEXT NOT NULL,
	value     TEXT,
	position  INTEGER NOT NULL DEFAULT 0
);
`

// LoadSQLite reads a tree from a SQLite database opened read-only.
func LoadSQLite(ctx context.Context, path string) (model.Tree, error) {
	if _, err := os.Stat(path); err != nil {
		return model.Tree{}, fmt.Errorf("failed to open %s: %w", path, err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return model.Tree{}, fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, name FROM parents ORDER BY position, id`)
	if err != nil {
		return model.Tree{}, fmt.Errorf("failed to query parents in %s: %w", path, err)
	}

	var tree model.Tree
	index := make(map[int64]int)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return model.Tree{}, fmt.Errorf("failed to scan parent: %w", err)
		}
		index[id] = len(tree.Parents)
		tree.Parents = append(tree.Parents, model.Parent{Name: name})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return model.Tree{}, err
	}

	rows, err = db.QueryContext(ctx, `SELECT parent_id, name, value FROM children ORDER BY parent_id, position, id`)
	if err != nil {
		return model.Tree{}, fmt.Errorf("failed to query children in %s: %w", path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			parentID int64
			name     string
			value    sql.NullString
		)
		if err := rows.Scan(&parentID, &name, &value); err != nil {
			return model.Tree{}, fmt.Errorf("failed to scan child: %w", err)
		}
		i, ok := index[parentID]
		if !ok {
			continue // orphan row
		}
		child := model.Child{Name: name}
		if value.Valid {
			child.Value = value.String
		}
		tree.Parents[i].Children = append(tree.Parents[i].Children, child)
	}
	return tree, rows.Err()
}

// SaveSQLite replaces the contents of the database at path with tree.
func SaveSQLite(ctx context.Context, path string, tree model.Tree) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM children`, `DELETE FROM parents`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for i, p := range tree.Parents {
		res, err := tx.ExecContext(ctx, `INSERT INTO parents (name, position) VALUES (?, ?)`, p.Name, i)
		if err != nil {
			return fmt.Errorf("failed to insert parent %q: %w", p.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for j, c := range p.Children {
			var value sql.NullString
			if c.Value != "" {
				value = sql.NullString{String: c.Value, Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO children (parent_id, name, value, position) VALUES (?, ?, ?, ?)`,
				id, c.Name, value, j); err != nil {
				return fmt.Errorf("failed to insert child %q: %w", c.Name, err)
			}
		}
	}
	return tx.Commit()
}
