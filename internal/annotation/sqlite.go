package annotation

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"gridmesh/internal/grid"
)

//go:embed schema.sql
var schema string

// SQLiteBackend stores states in the grids table.
type SQLiteBackend struct {
	db *sql.DB
}

func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

// Init creates the schema.
func (b *SQLiteBackend) Init(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Load(ctx context.Context, id string) (State, error) {
	row := b.db.QueryRowContext(ctx, `
        SELECT refinement, pinned, lines
        FROM grids
        WHERE image_id = ?
    `, id)

	var (
		s     State
		lines string
	)
	if err := row.Scan(&s.Refinement, &s.Pinned, &lines); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return State{}, ErrNotFound
		}
		return State{}, err
	}
	if err := json.Unmarshal([]byte(lines), &s.Lines); err != nil {
		return State{}, fmt.Errorf("decode grid %s: %w", id, err)
	}
	return s, nil
}

func (b *SQLiteBackend) Save(ctx context.Context, id string, s State) error {
	if s.Lines == nil {
		s.Lines = []grid.CompactLine{}
	}
	lines, err := json.Marshal(s.Lines)
	if err != nil {
		return fmt.Errorf("encode grid %s: %w", id, err)
	}
	_, err = b.db.ExecContext(ctx, `
        INSERT INTO grids (image_id, refinement, pinned, lines, updated_at)
        VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(image_id) DO UPDATE SET
            refinement = excluded.refinement,
            pinned     = excluded.pinned,
            lines      = excluded.lines,
            updated_at = excluded.updated_at
    `, id, s.Refinement, s.Pinned, string(lines))
	if err != nil {
		return fmt.Errorf("save grid %s: %w", id, err)
	}
	return nil
}

func (b *SQLiteBackend) Delete(ctx context.Context, id string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM grids WHERE image_id = ?`, id); err != nil {
		return fmt.Errorf("delete grid %s: %w", id, err)
	}
	return nil
}

func (b *SQLiteBackend) List(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT image_id FROM grids ORDER BY image_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// OpenSQLite opens the database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
