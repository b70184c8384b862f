package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

type sqliteEngine struct {
	db *sql.DB
}

func openSQLite(ctx context.Context, path string) (*sqliteEngine, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// Pragmas below are per connection; keep a single one so they always apply.
	db.SetMaxOpenConns(1)
	// WAL enables one writer + many readers; busy_timeout helps avoid "database is locked".
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "sqlite %s", p)
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteEngine{db: db}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	for _, c := range Collections() {
		stmt := `CREATE TABLE IF NOT EXISTS ` + string(c) + ` (
			key TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "migrate %s", c)
		}
	}
	return nil
}

// Table names below come from Collection constants validated by Store, never from user input.

func (e *sqliteEngine) GetAll(ctx context.Context, c Collection) ([][]byte, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT json FROM `+string(c)+` ORDER BY key`)
	if err != nil {
		return nil, errors.Wrapf(err, "sqlite get-all %s", c)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, errors.Wrapf(err, "sqlite scan %s", c)
		}
		out = append(out, []byte(js))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "sqlite get-all %s", c)
	}
	return out, nil
}

func (e *sqliteEngine) Get(ctx context.Context, c Collection, key string) ([]byte, bool, error) {
	var js string
	err := e.db.QueryRowContext(ctx, `SELECT json FROM `+string(c)+` WHERE key = ?`, key).Scan(&js)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "sqlite get %s/%s", c, key)
	}
	return []byte(js), true, nil
}

func (e *sqliteEngine) Put(ctx context.Context, c Collection, key string, value []byte) error {
	nowMs := time.Now().UTC().UnixMilli()
	if _, err := e.db.ExecContext(ctx, `INSERT OR REPLACE INTO `+string(c)+`(key, json, updated_at_unixms) VALUES(?, ?, ?)`,
		key, string(value), nowMs); err != nil {
		return errors.Wrapf(err, "sqlite put %s/%s", c, key)
	}
	return nil
}

func (e *sqliteEngine) Delete(ctx context.Context, c Collection, key string) error {
	if _, err := e.db.ExecContext(ctx, `DELETE FROM `+string(c)+` WHERE key = ?`, key); err != nil {
		return errors.Wrapf(err, "sqlite delete %s/%s", c, key)
	}
	return nil
}

func (e *sqliteEngine) Clear(ctx context.Context, c Collection) error {
	if _, err := e.db.ExecContext(ctx, `DELETE FROM `+string(c)); err != nil {
		return errors.Wrapf(err, "sqlite clear %s", c)
	}
	return nil
}

func (e *sqliteEngine) Close() error {
	return e.db.Close()
}
