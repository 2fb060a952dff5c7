package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const DefaultDBPath = "todos.db"

// SQLite keeps the todos in a single table. The database is opened for the
// duration of each Load or Save.
type SQLite struct {
	Path string
}

func (s SQLite) Name() string {
	return "sqlite"
}

func (s SQLite) Load() (map[int]Task, error) {
	if _, err := os.Stat(s.path()); err != nil {
		return nil, err
	}
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT key, id, title, completed FROM todos ORDER BY key;`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	todos := make(map[int]Task)
	for rows.Next() {
		var key, completed int
		var t Task
		if err := rows.Scan(&key, &t.ID, &t.Title, &completed); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		t.Completed = completed == 1
		todos[key] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return todos, nil
}

func (s SQLite) Save(todos map[int]Task) (err error) {
	dir := filepath.Dir(s.path())
	if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM todos;`); err != nil {
		return fmt.Errorf("clear todos: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO todos (key, id, title, completed) VALUES (?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for key, t := range todos {
		done := 0
		if t.Completed {
			done = 1
		}
		if _, err = stmt.Exec(key, t.ID, t.Title, done); err != nil {
			return fmt.Errorf("insert todo %d: %w", key, err)
		}
	}
	return tx.Commit()
}

func (s SQLite) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", sqliteDSN(s.path()))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (s SQLite) path() string {
	if s.Path == "" {
		return DefaultDBPath
	}
	return s.Path
}

func ensureSchema(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS todos (
	key INTEGER PRIMARY KEY,
	id INTEGER NOT NULL,
	title TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0
);`
	_, err := db.Exec(ddl)
	return err
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
