package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"   // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/wricardo/sokoban-game/game/service"
)

// SQL dialects understood by NewSQLPersistence
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// SQLPersistence implements SessionPersistence on a SQL table of session blobs
type SQLPersistence struct {
	db       *sql.DB
	dialect  string
	compress bool
}

// NewSQLPersistence opens the database and creates the sessions table.
// For sqlite the dsn is a file path; for postgres a connection string.
func NewSQLPersistence(dialect, dsn string, compress bool) (*SQLPersistence, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty %s dsn", dialect)
	}

	var (
		db  *sql.DB
		err error
	)
	switch dialect {
	case DialectSQLite:
		db, err = openSQLite(dsn)
	case DialectPostgres:
		db, err = openPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	if err != nil {
		return nil, err
	}

	sp := &SQLPersistence{db: db, dialect: dialect, compress: compress}
	if err := sp.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return sp, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA synchronous=NORMAL;`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}
	return db, nil
}

func openPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func (sp *SQLPersistence) initSchema() error {
	blobType := "BLOB"
	if sp.dialect == DialectPostgres {
		blobType = "BYTEA"
	}
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		level_id TEXT NOT NULL,
		updated_at BIGINT NOT NULL,
		data ` + blobType + ` NOT NULL
	)`
	_, err := sp.db.Exec(schema)
	return err
}

// bind rewrites ? placeholders for the dialect
func (sp *SQLPersistence) bind(query string) string {
	if sp.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Save upserts the session row
func (sp *SQLPersistence) Save(session *service.Session) error {
	blob, err := encodeSession(session, sp.compress)
	if err != nil {
		return err
	}

	query := sp.bind(`
	INSERT INTO sessions (id, level_id, updated_at, data)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		level_id = excluded.level_id,
		updated_at = excluded.updated_at,
		data = excluded.data`)
	_, err = sp.db.Exec(query, strings.ToLower(session.ID), session.LevelID, time.Now().Unix(), blob)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load reads and restores one session
func (sp *SQLPersistence) Load(id string) (*service.Session, error) {
	var blob []byte
	err := sp.db.QueryRow(sp.bind(`SELECT data FROM sessions WHERE id = ?`), strings.ToLower(id)).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decodeSession(blob)
}

// Delete removes the session row
func (sp *SQLPersistence) Delete(id string) error {
	res, err := sp.db.Exec(sp.bind(`DELETE FROM sessions WHERE id = ?`), strings.ToLower(id))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns the stored session IDs in order
func (sp *SQLPersistence) ListAll() ([]string, error) {
	rows, err := sp.db.Query(`SELECT id FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Exists checks for a session row
func (sp *SQLPersistence) Exists(id string) bool {
	var one int
	err := sp.db.QueryRow(sp.bind(`SELECT 1 FROM sessions WHERE id = ?`), strings.ToLower(id)).Scan(&one)
	return err == nil
}

// Close releases the database
func (sp *SQLPersistence) Close() error {
	return sp.db.Close()
}
