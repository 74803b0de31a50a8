package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// SQLitePersister stores the snapshot blob in a single keyed row of a local
// SQLite file. Writes replace the row inside a transaction, so a failed or
// interrupted write leaves the previous blob intact.
type SQLitePersister struct {
	db          *sqlx.DB
	maxAttempts uint
}

// OpenSQLite opens (and creates if needed) the snapshot database at path.
func OpenSQLite(path string) (*SQLitePersister, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Connect(%s) > %w", path, err)
	}
	if _, err := db.Exec(snapshotSchema); err != nil {
		return nil, fmt.Errorf("db.Exec(snapshot schema) > %w", err)
	}
	return &SQLitePersister{db: db, maxAttempts: 3}, nil
}

// Close closes the underlying database.
func (p *SQLitePersister) Close() error {
	return p.db.Close()
}

// Save writes the full snapshot blob under the fixed key, retrying transient
// failures a bounded number of times.
func (p *SQLitePersister) Save(data []byte) error {
	if err := retry.Do(
		func() error {
			return p.save(data)
		},
		retry.Attempts(p.maxAttempts),
		retry.Delay(50*time.Millisecond),
	); err != nil {
		return fmt.Errorf("failed to save snapshot > %w", err)
	}
	return nil
}

func (p *SQLitePersister) save(data []byte) error {
	tx, err := p.db.Beginx()
	if err != nil {
		return fmt.Errorf("db.Beginx() > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(
		`INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		SnapshotKey, data, time.Now(),
	); err != nil {
		return fmt.Errorf("tx.Exec(upsert snapshot) > %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}

// Load reads the snapshot blob, or returns nil when none has been saved yet.
func (p *SQLitePersister) Load() ([]byte, error) {
	var data []byte
	err := p.db.Get(&data, "SELECT data FROM snapshots WHERE key = ?", SnapshotKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.Get(snapshot) > %w", err)
	}
	return data, nil
}
