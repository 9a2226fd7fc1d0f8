// Package persist is the durable backing store behind the state-diff
// chain and the claimed-UUID registry (spec §4.1, §4.9): an
// append-only SQLite log that survives process restarts, following the
// same embedded-migrations, WAL-mode shape as the teacher's sync state
// database.
package persist

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/OfficeXApp/drive-engine/internal/statediff"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const walJournalSizeLimit = 64 * 1024 * 1024

// Store is the SQLite-backed append-only log for one drive's state-diff
// chain plus its claimed-UUID set.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if absent) the database at dbPath, applies
// pending migrations, and configures WAL mode. Use ":memory:" for tests.
func Open(ctx context.Context, dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("persist: open sqlite: %w", err)
	}

	if err := setPragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("state-diff log ready", "path", dbPath)

	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func setPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA journal_size_limit = %d", walJournalSizeLimit),
	}

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("persist: set pragma %q: %w", p, err)
		}
	}

	return nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	subFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("persist: migration sub-filesystem: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, subFS)
	if err != nil {
		return fmt.Errorf("persist: migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("persist: running migrations: %w", err)
	}

	return nil
}

// AppendRecord durably appends r to the log, claiming the next sequence
// number. It claims no IDs; ClaimIDs records those separately. Call this from the same
// place that calls statediff.Chain.Commit, after the in-memory commit
// succeeds, so a crash between the two only ever loses the durable write,
// never corrupts it mid-record.
func (s *Store) AppendRecord(ctx context.Context, r *statediff.Record) error {
	var seq int64
	row := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM state_diffs`)
	if err := row.Scan(&seq); err != nil {
		return fmt.Errorf("persist: next sequence: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO state_diffs
			(id, timestamp_ms, implementation, notes, diff_forward, diff_backward,
			 parent_checksum, forward_checksum, backward_checksum, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.TimestampMs, string(r.Implementation), r.Notes, r.DiffForward, r.DiffBackward,
		r.ParentChecksum, r.ForwardChecksum, r.BackwardChecksum, seq,
	)
	if err != nil {
		return fmt.Errorf("persist: append state diff %s: %w", r.ID, err)
	}

	return nil
}

// LoadRecords returns every state-diff record in commit order, for
// replaying the chain into a freshly constructed statediff.Chain at
// startup.
func (s *Store) LoadRecords(ctx context.Context) ([]*statediff.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp_ms, implementation, notes, diff_forward, diff_backward,
		       parent_checksum, forward_checksum, backward_checksum
		FROM state_diffs ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("persist: load state diffs: %w", err)
	}
	defer rows.Close()

	var out []*statediff.Record

	for rows.Next() {
		r := &statediff.Record{}
		var impl string

		if err := rows.Scan(
			&r.ID, &r.TimestampMs, &impl, &r.Notes, &r.DiffForward, &r.DiffBackward,
			&r.ParentChecksum, &r.ForwardChecksum, &r.BackwardChecksum,
		); err != nil {
			return nil, fmt.Errorf("persist: scan state diff: %w", err)
		}

		r.Implementation = statediff.Implementation(impl)
		out = append(out, r)
	}

	return out, rows.Err()
}

// ClaimIDs durably records ids as claimed, ignoring ones already present
// (minting is idempotent at the registry layer; this just needs to never
// forget one across a restart).
func (s *Store) ClaimIDs(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("persist: begin claim tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO claimed_ids (id) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("persist: prepare claim: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("persist: claim id %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// LoadClaimedIDs returns every id ever claimed, for seeding ids.Registry
// at startup via Registry.Restore.
func (s *Store) LoadClaimedIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM claimed_ids`)
	if err != nil {
		return nil, fmt.Errorf("persist: load claimed ids: %w", err)
	}
	defer rows.Close()

	var out []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("persist: scan claimed id: %w", err)
		}

		out = append(out, id)
	}

	return out, rows.Err()
}
