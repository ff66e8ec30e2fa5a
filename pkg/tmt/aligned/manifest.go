package aligned

import (
	"context"
	"crypto/rand"
	"database/sql"
	"path/filepath"

	"github.com/oklog/ulid/v2"

	_ "modernc.org/sqlite"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
)

// manifest is a crash-recoverable record of every temp file the bulk
// pipeline has written, backed by the same embedded-SQLite pattern korel's
// store/sqlite package uses for its corpus store (SPEC_FULL.md §4.9a).
// It exists so a caller recovering from a crashed run has something
// queryable to find and clean up abandoned temp files with (spec.md §5:
// "temp files older than the crashed run are left on disk; cleanup is the
// caller's responsibility").
type manifest struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
}

func openManifest(ctx context.Context, tempFolder string) (*manifest, error) {
	path := filepath.Join(tempFolder, "manifest.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "opening manifest %s", path)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, internalerr.Wrap(internalerr.Io, err, "enabling WAL on manifest")
	}
	const schema = `
CREATE TABLE IF NOT EXISTS temp_files (
	id TEXT PRIMARY KEY,
	path TEXT NOT NULL,
	article_id INTEGER NOT NULL,
	written INTEGER NOT NULL DEFAULT 0,
	committed INTEGER NOT NULL DEFAULT 0
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, internalerr.Wrap(internalerr.Io, err, "initializing manifest schema")
	}
	return &manifest{db: db, entropy: ulid.Monotonic(rand.Reader, 0)}, nil
}

// newID generates a monotonic, collision-free temp-file/manifest-row id,
// the same role github.com/oklog/ulid/v2 plays for korel's cards.Builder.
func (m *manifest) newID() string {
	return ulid.MustNew(ulid.Now(), m.entropy).String()
}

func (m *manifest) recordWritten(ctx context.Context, id, path string, articleID int) error {
	_, err := m.db.ExecContext(ctx, `
INSERT INTO temp_files (id, path, article_id, written, committed)
VALUES (?, ?, ?, 1, 0)
ON CONFLICT(id) DO UPDATE SET written=1;
`, id, path, articleID)
	if err != nil {
		return internalerr.Wrap(internalerr.Io, err, "recording manifest row %s", id)
	}
	return nil
}

func (m *manifest) recordCommitted(ctx context.Context, id string) error {
	_, err := m.db.ExecContext(ctx, `UPDATE temp_files SET committed=1 WHERE id=?;`, id)
	if err != nil {
		return internalerr.Wrap(internalerr.Io, err, "committing manifest row %s", id)
	}
	return nil
}

func (m *manifest) close() error {
	return m.db.Close()
}
