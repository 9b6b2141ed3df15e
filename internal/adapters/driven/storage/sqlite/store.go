// Package sqlite materializes product documents in a SQLite database, one
// database file per imported model.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/vsat-labs/satsync-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driven"
)

// Ensure Document implements the interface.
var _ driven.ProductDocument = (*Document)(nil)

// Document is a SQLite-backed implementation of driven.ProductDocument.
type Document struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the document database at dbPath.
// If dbPath is empty, defaults to ~/.satsync/data/document.db.
func Open(dbPath string) (*Document, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".satsync", "data", "document.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL mode for better concurrency between import and update runs.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	d := &Document{db: db, path: dbPath}
	if err := d.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// Close closes the database connection.
func (d *Document) Close() error {
	return d.db.Close()
}

// Path returns the database file path.
func (d *Document) Path() string {
	return d.path
}

func (d *Document) migrate(fsys embed.FS) error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := d.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := d.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := d.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// Meta implements driven.ProductDocument.
func (d *Document) Meta(ctx context.Context) (*domain.DocumentMeta, error) {
	var meta domain.DocumentMeta
	row := d.db.QueryRowContext(ctx,
		"SELECT project_id, model_uuid, timestamp FROM document_meta WHERE id = 1")
	err := row.Scan(&meta.ProjectID, &meta.ModelUUID, &meta.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotMaterialized
	}
	if err != nil {
		return nil, fmt.Errorf("reading document meta: %w", err)
	}
	return &meta, nil
}

// SetMeta implements driven.ProductDocument.
func (d *Document) SetMeta(ctx context.Context, meta domain.DocumentMeta) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO document_meta (id, project_id, model_uuid, timestamp)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			model_uuid = excluded.model_uuid,
			timestamp = excluded.timestamp
	`, meta.ProjectID, meta.ModelUUID, meta.Timestamp)
	if err != nil {
		return fmt.Errorf("writing document meta: %w", err)
	}
	return nil
}

const nodeColumns = `uuid, name, parent_uuid, is_part, part_uuid,
	pos_x, pos_y, pos_z, rot_x, rot_y, rot_z,
	shape, color, transparency, length_x, length_y, length_z, radius, radius2`

// Nodes implements driven.ProductDocument.
func (d *Document) Nodes(ctx context.Context) (map[string]domain.MaterializedNode, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT "+nodeColumns+" FROM nodes")
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	nodes := make(map[string]domain.MaterializedNode)
	for rows.Next() {
		var n domain.MaterializedNode
		var shape string
		if err := rows.Scan(
			&n.UUID, &n.Name, &n.ParentUUID, &n.IsPart, &n.PartUUID,
			&n.PosX, &n.PosY, &n.PosZ, &n.RotX, &n.RotY, &n.RotZ,
			&shape, &n.Color, &n.Transparency,
			&n.LengthX, &n.LengthY, &n.LengthZ, &n.Radius, &n.Radius2,
		); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		n.Shape = domain.Shape(shape)
		nodes[n.UUID] = n
	}
	return nodes, rows.Err()
}

// Insert implements driven.ProductDocument.
func (d *Document) Insert(ctx context.Context, node domain.MaterializedNode) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO nodes (`+nodeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, node.UUID, node.Name, node.ParentUUID, node.IsPart, node.PartUUID,
		node.PosX, node.PosY, node.PosZ, node.RotX, node.RotY, node.RotZ,
		string(node.Shape), node.Color, node.Transparency,
		node.LengthX, node.LengthY, node.LengthZ, node.Radius, node.Radius2)
	if err != nil {
		return fmt.Errorf("inserting node %s: %w", node.UUID, err)
	}
	return nil
}

// Update implements driven.ProductDocument. The parent link is preserved.
func (d *Document) Update(ctx context.Context, node domain.MaterializedNode) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE nodes SET
			name = ?, is_part = ?, part_uuid = ?,
			pos_x = ?, pos_y = ?, pos_z = ?, rot_x = ?, rot_y = ?, rot_z = ?,
			shape = ?, color = ?, transparency = ?,
			length_x = ?, length_y = ?, length_z = ?, radius = ?, radius2 = ?
		WHERE uuid = ?
	`, node.Name, node.IsPart, node.PartUUID,
		node.PosX, node.PosY, node.PosZ, node.RotX, node.RotY, node.RotZ,
		string(node.Shape), node.Color, node.Transparency,
		node.LengthX, node.LengthY, node.LengthZ, node.Radius, node.Radius2,
		node.UUID)
	if err != nil {
		return fmt.Errorf("updating node %s: %w", node.UUID, err)
	}
	return requireRow(res, node.UUID)
}

// Reparent implements driven.ProductDocument.
func (d *Document) Reparent(ctx context.Context, uuid, newParentUUID string) error {
	res, err := d.db.ExecContext(ctx,
		"UPDATE nodes SET parent_uuid = ? WHERE uuid = ?", newParentUUID, uuid)
	if err != nil {
		return fmt.Errorf("reparenting node %s: %w", uuid, err)
	}
	return requireRow(res, uuid)
}

// Remove implements driven.ProductDocument.
func (d *Document) Remove(ctx context.Context, uuid string) error {
	res, err := d.db.ExecContext(ctx, "DELETE FROM nodes WHERE uuid = ?", uuid)
	if err != nil {
		return fmt.Errorf("removing node %s: %w", uuid, err)
	}
	return requireRow(res, uuid)
}

func requireRow(res sql.Result, uuid string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("node %s: %w", uuid, domain.ErrNotFound)
	}
	return nil
}
