// Package spatial implements the per-project spatial store over SQLite with
// the SpatiaLite extension. Each project owns one database file; sessions
// against it are scoped and caller-closed.
package spatial

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/secondary"
)

// DriverName is the database/sql driver that loads SpatiaLite on connect.
const DriverName = "sqlite3_spatialite"

// spatialiteLibs are the extension names tried in order. Linux installs
// usually resolve the first; the rest cover distro and macOS layouts.
var spatialiteLibs = []string{
	"mod_spatialite",
	"mod_spatialite.so",
	"/usr/lib/x86_64-linux-gnu/mod_spatialite.so",
	"/usr/local/lib/mod_spatialite.dylib",
}

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			var lastErr error
			for _, lib := range spatialiteLibs {
				if lastErr = conn.LoadExtension(lib, ""); lastErr == nil {
					return nil
				}
			}
			return fmt.Errorf("mod_spatialite not loadable: %w", lastErr)
		},
	})
}

// sessionSchema holds the bookkeeping tables carried inside every project
// store: the version chains of named outputs and the base layer registry.
const sessionSchema = `
CREATE TABLE IF NOT EXISTS spatial_versions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	output_name TEXT NOT NULL,
	table_name TEXT NOT NULL,
	description TEXT DEFAULT '',
	parent_version_id INTEGER DEFAULT NULL,
	is_current INTEGER DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_spatial_versions_output ON spatial_versions(output_name);

CREATE TABLE IF NOT EXISTS base_layers_registry (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT UNIQUE NOT NULL,
	table_name TEXT NOT NULL,
	geometry_type TEXT DEFAULT '',
	srid INTEGER DEFAULT 4326,
	source_path TEXT DEFAULT '',
	feature_count INTEGER DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Store opens scoped sessions against project store files.
type Store struct {
	driver string
}

// NewStore creates a store opener backed by the SpatiaLite driver.
func NewStore() *Store {
	return &Store{driver: DriverName}
}

// NewStoreWithDriver creates a store opener on an explicit driver name. With
// the plain "sqlite3" driver the session runs in degraded mode: bookkeeping
// works, spatial functions do not.
func NewStoreWithDriver(driver string) *Store {
	return &Store{driver: driver}
}

// Open connects to the spatial store at dbPath, creating and initializing it
// when the file does not exist yet. The caller owns the session and must
// close it.
func (s *Store) Open(ctx context.Context, dbPath string) (secondary.SpatialSession, error) {
	return s.OpenSession(ctx, dbPath)
}

// OpenSession is Open with the concrete session type, for callers that need
// direct statement access.
func (s *Store) OpenSession(ctx context.Context, dbPath string) (*Session, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, &fault.StoreError{Op: "open", Err: err}
	}

	_, statErr := os.Stat(dbPath)
	newFile := os.IsNotExist(statErr)

	conn, spatialite, err := s.connect(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	session := &Session{db: conn, path: dbPath, spatialite: spatialite}

	if newFile && spatialite {
		// Populates spatial_ref_sys and geometry_columns. The argument
		// suppresses the per-row transaction chatter.
		if _, err := conn.ExecContext(ctx, "SELECT InitSpatialMetaData(1)"); err != nil {
			conn.Close()
			return nil, &fault.StoreError{Op: "init spatial metadata", Err: err}
		}
	}
	if _, err := conn.ExecContext(ctx, sessionSchema); err != nil {
		conn.Close()
		return nil, &fault.StoreError{Op: "init session schema", Err: err}
	}

	return session, nil
}

// connect opens with the configured driver and falls back to plain sqlite3
// when the extension cannot load. Degraded sessions still serve version
// bookkeeping and table management.
func (s *Store) connect(ctx context.Context, dbPath string) (*sql.DB, bool, error) {
	conn, err := sql.Open(s.driver, dbPath)
	if err == nil {
		if err = conn.PingContext(ctx); err == nil {
			return conn, s.driver == DriverName, nil
		}
		conn.Close()
	}

	if s.driver != DriverName {
		return nil, false, &fault.StoreError{Op: "open", Err: err}
	}

	plain, plainErr := sql.Open("sqlite3", dbPath)
	if plainErr != nil {
		return nil, false, &fault.StoreError{Op: "open", Err: plainErr}
	}
	if plainErr = plain.PingContext(ctx); plainErr != nil {
		plain.Close()
		return nil, false, &fault.StoreError{Op: "open", Err: plainErr}
	}
	return plain, false, nil
}

// Session is a scoped connection to one project store.
type Session struct {
	db         *sql.DB
	path       string
	spatialite bool
}

// Close releases the underlying connection.
func (s *Session) Close() error {
	return s.db.Close()
}

// Spatialite reports whether spatial functions are available on this session.
func (s *Session) Spatialite() bool {
	return s.spatialite
}

// Path returns the store file this session is bound to.
func (s *Session) Path() string {
	return s.path
}

// TableExists reports whether a table is present in the store.
func (s *Session) TableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&count)
	if err != nil {
		return false, &fault.StoreError{Op: "table exists", Err: err}
	}
	return count > 0, nil
}

// ListTables returns the user-facing spatial tables in the store, skipping
// SQLite internals, SpatiaLite catalogs, and session bookkeeping.
func (s *Session) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		  AND name NOT LIKE 'idx_%'
		  AND name NOT IN ('spatial_versions', 'base_layers_registry')
		  AND name NOT IN (
			'geometry_columns', 'spatial_ref_sys', 'spatialite_history',
			'sql_statements_log', 'SpatialIndex', 'ElementaryGeometries',
			'KNN', 'KNN2', 'views_geometry_columns', 'virts_geometry_columns',
			'geometry_columns_statistics', 'views_geometry_columns_statistics',
			'virts_geometry_columns_statistics', 'geometry_columns_field_infos',
			'views_geometry_columns_field_infos', 'virts_geometry_columns_field_infos',
			'geometry_columns_time', 'geometry_columns_auth',
			'views_geometry_columns_auth', 'virts_geometry_columns_auth',
			'data_licenses', 'spatial_ref_sys_aux', 'vector_layers',
			'vector_layers_auth', 'vector_layers_statistics', 'vector_layers_field_infos'
		  )
		ORDER BY name`)
	if err != nil {
		return nil, &fault.StoreError{Op: "list tables", Err: err}
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &fault.StoreError{Op: "list tables", Err: err}
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DropTable removes a table and its geometry registration. Dropping a missing
// table is a no-op.
func (s *Session) DropTable(ctx context.Context, name string) error {
	exists, err := s.TableExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	// Index and registration teardown is best-effort; the DROP is not.
	if s.spatialite {
		s.db.ExecContext(ctx, "SELECT DisableSpatialIndex(?, ?)", name, "geom")
		s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS idx_%s_geom", name))
		s.db.ExecContext(ctx, "SELECT DiscardGeometryColumn(?, ?)", name, "geom")
	}
	s.clearGeometryRow(ctx, name)

	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", name)); err != nil {
		return &fault.StoreError{Op: "drop " + name, Err: err}
	}
	return nil
}

// RenameTable renames a table and re-registers its geometry column.
func (s *Session) RenameTable(ctx context.Context, oldName, newName string) error {
	exists, err := s.TableExists(ctx, oldName)
	if err != nil {
		return err
	}
	if !exists {
		return &fault.StoreError{Op: "rename", Err: fmt.Errorf("table %s does not exist", oldName)}
	}

	info, _ := s.geometryInfo(ctx, oldName)

	if s.spatialite && info != nil {
		s.db.ExecContext(ctx, "SELECT DisableSpatialIndex(?, ?)", oldName, info.column)
		s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS idx_%s_%s", oldName, info.column))
		s.db.ExecContext(ctx, "SELECT DiscardGeometryColumn(?, ?)", oldName, info.column)
	}
	s.clearGeometryRow(ctx, oldName)

	if _, err := s.db.ExecContext(ctx,
		fmt.Sprintf("ALTER TABLE %q RENAME TO %q", oldName, newName)); err != nil {
		return &fault.StoreError{Op: "rename " + oldName, Err: err}
	}

	if s.spatialite && info != nil {
		s.recoverGeometry(ctx, newName, info.column, info.srid, typeNameFromCode(info.typeCode))
	}
	return nil
}

// RowCount returns the number of rows in a table.
func (s *Session) RowCount(ctx context.Context, name string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %q", name)).Scan(&count)
	if err != nil {
		return 0, &fault.StoreError{Op: "count " + name, Err: err}
	}
	return count, nil
}

// Versions gives access to the version bookkeeping of this store.
func (s *Session) Versions() secondary.VersionStore {
	return &versionStore{db: s.db}
}

// RegisterBaseLayer records an imported base layer, replacing any previous
// registration under the same name.
func (s *Session) RegisterBaseLayer(ctx context.Context, layer *secondary.BaseLayerRecord) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO base_layers_registry (name, table_name, geometry_type, srid, source_path, feature_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			table_name = excluded.table_name,
			geometry_type = excluded.geometry_type,
			srid = excluded.srid,
			source_path = excluded.source_path,
			feature_count = excluded.feature_count`,
		layer.Name, layer.TableName, layer.GeometryType, layer.SRID, layer.SourcePath, layer.FeatureCount,
	)
	if err != nil {
		return &fault.StoreError{Op: "register base layer", Err: err}
	}
	if id, err := res.LastInsertId(); err == nil && id != 0 {
		layer.ID = id
	}
	return nil
}

// ListBaseLayers returns the registered base layers ordered by name.
func (s *Session) ListBaseLayers(ctx context.Context) ([]*secondary.BaseLayerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, table_name, geometry_type, srid, source_path, feature_count, created_at
		FROM base_layers_registry ORDER BY name`)
	if err != nil {
		return nil, &fault.StoreError{Op: "list base layers", Err: err}
	}
	defer rows.Close()

	var layers []*secondary.BaseLayerRecord
	for rows.Next() {
		var createdAt time.Time
		record := &secondary.BaseLayerRecord{}
		err := rows.Scan(&record.ID, &record.Name, &record.TableName, &record.GeometryType,
			&record.SRID, &record.SourcePath, &record.FeatureCount, &createdAt)
		if err != nil {
			return nil, &fault.StoreError{Op: "list base layers", Err: err}
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)
		layers = append(layers, record)
	}
	return layers, rows.Err()
}

// Exec runs one statement against the store. Importers use it to build
// tables directly.
func (s *Session) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return &fault.StoreError{Op: "exec", Err: err}
	}
	return nil
}

// QueryRow runs one single-row query against the store.
func (s *Session) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, query, args...)
}

// Query runs one multi-row query against the store.
func (s *Session) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &fault.StoreError{Op: "query", Err: err}
	}
	return rows, nil
}

// RegisterGeometry registers a table's geometry column and builds its spatial
// index. No-op on degraded sessions.
func (s *Session) RegisterGeometry(ctx context.Context, table, column string, srid int, typeName string) {
	if !s.spatialite {
		return
	}
	s.recoverGeometry(ctx, table, column, srid, typeName)
}

// clearGeometryRow drops the geometry_columns registration directly. Covers
// degraded sessions and leftovers DiscardGeometryColumn cannot see.
func (s *Session) clearGeometryRow(ctx context.Context, table string) {
	if exists, err := s.TableExists(ctx, "geometry_columns"); err != nil || !exists {
		return
	}
	s.db.ExecContext(ctx, "DELETE FROM geometry_columns WHERE f_table_name = ?", table)
}
