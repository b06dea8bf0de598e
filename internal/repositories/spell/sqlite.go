package spellrepo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // database/sql driver

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
	"github.com/KirkDiggler/spellbook/internal/errors"
)

const (
	errPathEmpty   = "database path cannot be empty"
	errNoUpdates   = "at least one update is required"
	errBackupEmpty = "backup path cannot be empty"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS spells (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    name                TEXT NOT NULL,
    school              TEXT,
    sphere              TEXT,
    class_list          TEXT,
    level               INTEGER NOT NULL DEFAULT 0,
    range               TEXT,
    components          TEXT,
    material_components TEXT,
    casting_time        TEXT,
    duration            TEXT,
    area                TEXT,
    damage              TEXT,
    saving_throw        TEXT,
    magic_resistance    TEXT,
    experience_cost     TEXT,
    reversible          INTEGER,
    description         TEXT NOT NULL DEFAULT '',
    tags                TEXT,
    source              TEXT,
    edition             TEXT,
    author              TEXT,
    license             TEXT,
    is_quest_spell      INTEGER NOT NULL DEFAULT 0,
    is_cantrip          INTEGER NOT NULL DEFAULT 0,
    canonical_data      TEXT,
    content_hash        TEXT UNIQUE,
    schema_version      INTEGER
);

CREATE TABLE IF NOT EXISTS character_class_spells (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    character_id INTEGER NOT NULL,
    spell_id     INTEGER NOT NULL
);
`

const rowColumns = `id, name, school, sphere, class_list, level, range, components,
	material_components, casting_time, duration, area, damage, saving_throw,
	magic_resistance, experience_cost, reversible, description, tags, source,
	edition, author, license, is_quest_spell, is_cantrip, canonical_data,
	content_hash, schema_version`

// Config holds the settings for the SQLite repository
type Config struct {
	Path string
}

// Validate checks the config
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Path == "" {
		return errors.InvalidArgument(errPathEmpty)
	}
	return nil
}

type sqliteRepository struct {
	db   *sql.DB
	path string
}

// NewSQLiteRepository opens (creating if needed) the legacy spell
// database and ensures the schema exists
func NewSQLiteRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", cfg.Path)
	}
	// SQLite handles one writer at a time; serialize access through the
	// pool instead of surfacing SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to enable foreign keys")
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to ensure schema")
	}

	return &sqliteRepository{db: db, path: cfg.Path}, nil
}

func (r *sqliteRepository) InsertRow(ctx context.Context, input InsertRowInput) (*InsertRowOutput, error) {
	if input.Row == nil {
		return nil, errors.InvalidArgument("row cannot be nil")
	}
	if input.Row.Name == "" {
		return nil, errors.InvalidArgument("spell name cannot be empty")
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO spells (
			name, school, sphere, class_list, level, range, components,
			material_components, casting_time, duration, area, damage,
			saving_throw, magic_resistance, experience_cost, reversible,
			description, tags, source, edition, author, license,
			is_quest_spell, is_cantrip, canonical_data, content_hash,
			schema_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Row.Name, input.Row.School, input.Row.Sphere, input.Row.ClassList,
		input.Row.Level, input.Row.Range, input.Row.Components,
		input.Row.MaterialComponents, input.Row.CastingTime, input.Row.Duration,
		input.Row.Area, input.Row.Damage, input.Row.SavingThrow,
		input.Row.MagicResistance, input.Row.ExperienceCost, input.Row.Reversible,
		input.Row.Description, input.Row.Tags, input.Row.Source,
		input.Row.Edition, input.Row.Author, input.Row.License,
		input.Row.IsQuestSpell, input.Row.IsCantrip, input.Row.CanonicalData,
		input.Row.ContentHash, input.Row.SchemaVersion,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.AlreadyExistsf("content hash already exists for spell %q", input.Row.Name)
		}
		return nil, errors.Wrapf(err, "failed to insert spell %q", input.Row.Name)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read inserted id for spell %q", input.Row.Name)
	}
	return &InsertRowOutput{ID: id}, nil
}

func (r *sqliteRepository) ListRows(ctx context.Context, input ListRowsInput) (*ListRowsOutput, error) {
	query := "SELECT " + rowColumns + " FROM spells"
	if input.OnlyMissingHash {
		query += " WHERE content_hash IS NULL"
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list spell rows")
	}
	defer func() { _ = rows.Close() }()

	out := &ListRowsOutput{}
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed reading spell rows")
	}
	return out, nil
}

func (r *sqliteRepository) GetRow(ctx context.Context, input GetRowInput) (*GetRowOutput, error) {
	query := "SELECT " + rowColumns + " FROM spells WHERE id = ?"
	row, err := scanRow(r.db.QueryRowContext(ctx, query, input.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("spell %d not found", input.ID)
		}
		return nil, err
	}
	return &GetRowOutput{Row: row}, nil
}

func (r *sqliteRepository) CountMissingHashes(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM spells WHERE content_hash IS NULL").Scan(&count)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to count missing hashes")
	}
	return count, nil
}

func (r *sqliteRepository) UpdateCanonicalBatch(ctx context.Context, input UpdateCanonicalBatchInput) (*UpdateCanonicalBatchOutput, error) {
	if len(input.Updates) == 0 {
		return nil, errors.InvalidArgument(errNoUpdates)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"UPDATE spells SET canonical_data = ?, content_hash = ?, schema_version = ? WHERE id = ?")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to prepare update")
	}
	defer func() { _ = stmt.Close() }()

	var updated int64
	for _, u := range input.Updates {
		res, err := stmt.ExecContext(ctx, u.CanonicalJSON, u.ContentHash, u.SchemaVersion, u.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, errors.AlreadyExistsf(
					"content hash %s already exists; run collision detection", u.ContentHash)
			}
			return nil, errors.Wrapf(err, "failed to update spell %d", u.ID)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read rows affected for spell %d", u.ID)
		}
		updated += n
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, errors.AlreadyExists(
				"duplicate content hash on commit; run collision detection")
		}
		return nil, errors.Wrapf(err, "failed to commit batch")
	}
	return &UpdateCanonicalBatchOutput{RowsUpdated: updated}, nil
}

func (r *sqliteRepository) ListHashGroups(ctx context.Context) (*ListHashGroupsOutput, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT content_hash, GROUP_CONCAT(id)
		FROM spells
		WHERE content_hash IS NOT NULL
		GROUP BY content_hash
		HAVING COUNT(*) > 1`)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query hash groups")
	}
	defer func() { _ = rows.Close() }()

	out := &ListHashGroupsOutput{}
	for rows.Next() {
		var hash, ids string
		if err := rows.Scan(&hash, &ids); err != nil {
			return nil, errors.Wrapf(err, "failed to scan hash group")
		}
		group := HashGroup{ContentHash: hash}
		for _, raw := range strings.Split(ids, ",") {
			var id int64
			if _, err := fmt.Sscanf(raw, "%d", &id); err == nil {
				group.SpellIDs = append(group.SpellIDs, id)
			}
		}
		out.Groups = append(out.Groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed reading hash groups")
	}
	return out, nil
}

func (r *sqliteRepository) CountOrphanedClassRefs(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM character_class_spells ccs
		LEFT JOIN spells s ON s.id = ccs.spell_id
		WHERE s.id IS NULL`).Scan(&count)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to count orphaned class refs")
	}
	return count, nil
}

func (r *sqliteRepository) VacuumInto(ctx context.Context, path string) error {
	if path == "" {
		return errors.InvalidArgument(errBackupEmpty)
	}
	// VACUUM INTO snapshots the live database without blocking readers.
	if _, err := r.db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return errors.Wrapf(err, "failed to vacuum into %s", path)
	}
	return nil
}

func (r *sqliteRepository) IntegrityCheck(ctx context.Context) error {
	return integrityCheckDB(ctx, r.db, r.path)
}

func (r *sqliteRepository) VerifyBackup(ctx context.Context, path string) error {
	if path == "" {
		return errors.InvalidArgument(errBackupEmpty)
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.WrapWithCodef(err, errors.CodeFailedPrecondition,
			"backup %s is not readable", path)
	}
	if info.Size() == 0 {
		return errors.FailedPreconditionf("backup %s is empty", path)
	}

	backup, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.Wrapf(err, "failed to open backup %s", path)
	}
	defer func() { _ = backup.Close() }()
	return integrityCheckDB(ctx, backup, path)
}

func (r *sqliteRepository) RestoreFrom(ctx context.Context, backupPath string) error {
	// Verify the backup before touching live data.
	if err := r.VerifyBackup(ctx, backupPath); err != nil {
		return err
	}

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return errors.Wrapf(err, "failed to acquire connection")
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.ExecContext(ctx, "ATTACH DATABASE ? AS backup", backupPath); err != nil {
		return errors.Wrapf(err, "failed to attach backup %s", backupPath)
	}
	defer func() { _, _ = conn.ExecContext(ctx, "DETACH DATABASE backup") }()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to begin restore transaction")
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"spells", "character_class_spells"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM main."+table); err != nil {
			return errors.Wrapf(err, "failed to clear %s", table)
		}
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO main.%s SELECT * FROM backup.%s", table, table)); err != nil {
			return errors.Wrapf(err, "failed to restore %s", table)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "failed to commit restore")
	}
	return nil
}

func (r *sqliteRepository) Path() string { return r.path }

func (r *sqliteRepository) Close() error { return r.db.Close() }

func integrityCheckDB(ctx context.Context, db *sql.DB, path string) error {
	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return errors.Wrapf(err, "integrity check failed to run on %s", path)
	}
	if result != "ok" {
		return errors.FailedPreconditionf("integrity check failed on %s: %s", path, result)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (*spell.LegacySpellRow, error) {
	var row spell.LegacySpellRow
	var school, sphere, classList, rangeText, components, materials sql.NullString
	var castingTime, duration, area, damage, savingThrow, magicResistance sql.NullString
	var experienceCost, tags, source, edition, author, license sql.NullString
	var canonicalData, contentHash sql.NullString
	var reversible, schemaVersion sql.NullInt64

	err := s.Scan(
		&row.ID, &row.Name, &school, &sphere, &classList, &row.Level,
		&rangeText, &components, &materials, &castingTime, &duration, &area,
		&damage, &savingThrow, &magicResistance, &experienceCost,
		&reversible, &row.Description, &tags, &source, &edition, &author,
		&license, &row.IsQuestSpell, &row.IsCantrip, &canonicalData,
		&contentHash, &schemaVersion,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "failed to scan spell row")
	}

	row.School = nullableString(school)
	row.Sphere = nullableString(sphere)
	row.ClassList = nullableString(classList)
	row.Range = nullableString(rangeText)
	row.Components = nullableString(components)
	row.MaterialComponents = nullableString(materials)
	row.CastingTime = nullableString(castingTime)
	row.Duration = nullableString(duration)
	row.Area = nullableString(area)
	row.Damage = nullableString(damage)
	row.SavingThrow = nullableString(savingThrow)
	row.MagicResistance = nullableString(magicResistance)
	row.ExperienceCost = nullableString(experienceCost)
	row.Tags = nullableString(tags)
	row.Source = nullableString(source)
	row.Edition = nullableString(edition)
	row.Author = nullableString(author)
	row.License = nullableString(license)
	row.CanonicalData = nullableString(canonicalData)
	row.ContentHash = nullableString(contentHash)
	row.Reversible = nullableInt64(reversible)
	row.SchemaVersion = nullableInt64(schemaVersion)
	return &row, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
