// Package spellrepo defines the interface for legacy spell persistence
package spellrepo

//go:generate mockgen -destination=mock/mock_repository.go -package=spellrepomock github.com/KirkDiggler/spellbook/internal/repositories/spell Repository

import (
	"context"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
)

// Repository defines the interface for legacy spell persistence and the
// maintenance queries the migration service runs against it.
type Repository interface {
	// InsertRow adds a legacy spell row and returns its assigned id
	InsertRow(ctx context.Context, input InsertRowInput) (*InsertRowOutput, error)

	// ListRows returns legacy spell rows, optionally only those still
	// missing a content hash
	ListRows(ctx context.Context, input ListRowsInput) (*ListRowsOutput, error)

	// GetRow retrieves one legacy row by id
	// Returns errors.NotFound if the row doesn't exist
	GetRow(ctx context.Context, input GetRowInput) (*GetRowOutput, error)

	// CountMissingHashes counts rows with a NULL content_hash
	CountMissingHashes(ctx context.Context) (int64, error)

	// UpdateCanonicalBatch writes canonical_data, content_hash, and
	// schema_version for every update in one transaction
	// Returns errors.AlreadyExists on a content_hash UNIQUE violation;
	// the transaction is fully rolled back
	UpdateCanonicalBatch(ctx context.Context, input UpdateCanonicalBatchInput) (*UpdateCanonicalBatchOutput, error)

	// ListHashGroups returns content hashes shared by more than one row
	ListHashGroups(ctx context.Context) (*ListHashGroupsOutput, error)

	// CountOrphanedClassRefs counts character_class_spells rows pointing
	// at spells that no longer exist
	CountOrphanedClassRefs(ctx context.Context) (int64, error)

	// VacuumInto writes a compacted copy of the live database to path
	VacuumInto(ctx context.Context, path string) error

	// IntegrityCheck runs PRAGMA integrity_check on the live database
	IntegrityCheck(ctx context.Context) error

	// VerifyBackup checks that a backup file exists, is non-empty, and
	// passes an integrity check
	// Returns errors.FailedPrecondition when verification fails
	VerifyBackup(ctx context.Context, path string) error

	// RestoreFrom replaces the spell tables with the contents of the
	// named backup inside one transaction
	RestoreFrom(ctx context.Context, backupPath string) error

	// Path returns the filesystem path of the live database
	Path() string

	// Close releases the underlying connection pool
	Close() error
}

// InsertRowInput defines the input for inserting a legacy row
type InsertRowInput struct {
	Row *spell.LegacySpellRow
}

// InsertRowOutput defines the output for inserting a legacy row
type InsertRowOutput struct {
	ID int64
}

// ListRowsInput defines the input for listing legacy rows
type ListRowsInput struct {
	// OnlyMissingHash restricts the listing to rows without a hash
	OnlyMissingHash bool
}

// ListRowsOutput defines the output for listing legacy rows
type ListRowsOutput struct {
	Rows []*spell.LegacySpellRow
}

// GetRowInput defines the input for getting one legacy row
type GetRowInput struct {
	ID int64
}

// GetRowOutput defines the output for getting one legacy row
type GetRowOutput struct {
	Row *spell.LegacySpellRow
}

// CanonicalUpdate is one row's backfill payload
type CanonicalUpdate struct {
	ID            int64
	CanonicalJSON string
	ContentHash   string
	SchemaVersion int64
}

// UpdateCanonicalBatchInput defines the input for the batch write
type UpdateCanonicalBatchInput struct {
	Updates []CanonicalUpdate
}

// UpdateCanonicalBatchOutput defines the output for the batch write
type UpdateCanonicalBatchOutput struct {
	RowsUpdated int64
}

// HashGroup is a set of rows sharing one content hash
type HashGroup struct {
	ContentHash string
	SpellIDs    []int64
}

// ListHashGroupsOutput defines the output for duplicate-hash detection
type ListHashGroupsOutput struct {
	Groups []HashGroup
}
