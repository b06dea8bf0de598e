// Package migration defines the interface for canonical backfill and
// database maintenance operations
package migration

//go:generate mockgen -destination=mock/mock_service.go -package=migrationmock github.com/KirkDiggler/spellbook/internal/services/migration Service

import (
	"context"
)

// Service defines the interface for migration operations over the
// legacy spell database.
type Service interface {
	// RunBackfill converts every row missing a content hash and writes
	// canonical data in one transaction, behind a verified backup
	RunBackfill(ctx context.Context, input *RunBackfillInput) (*RunBackfillOutput, error)

	// RecomputeAllHashes re-derives every row's hash from its legacy
	// columns and reports which hashes changed
	RecomputeAllHashes(ctx context.Context, input *RecomputeAllHashesInput) (*RecomputeAllHashesOutput, error)

	// CheckIntegrity reports on hash coverage, hash drift, orphaned
	// class references, and duplicate hashes; it never mutates
	CheckIntegrity(ctx context.Context, input *CheckIntegrityInput) (*CheckIntegrityOutput, error)

	// DetectCollisions classifies rows sharing one content hash
	DetectCollisions(ctx context.Context, input *DetectCollisionsInput) (*DetectCollisionsOutput, error)

	// SyncCheck compares legacy flat columns against stored canonical
	// JSON and reports per-field drift
	SyncCheck(ctx context.Context, input *SyncCheckInput) (*SyncCheckOutput, error)

	// ListBackups returns known backups, newest first
	ListBackups(ctx context.Context, input *ListBackupsInput) (*ListBackupsOutput, error)

	// RestoreBackup replaces the live tables with a named backup
	RestoreBackup(ctx context.Context, input *RestoreBackupInput) (*RestoreBackupOutput, error)

	// RollbackToLatest restores the most recent backup
	RollbackToLatest(ctx context.Context, input *RollbackToLatestInput) (*RollbackToLatestOutput, error)

	// ExportMigrationReport summarizes the migration log as JSON on disk
	ExportMigrationReport(ctx context.Context, input *ExportMigrationReportInput) (*ExportMigrationReportOutput, error)
}

// RunBackfillInput defines the request for a backfill run
type RunBackfillInput struct {
	// BatchLogEvery overrides the progress logging interval; 0 keeps the
	// default of 100 rows
	BatchLogEvery int
}

// RunBackfillOutput defines the result of a backfill run
type RunBackfillOutput struct {
	TotalRows      int
	Migrated       int
	Skipped        int
	FallbackCounts map[string]int
	BackupPath     string
}

// RecomputeAllHashesInput defines the request for a hash recompute
type RecomputeAllHashesInput struct{}

// HashChange records one row whose recomputed hash differs
type HashChange struct {
	SpellID int64
	OldHash string
	NewHash string
}

// RecomputeAllHashesOutput defines the result of a hash recompute
type RecomputeAllHashesOutput struct {
	TotalRows int
	Changed   []HashChange
}

// CheckIntegrityInput defines the request for an integrity check
type CheckIntegrityInput struct{}

// HashMismatch records a stored hash that no longer matches its stored
// canonical data
type HashMismatch struct {
	SpellID    int64
	StoredHash string
	ActualHash string
}

// CheckIntegrityOutput defines the result of an integrity check
type CheckIntegrityOutput struct {
	NullHashes        int64
	Mismatches        []HashMismatch
	MismatchTotal     int
	OrphanedClassRefs int64
	DuplicateGroups   int
}

// DetectCollisionsInput defines the request for collision detection
type DetectCollisionsInput struct{}

// CollisionClass says what a shared hash means
type CollisionClass string

// Collision classifications
const (
	// CollisionClassDuplicate means the rows store identical canonical
	// content; the hash is doing its job
	CollisionClassDuplicate CollisionClass = "identical_content"
	// CollisionClassTrueCollision means different canonical content
	// produced one hash
	CollisionClassTrueCollision CollisionClass = "true_collision"
	// CollisionClassAmbiguous means stored canonical data is missing, so
	// the group cannot be classified
	CollisionClassAmbiguous CollisionClass = "ambiguous"
)

// Collision is one classified hash group
type Collision struct {
	ContentHash    string
	SpellIDs       []int64
	Classification CollisionClass
}

// DetectCollisionsOutput defines the result of collision detection
type DetectCollisionsOutput struct {
	Collisions []Collision
}

// SyncCheckInput defines the request for a sync check
type SyncCheckInput struct{}

// FieldDrift records one field where a legacy column and the stored
// canonical JSON disagree
type FieldDrift struct {
	SpellID        int64
	Field          string
	LegacyValue    string
	CanonicalValue string
}

// SyncCheckOutput defines the result of a sync check
type SyncCheckOutput struct {
	RowsChecked int
	Drift       []FieldDrift
}

// ListBackupsInput defines the request for listing backups
type ListBackupsInput struct{}

// BackupInfo describes one backup file
type BackupInfo struct {
	Name      string
	Path      string
	SizeBytes int64
	CreatedAt string
}

// ListBackupsOutput defines the result of listing backups
type ListBackupsOutput struct {
	Backups []BackupInfo
}

// RestoreBackupInput defines the request for restoring a named backup
type RestoreBackupInput struct {
	Name string
}

// RestoreBackupOutput defines the result of restoring a backup
type RestoreBackupOutput struct {
	Path string
}

// RollbackToLatestInput defines the request for a rollback
type RollbackToLatestInput struct{}

// RollbackToLatestOutput defines the result of a rollback
type RollbackToLatestOutput struct {
	Path string
}

// ExportMigrationReportInput defines the request for a report export
type ExportMigrationReportInput struct{}

// ExportMigrationReportOutput defines the result of a report export
type ExportMigrationReportOutput struct {
	Path string
}
