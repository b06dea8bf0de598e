package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/spellbook/internal/canonical"
	"github.com/KirkDiggler/spellbook/internal/errors"
	"github.com/KirkDiggler/spellbook/internal/pkg/clock"
	"github.com/KirkDiggler/spellbook/internal/pkg/idgen"
	"github.com/KirkDiggler/spellbook/internal/pkg/textnorm"
	spellrepo "github.com/KirkDiggler/spellbook/internal/repositories/spell"
	"github.com/KirkDiggler/spellbook/internal/services/parsing"
)

const (
	backupPrefix       = "spells_backup_"
	backupTimeFormat   = "20060102_150405"
	defaultLogName     = "migration.log"
	defaultLogEvery    = 100
	maxLogSizeBytes    = 10 * 1024 * 1024
	maxLogAge          = 30 * 24 * time.Hour
	maxMismatchSamples = 10
)

// Config holds the dependencies for the migration manager
type Config struct {
	Repo   spellrepo.Repository
	Parser *parsing.Parser

	// BackupDir defaults to the live database's directory
	BackupDir string
	// LogPath defaults to migration.log next to the database
	LogPath string
	// LogSink overrides the file log; rotation is skipped when set
	LogSink io.Writer

	Clock clock.Clock
	IDGen idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if c.Repo == nil {
		vb.RequiredField("Repo")
	}
	return vb.Build()
}

// Manager implements the migration.Service interface
type Manager struct {
	repo      spellrepo.Repository
	parser    *parsing.Parser
	backupDir string
	logPath   string
	logSink   io.Writer
	clock     clock.Clock
	idgen     idgen.Generator
}

// New creates a new migration manager
func New(cfg *Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	m := &Manager{
		repo:      cfg.Repo,
		parser:    cfg.Parser,
		backupDir: cfg.BackupDir,
		logPath:   cfg.LogPath,
		logSink:   cfg.LogSink,
		clock:     cfg.Clock,
		idgen:     cfg.IDGen,
	}
	if m.parser == nil {
		m.parser = parsing.New()
	}
	if m.backupDir == "" {
		m.backupDir = filepath.Dir(cfg.Repo.Path())
	}
	if m.logPath == "" {
		m.logPath = filepath.Join(m.backupDir, defaultLogName)
	}
	if m.clock == nil {
		m.clock = clock.New()
	}
	if m.idgen == nil {
		m.idgen = idgen.NewPrefixed("report")
	}
	return m, nil
}

// RunBackfill converts every row missing a content hash and commits the
// results in one transaction. A verified backup precedes any write.
func (m *Manager) RunBackfill(ctx context.Context, input *RunBackfillInput) (*RunBackfillOutput, error) {
	logEvery := defaultLogEvery
	if input != nil && input.BatchLogEvery > 0 {
		logEvery = input.BatchLogEvery
	}

	missing, err := m.repo.CountMissingHashes(ctx)
	if err != nil {
		return nil, err
	}
	if missing == 0 {
		m.logf("backfill: no rows missing content hashes, nothing to do")
		return &RunBackfillOutput{FallbackCounts: map[string]int{}}, nil
	}

	if err := m.rotateLogIfNeeded(); err != nil {
		return nil, err
	}
	m.logf("backfill: starting, %d rows to migrate", missing)

	backupPath, err := m.createVerifiedBackup(ctx)
	if err != nil {
		return nil, err
	}
	m.logf("backfill: verified backup at %s", backupPath)

	listed, err := m.repo.ListRows(ctx, spellrepo.ListRowsInput{OnlyMissingHash: true})
	if err != nil {
		return nil, err
	}

	schemaVersion, err := canonical.CurrentSchemaVersion()
	if err != nil {
		return nil, err
	}

	out := &RunBackfillOutput{
		TotalRows:      len(listed.Rows),
		FallbackCounts: map[string]int{},
		BackupPath:     backupPath,
	}
	var updates []spellrepo.CanonicalUpdate

	for i, row := range listed.Rows {
		converted, report, err := m.parser.ConvertRow(row)
		if err != nil {
			out.Skipped++
			m.logf("SKIP spell=%d name=%q reason=%v", row.ID, row.Name, err)
			continue
		}
		canonicalJSON, hash, err := canonical.CanonicalJSON(converted)
		if err != nil {
			out.Skipped++
			m.logf("SKIP spell=%d name=%q reason=%v", row.ID, row.Name, err)
			continue
		}
		for _, domain := range report.Fallbacks {
			out.FallbackCounts[domain]++
			m.logf("PARSE_FALLBACK spell=%d domain=%s", row.ID, domain)
		}
		updates = append(updates, spellrepo.CanonicalUpdate{
			ID:            row.ID,
			CanonicalJSON: canonicalJSON,
			ContentHash:   hash,
			SchemaVersion: schemaVersion,
		})
		if (i+1)%logEvery == 0 {
			m.logf("backfill: processed %d/%d rows", i+1, len(listed.Rows))
		}
	}

	if len(updates) > 0 {
		res, err := m.repo.UpdateCanonicalBatch(ctx, spellrepo.UpdateCanonicalBatchInput{Updates: updates})
		if err != nil {
			m.logf("backfill: commit failed, all changes rolled back: %v", err)
			if errors.IsAlreadyExists(err) {
				return nil, errors.Wrap(err, "backfill aborted on duplicate content hash; run collision detection")
			}
			return nil, err
		}
		out.Migrated = int(res.RowsUpdated)
	}

	m.logSummary(out)
	return out, nil
}

func (m *Manager) logSummary(out *RunBackfillOutput) {
	m.logf("backfill: complete, migrated=%d skipped=%d total=%d",
		out.Migrated, out.Skipped, out.TotalRows)
	if out.TotalRows == 0 {
		return
	}
	domains := make([]string, 0, len(out.FallbackCounts))
	for domain := range out.FallbackCounts {
		domains = append(domains, domain)
	}
	sort.Strings(domains)
	for _, domain := range domains {
		count := out.FallbackCounts[domain]
		m.logf("backfill: %s fallbacks %d (%.1f%%)",
			domain, count, 100*float64(count)/float64(out.TotalRows))
	}
}

// RecomputeAllHashes re-derives every row's canonical form from its
// legacy columns and persists the rows whose hash changed.
func (m *Manager) RecomputeAllHashes(ctx context.Context, _ *RecomputeAllHashesInput) (*RecomputeAllHashesOutput, error) {
	listed, err := m.repo.ListRows(ctx, spellrepo.ListRowsInput{})
	if err != nil {
		return nil, err
	}
	schemaVersion, err := canonical.CurrentSchemaVersion()
	if err != nil {
		return nil, err
	}

	out := &RecomputeAllHashesOutput{TotalRows: len(listed.Rows)}
	var updates []spellrepo.CanonicalUpdate

	for _, row := range listed.Rows {
		converted, _, err := m.parser.ConvertRow(row)
		if err != nil {
			m.logf("recompute: skipping spell=%d name=%q reason=%v", row.ID, row.Name, err)
			continue
		}
		canonicalJSON, hash, err := canonical.CanonicalJSON(converted)
		if err != nil {
			m.logf("recompute: skipping spell=%d name=%q reason=%v", row.ID, row.Name, err)
			continue
		}
		oldHash := ""
		if row.ContentHash != nil {
			oldHash = *row.ContentHash
		}
		if oldHash == hash {
			continue
		}
		m.logf("recompute: spell=%d hash %s -> %s", row.ID, oldHash, hash)
		out.Changed = append(out.Changed, HashChange{SpellID: row.ID, OldHash: oldHash, NewHash: hash})
		updates = append(updates, spellrepo.CanonicalUpdate{
			ID:            row.ID,
			CanonicalJSON: canonicalJSON,
			ContentHash:   hash,
			SchemaVersion: schemaVersion,
		})
	}

	if len(updates) > 0 {
		if _, err := m.repo.UpdateCanonicalBatch(ctx, spellrepo.UpdateCanonicalBatchInput{Updates: updates}); err != nil {
			if errors.IsAlreadyExists(err) {
				return nil, errors.Wrap(err, "recompute aborted on duplicate content hash; run collision detection")
			}
			return nil, err
		}
	}
	m.logf("recompute: %d of %d hashes changed", len(out.Changed), out.TotalRows)
	return out, nil
}

// CheckIntegrity reports on the canonical columns without mutating.
func (m *Manager) CheckIntegrity(ctx context.Context, _ *CheckIntegrityInput) (*CheckIntegrityOutput, error) {
	out := &CheckIntegrityOutput{}

	nullHashes, err := m.repo.CountMissingHashes(ctx)
	if err != nil {
		return nil, err
	}
	out.NullHashes = nullHashes

	listed, err := m.repo.ListRows(ctx, spellrepo.ListRowsInput{})
	if err != nil {
		return nil, err
	}
	for _, row := range listed.Rows {
		if row.ContentHash == nil || row.CanonicalData == nil {
			continue
		}
		stored, _, err := canonical.FromJSON([]byte(*row.CanonicalData))
		if err != nil {
			out.MismatchTotal++
			if len(out.Mismatches) < maxMismatchSamples {
				out.Mismatches = append(out.Mismatches, HashMismatch{
					SpellID: row.ID, StoredHash: *row.ContentHash,
				})
			}
			continue
		}
		actual, err := canonical.ComputeHash(stored)
		if err != nil || actual != *row.ContentHash {
			out.MismatchTotal++
			if len(out.Mismatches) < maxMismatchSamples {
				out.Mismatches = append(out.Mismatches, HashMismatch{
					SpellID: row.ID, StoredHash: *row.ContentHash, ActualHash: actual,
				})
			}
		}
	}

	orphans, err := m.repo.CountOrphanedClassRefs(ctx)
	if err != nil {
		return nil, err
	}
	out.OrphanedClassRefs = orphans

	groups, err := m.repo.ListHashGroups(ctx)
	if err != nil {
		return nil, err
	}
	out.DuplicateGroups = len(groups.Groups)
	return out, nil
}

// DetectCollisions classifies every duplicate-hash group.
func (m *Manager) DetectCollisions(ctx context.Context, _ *DetectCollisionsInput) (*DetectCollisionsOutput, error) {
	groups, err := m.repo.ListHashGroups(ctx)
	if err != nil {
		return nil, err
	}

	out := &DetectCollisionsOutput{}
	for _, group := range groups.Groups {
		collision := Collision{ContentHash: group.ContentHash, SpellIDs: group.SpellIDs}

		var canonicals []string
		missing := false
		for _, id := range group.SpellIDs {
			got, err := m.repo.GetRow(ctx, spellrepo.GetRowInput{ID: id})
			if err != nil {
				return nil, err
			}
			if got.Row.CanonicalData == nil {
				missing = true
				break
			}
			canonicals = append(canonicals, *got.Row.CanonicalData)
		}

		switch {
		case missing:
			collision.Classification = CollisionClassAmbiguous
		case allEqual(canonicals):
			collision.Classification = CollisionClassDuplicate
		default:
			collision.Classification = CollisionClassTrueCollision
		}
		out.Collisions = append(out.Collisions, collision)
	}
	return out, nil
}

// SyncCheck compares legacy flat columns against stored canonical JSON.
func (m *Manager) SyncCheck(ctx context.Context, _ *SyncCheckInput) (*SyncCheckOutput, error) {
	listed, err := m.repo.ListRows(ctx, spellrepo.ListRowsInput{})
	if err != nil {
		return nil, err
	}

	out := &SyncCheckOutput{}
	for _, row := range listed.Rows {
		if row.CanonicalData == nil {
			continue
		}
		out.RowsChecked++

		stored, _, err := canonical.FromJSON([]byte(*row.CanonicalData))
		if err != nil {
			out.Drift = append(out.Drift, FieldDrift{
				SpellID: row.ID, Field: "canonical_data",
				LegacyValue: "", CanonicalValue: fmt.Sprintf("unreadable: %v", err),
			})
			continue
		}

		drift := func(field, legacy, canonicalVal string) {
			if legacy != canonicalVal {
				out.Drift = append(out.Drift, FieldDrift{
					SpellID: row.ID, Field: field,
					LegacyValue: legacy, CanonicalValue: canonicalVal,
				})
			}
		}

		drift("name", textnorm.Structured(row.Name), stored.Name)
		drift("level", fmt.Sprintf("%d", row.Level), fmt.Sprintf("%d", stored.Level))
		drift("school", structuredOrEmpty(row.School), derefOrEmpty(stored.School))
		drift("sphere", structuredOrEmpty(row.Sphere), derefOrEmpty(stored.Sphere))
		drift("is_quest_spell", fmt.Sprintf("%d", row.IsQuestSpell), fmt.Sprintf("%d", stored.IsQuestSpell))
		drift("is_cantrip", fmt.Sprintf("%d", row.IsCantrip), fmt.Sprintf("%d", stored.IsCantrip))

		legacyReversible := int64(0)
		if row.Reversible != nil {
			legacyReversible = *row.Reversible
		}
		storedReversible := int64(0)
		if stored.Reversible != nil {
			storedReversible = *stored.Reversible
		}
		drift("reversible", fmt.Sprintf("%d", legacyReversible), fmt.Sprintf("%d", storedReversible))
	}
	return out, nil
}

// ListBackups returns known backups, newest first.
func (m *Manager) ListBackups(ctx context.Context, _ *ListBackupsInput) (*ListBackupsOutput, error) {
	_ = ctx
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read backup directory %s", m.backupDir)
	}

	out := &ListBackupsOutput{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), backupPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out.Backups = append(out.Backups, BackupInfo{
			Name:      entry.Name(),
			Path:      filepath.Join(m.backupDir, entry.Name()),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime().UTC().Format(time.RFC3339),
		})
	}
	sort.Slice(out.Backups, func(i, j int) bool {
		return out.Backups[i].Name > out.Backups[j].Name
	})
	return out, nil
}

// RestoreBackup replaces the live tables with a named backup and
// integrity-checks the result.
func (m *Manager) RestoreBackup(ctx context.Context, input *RestoreBackupInput) (*RestoreBackupOutput, error) {
	if input == nil || input.Name == "" {
		return nil, errors.InvalidArgument("backup name is required")
	}
	if filepath.Base(input.Name) != input.Name || !strings.HasPrefix(input.Name, backupPrefix) {
		return nil, errors.InvalidArgumentf("invalid backup name %q", input.Name)
	}

	path := filepath.Join(m.backupDir, input.Name)
	if err := m.repo.RestoreFrom(ctx, path); err != nil {
		return nil, err
	}
	if err := m.repo.IntegrityCheck(ctx); err != nil {
		return nil, errors.Wrap(err, "restored database failed integrity check")
	}
	m.logf("restore: restored from %s", path)
	return &RestoreBackupOutput{Path: path}, nil
}

// RollbackToLatest restores the most recent backup.
func (m *Manager) RollbackToLatest(ctx context.Context, _ *RollbackToLatestInput) (*RollbackToLatestOutput, error) {
	backups, err := m.ListBackups(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(backups.Backups) == 0 {
		return nil, errors.FailedPrecondition("no backups available to roll back to")
	}
	restored, err := m.RestoreBackup(ctx, &RestoreBackupInput{Name: backups.Backups[0].Name})
	if err != nil {
		return nil, err
	}
	return &RollbackToLatestOutput{Path: restored.Path}, nil
}

var fallbackDomainRe = regexp.MustCompile(`PARSE_FALLBACK spell=\d+ domain=([a-z_]+)`)

type migrationReport struct {
	ReportID      string         `json:"report_id"`
	GeneratedAt   string         `json:"generated_at"`
	SpellCount    int            `json:"spell_count"`
	ParseFailures map[string]int `json:"parse_failures"`
	LogLines      []string       `json:"log_lines"`
}

// ExportMigrationReport parses the migration log into per-domain
// fallback tallies and writes a JSON report next to the database.
func (m *Manager) ExportMigrationReport(ctx context.Context, _ *ExportMigrationReportInput) (*ExportMigrationReportOutput, error) {
	raw, err := os.ReadFile(m.logPath)
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeFailedPrecondition,
			"migration log %s is not readable", m.logPath)
	}

	listed, err := m.repo.ListRows(ctx, spellrepo.ListRowsInput{})
	if err != nil {
		return nil, err
	}

	report := migrationReport{
		ReportID:      m.idgen.Generate(),
		GeneratedAt:   m.clock.Now().UTC().Format(time.RFC3339),
		SpellCount:    len(listed.Rows),
		ParseFailures: map[string]int{},
	}
	for _, line := range strings.Split(strings.TrimRight(string(raw), "\n"), "\n") {
		if line == "" {
			continue
		}
		report.LogLines = append(report.LogLines, line)
		if caps := fallbackDomainRe.FindStringSubmatch(line); caps != nil {
			report.ParseFailures[caps[1]]++
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal migration report")
	}
	path := filepath.Join(m.backupDir,
		fmt.Sprintf("migration_report_%s.json", m.clock.Now().Format(backupTimeFormat)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, errors.Wrapf(err, "failed to write migration report %s", path)
	}
	m.logf("report: exported %s", path)
	return &ExportMigrationReportOutput{Path: path}, nil
}

func (m *Manager) createVerifiedBackup(ctx context.Context) (string, error) {
	path := filepath.Join(m.backupDir,
		backupPrefix+m.clock.Now().Format(backupTimeFormat)+".db")
	if err := m.repo.VacuumInto(ctx, path); err != nil {
		return "", err
	}
	if err := m.repo.VerifyBackup(ctx, path); err != nil {
		_ = os.Remove(path)
		return "", errors.Wrap(err, "backup verification failed, backfill aborted")
	}
	return path, nil
}

// rotateLogIfNeeded renames an oversized or stale log file to .log.old.
// An injected sink is never rotated.
func (m *Manager) rotateLogIfNeeded() error {
	if m.logSink != nil {
		return nil
	}
	info, err := os.Stat(m.logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to stat migration log %s", m.logPath)
	}
	if info.Size() <= maxLogSizeBytes && m.clock.Now().Sub(info.ModTime()) <= maxLogAge {
		return nil
	}
	if err := os.Rename(m.logPath, m.logPath+".old"); err != nil {
		return errors.Wrapf(err, "failed to rotate migration log %s", m.logPath)
	}
	return nil
}

func (m *Manager) logf(format string, args ...any) {
	line := fmt.Sprintf("%s %s\n",
		m.clock.Now().UTC().Format(time.RFC3339), fmt.Sprintf(format, args...))

	if m.logSink != nil {
		if _, err := io.WriteString(m.logSink, line); err != nil {
			slog.Warn("failed to write migration log", "error", err)
		}
		return
	}

	f, err := os.OpenFile(m.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Warn("failed to open migration log", "path", m.logPath, "error", err)
		return
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString(line); err != nil {
		slog.Warn("failed to write migration log", "path", m.logPath, "error", err)
	}
}

func allEqual(values []string) bool {
	for i := 1; i < len(values); i++ {
		if values[i] != values[0] {
			return false
		}
	}
	return true
}

func structuredOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return textnorm.Structured(*s)
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
