package migration_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/spellbook/internal/errors"
	spellrepo "github.com/KirkDiggler/spellbook/internal/repositories/spell"
	"github.com/KirkDiggler/spellbook/internal/services/migration"
	"github.com/KirkDiggler/spellbook/internal/testutils/builders"
)

type MigrationIntegrationSuite struct {
	suite.Suite
	ctx     context.Context
	dir     string
	repo    spellrepo.Repository
	manager *migration.Manager
}

func (s *MigrationIntegrationSuite) SetupTest() {
	s.ctx = context.Background()
	s.dir = s.T().TempDir()

	repo, err := spellrepo.NewSQLiteRepository(&spellrepo.Config{
		Path: filepath.Join(s.dir, "spells.db"),
	})
	s.Require().NoError(err)
	s.repo = repo

	manager, err := migration.New(&migration.Config{Repo: repo})
	s.Require().NoError(err)
	s.manager = manager
}

func (s *MigrationIntegrationSuite) TearDownTest() {
	_ = s.repo.Close()
}

func (s *MigrationIntegrationSuite) seed(rows ...*builders.LegacySpellRowBuilder) []int64 {
	var ids []int64
	for _, b := range rows {
		ins, err := s.repo.InsertRow(s.ctx, spellrepo.InsertRowInput{Row: b.Build()})
		s.Require().NoError(err)
		ids = append(ids, ins.ID)
	}
	return ids
}

func (s *MigrationIntegrationSuite) TestBackfillEndToEnd() {
	s.seed(
		builders.NewLegacySpellRowBuilder().WithName("Magic Missile"),
		builders.NewLegacySpellRowBuilder().WithName("Fireball").
			WithLevel(3).
			WithArea("20 ft radius").
			WithDamage("1d6/level (max 10d6) fire damage").
			WithSavingThrow("Half"),
		builders.NewLegacySpellRowBuilder().WithName("Oddity").
			WithRange("somewhere over the rainbow"),
	)

	out, err := s.manager.RunBackfill(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(3, out.TotalRows)
	s.Equal(3, out.Migrated)
	s.Zero(out.Skipped)
	s.Equal(1, out.FallbackCounts["range"])
	s.FileExists(out.BackupPath)

	missing, err := s.repo.CountMissingHashes(s.ctx)
	s.Require().NoError(err)
	s.Zero(missing)

	s.Run("integrity is clean after backfill", func() {
		check, err := s.manager.CheckIntegrity(s.ctx, nil)
		s.Require().NoError(err)
		s.Zero(check.NullHashes)
		s.Zero(check.MismatchTotal)
		s.Zero(check.OrphanedClassRefs)
		s.Zero(check.DuplicateGroups)
	})

	s.Run("recompute is a no-op on fresh data", func() {
		recomputed, err := s.manager.RecomputeAllHashes(s.ctx, nil)
		s.Require().NoError(err)
		s.Equal(3, recomputed.TotalRows)
		s.Empty(recomputed.Changed)
	})

	s.Run("sync check reports no drift", func() {
		sync, err := s.manager.SyncCheck(s.ctx, nil)
		s.Require().NoError(err)
		s.Equal(3, sync.RowsChecked)
		s.Empty(sync.Drift)
	})

	s.Run("no collisions on distinct spells", func() {
		collisions, err := s.manager.DetectCollisions(s.ctx, nil)
		s.Require().NoError(err)
		s.Empty(collisions.Collisions)
	})

	s.Run("report tallies logged fallbacks", func() {
		exported, err := s.manager.ExportMigrationReport(s.ctx, nil)
		s.Require().NoError(err)

		raw, err := os.ReadFile(exported.Path)
		s.Require().NoError(err)
		var report struct {
			SpellCount    int            `json:"spell_count"`
			ParseFailures map[string]int `json:"parse_failures"`
			LogLines      []string       `json:"log_lines"`
		}
		s.Require().NoError(json.Unmarshal(raw, &report))
		s.Equal(3, report.SpellCount)
		s.Equal(1, report.ParseFailures["range"])
		s.NotEmpty(report.LogLines)
	})

	s.Run("rollback restores the pre-backfill state", func() {
		backups, err := s.manager.ListBackups(s.ctx, nil)
		s.Require().NoError(err)
		s.Require().Len(backups.Backups, 1)

		_, err = s.manager.RollbackToLatest(s.ctx, nil)
		s.Require().NoError(err)

		missing, err := s.repo.CountMissingHashes(s.ctx)
		s.Require().NoError(err)
		s.Equal(int64(3), missing)
	})
}

func (s *MigrationIntegrationSuite) TestBackfillRollsBackOnDuplicateContent() {
	// Two rows with identical mechanical content hash identically; the
	// UNIQUE column must reject the batch as a whole.
	s.seed(
		builders.NewLegacySpellRowBuilder().WithName("Twin"),
		builders.NewLegacySpellRowBuilder().WithName("Twin"),
	)

	_, err := s.manager.RunBackfill(s.ctx, nil)
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))

	missing, countErr := s.repo.CountMissingHashes(s.ctx)
	s.Require().NoError(countErr)
	s.Equal(int64(2), missing)
}

func TestMigrationIntegrationSuite(t *testing.T) {
	suite.Run(t, new(MigrationIntegrationSuite))
}
