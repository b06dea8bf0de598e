package migration_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
	"github.com/KirkDiggler/spellbook/internal/errors"
	spellrepo "github.com/KirkDiggler/spellbook/internal/repositories/spell"
	spellrepomock "github.com/KirkDiggler/spellbook/internal/repositories/spell/mock"
	"github.com/KirkDiggler/spellbook/internal/services/migration"
	"github.com/KirkDiggler/spellbook/internal/testutils/builders"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type ManagerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	ctx     context.Context
	repo    *spellrepomock.MockRepository
	log     *bytes.Buffer
	manager *migration.Manager
}

func (s *ManagerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.repo = spellrepomock.NewMockRepository(s.ctrl)
	s.log = &bytes.Buffer{}

	manager, err := migration.New(&migration.Config{
		Repo:      s.repo,
		BackupDir: s.T().TempDir(),
		LogSink:   s.log,
		Clock:     &fixedClock{t: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)},
	})
	s.Require().NoError(err)
	s.manager = manager
}

func (s *ManagerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ManagerSuite) TestConfigRequiresRepo() {
	_, err := migration.New(&migration.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ManagerSuite) TestBackfillNoOpWhenNothingMissing() {
	s.repo.EXPECT().CountMissingHashes(s.ctx).Return(int64(0), nil)

	out, err := s.manager.RunBackfill(s.ctx, nil)
	s.Require().NoError(err)
	s.Zero(out.TotalRows)
	s.Zero(out.Migrated)
	s.Contains(s.log.String(), "nothing to do")
}

func (s *ManagerSuite) TestBackfillConvertsAndCommits() {
	rows := []builderRow{
		{id: 1, name: "Magic Missile"},
		{id: 2, name: "Shield"},
	}

	s.repo.EXPECT().CountMissingHashes(s.ctx).Return(int64(2), nil)
	s.repo.EXPECT().VacuumInto(s.ctx, gomock.Any()).Return(nil)
	s.repo.EXPECT().VerifyBackup(s.ctx, gomock.Any()).Return(nil)
	s.repo.EXPECT().ListRows(s.ctx, spellrepo.ListRowsInput{OnlyMissingHash: true}).
		Return(listOutput(rows), nil)

	var captured spellrepo.UpdateCanonicalBatchInput
	s.repo.EXPECT().UpdateCanonicalBatch(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input spellrepo.UpdateCanonicalBatchInput) (*spellrepo.UpdateCanonicalBatchOutput, error) {
			captured = input
			return &spellrepo.UpdateCanonicalBatchOutput{RowsUpdated: int64(len(input.Updates))}, nil
		})

	out, err := s.manager.RunBackfill(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(2, out.TotalRows)
	s.Equal(2, out.Migrated)
	s.Zero(out.Skipped)

	s.Require().Len(captured.Updates, 2)
	s.Len(captured.Updates[0].ContentHash, 64)
	s.NotEqual(captured.Updates[0].ContentHash, captured.Updates[1].ContentHash)
	s.NotEmpty(captured.Updates[0].CanonicalJSON)
	s.Contains(s.log.String(), "backfill: complete")
}

func (s *ManagerSuite) TestBackfillSkipsUnconvertibleRows() {
	orphan := builders.NewLegacySpellRowBuilder().WithID(7).WithName("Orphan").WithoutSchool().Build()

	s.repo.EXPECT().CountMissingHashes(s.ctx).Return(int64(1), nil)
	s.repo.EXPECT().VacuumInto(s.ctx, gomock.Any()).Return(nil)
	s.repo.EXPECT().VerifyBackup(s.ctx, gomock.Any()).Return(nil)
	s.repo.EXPECT().ListRows(s.ctx, spellrepo.ListRowsInput{OnlyMissingHash: true}).
		Return(&spellrepo.ListRowsOutput{Rows: []*spell.LegacySpellRow{orphan}}, nil)

	out, err := s.manager.RunBackfill(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(1, out.Skipped)
	s.Zero(out.Migrated)
	s.Contains(s.log.String(), "SKIP spell=7")
}

func (s *ManagerSuite) TestBackfillAbortsWhenBackupFailsVerification() {
	s.repo.EXPECT().CountMissingHashes(s.ctx).Return(int64(1), nil)
	s.repo.EXPECT().VacuumInto(s.ctx, gomock.Any()).Return(nil)
	s.repo.EXPECT().VerifyBackup(s.ctx, gomock.Any()).
		Return(errors.FailedPrecondition("backup is empty"))

	_, err := s.manager.RunBackfill(s.ctx, nil)
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *ManagerSuite) TestBackfillSurfacesHashCollision() {
	rows := []builderRow{{id: 1, name: "Magic Missile"}}

	s.repo.EXPECT().CountMissingHashes(s.ctx).Return(int64(1), nil)
	s.repo.EXPECT().VacuumInto(s.ctx, gomock.Any()).Return(nil)
	s.repo.EXPECT().VerifyBackup(s.ctx, gomock.Any()).Return(nil)
	s.repo.EXPECT().ListRows(s.ctx, spellrepo.ListRowsInput{OnlyMissingHash: true}).
		Return(listOutput(rows), nil)
	s.repo.EXPECT().UpdateCanonicalBatch(s.ctx, gomock.Any()).
		Return(nil, errors.AlreadyExists("content hash already exists"))

	_, err := s.manager.RunBackfill(s.ctx, nil)
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
	s.Contains(err.Error(), "collision detection")
}

func (s *ManagerSuite) TestRollbackWithoutBackups() {
	_, err := s.manager.RollbackToLatest(s.ctx, nil)
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

type builderRow struct {
	id   int64
	name string
}

func listOutput(rows []builderRow) *spellrepo.ListRowsOutput {
	out := &spellrepo.ListRowsOutput{}
	for _, r := range rows {
		out.Rows = append(out.Rows,
			builders.NewLegacySpellRowBuilder().WithID(r.id).WithName(r.name).Build())
	}
	return out
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}
