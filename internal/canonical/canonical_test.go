package canonical_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/spellbook/internal/canonical"
	"github.com/KirkDiggler/spellbook/internal/entities/spell"
	"github.com/KirkDiggler/spellbook/internal/errors"
)

type CanonicalSuite struct {
	suite.Suite
}

func TestCanonicalSuite(t *testing.T) {
	suite.Run(t, new(CanonicalSuite))
}

func (s *CanonicalSuite) baseSpell() *spell.CanonicalSpell {
	return &spell.CanonicalSpell{
		SchemaVersion: 2,
		Name:          "Fireball",
		Tradition:     spell.TraditionArcane,
		School:        spell.String("Evocation"),
		ClassList:     []string{"Wizard"},
		Level:         3,
		Description:   "A burst of flame detonates at the target point.",
		Tags:          []string{"fire", "attack"},
		Range: &spell.RangeSpec{
			Kind:     spell.RangeKindDistance,
			Text:     spell.String("10 yards"),
			Distance: spell.FixedScalar(10),
		},
	}
}

func (s *CanonicalSuite) mustHash(c *spell.CanonicalSpell) string {
	hash, err := canonical.ComputeHash(c)
	s.Require().NoError(err)
	s.Require().Len(hash, 64)
	return hash
}

func (s *CanonicalSuite) TestHashIsStable() {
	first := s.mustHash(s.baseSpell())
	second := s.mustHash(s.baseSpell())
	s.Equal(first, second)
}

func (s *CanonicalSuite) TestSetOrderDoesNotChangeHash() {
	a := s.baseSpell()
	a.Tags = []string{"fire", "attack"}
	b := s.baseSpell()
	b.Tags = []string{"attack", "fire"}
	s.Equal(s.mustHash(a), s.mustHash(b))
}

func (s *CanonicalSuite) TestMetadataDoesNotChangeHash() {
	plain := s.mustHash(s.baseSpell())

	decorated := s.baseSpell()
	decorated.ID = spell.String("spell_123")
	decorated.Edition = spell.String("2e")
	decorated.Author = spell.String("somebody")
	decorated.License = spell.String("OGL")
	decorated.Version = "9.9.9"
	decorated.CreatedAt = spell.String("2024-01-01T00:00:00Z")
	decorated.UpdatedAt = spell.String("2024-06-01T00:00:00Z")
	decorated.SourceRefs = []spell.SpellSourceRef{{Book: "Player's Handbook", Page: 184}}
	decorated.Artifacts = []spell.SpellArtifact{{ID: 1, SpellID: 2, Type: "pdf", Path: "x", Hash: "y"}}
	s.Equal(plain, s.mustHash(decorated))
}

func (s *CanonicalSuite) TestSourceTextExcludedAtDepth() {
	a := s.baseSpell()
	a.ExperienceCost = &spell.ExperienceComponentSpec{
		Kind:       spell.ExperienceKindFixed,
		AmountXp:   spell.Int(500),
		SourceText: spell.String("XP Cost: 500"),
	}
	b := s.baseSpell()
	b.ExperienceCost = &spell.ExperienceComponentSpec{
		Kind:     spell.ExperienceKindFixed,
		AmountXp: spell.Int(500),
	}
	s.Equal(s.mustHash(b), s.mustHash(a))
}

func (s *CanonicalSuite) TestLeanAndExplicitFormsHashTheSame() {
	lean := s.baseSpell()

	explicit := s.baseSpell()
	zero := int64(0)
	explicit.Reversible = &zero
	explicit.MaterialComponents = []spell.MaterialComponentSpec{}
	explicit.Components = &spell.SpellComponents{}

	s.Equal(s.mustHash(lean), s.mustHash(explicit))
}

func (s *CanonicalSuite) TestPrecisionClampUnifiesHashes() {
	a := s.baseSpell()
	a.Range.Distance = spell.FixedScalar(10.0000004)
	b := s.baseSpell()
	b.Range.Distance = spell.FixedScalar(10)
	s.Equal(s.mustHash(b), s.mustHash(a))
}

func (s *CanonicalSuite) TestUnitsAreNotMagnitudeConverted() {
	yards := s.baseSpell()
	yd := spell.RangeUnitYd
	yards.Range = &spell.RangeSpec{
		Kind:     spell.RangeKindDistance,
		Text:     spell.String("1 yd"),
		Unit:     &yd,
		Distance: spell.FixedScalar(1),
	}

	feet := s.baseSpell()
	ft := spell.RangeUnitFt
	feet.Range = &spell.RangeSpec{
		Kind:     spell.RangeKindDistance,
		Text:     spell.String("3 ft"),
		Unit:     &ft,
		Distance: spell.FixedScalar(3),
	}

	s.NotEqual(s.mustHash(yards), s.mustHash(feet))
}

func (s *CanonicalSuite) TestSerializeOmitsExcludedFields() {
	sp := s.baseSpell()
	sp.ID = spell.String("spell_123")
	sp.Normalize()
	s.Require().NoError(canonical.ValidateSpell(sp))

	data, err := canonical.Serialize(sp)
	s.Require().NoError(err)

	var doc map[string]any
	s.Require().NoError(json.Unmarshal(data, &doc))
	for _, field := range []string{"id", "schema_version", "version", "created_at", "updated_at", "source_refs", "artifacts"} {
		s.NotContains(doc, field)
	}
	s.Contains(doc, "name")
	s.Contains(doc, "tradition")
}

func (s *CanonicalSuite) TestUnknownTraditionRejected() {
	sp := s.baseSpell()
	sp.Tradition = "PSIONIC"
	_, err := canonical.ComputeHash(sp)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *CanonicalSuite) TestSchemaRejectsMalformedMechanics() {
	s.Run("unknown range kind", func() {
		sp := s.baseSpell()
		sp.Range.Kind = "teleportation"
		_, err := canonical.ComputeHash(sp)
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("distance range without a distance", func() {
		sp := s.baseSpell()
		sp.Range = &spell.RangeSpec{
			Kind: spell.RangeKindDistance,
			Text: spell.String("10 yards"),
		}
		_, err := canonical.ComputeHash(sp)
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("timed duration without a unit", func() {
		sp := s.baseSpell()
		sp.Duration = &spell.DurationSpec{
			Kind:     spell.DurationKindTime,
			Duration: spell.FixedScalar(3),
		}
		_, err := canonical.ComputeHash(sp)
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("modeled damage without parts", func() {
		sp := s.baseSpell()
		sp.Damage = &spell.SpellDamageSpec{
			Kind:        spell.DamageKindModeled,
			CombineMode: spell.DamageCombineModeSum,
		}
		_, err := canonical.ComputeHash(sp)
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("duplicate tags", func() {
		sp := s.baseSpell()
		sp.Normalize()
		sp.Tags = []string{"fire", "fire"}
		err := canonical.ValidateSpell(sp)
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *CanonicalSuite) TestNewerSchemaVersionRejected() {
	sp := s.baseSpell()
	sp.SchemaVersion = 99
	_, err := canonical.ComputeHash(sp)
	s.Require().Error(err)
	s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))
}

func (s *CanonicalSuite) TestCurrentSchemaVersion() {
	version, err := canonical.CurrentSchemaVersion()
	s.Require().NoError(err)
	s.Equal(int64(2), version)
}

func (s *CanonicalSuite) TestRoundTrip() {
	sp := s.baseSpell()
	sp.Normalize()
	s.Require().NoError(canonical.ValidateSpell(sp))
	data, err := canonical.Serialize(sp)
	s.Require().NoError(err)

	// The canonical form strips schema_version, so a stored document
	// without one reads back at version 1 and migrates up.
	restored, report, err := canonical.FromJSON(data)
	s.Require().NoError(err)
	s.Require().NotNil(report)
	s.Equal(int64(1), report.FromVersion)
	s.Equal(int64(2), report.ToVersion)
	s.NotEmpty(report.Notes)

	s.Equal(sp.Name, restored.Name)
	s.Equal(sp.Tradition, restored.Tradition)
	s.Equal(sp.Level, restored.Level)

	restored.Normalize()
	restoredJSON, err := canonical.Serialize(restored)
	s.Require().NoError(err)
	s.JSONEq(string(data), string(restoredJSON))
}

func (s *CanonicalSuite) TestMigrationNoOpAtCurrentVersion() {
	doc := map[string]any{"schema_version": float64(2), "name": "Fireball"}
	migrated, report, err := canonical.MigrateJSONToCurrent(doc)
	s.Require().NoError(err)
	s.Equal(int64(2), report.FromVersion)
	s.Equal(int64(2), report.ToVersion)
	s.Empty(report.Notes)
	s.Equal(float64(2), migrated["schema_version"])
}

func (s *CanonicalSuite) TestVersionZeroTreatedAsOne() {
	doc := map[string]any{"schema_version": float64(0)}
	_, report, err := canonical.MigrateJSONToCurrent(doc)
	s.Require().NoError(err)
	s.Equal(int64(1), report.FromVersion)
	s.Equal(int64(2), report.ToVersion)
}
