package spell_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
	"github.com/KirkDiggler/spellbook/internal/errors"
)

type CanonicalSpellSuite struct {
	suite.Suite
}

func TestCanonicalSpellSuite(t *testing.T) {
	suite.Run(t, new(CanonicalSpellSuite))
}

func (s *CanonicalSpellSuite) baseSpell() *spell.CanonicalSpell {
	return &spell.CanonicalSpell{
		SchemaVersion: 2,
		Name:          "Fireball",
		Tradition:     spell.TraditionArcane,
		School:        spell.String("Evocation"),
		ClassList:     []string{"Wizard"},
		Level:         3,
		Description:   "A burst of flame.",
	}
}

func (s *CanonicalSpellSuite) TestNormalizeMaterializesDefaults() {
	sp := s.baseSpell()
	sp.Normalize()

	s.Run("reversible becomes zero", func() {
		s.Require().NotNil(sp.Reversible)
		s.Equal(int64(0), *sp.Reversible)
	})

	s.Run("material components become empty list", func() {
		s.Require().NotNil(sp.MaterialComponents)
		s.Empty(sp.MaterialComponents)
	})

	s.Run("components become all false", func() {
		s.Require().NotNil(sp.Components)
		s.True(sp.Components.None())
	})

	s.Run("casting time stays absent", func() {
		s.Nil(sp.CastingTime)
	})

	s.Run("version defaults", func() {
		s.Equal(spell.DefaultVersion, sp.Version)
	})
}

func (s *CanonicalSpellSuite) TestNormalizeIsIdempotent() {
	sp := s.baseSpell()
	sp.Tags = []string{"fire", "  attack "}
	sp.Range = &spell.RangeSpec{Kind: spell.RangeKindDistance, Text: spell.String("10  yards")}
	sp.Normalize()

	first := *sp
	sp.Normalize()
	s.Equal(first.Name, sp.Name)
	s.Equal(first.Tags, sp.Tags)
	s.Equal(first.Range.Text, sp.Range.Text)
	s.Equal(first.MaterialComponents, sp.MaterialComponents)
}

func (s *CanonicalSpellSuite) TestSetFieldsSortAndDedup() {
	sp := s.baseSpell()
	sp.Tags = []string{"fire", "attack", "fire", " attack"}
	sp.ClassList = []string{"Wizard", "Illusionist", "Wizard"}
	sp.Normalize()

	s.Equal([]string{"attack", "fire"}, sp.Tags)
	s.Equal([]string{"Illusionist", "Wizard"}, sp.ClassList)
}

func (s *CanonicalSpellSuite) TestStructuredModePreservesCase() {
	sp := s.baseSpell()
	sp.Name = "  Melf's   Acid\tArrow "
	sp.Normalize()
	s.Equal("Melf's Acid Arrow", sp.Name)
}

func (s *CanonicalSpellSuite) TestExperienceCostSyncsComponentFlag() {
	s.Run("present cost sets the flag", func() {
		sp := s.baseSpell()
		sp.ExperienceCost = &spell.ExperienceComponentSpec{
			Kind:     spell.ExperienceKindFixed,
			AmountXp: spell.Int(500),
		}
		sp.Normalize()
		s.Require().NotNil(sp.Components)
		s.True(sp.Components.Experience)
	})

	s.Run("absent cost leaves the flag alone", func() {
		sp := s.baseSpell()
		sp.Normalize()
		s.False(sp.Components.Experience)
	})
}

func (s *CanonicalSpellSuite) TestDefaultSpecsAreDropped() {
	sp := s.baseSpell()
	sp.MagicResistance = &spell.MagicResistanceSpec{}
	sp.SavingThrow = &spell.SavingThrowSpec{}
	sp.ExperienceCost = &spell.ExperienceComponentSpec{}
	sp.Normalize()

	s.Nil(sp.MagicResistance)
	s.Nil(sp.SavingThrow)
	s.Nil(sp.ExperienceCost)
}

func (s *CanonicalSpellSuite) TestDeriveTradition() {
	school := spell.String("Evocation")
	sphere := spell.String("Healing")
	blank := spell.String("  ")

	s.Run("school only is arcane", func() {
		tradition, err := spell.DeriveTradition(school, nil)
		s.Require().NoError(err)
		s.Equal(spell.TraditionArcane, tradition)
	})

	s.Run("sphere only is divine", func() {
		tradition, err := spell.DeriveTradition(nil, sphere)
		s.Require().NoError(err)
		s.Equal(spell.TraditionDivine, tradition)
	})

	s.Run("both is both", func() {
		tradition, err := spell.DeriveTradition(school, sphere)
		s.Require().NoError(err)
		s.Equal(spell.TraditionBoth, tradition)
	})

	s.Run("neither fails", func() {
		_, err := spell.DeriveTradition(nil, nil)
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("blank strings count as absent", func() {
		_, err := spell.DeriveTradition(blank, nil)
		s.Require().Error(err)
	})
}

func (s *CanonicalSpellSuite) TestParseStringList() {
	s.Run("json array", func() {
		raw := `["Wizard","Cleric"]`
		s.Equal([]string{"Wizard", "Cleric"}, spell.ParseStringList(&raw))
	})

	s.Run("comma separated", func() {
		raw := "Wizard, Cleric , "
		s.Equal([]string{"Wizard", "Cleric"}, spell.ParseStringList(&raw))
	})

	s.Run("nil and blank", func() {
		s.Nil(spell.ParseStringList(nil))
		blank := "   "
		s.Nil(spell.ParseStringList(&blank))
	})
}
