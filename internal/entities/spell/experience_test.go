package spell_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
)

type ExperienceSuite struct {
	suite.Suite
}

func TestExperienceSuite(t *testing.T) {
	suite.Run(t, new(ExperienceSuite))
}

func (s *ExperienceSuite) TestDefaultsMaterialize() {
	e := &spell.ExperienceComponentSpec{Kind: spell.ExperienceKindFixed, AmountXp: spell.Int(500)}
	e.Normalize()

	s.Equal(spell.ExperiencePayerCaster, e.Payer)
	s.Equal(spell.PaymentTimingOnCompletion, e.PaymentTiming)
	s.Equal(spell.PaymentSemanticsSpend, e.PaymentSemantics)
	s.Equal(spell.RecoverabilityNormalEarning, e.Recoverability)
	s.Require().NotNil(e.CanReduceLevel)
	s.True(*e.CanReduceLevel)
}

func (s *ExperienceSuite) TestFormulaVarNames() {
	e := &spell.ExperienceComponentSpec{
		Kind: spell.ExperienceKindFormula,
		Formula: &spell.ExperienceFormula{
			Expr: "gp_value / 10",
			Vars: []spell.FormulaVar{
				{Name: "  GP   Value ", VarKind: spell.VarKindGpValue},
				{Name: "an extremely long variable name that keeps going on", VarKind: spell.VarKindOther},
			},
		},
	}
	e.Normalize()

	s.Run("lowercased with underscores", func() {
		s.Equal("an_extremely_long_variable_name_", e.Formula.Vars[0].Name)
		s.Equal("gp_value", e.Formula.Vars[1].Name)
	})

	s.Run("truncated to 32 chars", func() {
		s.LessOrEqual(len(e.Formula.Vars[0].Name), 32)
	})

	s.Run("sorted by name", func() {
		s.Less(e.Formula.Vars[0].Name, e.Formula.Vars[1].Name)
	})
}

func (s *ExperienceSuite) TestTiersSorted() {
	e := &spell.ExperienceComponentSpec{
		Kind: spell.ExperienceKindTiered,
		Tiered: []spell.TieredXp{
			{When: "undead target", AmountXp: 1000},
			{When: "living target", AmountXp: 500},
			{When: "living target", AmountXp: 100},
		},
	}
	e.Normalize()

	s.Equal("living target", e.Tiered[0].When)
	s.Equal(100, e.Tiered[0].AmountXp)
	s.Equal(500, e.Tiered[1].AmountXp)
	s.Equal("undead target", e.Tiered[2].When)
}

func (s *ExperienceSuite) TestSourceTextDoesNotCountTowardDefault() {
	e := &spell.ExperienceComponentSpec{SourceText: spell.String("XP Cost: none")}
	e.Normalize()
	s.True(e.IsDefault())
}
