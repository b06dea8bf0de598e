package spell_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
)

type DamageSpecSuite struct {
	suite.Suite
}

func TestDamageSpecSuite(t *testing.T) {
	suite.Run(t, new(DamageSpecSuite))
}

func firePart(id string) spell.DamagePart {
	return spell.DamagePart{
		ID:         id,
		DamageType: spell.DamageTypeFire,
		Base: spell.DicePool{
			Terms: []spell.DiceTerm{{Count: 1, Sides: 6}},
		},
	}
}

func (s *DamageSpecSuite) TestNormalizeMaterializesDefaults() {
	d := &spell.SpellDamageSpec{
		Kind:  spell.DamageKindModeled,
		Parts: []spell.DamagePart{{ID: "Main  Blast"}},
	}
	d.Normalize()

	s.Equal(spell.DamageCombineModeSum, d.CombineMode)
	part := d.Parts[0]
	s.Equal("main blast", part.ID)
	s.Equal(spell.DamageTypeUntyped, part.DamageType)
	s.Equal(spell.MrInteractionNormal, part.MrInt)
	s.Equal(spell.DamageSaveKindNone, part.Save.Kind)
	s.Equal(spell.ApplicationScopePerTarget, part.Application.Scope)
	s.Equal(1, part.Application.Ticks)
	s.Equal(spell.TickDriverFixed, part.Application.TickDriver)
}

func (s *DamageSpecSuite) TestPartsSortByID() {
	d := &spell.SpellDamageSpec{
		Kind:        spell.DamageKindModeled,
		CombineMode: spell.DamageCombineModeSum,
		Parts: []spell.DamagePart{
			firePart("secondary"), firePart("primary"),
		},
	}
	d.Normalize()
	s.Equal("primary", d.Parts[0].ID)
	s.Equal("secondary", d.Parts[1].ID)
}

func (s *DamageSpecSuite) TestSequenceModePreservesOrder() {
	d := &spell.SpellDamageSpec{
		Kind:        spell.DamageKindModeled,
		CombineMode: spell.DamageCombineModeSequence,
		Parts: []spell.DamagePart{
			firePart("second_hit"), firePart("first_hit"),
		},
	}
	d.Normalize()
	s.Equal("second_hit", d.Parts[0].ID)
	s.Equal("first_hit", d.Parts[1].ID)
}

func (s *DamageSpecSuite) TestDuplicateIDsSortDeterministically() {
	hot := firePart("blast")
	cold := firePart("blast")
	cold.DamageType = spell.DamageTypeCold

	forward := &spell.SpellDamageSpec{
		Kind:  spell.DamageKindModeled,
		Parts: []spell.DamagePart{hot, cold},
	}
	backward := &spell.SpellDamageSpec{
		Kind:  spell.DamageKindModeled,
		Parts: []spell.DamagePart{cold, hot},
	}
	forward.Normalize()
	backward.Normalize()
	s.Equal(forward.Parts, backward.Parts)
}

func (s *DamageSpecSuite) TestScalingRulesSorted() {
	part := firePart("blast")
	part.Scaling = []spell.ScalingRule{
		{Kind: spell.ScalingKindAddFlatPerStep, Driver: spell.ScalingDriverCasterLevel},
		{Kind: spell.ScalingKindAddDicePerStep, Driver: spell.ScalingDriverCasterLevel},
	}
	d := &spell.SpellDamageSpec{Kind: spell.DamageKindModeled, Parts: []spell.DamagePart{part}}
	d.Normalize()

	rules := d.Parts[0].Scaling
	s.Equal(spell.ScalingKindAddDicePerStep, rules[0].Kind)
	s.Equal(spell.ScalingKindAddFlatPerStep, rules[1].Kind)
	s.Equal(1, rules[0].Step, "step defaults to one")
}

func (s *DamageSpecSuite) TestLevelBandsSorted() {
	part := firePart("blast")
	part.Scaling = []spell.ScalingRule{{
		Kind:   spell.ScalingKindSetBaseByLevelBand,
		Driver: spell.ScalingDriverCasterLevel,
		LevelBands: []spell.LevelBand{
			{Min: 10, Max: 20},
			{Min: 1, Max: 9},
		},
	}}
	d := &spell.SpellDamageSpec{Kind: spell.DamageKindModeled, Parts: []spell.DamagePart{part}}
	d.Normalize()

	bands := d.Parts[0].Scaling[0].LevelBands
	s.Equal(1, bands[0].Min)
	s.Equal(10, bands[1].Min)
}

func (s *DamageSpecSuite) TestDicePoolAverage() {
	pool := &spell.DicePool{
		Terms:        []spell.DiceTerm{{Count: 2, Sides: 6}},
		FlatModifier: 1,
	}
	s.InDelta(8.0, pool.Average(), 0.0001)
}

func (s *DamageSpecSuite) TestDicePoolRoll() {
	pool := &spell.DicePool{
		Terms:        []spell.DiceTerm{{Count: 2, Sides: 6}},
		FlatModifier: 3,
	}
	total, desc, err := pool.Roll()
	s.Require().NoError(err)
	s.GreaterOrEqual(total, 5)
	s.LessOrEqual(total, 15)
	s.Contains(desc, "=")
}
