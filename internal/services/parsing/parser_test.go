package parsing_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
	"github.com/KirkDiggler/spellbook/internal/errors"
	"github.com/KirkDiggler/spellbook/internal/services/parsing"
)

type ParserSuite struct {
	suite.Suite
	parser *parsing.Parser
}

func (s *ParserSuite) SetupTest() {
	s.parser = parsing.New()
}

func (s *ParserSuite) TestParseRange() {
	s.Run("simple distance keeps its unit", func() {
		res := s.parser.ParseRange("10 yards")
		s.Equal(spell.RangeKindDistance, res.Kind)
		s.Require().NotNil(res.Unit)
		s.Equal(spell.RangeUnitYd, *res.Unit)
		s.Require().NotNil(res.Distance)
		s.Require().NotNil(res.Distance.Value)
		s.Equal(10.0, *res.Distance.Value)
	})

	s.Run("keyword ranges", func() {
		s.Equal(spell.RangeKindTouch, s.parser.ParseRange("Touch").Kind)
		s.Equal(spell.RangeKindPersonal, s.parser.ParseRange("0").Kind)
		s.Equal(spell.RangeKindUnlimited, s.parser.ParseRange("Unlimited").Kind)
	})

	s.Run("variable scaling", func() {
		res := s.parser.ParseRange("100 ft. + 10 ft./level")
		s.Equal(spell.RangeKindDistance, res.Kind)
		s.Require().NotNil(res.Unit)
		s.Equal(spell.RangeUnitFt, *res.Unit)
		s.Require().NotNil(res.Distance)
		s.Equal(spell.ScalarModePerLevel, res.Distance.Mode)
		s.Require().NotNil(res.Distance.Value)
		s.Equal(100.0, *res.Distance.Value)
		s.Require().NotNil(res.Distance.PerLevel)
		s.Equal(10.0, *res.Distance.PerLevel)
	})

	s.Run("mixed units fall back but keep context", func() {
		res := s.parser.ParseRange("10 yards + 5 ft/level (LOS) from caster")
		s.Equal(spell.RangeKindSpecial, res.Kind)
		s.Equal([]spell.RangeContext{spell.RangeContextLos}, res.Requires)
		s.Require().NotNil(res.Anchor)
		s.Equal(spell.RangeAnchorCaster, *res.Anchor)
		s.Require().NotNil(res.Notes)
		s.Contains(*res.Notes, "10 yards + 5 ft/level")
	})

	s.Run("unrecognized text preserved in notes", func() {
		res := s.parser.ParseRange("as far as the raven flies")
		s.Equal(spell.RangeKindSpecial, res.Kind)
		s.Require().NotNil(res.Notes)
		s.Equal("as far as the raven flies", *res.Notes)
	})
}

func (s *ParserSuite) TestParseDuration() {
	s.Run("keywords", func() {
		s.Equal(spell.DurationKindInstant, s.parser.ParseDuration("Instantaneous").Kind)
		s.Equal(spell.DurationKindPermanent, s.parser.ParseDuration("Permanent").Kind)
		s.Equal(spell.DurationKindConcentration, s.parser.ParseDuration("Concentration").Kind)
		s.Equal(spell.DurationKindUntilDispelled, s.parser.ParseDuration("Until dispelled").Kind)
	})

	s.Run("fixed time", func() {
		res := s.parser.ParseDuration("3 rounds")
		s.Equal(spell.DurationKindTime, res.Kind)
		s.Require().NotNil(res.Unit)
		s.Equal(spell.DurationUnitRound, *res.Unit)
		s.Require().NotNil(res.Duration)
		s.Require().NotNil(res.Duration.Value)
		s.Equal(3.0, *res.Duration.Value)
	})

	s.Run("per level pins base to zero", func() {
		res := s.parser.ParseDuration("1 round/level")
		s.Equal(spell.DurationKindTime, res.Kind)
		s.Require().NotNil(res.Duration)
		s.Equal(spell.ScalarModePerLevel, res.Duration.Mode)
		s.Require().NotNil(res.Duration.Value)
		s.Equal(0.0, *res.Duration.Value)
		s.Require().NotNil(res.Duration.PerLevel)
		s.Equal(1.0, *res.Duration.PerLevel)
	})

	s.Run("level divisor", func() {
		res := s.parser.ParseDuration("1 round / 2 levels")
		s.Equal(spell.DurationKindTime, res.Kind)
		s.Require().NotNil(res.Unit)
		s.Equal(spell.DurationUnitRound, *res.Unit)
		s.Require().NotNil(res.Duration)
		s.Equal(spell.ScalarModePerLevel, res.Duration.Mode)
		s.Require().NotNil(res.Duration.Value)
		s.Equal(0.0, *res.Duration.Value)
		s.Require().NotNil(res.Duration.PerLevel)
		s.Equal(0.5, *res.Duration.PerLevel)
	})

	s.Run("dual duration keeps discharge condition", func() {
		res := s.parser.ParseDuration("1 round/level or until discharged")
		s.Equal(spell.DurationKindTime, res.Kind)
		s.Require().NotNil(res.Condition)
		s.Equal("discharged", *res.Condition)
	})

	s.Run("usage limited", func() {
		res := s.parser.ParseDuration("3 charges")
		s.Equal(spell.DurationKindUsageLimited, res.Kind)
		s.Require().NotNil(res.Uses)
		s.Require().NotNil(res.Uses.Value)
		s.Equal(3.0, *res.Uses.Value)
	})

	s.Run("fallback preserves text", func() {
		res := s.parser.ParseDuration("as long as the candle burns")
		s.Equal(spell.DurationKindSpecial, res.Kind)
		s.Require().NotNil(res.Notes)
		s.Equal("as long as the candle burns", *res.Notes)
	})
}

func (s *ParserSuite) TestParseArea() {
	s.Run("empty means no area", func() {
		s.Nil(s.parser.ParseArea(""))
	})

	s.Run("radius", func() {
		res := s.parser.ParseArea("20 ft radius")
		s.Require().NotNil(res)
		s.Equal(spell.AreaKindRadiusCircle, res.Kind)
		s.Require().NotNil(res.Radius)
		s.Require().NotNil(res.Radius.Value)
		s.Equal(20.0, *res.Radius.Value)
	})

	s.Run("count of creatures", func() {
		res := s.parser.ParseArea("up to 3 creatures")
		s.Require().NotNil(res)
		s.Equal(spell.AreaKindCreatures, res.Kind)
		s.Require().NotNil(res.Count)
		s.Require().NotNil(res.Count.Value)
		s.Equal(3.0, *res.Count.Value)
	})

	s.Run("fallback preserves text", func() {
		res := s.parser.ParseArea("one village and its surroundings")
		s.Require().NotNil(res)
		s.Equal(spell.AreaKindSpecial, res.Kind)
		s.Require().NotNil(res.Notes)
	})
}

func (s *ParserSuite) TestParseComponents() {
	s.Run("token matching never substring matches", func() {
		res := s.parser.ParseComponents("Somatic")
		s.True(res.Somatic)
		s.False(res.Material)
		s.False(res.Verbal)
	})

	s.Run("abbreviations", func() {
		res := s.parser.ParseComponents("V, S, M")
		s.True(res.Verbal)
		s.True(res.Somatic)
		s.True(res.Material)
		s.False(res.DivineFocus)
	})

	s.Run("divine focus is one token", func() {
		res := s.parser.ParseComponents("V, S, Divine Focus")
		s.True(res.Verbal)
		s.True(res.Somatic)
		s.True(res.DivineFocus)
		s.False(res.Focus)
	})

	s.Run("experience flag", func() {
		s.True(s.parser.ParseComponents("V, S, XP").Experience)
	})
}

func (s *ParserSuite) TestParseCastingTime() {
	s.Run("numeric base with keyword unit", func() {
		res := s.parser.ParseCastingTime("3 segments")
		s.Equal(spell.CastingTimeUnitSegment, res.Unit)
		s.Require().NotNil(res.BaseValue)
		s.Equal(3.0, *res.BaseValue)
	})

	s.Run("rounds", func() {
		res := s.parser.ParseCastingTime("1 round")
		s.Equal(spell.CastingTimeUnitRound, res.Unit)
	})

	s.Run("fallback is special", func() {
		res := s.parser.ParseCastingTime("until the stars align")
		s.Equal(spell.CastingTimeUnitSpecial, res.Unit)
		s.Equal("until the stars align", res.Text)
	})
}

func (s *ParserSuite) TestParseMaterialComponents() {
	s.Run("none means empty list", func() {
		s.Empty(s.parser.ParseMaterialComponents("None"))
	})

	s.Run("gp value and consumed flag extracted", func() {
		res := s.parser.ParseMaterialComponents("a pinch of sulfur, a ruby worth 500 gp (consumed)")
		s.Require().Len(res, 2)

		s.Equal("a pinch of sulfur", res[0].Name)
		s.Nil(res[0].GpValue)
		s.Require().NotNil(res[0].IsConsumed)
		s.False(*res[0].IsConsumed)

		s.Require().NotNil(res[1].GpValue)
		s.Equal(500.0, *res[1].GpValue)
		s.Require().NotNil(res[1].IsConsumed)
		s.True(*res[1].IsConsumed)
	})

	s.Run("commas inside parentheses do not split", func() {
		res := s.parser.ParseMaterialComponents("powdered gemstone (ruby, sapphire)")
		s.Require().Len(res, 1)
		s.Equal("powdered gemstone (ruby, sapphire)", res[0].Name)
	})
}

func (s *ParserSuite) TestParseDamage() {
	s.Run("none", func() {
		s.Equal(spell.DamageKindNone, s.parser.ParseDamage("None").Kind)
	})

	s.Run("per level dice with cap and half save", func() {
		res := s.parser.ParseDamage("1d6/level (max 10d6) fire damage (half save)")
		s.Equal(spell.DamageKindModeled, res.Kind)
		s.Require().Len(res.Parts, 1)

		part := res.Parts[0]
		s.Equal("part_1", part.ID)
		s.Equal(spell.DamageTypeFire, part.DamageType)
		s.Require().Len(part.Base.Terms, 1)
		s.Equal(0, part.Base.Terms[0].Count)
		s.Equal(6, part.Base.Terms[0].Sides)

		s.Require().Len(part.Scaling, 1)
		rule := part.Scaling[0]
		s.Equal(spell.ScalingKindAddDicePerStep, rule.Kind)
		s.Equal(spell.ScalingDriverCasterLevel, rule.Driver)
		s.Equal(1, rule.Step)
		s.Require().NotNil(rule.DiceIncrement)
		s.Equal(1, rule.DiceIncrement.Count)
		s.Equal(6, rule.DiceIncrement.Sides)
		s.Require().NotNil(rule.MaxSteps)
		s.Equal(10, *rule.MaxSteps)

		s.Equal(spell.DamageSaveKindHalf, part.Save.Kind)
	})

	s.Run("flat modifier", func() {
		res := s.parser.ParseDamage("1d4+1 force")
		s.Require().Len(res.Parts, 1)
		part := res.Parts[0]
		s.Equal(spell.DamageTypeForce, part.DamageType)
		s.Require().Len(part.Base.Terms, 1)
		s.Equal(1, part.Base.Terms[0].Count)
		s.Equal(4, part.Base.Terms[0].Sides)
		s.Equal(1, part.Base.FlatModifier)
	})

	s.Run("multi part split", func() {
		res := s.parser.ParseDamage("1d6 fire and 1d6 cold")
		s.Require().Len(res.Parts, 2)
		s.Equal(spell.DamageCombineModeSum, res.CombineMode)
		s.Equal(spell.DamageTypeFire, res.Parts[0].DamageType)
		s.Equal(spell.DamageTypeCold, res.Parts[1].DamageType)
	})

	s.Run("per round application with ticks", func() {
		res := s.parser.ParseDamage("1d4 acid for 3 rounds")
		s.Require().Len(res.Parts, 1)
		app := res.Parts[0].Application
		s.Equal(spell.ApplicationScopePerRound, app.Scope)
		s.Equal(3, app.Ticks)
	})

	s.Run("prose without dice is dm adjudicated", func() {
		res := s.parser.ParseDamage("as the DM sees fit")
		s.Equal(spell.DamageKindDmAdjudicated, res.Kind)
		s.Require().NotNil(res.DmGuidance)
		s.Equal("as the DM sees fit", *res.DmGuidance)
	})
}

func (s *ParserSuite) TestParseSavingThrow() {
	s.Run("none", func() {
		res := s.parser.ParseSavingThrow("None")
		s.Equal(spell.SavingThrowKindNone, res.Kind)
	})

	s.Run("half reduces effect on success", func() {
		res := s.parser.ParseSavingThrow("Half")
		s.Equal(spell.SavingThrowKindSingle, res.Kind)
		s.Require().NotNil(res.Single)
		s.Equal(spell.SaveResultReducedEffect, res.Single.OnSuccess.Result)
	})

	s.Run("negates means no effect on success", func() {
		res := s.parser.ParseSavingThrow("Negates")
		s.Require().NotNil(res.Single)
		s.Equal(spell.SaveResultNoEffect, res.Single.OnSuccess.Result)
		s.Equal(spell.SaveResultFullEffect, res.Single.OnFailure.Result)
	})

	s.Run("category name with commas stays one save", func() {
		res := s.parser.ParseSavingThrow("Rod, Staff, or Wand")
		s.Equal(spell.SavingThrowKindSingle, res.Kind)
		s.Require().NotNil(res.Single)
		s.Equal(spell.SaveTypeRodStaffWand, res.Single.SaveType)
	})

	s.Run("distinct saves become a multiple list in order", func() {
		res := s.parser.ParseSavingThrow("Spell and Breath")
		s.Equal(spell.SavingThrowKindMultiple, res.Kind)
		s.Require().Len(res.Multiple, 2)
		s.Equal(spell.SaveTypeSpell, res.Multiple[0].SaveType)
		s.Equal(spell.SaveTypeBreathWeapon, res.Multiple[1].SaveType)
		s.Equal(spell.SaveVsBreath, res.Multiple[1].SaveVs)
	})

	s.Run("modifier extracted", func() {
		res := s.parser.ParseSavingThrow("Poison at -2")
		s.Require().NotNil(res.Single)
		s.Equal(spell.SaveTypeParalyzationPoisonDeath, res.Single.SaveType)
		s.Equal(spell.SaveVsPoison, res.Single.SaveVs)
		s.Equal(-2, res.Single.Modifier)
	})
}

func (s *ParserSuite) TestParseMagicResistance() {
	s.Run("empty and none bypass resistance", func() {
		s.Equal(spell.MagicResistanceKindIgnoresMr, s.parser.ParseMagicResistance("").Kind)
		s.Equal(spell.MagicResistanceKindIgnoresMr, s.parser.ParseMagicResistance("None").Kind)
	})

	s.Run("standard is normal", func() {
		res := s.parser.ParseMagicResistance("Yes")
		s.Equal(spell.MagicResistanceKindNormal, res.Kind)
	})

	s.Run("special keeps the rule text", func() {
		res := s.parser.ParseMagicResistance("Special (see below)")
		s.Equal(spell.MagicResistanceKindSpecial, res.Kind)
		s.Require().NotNil(res.SpecialRule)
		s.Equal("Special (see below)", *res.SpecialRule)
	})

	s.Run("partial scoped to damage", func() {
		res := s.parser.ParseMagicResistance("Partial (damage only)")
		s.Equal(spell.MagicResistanceKindPartial, res.Kind)
		s.Require().NotNil(res.Partial)
		s.Equal(spell.MrPartialScopeDamageOnly, res.Partial.Scope)
	})
}

func (s *ParserSuite) TestParseExperienceCost() {
	s.Run("none", func() {
		s.Equal(spell.ExperienceKindNone, s.parser.ParseExperienceCost("None").Kind)
	})

	s.Run("fixed with comma grouping", func() {
		res := s.parser.ParseExperienceCost("1,000 XP")
		s.Equal(spell.ExperienceKindFixed, res.Kind)
		s.Require().NotNil(res.AmountXp)
		s.Equal(1000, *res.AmountXp)
	})

	s.Run("per level", func() {
		res := s.parser.ParseExperienceCost("100 XP per level")
		s.Equal(spell.ExperienceKindPerUnit, res.Kind)
		s.Require().NotNil(res.PerUnit)
		s.Equal(100, res.PerUnit.XpPerUnit)
		s.Equal(spell.UnitKindSpellLevel, res.PerUnit.UnitKind)
	})

	s.Run("special is dm adjudicated", func() {
		res := s.parser.ParseExperienceCost("Special")
		s.Equal(spell.ExperienceKindDmAdjudicated, res.Kind)
	})
}

func (s *ParserSuite) TestConvertRow() {
	s.Run("full row converts and normalizes", func() {
		row := &spell.LegacySpellRow{
			ID:          7,
			Name:        "  Fireball  ",
			School:      spell.String("Evocation"),
			ClassList:   spell.String(`["Wizard","Sorcerer"]`),
			Level:       3,
			Range:       spell.String("10 yards + 10 yards/level"),
			Components:  spell.String("V, S, M"),
			CastingTime: spell.String("3 segments"),
			Duration:    spell.String("Instantaneous"),
			Area:        spell.String("20 ft radius"),
			Damage:      spell.String("1d6/level (max 10d6) fire damage (half save)"),
			SavingThrow: spell.String("Half"),
			Description: "A burst of flame.",
			Source:      spell.String("PHB"),
		}

		out, report, err := s.parser.ConvertRow(row)
		s.Require().NoError(err)
		s.Empty(report.Fallbacks)

		s.Equal("Fireball", out.Name)
		s.Equal(spell.TraditionArcane, out.Tradition)
		s.Equal([]string{"Sorcerer", "Wizard"}, out.ClassList)
		s.Equal(spell.DefaultVersion, out.Version)
		s.Require().NotNil(out.Range)
		s.Equal(spell.RangeKindDistance, out.Range.Kind)
		s.Require().NotNil(out.Damage)
		s.Equal(spell.DamageKindModeled, out.Damage.Kind)
		s.Require().Len(out.SourceRefs, 1)
		s.Equal("PHB", out.SourceRefs[0].Book)
	})

	s.Run("experience cost sets the component flag", func() {
		row := &spell.LegacySpellRow{
			Name:           "Wish",
			School:         spell.String("Conjuration"),
			Level:          9,
			Components:     spell.String("V"),
			ExperienceCost: spell.String("5,000 XP"),
			Description:    "Alters reality.",
		}

		out, _, err := s.parser.ConvertRow(row)
		s.Require().NoError(err)
		s.Require().NotNil(out.Components)
		s.True(out.Components.Experience)
		s.Require().NotNil(out.ExperienceCost)
		s.Equal(spell.ExperienceKindFixed, out.ExperienceCost.Kind)
	})

	s.Run("fallbacks are tallied per domain", func() {
		row := &spell.LegacySpellRow{
			Name:        "Oddity",
			Sphere:      spell.String("All"),
			Level:       1,
			Range:       spell.String("somewhere over the rainbow"),
			Duration:    spell.String("as long as the candle burns"),
			Description: "Strange.",
		}

		out, report, err := s.parser.ConvertRow(row)
		s.Require().NoError(err)
		s.Equal(spell.TraditionDivine, out.Tradition)
		s.ElementsMatch([]string{parsing.DomainRange, parsing.DomainDuration}, report.Fallbacks)
	})

	s.Run("missing school and sphere is fatal", func() {
		row := &spell.LegacySpellRow{Name: "Orphan", Level: 1, Description: "?"}

		_, _, err := s.parser.ConvertRow(row)
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})
}

func TestParserSuite(t *testing.T) {
	suite.Run(t, new(ParserSuite))
}
