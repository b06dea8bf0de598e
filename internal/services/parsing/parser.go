// Package parsing converts legacy free-text spell attributes into
// strongly typed canonical specs. Every parser is pure and total:
// unrecognized input degrades to a special/unknown kind carrying the
// original text, never an error.
package parsing

import (
	"github.com/KirkDiggler/spellbook/internal/canonical"
	"github.com/KirkDiggler/spellbook/internal/entities/spell"
	"github.com/KirkDiggler/spellbook/internal/errors"
)

// Parse-fallback domains reported by ConvertRow.
const (
	DomainRange           = "range"
	DomainDuration        = "duration"
	DomainArea            = "area"
	DomainDamage          = "damage"
	DomainSavingThrow     = "saving_throw"
	DomainMagicResistance = "magic_resistance"
	DomainExperienceCost  = "experience_cost"
	DomainCastingTime     = "casting_time"
)

// Parser composes the individual attribute parsers.
type Parser struct {
	ranges     *RangeParser
	durations  *DurationParser
	areas      *AreaParser
	components *ComponentsParser
	mechanics  *MechanicsParser
}

// New builds a Parser with all patterns compiled.
func New() *Parser {
	return &Parser{
		ranges:     NewRangeParser(),
		durations:  NewDurationParser(),
		areas:      NewAreaParser(),
		components: NewComponentsParser(),
		mechanics:  NewMechanicsParser(),
	}
}

// ParseRange parses a legacy range string.
func (p *Parser) ParseRange(input string) *spell.RangeSpec { return p.ranges.Parse(input) }

// ParseDuration parses a legacy duration string.
func (p *Parser) ParseDuration(input string) *spell.DurationSpec { return p.durations.Parse(input) }

// ParseArea parses a legacy area string. Empty input means no area.
func (p *Parser) ParseArea(input string) *spell.AreaSpec { return p.areas.Parse(input) }

// ParseComponents parses a legacy component string.
func (p *Parser) ParseComponents(input string) *spell.SpellComponents {
	return p.components.ParseComponents(input)
}

// ParseCastingTime parses a legacy casting time string.
func (p *Parser) ParseCastingTime(input string) *spell.SpellCastingTime {
	return p.components.ParseCastingTime(input)
}

// ParseMaterialComponents parses a legacy material component list.
func (p *Parser) ParseMaterialComponents(input string) []spell.MaterialComponentSpec {
	return p.components.ParseMaterialComponents(input)
}

// ParseDamage parses a legacy damage string.
func (p *Parser) ParseDamage(input string) *spell.SpellDamageSpec {
	return p.mechanics.ParseDamage(input)
}

// ParseSavingThrow parses a legacy saving throw string.
func (p *Parser) ParseSavingThrow(input string) *spell.SavingThrowSpec {
	return p.mechanics.ParseSavingThrow(input)
}

// ParseMagicResistance parses a legacy magic resistance string.
func (p *Parser) ParseMagicResistance(input string) *spell.MagicResistanceSpec {
	return p.mechanics.ParseMagicResistance(input)
}

// ParseExperienceCost parses a legacy experience cost string.
func (p *Parser) ParseExperienceCost(input string) *spell.ExperienceComponentSpec {
	return p.mechanics.ParseExperienceCost(input)
}

// ConversionReport records which attribute domains fell back to a
// special or DM-adjudicated form during one row's conversion.
type ConversionReport struct {
	Fallbacks []string
}

func (r *ConversionReport) add(domain string) {
	r.Fallbacks = append(r.Fallbacks, domain)
}

// ConvertRow turns one legacy row into a normalized CanonicalSpell.
// A missing school AND sphere is the only row-fatal condition; parse
// ambiguity is reported, never fatal.
func (p *Parser) ConvertRow(row *spell.LegacySpellRow) (*spell.CanonicalSpell, *ConversionReport, error) {
	if row == nil {
		return nil, nil, errors.InvalidArgument("row is required")
	}

	tradition, err := spell.DeriveTradition(row.School, row.Sphere)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "converting spell %q", row.Name)
	}
	schemaVersion, err := canonical.CurrentSchemaVersion()
	if err != nil {
		return nil, nil, err
	}

	report := &ConversionReport{}
	out := &spell.CanonicalSpell{
		SchemaVersion: schemaVersion,
		Name:          row.Name,
		Tradition:     tradition,
		School:        blankToNil(row.School),
		Sphere:        blankToNil(row.Sphere),
		ClassList:     spell.ParseStringList(row.ClassList),
		Level:         row.Level,
		Reversible:    row.Reversible,
		Description:   row.Description,
		Tags:          spell.ParseStringList(row.Tags),
		IsQuestSpell:  row.IsQuestSpell,
		IsCantrip:     row.IsCantrip,
		Edition:       blankToNil(row.Edition),
		Author:        blankToNil(row.Author),
		License:       blankToNil(row.License),
		Version:       spell.DefaultVersion,
	}
	if src := blankToNil(row.Source); src != nil {
		out.SourceRefs = []spell.SpellSourceRef{{Book: *src}}
	}

	if row.Range != nil {
		out.Range = p.ranges.Parse(*row.Range)
		if out.Range.Kind == spell.RangeKindSpecial && out.Range.Notes != nil {
			report.add(DomainRange)
		}
	}
	if row.Components != nil {
		out.Components = p.components.ParseComponents(*row.Components)
	}
	if row.MaterialComponents != nil {
		out.MaterialComponents = p.components.ParseMaterialComponents(*row.MaterialComponents)
	}
	if row.CastingTime != nil {
		out.CastingTime = p.components.ParseCastingTime(*row.CastingTime)
		if out.CastingTime.Unit == spell.CastingTimeUnitSpecial && out.CastingTime.Text != "" {
			report.add(DomainCastingTime)
		}
	}
	if row.Duration != nil {
		out.Duration = p.durations.Parse(*row.Duration)
		if out.Duration.Kind == spell.DurationKindSpecial && out.Duration.Notes != nil {
			report.add(DomainDuration)
		}
	}
	if row.Area != nil {
		out.Area = p.areas.Parse(*row.Area)
		if out.Area != nil && out.Area.Kind == spell.AreaKindSpecial && out.Area.Notes != nil {
			report.add(DomainArea)
		}
	}
	if row.Damage != nil {
		out.Damage = p.mechanics.ParseDamage(*row.Damage)
		if out.Damage.Kind == spell.DamageKindDmAdjudicated {
			report.add(DomainDamage)
		}
	}
	if row.SavingThrow != nil {
		out.SavingThrow = p.mechanics.ParseSavingThrow(*row.SavingThrow)
		if out.SavingThrow.Kind == spell.SavingThrowKindDmAdjudicated {
			report.add(DomainSavingThrow)
		}
	}
	if row.MagicResistance != nil {
		out.MagicResistance = p.mechanics.ParseMagicResistance(*row.MagicResistance)
		if out.MagicResistance.Kind == spell.MagicResistanceKindSpecial {
			report.add(DomainMagicResistance)
		}
	}
	if row.ExperienceCost != nil {
		out.ExperienceCost = p.mechanics.ParseExperienceCost(*row.ExperienceCost)
		if out.ExperienceCost.Kind == spell.ExperienceKindDmAdjudicated {
			report.add(DomainExperienceCost)
		}
	}

	out.Normalize()
	return out, report, nil
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
