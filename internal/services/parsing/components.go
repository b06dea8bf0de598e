package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
)

// ComponentsParser extracts component flags, casting times, and
// material component lists from legacy strings.
type ComponentsParser struct {
	gpValueRe     *regexp.Regexp
	consumedRe    *regexp.Regexp
	emptyParensRe *regexp.Regexp
}

// NewComponentsParser compiles the component patterns.
func NewComponentsParser() *ComponentsParser {
	return &ComponentsParser{
		// "worth 100 gp", "500gp"
		gpValueRe:     regexp.MustCompile(`(?i)(?:worth\s+)?(\d+(?:\.\d+)?)\s*gp`),
		consumedRe:    regexp.MustCompile(`(?i)\b(consumed|expended|destroyed)\b`),
		emptyParensRe: regexp.MustCompile(`\(\s*\)`),
	}
}

// ParseComponents tokenizes a legacy component string. Matching is per
// token, never substring: "Somatic" sets only the somatic flag.
func (p *ComponentsParser) ParseComponents(input string) *spell.SpellComponents {
	// "divine focus" is a two-word token.
	lower := strings.ReplaceAll(strings.ToLower(input), "divine focus", "divine-focus")
	parts := strings.FieldsFunc(lower, func(c rune) bool {
		return c == ',' || c == ';' || c == '+' || c == ' ' || c == '\t' || c == '\n' || c == '\r'
	})

	res := &spell.SpellComponents{}
	for _, part := range parts {
		switch strings.TrimSpace(part) {
		case "v", "verbal":
			res.Verbal = true
		case "s", "somatic":
			res.Somatic = true
		case "m", "material":
			res.Material = true
		case "f", "focus":
			res.Focus = true
		case "df", "divine-focus":
			res.DivineFocus = true
		case "e", "xp", "experience":
			res.Experience = true
		}
	}
	return res
}

// ParseCastingTime extracts a casting time. Keyword units win; anything
// else is special.
func (p *ComponentsParser) ParseCastingTime(input string) *spell.SpellCastingTime {
	clean := strings.TrimSpace(input)
	if clean == "" {
		return &spell.SpellCastingTime{Unit: spell.CastingTimeUnitSpecial}
	}

	lower := strings.ToLower(clean)
	baseVal := 1.0
	if fields := strings.Fields(clean); len(fields) > 0 {
		if v, err := strconv.ParseFloat(fields[0], 64); err == nil {
			baseVal = v
		}
	}

	keyword := func(unit spell.CastingTimeUnit) *spell.SpellCastingTime {
		return &spell.SpellCastingTime{
			Text:      input,
			Unit:      unit,
			BaseValue: spell.Float(baseVal),
		}
	}
	switch {
	case strings.Contains(lower, "bonus action"):
		return keyword(spell.CastingTimeUnitBonusAction)
	case strings.Contains(lower, "reaction"):
		return keyword(spell.CastingTimeUnitReaction)
	case strings.Contains(lower, "action"):
		return keyword(spell.CastingTimeUnitAction)
	case strings.Contains(lower, "segment"):
		return keyword(spell.CastingTimeUnitSegment)
	case strings.Contains(lower, "round"):
		return keyword(spell.CastingTimeUnitRound)
	case strings.Contains(lower, "minute"):
		return keyword(spell.CastingTimeUnitMinute)
	case strings.Contains(lower, "hour"):
		return keyword(spell.CastingTimeUnitHour)
	}

	return &spell.SpellCastingTime{
		Text:         input,
		Unit:         spell.CastingTimeUnitSpecial,
		BaseValue:    spell.Float(0),
		PerLevel:     spell.Float(0),
		LevelDivisor: spell.Float(1),
	}
}

// ParseMaterialComponents splits a legacy material list on commas
// outside parentheses and decomposes each item into name, gp value, and
// consumed flag.
func (p *ComponentsParser) ParseMaterialComponents(input string) []spell.MaterialComponentSpec {
	clean := strings.TrimSpace(input)
	if clean == "" || strings.EqualFold(clean, "none") {
		return []spell.MaterialComponentSpec{}
	}

	parts := splitOutsideParens(clean)
	results := make([]spell.MaterialComponentSpec, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		name := part
		var gpValue *float64
		isConsumed := false

		if caps := p.gpValueRe.FindStringSubmatch(part); caps != nil {
			if v, err := strconv.ParseFloat(caps[1], 64); err == nil {
				gpValue = spell.Float(v)
			}
			name = p.gpValueRe.ReplaceAllString(name, "")
		}
		if p.consumedRe.MatchString(part) {
			isConsumed = true
		}

		name = strings.TrimSpace(name)
		name = strings.TrimSpace(p.emptyParensRe.ReplaceAllString(name, ""))

		spec := spell.MaterialComponentSpec{
			Name:        name,
			Quantity:    spell.Float(1),
			GpValue:     gpValue,
			Description: spell.String(part),
		}
		if isConsumed {
			t := true
			spec.IsConsumed = &t
		} else {
			f := false
			spec.IsConsumed = &f
		}
		results = append(results, spec)
	}
	return results
}

// splitOutsideParens splits on commas that sit outside parentheses, so
// "powdered gemstone (ruby, sapphire)" stays one item.
func splitOutsideParens(input string) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	for _, r := range input {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(current.String()))
				current.Reset()
				continue
			}
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		parts = append(parts, strings.TrimSpace(current.String()))
	}
	return parts
}
