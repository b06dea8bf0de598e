package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
)

// DurationParser extracts a DurationSpec from a legacy free-text
// duration.
type DurationParser struct {
	simpleRe  *regexp.Regexp
	divisorRe *regexp.Regexp
	usageRe   *regexp.Regexp
}

// NewDurationParser compiles the duration patterns.
func NewDurationParser() *DurationParser {
	return &DurationParser{
		simpleRe:  regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*([a-z.]+)$`),
		divisorRe: regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*([a-z.]+)\s*/\s*(\d+)\s*levels?$`),
		// "6 uses", "1 charge/level", "3 strikes"
		usageRe: regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(?:/level)?\s*(uses?|charges?|activations?|strikes?|discharges?)(?:\s*/level)?$`),
	}
}

func mapDurationUnit(raw string) (spell.DurationUnit, bool) {
	switch strings.ToLower(raw) {
	case "round", "rounds":
		return spell.DurationUnitRound, true
	case "turn", "turns":
		return spell.DurationUnitTurn, true
	case "minute", "minutes", "min", "min.":
		return spell.DurationUnitMinute, true
	case "hour", "hours", "hr", "hr.":
		return spell.DurationUnitHour, true
	case "day", "days":
		return spell.DurationUnitDay, true
	case "week", "weeks":
		return spell.DurationUnitWeek, true
	case "month", "months":
		return spell.DurationUnitMonth, true
	case "year", "years":
		return spell.DurationUnitYear, true
	case "segment", "segments":
		return spell.DurationUnitSegment, true
	default:
		return "", false
	}
}

// Parse converts legacy duration text into a DurationSpec.
func (p *DurationParser) Parse(input string) *spell.DurationSpec {
	clean := strings.TrimSpace(input)
	lower := strings.ToLower(clean)

	switch lower {
	case "instantaneous", "instant":
		return &spell.DurationSpec{Kind: spell.DurationKindInstant}
	case "permanent":
		return &spell.DurationSpec{Kind: spell.DurationKindPermanent}
	case "concentration":
		return &spell.DurationSpec{Kind: spell.DurationKindConcentration}
	case "until dispelled":
		return &spell.DurationSpec{Kind: spell.DurationKindUntilDispelled}
	case "dismissible", "(dismissible)":
		return &spell.DurationSpec{
			Kind:  spell.DurationKindSpecial,
			Notes: spell.String("Dismissible"),
		}
	case "special":
		return &spell.DurationSpec{
			Kind:  spell.DurationKindSpecial,
			Notes: spell.String("Special"),
		}
	}

	if strings.HasPrefix(lower, "until triggered") {
		cond := "triggered"
		if len(clean) > len("until triggered") {
			cond = strings.TrimSpace(strings.Trim(strings.TrimSpace(clean[len("until triggered"):]), "()"))
		}
		return &spell.DurationSpec{
			Kind:      spell.DurationKindUntilTriggered,
			Condition: spell.String(cond),
		}
	}

	if strings.HasPrefix(lower, "planar") {
		cond := "planar presence"
		if len(clean) > len("planar") {
			cond = strings.TrimSpace(strings.Trim(strings.TrimSpace(clean[len("planar"):]), "()"))
		}
		return &spell.DurationSpec{
			Kind:      spell.DurationKindPlanar,
			Condition: spell.String(cond),
		}
	}

	if strings.HasPrefix(lower, "until ") {
		return &spell.DurationSpec{
			Kind:      spell.DurationKindConditional,
			Condition: spell.String(clean[len("until "):]),
		}
	}

	if caps := p.usageRe.FindStringSubmatch(lower); caps != nil {
		val, err := strconv.ParseFloat(caps[1], 64)
		if err != nil {
			val = 1
		}
		var uses *spell.Scalar
		if strings.Contains(lower, "/level") {
			uses = spell.PerLevelScalar(val)
		} else {
			uses = spell.FixedScalar(val)
		}
		return &spell.DurationSpec{Kind: spell.DurationKindUsageLimited, Uses: uses}
	}

	// Dual duration: "1 round/level or until discharged"
	var condition *string
	target := clean
	if idx := strings.Index(lower, " or until "); idx >= 0 {
		target = clean[:idx]
		condition = spell.String(clean[idx+len(" or until "):])
		lower = strings.ToLower(target)
	} else if idx := strings.Index(lower, " until "); idx >= 0 {
		target = clean[:idx]
		condition = spell.String(clean[idx+len(" until "):])
		lower = strings.ToLower(target)
	}

	// "1 round / 2 levels"
	if caps := p.divisorRe.FindStringSubmatch(strings.TrimSpace(target)); caps != nil {
		perLevel, _ := strconv.ParseFloat(caps[1], 64)
		divisor, _ := strconv.ParseFloat(caps[3], 64)
		if unit, ok := mapDurationUnit(caps[2]); ok {
			if divisor > 0 {
				perLevel /= divisor
			}
			// Base is pinned to an explicit zero so lean and
			// explicit forms agree.
			scalar := spell.PerLevelScalar(perLevel)
			scalar.Value = spell.Float(0)
			return &spell.DurationSpec{
				Kind:      spell.DurationKindTime,
				Unit:      &unit,
				Duration:  scalar,
				Condition: condition,
			}
		}
	}

	// "1 round/level", tolerant of spaces around the slash
	simplified := strings.ReplaceAll(strings.ReplaceAll(lower, " /", "/"), "/ ", "/")
	if strings.Contains(simplified, "/level") {
		first := strings.SplitN(simplified, "/level", 2)[0]
		if caps := p.simpleRe.FindStringSubmatch(strings.TrimSpace(first)); caps != nil {
			perLevel, _ := strconv.ParseFloat(caps[1], 64)
			if unit, ok := mapDurationUnit(caps[2]); ok {
				// Base is pinned to an explicit zero so lean and
				// explicit forms agree.
				scalar := spell.PerLevelScalar(perLevel)
				scalar.Value = spell.Float(0)
				return &spell.DurationSpec{
					Kind:      spell.DurationKindTime,
					Unit:      &unit,
					Duration:  scalar,
					Condition: condition,
				}
			}
		}
	}

	if caps := p.simpleRe.FindStringSubmatch(strings.TrimSpace(target)); caps != nil {
		base, _ := strconv.ParseFloat(caps[1], 64)
		if unit, ok := mapDurationUnit(caps[2]); ok {
			return &spell.DurationSpec{
				Kind:      spell.DurationKindTime,
				Unit:      &unit,
				Duration:  spell.FixedScalar(base),
				Condition: condition,
			}
		}
	}

	return &spell.DurationSpec{
		Kind:  spell.DurationKindSpecial,
		Notes: spell.String(input),
	}
}
