package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
)

// RangeParser extracts a RangeSpec from a legacy free-text range.
// Parsing never fails: unrecognized text falls back to the special kind
// with the original text preserved.
type RangeParser struct {
	simpleRe   *regexp.Regexp
	variableRe *regexp.Regexp
	perLevelRe *regexp.Regexp
	anchorRe   *regexp.Regexp
	regionRe   *regexp.Regexp
}

// NewRangeParser compiles the range patterns.
func NewRangeParser() *RangeParser {
	return &RangeParser{
		// "10 yards", "60.5 ft.", "10'"
		simpleRe: regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*([a-z.'"]+)$`),
		// "10 yards + 5/level", "100 ft. + 10 ft./level"
		variableRe: regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*([a-z.'"]+)?\s*\+\s*(\d+(?:\.\d+)?)(?:\s*([a-z.'"]+))?/level(?:\s*([a-z.'"]+))?$`),
		// "5 ft/level", "5/level yards"
		perLevelRe: regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*([a-z.'"]+)?\s*/\s*level(?:\s*([a-z.'"]+))?$`),
		anchorRe:   regexp.MustCompile(`(?i)(?:from|centered on)\s+(caster|target|object|fixed|self|point of impact)`),
		regionRe:   regexp.MustCompile(`(?i)\((structure|building|bridge|ship|fortress|region|domain|demiplane|plane)\)`),
	}
}

var rangeKeywords = map[string]spell.RangeKind{
	"personal":           spell.RangeKindPersonal,
	"0":                  spell.RangeKindPersonal,
	"self":               spell.RangeKindPersonal,
	"touch":              spell.RangeKindTouch,
	"unlimited":          spell.RangeKindUnlimited,
	"sight":              spell.RangeKindSight,
	"hearing":            spell.RangeKindHearing,
	"voice":              spell.RangeKindVoice,
	"senses":             spell.RangeKindSenses,
	"sensory":            spell.RangeKindSenses,
	"room":               spell.RangeKindSameRoom,
	"same room":          spell.RangeKindSameRoom,
	"same_room":          spell.RangeKindSameRoom,
	"structure":          spell.RangeKindSameStructure,
	"same structure":     spell.RangeKindSameStructure,
	"same_structure":     spell.RangeKindSameStructure,
	"dungeon level":      spell.RangeKindSameDungeonLevel,
	"same dungeon level": spell.RangeKindSameDungeonLevel,
	"same_dungeon_level": spell.RangeKindSameDungeonLevel,
	"wilderness":         spell.RangeKindWilderness,
	"plane":              spell.RangeKindSamePlane,
	"same plane":         spell.RangeKindSamePlane,
	"same_plane":         spell.RangeKindSamePlane,
	"interplanar":        spell.RangeKindInterplanar,
	"anywhere on plane":  spell.RangeKindAnywhereOnPlane,
	"anywhere_on_plane":  spell.RangeKindAnywhereOnPlane,
	"domain":             spell.RangeKindDomain,
	"los":                spell.RangeKindLos,
}

var regionUnits = map[string]spell.RegionUnit{
	"object":    spell.RegionUnitObject,
	"structure": spell.RegionUnitStructure,
	"building":  spell.RegionUnitBuilding,
	"bridge":    spell.RegionUnitBridge,
	"ship":      spell.RegionUnitShip,
	"fortress":  spell.RegionUnitFortress,
	"region":    spell.RegionUnitRegion,
	"domain":    spell.RegionUnitDomain,
	"demiplane": spell.RegionUnitDemiplane,
	"plane":     spell.RegionUnitPlane,
}

func mapRangeUnit(raw string) (spell.RangeUnit, bool) {
	switch strings.ToLower(raw) {
	case "foot", "feet", "ft.", "ft", "'":
		return spell.RangeUnitFt, true
	case "yard", "yd.", "yd", "yards":
		return spell.RangeUnitYd, true
	case "mile", "mi.", "mi", "miles":
		return spell.RangeUnitMi, true
	case "inch", "in.", "in", "inches", `"`:
		return spell.RangeUnitInch, true
	default:
		return "", false
	}
}

// Parse converts legacy range text into a RangeSpec.
func (p *RangeParser) Parse(input string) *spell.RangeSpec {
	clean := strings.TrimSpace(input)
	if clean == "" {
		return &spell.RangeSpec{Kind: spell.RangeKindSpecial}
	}

	lower := strings.ToLower(clean)
	var requires []spell.RangeContext
	var anchor *spell.RangeAnchor
	var regionUnit *spell.RegionUnit

	if caps := p.anchorRe.FindStringSubmatch(lower); caps != nil {
		switch caps[1] {
		case "caster", "self":
			a := spell.RangeAnchorCaster
			anchor = &a
		case "target":
			a := spell.RangeAnchorTarget
			anchor = &a
		case "object":
			a := spell.RangeAnchorObject
			anchor = &a
		case "fixed", "point of impact":
			a := spell.RangeAnchorFixed
			anchor = &a
		}
		lower = strings.TrimSpace(strings.Replace(lower, caps[0], "", 1))
	}

	if caps := p.regionRe.FindStringSubmatch(lower); caps != nil {
		if u, ok := regionUnits[caps[1]]; ok {
			regionUnit = &u
		}
		lower = strings.TrimSpace(strings.Replace(lower, caps[0], "", 1))
	}

	var forceKind spell.RangeKind
	switch {
	case strings.Contains(lower, "(los)") || strings.Contains(lower, "line of sight"):
		requires = append(requires, spell.RangeContextLos)
		forceKind = spell.RangeKindDistanceLos
		lower = strings.ReplaceAll(lower, "(los)", "")
		lower = strings.TrimSpace(strings.ReplaceAll(lower, "line of sight", ""))
	case strings.Contains(lower, "(loe)") || strings.Contains(lower, "line of effect"):
		requires = append(requires, spell.RangeContextLoe)
		forceKind = spell.RangeKindDistanceLoe
		lower = strings.ReplaceAll(lower, "(loe)", "")
		lower = strings.TrimSpace(strings.ReplaceAll(lower, "line of effect", ""))
	}

	res := p.parseStripped(lower, clean, forceKind, requires, anchor, regionUnit)
	res.Text = spell.String(clean)
	return res
}

func (p *RangeParser) parseStripped(
	stripped, original string,
	forceKind spell.RangeKind,
	requires []spell.RangeContext,
	anchor *spell.RangeAnchor,
	regionUnit *spell.RegionUnit,
) *spell.RangeSpec {
	base := func(kind spell.RangeKind) *spell.RangeSpec {
		return &spell.RangeSpec{
			Kind:       kind,
			Requires:   requires,
			Anchor:     anchor,
			RegionUnit: regionUnit,
		}
	}

	if stripped == "" {
		switch forceKind {
		case spell.RangeKindDistanceLos:
			return base(spell.RangeKindLos)
		case spell.RangeKindDistanceLoe:
			return base(spell.RangeKindLoe)
		default:
			return base(spell.RangeKindSpecial)
		}
	}

	if kind, ok := rangeKeywords[stripped]; ok {
		return base(kind)
	}

	distanceKind := spell.RangeKindDistance
	if forceKind != "" {
		distanceKind = forceKind
	}

	// Variable scaling: "10 yards + 5/level"
	if caps := p.variableRe.FindStringSubmatch(stripped); caps != nil {
		baseVal, _ := strconv.ParseFloat(caps[1], 64)
		perLevel, _ := strconv.ParseFloat(caps[3], 64)
		unit1Raw := caps[2]
		unitRaw := caps[4]
		if unitRaw == "" {
			unitRaw = caps[5]
		}
		if unitRaw == "" {
			unitRaw = unit1Raw
		}

		u1, ok1 := mapRangeUnit(unit1Raw)
		u2, ok2 := mapRangeUnit(unitRaw)
		if ok1 && ok2 && u1 != u2 {
			// Mixed units cannot be represented as one scalar.
			return &spell.RangeSpec{
				Kind:       spell.RangeKindSpecial,
				Requires:   requires,
				Anchor:     anchor,
				RegionUnit: regionUnit,
				Notes:      spell.String(original),
			}
		}
		unit := u2
		ok := ok2
		if !ok {
			unit, ok = u1, ok1
		}
		if ok {
			mode := spell.ScalarModeFixed
			if perLevel != 0 {
				mode = spell.ScalarModePerLevel
			}
			res := base(distanceKind)
			res.Unit = &unit
			res.Distance = &spell.Scalar{
				Mode:     mode,
				Value:    spell.Float(baseVal),
				PerLevel: spell.Float(perLevel),
			}
			return res
		}
	}

	// Per-level only: "5 ft/level"
	if caps := p.perLevelRe.FindStringSubmatch(stripped); caps != nil {
		perLevel, _ := strconv.ParseFloat(caps[1], 64)
		unitRaw := caps[2]
		if unitRaw == "" {
			unitRaw = caps[3]
		}
		if unit, ok := mapRangeUnit(unitRaw); ok {
			res := base(distanceKind)
			res.Unit = &unit
			res.Distance = spell.PerLevelScalar(perLevel)
			return res
		}
	}

	// Simple: "10 yards"
	if caps := p.simpleRe.FindStringSubmatch(stripped); caps != nil {
		baseVal, _ := strconv.ParseFloat(caps[1], 64)
		if unit, ok := mapRangeUnit(caps[2]); ok {
			res := base(distanceKind)
			res.Unit = &unit
			res.Distance = spell.FixedScalar(baseVal)
			return res
		}
	}

	res := base(spell.RangeKindSpecial)
	res.Notes = spell.String(original)
	return res
}
