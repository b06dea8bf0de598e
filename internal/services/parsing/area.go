package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
)

// AreaParser extracts an AreaSpec from legacy free-text area strings.
// An empty input means the spell has no area and parses to nil.
type AreaParser struct {
	simpleRe   *regexp.Regexp
	variableRe *regexp.Regexp
	perLevelRe *regexp.Regexp
	multiRe    *regexp.Regexp
	countRe    *regexp.Regexp
	volumeRe   *regexp.Regexp
	tileRe     *regexp.Regexp
}

// NewAreaParser compiles the area patterns.
func NewAreaParser() *AreaParser {
	return &AreaParser{
		simpleRe:   regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*([a-z.'"-]+)?\s*([a-z._-]+)$`),
		variableRe: regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*([a-z.'"-]+)?\s*\+\s*(\d+(?:\.\d+)?)\s*([a-z.'"-]+)?/level\s*([a-z._-]+)$`),
		perLevelRe: regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*([a-z.'"-]+)?/level\s*([a-z._-]+)$`),
		// "20' by 10' wall", "10x10 rect", "20 ft. x 10 ft. x 5 ft. rect_prism"
		multiRe: regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(ft\.|ft|yards?|yd\.|mi|in\.|in|inches|'|")?\s*(?:by|x|×)\s*(\d+(?:\.\d+)?)\s*(ft\.|ft|yards?|yd\.|mi|in\.|in|inches|'|")?\s*(?:(?:by|x|×)\s*(\d+(?:\.\d+)?)\s*(ft\.|ft|yards?|yd\.|mi|in\.|in|inches|'|")?)?\s*([a-z._-]+)$`),
		// "1 creature/level", "up to 6 targets", "6 objects"
		countRe: regexp.MustCompile(`(?i)^(?:up\s+to\s+)?(\d+(?:\.\d+)?|1)\s*(?:/level)?\s*(creatures?|targets?|enemies?|allies?|objects?|undead|structures?)(?:\s*/level)?$`),
		// "1000 cubic feet", "500 cu. yd."
		volumeRe: regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(cubic|cu\.)\s*([a-z.'"-]+)$`),
		// "16 10ft. squares", "5 hexes"
		tileRe: regexp.MustCompile(`(?i)^(\d+)\s*(?:(\d+(?:\.\d+)?)\s*([a-z.'"-]+)\s*)?(squares?|hexes?|rooms?|floors?)$`),
	}
}

func mapAreaUnits(raw string) (*spell.AreaUnit, *spell.AreaShapeUnit) {
	au := func(u spell.AreaUnit) *spell.AreaUnit { return &u }
	su := func(u spell.AreaShapeUnit) *spell.AreaShapeUnit { return &u }
	switch strings.TrimPrefix(raw, "-") {
	case "foot", "ft.", "ft", "'", "feet":
		return au(spell.AreaUnitFt), su(spell.AreaShapeUnitFt)
	case "yard", "yards", "yd.", "yd":
		return au(spell.AreaUnitYd), su(spell.AreaShapeUnitYd)
	case "mile", "mi.", "mi":
		return au(spell.AreaUnitMi), su(spell.AreaShapeUnitMi)
	case "inch", "in.", "in", "inches", `"`:
		return au(spell.AreaUnitInch), su(spell.AreaShapeUnitInch)
	case "square", "sq.", "sq":
		return au(spell.AreaUnitSquare), nil
	case "ft2", "sq. ft.", "sq ft":
		return au(spell.AreaUnitFt2), su(spell.AreaShapeUnitFt)
	case "yd2", "sq. yd.", "sq yd":
		return au(spell.AreaUnitYd2), su(spell.AreaShapeUnitYd)
	case "ft3", "cu. ft.", "cu ft":
		return au(spell.AreaUnitFt3), su(spell.AreaShapeUnitFt)
	case "yd3", "cu. yd.", "cu yd":
		return au(spell.AreaUnitYd3), su(spell.AreaShapeUnitYd)
	case "hex", "hexes":
		return au(spell.AreaUnitHex), nil
	case "room", "rooms":
		return au(spell.AreaUnitRoom), nil
	case "floor", "floors":
		return au(spell.AreaUnitFloor), nil
	default:
		return nil, nil
	}
}

// Parse converts legacy area text into an AreaSpec, or nil when the
// spell has none.
func (p *AreaParser) Parse(input string) *spell.AreaSpec {
	clean := strings.TrimSpace(input)
	if clean == "" {
		return nil
	}
	lower := strings.ToLower(clean)

	if lower == "point" || lower == "point of impact" || lower == "point of contact" {
		ft := spell.AreaUnitFt
		sft := spell.AreaShapeUnitFt
		return &spell.AreaSpec{Kind: spell.AreaKindPoint, Unit: &ft, ShapeUnit: &sft}
	}

	if res := p.parseMulti(lower); res != nil {
		return res
	}
	if res := p.parseCount(lower); res != nil {
		return res
	}
	if res := p.parseVolume(lower); res != nil {
		return res
	}
	if res := p.parseTiles(lower); res != nil {
		return res
	}

	if caps := p.variableRe.FindStringSubmatch(lower); caps != nil {
		base, _ := strconv.ParseFloat(caps[1], 64)
		perLevel, _ := strconv.ParseFloat(caps[3], 64)
		unitRaw := caps[4]
		if unitRaw == "" {
			unitRaw = caps[2]
		}
		u, su := mapAreaUnits(unitRaw)
		scalar := &spell.Scalar{
			Mode:     spell.ScalarModePerLevel,
			Value:    spell.Float(base),
			PerLevel: spell.Float(perLevel),
		}
		return buildAreaShape(caps[5], scalar, u, su, input)
	}

	if caps := p.perLevelRe.FindStringSubmatch(lower); caps != nil {
		perLevel, _ := strconv.ParseFloat(caps[1], 64)
		u, su := mapAreaUnits(caps[2])
		return buildAreaShape(caps[3], spell.PerLevelScalar(perLevel), u, su, input)
	}

	if caps := p.simpleRe.FindStringSubmatch(lower); caps != nil {
		val, _ := strconv.ParseFloat(caps[1], 64)
		u, su := mapAreaUnits(caps[2])
		return buildAreaShape(caps[3], spell.FixedScalar(val), u, su, input)
	}

	return &spell.AreaSpec{Kind: spell.AreaKindSpecial, Notes: spell.String(input)}
}

func (p *AreaParser) parseMulti(lower string) *spell.AreaSpec {
	caps := p.multiRe.FindStringSubmatch(lower)
	if caps == nil {
		return nil
	}
	val1, _ := strconv.ParseFloat(caps[1], 64)
	val2, _ := strconv.ParseFloat(caps[3], 64)
	var val3 float64
	if caps[5] != "" {
		val3, _ = strconv.ParseFloat(caps[5], 64)
	}

	u1, su1 := mapAreaUnits(caps[2])
	_, su2 := mapAreaUnits(caps[4])
	_, su3 := mapAreaUnits(caps[6])

	unit := u1
	if unit == nil {
		ft := spell.AreaUnitFt
		unit = &ft
	}
	shapeUnit := su1
	if shapeUnit == nil {
		shapeUnit = su2
	}
	if shapeUnit == nil {
		shapeUnit = su3
	}
	if shapeUnit == nil {
		sft := spell.AreaShapeUnitFt
		shapeUnit = &sft
	}

	switch caps[7] {
	case "wall":
		res := &spell.AreaSpec{
			Kind:      spell.AreaKindWall,
			Unit:      unit,
			ShapeUnit: shapeUnit,
			Length:    spell.FixedScalar(val1),
			Height:    spell.FixedScalar(val2),
		}
		if val3 > 0 {
			res.Thickness = spell.FixedScalar(val3)
		}
		return res
	case "rect", "square":
		return &spell.AreaSpec{
			Kind:      spell.AreaKindRect,
			Unit:      unit,
			ShapeUnit: shapeUnit,
			Length:    spell.FixedScalar(val1),
			Width:     spell.FixedScalar(val2),
		}
	case "rect_prism":
		return &spell.AreaSpec{
			Kind:      spell.AreaKindRectPrism,
			Unit:      unit,
			ShapeUnit: shapeUnit,
			Length:    spell.FixedScalar(val1),
			Width:     spell.FixedScalar(val2),
			Height:    spell.FixedScalar(val3),
		}
	default:
		return nil
	}
}

func (p *AreaParser) parseCount(lower string) *spell.AreaSpec {
	caps := p.countRe.FindStringSubmatch(lower)
	if caps == nil {
		return nil
	}
	val, err := strconv.ParseFloat(caps[1], 64)
	if err != nil {
		val = 1
	}

	kind := spell.AreaKindCreatures
	if strings.HasPrefix(caps[2], "object") {
		kind = spell.AreaKindObjects
	}

	subject := spell.CountSubjectCreature
	switch caps[2] {
	case "undead":
		subject = spell.CountSubjectUndead
	case "ally", "allies":
		subject = spell.CountSubjectAlly
	case "enemy", "enemies":
		subject = spell.CountSubjectEnemy
	case "object", "objects":
		subject = spell.CountSubjectObject
	case "structure", "structures":
		subject = spell.CountSubjectStructure
	}

	var count *spell.Scalar
	if strings.Contains(lower, "/level") {
		count = spell.PerLevelScalar(val)
	} else {
		count = spell.FixedScalar(val)
	}
	return &spell.AreaSpec{Kind: kind, Count: count, CountSubject: &subject}
}

func (p *AreaParser) parseVolume(lower string) *spell.AreaSpec {
	caps := p.volumeRe.FindStringSubmatch(lower)
	if caps == nil {
		return nil
	}
	val, _ := strconv.ParseFloat(caps[1], 64)
	u, _ := mapAreaUnits(caps[3])

	unit := spell.AreaUnitFt3
	if u != nil {
		switch *u {
		case spell.AreaUnitFt:
			unit = spell.AreaUnitFt3
		case spell.AreaUnitYd:
			unit = spell.AreaUnitYd3
		default:
			unit = *u
		}
	}
	return &spell.AreaSpec{
		Kind:   spell.AreaKindVolume,
		Volume: spell.FixedScalar(val),
		Unit:   &unit,
	}
}

func (p *AreaParser) parseTiles(lower string) *spell.AreaSpec {
	caps := p.tileRe.FindStringSubmatch(lower)
	if caps == nil {
		return nil
	}
	count, err := strconv.ParseFloat(caps[1], 64)
	if err != nil {
		count = 1
	}
	u, su := mapAreaUnits(caps[3])

	var tileUnit *spell.TileUnit
	switch caps[4] {
	case "square", "squares":
		t := spell.TileUnitSquare
		tileUnit = &t
	case "hex", "hexes":
		t := spell.TileUnitHex
		tileUnit = &t
	case "room", "rooms":
		t := spell.TileUnitRoom
		tileUnit = &t
	case "floor", "floors":
		t := spell.TileUnitFloor
		tileUnit = &t
	}

	res := &spell.AreaSpec{
		Kind:      spell.AreaKindTiles,
		TileCount: spell.FixedScalar(count),
		TileUnit:  tileUnit,
		Unit:      u,
		ShapeUnit: su,
	}
	if caps[2] != "" {
		// Tile size reads as a length: "16 10ft. squares".
		size, _ := strconv.ParseFloat(caps[2], 64)
		res.Length = spell.FixedScalar(size)
	}
	return res
}

func buildAreaShape(shapeRaw string, scalar *spell.Scalar, u *spell.AreaUnit, su *spell.AreaShapeUnit, input string) *spell.AreaSpec {
	res := &spell.AreaSpec{Unit: u, ShapeUnit: su}

	switch shapeRaw {
	case "radius":
		res.Kind = spell.AreaKindRadiusCircle
		res.Radius = scalar
	case "sphere":
		res.Kind = spell.AreaKindRadiusSphere
		res.Radius = scalar
	case "cube":
		res.Kind = spell.AreaKindCube
		res.Edge = scalar
	case "cone":
		res.Kind = spell.AreaKindCone
		res.Length = scalar
	case "square", "rect", "rectangle":
		res.Kind = spell.AreaKindRect
		res.Length = scalar
		width := *scalar
		res.Width = &width
	case "line":
		res.Kind = spell.AreaKindLine
		res.Length = scalar
	case "wall":
		res.Kind = spell.AreaKindWall
		res.Length = scalar
	case "cylinder":
		res.Kind = spell.AreaKindCylinder
		res.Radius = scalar
	case "point":
		res.Kind = spell.AreaKindPoint
	default:
		return &spell.AreaSpec{Kind: spell.AreaKindSpecial, Notes: spell.String(input)}
	}

	if res.Unit == nil {
		ft := spell.AreaUnitFt
		res.Unit = &ft
	}
	if res.ShapeUnit == nil {
		sft := spell.AreaShapeUnitFt
		res.ShapeUnit = &sft
	}
	return res
}
