package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
)

// MechanicsParser extracts damage, magic resistance, saving throw, and
// experience cost structures from legacy strings.
type MechanicsParser struct {
	diceTermRe    *regexp.Regexp
	scalingRuleRe *regexp.Regexp
	xpRe          *regexp.Regexp
	damageSplitRe *regexp.Regexp
	saveSplitRe   *regexp.Regexp
	tickRe        *regexp.Regexp
	modifierRe    *regexp.Regexp
}

// NewMechanicsParser compiles the mechanics patterns.
func NewMechanicsParser() *MechanicsParser {
	return &MechanicsParser{
		diceTermRe:    regexp.MustCompile(`(?P<count>\d+)?d(?P<sides>\d+)(?:\s*(?P<mod>[+-]\s*\d+))?`),
		scalingRuleRe: regexp.MustCompile(`(?i)/(?:per\s+)?(?P<step>\d+)?\s*(?P<unit>level|hd|caster level|spell level|target hd)(?:\s*\(max\s*(?P<max>[^)]+)\))?`),
		xpRe:          regexp.MustCompile(`(?i)(?P<val>\d+(?:,\d+)*)\s*xp`),
		damageSplitRe: regexp.MustCompile(`(?i);\s*|\s+and\s+`),
		saveSplitRe:   regexp.MustCompile(`(?i);| and | or `),
		tickRe:        regexp.MustCompile(`(?i)for\s+(\d+)\s+round`),
		modifierRe:    regexp.MustCompile(`([+-]\d+)`),
	}
}

// ParseDamage converts legacy damage text into a SpellDamageSpec.
// Multiple parts split on ";" and " and ". Text with no dice and no
// "special" marker becomes DM-adjudicated.
func (p *MechanicsParser) ParseDamage(input string) *spell.SpellDamageSpec {
	clean := strings.TrimSpace(input)
	if clean == "" || clean == "None" {
		return &spell.SpellDamageSpec{Kind: spell.DamageKindNone}
	}

	var items []string
	for _, item := range p.damageSplitRe.Split(clean, -1) {
		if strings.TrimSpace(item) != "" {
			items = append(items, strings.TrimSpace(item))
		}
	}

	var parts []spell.DamagePart
	for i, item := range items {
		lower := strings.ToLower(item)
		if !p.diceTermRe.MatchString(item) && !strings.Contains(lower, "special") {
			continue
		}
		parts = append(parts, p.parseDamagePart(item, lower, i+1))
	}

	if len(parts) == 0 {
		return &spell.SpellDamageSpec{
			Kind:       spell.DamageKindDmAdjudicated,
			DmGuidance: spell.String(clean),
		}
	}
	return &spell.SpellDamageSpec{
		Kind:        spell.DamageKindModeled,
		CombineMode: spell.DamageCombineModeSum,
		Parts:       parts,
		Notes:       spell.String(clean),
	}
}

func (p *MechanicsParser) parseDamagePart(item, lower string, idx int) spell.DamagePart {
	damageType := spell.DamageTypeUntyped
	switch {
	case strings.Contains(lower, "fire"):
		damageType = spell.DamageTypeFire
	case strings.Contains(lower, "cold"):
		damageType = spell.DamageTypeCold
	case strings.Contains(lower, "acid"):
		damageType = spell.DamageTypeAcid
	case strings.Contains(lower, "elec"):
		damageType = spell.DamageTypeElectricity
	case strings.Contains(lower, "sonic"):
		damageType = spell.DamageTypeSonic
	case strings.Contains(lower, "force"):
		damageType = spell.DamageTypeForce
	}

	var base spell.DicePool
	var scaling []spell.ScalingRule

	if caps := findNamed(p.diceTermRe, item); caps != nil {
		count := atoiDefault(caps["count"], 1)
		sides := atoiDefault(caps["sides"], 6)
		flat := atoiDefault(strings.ReplaceAll(caps["mod"], " ", ""), 0)

		if sCaps := findNamed(p.scalingRuleRe, item); sCaps != nil {
			// Per-level dice: base holds a zero-count placeholder, the
			// scaling rule carries the increment.
			base.Terms = append(base.Terms, spell.DiceTerm{Count: 0, Sides: sides})

			rule := spell.ScalingRule{
				Kind:          spell.ScalingKindAddDicePerStep,
				Driver:        spell.ScalingDriverCasterLevel,
				Step:          atoiDefault(sCaps["step"], 1),
				DiceIncrement: &spell.DiceTerm{Count: count, Sides: sides},
			}
			if flat != 0 {
				rule.FlatIncrement = spell.Int(flat)
			}
			if sCaps["max"] != "" {
				if maxCaps := findNamed(p.diceTermRe, sCaps["max"]); maxCaps != nil {
					rule.MaxSteps = spell.Int(atoiDefault(maxCaps["count"], 1))
				}
			}
			scaling = append(scaling, rule)
		} else {
			base.Terms = append(base.Terms, spell.DiceTerm{Count: count, Sides: sides})
			base.FlatModifier = flat
		}
	}

	saveKind := spell.DamageSaveKindNone
	if strings.Contains(lower, "half") {
		saveKind = spell.DamageSaveKindHalf
	} else if strings.Contains(lower, "neg") {
		saveKind = spell.DamageSaveKindNegates
	}

	application := spell.DefaultApplication()
	if strings.Contains(lower, "round") {
		application.Scope = spell.ApplicationScopePerRound
		if tcaps := p.tickRe.FindStringSubmatch(lower); tcaps != nil {
			application.Ticks = atoiDefault(tcaps[1], 1)
		}
	}

	return spell.DamagePart{
		ID:          "part_" + strconv.Itoa(idx),
		DamageType:  damageType,
		Base:        base,
		Scaling:     scaling,
		Application: application,
		Save:        spell.DamageSaveSpec{Kind: saveKind},
		MrInt:       spell.MrInteractionNormal,
		Notes:       spell.String(item),
	}
}

// ParseMagicResistance converts legacy MR text. Empty and "0" mean the
// spell bypasses resistance entirely.
func (p *MechanicsParser) ParseMagicResistance(input string) *spell.MagicResistanceSpec {
	clean := strings.TrimSpace(input)
	if clean == "" || clean == "0" {
		return &spell.MagicResistanceSpec{Kind: spell.MagicResistanceKindIgnoresMr}
	}

	lower := strings.ToLower(clean)
	kind := spell.MagicResistanceKindNormal
	appliesTo := spell.MrAppliesToWholeSpell
	var partial *spell.MrPartialSpec

	switch {
	case strings.Contains(lower, "special") || strings.Contains(lower, "standard"):
		kind = spell.MagicResistanceKindSpecial
	case strings.Contains(lower, "none") || lower == "no":
		kind = spell.MagicResistanceKindIgnoresMr
	case strings.Contains(lower, "partial") || strings.Contains(lower, "applies only to"):
		kind = spell.MagicResistanceKindPartial
		scope := spell.MrPartialScopeByPartID
		if strings.Contains(lower, "damage") {
			scope = spell.MrPartialScopeDamageOnly
		} else if strings.Contains(lower, "primary") {
			scope = spell.MrPartialScopePrimaryEffectOnly
		}
		partial = &spell.MrPartialSpec{Scope: scope}
	}

	if strings.Contains(lower, "harmful") {
		appliesTo = spell.MrAppliesToHarmfulEffectsOnly
	} else if strings.Contains(lower, "beneficial") {
		appliesTo = spell.MrAppliesToBeneficialEffectsOnly
	}

	res := &spell.MagicResistanceSpec{
		Kind:      kind,
		AppliesTo: appliesTo,
		Partial:   partial,
		Notes:     spell.String(clean),
	}
	if kind == spell.MagicResistanceKindSpecial {
		res.SpecialRule = spell.String(clean)
	}
	return res
}

// ParseSavingThrow converts legacy save text. Multi-save lists split on
// ";", " and ", " or ", except standard category names like
// "Rod, Staff, or Wand", which stay one save.
func (p *MechanicsParser) ParseSavingThrow(input string) *spell.SavingThrowSpec {
	clean := strings.TrimSpace(input)
	if clean == "" || clean == "None" {
		return &spell.SavingThrowSpec{Kind: spell.SavingThrowKindNone}
	}

	var parts []string
	for _, part := range p.saveSplitRe.Split(clean, -1) {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}

	lower := strings.ToLower(clean)
	isStandardCategory := strings.Contains(lower, "rod") ||
		strings.Contains(lower, "staff") ||
		strings.Contains(lower, "wand") ||
		strings.Contains(lower, "poison") ||
		strings.Contains(lower, "death") ||
		strings.Contains(lower, "paraly") ||
		strings.Contains(lower, "poly") ||
		strings.Contains(lower, "petri")

	if len(parts) > 1 && !isStandardCategory {
		saves := make([]spell.SingleSave, 0, len(parts))
		for _, part := range parts {
			saves = append(saves, p.parseSingleSave(part))
		}
		return &spell.SavingThrowSpec{
			Kind:     spell.SavingThrowKindMultiple,
			Multiple: saves,
			Notes:    spell.String(clean),
		}
	}

	single := p.parseSingleSave(clean)
	return &spell.SavingThrowSpec{
		Kind:   spell.SavingThrowKindSingle,
		Single: &single,
		Notes:  spell.String(clean),
	}
}

func (p *MechanicsParser) parseSingleSave(input string) spell.SingleSave {
	lower := strings.ToLower(strings.TrimSpace(input))

	onSuccess := spell.SaveResultNoEffect
	if strings.Contains(lower, "half") || strings.Contains(lower, "partial") {
		onSuccess = spell.SaveResultReducedEffect
	}

	saveType := spell.SaveTypeSpell
	saveVs := spell.SaveVsSpell
	switch {
	case strings.Contains(lower, "poison") || strings.Contains(lower, "death") || strings.Contains(lower, "paraly"):
		saveType = spell.SaveTypeParalyzationPoisonDeath
		if strings.Contains(lower, "poison") {
			saveVs = spell.SaveVsPoison
		} else {
			saveVs = spell.SaveVsDeathMagic
		}
	case strings.Contains(lower, "breath"):
		saveType = spell.SaveTypeBreathWeapon
		saveVs = spell.SaveVsBreath
	case strings.Contains(lower, "rod") || strings.Contains(lower, "staff") || strings.Contains(lower, "wand"):
		saveType = spell.SaveTypeRodStaffWand
		saveVs = spell.SaveVsOther
	case strings.Contains(lower, "poly") || strings.Contains(lower, "petri"):
		saveType = spell.SaveTypePetrificationPolymorph
		if strings.Contains(lower, "poly") {
			saveVs = spell.SaveVsPolymorph
		} else {
			saveVs = spell.SaveVsPetrification
		}
	case strings.Contains(lower, "special"):
		saveType = spell.SaveTypeSpecial
	}

	modifier := 0
	if caps := p.modifierRe.FindStringSubmatch(lower); caps != nil {
		modifier = atoiDefault(caps[1], 0)
	}

	return spell.SingleSave{
		SaveType:  saveType,
		SaveVs:    saveVs,
		Modifier:  modifier,
		AppliesTo: spell.SaveAppliesToEachTarget,
		Timing:    spell.SaveTimingOnEffect,
		OnSuccess: spell.SaveOutcomeEffect{Result: onSuccess},
		OnFailure: spell.SaveOutcomeEffect{Result: spell.SaveResultFullEffect},
	}
}

// ParseExperienceCost converts legacy XP cost text. Comma-grouped
// numbers are accepted; "per level" costs become per-unit.
func (p *MechanicsParser) ParseExperienceCost(input string) *spell.ExperienceComponentSpec {
	clean := strings.TrimSpace(input)
	if clean == "" || clean == "None" || clean == "0" {
		return &spell.ExperienceComponentSpec{Kind: spell.ExperienceKindNone}
	}

	lower := strings.ToLower(clean)
	res := &spell.ExperienceComponentSpec{
		Kind:  spell.ExperienceKindNone,
		Notes: spell.String(clean),
	}

	switch {
	case strings.Contains(lower, "special"):
		res.Kind = spell.ExperienceKindDmAdjudicated
	case strings.Contains(lower, "per level"):
		res.Kind = spell.ExperienceKindPerUnit
		if caps := findNamed(p.xpRe, lower); caps != nil {
			if val, err := strconv.Atoi(strings.ReplaceAll(caps["val"], ",", "")); err == nil {
				res.PerUnit = &spell.PerUnitXp{
					XpPerUnit: val,
					UnitKind:  spell.UnitKindSpellLevel,
					Rounding:  spell.RoundingNone,
				}
			}
		}
	default:
		if caps := findNamed(p.xpRe, lower); caps != nil {
			if val, err := strconv.Atoi(strings.ReplaceAll(caps["val"], ",", "")); err == nil {
				res.Kind = spell.ExperienceKindFixed
				res.AmountXp = spell.Int(val)
			}
		}
	}
	return res
}

// findNamed returns the named submatches of the first match, or nil.
func findNamed(re *regexp.Regexp, input string) map[string]string {
	match := re.FindStringSubmatch(input)
	if match == nil {
		return nil
	}
	out := make(map[string]string, len(match))
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(match) {
			out[name] = match[i]
		}
	}
	return out
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
