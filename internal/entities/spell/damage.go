package spell

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/gowebpki/jcs"

	"github.com/KirkDiggler/spellbook/internal/pkg/textnorm"
)

// DamageKind classifies whether damage is absent, fully modeled, or
// left to DM adjudication.
type DamageKind string

// Damage kinds
const (
	DamageKindNone          DamageKind = "none"
	DamageKindModeled       DamageKind = "modeled"
	DamageKindDmAdjudicated DamageKind = "dm_adjudicated"
)

// DamageCombineMode says how multiple damage parts combine. Sequence is
// the only order-significant mode.
type DamageCombineMode string

// Damage combine modes
const (
	DamageCombineModeSum       DamageCombineMode = "sum"
	DamageCombineModeMax       DamageCombineMode = "max"
	DamageCombineModeChooseOne DamageCombineMode = "choose_one"
	DamageCombineModeSequence  DamageCombineMode = "sequence"
)

// DamageType is the energy or physical type of a damage part.
type DamageType string

// Damage types
const (
	DamageTypeAcid                DamageType = "acid"
	DamageTypeCold                DamageType = "cold"
	DamageTypeElectricity         DamageType = "electricity"
	DamageTypeFire                DamageType = "fire"
	DamageTypeSonic               DamageType = "sonic"
	DamageTypeForce               DamageType = "force"
	DamageTypeMagic               DamageType = "magic"
	DamageTypeNegativeEnergy      DamageType = "negative_energy"
	DamageTypePositiveEnergy      DamageType = "positive_energy"
	DamageTypePoison              DamageType = "poison"
	DamageTypePsychic             DamageType = "psychic"
	DamageTypePhysicalBludgeoning DamageType = "physical_bludgeoning"
	DamageTypePhysicalPiercing    DamageType = "physical_piercing"
	DamageTypePhysicalSlashing    DamageType = "physical_slashing"
	DamageTypeUntyped             DamageType = "untyped"
	DamageTypeSpecial             DamageType = "special"
)

// DiceTerm is one NdS(+/-m per die) term of a dice pool.
type DiceTerm struct {
	Count          int `json:"count"`
	Sides          int `json:"sides"`
	PerDieModifier int `json:"per_die_modifier"`
}

// DicePool is a sum of dice terms plus a flat modifier.
type DicePool struct {
	Terms        []DiceTerm `json:"terms"`
	FlatModifier int        `json:"flat_modifier"`
}

// Average returns the statistical mean total of the pool.
func (p *DicePool) Average() float64 {
	total := float64(p.FlatModifier)
	for _, t := range p.Terms {
		total += float64(t.Count) * (float64(t.Sides)+1)/2 + float64(t.Count*t.PerDieModifier)
	}
	return total
}

// Roll samples the pool once and returns the total with a description
// like "2d6[3,4]+1=8". Zero-count terms contribute nothing.
func (p *DicePool) Roll() (int, string, error) {
	total := p.FlatModifier
	descs := make([]string, 0, len(p.Terms)+1)
	for _, t := range p.Terms {
		if t.Count <= 0 || t.Sides <= 0 {
			continue
		}
		roll, err := dice.NewRoll(t.Count, t.Sides)
		if err != nil {
			return 0, "", fmt.Errorf("rolling %dd%d: %w", t.Count, t.Sides, err)
		}
		value := roll.GetValue() + t.Count*t.PerDieModifier
		total += value
		descs = append(descs, roll.GetDescription())
	}
	if p.FlatModifier != 0 {
		descs = append(descs, fmt.Sprintf("%+d", p.FlatModifier))
	}
	return total, fmt.Sprintf("%s=%d", strings.Join(descs, ""), total), nil
}

// ScalingKind says how a scaling rule alters the base pool.
type ScalingKind string

// Scaling kinds
const (
	ScalingKindAddDicePerStep     ScalingKind = "add_dice_per_step"
	ScalingKindAddFlatPerStep     ScalingKind = "add_flat_per_step"
	ScalingKindSetBaseByLevelBand ScalingKind = "set_base_by_level_band"
)

// ScalingDriver names what the scaling steps on.
type ScalingDriver string

// Scaling drivers
const (
	ScalingDriverCasterLevel ScalingDriver = "caster_level"
	ScalingDriverSpellLevel  ScalingDriver = "spell_level"
	ScalingDriverTargetHd    ScalingDriver = "target_hd"
	ScalingDriverTargetLevel ScalingDriver = "target_level"
	ScalingDriverChoice      ScalingDriver = "choice"
	ScalingDriverOther       ScalingDriver = "other"
)

// LevelBand sets a base pool for an inclusive level range.
type LevelBand struct {
	Min  int      `json:"min"`
	Max  int      `json:"max"`
	Base DicePool `json:"base"`
}

// ScalingRule describes one scaling behavior of a damage part.
type ScalingRule struct {
	Kind          ScalingKind   `json:"kind"`
	Driver        ScalingDriver `json:"driver"`
	Step          int           `json:"step"`
	MaxSteps      *int          `json:"max_steps,omitempty"`
	DiceIncrement *DiceTerm     `json:"dice_increment,omitempty"`
	FlatIncrement *int          `json:"flat_increment,omitempty"`
	LevelBands    []LevelBand   `json:"level_bands,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
}

// ClampSpec bounds a computed damage total.
type ClampSpec struct {
	MinTotal *int `json:"min_total,omitempty"`
	MaxTotal *int `json:"max_total,omitempty"`
}

// ApplicationScope says per what the damage applies.
type ApplicationScope string

// Application scopes
const (
	ApplicationScopePerTarget     ApplicationScope = "per_target"
	ApplicationScopePerAreaTarget ApplicationScope = "per_area_target"
	ApplicationScopePerMissile    ApplicationScope = "per_missile"
	ApplicationScopePerRay        ApplicationScope = "per_ray"
	ApplicationScopePerRound      ApplicationScope = "per_round"
	ApplicationScopePerTurn       ApplicationScope = "per_turn"
	ApplicationScopePerHit        ApplicationScope = "per_hit"
	ApplicationScopeSpecial       ApplicationScope = "special"
)

// TickDriver names what controls repeated application count.
type TickDriver string

// Tick drivers
const (
	TickDriverFixed       TickDriver = "fixed"
	TickDriverCasterLevel TickDriver = "caster_level"
	TickDriverSpellLevel  TickDriver = "spell_level"
	TickDriverDuration    TickDriver = "duration"
	TickDriverChoice      TickDriver = "choice"
	TickDriverDm          TickDriver = "dm"
)

// ApplicationSpec says how often and per what a damage part applies.
type ApplicationSpec struct {
	Scope      ApplicationScope `json:"scope"`
	Ticks      int              `json:"ticks"`
	TickDriver TickDriver       `json:"tick_driver"`
}

// DefaultApplication is one application per target.
func DefaultApplication() ApplicationSpec {
	return ApplicationSpec{
		Scope:      ApplicationScopePerTarget,
		Ticks:      1,
		TickDriver: TickDriverFixed,
	}
}

// DamageSaveKind says how a saving throw alters a damage part.
type DamageSaveKind string

// Damage save kinds
const (
	DamageSaveKindNone    DamageSaveKind = "none"
	DamageSaveKindHalf    DamageSaveKind = "half"
	DamageSaveKindNegates DamageSaveKind = "negates"
	DamageSaveKindPartial DamageSaveKind = "partial"
	DamageSaveKindSpecial DamageSaveKind = "special"
)

// DamageSavePartial is the fraction dealt on a successful save.
type DamageSavePartial struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// DamageSaveSpec is the per-part save behavior.
type DamageSaveSpec struct {
	Kind    DamageSaveKind     `json:"kind"`
	Partial *DamageSavePartial `json:"partial,omitempty"`
}

// MrInteraction says how a damage part interacts with magic resistance.
type MrInteraction string

// MR interactions
const (
	MrInteractionNormal    MrInteraction = "normal"
	MrInteractionIgnoresMr MrInteraction = "ignores_mr"
	MrInteractionSpecial   MrInteraction = "special"
	MrInteractionUnknown   MrInteraction = "unknown"
)

// DamagePart is one independently-applied component of a spell's
// damage. The id is mechanical content and is hashed.
type DamagePart struct {
	ID          string          `json:"id"`
	Label       *string         `json:"label,omitempty"`
	DamageType  DamageType      `json:"damage_type"`
	Base        DicePool        `json:"base"`
	Scaling     []ScalingRule   `json:"scaling,omitempty"`
	ClampTotal  *ClampSpec      `json:"clamp_total,omitempty"`
	Application ApplicationSpec `json:"application"`
	Save        DamageSaveSpec  `json:"save"`
	MrInt       MrInteraction   `json:"mr_interaction"`
	Notes       *string         `json:"notes,omitempty"`
}

// SpellDamageSpec is the structured form of a legacy damage string.
type SpellDamageSpec struct {
	Kind        DamageKind        `json:"kind"`
	CombineMode DamageCombineMode `json:"combine_mode"`
	Parts       []DamagePart      `json:"parts,omitempty"`
	DmGuidance  *string           `json:"dm_guidance,omitempty"`
	Notes       *string           `json:"notes,omitempty"`
}

// Normalize applies string modes to every nested field, sorts scaling
// rules and level bands, and sorts parts by id. Sequence mode is the
// exception: part order is semantically meaningful there. Identical
// ids fall back to canonical-serialization comparison so sorting stays
// deterministic.
func (d *SpellDamageSpec) Normalize() {
	if d == nil {
		return
	}
	if d.Kind == "" {
		d.Kind = DamageKindNone
	}
	if d.CombineMode == "" {
		d.CombineMode = DamageCombineModeSum
	}
	if d.Notes != nil {
		notes := textnorm.Textual(*d.Notes)
		d.Notes = &notes
	}
	if d.DmGuidance != nil {
		guidance := textnorm.Textual(*d.DmGuidance)
		d.DmGuidance = &guidance
	}

	for i := range d.Parts {
		part := &d.Parts[i]
		part.ID = textnorm.LowercaseStructured(part.ID)
		if part.DamageType == "" {
			part.DamageType = DamageTypeUntyped
		}
		if part.MrInt == "" {
			part.MrInt = MrInteractionNormal
		}
		if part.Application.Scope == "" {
			part.Application = DefaultApplication()
		}
		if part.Application.Ticks == 0 {
			part.Application.Ticks = 1
		}
		if part.Application.TickDriver == "" {
			part.Application.TickDriver = TickDriverFixed
		}
		if part.Save.Kind == "" {
			part.Save.Kind = DamageSaveKindNone
		}
		if part.Label != nil {
			label := textnorm.Textual(*part.Label)
			part.Label = &label
		}
		if part.Notes != nil {
			notes := textnorm.Textual(*part.Notes)
			part.Notes = &notes
		}
		for j := range part.Scaling {
			rule := &part.Scaling[j]
			if rule.Step == 0 {
				rule.Step = 1
			}
			if rule.Notes != nil {
				notes := textnorm.Textual(*rule.Notes)
				rule.Notes = &notes
			}
			sort.Slice(rule.LevelBands, func(a, b int) bool {
				if rule.LevelBands[a].Min != rule.LevelBands[b].Min {
					return rule.LevelBands[a].Min < rule.LevelBands[b].Min
				}
				return rule.LevelBands[a].Max < rule.LevelBands[b].Max
			})
		}
		sort.Slice(part.Scaling, func(a, b int) bool {
			ra, rb := part.Scaling[a], part.Scaling[b]
			if ra.Kind != rb.Kind {
				return ra.Kind < rb.Kind
			}
			if ra.Driver != rb.Driver {
				return ra.Driver < rb.Driver
			}
			return ra.Step < rb.Step
		})
	}

	if d.CombineMode != DamageCombineModeSequence {
		sort.SliceStable(d.Parts, func(a, b int) bool {
			if d.Parts[a].ID != d.Parts[b].ID {
				return d.Parts[a].ID < d.Parts[b].ID
			}
			return canonicalPartJSON(&d.Parts[a]) < canonicalPartJSON(&d.Parts[b])
		})
	}
}

func canonicalPartJSON(p *DamagePart) string {
	raw, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	transformed, err := jcs.Transform(raw)
	if err != nil {
		return ""
	}
	return string(transformed)
}
