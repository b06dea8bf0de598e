package spell

import (
	"sort"

	"github.com/KirkDiggler/spellbook/internal/pkg/textnorm"
)

// MagicResistanceKind classifies how magic resistance interacts with a
// spell.
type MagicResistanceKind string

// Magic resistance kinds
const (
	MagicResistanceKindUnknown   MagicResistanceKind = "unknown"
	MagicResistanceKindNormal    MagicResistanceKind = "normal"
	MagicResistanceKindIgnoresMr MagicResistanceKind = "ignores_mr"
	MagicResistanceKindPartial   MagicResistanceKind = "partial"
	MagicResistanceKindSpecial   MagicResistanceKind = "special"
)

// MrAppliesTo scopes which effects resistance applies to.
type MrAppliesTo string

// MR applies-to scopes
const (
	MrAppliesToWholeSpell            MrAppliesTo = "whole_spell"
	MrAppliesToHarmfulEffectsOnly    MrAppliesTo = "harmful_effects_only"
	MrAppliesToBeneficialEffectsOnly MrAppliesTo = "beneficial_effects_only"
	MrAppliesToDm                    MrAppliesTo = "dm"
)

// MrPartialScope narrows a partial resistance to a subset of effects.
type MrPartialScope string

// MR partial scopes
const (
	MrPartialScopeDamageOnly           MrPartialScope = "damage_only"
	MrPartialScopeNonDamageOnly        MrPartialScope = "non_damage_only"
	MrPartialScopePrimaryEffectOnly    MrPartialScope = "primary_effect_only"
	MrPartialScopeSecondaryEffectsOnly MrPartialScope = "secondary_effects_only"
	MrPartialScopeByPartID             MrPartialScope = "by_part_id"
)

// MrPartialSpec identifies which damage parts a partial resistance
// covers. Part ids are mechanical content and are hashed.
type MrPartialSpec struct {
	Scope   MrPartialScope `json:"scope"`
	PartIDs []string       `json:"part_ids,omitempty"`
}

// Normalize lowercases, sorts, and dedups part ids.
func (p *MrPartialSpec) Normalize() {
	if p == nil {
		return
	}
	if len(p.PartIDs) > 0 {
		for i, id := range p.PartIDs {
			p.PartIDs[i] = textnorm.LowercaseStructured(id)
		}
		sort.Strings(p.PartIDs)
		p.PartIDs = dedupStrings(p.PartIDs)
	}
}

// MagicResistanceSpec is the structured form of a legacy magic
// resistance string.
type MagicResistanceSpec struct {
	Kind        MagicResistanceKind `json:"kind"`
	AppliesTo   MrAppliesTo         `json:"applies_to"`
	Partial     *MrPartialSpec      `json:"partial,omitempty"`
	SpecialRule *string             `json:"special_rule,omitempty"`
	Notes       *string             `json:"notes,omitempty"`
}

// IsDefault reports whether the spec carries no information beyond the
// zero value, letting callers omit it entirely.
func (m *MagicResistanceSpec) IsDefault() bool {
	return m == nil || (m.Kind == MagicResistanceKindUnknown &&
		(m.AppliesTo == "" || m.AppliesTo == MrAppliesToWholeSpell) &&
		m.Partial == nil && m.SpecialRule == nil && m.Notes == nil)
}

// Normalize applies string modes and defaults.
func (m *MagicResistanceSpec) Normalize() {
	if m == nil {
		return
	}
	if m.Kind == "" {
		m.Kind = MagicResistanceKindUnknown
	}
	if m.AppliesTo == "" {
		m.AppliesTo = MrAppliesToWholeSpell
	}
	if m.Notes != nil {
		notes := textnorm.Textual(*m.Notes)
		m.Notes = &notes
	}
	if m.SpecialRule != nil {
		rule := textnorm.Textual(*m.SpecialRule)
		m.SpecialRule = &rule
	}
	m.Partial.Normalize()
}

func dedupStrings(in []string) []string {
	out := in[:0]
	var prev string
	for i, s := range in {
		if i == 0 || s != prev {
			out = append(out, s)
		}
		prev = s
	}
	return out
}
