package spell

import "github.com/KirkDiggler/spellbook/internal/pkg/textnorm"

// SavingThrowKind classifies a spell's saving throw structure.
type SavingThrowKind string

// Saving throw kinds
const (
	SavingThrowKindNone          SavingThrowKind = "none"
	SavingThrowKindSingle        SavingThrowKind = "single"
	SavingThrowKindMultiple      SavingThrowKind = "multiple"
	SavingThrowKindDmAdjudicated SavingThrowKind = "dm_adjudicated"
)

// SaveType is the save category rolled against.
type SaveType string

// Save types
const (
	SaveTypeParalyzationPoisonDeath SaveType = "paralyzation_poison_death"
	SaveTypeRodStaffWand            SaveType = "rod_staff_wand"
	SaveTypePetrificationPolymorph  SaveType = "petrification_polymorph"
	SaveTypeBreathWeapon            SaveType = "breath_weapon"
	SaveTypeSpell                   SaveType = "spell"
	SaveTypeSpecial                 SaveType = "special"
)

// SaveVs is the hazard named in the legacy text.
type SaveVs string

// Save-vs hazards
const (
	SaveVsSpell         SaveVs = "spell"
	SaveVsPoison        SaveVs = "poison"
	SaveVsDeathMagic    SaveVs = "death_magic"
	SaveVsPolymorph     SaveVs = "polymorph"
	SaveVsPetrification SaveVs = "petrification"
	SaveVsBreath        SaveVs = "breath"
	SaveVsWeapon        SaveVs = "weapon"
	SaveVsOther         SaveVs = "other"
)

// SaveAppliesTo scopes who or what rolls the save.
type SaveAppliesTo string

// Save applies-to scopes
const (
	SaveAppliesToEachTarget      SaveAppliesTo = "each_target"
	SaveAppliesToEachRound       SaveAppliesTo = "each_round"
	SaveAppliesToEachApplication SaveAppliesTo = "each_application"
	SaveAppliesToOncePerCast     SaveAppliesTo = "once_per_cast"
	SaveAppliesToSpecial         SaveAppliesTo = "special"
)

// SaveTiming says when the save is rolled.
type SaveTiming string

// Save timings
const (
	SaveTimingOnHit      SaveTiming = "on_hit"
	SaveTimingOnContact  SaveTiming = "on_contact"
	SaveTimingOnEntry    SaveTiming = "on_entry"
	SaveTimingEndOfRound SaveTiming = "end_of_round"
	SaveTimingOnEffect   SaveTiming = "on_effect"
	SaveTimingSpecial    SaveTiming = "special"
)

// SaveResult is the outcome class of a success or failure.
type SaveResult string

// Save results
const (
	SaveResultNoEffect             SaveResult = "no_effect"
	SaveResultReducedEffect        SaveResult = "reduced_effect"
	SaveResultFullEffect           SaveResult = "full_effect"
	SaveResultPartialDamageOnly    SaveResult = "partial_damage_only"
	SaveResultPartialNonDamageOnly SaveResult = "partial_non_damage_only"
	SaveResultSpecial              SaveResult = "special"
)

// SaveOutcomeEffect pairs an outcome class with optional prose.
type SaveOutcomeEffect struct {
	Result SaveResult `json:"result"`
	Notes  *string    `json:"notes,omitempty"`
}

// SingleSave is one saving throw. The id is mechanical content and is
// hashed.
type SingleSave struct {
	ID        *string           `json:"id,omitempty"`
	SaveType  SaveType          `json:"save_type"`
	SaveVs    SaveVs            `json:"save_vs"`
	Modifier  int               `json:"modifier"`
	AppliesTo SaveAppliesTo     `json:"applies_to"`
	Timing    SaveTiming        `json:"timing"`
	OnSuccess SaveOutcomeEffect `json:"on_success"`
	OnFailure SaveOutcomeEffect `json:"on_failure"`
}

// SavingThrowSpec is the structured form of a legacy saving throw
// string. The multiple list is order-significant and is never sorted.
type SavingThrowSpec struct {
	Kind       SavingThrowKind `json:"kind"`
	Single     *SingleSave     `json:"single,omitempty"`
	Multiple   []SingleSave    `json:"multiple,omitempty"`
	DmGuidance *string         `json:"dm_guidance,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
}

// IsDefault reports whether the spec carries no information.
func (s *SavingThrowSpec) IsDefault() bool {
	return s == nil || (s.Kind == SavingThrowKindNone && s.Single == nil &&
		s.Multiple == nil && s.DmGuidance == nil && s.Notes == nil)
}

// Normalize applies string modes to prose and to each save. Order of
// the multiple list is preserved.
func (s *SavingThrowSpec) Normalize() {
	if s == nil {
		return
	}
	if s.Kind == "" {
		s.Kind = SavingThrowKindNone
	}
	if s.Notes != nil {
		notes := textnorm.Textual(*s.Notes)
		s.Notes = &notes
	}
	if s.DmGuidance != nil {
		guidance := textnorm.Textual(*s.DmGuidance)
		s.DmGuidance = &guidance
	}
	if s.Single != nil {
		normalizeSingleSave(s.Single)
	}
	for i := range s.Multiple {
		normalizeSingleSave(&s.Multiple[i])
	}
}

func normalizeSingleSave(save *SingleSave) {
	if save.ID != nil {
		id := textnorm.LowercaseStructured(*save.ID)
		save.ID = &id
	}
	if save.SaveType == "" {
		save.SaveType = SaveTypeSpell
	}
	if save.SaveVs == "" {
		save.SaveVs = SaveVsSpell
	}
	if save.AppliesTo == "" {
		save.AppliesTo = SaveAppliesToEachTarget
	}
	if save.Timing == "" {
		save.Timing = SaveTimingOnEffect
	}
	if save.OnSuccess.Result == "" {
		save.OnSuccess.Result = SaveResultNoEffect
	}
	if save.OnFailure.Result == "" {
		save.OnFailure.Result = SaveResultNoEffect
	}
	if save.OnSuccess.Notes != nil {
		notes := textnorm.Textual(*save.OnSuccess.Notes)
		save.OnSuccess.Notes = &notes
	}
	if save.OnFailure.Notes != nil {
		notes := textnorm.Textual(*save.OnFailure.Notes)
		save.OnFailure.Notes = &notes
	}
}
