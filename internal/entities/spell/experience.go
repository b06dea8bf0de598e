package spell

import (
	"sort"
	"strings"

	"github.com/KirkDiggler/spellbook/internal/pkg/textnorm"
)

// ExperienceKind classifies an experience-point cost.
type ExperienceKind string

// Experience kinds
const (
	ExperienceKindNone          ExperienceKind = "none"
	ExperienceKindFixed         ExperienceKind = "fixed"
	ExperienceKindPerUnit       ExperienceKind = "per_unit"
	ExperienceKindFormula       ExperienceKind = "formula"
	ExperienceKindTiered        ExperienceKind = "tiered"
	ExperienceKindDmAdjudicated ExperienceKind = "dm_adjudicated"
)

// ExperiencePayer names who pays the cost.
type ExperiencePayer string

// Experience payers
const (
	ExperiencePayerCaster        ExperiencePayer = "caster"
	ExperiencePayerPrimaryCaster ExperiencePayer = "primary_caster"
	ExperiencePayerParticipant   ExperiencePayer = "participant"
	ExperiencePayerRecipient     ExperiencePayer = "recipient"
	ExperiencePayerItem          ExperiencePayer = "item"
	ExperiencePayerOther         ExperiencePayer = "other"
)

// PaymentTiming says when the cost is paid.
type PaymentTiming string

// Payment timings
const (
	PaymentTimingOnStart      PaymentTiming = "on_start"
	PaymentTimingOnCompletion PaymentTiming = "on_completion"
	PaymentTimingOnEffect     PaymentTiming = "on_effect"
	PaymentTimingOnSuccess    PaymentTiming = "on_success"
	PaymentTimingOnFailure    PaymentTiming = "on_failure"
	PaymentTimingOnBoth       PaymentTiming = "on_both"
	PaymentTimingDm           PaymentTiming = "dm"
)

// PaymentSemantics distinguishes spending from loss, drain, and
// sacrifice.
type PaymentSemantics string

// Payment semantics
const (
	PaymentSemanticsSpend     PaymentSemantics = "spend"
	PaymentSemanticsLoss      PaymentSemantics = "loss"
	PaymentSemanticsDrain     PaymentSemantics = "drain"
	PaymentSemanticsSacrifice PaymentSemantics = "sacrifice"
)

// Recoverability says whether paid experience can be earned back.
type Recoverability string

// Recoverability modes
const (
	RecoverabilityNormalEarning  Recoverability = "normal_earning"
	RecoverabilityNotRecoverable Recoverability = "not_recoverable"
	RecoverabilitySpecialOnly    Recoverability = "special_only"
	RecoverabilityDm             Recoverability = "dm"
)

// UnitKind names the unit of a per-unit cost.
type UnitKind string

// Unit kinds
const (
	UnitKindGpValue1000    UnitKind = "gp_value_1000"
	UnitKindSpellLevel     UnitKind = "spell_level"
	UnitKindRecipientLevel UnitKind = "recipient_level"
	UnitKindHitDie         UnitKind = "hit_die"
	UnitKindCreature       UnitKind = "creature"
	UnitKindDay            UnitKind = "day"
	UnitKindCharge         UnitKind = "charge"
	UnitKindOther          UnitKind = "other"
)

// VarKind names the semantic kind of a formula variable.
type VarKind string

// Formula variable kinds
const (
	VarKindGpValue        VarKind = "gp_value"
	VarKindSpellLevel     VarKind = "spell_level"
	VarKindCasterLevel    VarKind = "caster_level"
	VarKindRecipientLevel VarKind = "recipient_level"
	VarKindHitDice        VarKind = "hit_dice"
	VarKindCount          VarKind = "count"
	VarKindOther          VarKind = "other"
)

// PerUnitXp is a "N xp per unit" cost.
type PerUnitXp struct {
	XpPerUnit int          `json:"xp_per_unit"`
	UnitKind  UnitKind     `json:"unit_kind"`
	UnitLabel *string      `json:"unit_label,omitempty"`
	Rounding  RoundingMode `json:"rounding"`
	MinXp     *int         `json:"min_xp,omitempty"`
	MaxXp     *int         `json:"max_xp,omitempty"`
}

// FormulaVar is one variable of a formula cost. Names are normalized to
// ^[a-z][a-z0-9_]{0,31}$.
type FormulaVar struct {
	Name    string  `json:"name"`
	VarKind VarKind `json:"var_kind"`
	Label   *string `json:"label,omitempty"`
}

// ExperienceFormula is a machine-readable cost expression. The
// expression uses Exact normalization: whitespace inside it is
// meaningful to its own grammar.
type ExperienceFormula struct {
	Expr     string       `json:"expr"`
	Vars     []FormulaVar `json:"vars"`
	Rounding RoundingMode `json:"rounding"`
	MinXp    *int         `json:"min_xp,omitempty"`
	MaxXp    *int         `json:"max_xp,omitempty"`
}

// TieredXp is one tier of a condition-dependent cost.
type TieredXp struct {
	When     string  `json:"when"`
	AmountXp int     `json:"amount_xp"`
	Notes    *string `json:"notes,omitempty"`
}

// ExperienceComponentSpec is the structured form of a legacy experience
// cost string. source_text is provenance and is excluded from hashing.
type ExperienceComponentSpec struct {
	Kind             ExperienceKind     `json:"kind"`
	Payer            ExperiencePayer    `json:"payer"`
	PaymentTiming    PaymentTiming      `json:"payment_timing"`
	PaymentSemantics PaymentSemantics   `json:"payment_semantics"`
	CanReduceLevel   *bool              `json:"can_reduce_level,omitempty"`
	Recoverability   Recoverability     `json:"recoverability"`
	AmountXp         *int               `json:"amount_xp,omitempty"`
	PerUnit          *PerUnitXp         `json:"per_unit,omitempty"`
	Formula          *ExperienceFormula `json:"formula,omitempty"`
	Tiered           []TieredXp         `json:"tiered,omitempty"`
	DmGuidance       *string            `json:"dm_guidance,omitempty"`
	SourceText       *string            `json:"source_text,omitempty"`
	Notes            *string            `json:"notes,omitempty"`
}

// IsDefault reports whether the spec carries no information.
// source_text is metadata and does not count.
func (e *ExperienceComponentSpec) IsDefault() bool {
	return e == nil || (e.Kind == ExperienceKindNone &&
		(e.Payer == "" || e.Payer == ExperiencePayerCaster) &&
		(e.PaymentTiming == "" || e.PaymentTiming == PaymentTimingOnCompletion) &&
		(e.PaymentSemantics == "" || e.PaymentSemantics == PaymentSemanticsSpend) &&
		(e.CanReduceLevel == nil || *e.CanReduceLevel) &&
		(e.Recoverability == "" || e.Recoverability == RecoverabilityNormalEarning) &&
		e.AmountXp == nil && e.PerUnit == nil && e.Formula == nil &&
		e.Tiered == nil && e.DmGuidance == nil && e.Notes == nil)
}

// Normalize materializes defaults, applies string modes, normalizes
// formula variable names, and sorts vars and tiers.
func (e *ExperienceComponentSpec) Normalize() {
	if e == nil {
		return
	}
	if e.Kind == "" {
		e.Kind = ExperienceKindNone
	}
	if e.Payer == "" {
		e.Payer = ExperiencePayerCaster
	}
	if e.PaymentTiming == "" {
		e.PaymentTiming = PaymentTimingOnCompletion
	}
	if e.PaymentSemantics == "" {
		e.PaymentSemantics = PaymentSemanticsSpend
	}
	if e.CanReduceLevel == nil {
		t := true
		e.CanReduceLevel = &t
	}
	if e.Recoverability == "" {
		e.Recoverability = RecoverabilityNormalEarning
	}
	if e.Notes != nil {
		notes := textnorm.Textual(*e.Notes)
		e.Notes = &notes
	}
	if e.DmGuidance != nil {
		guidance := textnorm.Textual(*e.DmGuidance)
		e.DmGuidance = &guidance
	}
	if e.SourceText != nil {
		text := textnorm.Textual(*e.SourceText)
		e.SourceText = &text
	}

	if e.PerUnit != nil {
		if e.PerUnit.Rounding == "" {
			e.PerUnit.Rounding = RoundingNone
		}
		if e.PerUnit.UnitLabel != nil {
			label := textnorm.Textual(*e.PerUnit.UnitLabel)
			e.PerUnit.UnitLabel = &label
		}
	}

	if e.Formula != nil {
		e.Formula.Expr = textnorm.Exact(e.Formula.Expr)
		if e.Formula.Rounding == "" {
			e.Formula.Rounding = RoundingNone
		}
		for i := range e.Formula.Vars {
			v := &e.Formula.Vars[i]
			v.Name = strings.ReplaceAll(textnorm.LowercaseStructured(v.Name), " ", "_")
			if len(v.Name) > 32 {
				v.Name = v.Name[:32]
			}
			if v.Label != nil {
				label := textnorm.Textual(*v.Label)
				v.Label = &label
			}
		}
		sort.Slice(e.Formula.Vars, func(a, b int) bool {
			return e.Formula.Vars[a].Name < e.Formula.Vars[b].Name
		})
	}

	for i := range e.Tiered {
		tier := &e.Tiered[i]
		tier.When = textnorm.Structured(tier.When)
		if tier.Notes != nil {
			notes := textnorm.Textual(*tier.Notes)
			tier.Notes = &notes
		}
	}
	sort.Slice(e.Tiered, func(a, b int) bool {
		if e.Tiered[a].When != e.Tiered[b].When {
			return e.Tiered[a].When < e.Tiered[b].When
		}
		return e.Tiered[a].AmountXp < e.Tiered[b].AmountXp
	})
}
