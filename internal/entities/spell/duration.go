package spell

import "github.com/KirkDiggler/spellbook/internal/pkg/textnorm"

// DurationKind classifies how long a spell persists.
type DurationKind string

// Duration kinds
const (
	DurationKindInstant        DurationKind = "instant"
	DurationKindTime           DurationKind = "time"
	DurationKindConcentration  DurationKind = "concentration"
	DurationKindConditional    DurationKind = "conditional"
	DurationKindPermanent      DurationKind = "permanent"
	DurationKindUntilDispelled DurationKind = "until_dispelled"
	DurationKindUntilTriggered DurationKind = "until_triggered"
	DurationKindUsageLimited   DurationKind = "usage_limited"
	DurationKindPlanar         DurationKind = "planar"
	DurationKindSpecial        DurationKind = "special"
)

// DurationUnit is a game-time unit.
type DurationUnit string

// Duration units
const (
	DurationUnitSegment DurationUnit = "segment"
	DurationUnitRound   DurationUnit = "round"
	DurationUnitTurn    DurationUnit = "turn"
	DurationUnitMinute  DurationUnit = "minute"
	DurationUnitHour    DurationUnit = "hour"
	DurationUnitDay     DurationUnit = "day"
	DurationUnitWeek    DurationUnit = "week"
	DurationUnitMonth   DurationUnit = "month"
	DurationUnitYear    DurationUnit = "year"
)

// DurationSpec is the structured form of a legacy duration string.
type DurationSpec struct {
	Kind           DurationKind  `json:"kind"`
	Unit           *DurationUnit `json:"unit,omitempty"`
	Duration       *Scalar       `json:"duration,omitempty"`
	Condition      *string       `json:"condition,omitempty"`
	Uses           *Scalar       `json:"uses,omitempty"`
	Notes          *string       `json:"notes,omitempty"`
	RawLegacyValue *string       `json:"raw_legacy_value,omitempty"`
}

// Normalize applies string modes and scalar clamping.
func (d *DurationSpec) Normalize() {
	if d == nil {
		return
	}
	if d.Kind == "" {
		d.Kind = DurationKindSpecial
	}
	if d.Condition != nil {
		condition := textnorm.Structured(*d.Condition)
		d.Condition = &condition
	}
	if d.Notes != nil {
		notes := textnorm.Textual(*d.Notes)
		d.Notes = &notes
	}
	d.Duration.Normalize()
	d.Uses.Normalize()
}
