package spell

import "github.com/KirkDiggler/spellbook/internal/pkg/textnorm"

// CastingTimeUnit is the unit a casting time is measured in.
type CastingTimeUnit string

// Casting time units
const (
	CastingTimeUnitBonusAction CastingTimeUnit = "bonus_action"
	CastingTimeUnitReaction    CastingTimeUnit = "reaction"
	CastingTimeUnitAction      CastingTimeUnit = "action"
	CastingTimeUnitSegment     CastingTimeUnit = "segment"
	CastingTimeUnitRound       CastingTimeUnit = "round"
	CastingTimeUnitMinute      CastingTimeUnit = "minute"
	CastingTimeUnitHour        CastingTimeUnit = "hour"
	CastingTimeUnitSpecial     CastingTimeUnit = "special"
)

// SpellCastingTime is the structured form of a legacy casting time
// string. base_value scales with per_level/level_divisor when present.
type SpellCastingTime struct {
	Text         string          `json:"text"`
	Unit         CastingTimeUnit `json:"unit"`
	BaseValue    *float64        `json:"base_value,omitempty"`
	PerLevel     *float64        `json:"per_level,omitempty"`
	LevelDivisor *float64        `json:"level_divisor,omitempty"`
}

// Normalize applies string modes, defaults the unit, and clamps the
// numeric fields.
func (c *SpellCastingTime) Normalize() {
	if c == nil {
		return
	}
	c.Text = textnorm.Structured(c.Text)
	if c.Unit == "" {
		c.Unit = CastingTimeUnitSpecial
	}
	textnorm.ClampPrecisionPtr(c.BaseValue)
	textnorm.ClampPrecisionPtr(c.PerLevel)
	textnorm.ClampPrecisionPtr(c.LevelDivisor)
}
