package spell

import "github.com/KirkDiggler/spellbook/internal/pkg/textnorm"

// ScalarMode discriminates fixed values from per-level scaling values.
type ScalarMode string

// Scalar modes
const (
	ScalarModeFixed    ScalarMode = "fixed"
	ScalarModePerLevel ScalarMode = "per_level"
)

// RoundingMode controls how fractional per-level results are rounded.
type RoundingMode string

// Rounding modes
const (
	RoundingNone    RoundingMode = "none"
	RoundingFloor   RoundingMode = "floor"
	RoundingCeil    RoundingMode = "ceil"
	RoundingNearest RoundingMode = "nearest"
)

// Scalar expresses "fixed or per-level, with optional level gating and
// rounding". It is the numeric primitive reused by every spec type.
type Scalar struct {
	Mode     ScalarMode    `json:"mode"`
	Value    *float64      `json:"value,omitempty"`
	PerLevel *float64      `json:"per_level,omitempty"`
	MinLevel *int          `json:"min_level,omitempty"`
	MaxLevel *int          `json:"max_level,omitempty"`
	CapValue *float64      `json:"cap_value,omitempty"`
	CapLevel *int          `json:"cap_level,omitempty"`
	Rounding *RoundingMode `json:"rounding,omitempty"`
}

// FixedScalar builds a fixed-mode scalar.
func FixedScalar(value float64) *Scalar {
	return &Scalar{
		Mode:  ScalarModeFixed,
		Value: Float(value),
	}
}

// PerLevelScalar builds a per-level scalar with no base value.
func PerLevelScalar(perLevel float64) *Scalar {
	return &Scalar{
		Mode:     ScalarModePerLevel,
		PerLevel: Float(perLevel),
	}
}

// Normalize clamps every float to 6 decimals and defaults the mode.
// Total and idempotent.
func (s *Scalar) Normalize() {
	if s == nil {
		return
	}
	if s.Mode == "" {
		s.Mode = ScalarModeFixed
	}
	textnorm.ClampPrecisionPtr(s.Value)
	textnorm.ClampPrecisionPtr(s.PerLevel)
	textnorm.ClampPrecisionPtr(s.CapValue)
}

// Float returns a pointer to v. Convenience for optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
