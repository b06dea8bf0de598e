package spell

import (
	"bytes"
	"encoding/json"

	"github.com/KirkDiggler/spellbook/internal/pkg/textnorm"
)

// MaterialComponentSpec describes one physical material a spell
// consumes or requires. Quantity 1.0 and is_consumed false are dropped
// during normalization so the lean and explicit forms hash identically.
type MaterialComponentSpec struct {
	Name        string   `json:"name"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	GpValue     *float64 `json:"gp_value,omitempty"`
	IsConsumed  *bool    `json:"is_consumed,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// materialComponentAlias avoids UnmarshalJSON recursion.
type materialComponentAlias MaterialComponentSpec

// UnmarshalJSON rejects unknown fields: stored canonical data must
// round-trip exactly.
func (m *MaterialComponentSpec) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var alias materialComponentAlias
	if err := dec.Decode(&alias); err != nil {
		return err
	}
	*m = MaterialComponentSpec(alias)
	return nil
}

// Normalize applies string modes, clamps monetary values, and drops the
// default quantity and consumed flag.
func (m *MaterialComponentSpec) Normalize() {
	if m == nil {
		return
	}
	m.Name = textnorm.Structured(m.Name)
	if m.Unit != nil {
		unit := textnorm.Structured(*m.Unit)
		m.Unit = &unit
	}
	if m.Description != nil {
		desc := textnorm.Textual(*m.Description)
		m.Description = &desc
	}
	textnorm.ClampPrecisionPtr(m.GpValue)
	if m.Quantity != nil {
		clamped := textnorm.ClampPrecision(*m.Quantity)
		if clamped == 1.0 {
			m.Quantity = nil
		} else {
			m.Quantity = &clamped
		}
	}
	if m.IsConsumed != nil && !*m.IsConsumed {
		m.IsConsumed = nil
	}
}
