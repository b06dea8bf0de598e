// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/spellbook/internal/entities/spell"
)

// LegacySpellRowBuilder provides a fluent interface for building test
// legacy spell rows
type LegacySpellRowBuilder struct {
	row *spell.LegacySpellRow
}

// NewLegacySpellRowBuilder creates a new builder with minimal defaults
func NewLegacySpellRowBuilder() *LegacySpellRowBuilder {
	return &LegacySpellRowBuilder{
		row: &spell.LegacySpellRow{
			Name:        "Magic Missile",
			School:      spell.String("Evocation"),
			Level:       1,
			Range:       spell.String("60 yards + 10 yards/level"),
			Components:  spell.String("V, S"),
			CastingTime: spell.String("1 segment"),
			Duration:    spell.String("Instantaneous"),
			Description: "Darts of magical force strike unerringly.",
		},
	}
}

// WithID sets the row id
func (b *LegacySpellRowBuilder) WithID(id int64) *LegacySpellRowBuilder {
	b.row.ID = id
	return b
}

// WithName sets the spell name
func (b *LegacySpellRowBuilder) WithName(name string) *LegacySpellRowBuilder {
	b.row.Name = name
	return b
}

// WithSchool sets the school column
func (b *LegacySpellRowBuilder) WithSchool(school string) *LegacySpellRowBuilder {
	b.row.School = spell.String(school)
	return b
}

// WithoutSchool clears the school column
func (b *LegacySpellRowBuilder) WithoutSchool() *LegacySpellRowBuilder {
	b.row.School = nil
	return b
}

// WithSphere sets the sphere column
func (b *LegacySpellRowBuilder) WithSphere(sphere string) *LegacySpellRowBuilder {
	b.row.Sphere = spell.String(sphere)
	return b
}

// WithLevel sets the spell level
func (b *LegacySpellRowBuilder) WithLevel(level int64) *LegacySpellRowBuilder {
	b.row.Level = level
	return b
}

// WithClassList sets the class_list column
func (b *LegacySpellRowBuilder) WithClassList(classList string) *LegacySpellRowBuilder {
	b.row.ClassList = spell.String(classList)
	return b
}

// WithRange sets the range column
func (b *LegacySpellRowBuilder) WithRange(text string) *LegacySpellRowBuilder {
	b.row.Range = spell.String(text)
	return b
}

// WithComponents sets the components column
func (b *LegacySpellRowBuilder) WithComponents(text string) *LegacySpellRowBuilder {
	b.row.Components = spell.String(text)
	return b
}

// WithMaterialComponents sets the material_components column
func (b *LegacySpellRowBuilder) WithMaterialComponents(text string) *LegacySpellRowBuilder {
	b.row.MaterialComponents = spell.String(text)
	return b
}

// WithCastingTime sets the casting_time column
func (b *LegacySpellRowBuilder) WithCastingTime(text string) *LegacySpellRowBuilder {
	b.row.CastingTime = spell.String(text)
	return b
}

// WithDuration sets the duration column
func (b *LegacySpellRowBuilder) WithDuration(text string) *LegacySpellRowBuilder {
	b.row.Duration = spell.String(text)
	return b
}

// WithArea sets the area column
func (b *LegacySpellRowBuilder) WithArea(text string) *LegacySpellRowBuilder {
	b.row.Area = spell.String(text)
	return b
}

// WithDamage sets the damage column
func (b *LegacySpellRowBuilder) WithDamage(text string) *LegacySpellRowBuilder {
	b.row.Damage = spell.String(text)
	return b
}

// WithSavingThrow sets the saving_throw column
func (b *LegacySpellRowBuilder) WithSavingThrow(text string) *LegacySpellRowBuilder {
	b.row.SavingThrow = spell.String(text)
	return b
}

// WithMagicResistance sets the magic_resistance column
func (b *LegacySpellRowBuilder) WithMagicResistance(text string) *LegacySpellRowBuilder {
	b.row.MagicResistance = spell.String(text)
	return b
}

// WithExperienceCost sets the experience_cost column
func (b *LegacySpellRowBuilder) WithExperienceCost(text string) *LegacySpellRowBuilder {
	b.row.ExperienceCost = spell.String(text)
	return b
}

// WithReversible sets the reversible flag column
func (b *LegacySpellRowBuilder) WithReversible(v int64) *LegacySpellRowBuilder {
	b.row.Reversible = &v
	return b
}

// WithDescription sets the description
func (b *LegacySpellRowBuilder) WithDescription(text string) *LegacySpellRowBuilder {
	b.row.Description = text
	return b
}

// WithSource sets the source column
func (b *LegacySpellRowBuilder) WithSource(source string) *LegacySpellRowBuilder {
	b.row.Source = spell.String(source)
	return b
}

// WithContentHash sets a precomputed content hash
func (b *LegacySpellRowBuilder) WithContentHash(hash string) *LegacySpellRowBuilder {
	b.row.ContentHash = spell.String(hash)
	return b
}

// WithCanonicalData sets precomputed canonical JSON
func (b *LegacySpellRowBuilder) WithCanonicalData(data string) *LegacySpellRowBuilder {
	b.row.CanonicalData = spell.String(data)
	return b
}

// Build returns the constructed row
func (b *LegacySpellRowBuilder) Build() *spell.LegacySpellRow {
	row := *b.row
	return &row
}
