package spell

// LegacySpellRow mirrors one row of the legacy spells table. The
// mechanical columns are free text; canonical_data and content_hash are
// filled in by the backfill.
type LegacySpellRow struct {
	ID                 int64
	Name               string
	School             *string
	Sphere             *string
	ClassList          *string
	Level              int64
	Range              *string
	Components         *string
	MaterialComponents *string
	CastingTime        *string
	Duration           *string
	Area               *string
	Damage             *string
	SavingThrow        *string
	MagicResistance    *string
	ExperienceCost     *string
	Reversible         *int64
	Description        string
	Tags               *string
	Source             *string
	Edition            *string
	Author             *string
	License            *string
	IsQuestSpell       int64
	IsCantrip          int64
	CanonicalData      *string
	ContentHash        *string
	SchemaVersion      *int64
}
