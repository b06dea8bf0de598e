package spell

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/KirkDiggler/spellbook/internal/errors"
	"github.com/KirkDiggler/spellbook/internal/pkg/textnorm"
)

// Tradition is the magical tradition a spell belongs to, derived from
// its school and sphere.
type Tradition string

// Traditions
const (
	TraditionArcane Tradition = "ARCANE"
	TraditionDivine Tradition = "DIVINE"
	TraditionBoth   Tradition = "BOTH"
)

// DefaultVersion is assigned to newly canonicalized records.
const DefaultVersion = "1.0.0"

// SpellSourceRef points at where a spell was published. Page is kept
// loose: legacy data stores numbers, ranges, and strings.
type SpellSourceRef struct {
	System *string `json:"system,omitempty"`
	Book   string  `json:"book"`
	Page   any     `json:"page,omitempty"`
	Note   *string `json:"note,omitempty"`
}

// SpellArtifact is an imported file attached to a spell. Artifacts are
// provenance only and never participate in hashing.
type SpellArtifact struct {
	ID         int64  `json:"id"`
	SpellID    int64  `json:"spell_id"`
	Type       string `json:"type"`
	Path       string `json:"path"`
	Hash       string `json:"hash"`
	ImportedAt string `json:"imported_at"`
}

// CanonicalSpell is the strongly typed canonical record a legacy spell
// row converts into. Mechanical fields participate in content hashing;
// provenance fields (id, source_refs, version, edition, author,
// license, schema_version, created_at, updated_at, artifacts) do not.
type CanonicalSpell struct {
	ID            *string   `json:"id,omitempty"`
	SchemaVersion int64     `json:"schema_version"`
	Name          string    `json:"name"`
	Tradition     Tradition `json:"tradition"`
	School        *string   `json:"school,omitempty"`
	Subschools    []string  `json:"subschools,omitempty"`
	Descriptors   []string  `json:"descriptors,omitempty"`
	Sphere        *string   `json:"sphere,omitempty"`
	ClassList     []string  `json:"class_list,omitempty"`
	Level         int64     `json:"level"`

	Range              *RangeSpec               `json:"range,omitempty"`
	Components         *SpellComponents         `json:"components,omitempty"`
	MaterialComponents []MaterialComponentSpec  `json:"material_components"`
	CastingTime        *SpellCastingTime        `json:"casting_time,omitempty"`
	Duration           *DurationSpec            `json:"duration,omitempty"`
	Area               *AreaSpec                `json:"area,omitempty"`
	Damage             *SpellDamageSpec         `json:"damage,omitempty"`
	MagicResistance    *MagicResistanceSpec     `json:"magic_resistance,omitempty"`
	SavingThrow        *SavingThrowSpec         `json:"saving_throw,omitempty"`
	ExperienceCost     *ExperienceComponentSpec `json:"experience_cost,omitempty"`

	Reversible   *int64   `json:"reversible,omitempty"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags,omitempty"`
	IsQuestSpell int64    `json:"is_quest_spell"`
	IsCantrip    int64    `json:"is_cantrip"`

	SourceRefs []SpellSourceRef `json:"source_refs,omitempty"`
	Edition    *string          `json:"edition,omitempty"`
	Author     *string          `json:"author,omitempty"`
	Version    string           `json:"version"`
	License    *string          `json:"license,omitempty"`
	CreatedAt  *string          `json:"created_at,omitempty"`
	UpdatedAt  *string          `json:"updated_at,omitempty"`
	Artifacts  []SpellArtifact  `json:"artifacts,omitempty"`
}

// DeriveTradition maps school/sphere presence to a tradition. Empty
// strings count as absent.
func DeriveTradition(school, sphere *string) (Tradition, error) {
	hasSchool := school != nil && strings.TrimSpace(*school) != ""
	hasSphere := sphere != nil && strings.TrimSpace(*sphere) != ""
	switch {
	case hasSchool && hasSphere:
		return TraditionBoth, nil
	case hasSchool:
		return TraditionArcane, nil
	case hasSphere:
		return TraditionDivine, nil
	default:
		return "", errors.InvalidArgument("Cannot derive tradition: provide school and/or sphere")
	}
}

// ParseStringList reads a legacy list column: either a JSON string
// array or a comma separated string. Blank entries are dropped.
func ParseStringList(raw *string) []string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
			return list
		}
	}
	var out []string
	for _, item := range strings.Split(trimmed, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Normalize brings the record into canonical form: string modes
// applied, set fields sorted and deduped, defaults materialized, and
// every nested spec normalized. It is idempotent and never errors.
func (c *CanonicalSpell) Normalize() {
	if c == nil {
		return
	}
	c.Name = textnorm.Structured(c.Name)
	c.Description = textnorm.Textual(c.Description)
	if c.School != nil {
		school := textnorm.Structured(*c.School)
		c.School = &school
	}
	if c.Sphere != nil {
		sphere := textnorm.Structured(*c.Sphere)
		c.Sphere = &sphere
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}

	c.Subschools = normalizeSet(c.Subschools)
	c.Descriptors = normalizeSet(c.Descriptors)
	c.ClassList = normalizeSet(c.ClassList)
	c.Tags = normalizeSet(c.Tags)

	// Lean and explicit legacy rows must hash identically.
	if c.Reversible == nil {
		zero := int64(0)
		c.Reversible = &zero
	}
	if c.MaterialComponents == nil {
		c.MaterialComponents = []MaterialComponentSpec{}
	}
	for i := range c.MaterialComponents {
		c.MaterialComponents[i].Normalize()
	}
	if c.Components == nil {
		c.Components = &SpellComponents{}
	}

	c.Range.Normalize()
	c.CastingTime.Normalize()
	c.Duration.Normalize()
	c.Area.Normalize()
	c.Damage.Normalize()
	c.MagicResistance.Normalize()
	c.SavingThrow.Normalize()
	c.ExperienceCost.Normalize()

	// A present experience cost implies the experience component flag.
	if c.ExperienceCost != nil && c.ExperienceCost.Kind != ExperienceKindNone {
		c.Components.Experience = true
	}

	// Specs carrying no information are dropped so their absence and
	// their zero value canonicalize the same way.
	if c.MagicResistance.IsDefault() {
		c.MagicResistance = nil
	}
	if c.SavingThrow.IsDefault() {
		c.SavingThrow = nil
	}
	if c.ExperienceCost.IsDefault() {
		c.ExperienceCost = nil
	}
}

func normalizeSet(in []string) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = textnorm.Structured(s); s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return dedupStrings(out)
}
