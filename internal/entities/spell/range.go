package spell

import (
	"regexp"
	"sort"

	"github.com/KirkDiggler/spellbook/internal/pkg/textnorm"
)

// RangeKind classifies how far a spell reaches.
type RangeKind string

// Range kinds
const (
	RangeKindPersonal         RangeKind = "personal"
	RangeKindTouch            RangeKind = "touch"
	RangeKindDistance         RangeKind = "distance"
	RangeKindDistanceLos      RangeKind = "distance_los"
	RangeKindDistanceLoe      RangeKind = "distance_loe"
	RangeKindLos              RangeKind = "los"
	RangeKindLoe              RangeKind = "loe"
	RangeKindSight            RangeKind = "sight"
	RangeKindHearing          RangeKind = "hearing"
	RangeKindVoice            RangeKind = "voice"
	RangeKindSenses           RangeKind = "senses"
	RangeKindSameRoom         RangeKind = "same_room"
	RangeKindSameStructure    RangeKind = "same_structure"
	RangeKindSameDungeonLevel RangeKind = "same_dungeon_level"
	RangeKindWilderness       RangeKind = "wilderness"
	RangeKindSamePlane        RangeKind = "same_plane"
	RangeKindInterplanar      RangeKind = "interplanar"
	RangeKindAnywhereOnPlane  RangeKind = "anywhere_on_plane"
	RangeKindDomain           RangeKind = "domain"
	RangeKindUnlimited        RangeKind = "unlimited"
	RangeKindSpecial          RangeKind = "special"
)

// RangeUnit is a linear distance unit. Magnitude-equivalent values in
// different units are distinct content ("1 yd" never collapses into
// "3 ft").
type RangeUnit string

// Range units
const (
	RangeUnitFt   RangeUnit = "ft"
	RangeUnitYd   RangeUnit = "yd"
	RangeUnitMi   RangeUnit = "mi"
	RangeUnitInch RangeUnit = "inch"
)

// RangeContext marks line-of-sight / line-of-effect requirements.
type RangeContext string

// Range contexts
const (
	RangeContextLos RangeContext = "los"
	RangeContextLoe RangeContext = "loe"
)

// RangeAnchor names the point a range is measured from.
type RangeAnchor string

// Range anchors
const (
	RangeAnchorCaster RangeAnchor = "caster"
	RangeAnchorTarget RangeAnchor = "target"
	RangeAnchorObject RangeAnchor = "object"
	RangeAnchorFixed  RangeAnchor = "fixed"
)

// RangeSpec is the structured form of a legacy range string.
type RangeSpec struct {
	Kind           RangeKind      `json:"kind"`
	Text           *string        `json:"text,omitempty"`
	Unit           *RangeUnit     `json:"unit,omitempty"`
	Distance       *Scalar        `json:"distance,omitempty"`
	Requires       []RangeContext `json:"requires,omitempty"`
	Anchor         *RangeAnchor   `json:"anchor,omitempty"`
	RegionUnit     *RegionUnit    `json:"region_unit,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
	RawLegacyValue *string        `json:"raw_legacy_value,omitempty"`
}

// Word-boundary unit aliases applied to display text so "100 yards" and
// "100 yd" normalize identically without touching words like "backyard".
var rangeUnitAliases = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`\byards\b`), "yd"},
	{regexp.MustCompile(`\byard\b`), "yd"},
	{regexp.MustCompile(`\byd\.`), "yd"},
	{regexp.MustCompile(`\bfeet\b`), "ft"},
	{regexp.MustCompile(`\bfoot\b`), "ft"},
	{regexp.MustCompile(`\bft\.`), "ft"},
	{regexp.MustCompile(`\bmiles\b`), "mi"},
	{regexp.MustCompile(`\bmile\b`), "mi"},
	{regexp.MustCompile(`\bmi\.`), "mi"},
	{regexp.MustCompile(`\binches\b`), "inch"},
	{regexp.MustCompile(`\binch\b`), "inch"},
	{regexp.MustCompile(`\bin\.\b`), "inch"},
}

// Normalize applies string modes, unit aliasing, context sorting, and
// scalar clamping. Total and idempotent.
func (r *RangeSpec) Normalize() {
	if r == nil {
		return
	}
	if r.Kind == "" {
		r.Kind = RangeKindSpecial
	}
	if r.Text != nil {
		text := textnorm.Structured(*r.Text)
		for _, alias := range rangeUnitAliases {
			text = alias.pattern.ReplaceAllString(text, alias.repl)
		}
		r.Text = &text
	}
	if r.Notes != nil {
		notes := textnorm.Textual(*r.Notes)
		r.Notes = &notes
	}
	if len(r.Requires) > 0 {
		sort.Slice(r.Requires, func(i, j int) bool {
			return rangeContextRank(r.Requires[i]) < rangeContextRank(r.Requires[j])
		})
		r.Requires = dedupRangeContexts(r.Requires)
	}
	r.Distance.Normalize()
}

// Canonical ordering is sight before effect, not lexical.
func rangeContextRank(c RangeContext) int {
	if c == RangeContextLos {
		return 0
	}
	return 1
}

func dedupRangeContexts(in []RangeContext) []RangeContext {
	out := in[:0]
	var prev RangeContext
	for i, c := range in {
		if i == 0 || c != prev {
			out = append(out, c)
		}
		prev = c
	}
	return out
}
