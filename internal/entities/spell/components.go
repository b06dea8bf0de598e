package spell

// SpellComponents records which component categories a spell requires.
// All six flags always serialize so the canonical form is stable.
type SpellComponents struct {
	Verbal      bool `json:"verbal"`
	Somatic     bool `json:"somatic"`
	Material    bool `json:"material"`
	Focus       bool `json:"focus"`
	DivineFocus bool `json:"divine_focus"`
	Experience  bool `json:"experience"`
}

// None reports whether no component category is set.
func (c *SpellComponents) None() bool {
	return c == nil || !(c.Verbal || c.Somatic || c.Material || c.Focus ||
		c.DivineFocus || c.Experience)
}
