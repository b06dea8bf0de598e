package spell_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/spellbook/internal/entities/spell"
)

type SavingThrowSuite struct {
	suite.Suite
}

func TestSavingThrowSuite(t *testing.T) {
	suite.Run(t, new(SavingThrowSuite))
}

func (s *SavingThrowSuite) TestSingleSaveDefaults() {
	st := &spell.SavingThrowSpec{
		Kind:   spell.SavingThrowKindSingle,
		Single: &spell.SingleSave{},
	}
	st.Normalize()

	save := st.Single
	s.Equal(spell.SaveTypeSpell, save.SaveType)
	s.Equal(spell.SaveVsSpell, save.SaveVs)
	s.Equal(spell.SaveAppliesToEachTarget, save.AppliesTo)
	s.Equal(spell.SaveTimingOnEffect, save.Timing)
	s.Equal(spell.SaveResultNoEffect, save.OnSuccess.Result)
	s.Equal(spell.SaveResultNoEffect, save.OnFailure.Result)
}

func (s *SavingThrowSuite) TestMultipleListOrderIsPreserved() {
	st := &spell.SavingThrowSpec{
		Kind: spell.SavingThrowKindMultiple,
		Multiple: []spell.SingleSave{
			{ID: spell.String("Second  Save"), SaveVs: spell.SaveVsPoison},
			{ID: spell.String("First Save"), SaveVs: spell.SaveVsSpell},
		},
	}
	st.Normalize()

	// Multi-save sequences are ordered game logic.
	s.Equal("second save", *st.Multiple[0].ID)
	s.Equal("first save", *st.Multiple[1].ID)
}

func (s *SavingThrowSuite) TestIsDefault() {
	s.True((&spell.SavingThrowSpec{}).IsDefault())
	s.False((&spell.SavingThrowSpec{Kind: spell.SavingThrowKindSingle}).IsDefault())
	var nilSpec *spell.SavingThrowSpec
	s.True(nilSpec.IsDefault())
}
