package exam

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFamily(t *testing.T) {
	require.Equal(t, FamilyIELTS, ParseFamily("ielts"))
	require.Equal(t, FamilyIELTS, ParseFamily("  IELTS "))
	require.Equal(t, FamilyTOEFL, ParseFamily("TOEFL"))
	require.Equal(t, FamilyGMAT, ParseFamily("gmat"))
	require.Equal(t, FamilySAT, ParseFamily("SAT"))
	require.Equal(t, FamilyACT, ParseFamily("act"))
	require.Equal(t, FamilyOther, ParseFamily("7"))
	require.Equal(t, FamilyOther, ParseFamily(""))
}

func TestScoreRanges(t *testing.T) {
	ielts := FamilyIELTS.Range()
	require.True(t, ielts.Decimal)
	require.True(t, FamilyIELTS.ValidScore(6.5))
	require.False(t, FamilyIELTS.ValidScore(9.5))

	toefl := FamilyTOEFL.Range()
	require.False(t, toefl.Decimal)
	require.True(t, FamilyTOEFL.ValidScore(87))
	require.False(t, FamilyTOEFL.ValidScore(101))
	require.False(t, FamilyTOEFL.ValidScore(-1))
}

func TestRubricAlwaysPresent(t *testing.T) {
	for _, family := range []Family{FamilyIELTS, FamilyTOEFL, FamilyGMAT, FamilySAT, FamilyACT, FamilyOther} {
		require.NotEmpty(t, family.Rubric())
	}
	require.Equal(t, rubrics[FamilyOther], Family("bogus").Rubric())
}
