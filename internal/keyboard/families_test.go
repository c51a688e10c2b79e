package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_BuiltInFamilies(t *testing.T) {
	qwerty, err := Lookup("qwerty")
	require.NoError(t, err)
	require.Len(t, qwerty.Levels, 2)
	assert.Equal(t, QWERTY, qwerty.Name)

	azerty, err := Lookup(" AZERTY ")
	require.NoError(t, err)
	require.Len(t, azerty.Levels, 3)

	assert.Contains(t, Names(), QWERTY)
	assert.Contains(t, Names(), AZERTY)
}

func TestLookup_UnknownFamily(t *testing.T) {
	_, err := Lookup("dvorak")
	assert.ErrorIs(t, err, ErrUnknownFamily)
}

func TestLookup_BuildsFreshCopies(t *testing.T) {
	a, err := Lookup(QWERTY)
	require.NoError(t, err)
	b, err := Lookup(QWERTY)
	require.NoError(t, err)
	assert.NotSame(t, a.Levels[0], b.Levels[0])
}

func TestFamily_FindUsesPriorityOrder(t *testing.T) {
	fam, err := Lookup(QWERTY)
	require.NoError(t, err)

	lower, err := fam.Find('a')
	require.NoError(t, err)
	assert.Same(t, fam.Levels[0], lower)

	upper, err := fam.Find('A')
	require.NoError(t, err)
	assert.Same(t, fam.Levels[1], upper)

	_, err = fam.Find('é')
	assert.ErrorIs(t, err, ErrUnknownCharacter)
	assert.False(t, fam.Contains(' '))
}

func TestFamily_AzertyLevels(t *testing.T) {
	fam, err := Lookup(AZERTY)
	require.NoError(t, err)

	cases := map[rune]int{
		'é': 0,
		'a': 0,
		'1': 1,
		'µ': 1,
		'@': 2,
		'€': 2,
	}
	for ch, level := range cases {
		got, err := fam.Find(ch)
		require.NoError(t, err, "%q", ch)
		assert.Same(t, fam.Levels[level], got, "%q", ch)
	}

	// '~' appears only on the alt level.
	got, err := fam.Find('~')
	require.NoError(t, err)
	assert.Same(t, fam.Levels[2], got)
}

func TestRegister_CustomFamily(t *testing.T) {
	Register("Tiny", GridBuilder("a b c\nd e f"))
	t.Cleanup(func() {
		Unregister("tiny")
	})

	fam, err := Lookup("tiny")
	require.NoError(t, err)
	require.Len(t, fam.Levels, 1)
	assert.True(t, fam.Contains('f'))
}
