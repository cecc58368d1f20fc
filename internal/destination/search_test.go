package destination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/travelrec/internal/destination"
)

func sampleRecords() []destination.Record {
	return destination.Normalize(destination.Document{
		Countries: []destination.Country{
			{Name: "Australia", Cities: []destination.Place{{Name: "Sydney, Australia"}}},
			{Name: "Canada", Cities: []destination.Place{{Name: "Toronto, Canada"}}},
		},
		Temples: []destination.Place{{Name: "Angkor Wat, Cambodia"}},
	})
}

func TestFind_EmptyQueryReturnsFirst(t *testing.T) {
	records := sampleRecords()

	got, ok := destination.Find(records, "   ")
	require.True(t, ok)
	assert.Equal(t, 1, got.ID)
}

func TestFind_CaseInsensitiveSubstring(t *testing.T) {
	records := sampleRecords()

	got, ok := destination.Find(records, "CAMBO")
	require.True(t, ok)
	assert.Equal(t, "Angkor Wat, Cambodia", got.Name)

	got, ok = destination.Find(records, "toron")
	require.True(t, ok)
	assert.Equal(t, "Toronto", got.City)
}

func TestFind_FirstMatchInListOrder(t *testing.T) {
	records := sampleRecords()

	// "a" appears in every record; the first one wins.
	got, ok := destination.Find(records, "a")
	require.True(t, ok)
	assert.Equal(t, 1, got.ID)
}

func TestFind_NoMatch(t *testing.T) {
	_, ok := destination.Find(sampleRecords(), "atlantis")
	assert.False(t, ok)
}

func TestFind_EmptyList(t *testing.T) {
	_, ok := destination.Find(nil, "")
	assert.False(t, ok)
}

func TestDefault_Hint(t *testing.T) {
	got, ok := destination.Default(sampleRecords(), "Toronto")
	require.True(t, ok)
	assert.Equal(t, "Toronto", got.City)
}

func TestDefault_HintMissFallsBackToFirst(t *testing.T) {
	got, ok := destination.Default(sampleRecords(), "Oslo")
	require.True(t, ok)
	assert.Equal(t, 1, got.ID)
}

func TestDefault_NoHint(t *testing.T) {
	got, ok := destination.Default(sampleRecords(), "")
	require.True(t, ok)
	assert.Equal(t, 1, got.ID)

	_, ok = destination.Default(nil, "Toronto")
	assert.False(t, ok)
}

func TestByID(t *testing.T) {
	got, ok := destination.ByID(sampleRecords(), 3)
	require.True(t, ok)
	assert.Equal(t, destination.KindTemple, got.Kind)

	_, ok = destination.ByID(sampleRecords(), 42)
	assert.False(t, ok)
}
