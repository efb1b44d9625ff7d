package shopping

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memState struct {
	values map[string]string
	err    error
}

func newMemState() *memState { return &memState{values: make(map[string]string)} }

func (m *memState) GetState(key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.values[key], nil
}

func (m *memState) SetState(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func fixedCache(state StateStore) *Cache {
	c := NewCache(state, nil)
	c.now = func() time.Time { return time.Date(2026, 2, 23, 18, 0, 0, 0, time.UTC) }
	return c
}

func sampleBundle() Bundle {
	return Bundle{
		List: List{
			NoStoreAssigned: {{Name: "Chicken Breast", Quantity: 2, Unit: "lb", Cost: ptr(9.0), PriceSource: SourceKnown}},
			StaplesBucket:   {{Name: "paper towels"}},
		},
		Trace: Trace{
			"chicken breast": {{RecipeID: 1, RecipeName: "Roast Chicken", Date: monday, Slot: "Dinner", Quantity: 2, Unit: "lb"}},
		},
		Start:     monday,
		End:       "2026-03-01",
		UsePantry: true,
	}
}

func TestCache_RoundTrip(t *testing.T) {
	c := fixedCache(newMemState())
	in := sampleBundle()

	require.NoError(t, c.Save(in))
	out, err := c.Load()
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, in.List, out.List)
	assert.Equal(t, in.Trace, out.Trace)
	assert.Equal(t, in.Start, out.Start)
	assert.Equal(t, in.End, out.End)
	assert.True(t, out.UsePantry)
	assert.True(t, out.SavedAt.Equal(time.Date(2026, 2, 23, 18, 0, 0, 0, time.UTC)))
}

func TestCache_EmptySlot(t *testing.T) {
	out, err := fixedCache(newMemState()).Load()
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCache_Clear(t *testing.T) {
	c := fixedCache(newMemState())
	require.NoError(t, c.Save(sampleBundle()))
	require.NoError(t, c.Clear())

	out, err := c.Load()
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCache_UnparseablePayload(t *testing.T) {
	state := newMemState()
	state.values[cacheKey] = "{not json"

	out, err := fixedCache(state).Load()
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCache_NewerVersionIgnored(t *testing.T) {
	state := newMemState()
	state.values[cacheKey] = `{"version": 99, "shopping_data": {}}`

	out, err := fixedCache(state).Load()
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCache_StaleSourceTuplesDropped(t *testing.T) {
	state := newMemState()
	state.values[cacheKey] = `{
		"shopping_data": {"Costco": [{"name": "Rice", "quantity": 2, "unit": "bag"}]},
		"ingredient_sources": {
			"rice":   [[1, "Fried Rice", "2026-02-23", "Dinner", 2, "bag"]],
			"garlic": [[1, "Fried Rice", "2026-02-23", 2, "head"]],
			"onion":  [[1, "Fried Rice", "2026-02-23", "Dinner", 1, ""], [2, "Soup", "2026-02-24", "Lunch", "bad", ""]]
		},
		"start_date": "2026-02-23",
		"end_date": "2026-03-01",
		"use_pantry": false
	}`

	out, err := fixedCache(state).Load()
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, List{"Costco": {{Name: "Rice", Quantity: 2, Unit: "bag"}}}, out.List)
	assert.Contains(t, out.Trace, "rice")
	assert.NotContains(t, out.Trace, "garlic")
	require.Len(t, out.Trace["onion"], 1)
	assert.Equal(t, "Fried Rice", out.Trace["onion"][0].RecipeName)
	assert.False(t, out.UsePantry)
}

func TestCache_UnversionedTupleItems(t *testing.T) {
	state := newMemState()
	state.values[cacheKey] = `{
		"shopping_data": {
			"No Store Assigned": [["Chicken Breast", 2.0, "lb", null]],
			"Costco": [["Rice", 1.5, "bag", 4.25], ["paper towels", 0, "", 6.49]]
		},
		"ingredient_sources": {"rice": [[1, "Fried Rice", "2026-02-23", "Dinner", 1.5, "bag"]]},
		"start_date": "2026-02-23",
		"end_date": "2026-03-01",
		"use_pantry": true
	}`

	out, err := fixedCache(state).Load()
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, List{
		NoStoreAssigned: {{Name: "Chicken Breast", Quantity: 2, Unit: "lb"}},
		"Costco": {
			{Name: "Rice", Quantity: 1.5, Unit: "bag", Cost: ptr(4.25)},
			{Name: "paper towels", Quantity: 0, Unit: "", Cost: ptr(6.49)},
		},
	}, out.List)
	assert.Contains(t, out.Trace, "rice")
	assert.Contains(t, Format(out.List), "Estimated total: $10.74")
}

func TestCache_MalformedTupleItemIsMiss(t *testing.T) {
	state := newMemState()
	state.values[cacheKey] = `{"shopping_data": {"Costco": [["Rice", 1.5]]}}`

	out, err := fixedCache(state).Load()
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCache_StateErrors(t *testing.T) {
	state := newMemState()
	state.err = errors.New("disk full")
	c := fixedCache(state)

	require.Error(t, c.Save(sampleBundle()))
	_, err := c.Load()
	require.Error(t, err)
	require.Error(t, c.Clear())
}
