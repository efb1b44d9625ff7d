package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/mealr/internal/shopping"
)

func cost(v float64) *float64 { return &v }

func sampleList() shopping.List {
	return shopping.List{
		"Costco": {
			{Name: "Chicken Breast", Quantity: 2, Unit: "lb", Cost: cost(9.0)},
			{Name: "Eggs", Quantity: 1, Unit: "dozen", Cost: cost(4.10)},
		},
		shopping.StaplesBucket: {
			{Name: "paper towels", Cost: cost(6.49)},
		},
	}
}

func press(app *ChecklistApp, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = app.Update(k)
	}
	return cmd
}

var (
	toggle = tea.KeyMsg{Type: tea.KeyTab}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestChecklist_CheckAndFinish(t *testing.T) {
	app := NewChecklistApp(sampleList())

	press(app, toggle, down, toggle)
	assert.InDelta(t, 6.49, app.list.remainingCost(), 0.001)
	assert.Contains(t, app.View(), "[x]")
	assert.Contains(t, app.View(), "Costco")

	cmd := press(app, enter)
	require.NotNil(t, cmd)

	res := app.GetResult()
	require.NotNil(t, res)
	assert.False(t, res.Canceled)
	assert.Equal(t, 2, res.Checked)
	assert.Equal(t, shopping.List{shopping.StaplesBucket: {{Name: "paper towels", Cost: cost(6.49)}}}, res.Remaining)
}

func TestChecklist_Untoggle(t *testing.T) {
	app := NewChecklistApp(sampleList())
	press(app, toggle, toggle, enter)

	res := app.GetResult()
	require.NotNil(t, res)
	assert.Zero(t, res.Checked)
	assert.Equal(t, 3, res.Remaining.Len())
}

func TestChecklist_Filter(t *testing.T) {
	app := NewChecklistApp(sampleList())

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("towel")})
	assert.Equal(t, []int{2}, app.list.filtered)

	press(app, toggle, enter)
	res := app.GetResult()
	require.NotNil(t, res)
	assert.Equal(t, 2, res.Remaining.Len())
	assert.NotContains(t, res.Remaining, shopping.StaplesBucket)
}

func TestChecklist_FilterWithSpace(t *testing.T) {
	app := NewChecklistApp(sampleList())

	press(app,
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("chicken")},
		tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("breast")},
	)
	assert.Equal(t, "chicken breast", app.list.filter.Value())
	assert.Equal(t, []int{0}, app.list.filtered)
	assert.Empty(t, app.list.checked)

	press(app, toggle, enter)
	res := app.GetResult()
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Checked)
}

func TestChecklist_FilterNoMatch(t *testing.T) {
	app := NewChecklistApp(sampleList())
	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("caviar")})

	assert.Empty(t, app.list.filtered)
	assert.Contains(t, app.View(), "No items match filter")
	press(app, toggle)
	assert.Empty(t, app.list.checked)
}

func TestChecklist_Cancel(t *testing.T) {
	app := NewChecklistApp(sampleList())
	press(app, toggle, tea.KeyMsg{Type: tea.KeyCtrlC})

	res := app.GetResult()
	require.NotNil(t, res)
	assert.True(t, res.Canceled)
	assert.Nil(t, res.Remaining)
}
