package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherklint97/mealr/internal/shopping"
)

const checklistVisible = 15

type checklistRow struct {
	store string
	item  shopping.LineItem
}

type checklistModel struct {
	rows     []checklistRow
	filtered []int // indices into rows
	checked  map[int]bool
	cursor   int
	filter   textinput.Model
	done     bool
	canceled bool
}

// ChecklistResult is what the shopper left on the list.
type ChecklistResult struct {
	Remaining shopping.List
	Checked   int
	Canceled  bool
}

// ChecklistApp wraps checklistModel for standalone use with tea.NewProgram.
type ChecklistApp struct {
	list   checklistModel
	result *ChecklistResult
}

func NewChecklistApp(list shopping.List) *ChecklistApp {
	return &ChecklistApp{list: newChecklist(list)}
}

func (a *ChecklistApp) Init() tea.Cmd {
	return a.list.Init()
}

func (a *ChecklistApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.list.Update(msg)
	a.list = m.(checklistModel)

	if a.list.done || a.list.canceled {
		a.result = a.list.Result()
		return a, tea.Quit
	}
	return a, cmd
}

func (a *ChecklistApp) View() string {
	return a.list.View()
}

func (a *ChecklistApp) GetResult() *ChecklistResult {
	return a.result
}

func newChecklist(list shopping.List) checklistModel {
	ti := textinput.New()
	ti.Placeholder = "Filter items..."
	ti.Focus()

	var rows []checklistRow
	for _, store := range list.Stores() {
		for _, item := range list[store] {
			rows = append(rows, checklistRow{store: store, item: item})
		}
	}
	filtered := make([]int, len(rows))
	for i := range rows {
		filtered[i] = i
	}

	return checklistModel{
		rows:     rows,
		filtered: filtered,
		checked:  make(map[int]bool),
		filter:   ti,
	}
}

func (m checklistModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m checklistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c":
			m.canceled = true
			return m, nil
		case "enter":
			m.done = true
			return m, nil
		case "tab":
			if len(m.filtered) > 0 {
				idx := m.filtered[m.cursor]
				if m.checked[idx] {
					delete(m.checked, idx)
				} else {
					m.checked[idx] = true
				}
			}
			return m, nil
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	prev := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != prev {
		m.applyFilter()
	}
	return m, cmd
}

func (m *checklistModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.filtered = m.filtered[:0]
	for i, r := range m.rows {
		if query == "" ||
			strings.Contains(strings.ToLower(r.item.Name), query) ||
			strings.Contains(strings.ToLower(r.store), query) {
			m.filtered = append(m.filtered, i)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

// remainingCost sums the cost of every unchecked priced row.
func (m checklistModel) remainingCost() float64 {
	var total float64
	for i, r := range m.rows {
		if !m.checked[i] && r.item.Cost != nil {
			total += *r.item.Cost
		}
	}
	return total
}

func (m checklistModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Shopping List"))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("  No items match filter"))
		b.WriteString("\n")
	} else {
		start := 0
		if m.cursor >= checklistVisible {
			start = m.cursor - checklistVisible + 1
		}
		end := min(start+checklistVisible, len(m.filtered))

		lastStore := ""
		for vi := start; vi < end; vi++ {
			idx := m.filtered[vi]
			row := m.rows[idx]

			if row.store != lastStore {
				b.WriteString(storeStyle.Render(row.store))
				b.WriteString("\n")
				lastStore = row.store
			}

			cursor := "  "
			if vi == m.cursor {
				cursor = "> "
			}
			check := "[ ]"
			if m.checked[idx] {
				check = "[x]"
			}

			label := itemLabel(row.item)
			switch {
			case vi == m.cursor:
				label = highlightStyle.Render(cursor+check+" ") + label
			case m.checked[idx]:
				label = dimStyle.Render(cursor + check + " " + label)
			default:
				label = cursor + check + " " + label
			}
			b.WriteString(label)
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"\n%d/%d checked · $%.2f left · Tab: toggle · Enter: done · Ctrl+C: cancel",
		len(m.checked), len(m.rows), m.remainingCost())))

	return b.String()
}

func itemLabel(item shopping.LineItem) string {
	label := item.Name
	if item.Quantity != 0 {
		label += " " + strings.TrimSpace(shopping.FormatQuantity(item.Quantity)+" "+item.Unit)
	}
	if item.Cost != nil {
		label += dimStyle.Render(fmt.Sprintf("  $%.2f", *item.Cost))
	}
	return label
}

func (m checklistModel) Result() *ChecklistResult {
	if m.canceled {
		return &ChecklistResult{Canceled: true}
	}
	remaining := make(shopping.List)
	for i, r := range m.rows {
		if !m.checked[i] {
			remaining[r.store] = append(remaining[r.store], r.item)
		}
	}
	return &ChecklistResult{Remaining: remaining, Checked: len(m.checked)}
}
