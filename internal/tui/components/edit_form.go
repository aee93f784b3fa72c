package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/edit"
	"github.com/Veraticus/receipts/internal/filter"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

type fieldKind int

const (
	fieldStore fieldKind = iota
	fieldDate
	fieldCategory
	fieldSubtotal
	fieldTax
	fieldDiscount
	fieldTotal
	fieldItemName
	fieldItemQuantity
	fieldItemPrice
)

var headerLabels = map[fieldKind]string{
	fieldStore:    "Store",
	fieldDate:     "Date",
	fieldCategory: "Category",
	fieldSubtotal: "Subtotal",
	fieldTax:      "Tax",
	fieldDiscount: "Discount",
	fieldTotal:    "Total",
}

type formField struct {
	input textinput.Model
	kind  fieldKind
	line  int
}

// EditFormModel edits one receipt: header fields, then one row per line item.
type EditFormModel struct {
	theme      themes.Theme
	err        string
	categories []string
	fields     []formField
	form       edit.Form
	focus      int
	width      int
	height     int
	saving     bool
}

// NewEditForm creates a form populated from receipt. categories feeds the category selector.
func NewEditForm(receipt model.Receipt, categories []string, theme themes.Theme) EditFormModel {
	m := EditFormModel{
		theme:      theme,
		form:       edit.FromReceipt(receipt),
		categories: categories,
		width:      80,
		height:     24,
	}
	m.buildFields()
	m.focusField(0)
	return m
}

func newInput(value string, width int) textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 120
	input.Width = width
	input.SetValue(value)
	return input
}

// buildFields recreates the inputs from the form, e.g. after lines were added or removed.
func (m *EditFormModel) buildFields() {
	f := m.form
	m.fields = []formField{
		{kind: fieldStore, input: newInput(f.Store, 32)},
		{kind: fieldDate, input: newInput(f.Date, 12)},
		{kind: fieldCategory, input: newInput(f.Category, 20)},
		{kind: fieldSubtotal, input: newInput(f.Subtotal, 12)},
		{kind: fieldTax, input: newInput(f.Tax, 12)},
		{kind: fieldDiscount, input: newInput(f.Discount, 12)},
		{kind: fieldTotal, input: newInput(f.Total, 12)},
	}
	for i, l := range f.Lines {
		m.fields = append(m.fields,
			formField{kind: fieldItemName, line: i, input: newInput(l.Name, 28)},
			formField{kind: fieldItemQuantity, line: i, input: newInput(l.Quantity.String(), 6)},
			formField{kind: fieldItemPrice, line: i, input: newInput(l.UnitPrice.String(), 10)},
		)
	}
}

func (m *EditFormModel) focusField(i int) tea.Cmd {
	if len(m.fields) == 0 {
		return nil
	}
	i = (i%len(m.fields) + len(m.fields)) % len(m.fields)
	if m.focus < len(m.fields) {
		m.fields[m.focus].input.Blur()
	}
	m.focus = i
	return m.fields[i].input.Focus()
}

// Form returns the form as currently edited.
func (m EditFormModel) Form() edit.Form {
	return m.form
}

// Saving reports whether a save is in flight.
func (m EditFormModel) Saving() bool {
	return m.saving
}

// SetSaving marks a save as in flight or finished.
func (m *EditFormModel) SetSaving(saving bool) {
	m.saving = saving
}

// SetError shows message under the form.
func (m *EditFormModel) SetError(message string) {
	m.err = message
}

// Err returns the message shown under the form.
func (m EditFormModel) Err() string {
	return m.err
}

// Resize updates the component size.
func (m *EditFormModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m EditFormModel) Update(msg tea.Msg) (EditFormModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if len(m.fields) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
		return m, cmd
	}
	if m.saving {
		return m, nil
	}

	switch key.String() {
	case "esc":
		return m, func() tea.Msg { return EditCanceledMsg{} }
	case "ctrl+s":
		return m, m.submit()
	case "tab", "down", "enter":
		return m, m.focusField(m.focus + 1)
	case "shift+tab", "up":
		return m, m.focusField(m.focus - 1)
	case "ctrl+n":
		line := m.form.AddItem()
		m.buildFields()
		return m, m.focusField(m.firstFieldOfLine(line))
	case "ctrl+d":
		current := m.fields[m.focus]
		if current.kind < fieldItemName {
			return m, nil
		}
		_ = m.form.RemoveItem(current.line)
		m.buildFields()
		return m, m.focusField(min(m.focus, len(m.fields)-1))
	}

	current := &m.fields[m.focus]
	if current.kind == fieldCategory {
		m.cycleCategory(key.String())
		return m, nil
	}

	var cmd tea.Cmd
	current.input, cmd = current.input.Update(msg)
	m.apply(*current)
	m.err = ""
	return m, cmd
}

func (m *EditFormModel) cycleCategory(key string) {
	delta := 0
	switch key {
	case "left", "h":
		delta = -1
	case "right", "l", " ":
		delta = 1
	case "backspace", "delete":
		m.form.Category = ""
	}
	if delta != 0 {
		m.form.Category = filter.Cycle(m.categories, m.form.Category, delta)
	}
	m.fields[m.focus].input.SetValue(m.form.Category)
}

func (m EditFormModel) firstFieldOfLine(line int) int {
	for i, f := range m.fields {
		if f.kind == fieldItemName && f.line == line {
			return i
		}
	}
	return 0
}

// apply copies an input's value into the form.
func (m *EditFormModel) apply(f formField) {
	v := f.input.Value()
	switch f.kind {
	case fieldStore:
		m.form.Store = v
	case fieldDate:
		m.form.Date = v
	case fieldSubtotal:
		m.form.Subtotal = v
	case fieldTax:
		m.form.Tax = v
	case fieldDiscount:
		m.form.Discount = v
	case fieldTotal:
		m.form.Total = v
	case fieldItemName:
		_ = m.form.SetItemName(f.line, v)
	case fieldItemQuantity:
		_ = m.form.SetQuantity(f.line, v)
	case fieldItemPrice:
		_ = m.form.SetUnitPrice(f.line, v)
	}
}

// submit validates the form. Invalid forms show the first problem and never reach the network.
func (m *EditFormModel) submit() tea.Cmd {
	update, err := m.form.Payload()
	if err != nil {
		m.err = common.UserMessage(err, err.Error())
		return nil
	}
	m.err = ""
	m.saving = true
	id := m.form.ReceiptID
	return func() tea.Msg {
		return EditSubmittedMsg{ReceiptID: id, Update: update}
	}
}

// View renders the form.
func (m EditFormModel) View() string {
	var lines []string
	focusLine := 0

	lines = append(lines, m.theme.Title.Render(fmt.Sprintf("Edit receipt #%d", m.form.ReceiptID)), "")

	for i, f := range m.fields {
		if i == m.focus {
			focusLine = len(lines)
		}
		switch f.kind {
		case fieldItemName:
			if f.line == 0 {
				lines = append(lines, "", m.theme.Bold.Render(fmt.Sprintf("Items (%d)", len(m.form.Lines))))
				if i == m.focus {
					focusLine = len(lines)
				}
			}
			lines = append(lines, m.renderLine(i))
		case fieldItemQuantity, fieldItemPrice:
			if i == m.focus {
				focusLine = len(lines) - 1
			}
		default:
			lines = append(lines, m.renderHeaderField(i))
		}
	}

	if len(m.form.Lines) == 0 {
		lines = append(lines, "", m.theme.Faint.Render("No items. Press Ctrl+N to add one."))
	}

	lines = append(lines, "",
		m.theme.Faint.Render("Items total: ")+m.theme.Money.Render(model.FormatCurrency(m.form.ItemsTotal())))

	if m.err != "" {
		lines = append(lines, "", m.theme.StatusError.Render(m.err))
	}
	if m.saving {
		lines = append(lines, "", m.theme.StatusPending.Render("Saving..."))
	}
	lines = append(lines, "", m.theme.Faint.Render(
		"Tab/↓ next · Shift+Tab/↑ prev · ←/→ category · Ctrl+N add item · Ctrl+D remove item · Ctrl+S save · Esc cancel"))

	if m.height > 0 && len(lines) > m.height {
		start := max(0, min(focusLine-m.height/3, len(lines)-m.height))
		lines = lines[start : start+m.height]
	}
	return m.theme.BorderedBox.Width(max(40, m.width-2)).Render(strings.Join(lines, "\n"))
}

func (m EditFormModel) renderHeaderField(i int) string {
	f := m.fields[i]
	label := padRight(headerLabels[f.kind], 10)

	value := f.input.View()
	if f.kind == fieldCategory {
		value = "◀ " + categoryLabel(m.form.Category, "None") + " ▶"
	}
	if i == m.focus {
		return m.theme.StatusInfo.Render("› "+label) + " " + value
	}
	return "  " + m.theme.Faint.Render(label) + " " + value
}

func (m EditFormModel) renderLine(nameIdx int) string {
	name := m.fields[nameIdx]
	qty := m.fields[nameIdx+1]
	price := m.fields[nameIdx+2]

	marker := "  "
	if m.focus >= nameIdx && m.focus <= nameIdx+2 {
		marker = m.theme.StatusInfo.Render("› ")
	}

	total := lineTotal(m.form, name.line)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		marker,
		name.input.View(), "  ",
		m.theme.Faint.Render("qty "), qty.input.View(), "  ",
		m.theme.Faint.Render("@ "), price.input.View(), "  ",
		m.theme.Money.Render(model.FormatCurrency(total)),
	)
}

func lineTotal(f edit.Form, line int) decimal.Decimal {
	if line < 0 || line >= len(f.Lines) {
		return decimal.Zero
	}
	return f.Lines[line].LineTotal
}
