package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/ruralcare/internal/care"
)

var (
	medicineCategories = []string{"all", "pain relief", "diabetes", "antibiotic"}
	stockSorts         = []string{"distance", "price", "stock"}
	pharmacyRadii      = []float64{0, 1, 5, 10, 25}
)

type stockMsg struct {
	stamp
	medicineID string
	stock      []care.Stock
	err        error
}

type medicineScreen struct {
	all      []care.Medicine
	shown    []care.Medicine
	category string
	sortBy   string
	search   searchBox
	cursor   int
	stockFor string
	stock    []care.Stock
	loaded   bool
}

func newMedicineScreen(m *Model) *medicineScreen {
	return &medicineScreen{
		category: "all",
		sortBy:   "distance",
		search:   newSearchBox(m.T("medicine.search")),
	}
}

func (s *medicineScreen) Title(m *Model) string { return m.T("medicine.title") }

func (s *medicineScreen) Scope() string {
	if s.search.focused {
		return scopeSearch
	}
	return scopeMedicine
}

func (s *medicineScreen) Capturing() bool { return s.search.focused }

func (s *medicineScreen) Init(m *Model) tea.Cmd {
	cat := m.deps.Catalog
	if cat == nil {
		return nil
	}
	return m.load("medicines", func(ctx context.Context) (any, error) { return cat.Medicines(ctx) })
}

// refilter reapplies the filters and asks for stock when the highlighted medicine changed.
func (s *medicineScreen) refilter(m *Model) tea.Cmd {
	s.shown = care.FilterMedicines(s.all, s.search.Value(), s.category)
	s.cursor = clamp(s.cursor, 0, len(s.shown)-1)
	return s.loadStock(m)
}

func (s *medicineScreen) loadStock(m *Model) tea.Cmd {
	if len(s.shown) == 0 {
		s.stockFor, s.stock = "", nil
		return nil
	}
	id := s.shown[s.cursor].ID
	if id == s.stockFor {
		return nil
	}
	s.stockFor, s.stock = id, nil
	cat := m.deps.Catalog
	if cat == nil {
		return nil
	}
	return m.run(func(ctx context.Context, st stamp) tea.Msg {
		stock, err := cat.Stock(ctx, id)
		return stockMsg{stamp: st, medicineID: id, stock: stock, err: err}
	})
}

func (s *medicineScreen) Update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dataMsg:
		if msg.err != nil {
			m.SetError(msg.err)
			return nil
		}
		s.all, _ = msg.data.([]care.Medicine)
		s.loaded = true
		return s.refilter(m)
	case stockMsg:
		if msg.medicineID != s.stockFor {
			return nil
		}
		if msg.err != nil {
			m.SetError(msg.err)
			return nil
		}
		s.stock = msg.stock
		care.SortStock(s.stock, s.sortBy)
	case tea.KeyMsg:
		if s.search.focused {
			cmd, changed := s.search.Update(m, msg)
			if changed {
				return tea.Batch(cmd, s.refilter(m))
			}
			return cmd
		}
		scope := scopeMedicine
		switch {
		case m.keys.IsAction(msg, "search", scope):
			return s.search.Focus()
		case m.keys.IsAction(msg, "down", scope):
			s.cursor = clamp(s.cursor+1, 0, len(s.shown)-1)
			return s.loadStock(m)
		case m.keys.IsAction(msg, "up", scope):
			s.cursor = clamp(s.cursor-1, 0, len(s.shown)-1)
			return s.loadStock(m)
		case m.keys.IsAction(msg, "filter", scope):
			s.category = cycle(medicineCategories, s.category)
			return s.refilter(m)
		case m.keys.IsAction(msg, "sort", scope):
			s.sortBy = cycle(stockSorts, s.sortBy)
			care.SortStock(s.stock, s.sortBy)
		case m.keys.IsAction(msg, "pharmacies", scope):
			return m.apply(m.router.OpenPharmacyLocator())
		}
	}
	return nil
}

func stockLabel(st care.StockStatus) string {
	switch st {
	case care.InStock:
		return okStyle.Render(string(st))
	case care.LowStock:
		return warnStyle.Render(string(st))
	}
	return errStyle.Render(string(st))
}

func (s *medicineScreen) View(m *Model, width, height int) string {
	head := s.search.View() + "\n" + mutedStyle.Render(fmt.Sprintf("%s: %s   %s: %s",
		m.T("medicine.category"), s.category, m.T("doctors.sort"), s.sortBy))
	if !s.loaded || len(s.shown) == 0 {
		return head
	}

	items := make([]string, len(s.shown))
	for i, med := range s.shown {
		items[i] = fmt.Sprintf("%-14s %-8s %s", med.Name, med.Strength, mutedStyle.Render(med.Category))
	}
	listW := max(30, width*2/5)
	list := box("", cursorLines(items, s.cursor, max(1, height-6)), listW, true)

	med := s.shown[s.cursor]
	var d strings.Builder
	d.WriteString(fmt.Sprintf("%s · %s · %s\n", med.GenericName, med.Form, med.Manufacturer))
	if med.Description != "" {
		d.WriteString(med.Description + "\n")
	}
	if len(med.SideEffects) > 0 {
		d.WriteString(mutedStyle.Render(m.T("medicine.sideEffects")+": ") + strings.Join(med.SideEffects, ", ") + "\n")
	}
	if len(med.Alternatives) > 0 {
		d.WriteString(mutedStyle.Render(m.T("medicine.alternatives")+": ") + strings.Join(med.Alternatives, ", ") + "\n")
	}
	d.WriteString("\n" + titleStyle.Render(m.T("medicine.stock")) + "\n")
	for _, st := range s.stock {
		d.WriteString(fmt.Sprintf("%-22s %4.1fkm  ₹%-4d %3d  %s\n",
			st.Pharmacy.Name, st.Pharmacy.DistanceKM, st.Price, st.Units, stockLabel(st.Status())))
	}
	detail := box(med.Name+" "+med.Strength, strings.TrimRight(d.String(), "\n"), max(20, width-listW), false)
	return lipgloss.JoinVertical(lipgloss.Left, head, lipgloss.JoinHorizontal(lipgloss.Top, list, detail))
}

type pharmacyScreen struct {
	all    []care.Pharmacy
	shown  []care.Pharmacy
	radius float64
	search searchBox
	table  table.Model
	loaded bool
}

func newPharmacyScreen(m *Model) *pharmacyScreen {
	t := table.New(
		table.WithColumns(pharmacyColumns(80)),
		table.WithFocused(true),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.Foreground(colorAccent).Bold(true)
	st.Selected = cursorStyle
	t.SetStyles(st)
	return &pharmacyScreen{
		radius: 10,
		search: newSearchBox(m.T("pharmacy.search")),
		table:  t,
	}
}

func pharmacyColumns(width int) []table.Column {
	name := max(16, width-48)
	return []table.Column{
		{Title: "Pharmacy", Width: name},
		{Title: "km", Width: 5},
		{Title: "★", Width: 4},
		{Title: "Status", Width: 8},
		{Title: "Phone", Width: 15},
		{Title: "✓", Width: 2},
	}
}

func (s *pharmacyScreen) Title(m *Model) string { return m.T("pharmacy.title") }

func (s *pharmacyScreen) Scope() string {
	if s.search.focused {
		return scopeSearch
	}
	return scopePharmacy
}

func (s *pharmacyScreen) Capturing() bool { return s.search.focused }

func (s *pharmacyScreen) Init(m *Model) tea.Cmd {
	cat := m.deps.Catalog
	if cat == nil {
		return nil
	}
	return m.load("pharmacies", func(ctx context.Context) (any, error) { return cat.Pharmacies(ctx) })
}

func (s *pharmacyScreen) refilter(m *Model) {
	s.shown = care.FilterPharmacies(s.all, s.search.Value(), s.radius)
	rows := make([]table.Row, len(s.shown))
	for i, p := range s.shown {
		open := m.T("pharmacy.closed")
		if p.Open {
			open = m.T("pharmacy.open")
		}
		verified := ""
		if p.Verified {
			verified = "✓"
		}
		rows[i] = table.Row{p.Name, fmt.Sprintf("%.1f", p.DistanceKM), fmt.Sprintf("%.1f", p.Rating), open, p.Phone, verified}
	}
	s.table.SetRows(rows)
	s.table.SetCursor(clamp(s.table.Cursor(), 0, len(rows)-1))
}

func (s *pharmacyScreen) Update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dataMsg:
		if msg.err != nil {
			m.SetError(msg.err)
			return nil
		}
		s.all, _ = msg.data.([]care.Pharmacy)
		s.loaded = true
		s.refilter(m)
	case tea.KeyMsg:
		if s.search.focused {
			cmd, changed := s.search.Update(m, msg)
			if changed {
				s.refilter(m)
			}
			return cmd
		}
		scope := scopePharmacy
		switch {
		case m.keys.IsAction(msg, "search", scope):
			return s.search.Focus()
		case m.keys.IsAction(msg, "radius", scope):
			s.radius = cycle(pharmacyRadii, s.radius)
			s.refilter(m)
		case m.keys.IsAction(msg, "down", scope):
			s.table.MoveDown(1)
		case m.keys.IsAction(msg, "up", scope):
			s.table.MoveUp(1)
		}
	}
	return nil
}

func (s *pharmacyScreen) View(m *Model, width, height int) string {
	radius := "∞"
	if s.radius > 0 {
		radius = fmt.Sprintf("%.0f km", s.radius)
	}
	head := s.search.View() + "\n" + mutedStyle.Render(m.T("pharmacy.radius")+": "+radius)
	if !s.loaded {
		return head
	}
	s.table.SetColumns(pharmacyColumns(width - 6))
	s.table.SetHeight(max(3, height/2))

	var detail string
	if len(s.shown) > 0 {
		p := s.shown[clamp(s.table.Cursor(), 0, len(s.shown)-1)]
		detail = box(p.Name, fmt.Sprintf("%s\n%s · %s\n%s",
			p.Address, p.OpenHours, p.Phone,
			mutedStyle.Render(strings.Join(p.Services, ", "))), width, false)
	}
	return lipgloss.JoinVertical(lipgloss.Left, head, box("", s.table.View(), width, true), detail)
}
