package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"handla-cli/internal/events"
	"handla-cli/internal/model"
	"handla-cli/internal/mutate"
	"handla-cli/internal/reorder"
	"handla-cli/internal/shop"
	"handla-cli/internal/store"
)

type tab int

const (
	tabProducts tab = iota
	tabCategories
	tabOrder
	tabPresets
)

var tabNames = []string{"products", "categories", "order", "presets"}

func (t tab) String() string { return tabNames[t] }

func parseTab(s string) tab {
	for i, n := range tabNames {
		if n == s {
			return tab(i)
		}
	}
	return tabProducts
}

type inputMode int

const (
	inputNone inputMode = iota
	inputAddProduct
	inputDetails
	inputSavePreset
)

// changedMsg is delivered when a write published a change topic on the bus.
type changedMsg struct{ topic string }

type appModel struct {
	ctx     context.Context
	st      *store.Store
	bus     events.Bus
	changes chan string

	tab  tab
	snap shop.Snapshot

	products   list.Model
	categories list.Model
	order      list.Model
	presets    list.Model

	orderSeq *reorder.Sequence[model.Product]
	catSeq   *reorder.Sequence[model.Category]

	input     textinput.Model
	inputMode inputMode

	showDetails bool
	status      string
	statusErr   bool

	width  int
	height int
}

func newList() list.Model {
	l := list.New(nil, newCompactItemDelegate(), 80, 20)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

func newAppModel(ctx context.Context, st *store.Store, bus events.Bus) appModel {
	m := appModel{
		ctx:        ctx,
		st:         st,
		bus:        bus,
		changes:    make(chan string, 16),
		products:   newList(),
		categories: newList(),
		order:      newList(),
		presets:    newList(),
		orderSeq:   reorder.NewProducts(st, bus, nil),
		catSeq:     reorder.NewCategories(st, bus, nil),
		input:      textinput.New(),
	}
	m.input.CharLimit = model.MaxProductNameLen

	for _, topic := range []string{events.ProductsChanged, events.CategoriesChanged, events.PresetsChanged} {
		topic := topic
		ch := m.changes
		_ = bus.Subscribe(topic, func() {
			select {
			case ch <- topic:
			default:
				// A reload is already queued.
			}
		})
	}

	if ui, err := store.LoadUIState(st.Dir()); err == nil {
		m.tab = parseTab(ui.Tab)
		m.showDetails = ui.ShowDetails
		m.reload()
		m.selectProduct(ui.SelectedProduct)
	} else {
		m.reload()
	}
	return m
}

func waitForChange(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return changedMsg{topic: <-ch}
	}
}

func (m appModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// reload refetches everything. Pending (uncommitted) orders are kept.
func (m *appModel) reload() {
	snap, err := shop.Load(m.ctx, m.st)
	if err != nil {
		zap.L().Warn("reload failed", zap.Error(err))
		m.setError(err)
		return
	}
	m.snap = snap

	selected := m.selectedProduct()
	m.products.SetItems(groupedProductItems(snap.ByCategory()))
	if selected != nil {
		m.selectProduct(selected.Name)
	} else {
		m.skipHeader(1)
	}

	if !m.orderSeq.Pending() {
		m.orderSeq.Reset(snap.Products)
	}
	m.order.SetItems(positionalProductItems(m.orderSeq.Items()))

	if !m.catSeq.Pending() {
		m.catSeq.Reset(snap.Categories)
	}
	m.categories.SetItems(categoryItems(m.catSeq.Items(), snap.Products))
	m.presets.SetItems(presetItems(snap.Presets))
}

func (m *appModel) selectedProduct() *model.Product {
	if it, ok := m.products.SelectedItem().(productItem); ok {
		p := it.p
		return &p
	}
	return nil
}

func (m *appModel) selectProduct(name string) {
	if name == "" {
		m.skipHeader(1)
		return
	}
	for i, it := range m.products.Items() {
		if p, ok := it.(productItem); ok && p.p.Name == name {
			m.products.Select(i)
			return
		}
	}
	m.skipHeader(1)
}

// skipHeader moves the products cursor off a category heading in direction dir.
func (m *appModel) skipHeader(dir int) {
	items := m.products.Items()
	i := m.products.Index()
	for i >= 0 && i < len(items) {
		if _, ok := items[i].(headerItem); !ok {
			m.products.Select(i)
			return
		}
		i += dir
	}
	if dir > 0 {
		m.skipHeader(-1)
	}
}

func (m *appModel) saveUIState() {
	st := &store.UIState{Tab: m.tab.String(), ShowDetails: m.showDetails}
	if p := m.selectedProduct(); p != nil {
		st.SelectedProduct = p.Name
	}
	if err := store.SaveUIState(m.st.Dir(), st); err != nil {
		zap.L().Debug("save ui state", zap.Error(err))
	}
}

func (m *appModel) resize() {
	h := m.height - 4
	if m.inputMode != inputNone {
		h--
	}
	if h < 1 {
		h = 1
	}
	w := m.width
	if m.showDetails && m.tab == tabProducts {
		w = m.width * 3 / 5
	}
	setListSize(&m.products, w, h)
	setListSize(&m.categories, m.width, h)
	setListSize(&m.order, m.width, h)
	setListSize(&m.presets, m.width, h)
}

// setListSize resizes l and keeps the cursor on the same item.
func setListSize(l *list.Model, w, h int) {
	idx := l.Index()
	l.SetSize(w, h)
	if n := len(l.Items()); n > 0 {
		if idx >= n {
			idx = n - 1
		}
		l.Select(idx)
	}
}

func (m *appModel) activeList() *list.Model {
	switch m.tab {
	case tabCategories:
		return &m.categories
	case tabOrder:
		return &m.order
	case tabPresets:
		return &m.presets
	default:
		return &m.products
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case changedMsg:
		m.reload()
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		if m.inputMode != inputNone {
			return m.updateInput(msg)
		}
		if handled, cmd := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	l := m.activeList()
	prev := l.Index()
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	if m.tab == tabProducts && l.Index() != prev {
		dir := 1
		if l.Index() < prev {
			dir = -1
		}
		m.skipHeader(dir)
	}
	return m, cmd
}

func (m *appModel) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.saveUIState()
		return true, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % tab(len(tabNames))
		m.resize()
		return true, nil
	case "shift+tab":
		m.tab = (m.tab + tab(len(tabNames)) - 1) % tab(len(tabNames))
		m.resize()
		return true, nil
	case "1", "2", "3", "4":
		m.tab = tab(msg.String()[0] - '1')
		m.resize()
		return true, nil
	case "i":
		m.generate()
		return true, nil
	case "R":
		m.resetList()
		return true, nil
	}

	switch m.tab {
	case tabProducts:
		return m.handleProductKey(msg)
	case tabOrder:
		return m.handleOrderKey(msg)
	case tabCategories:
		return m.handleCategoryKey(msg)
	case tabPresets:
		return m.handlePresetKey(msg)
	}
	return false, nil
}

func (m *appModel) generate() {
	if !m.snap.Empty {
		m.setError(errors.New("the list is not empty (R deletes it first)"))
		return
	}
	seed, err := shop.DefaultSeed()
	if err == nil {
		err = shop.Init(m.ctx, m.st, seed)
	}
	if err != nil {
		m.setError(err)
		return
	}
	events.Publish(m.bus, events.CategoriesChanged, events.ProductsChanged)
	m.setStatus(fmt.Sprintf("generated %d products", len(seed.Products)))
}

func (m *appModel) resetList() {
	if err := shop.Reset(m.ctx, m.st); err != nil {
		m.setError(err)
		return
	}
	m.orderSeq.Reset(nil)
	m.catSeq.Reset(nil)
	events.Publish(m.bus, events.CategoriesChanged, events.ProductsChanged)
	m.setStatus("list deleted (presets kept)")
}

// mutated publishes a product change after a helper ran, or reports its error.
func (m *appModel) mutated(res mutate.Result, err error) {
	if err != nil {
		m.setError(err)
		return
	}
	if res.Changed {
		events.Publish(m.bus, events.ProductsChanged)
	}
}

func (m *appModel) handleProductKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	p := m.selectedProduct()
	switch msg.String() {
	case "a":
		m.startInput(inputAddProduct, "", "New product (Name or Name @ Category)")
		return true, textinput.Blink
	case "d":
		m.showDetails = !m.showDetails
		m.resize()
		return true, nil
	}
	if p == nil {
		return false, nil
	}
	switch msg.String() {
	case " ", "enter":
		m.mutated(mutate.ToggleComplete(m.ctx, m.st, p.Name, p.IsCompleted))
	case "+", "=":
		m.mutated(mutate.Increment(m.ctx, m.st, p.Name))
	case "-":
		m.mutated(mutate.Decrement(m.ctx, m.st, p.Name))
	case "x", "delete":
		if err := mutate.Delete(m.ctx, m.st, store.Items, p.Name); err != nil {
			m.setError(err)
		} else {
			events.Publish(m.bus, events.ProductsChanged)
			m.setStatus("deleted " + p.Name)
		}
	case "e":
		m.startInput(inputDetails, p.Details, "Details")
		return true, textinput.Blink
	case "c":
		m.mutated(mutate.UpdateImage(m.ctx, m.st, p.Name, ""))
	default:
		return false, nil
	}
	return true, nil
}

// dragNeighbour turns a one-step keyboard move into the drag-end event a pointer drag
// would produce: the item at index idx dropped on its neighbour.
func dragNeighbour(ids []int, idx, dir int) (reorder.DragEvent, bool) {
	to := idx + dir
	if idx < 0 || idx >= len(ids) || to < 0 || to >= len(ids) {
		return reorder.DragEvent{}, false
	}
	return reorder.DragEvent{Active: ids[idx], Over: ids[to]}, true
}

func (m *appModel) handleOrderKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "K", "shift+up", "J", "shift+down":
		dir := 1
		if k := msg.String(); k == "K" || k == "shift+up" {
			dir = -1
		}
		idx := m.order.Index()
		ev, ok := dragNeighbour(reorder.ProductIDs(m.orderSeq), idx, dir)
		if !ok {
			return true, nil
		}
		if _, err := m.orderSeq.DragEnd(ev); err != nil {
			m.setError(err)
			return true, nil
		}
		m.order.SetItems(positionalProductItems(m.orderSeq.Items()))
		m.order.Select(idx + dir)
	case "u":
		if err := m.orderSeq.Commit(m.ctx); err != nil {
			m.setError(err)
			return true, nil
		}
		m.setStatus("order updated")
	case "esc":
		m.orderSeq.Reset(m.snap.Products)
		m.order.SetItems(positionalProductItems(m.orderSeq.Items()))
		m.setStatus("changes discarded")
	case "s":
		m.startInput(inputSavePreset, "", "Preset name")
		return true, textinput.Blink
	default:
		return false, nil
	}
	return true, nil
}

func (m *appModel) handleCategoryKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "K", "shift+up", "J", "shift+down":
		dir := 1
		if k := msg.String(); k == "K" || k == "shift+up" {
			dir = -1
		}
		items := m.catSeq.Items()
		ids := make([]int, 0, len(items))
		for _, c := range items {
			ids = append(ids, c.ID)
		}
		idx := m.categories.Index()
		ev, ok := dragNeighbour(ids, idx, dir)
		if !ok {
			return true, nil
		}
		if _, err := m.catSeq.DragEnd(ev); err != nil {
			m.setError(err)
			return true, nil
		}
		m.categories.SetItems(categoryItems(m.catSeq.Items(), m.snap.Products))
		m.categories.Select(idx + dir)
	case "u":
		if err := m.catSeq.Commit(m.ctx); err != nil {
			m.setError(err)
			return true, nil
		}
		m.setStatus("categories updated")
	case "esc":
		m.catSeq.Reset(m.snap.Categories)
		m.categories.SetItems(categoryItems(m.catSeq.Items(), m.snap.Products))
	default:
		return false, nil
	}
	return true, nil
}

func (m *appModel) handlePresetKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	it, ok := m.presets.SelectedItem().(presetItem)
	if !ok {
		return false, nil
	}
	switch msg.String() {
	case "enter":
		if _, err := reorder.ApplyPreset(m.ctx, m.st, it.p.Name, m.orderSeq); err != nil {
			m.setError(err)
			return true, nil
		}
		m.order.SetItems(positionalProductItems(m.orderSeq.Items()))
		m.order.Select(0)
		m.tab = tabOrder
		m.resize()
		m.setStatus("preset " + it.p.Name + " selected; u to apply")
	case "x", "delete":
		if err := reorder.DeletePreset(m.ctx, m.st, m.bus, it.p.Name); err != nil {
			m.setError(err)
			return true, nil
		}
		m.setStatus("deleted preset " + it.p.Name)
	default:
		return false, nil
	}
	return true, nil
}

func (m *appModel) startInput(mode inputMode, value, placeholder string) {
	m.inputMode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	m.resize()
}

func (m *appModel) stopInput() {
	m.inputMode = inputNone
	m.input.Blur()
	m.input.SetValue("")
	m.resize()
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopInput()
		return m, nil
	case "enter":
		m.submitInput(m.input.Value())
		m.stopInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) submitInput(value string) {
	switch m.inputMode {
	case inputAddProduct:
		name, category := value, ""
		if i := strings.LastIndex(value, "@"); i >= 0 {
			name, category = value[:i], strings.TrimSpace(value[i+1:])
		}
		added, err := mutate.AddProduct(m.ctx, m.st, model.Product{
			Name:        name,
			CategoryKey: model.CategoryName(category),
			Amount:      1,
		})
		if err != nil {
			m.setError(err)
			return
		}
		events.Publish(m.bus, events.ProductsChanged)
		m.setStatus("added " + added.Name)
	case inputDetails:
		if p := m.selectedProduct(); p != nil {
			m.mutated(mutate.SetDetails(m.ctx, m.st, p.Name, value))
		}
	case inputSavePreset:
		p, err := reorder.SavePreset(m.ctx, m.st, m.bus, value, m.orderSeq)
		if err != nil {
			m.setError(err)
			return
		}
		m.setStatus("saved preset " + p.Name)
	}
}

func (m appModel) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	body := m.activeList().View()
	if m.tab == tabProducts && m.snap.Empty {
		body = styleMuted().Render("The list is empty. Press i to generate the default list, a to add a product.")
	} else if m.tab == tabProducts && m.showDetails {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.detailsView(m.width-m.products.Width()-1))
	}
	b.WriteString(body)
	b.WriteString("\n")

	if m.inputMode != inputNone {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(m.helpText()))
	return b.String()
}

func (m appModel) headerView() string {
	tabs := make([]string, 0, len(tabNames))
	for i, n := range tabNames {
		label := n
		if (tab(i) == tabOrder && m.orderSeq.Pending()) || (tab(i) == tabCategories && m.catSeq.Pending()) {
			label += "*"
		}
		tabs = append(tabs, styleTab(tab(i) == m.tab).Render(label))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if total, done, pct, ok := shop.Progress(m.snap.Products); ok {
		line += "  " + lipgloss.NewStyle().Foreground(colorDone).Render(fmt.Sprintf("%d/%d done (%d%%)", done, total, pct))
	}
	return line
}

func (m appModel) detailsView(width int) string {
	p := m.selectedProduct()
	if p == nil || width < 12 {
		return ""
	}
	var md strings.Builder
	fmt.Fprintf(&md, "## %s\n\n", p.Name)
	fmt.Fprintf(&md, "- **Amount:** %d\n", p.Amount)
	if p.Category != nil {
		fmt.Fprintf(&md, "- **Category:** %s\n", p.Category.Name)
	}
	if p.HasImg {
		fmt.Fprintf(&md, "- **Image:** %s\n", humanize.Bytes(uint64(mutate.ImageSize(p.UploadedImg))))
	}
	if p.Details != "" {
		fmt.Fprintf(&md, "\n%s\n", p.Details)
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(renderMarkdown(md.String(), width-1))
}

func (m appModel) statusView() string {
	if m.status == "" {
		return ""
	}
	st := lipgloss.NewStyle().Foreground(colorPending)
	if m.statusErr {
		st = lipgloss.NewStyle().Foreground(colorError)
	}
	return st.Render(m.status)
}

func (m appModel) helpText() string {
	if m.inputMode != inputNone {
		return "enter save · esc cancel"
	}
	switch m.tab {
	case tabOrder:
		return "K/J move · u update order · s save preset · esc discard · tab switch · q quit"
	case tabCategories:
		return "K/J move · u update order · esc discard · tab switch · q quit"
	case tabPresets:
		return "enter select preset · x delete · tab switch · q quit"
	default:
		return "space toggle · +/- amount · e details · d panel · a add · x delete · c clear image · i generate · R delete all · q quit"
	}
}
