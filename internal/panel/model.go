package panel

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/lightctl/internal/device"
	"github.com/muurk/lightctl/internal/dispatch"
	"github.com/muurk/lightctl/internal/events"
	"github.com/muurk/lightctl/internal/field"
	"github.com/muurk/lightctl/internal/logging"
	"github.com/muurk/lightctl/internal/view"
)

// Status lines shown while the field list loads.
const (
	StatusConnecting = "Connecting, please wait..."
	StatusLoading    = "Loading, please wait..."
	StatusReady      = "Ready"
)

const (
	// DefaultFetchTimeout bounds the whole field list fetch, retries included.
	DefaultFetchTimeout = time.Minute

	// bigStep is how many slider steps pgup/pgdn move.
	bigStep = 10

	eventBuffer = 64
)

// Fetcher loads the controller's field list. *device.Client implements it.
type Fetcher interface {
	All(ctx context.Context) ([]field.Descriptor, error)
}

// Config wires a Model to a controller.
type Config struct {
	Fetcher    Fetcher
	Dispatcher *dispatch.Dispatcher

	// Bus carries status lines from Dispatcher and device-pushed changes.
	// It must be the bus Dispatcher publishes to.
	Bus *events.Bus

	// Target names the controller in the header.
	Target string

	PatternOrder []string
	ColorField   string
	FetchTimeout time.Duration
}

// Messages
type loadedMsg struct {
	descriptors []field.Descriptor
	err         error
}

type buildMsg struct{}

type busMsg struct {
	ev events.Event
}

// Model is the interactive control panel.
type Model struct {
	cfg   Config
	order []string

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model

	events    chan events.Event
	unforward func()

	descriptors []field.Descriptor
	panel       *view.Panel
	focus       int
	cursors     map[string]int
	editing     bool

	status  string
	level   events.StatusLevel
	loading bool
	loadErr error
	live    *events.LiveConnectionEvent

	width    int
	height   int
	quitting bool
}

// New creates a panel model. The field list is fetched from Init.
func New(cfg Config) Model {
	if cfg.Bus == nil {
		cfg.Bus = events.New()
	}
	if cfg.ColorField == "" {
		cfg.ColorField = field.NameSolidColor
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	order := cfg.PatternOrder
	if len(order) == 0 {
		order = field.DefaultPatternOrder
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	ti := textinput.New()
	ti.CharLimit = 16
	ti.Width = 10
	ti.Prompt = ""

	ch := make(chan events.Event, eventBuffer)

	return Model{
		cfg:       cfg,
		order:     order,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   s,
		input:     ti,
		events:    ch,
		unforward: cfg.Bus.Forward(ch),
		cursors:   make(map[string]int),
		status:    StatusConnecting,
		level:     events.StatusPending,
		loading:   true,
		width:     DefaultWidth,
		height:    DefaultHeight,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(), m.waitForEvent())
}

// Status returns the current status line.
func (m Model) Status() string {
	return m.status
}

// Panel returns the view tree, or nil before the field list has loaded.
func (m Model) Panel() *view.Panel {
	return m.panel
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		return m.handleLoaded(msg)

	case buildMsg:
		m.build()
		return m, nil

	case busMsg:
		m.handleEvent(msg.ev)
		return m, m.waitForEvent()

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) fetch() tea.Cmd {
	fetcher := m.cfg.Fetcher
	timeout := m.cfg.FetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		descriptors, err := fetcher.All(ctx)
		return loadedMsg{descriptors: descriptors, err: err}
	}
}

func (m Model) waitForEvent() tea.Cmd {
	ch := m.events
	return func() tea.Msg {
		return busMsg{ev: <-ch}
	}
}

func (m Model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		logging.Warn("Field list fetch failed", zap.Error(msg.err))
		m.loadErr = msg.err
		m.setStatus(events.StatusPending, StatusConnecting)
		return m, nil
	}

	m.loadErr = nil
	m.descriptors = msg.descriptors
	m.setStatus(events.StatusInfo, StatusLoading)
	return m, func() tea.Msg { return buildMsg{} }
}

// build replaces the view tree from the last fetched field list.
func (m *Model) build() {
	entries := field.Decode(m.descriptors)
	m.panel = view.Build(entries, m.order, m.cfg.ColorField)
	m.cursors = make(map[string]int)
	for _, c := range m.panel.Controls {
		m.syncCursor(c)
	}
	if m.focus >= len(m.panel.Controls) {
		m.focus = 0
	}

	logging.Info("Panel built",
		zap.Int("fields", len(m.descriptors)),
		zap.Int("controls", len(m.panel.Controls)),
	)
	m.setStatus(events.StatusSuccess, StatusReady)
}

// syncCursor parks a control's cursor on its highlighted item.
func (m *Model) syncCursor(c view.Control) {
	switch c := c.(type) {
	case *view.Toggle:
		if c.On() {
			m.cursors[c.Name()] = 0
		} else {
			m.cursors[c.Name()] = 1
		}
	case *view.PatternGrid:
		switch {
		case c.Active >= 0:
			m.cursors[c.Name()] = c.Active
		case m.cursors[c.Name()] >= len(c.Patterns):
			m.cursors[c.Name()] = 0
		}
	case *view.SwatchGrid:
		if c.Selected >= 0 {
			m.cursors[c.Name()] = c.Selected
		}
	}
}

func (m *Model) setStatus(level events.StatusLevel, text string) {
	m.status = text
	m.level = level
}

func (m *Model) handleEvent(ev events.Event) {
	switch e := ev.(type) {
	case events.StatusEvent:
		m.setStatus(e.Level, e.Text)

	case events.FieldChangedEvent:
		if e.Source != events.SourceDevice || m.panel == nil {
			return
		}
		if m.panel.Apply(e.Name, e.Value) {
			m.syncCursor(m.panel.Control(e.Name))
		}

	case events.LiveConnectionEvent:
		m.live = &e

	case events.PatternOrderChangedEvent:
		m.order = e.Order
		if len(m.order) == 0 {
			m.order = field.DefaultPatternOrder
		}
		if m.panel != nil && m.panel.Patterns != nil {
			m.panel.SetPatternOrder(m.order)
			m.syncCursor(m.panel.Patterns)
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.loadErr = nil
		m.setStatus(events.StatusPending, StatusConnecting)
		return m, m.fetch()
	}

	if m.panel == nil || len(m.panel.Controls) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.moveFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.moveFocus(-1)
		return m, nil
	}

	switch c := m.panel.Controls[m.focus].(type) {
	case *view.Toggle:
		return m.toggleKey(c, msg)
	case *view.Range:
		return m.rangeKey(c, msg)
	case *view.PatternGrid:
		return m.patternKey(c, msg)
	case *view.SwatchGrid:
		return m.swatchKey(c, msg)
	}
	return m, nil
}

func (m *Model) moveFocus(delta int) {
	n := len(m.panel.Controls)
	m.focus = ((m.focus+delta)%n + n) % n
}

// verticalFocus handles up/down on controls that have a single row.
func (m *Model) verticalFocus(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveFocus(-1)
		return true
	case key.Matches(msg, m.keys.Down):
		m.moveFocus(1)
		return true
	}
	return false
}

func (m Model) toggleKey(t *view.Toggle, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.verticalFocus(msg) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		m.cursors[t.Name()] = 0
	case key.Matches(msg, m.keys.Right):
		m.cursors[t.Name()] = 1
	case key.Matches(msg, m.keys.Select):
		value := t.Select(m.cursors[t.Name()] == 0)
		m.publishEdit(t.Name(), t.Field.Value)
		return m, m.postValue(t.Name(), value)
	}
	return m, nil
}

func (m Model) rangeKey(r *view.Range, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.verticalFocus(msg) {
		return m, nil
	}

	steps := 0
	switch {
	case key.Matches(msg, m.keys.Left):
		steps = -1
	case key.Matches(msg, m.keys.Right):
		steps = 1
	case key.Matches(msg, m.keys.BigLeft):
		steps = -bigStep
	case key.Matches(msg, m.keys.BigRight):
		steps = bigStep
	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Select):
		m.editing = true
		m.input.SetValue(r.Input)
		m.input.CursorEnd()
		return m, m.input.Focus()
	}

	if steps != 0 {
		m.cfg.Dispatcher.DelayPostValue(r.Name(), r.Nudge(steps))
		m.publishEdit(r.Name(), r.Field.Value)
	}
	return m, nil
}

// handleEditKey drives the numeric text input of the focused range.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r, ok := m.panel.Controls[m.focus].(*view.Range)
	if !ok {
		m.stopEditing()
		return m, nil
	}

	switch {
	case msg.Type == tea.KeyCtrlC:
		m.stopEditing()
		return m.quit()

	case key.Matches(msg, m.keys.Cancel):
		r.Preview(r.Value)
		m.stopEditing()
		return m, nil

	case msg.Type == tea.KeyEnter:
		m.stopEditing()
		value, err := r.SetInput(m.input.Value())
		if err != nil {
			m.setStatus(events.StatusFailure, "Fail: "+err.Error())
			return m, nil
		}
		m.cfg.Dispatcher.DelayPostValue(r.Name(), value)
		m.publishEdit(r.Name(), r.Field.Value)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	r.Type(m.input.Value())
	return m, cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.input.Blur()
}

// moveInGrid moves a grid cursor, handing focus to the neighbouring control
// when moving up from the first row or down from the last.
func (m *Model) moveInGrid(name string, rows [][]int, msg tea.KeyMsg) (moved bool) {
	cur := m.cursors[name]
	row, _ := view.Locate(rows, cur)

	switch {
	case key.Matches(msg, m.keys.Left):
		m.cursors[name] = view.Move(rows, cur, 0, -1)
	case key.Matches(msg, m.keys.Right):
		m.cursors[name] = view.Move(rows, cur, 0, 1)
	case key.Matches(msg, m.keys.Up):
		if row <= 0 {
			m.moveFocus(-1)
			return false
		}
		m.cursors[name] = view.Move(rows, cur, -1, 0)
	case key.Matches(msg, m.keys.Down):
		if row < 0 || row >= len(rows)-1 {
			m.moveFocus(1)
			return false
		}
		m.cursors[name] = view.Move(rows, cur, 1, 0)
	default:
		return false
	}
	return m.cursors[name] != cur
}

func (m Model) patternKey(g *view.PatternGrid, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Select) {
		name, ok := m.panel.SelectPattern(m.cursors[g.Name()])
		if !ok {
			return m, nil
		}
		m.publishEdit(g.Name(), g.Field.Value)
		return m, m.postValue(field.NamePatternName, name)
	}

	m.moveInGrid(g.Name(), m.patternRows(g), msg)
	return m, nil
}

// swatchKey selects as the cursor moves, so scrubbing across the palette
// previews colors on the strip. The color channel is debounced.
func (m Model) swatchKey(g *view.SwatchGrid, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Select) && !m.moveInGrid(g.Name(), m.swatchRows(g), msg) {
		return m, nil
	}

	rgb, ok := m.panel.SelectSwatch(m.cursors[g.Name()])
	if !ok {
		return m, nil
	}
	m.cfg.Dispatcher.DelayPostColor(g.Name(), rgb)
	return m, nil
}

func (m Model) postValue(name, value string) tea.Cmd {
	d := m.cfg.Dispatcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), device.DefaultTimeout)
		defer cancel()

		_ = d.PostValue(ctx, name, value)
		return nil
	}
}

// publishEdit tells other subscribers about a change the user made.
func (m Model) publishEdit(name string, value field.Value) {
	m.cfg.Bus.Publish(events.FieldChangedEvent{Name: name, Value: value, Source: events.SourceUser})
}

// quit sends any debounced edit still waiting so the last change is never
// lost, then exits.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Sequence(m.flush(), tea.Quit)
}

func (m Model) flush() tea.Cmd {
	d := m.cfg.Dispatcher
	unforward := m.unforward
	return func() tea.Msg {
		if n := d.Flush(); n > 0 {
			logging.Debug("Flushed pending updates", zap.Int("count", n))
		}
		unforward()
		return nil
	}
}
