package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"labbatch/internal/batch"
	"labbatch/internal/config"
	"labbatch/internal/domain"
	"labbatch/internal/eventbus"
	"labbatch/internal/store"
	"labbatch/internal/ui/commands"
	"labbatch/internal/ui/input"
	inputtypes "labbatch/internal/ui/input/types"
	"labbatch/internal/ui/services/selection"
	"labbatch/internal/ui/state"
	"labbatch/internal/ui/views"
)

// Options wires a Model to its collaborators
type Options struct {
	Config      *config.Config
	Store       store.ItemStore
	Handlers    batch.Handlers
	Bus         eventbus.EventBus // optional
	SeedChanges <-chan string     // optional, paths from a seed watcher
	Context     context.Context
	Now         func() time.Time
}

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	state  *state.AppState // centralized state
	kind   domain.Kind
	noun   string

	// UI-specific state not in AppState
	width       int
	height      int
	help        help.Model
	inPagerMode bool // tracks if we're currently in pager mode

	engine       *batch.Engine
	selection    *selection.Service
	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	helpOps      *HelpOps
	cmdExecutor  *commands.Executor
	inputHandler *input.Handler
	inputCtx     *input.ModelContext
	seedChanges  <-chan string
	now          func() time.Time

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(opts Options) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	appState := state.NewAppState()
	appState.ShowArchived = cfg.UISettings.ShowArchived
	appState.Loading = opts.Store != nil

	m := &Model{
		bus:          opts.Bus,
		config:       cfg,
		state:        appState,
		kind:         cfg.ItemKind(),
		noun:         cfg.Noun(),
		help:         help.New(),
		renderer:     views.NewRenderer(),
		helpOps:      NewHelpOps(nil),
		inputHandler: input.New(),
		seedChanges:  opts.SeedChanges,
		now:          now,
	}
	m.selection = selection.NewService(appState.VisibleIDs)

	engineOpts := batch.Options{
		Catalog:    catalog,
		Handlers:   opts.Handlers,
		View:       m.selection,
		ItemType:   m.noun,
		Categories: cfg.Categories,
		Now:        now,
	}
	if opts.Bus != nil {
		engineOpts.Publisher = opts.Bus
	}
	m.engine, err = batch.New(engineOpts)
	if err != nil {
		return nil, err
	}

	m.helpRenderer = NewHelpRenderer(catalog, m.noun)
	m.cmdExecutor = commands.NewExecutor(ctx, opts.Store, m.kind, now)
	m.inputCtx = &input.ModelContext{
		State:     appState,
		Selection: m.selection,
		Engine:    m.engine,
	}
	return m, nil
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.cmdExecutor.ExecuteLoad(), m.waitForSeed())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - 4
		m.updateViewportHeight()
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleOverlayKey(msg); handled {
			return m, cmd
		}

		actions, cmd := m.inputHandler.HandleKey(msg, m.inputCtx)

		cmds := []tea.Cmd{cmd}
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action))
		}
		cmds = append(cmds, m.syncMode())
		return m, tea.Batch(cmds...)

	default:
		model, cmd := m.handleNonKeyboardMsg(msg)
		// cursor blink and friends for the text input
		return model, tea.Batch(cmd, m.inputHandler.Update(msg))
	}
}

// handleNonKeyboardMsg handles results coming back from commands
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case commands.ItemsLoadedMsg:
		m.state.Loading = false
		if msg.Err != nil {
			log.Printf("Failed to load %s: %v", m.noun, msg.Err)
			m.state.StatusMessage = fmt.Sprintf("Failed to load %s: %v", m.noun, msg.Err)
			return m, nil
		}
		m.state.StatusMessage = ""
		m.state.SetItems(msg.Items)
		m.selection.Prune()
		return m, nil

	case commands.InvocationDoneMsg:
		out, err := m.engine.Settle(msg.Invocation, msg.Err)
		if err != nil {
			log.Printf("Dropping result: %v", err)
			return m, nil
		}
		if out.Err != nil {
			log.Printf("Batch %s failed: %v", out.Op, out.Err)
		}
		return m, tea.Batch(m.settled(out)...)

	case commands.UndoDoneMsg:
		out, err := m.engine.SettleUndo(msg.Invocation, msg.Err)
		if err != nil {
			log.Printf("Dropping undo result: %v", err)
			return m, nil
		}
		if out.Err != nil {
			log.Printf("Undo of %s failed: %v", msg.Invocation.Entry.ID, out.Err)
		}
		return m, tea.Batch(m.settled(out)...)

	case commands.NoticeExpiredMsg:
		m.engine.DismissNotice(msg.ID)
		return m, nil

	case commands.UndoExpiredMsg:
		expired := m.engine.ExpireUndo(msg.ID)
		// entries whose own tick was lost
		for _, entry := range m.engine.SweepUndo() {
			log.Printf("Undo entry %s expired without its tick", entry.ID)
		}
		if expired {
			return m, nil
		}
		// not due yet, e.g. the tick fired early
		for _, entry := range m.engine.UndoEntries() {
			if entry.ID == msg.ID {
				return m, m.cmdExecutor.ScheduleUndoExpiry(entry)
			}
		}
		return m, nil

	case seedChangedMsg:
		log.Printf("Seed file changed: %s", msg.path)
		return m, tea.Batch(m.cmdExecutor.ExecuteSeed(msg.path), m.waitForSeed())

	case seedClosedMsg:
		m.seedChanges = nil
		return m, nil

	case commands.SeedImportedMsg:
		if msg.Err != nil {
			log.Printf("Seed import failed: %v", msg.Err)
			return m, m.notify(fmt.Sprintf("Seed reload failed: %v", msg.Err), batch.LevelError)
		}
		if m.bus != nil {
			m.bus.Publish(eventbus.SeedReloadedEvent{Path: msg.Path, Count: msg.Count})
		}
		return m, tea.Batch(
			m.notify(fmt.Sprintf("Reloaded %d %s from seed file", msg.Count, m.noun), batch.LevelInfo),
			m.reload(),
		)

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case helpPagerMsg:
		m.inPagerMode = false
		if msg.err != nil {
			log.Printf("Help pager failed: %v", msg.err)
			m.state.ShowHelp = true
			m.state.HelpScrollOffset = 0
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case tickMsg:
		if m.engine.Busy() || m.state.Loading {
			return m, m.tick()
		}
		return m, nil
	}
	return m, nil
}

// handleEvent processes domain events forwarded from the bus
func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.ItemsChangedEvent:
		if e.Kind == m.kind || e.Kind == "" {
			return m.reload()
		}
	case eventbus.ErrorEvent:
		text := e.Message
		if e.Err != nil {
			text = fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return m.notify(text, batch.LevelError)
	}
	return nil
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	items := make([]*domain.Item, 0, len(m.state.OrderedItems))
	for _, id := range m.state.OrderedItems {
		items = append(items, m.state.Items[id])
	}

	vs := views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Title:          "labbatch · " + m.noun,
		ItemType:       m.noun,
		Items:          items,
		IsChecked:      m.selection.IsSelected,
		Selection:      m.selection.Selection(),
		SelectedIndex:  m.state.SelectedIndex,
		ViewportOffset: m.state.ViewportOffset,
		ViewportHeight: m.state.ViewportHeight,
		Loading:        m.state.Loading,
		Busy:           m.engine.Busy(),
		ShowArchived:   m.state.ShowArchived,
		StatusMessage:  m.state.StatusMessage,
		HelpModel:      m.help,
		Keys:           inputtypes.Keys,
	}
	if notice, ok := m.engine.Notice(); ok {
		vs.Notice = &notice
	}
	if !vs.Busy && m.engine.UndoVisible() {
		if head, ok := m.engine.UndoHead(); ok {
			vs.UndoHint = head.Description
		}
	}
	vs.Dialog = m.renderDialog(vs.Selection)
	if vs.Dialog == "" {
		vs.Popup = m.renderPopup()
	}
	return m.renderer.Render(vs)
}

func (m *Model) renderDialog(sel batch.Selection) string {
	d := m.renderer.Dialogs()
	summary := batch.SelectionSummary(sel, m.noun)

	switch m.inputHandler.CurrentMode() {
	case inputtypes.ModeMenu:
		return d.RenderMenu(m.engine.Catalog().Descriptors(), m.inputHandler.Cursor(), summary)
	}

	pending, ok := m.engine.Pending()
	if !ok {
		return ""
	}
	if m.engine.Busy() {
		// the dialog stays up, inert, until the handler settles
		switch {
		case pending.Op.RequiresConfirmation:
			return d.RenderBusy(pending.Op, batch.ConfirmText(pending.Op, sel.Count(), m.noun))
		case pending.Op.RequiresInput:
			return d.RenderBusy(pending.Op, summary)
		}
		return ""
	}
	switch m.inputHandler.CurrentMode() {
	case inputtypes.ModeConfirm:
		return d.RenderConfirm(pending.Op, batch.ConfirmText(pending.Op, sel.Count(), m.noun))
	case inputtypes.ModeTag:
		in, _ := pending.Input.(*batch.TagInput)
		field := ""
		if ti := m.inputHandler.TextInput(); ti != nil {
			field = ti.View()
		}
		var tags []string
		if in != nil {
			tags = in.Tags()
		}
		return d.RenderTagInput(tags, field, summary)
	case inputtypes.ModeMove:
		if in, ok := pending.Input.(*batch.MoveInput); ok {
			return d.RenderMoveInput(in.Options, m.inputHandler.Cursor(), in.Target(), summary)
		}
	case inputtypes.ModeExport:
		if in, ok := pending.Input.(*batch.ExportInput); ok {
			return d.RenderExportInput(in.Format, summary)
		}
	}
	return ""
}

func (m *Model) renderPopup() string {
	switch {
	case m.state.ShowHelp:
		return m.helpRenderer.renderHelpContent(m.height, m.state.HelpScrollOffset)
	case m.state.ShowHistory:
		return m.renderer.Dialogs().RenderUndoHistory(m.engine.UndoEntries(), m.now())
	case m.state.ShowPreview:
		return m.renderer.Dialogs().RenderPreview(m.state.CurrentItem())
	}
	return ""
}

// updateViewportHeight sizes the list to what is left after the chrome
func (m *Model) updateViewportHeight() {
	// padding 2, title 2, header 2, scroll hint 1, footer up to 4
	h := m.height - 11
	if h < 1 {
		h = 1
	}
	m.state.ViewportHeight = h
	m.state.EnsureVisible()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) waitForSeed() tea.Cmd {
	ch := m.seedChanges
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return seedClosedMsg{}
		}
		return seedChangedMsg{path: path}
	}
}
