// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumen-analytics/lumen/lib/filterbar"
	"github.com/lumen-analytics/lumen/lib/layout"
	"github.com/lumen-analytics/lumen/lib/poll"
	"github.com/lumen-analytics/lumen/lib/prefs"
	"github.com/lumen-analytics/lumen/lib/query"
	"github.com/lumen-analytics/lumen/lib/sources"
)

// FocusRegion identifies what receives keyboard input.
type FocusRegion int

const (
	// FocusPanel means keys drive the panel and the global shortcuts.
	FocusPanel FocusRegion = iota
	// FocusDropdown means the filter dropdown is open and captures
	// all input until an item is chosen or it is dismissed.
	FocusDropdown
	// FocusPicker means keystrokes go to the filter-selection input.
	FocusPicker
	// FocusMore means the "see more" list is showing.
	FocusMore
)

// maxHistory bounds the back stack.
const maxHistory = 64

// pollCallback names the model's registration on the poll timer.
const pollCallback = "sources"

// Options configures a Model.
type Options struct {
	// Context bounds every fetch and store call. Nil uses
	// context.Background.
	Context context.Context

	// Site is the site domain shown and persisted against.
	Site string

	// Query is the initial query.
	Query query.Query

	// Fetcher produces the panel rows.
	Fetcher *sources.Fetcher

	// Store persists the tab selection.
	Store prefs.Store

	// Poll, when set, refreshes the panel on every tick. The caller
	// starts and stops the timer.
	Poll *poll.Timer

	// CompactWidth is the column width at or below which active
	// filters always collapse. Zero uses layout.DefaultBreakpoint.
	CompactWidth int

	// MoreLimit is the row limit of the "see more" list. Zero uses
	// DefaultMoreLimit.
	MoreLimit int

	Theme  *Theme
	Keys   *KeyMap
	Logger *slog.Logger
}

// Model is the top-level bubbletea model for the dashboard.
type Model struct {
	ctx       context.Context
	site      string
	fetcher   *sources.Fetcher
	store     prefs.Store
	theme     Theme
	keys      KeyMap
	logger    *slog.Logger
	moreLimit int

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	query   query.Query
	history []query.Query

	detector      *layout.Detector
	dropdownState filterbar.Dropdown
	dropdown      DropdownOverlay
	picker        picker
	focus         FocusRegion

	panel     panel
	tabLoaded bool
	guard     *sources.Guard
	more      moreView
	moreGuard *sources.Guard

	poll      *poll.Timer
	pollTicks chan struct{}

	// Status line message from the log handler.
	status       string
	statusLevel  slog.Level
	statusSerial int
}

// NewModel creates the dashboard model.
func NewModel(options Options) Model {
	ctx := options.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	theme := DefaultTheme
	if options.Theme != nil {
		theme = *options.Theme
	}
	keys := DefaultKeyMap
	if options.Keys != nil {
		keys = *options.Keys
	}
	moreLimit := options.MoreLimit
	if moreLimit <= 0 {
		moreLimit = DefaultMoreLimit
	}

	model := Model{
		ctx:       ctx,
		site:      options.Site,
		fetcher:   options.Fetcher,
		store:     options.Store,
		theme:     theme,
		keys:      keys,
		logger:    logger,
		moreLimit: moreLimit,
		query:     options.Query,
		detector:  layout.NewDetector(options.CompactWidth, logger),
		panel:     panel{tab: sources.TabAll},
		guard:     &sources.Guard{},
		moreGuard: &sources.Guard{},
	}

	if options.Poll != nil {
		ticks := make(chan struct{}, 1)
		options.Poll.OnTick(pollCallback, func() {
			// A tick that finds the previous one unconsumed is
			// dropped, so refreshes never queue up.
			select {
			case ticks <- struct{}{}:
			default:
			}
		})
		model.poll = options.Poll
		model.pollTicks = ticks
	}
	return model
}

// Query returns the current query.
func (model Model) Query() query.Query {
	return model.query
}

// Init implements tea.Model. Loads the persisted tab; the first fetch
// is issued once it is known.
func (model Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadTabCmd(model.ctx, model.store, model.site)}
	if model.pollTicks != nil {
		cmds = append(cmds, waitForPoll(model.pollTicks))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model. Routes keyboard input by focus region.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		switch model.focus {
		case FocusDropdown:
			return model.handleDropdownKeys(message)
		case FocusPicker:
			return model.handlePickerKeys(message)
		case FocusMore:
			return model.handleMoreKeys(message)
		}
		return model.handlePanelKeys(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.more.resize(model.width, model.moreHeight())
		model.placeDropdown()
		cmd := model.observeLayout()
		return model, cmd

	case measureMsg:
		if model.detector.Pending() {
			model.detector.Resolve(model.query.ActiveCount(), model.surface())
			model.placeDropdown()
		}

	case tabLoadedMsg:
		if message.err != nil {
			model.logger.Warn("could not read the saved source tab", "error", message.err)
		}
		model.tabLoaded = true
		model.panel.tab = message.tab
		cmd := model.issueFetch()
		return model, cmd

	case fetchResultMsg:
		return model.handleFetchResult(message)

	case pollTickMsg:
		var cmds []tea.Cmd
		if model.tabLoaded {
			cmds = append(cmds, model.issueFetch())
		}
		cmds = append(cmds, waitForPoll(model.pollTicks))
		return model, tea.Batch(cmds...)

	case logRecordMsg:
		model.statusSerial++
		model.status = message.Summary
		model.statusLevel = message.Level
		serial := model.statusSerial
		return model, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{Serial: serial}
		})

	case logRecordFadeMsg:
		if message.Serial == model.statusSerial {
			model.status = ""
		}
	}
	return model, nil
}

func (model Model) handlePanelKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Escape goes to the filter bar first, with its modifiers, so
	// the bar can decline modified presses.
	if message.Type == tea.KeyEscape {
		cmd := model.dispatch(func(bar filterbar.Bar) {
			bar.HandleKey(keyEvent(message))
		})
		return model, cmd
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		model.shutdown()
		return model, tea.Quit

	case key.Matches(message, model.keys.Filters):
		model.dropdownState.Toggle()
		model.syncDropdown()

	case key.Matches(message, model.keys.RemoveChip):
		index := int(message.Runes[0] - '1')
		chips := filterbar.New(model.query, nil).Chips()
		if index < len(chips) {
			removed := chips[index].Key
			cmd := model.dispatch(func(bar filterbar.Bar) {
				bar.RemoveFilter(removed)
			})
			return model, cmd
		}

	case key.Matches(message, model.keys.NavigateBack):
		cmd := model.navigateBack()
		return model, cmd

	case key.Matches(message, model.keys.TabNext):
		cmd := model.switchTab(model.panel.tab.Next())
		return model, cmd

	case key.Matches(message, model.keys.TabPrevious):
		cmd := model.switchTab(model.panel.tab.Previous())
		return model, cmd

	case key.Matches(message, model.keys.Up):
		model.panel.moveUp()

	case key.Matches(message, model.keys.Down):
		model.panel.moveDown()

	case key.Matches(message, model.keys.Select):
		if row, ok := model.panel.selected(); ok {
			cmd := model.navigate(model.query.With(model.panel.tab.FilterKey(), query.Scalar(row.Name)))
			return model, cmd
		}

	case key.Matches(message, model.keys.SeeMore):
		cmd := model.openMore()
		return model, cmd

	case key.Matches(message, model.keys.Retry):
		if model.panel.status == panelFailed && model.tabLoaded {
			cmd := model.issueFetch()
			return model, cmd
		}
	}
	return model, nil
}

func (model Model) handleDropdownKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel), key.Matches(message, model.keys.Filters):
		model.dropdownState.Close()
		model.syncDropdown()

	case key.Matches(message, model.keys.Up):
		model.dropdown.MoveUp()

	case key.Matches(message, model.keys.Down):
		model.dropdown.MoveDown()

	case key.Matches(message, model.keys.Select):
		item, ok := model.dropdown.Selected()
		if !ok {
			return model, nil
		}
		cmd := model.dispatch(func(bar filterbar.Bar) {
			model.dropdownState.Activate(bar, item)
		})
		model.syncDropdown()
		return model, cmd

	case key.Matches(message, model.keys.Quit):
		model.shutdown()
		return model, tea.Quit
	}
	return model, nil
}

func (model Model) handlePickerKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		model.focus = FocusPanel
		return model, nil

	case key.Matches(message, model.keys.CycleKey):
		model.picker.cycle(model.query)
		return model, nil

	case message.Type == tea.KeyEnter:
		value, err := model.picker.value(model.query)
		if err != nil {
			model.picker.err = err.Error()
			return model, nil
		}
		model.focus = FocusPanel
		cmd := model.navigate(model.query.With(model.picker.key(), value))
		return model, cmd

	case message.Type == tea.KeyCtrlC:
		model.shutdown()
		return model, tea.Quit
	}

	var cmd tea.Cmd
	model.picker.input, cmd = model.picker.input.Update(message)
	model.picker.err = ""
	return model, cmd
}

func (model Model) handleMoreKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel), key.Matches(message, model.keys.SeeMore):
		model.moreGuard.Cancel()
		model.focus = FocusPanel
		return model, nil

	case key.Matches(message, model.keys.Quit):
		model.shutdown()
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		model.more.viewport.ScrollUp(1)

	case key.Matches(message, model.keys.Down):
		model.more.viewport.ScrollDown(1)

	case key.Matches(message, model.keys.PageUp):
		model.more.viewport.HalfViewUp()

	case key.Matches(message, model.keys.PageDown):
		model.more.viewport.HalfViewDown()
	}
	return model, nil
}

// keyEvent translates a key press for filterbar.Bar.HandleKey.
// bubbletea reports Alt as a flag; Ctrl chords arrive as distinct key
// names and never equal the bare Escape name.
func keyEvent(message tea.KeyMsg) filterbar.KeyEvent {
	name := strings.TrimPrefix(message.String(), "alt+")
	return filterbar.KeyEvent{Key: name, Alt: message.Alt}
}

// navigation collects the requests a filter bar operation makes, so
// the model can apply them after the operation returns.
type navigation struct {
	next  *query.Query
	group *filterbar.Group
}

func (pending *navigation) NavigateToQuery(next query.Query) {
	pending.next = &next
}

func (pending *navigation) OpenFilterGroup(group filterbar.Group) {
	pending.group = &group
}

// dispatch runs a filter bar operation against the current query and
// applies whatever navigation it requested.
func (model *Model) dispatch(operation func(bar filterbar.Bar)) tea.Cmd {
	pending := &navigation{}
	operation(filterbar.New(model.query, pending))

	var cmds []tea.Cmd
	if pending.next != nil {
		cmds = append(cmds, model.navigate(*pending.next))
	}
	if pending.group != nil {
		model.openPicker(*pending.group)
	}
	return tea.Batch(cmds...)
}

// navigate makes next the current query, remembering the old one for
// NavigateBack. Navigating to an equal query does nothing.
func (model *Model) navigate(next query.Query) tea.Cmd {
	if next.Equal(model.query) {
		return nil
	}
	model.history = append(model.history, model.query)
	if len(model.history) > maxHistory {
		model.history = model.history[len(model.history)-maxHistory:]
	}
	return model.setQuery(next)
}

func (model *Model) navigateBack() tea.Cmd {
	if len(model.history) == 0 {
		return nil
	}
	previous := model.history[len(model.history)-1]
	model.history = model.history[:len(model.history)-1]
	return model.setQuery(previous)
}

func (model *Model) setQuery(next query.Query) tea.Cmd {
	model.query = next
	model.logger.Debug("query changed",
		"filters", next.ActiveCount(),
		"fingerprint", next.Fingerprint().String(),
	)
	model.syncDropdown()
	var cmds []tea.Cmd
	cmds = append(cmds, model.observeLayout())
	if model.tabLoaded {
		cmds = append(cmds, model.issueFetch())
	}
	return tea.Batch(cmds...)
}

// observeLayout tells the detector about the current query and width.
// When the chip count or a compact width decides the state on its own
// the detector settles now, so compact screens never draw the chips;
// otherwise the measure message is scheduled for after the next frame.
func (model *Model) observeLayout() tea.Cmd {
	if !model.ready {
		return nil
	}
	if !model.detector.Observe(model.query, model.surface()) {
		return nil
	}
	if model.detector.NeedsMeasurement(model.query.ActiveCount()) {
		return measureCmd()
	}
	model.detector.Resolve(model.query.ActiveCount(), model.surface())
	model.placeDropdown()
	return nil
}

// switchTab selects tab, persists it for the site, and refetches.
func (model *Model) switchTab(tab sources.Tab) tea.Cmd {
	if !model.tabLoaded || tab == model.panel.tab {
		return nil
	}
	model.panel.tab = tab
	model.panel.status = panelLoading
	model.panel.rows = nil
	model.panel.cursor = 0
	return tea.Batch(
		saveTabCmd(model.ctx, model.store, model.site, tab, model.logger),
		model.issueFetch(),
	)
}

// issueFetch starts a panel fetch for the current query and tab. The
// guard cancels whatever fetch was outstanding.
func (model *Model) issueFetch() tea.Cmd {
	ctx, ticket := model.guard.Issue(model.ctx, model.query, model.panel.tab)
	model.panel.begin(ticket.Fingerprint)
	return fetchCmd(ctx, model.fetcher, model.site, model.query, ticket, -1, false)
}

func (model *Model) openMore() tea.Cmd {
	if !model.tabLoaded {
		return nil
	}
	model.focus = FocusMore
	model.more = newMoreView(model.panel.tab, model.width, model.moreHeight())
	ctx, ticket := model.moreGuard.Issue(model.ctx, model.query, model.panel.tab)
	return fetchCmd(ctx, model.fetcher, model.site, model.query, ticket, model.moreLimit, true)
}

func (model Model) handleFetchResult(message fetchResultMsg) (tea.Model, tea.Cmd) {
	guard := model.guard
	if message.more {
		guard = model.moreGuard
	}
	if !guard.Current(message.ticket) {
		model.logger.Debug("dropping superseded sources response",
			"generation", message.ticket.Generation,
			"fingerprint", message.ticket.Fingerprint.String(),
		)
		return model, nil
	}
	guard.Settle(message.ticket)

	if message.err != nil {
		model.logger.Debug("sources fetch failed", "tab", string(message.ticket.Tab), "error", message.err)
	}
	if message.more {
		model.more.accept(model.theme, model.query, message.rows, message.err)
		return model, nil
	}
	model.panel.accept(message.rows, message.err)
	return model, nil
}

func (model *Model) openPicker(group filterbar.Group) {
	model.picker = newPicker(group, model.query)
	model.focus = FocusPicker
}

// syncDropdown aligns the overlay and the focus with the dropdown
// state after anything that may have changed either.
func (model *Model) syncDropdown() {
	if !model.dropdownState.Open {
		if model.focus == FocusDropdown {
			model.focus = FocusPanel
		}
		return
	}
	model.focus = FocusDropdown
	model.dropdown.SetMenu(filterbar.Content(filterbar.New(model.query, nil), model.dropdownState))
	model.placeDropdown()
}

// placeDropdown anchors the overlay under the trigger at the right
// edge of the filter bar.
func (model *Model) placeDropdown() {
	model.dropdown.AnchorY = titleLines + 1
	model.dropdown.AnchorX = model.width - model.dropdown.Width()
	if model.dropdown.AnchorX < 0 {
		model.dropdown.AnchorX = 0
	}
}

// shutdown cancels outstanding fetches and leaves the poll timer
// before the program exits.
func (model *Model) shutdown() {
	model.guard.Cancel()
	model.moreGuard.Cancel()
	if model.poll != nil {
		model.poll.Remove(pollCallback)
	}
}

// titleLines is the height of the title area above the filter bar.
const titleLines = 1

func (model Model) moreHeight() int {
	// Title, filter bar, blank, list title, column header, status.
	height := model.height - titleLines - 5
	if height < 1 {
		height = 1
	}
	return height
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return ""
	}

	lines := []string{model.renderTitle()}
	lines = append(lines, model.renderFilterBar()...)
	lines = append(lines, "")

	switch model.focus {
	case FocusPicker:
		lines = append(lines, model.picker.render(model.theme, model.width)...)
	case FocusMore:
		lines = append(lines, model.more.render(model.theme, model.query)...)
	default:
		lines = append(lines, model.renderPanel()...)
	}

	bodyHeight := model.height - 1
	if len(lines) > bodyHeight && bodyHeight > 0 {
		lines = lines[:bodyHeight]
	}
	for len(lines) < bodyHeight {
		lines = append(lines, "")
	}
	lines = append(lines, model.renderStatus())

	view := strings.Join(lines, "\n")
	if model.focus == FocusDropdown {
		view = SpliceOverlay(view, model.dropdown.Render(model.theme), model.dropdown.AnchorX, model.dropdown.AnchorY)
	}
	return view
}

func (model Model) renderTitle() string {
	brandStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.TriggerForeground)
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	title := " " + brandStyle.Render("lumen") + "  " + model.site + "  " + faintStyle.Render(periodLabel(model.query))
	if model.query.Realtime() {
		liveStyle := lipgloss.NewStyle().Foreground(model.theme.RateForeground)
		title += "  " + liveStyle.Render("● live")
		if model.poll != nil {
			title += faintStyle.Render(" · every " + model.poll.Interval().String())
		}
	}
	return title
}

// periodLabel describes the reporting window.
func periodLabel(current query.Query) string {
	switch {
	case current.Period == "custom" && current.From != "":
		return current.From + " – " + current.To
	case current.Date != "":
		return current.Period + " @ " + current.Date
	default:
		return current.Period
	}
}

// renderStatus shows the latest log message, or key help for the
// focused region.
func (model Model) renderStatus() string {
	if model.status != "" {
		style := lipgloss.NewStyle().Foreground(model.theme.WarnForeground).Bold(true)
		if model.statusLevel >= slog.LevelError {
			style = style.Foreground(model.theme.ErrorForeground)
		}
		return style.Render(" " + model.status)
	}

	var help string
	switch model.focus {
	case FocusDropdown:
		help = " [FILTERS] ↑↓ move  ⏎ choose  Esc close"
	case FocusPicker:
		help = " [FILTER] type a value  Tab next field  ⏎ apply  Esc cancel"
	case FocusMore:
		help = " [LIST] ↑↓ scroll  C-u/C-d page  Esc back"
	default:
		help = fmt.Sprintf(" q quit  f filters  1-%d remove  Esc clear  BS back  [/] tabs  ⏎ filter row  v more",
			max(1, min(9, model.query.ActiveCount())))
		if model.panel.status == panelFailed {
			help += "  r retry"
		}
	}
	return lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(help)
}
