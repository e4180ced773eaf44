package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/legoplanner/legoplanner/internal/app"
	"github.com/legoplanner/legoplanner/internal/cli/formatter"
	"github.com/legoplanner/legoplanner/internal/contract"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/legoplanner/legoplanner/internal/editing"
	"github.com/legoplanner/legoplanner/internal/weeks"
	"go.uber.org/zap"
)

// gridLoadedMsg carries a freshly built grid view.
type gridLoadedMsg struct {
	quarter weeks.Quarter
	view    *contract.GridView
	err     error
}

// gridOptions are the interactive grid preferences.
type gridOptions struct {
	HistoryLimit int
	DefaultAlloc int
	AllocStep    int
	ShowDates    bool
	Clipboard    editing.SystemClipboard
	Logger       *zap.Logger
}

// Lines taken by the title, the status line and the short help bar.
const gridChromeLines = 5

var (
	styleSelected = lipgloss.NewStyle().Reverse(true)
	styleCursor   = lipgloss.NewStyle().Reverse(true).Bold(true).Underline(true)
)

// gridModel is the interactive quarter grid. Edits are applied through
// EditUseCase as changesets and recorded in a bounded undo history.
type gridModel struct {
	ctx   context.Context
	grid  app.GridUseCase
	edits app.EditUseCase
	req   contract.GridRequest

	full *contract.GridView
	view *contract.GridView
	sel  *editing.Selection

	history   *editing.History
	clipboard *editing.Clipboard
	stroke    *editing.Stroke

	activeProject string
	alloc         int
	step          int
	showDates     bool

	filter    textinput.Model
	filtering bool

	keys     gridKeyMap
	help     help.Model
	viewport viewport.Model
	width    int
	height   int

	status    string
	statusErr bool
	loading   bool
	logger    *zap.Logger
}

func newGridModel(ctx context.Context, grid app.GridUseCase, edits app.EditUseCase, req contract.GridRequest, opts gridOptions) *gridModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "name or team"
	ti.CharLimit = 64

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	alloc := opts.DefaultAlloc
	if alloc < 1 || alloc > 100 {
		alloc = 100
	}
	step := opts.AllocStep
	if step < 1 {
		step = 25
	}

	return &gridModel{
		ctx:       ctx,
		grid:      grid,
		edits:     edits,
		req:       req,
		sel:       editing.NewSelection(0, 0),
		history:   editing.NewHistory(opts.HistoryLimit),
		clipboard: editing.NewClipboard(opts.Clipboard),
		alloc:     alloc,
		step:      step,
		showDates: opts.ShowDates,
		filter:    ti,
		keys:      newGridKeyMap(),
		help:      help.New(),
		viewport:  viewport.New(0, 0),
		loading:   true,
		logger:    logger,
	}
}

func (m *gridModel) Init() tea.Cmd {
	return m.load()
}

func (m *gridModel) load() tea.Cmd {
	grid, ctx, req := m.grid, m.ctx, m.req
	return func() tea.Msg {
		view, err := grid.Build(ctx, req)
		return gridLoadedMsg{quarter: req.Quarter, view: view, err: err}
	}
}

func (m *gridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-gridChromeLines, 3)
		return m, nil

	case gridLoadedMsg:
		if msg.quarter != m.req.Quarter {
			// Superseded by a later quarter switch.
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setView(msg.view)
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *gridModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.finishStroke()
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.PrevQuarter):
		return m, m.switchQuarter(m.req.Quarter.Prev())
	case key.Matches(msg, k.NextQuarter):
		return m, m.switchQuarter(m.req.Quarter.Next())
	case key.Matches(msg, k.Filter):
		m.finishStroke()
		m.filtering = true
		return m, m.filter.Focus()
	}

	if m.view == nil || m.loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, k.Up):
		m.move(-1, 0)
	case key.Matches(msg, k.Down):
		m.move(1, 0)
	case key.Matches(msg, k.Left):
		m.move(0, -1)
	case key.Matches(msg, k.Right):
		m.move(0, 1)
	case key.Matches(msg, k.ExtendUp):
		m.sel.Extend(-1, 0)
	case key.Matches(msg, k.ExtendDown):
		m.sel.Extend(1, 0)
	case key.Matches(msg, k.ExtendLeft):
		m.sel.Extend(0, -1)
	case key.Matches(msg, k.ExtendRight):
		m.sel.Extend(0, 1)
	case key.Matches(msg, k.SelectAll):
		m.sel.SelectAll()
	case key.Matches(msg, k.Escape):
		if m.stroke != nil {
			m.finishStroke()
		} else {
			m.sel.Collapse()
		}
	case key.Matches(msg, k.Assign):
		m.assignSelection()
	case key.Matches(msg, k.Clear):
		m.commit(editing.Clear(m.view, m.sel.Rect()))
	case key.Matches(msg, k.Paint):
		m.togglePaint()
	case key.Matches(msg, k.PrevProject):
		m.cycleProject(-1)
	case key.Matches(msg, k.NextProject):
		m.cycleProject(1)
	case key.Matches(msg, k.AllocUp):
		m.stepAlloc(m.step)
	case key.Matches(msg, k.AllocDown):
		m.stepAlloc(-m.step)
	case key.Matches(msg, k.Copy):
		m.copySelection()
	case key.Matches(msg, k.Cut):
		if m.copySelection() {
			cs := editing.Clear(m.view, m.sel.Rect())
			cs.Label = "cut"
			m.commit(cs)
		}
	case key.Matches(msg, k.Paste):
		m.paste()
	case key.Matches(msg, k.Undo):
		m.undo()
	case key.Matches(msg, k.Redo):
		m.redo()
	}
	return m, nil
}

func (m *gridModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.filtering = false
		m.filter.SetValue("")
		m.filter.Blur()
		m.applyFilter()
		return m, nil
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *gridModel) switchQuarter(q weeks.Quarter) tea.Cmd {
	m.finishStroke()
	m.req.Quarter = q
	m.loading = true
	m.status, m.statusErr = "", false
	return m.load()
}

// setView installs a new grid and keeps the selection and active project
// valid for it.
func (m *gridModel) setView(v *contract.GridView) {
	m.full = v
	m.applyFilter()

	assignable := m.assignable()
	for _, p := range assignable {
		if p.ID == m.activeProject {
			return
		}
	}
	m.activeProject = ""
	if len(assignable) > 0 {
		m.activeProject = assignable[0].ID
	}
}

// applyFilter narrows the rows to assignees whose name or team contains
// the filter text.
func (m *gridModel) applyFilter() {
	if m.full == nil {
		return
	}
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if needle == "" {
		m.view = m.full
	} else {
		filtered := *m.full
		filtered.Rows = nil
		for _, r := range m.full.Rows {
			if strings.Contains(strings.ToLower(r.Assignee.Name), needle) ||
				strings.Contains(strings.ToLower(r.Assignee.Team), needle) {
				filtered.Rows = append(filtered.Rows, r)
			}
		}
		m.view = &filtered
	}
	m.sel.Resize(len(m.view.Rows), len(m.view.Weeks))
}

// reload rebuilds the grid after an edit so the next edit sees stored state.
func (m *gridModel) reload() {
	v, err := m.grid.Build(m.ctx, m.req)
	if err != nil {
		m.setError(err)
		return
	}
	m.setView(v)
}

func (m *gridModel) apply(cs contract.Changeset) (contract.Changeset, error) {
	applied, err := m.edits.ApplyChangeset(m.ctx, cs)
	if err != nil {
		return contract.Changeset{}, err
	}
	m.reload()
	return applied, nil
}

// commit applies cs and records it as one undo step.
func (m *gridModel) commit(cs contract.Changeset) {
	if cs.IsEmpty() {
		m.setStatus(formatter.FormatChangeset(cs))
		return
	}
	applied, err := m.apply(cs)
	if err != nil {
		m.setError(err)
		return
	}
	m.history.Push(applied)
	m.logger.Debug("grid edit", zap.String("label", applied.Label), zap.Int("cells", len(applied.Changes)))
	m.setStatus(formatter.FormatChangeset(applied))
}

func (m *gridModel) move(dRow, dCol int) {
	m.sel.Move(dRow, dCol)
	if m.stroke != nil {
		m.paintCursor()
	}
}

func (m *gridModel) assignSelection() {
	if m.activeProject == "" {
		m.setError(errNoAssignableProject)
		return
	}
	m.commit(editing.Assign(m.view, m.sel.Rect(), m.activeProject, m.alloc))
}

var errNoAssignableProject = errors.New("no project to assign; add one with 'legoplanner project add'")

func (m *gridModel) togglePaint() {
	if m.stroke != nil {
		m.finishStroke()
		return
	}
	if m.activeProject == "" {
		m.setError(errNoAssignableProject)
		return
	}
	m.sel.Collapse()
	m.stroke = editing.NewStroke(m.activeProject, m.alloc)
	m.setStatus("painting " + m.shortIDOf(m.activeProject))
	m.paintCursor()
}

func (m *gridModel) paintCursor() {
	cs := m.stroke.Paint(m.view, m.sel.Cursor)
	if cs.IsEmpty() {
		return
	}
	applied, err := m.apply(cs)
	if err != nil {
		m.setError(err)
		return
	}
	m.stroke.Record(applied)
}

// finishStroke closes the current paint stroke as a single undo step.
func (m *gridModel) finishStroke() {
	if m.stroke == nil {
		return
	}
	if m.stroke.Len() > 0 {
		cs := m.stroke.Changeset()
		m.history.Push(cs)
		m.setStatus(formatter.FormatChangeset(cs))
	} else {
		m.setStatus("paint off")
	}
	m.stroke = nil
}

// restartStroke keeps paint mode on with the current project and allocation.
func (m *gridModel) restartStroke() {
	if m.stroke == nil {
		return
	}
	m.finishStroke()
	m.stroke = editing.NewStroke(m.activeProject, m.alloc)
}

func (m *gridModel) cycleProject(delta int) {
	assignable := m.assignable()
	if len(assignable) == 0 {
		m.setError(errNoAssignableProject)
		return
	}
	idx := 0
	for i, p := range assignable {
		if p.ID == m.activeProject {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(assignable)) % len(assignable)
	m.activeProject = assignable[idx].ID
	m.restartStroke()
	m.setStatus("active project " + assignable[idx].ShortID)
}

func (m *gridModel) stepAlloc(delta int) {
	next := m.alloc + delta
	if next > 100 {
		next = 100
	}
	if next < 1 {
		next = m.alloc
	}
	m.alloc = next
	m.restartStroke()
	m.setStatus(fmt.Sprintf("allocation %d%%", m.alloc))
}

// copySelection copies the selection and reports whether anything was copied.
func (m *gridModel) copySelection() bool {
	r := m.sel.Rect()
	clip := editing.CopyClip(m.view, r)
	if clip.Height() == 0 {
		m.setError(errors.New("nothing selected"))
		return false
	}
	msg := fmt.Sprintf("copied %d×%d cells", clip.Height(), clip.Width())
	if err := m.clipboard.Copy(clip, clip.TSV(m.shortIDOf)); err != nil {
		m.logger.Debug("system clipboard write failed", zap.Error(err))
		msg += " (system clipboard unavailable)"
	}
	m.setStatus(msg)
	return true
}

func (m *gridModel) paste() {
	clip, err := m.clipboard.Contents(m.resolveShortID)
	if err != nil {
		m.setError(err)
		return
	}
	m.commit(editing.Paste(m.view, clip, m.sel.Cursor))
}

func (m *gridModel) applyFunc() editing.ApplyFunc {
	return m.apply
}

func (m *gridModel) undo() {
	m.finishStroke()
	cs, err := m.history.Undo(m.applyFunc())
	switch {
	case errors.Is(err, editing.ErrNothingToUndo):
		m.setStatus("nothing to undo")
	case err != nil:
		m.setError(err)
	default:
		m.setStatus("undid " + cs.Label)
	}
}

func (m *gridModel) redo() {
	m.finishStroke()
	cs, err := m.history.Redo(m.applyFunc())
	switch {
	case errors.Is(err, editing.ErrNothingToRedo):
		m.setStatus("nothing to redo")
	case err != nil:
		m.setError(err)
	default:
		m.setStatus("redid " + cs.Label)
	}
}

// assignable lists the projects that can be placed on the grid.
func (m *gridModel) assignable() []*domain.Project {
	if m.full == nil {
		return nil
	}
	var out []*domain.Project
	for _, p := range m.full.Projects {
		if !p.IsArchived() {
			out = append(out, p)
		}
	}
	return out
}

func (m *gridModel) shortIDOf(projectID string) string {
	if m.full != nil {
		if p := m.full.ProjectByID(projectID); p != nil {
			return p.DisplayID()
		}
	}
	return projectID
}

func (m *gridModel) resolveShortID(shortID string) (string, bool) {
	if m.full == nil {
		return "", false
	}
	for _, p := range m.full.Projects {
		if strings.EqualFold(p.ShortID, shortID) {
			return p.ID, true
		}
	}
	return "", false
}

func (m *gridModel) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *gridModel) setError(err error) {
	m.logger.Debug("grid error", zap.Error(err))
	m.status, m.statusErr = err.Error(), true
}

// ── View ─────────────────────────────────────────────────────────────────────

func (m *gridModel) View() string {
	var b strings.Builder
	b.WriteString(m.titleLine())
	b.WriteString("\n")

	switch {
	case m.loading && m.full == nil:
		b.WriteString(formatter.Dim("Loading grid…"))
		b.WriteString("\n")
	case m.view == nil:
		b.WriteString("\n")
	case len(m.view.Rows) == 0:
		b.WriteString(formatter.Dim("No assignees in scope."))
		b.WriteString("\n")
	default:
		b.WriteString(m.body())
	}

	if m.filtering {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	} else if m.status != "" {
		if m.statusErr {
			b.WriteString(formatter.StyleRed.Render("✖ " + m.status))
		} else {
			b.WriteString(m.status)
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *gridModel) titleLine() string {
	parts := []string{formatter.StyleHeader.Render("GRID " + m.req.Quarter.String())}
	if len(m.req.Teams) > 0 {
		parts = append(parts, formatter.TeamBadge(strings.Join(m.req.Teams, ",")))
	}
	if m.activeProject != "" {
		label := " " + m.shortIDOf(m.activeProject) + " "
		color := ""
		if p := m.full.ProjectByID(m.activeProject); p != nil {
			color = p.Color
			label = " " + p.ShortID + " " + p.Name + " "
		}
		parts = append(parts, formatter.Swatch(color, label), formatter.Bold(fmt.Sprintf("@ %d%%", m.alloc)))
	}
	if m.stroke != nil {
		parts = append(parts, formatter.StyleYellow.Render("● PAINT"))
	}
	if v := strings.TrimSpace(m.filter.Value()); v != "" && !m.filtering {
		parts = append(parts, formatter.Dim("filter: "+v))
	}
	if undo, redo := m.history.Depth(); undo+redo > 0 {
		parts = append(parts, formatter.Dim(fmt.Sprintf("undo %d · redo %d", undo, redo)))
	}
	return strings.Join(parts, "  ")
}

// body renders the table, scrolled so the cursor row stays visible.
func (m *gridModel) body() string {
	table := m.renderTable()
	if m.viewport.Height <= 0 {
		return table
	}
	m.viewport.SetContent(strings.TrimRight(table, "\n"))
	// Header and separator precede the first assignee row.
	line := m.sel.Cursor.Row + 2
	switch {
	case line < m.viewport.YOffset+2:
		m.viewport.SetYOffset(max(line-2, 0))
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
	return m.viewport.View() + "\n"
}

func (m *gridModel) renderTable() string {
	v := m.view
	headers := make([]string, 0, len(v.Weeks)+1)
	headers = append(headers, "ASSIGNEE")
	for _, w := range v.Weeks {
		h := fmt.Sprintf("W%d", w.Number)
		if m.showDates {
			h += " " + w.Start.Format("01-02")
		}
		headers = append(headers, h)
	}

	rect := m.sel.Rect()
	rows := make([][]string, 0, len(v.Rows)+1)
	for i, r := range v.Rows {
		row := make([]string, 0, len(r.Cells)+1)
		name := r.Assignee.Name
		if i == m.sel.Cursor.Row {
			name = "▸ " + name
		} else {
			name = "  " + name
		}
		row = append(row, formatter.Bold(name))
		for j, c := range r.Cells {
			pos := editing.Pos{Row: i, Col: j}
			switch {
			case pos == m.sel.Cursor:
				row = append(row, styleCursor.Render(formatter.CellLabel(c)))
			case rect.Contains(pos):
				row = append(row, styleSelected.Render(formatter.CellLabel(c)))
			default:
				row = append(row, formatter.RenderCell(c))
			}
		}
		rows = append(rows, row)
	}
	footer := []string{formatter.Dim("  headcount")}
	for _, n := range v.Headcount {
		footer = append(footer, formatter.Dim(fmt.Sprintf("%d", n)))
	}
	rows = append(rows, footer)
	return formatter.RenderTable(headers, rows)
}
