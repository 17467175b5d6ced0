package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"jatrack/internal/api"
	"jatrack/internal/export"
	"jatrack/internal/listsync"
	"jatrack/internal/model"
)

const (
	// boardFetchSize is the oversized single page the board view requests so
	// the whole record set lands in one response.
	boardFetchSize = 1000

	requestTimeout = 10 * time.Second
)

type mode int

const (
	modeLogin mode = iota
	modeList
	modeBoard
	modeForm
	modeDetail
	modeConfirmDelete
)

type (
	debounceTickMsg struct{}
	credTickMsg     struct{}

	fetchDoneMsg struct {
		gen  uint64
		page model.Page
		err  error
	}
	boardDoneMsg struct {
		gen  uint64
		page model.Page
		err  error
	}

	createDoneMsg struct {
		created model.Application
		err     error
	}
	updateDoneMsg struct {
		pending   listsync.Pending
		confirmed model.Application
		err       error
		board     bool
	}
	deleteDoneMsg struct {
		pending listsync.Pending
		err     error
	}

	authDoneMsg struct {
		token string
		err   error
	}
	exportDoneMsg struct {
		path string
		err  error
	}
)

type appModel struct {
	client *api.Client
	tokens api.TokenFile
	logger *zap.Logger

	width  int
	height int
	mode   mode

	list     *listsync.Session
	board    *listsync.Session
	drag     listsync.Drag
	boardSel boardSelection
	credWait listsync.CredentialWait

	search    textinput.Model
	searching bool
	cursor    int

	form    formModel
	login   loginModel
	confirm int64

	notice    string
	noticeErr bool
}

func newAppModel(client *api.Client, tokens api.TokenFile, pageSize int, logger *zap.Logger) appModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := appModel{
		client: client,
		tokens: tokens,
		logger: logger,
		list:   listsync.NewSession(),
		login:  newLogin(),
		mode:   modeList,
	}
	m.list.Filters().SetSize(pageSize)
	m.list.FilterChanged() // consume the initial size change; first fetch covers it

	m.search = textinput.New()
	m.search.Placeholder = "Search company, role, notes"
	m.search.Prompt = "/ "
	m.search.CharLimit = 200

	if !client.Ready() {
		m.mode = modeLogin
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.client.Ready() {
		return m.fetchCmd()
	}
	// No credential yet: show the sign-in form and poll for a token appearing
	// out of band (e.g. `jatrack login` in another terminal).
	return credTick()
}

// fetchCmd opens a new fetch epoch for the list session and issues it.
func (m *appModel) fetchCmd() tea.Cmd {
	q, gen := m.list.BeginFetch()
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		pg, err := client.List(ctx, q)
		return fetchDoneMsg{gen: gen, page: pg, err: err}
	}
}

func (m *appModel) boardFetchCmd() tea.Cmd {
	q, gen := m.board.BeginFetch()
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		pg, err := client.List(ctx, q)
		return boardDoneMsg{gen: gen, page: pg, err: err}
	}
}

func debounceTick() tea.Cmd {
	return tea.Tick(listsync.DebounceQuiet, func(time.Time) tea.Msg { return debounceTickMsg{} })
}

func credTick() tea.Cmd {
	return tea.Tick(listsync.CredentialRetryInterval, func(time.Time) tea.Msg { return credTickMsg{} })
}

func (m *appModel) createCmd(a model.Application) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		created, err := client.Create(ctx, a)
		return createDoneMsg{created: created, err: err}
	}
}

func (m *appModel) updateCmd(p listsync.Pending, next model.Application, board bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		confirmed, err := client.Update(ctx, next.ID, next)
		return updateDoneMsg{pending: p, confirmed: confirmed, err: err, board: board}
	}
}

func (m *appModel) deleteCmd(p listsync.Pending) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.Delete(ctx, p.ID)
		return deleteDoneMsg{pending: p, err: err}
	}
}

func (m *appModel) authCmd(register bool, name, email, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var (
			token string
			err   error
		)
		if register {
			token, err = client.Register(ctx, name, email, password)
		} else {
			token, err = client.Login(ctx, email, password)
		}
		return authDoneMsg{token: token, err: err}
	}
}

func (m *appModel) exportCmd(format string) tea.Cmd {
	// Exports cover every record matching the current filters, not just the
	// visible page.
	q := m.list.Query()
	q.Page = 0
	q.Size = boardFetchSize
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		pg, err := client.List(ctx, q)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		now := time.Now()
		path := fmt.Sprintf("jatrack-export-%s.%s", now.Format("20060102-150405"), format)
		var data []byte
		switch format {
		case "pdf":
			data, err = export.BuildPDF(pg.Items, export.Columns(), "Job Applications", now)
			if err != nil {
				return exportDoneMsg{err: err}
			}
		default:
			var buf strings.Builder
			if err := export.WriteCSV(&buf, pg.Items, export.Columns()); err != nil {
				return exportDoneMsg{err: err}
			}
			data = []byte(buf.String())
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

func (m *appModel) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case credTickMsg:
		if m.client.Ready() {
			m.credWait.Reset()
			if m.mode == modeLogin {
				m.mode = modeList
			}
			return m, m.fetchCmd()
		}
		if m.credWait.Retry() {
			return m, credTick()
		}
		// Budget exhausted: stop polling; the sign-in form remains.
		return m, nil

	case debounceTickMsg:
		m.list.Filters().Flush(time.Now())
		if m.list.FilterChanged() {
			return m, m.fetchCmd()
		}
		return m, nil

	case fetchDoneMsg:
		if msg.err != nil {
			if m.list.ApplyFetchError(msg.gen, msg.err) {
				m.logger.Warn("list fetch failed", zap.Error(msg.err))
			}
			return m, nil
		}
		if m.list.ApplyPage(msg.gen, msg.page) {
			m.clampCursor()
		}
		return m, nil

	case boardDoneMsg:
		if m.board == nil {
			return m, nil
		}
		if msg.err != nil {
			if m.board.ApplyFetchError(msg.gen, msg.err) {
				m.logger.Warn("board fetch failed", zap.Error(msg.err))
			}
			return m, nil
		}
		m.board.ApplyPage(msg.gen, msg.page)
		return m, nil

	case createDoneMsg:
		if msg.err != nil {
			m.setNotice("Create failed: "+errorText(msg.err), true)
			return m, nil
		}
		m.setNotice("Created "+msg.created.Company, false)
		if m.list.ApplyCreate(msg.created) {
			return m, m.fetchCmd()
		}
		return m, nil

	case updateDoneMsg:
		sess := m.list
		if msg.board && m.board != nil {
			sess = m.board
		}
		if err := sess.ResolveUpdate(msg.pending, msg.confirmed, msg.err); err != nil {
			m.setNotice("Update failed: "+errorText(err), true)
		} else {
			m.setNotice("Saved", false)
		}
		return m, nil

	case deleteDoneMsg:
		_, err := m.list.ResolveDelete(msg.pending, msg.err)
		if err != nil {
			m.setNotice("Delete failed: "+errorText(err), true)
			return m, nil
		}
		m.setNotice("Deleted", false)
		// The page cursor already rebounded if the delete emptied it; either
		// way the current page is re-fetched so totals stay authoritative.
		return m, m.fetchCmd()

	case authDoneMsg:
		m.login.busy = false
		if msg.err != nil {
			m.login.errText = errorText(msg.err)
			return m, nil
		}
		if err := m.tokens.Save(msg.token); err != nil {
			m.login.errText = "saving token: " + err.Error()
			return m, nil
		}
		m.credWait.Reset()
		m.login = newLogin()
		m.mode = modeList
		return m, m.fetchCmd()

	case exportDoneMsg:
		if msg.err != nil {
			m.setNotice("Export failed: "+errorText(msg.err), true)
		} else {
			m.setNotice("Exported "+msg.path, false)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeLogin:
		return m.handleLoginKey(msg)
	case modeForm:
		return m.handleFormKey(msg)
	case modeBoard:
		return m.handleBoardKey(msg)
	case modeDetail:
		return m.handleDetailKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m appModel) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		m.login.toggleRegister()
		return m, nil
	case "enter":
		if m.login.busy {
			return m, nil
		}
		email, password := m.login.emailValue(), m.login.passwordValue()
		if email == "" || password == "" {
			m.login.errText = "email and password are required"
			return m, nil
		}
		m.login.errText = ""
		m.login.busy = true
		return m, m.authCmd(m.login.register, m.login.nameValue(), email, password)
	}
	var cmd tea.Cmd
	m.login, cmd = m.login.update(msg)
	return m, cmd
}

func (m appModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil
	case "ctrl+s":
		a := m.form.Application()
		if m.form.editing() {
			pending, err := m.list.StageUpdate(a)
			if errors.Is(err, listsync.ErrNotVisible) {
				// Evicted by a refresh while the form was open: nothing to do.
				m.mode = modeList
				m.setNotice("Record no longer visible; edit discarded", true)
				return m, nil
			}
			if err != nil {
				m.form.errText = err.Error()
				return m, nil
			}
			m.mode = modeList
			m.setNotice("Saving…", false)
			return m, m.updateCmd(pending, a, false)
		}
		if err := m.list.ValidateCreate(a); err != nil {
			m.form.errText = err.Error()
			return m, nil
		}
		m.mode = modeList
		m.setNotice("Saving…", false)
		return m, m.createCmd(a)
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m appModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := m.confirm
		m.confirm = 0
		m.mode = modeList
		pending, err := m.list.StageDelete(id)
		if err != nil {
			// Already gone; treat as settled.
			return m, m.fetchCmd()
		}
		m.setNotice("Deleting…", false)
		return m, m.deleteCmd(pending)
	case "n", "esc":
		m.confirm = 0
		m.mode = modeList
		return m, nil
	}
	return m, nil
}

func (m appModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.mode = modeList
		return m, nil
	case "e":
		if a, ok := m.selectedApplication(); ok {
			m.form = newEditForm(a)
			m.mode = modeForm
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := listsync.Group(m.board.Items())
	m.boardSel = clampBoardSelection(cols, m.boardSel)

	switch msg.String() {
	case "esc":
		if m.drag.Active() {
			m.drag.Cancel()
			return m, nil
		}
		m.mode = modeList
		return m, nil
	case "q":
		if !m.drag.Active() {
			m.mode = modeList
		}
		return m, nil
	case "r":
		return m, m.boardFetchCmd()
	case "h", "left":
		if m.boardSel.Col > 0 {
			m.boardSel.Col--
			m.boardSel.Item = 0
			m.boardSel.ItemID = 0
		}
		if m.drag.Active() {
			m.drag.Enter(cols[m.boardSel.Col].Status)
		}
		return m, nil
	case "l", "right":
		if m.boardSel.Col < len(cols)-1 {
			m.boardSel.Col++
			m.boardSel.Item = 0
			m.boardSel.ItemID = 0
		}
		if m.drag.Active() {
			m.drag.Enter(cols[m.boardSel.Col].Status)
		}
		return m, nil
	case "j", "down":
		if !m.drag.Active() {
			m.boardSel.Item++
			m.boardSel.ItemID = 0
			m.boardSel = clampBoardSelection(cols, m.boardSel)
		}
		return m, nil
	case "k", "up":
		if !m.drag.Active() {
			m.boardSel.Item--
			m.boardSel.ItemID = 0
			m.boardSel = clampBoardSelection(cols, m.boardSel)
		}
		return m, nil
	case " ", "enter":
		if !m.drag.Active() {
			if a, ok := selectedBoardItem(cols, m.boardSel); ok {
				m.drag.Start(a.ID)
				m.drag.Enter(cols[m.boardSel.Col].Status)
			}
			return m, nil
		}
		return m.dropCard()
	}
	return m, nil
}

// dropCard settles an active drag: the dragged id is taken from the drag
// machine, never from the rendered board, so a drop after a refresh moves the
// record that was picked up.
func (m appModel) dropCard() (tea.Model, tea.Cmd) {
	id, target, ok := m.drag.Drop()
	if !ok {
		return m, nil
	}
	rec, found := m.board.Find(id)
	if !found {
		// Evicted since pickup: dropping nothing is a no-op.
		return m, nil
	}
	if rec.Status == target {
		return m, nil
	}
	next := listsync.DropUpdate(rec, target)
	pending, err := m.board.StageUpdate(next)
	if errors.Is(err, listsync.ErrNotVisible) {
		return m, nil
	}
	if err != nil {
		m.setNotice(err.Error(), true)
		return m, nil
	}
	m.boardSel.ItemID = id
	return m, m.updateCmd(pending, next, true)
}

func (m appModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc", "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.list.Filters().SetRawText(m.search.Value(), time.Now())
		return m, tea.Batch(cmd, debounceTick())
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.search.Focus()
		return m, nil
	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.list.Filters().SetRawText("", time.Now())
			return m, debounceTick()
		}
		return m, nil
	case "j", "down":
		m.cursor++
		m.clampCursor()
		return m, nil
	case "k", "up":
		m.cursor--
		m.clampCursor()
		return m, nil
	case "f":
		m.cycleStatusFilter()
		if m.list.FilterChanged() {
			return m, m.fetchCmd()
		}
		return m, nil
	case "s":
		m.list.Filters().ToggleSort()
		if m.list.FilterChanged() {
			return m, m.fetchCmd()
		}
		return m, nil
	case "z":
		m.cyclePageSize()
		if m.list.FilterChanged() {
			return m, m.fetchCmd()
		}
		return m, nil
	case "n", "right":
		if m.list.Pager().Next() {
			return m, m.fetchCmd()
		}
		return m, nil
	case "p", "left":
		if m.list.Pager().Prev() {
			return m, m.fetchCmd()
		}
		return m, nil
	case "r":
		return m, m.fetchCmd()
	case "a":
		m.form = newForm()
		m.mode = modeForm
		return m, nil
	case "A":
		// Quick add: a prefilled sample record, handy for trying the flow.
		sample := model.Application{
			Company:     "Sample Co",
			RoleTitle:   "Software Engineer",
			Status:      model.StatusApplied,
			AppliedDate: time.Now().Format("2006-01-02"),
		}
		m.setNotice("Saving…", false)
		return m, m.createCmd(sample)
	case "e":
		if a, ok := m.selectedApplication(); ok {
			m.form = newEditForm(a)
			m.mode = modeForm
		}
		return m, nil
	case "enter":
		if _, ok := m.selectedApplication(); ok {
			m.mode = modeDetail
		}
		return m, nil
	case "d":
		if a, ok := m.selectedApplication(); ok {
			m.confirm = a.ID
			m.mode = modeConfirmDelete
		}
		return m, nil
	case "b":
		if m.board == nil {
			m.board = listsync.NewSinglePageSession(boardFetchSize)
		}
		m.mode = modeBoard
		return m, m.boardFetchCmd()
	case "x":
		m.setNotice("Exporting CSV…", false)
		return m, m.exportCmd("csv")
	case "X":
		m.setNotice("Exporting PDF…", false)
		return m, m.exportCmd("pdf")
	}
	return m, nil
}

func (m *appModel) selectedApplication() (model.Application, bool) {
	items := m.list.Items()
	if len(items) == 0 || m.cursor < 0 || m.cursor >= len(items) {
		return model.Application{}, false
	}
	return items[m.cursor], true
}

func (m *appModel) clampCursor() {
	n := len(m.list.Items())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *appModel) cycleStatusFilter() {
	statuses := model.Statuses()
	cur := m.list.Filters().Status()
	next := string(statuses[0])
	if cur != "" {
		for i, st := range statuses {
			if string(st) == cur {
				if i+1 < len(statuses) {
					next = string(statuses[i+1])
				} else {
					next = "" // wrap back to "all"
				}
				break
			}
		}
	}
	m.list.Filters().SetStatus(next)
}

func (m *appModel) cyclePageSize() {
	sizes := listsync.PageSizes()
	cur := m.list.Filters().Size()
	next := sizes[0]
	for i, s := range sizes {
		if s == cur {
			next = sizes[(i+1)%len(sizes)]
			break
		}
	}
	m.list.Filters().SetSize(next)
}

func errorText(err error) string {
	if errors.Is(err, api.ErrUnauthorized) {
		return "unauthorized; run `jatrack login`"
	}
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) && reqErr.Body != "" {
		return reqErr.Body
	}
	return err.Error()
}
