package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kikitori/kikitori/internal/api"
	"github.com/kikitori/kikitori/internal/formatter"
	"github.com/kikitori/kikitori/internal/routes"
	"github.com/kikitori/kikitori/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	DashboardView
	JobDetailView
	ProfileView
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	session *session.Session
	auth    *api.AuthService
	jobs    *api.TranscriptionService
	users   *api.UserService

	width  int
	height int

	email         textinput.Model
	password      textinput.Model
	focusPassword bool

	jobList   list.Model
	listReady bool
	selected  *api.Transcription

	identity *api.Identity
	plan     *api.Plan

	sessionCh   chan session.State
	unsubscribe func()

	notice string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, sess *session.Session, auth *api.AuthService, jobs *api.TranscriptionService, users *api.UserService) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	m := &Model{
		ctx:      ctx,
		session:  sess,
		auth:     auth,
		jobs:     jobs,
		users:    users,
		email:    email,
		password: password,
		help:     help.New(),
		keys:     newKeyMap(),
	}

	m.sessionCh = make(chan session.State, 8)
	m.unsubscribe = sess.Subscribe(func(state session.State) {
		select {
		case m.sessionCh <- state:
		default:
		}
	})

	return m
}

// Init picks the starting view by routing to the dashboard through the
// access gate. An anonymous session lands on login instead.
func (m *Model) Init() tea.Cmd {
	view, cmd := m.navigate(routes.PathDashboard)
	m.view = view
	return tea.Batch(textinput.Blink, m.waitForSession(), cmd)
}

// navigate resolves a path against the live session snapshot and returns
// the view to render plus its fetch command.
func (m *Model) navigate(path string) (ViewState, tea.Cmd) {
	decision := routes.Follow(m.session.Current(), path)
	if decision.Outcome != routes.Render {
		return LoginView, nil
	}

	switch routes.Normalize(decision.Path) {
	case routes.PathLogin:
		return LoginView, nil
	case routes.PathDashboard:
		return DashboardView, m.fetchJobs()
	case routes.PathTranscription:
		return JobDetailView, nil
	case routes.PathProfile:
		return ProfileView, m.fetchProfile()
	default:
		return LoginView, nil
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.jobList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case DashboardView:
			return m.handleDashboardKeys(msg)
		case JobDetailView:
			return m.handleJobDetailKeys(msg)
		case ProfileView:
			return m.handleProfileKeys(msg)
		}

	case sessionChangedMsg:
		state := session.State(msg)
		if !state.IsAuthenticated() && m.view != LoginView {
			m.view = LoginView
			m.selected = nil
			m.notice = "Session expired. Please sign in again."
			m.email.Focus()
			m.password.Blur()
			m.focusPassword = false
		}
		return m, m.waitForSession()

	case loginDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = ""
		m.password.SetValue("")
		m.session.Establish(&msg.creds.User)
		view, cmd := m.navigate(routes.PathDashboard)
		m.view = view
		return m, cmd

	case jobsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		items := make([]list.Item, len(msg.page.Transcriptions))
		for i, job := range msg.page.Transcriptions {
			items[i] = jobItem{job: job}
		}
		m.jobList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.jobList.Title = fmt.Sprintf("Transcriptions (%d)", msg.page.Total)
		m.jobList.SetSize(m.width-4, m.height-8)
		m.listReady = true
		return m, nil

	case jobFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = DashboardView
			return m, nil
		}
		m.err = nil
		m.selected = msg.job
		m.view = JobDetailView
		return m, nil

	case profileFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = DashboardView
			return m, nil
		}
		m.err = nil
		m.identity = msg.identity
		m.plan = msg.plan
		m.view = ProfileView
		return m, nil

	case downloadDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = fmt.Sprintf("Saved %s", msg.path)
		return m, nil
	}

	return m.updateInputs(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoginView:
		return m.renderLogin()
	case DashboardView:
		return m.renderDashboard()
	case JobDetailView:
		return m.renderJobDetail()
	case ProfileView:
		return m.renderProfile()
	default:
		return ""
	}
}

// Close detaches the model from the session container.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab":
		m.focusPassword = !m.focusPassword
		if m.focusPassword {
			m.email.Blur()
			return m, m.password.Focus()
		}
		m.password.Blur()
		return m, m.email.Focus()
	case "enter":
		if !m.focusPassword {
			m.focusPassword = true
			m.email.Blur()
			return m, m.password.Focus()
		}
		if m.email.Value() == "" || m.password.Value() == "" {
			m.err = fmt.Errorf("email and password are required")
			return m, nil
		}
		return m, m.submitLogin(m.email.Value(), m.password.Value())
	}

	return m.updateInputs(msg)
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.listReady && m.jobList.FilterState() == list.Filtering {
		return m.updateInputs(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.fetchJobs()
	case "p":
		view, cmd := m.navigate(routes.PathProfile)
		m.view = view
		return m, cmd
	case "enter":
		if !m.listReady {
			return m, nil
		}
		if item, ok := m.jobList.SelectedItem().(jobItem); ok {
			return m, m.fetchJob(item.job.ID)
		}
	}

	return m.updateInputs(msg)
}

func (m *Model) handleJobDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = DashboardView
		m.selected = nil
		m.notice = ""
		return m, nil
	case "r":
		if m.selected != nil {
			return m, m.fetchJob(m.selected.ID)
		}
	case "d":
		if m.selected != nil && m.selected.Status.Downloadable() {
			return m, m.downloadJob(m.selected)
		}
		m.notice = "Only completed jobs can be downloaded."
		return m, nil
	}
	return m, nil
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		view, cmd := m.navigate(routes.PathDashboard)
		m.view = view
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case LoginView:
		if m.focusPassword {
			m.password, cmd = m.password.Update(msg)
		} else {
			m.email, cmd = m.email.Update(msg)
		}
	case DashboardView:
		if m.listReady {
			m.jobList, cmd = m.jobList.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) waitForSession() tea.Cmd {
	return func() tea.Msg {
		state, ok := <-m.sessionCh
		if !ok {
			return nil
		}
		return sessionChangedMsg(state)
	}
}

func (m *Model) submitLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		creds, err := m.auth.Login(m.ctx, email, password)
		return loginDoneMsg{creds: creds, err: err}
	}
}

func (m *Model) fetchJobs() tea.Cmd {
	return func() tea.Msg {
		page, err := m.jobs.List(m.ctx, 1, 50)
		return jobsFetchedMsg{page: page, err: err}
	}
}

func (m *Model) fetchJob(id string) tea.Cmd {
	return func() tea.Msg {
		job, err := m.jobs.Get(m.ctx, id)
		return jobFetchedMsg{job: job, err: err}
	}
}

func (m *Model) fetchProfile() tea.Cmd {
	return func() tea.Msg {
		identity, err := m.users.Profile(m.ctx)
		if err != nil {
			return profileFetchedMsg{err: err}
		}
		plan, err := m.users.Usage(m.ctx)
		return profileFetchedMsg{identity: identity, plan: plan, err: err}
	}
}

func (m *Model) downloadJob(job *api.Transcription) tea.Cmd {
	return func() tea.Msg {
		data, err := m.jobs.Download(m.ctx, job.ID, api.FormatTxt)
		if err != nil {
			return downloadDoneMsg{err: err}
		}
		base := job.AudioFilename
		if ext := filepath.Ext(base); ext != "" {
			base = base[:len(base)-len(ext)]
		}
		path := base + ".txt"
		if err := os.WriteFile(path, data, 0644); err != nil {
			return downloadDoneMsg{err: err}
		}
		return downloadDoneMsg{path: path}
	}
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Kikitori — Sign In")

	var notice string
	if m.notice != "" {
		notice = styles.warn.Render(m.notice) + "\n\n"
	}
	var errLine string
	if m.err != nil {
		errLine = "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	helpKeys := []key.Binding{m.keys.tab, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n%s%s\n\n%s",
		title, notice, m.email.View(), m.password.View(), errLine, helpView)
}

func (m *Model) renderDashboard() string {
	if !m.listReady {
		if m.err != nil {
			return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
		}
		return styles.help.Render("Loading transcriptions...")
	}

	var errLine string
	if m.err != nil {
		errLine = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.profile, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s%s\n\n%s", errLine, m.jobList.View(), helpView)
}

func (m *Model) renderJobDetail() string {
	if m.selected == nil {
		return styles.help.Render("Loading job...")
	}
	job := m.selected

	title := styles.title.Render(job.AudioFilename)

	var banner string
	if job.Status == api.StatusCompleted {
		if expiry := formatter.FormatExpiry(job.ExpiresAt, time.Now()); expiry != "" {
			banner = styles.warn.Render(expiry) + "\n\n"
		}
	}

	info := fmt.Sprintf(
		"Status: %s\nDuration: %s\nSize: %s\nCreated: %s\n",
		formatter.FormatStatus(job.Status),
		formatter.FormatAudioDuration(job.AudioDuration),
		formatter.FormatBytes(job.AudioSize),
		job.CreatedAt.Format("2006-01-02 15:04"),
	)
	if job.CompletedAt != nil {
		info += fmt.Sprintf("Completed: %s\n", job.CompletedAt.Format("2006-01-02 15:04"))
	}
	if job.ErrorMessage != "" {
		info += styles.err.Render(fmt.Sprintf("Failed: %s", job.ErrorMessage)) + "\n"
	}

	var text string
	if job.FullText != "" {
		text = fmt.Sprintf("\n%s\n", job.FullText)
	} else if len(job.Segments) > 0 {
		text = fmt.Sprintf("\n%d segments\n", len(job.Segments))
	}

	var notice string
	if m.notice != "" {
		notice = "\n" + styles.ok.Render(m.notice)
	}
	var errLine string
	if m.err != nil {
		errLine = "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	helpKeys := []key.Binding{m.keys.download, m.keys.refresh, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s%s%s%s\n\n%s", title, banner, info, text, notice, errLine, helpView)
}

func (m *Model) renderProfile() string {
	if m.identity == nil {
		return styles.help.Render("Loading profile...")
	}

	title := styles.title.Render("Profile")

	name := m.identity.DisplayName
	if name == "" {
		name = m.identity.Email
	}
	info := fmt.Sprintf("Name: %s\nEmail: %s\n", name, m.identity.Email)
	if m.identity.IsAdmin {
		info += "Role: admin\n"
	}

	var usage string
	if m.plan != nil {
		usage = fmt.Sprintf(
			"\nPlan: %s\nSessions: %s\nHours: %s\n",
			formatter.FormatPlanType(m.plan.PlanType),
			formatter.FormatSessionsUsage(m.plan.SessionsUsed, m.plan.SessionsLimit),
			formatter.FormatHoursUsage(m.plan.HoursUsed, m.plan.HoursLimit),
		)
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n%s", title, info, usage, helpView)
}
