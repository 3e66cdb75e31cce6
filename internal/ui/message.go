package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kikitori/kikitori/internal/api"
	"github.com/kikitori/kikitori/internal/session"
)

// sessionChangedMsg carries a fresh session snapshot pushed by the
// session container's subscriber hook.
type sessionChangedMsg session.State

// loginDoneMsg reports the outcome of a sign-in attempt.
type loginDoneMsg struct {
	creds *api.Credentials
	err   error
}

// jobsFetchedMsg carries one dashboard page.
type jobsFetchedMsg struct {
	page *api.TranscriptionList
	err  error
}

// jobFetchedMsg carries one full job record.
type jobFetchedMsg struct {
	job *api.Transcription
	err error
}

// profileFetchedMsg carries identity plus plan usage for the profile view.
type profileFetchedMsg struct {
	identity *api.Identity
	plan     *api.Plan
	err      error
}

// downloadDoneMsg reports a transcript written to disk.
type downloadDoneMsg struct {
	path string
	err  error
}

var (
	_ tea.Msg = sessionChangedMsg{}
	_ tea.Msg = loginDoneMsg{}
	_ tea.Msg = jobsFetchedMsg{}
	_ tea.Msg = jobFetchedMsg{}
	_ tea.Msg = profileFetchedMsg{}
	_ tea.Msg = downloadDoneMsg{}
)
