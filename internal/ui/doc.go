// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the web client's page flow:
//  1. [LoginView] : Email/password sign in
//  2. [DashboardView] : Browse transcription jobs
//  3. [JobDetailView] : Inspect one job, download finished transcripts
//  4. [ProfileView] : Account identity and plan usage
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every navigation passes through the route table in [routes.Resolve] against a live
// session snapshot, so an expired session lands on the login view no matter which
// view requested it.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
