// Package tasks implements long-running job operations on top of the API
// client: watching a transcription until it reaches a terminal status, and
// bulk-downloading artifacts for completed jobs.
//
// Operations emit [ProgressUpdate] values via channels for non-blocking
// status reporting to the CLI and TUI layers, and pace their API calls with
// a rate limiter so a watch loop or worker pool can't hammer the backend.
package tasks
