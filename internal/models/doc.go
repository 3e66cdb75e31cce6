// Package models defines the persistent entities behind the local job cache.
//
// Wire types for the backend API live in the api package; this package only
// covers what the client stores on disk between runs:
//   - [CachedJob] : the listing projection of a transcription job, refreshed
//     on every successful list/get and readable offline
//
// Persistent entities implement the [Model] interface providing identity,
// timestamps, and validation. The [Repository] interface defines the CRUD
// surface the repositories package implements over SQLite.
package models
