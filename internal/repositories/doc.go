// Package repositories provides the SQLite persistence layer for the local
// job cache.
//
// [JobRepository] implements models.Repository[*models.CachedJob]: upserts
// refresh a row in place while preserving its sequence number, and listing
// returns entries newest first so the offline view matches the backend's
// ordering.
package repositories
