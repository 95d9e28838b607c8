// Package repositories implements SQLite persistence for announcement history.
//
// [AnnouncementRepository] records each announced track so past announcements
// can be browsed with `np history`. Rows are append-only; old history is
// trimmed by timestamp with Purge rather than edited in place.
//
// IDs are v4 UUIDs generated at insert time via [shared.GenerateID].
package repositories
