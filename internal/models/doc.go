// Package models defines the persistent entities for the nowplaying announcer.
//
// The only entity is [Announcement]: a record of a track announced to the
// active display surface, kept so past announcements can be browsed with
// `np history`. Announcements carry the same fields the formatter renders
// (artists, title, album, URL, progress and duration) plus the announcement
// timestamp. IDs are v4 UUIDs assigned at insert time.
package models
