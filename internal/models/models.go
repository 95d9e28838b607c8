// package models defines the data model for announcement history
package models

import (
	"fmt"
	"strings"
	"time"
)

// Announcement records one announced track. Rows are immutable once written;
// history exists for browsing, not editing.
type Announcement struct {
	id          string
	artists     string
	title       string
	album       string
	url         string
	progressMS  int
	durationMS  int
	announcedAt time.Time
}

// NewAnnouncement creates an Announcement stamped with the current time.
// The ID is assigned by the repository on insert.
func NewAnnouncement(artists []string, title, album, url string, progressMS, durationMS int) *Announcement {
	return &Announcement{
		artists:     strings.Join(artists, ", "),
		title:       title,
		album:       album,
		url:         url,
		progressMS:  progressMS,
		durationMS:  durationMS,
		announcedAt: time.Now(),
	}
}

func (a *Announcement) ID() string             { return a.id }
func (a *Announcement) Artists() string        { return a.artists }
func (a *Announcement) Title() string          { return a.title }
func (a *Announcement) Album() string          { return a.album }
func (a *Announcement) URL() string            { return a.url }
func (a *Announcement) ProgressMS() int        { return a.progressMS }
func (a *Announcement) DurationMS() int        { return a.durationMS }
func (a *Announcement) AnnouncedAt() time.Time { return a.announcedAt }

func (a *Announcement) SetID(id string)             { a.id = id }
func (a *Announcement) SetAnnouncedAt(ts time.Time) { a.announcedAt = ts }

// Validate checks if the announcement's data is valid and returns an error if not.
func (a *Announcement) Validate() error {
	if a.title == "" {
		return fmt.Errorf("announcement title is required")
	}
	if a.announcedAt.IsZero() {
		return fmt.Errorf("announcement timestamp is required")
	}
	return nil
}
