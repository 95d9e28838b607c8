package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
)

// AnnouncementRepository persists announcement history in SQLite.
//
// Rows are append-only: announcements are created when a track is announced
// and trimmed with [AnnouncementRepository.Purge]; there is no update path.
type AnnouncementRepository struct {
	db *sql.DB
}

// NewAnnouncementRepository creates a new AnnouncementRepository with the given database connection
func NewAnnouncementRepository(db *sql.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// Create inserts a new [models.Announcement] into the database with a generated ID
func (r *AnnouncementRepository) Create(a *models.Announcement) error {
	id := shared.GenerateID()
	a.SetID(id)

	if err := a.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO announcements (id, artists, title, album, url, progress_ms, duration_ms, announced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		id,
		a.Artists(),
		a.Title(),
		a.Album(),
		a.URL(),
		a.ProgressMS(),
		a.DurationMS(),
		a.AnnouncedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert announcement: %w", err)
	}

	return nil
}

// Get retrieves an announcement by ID
func (r *AnnouncementRepository) Get(id string) (*models.Announcement, error) {
	query := `
		SELECT id, artists, title, album, url, progress_ms, duration_ms, announced_at
		FROM announcements
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Recent retrieves the most recent announcements, newest first
func (r *AnnouncementRepository) Recent(limit int) ([]*models.Announcement, error) {
	query := `
		SELECT id, artists, title, album, url, progress_ms, duration_ms, announced_at
		FROM announcements
		ORDER BY announced_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query announcements: %w", err)
	}
	defer rows.Close()

	var announcements []*models.Announcement
	for rows.Next() {
		a, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return announcements, nil
}

// Purge removes announcements older than the given cutoff and returns the
// number of rows deleted
func (r *AnnouncementRepository) Purge(before time.Time) (int64, error) {
	query := `
		DELETE FROM announcements
		WHERE announced_at < ?
	`

	result, err := r.db.Exec(query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge announcements: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

// scanOne scans a single [sql.Row] into a [models.Announcement]
func (r *AnnouncementRepository) scanOne(row *sql.Row) (*models.Announcement, error) {
	var (
		id          string
		artists     string
		title       string
		album       string
		url         string
		progressMS  int
		durationMS  int
		announcedAt time.Time
	)

	err := row.Scan(&id, &artists, &title, &album, &url, &progressMS, &durationMS, &announcedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("announcement not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan announcement: %w", err)
	}

	a := models.NewAnnouncement([]string{artists}, title, album, url, progressMS, durationMS)
	a.SetID(id)
	a.SetAnnouncedAt(announcedAt)

	return a, nil
}

// scanRow scans a row from [sql.Rows] into a [models.Announcement]
func (r *AnnouncementRepository) scanRow(rows *sql.Rows) (*models.Announcement, error) {
	var (
		id          string
		artists     string
		title       string
		album       string
		url         string
		progressMS  int
		durationMS  int
		announcedAt time.Time
	)

	err := rows.Scan(&id, &artists, &title, &album, &url, &progressMS, &durationMS, &announcedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan announcement: %w", err)
	}

	a := models.NewAnnouncement([]string{artists}, title, album, url, progressMS, durationMS)
	a.SetID(id)
	a.SetAnnouncedAt(announcedAt)

	return a, nil
}
