package models

import "time"

// Draw represents a single raffle event.
type Draw struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Title       string    `gorm:"type:text;not null"` // Display title.
	Description string    `gorm:"type:text"`          // Free-form description.
	DrawDate    time.Time `gorm:"not null;index"`     // Scheduled calendar date, stored as UTC midnight.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// Expired reports whether the draw's date lies strictly before asOf's date.
// Expiry is a display property only; a draw is closed by a Winner row, not by age.
func (d *Draw) Expired(asOf time.Time) bool {
	return d.DrawDate.Before(DateOnly(asOf))
}

// DateOnly truncates a time to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, day := t.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
