package models

import "time"

// Winner is the single recorded outcome of a draw's selection.
// Rows are append-only: the unique index on DrawID enforces at most one
// winner per draw, and nothing updates or deletes a row except the
// cascade that removes a whole draw.
type Winner struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	DrawID uint64 `gorm:"not null;uniqueIndex"` // Decided draw; unique index makes double selection impossible.
	Draw   *Draw  `gorm:"foreignKey:DrawID"`    // Associated draw record.

	UserID uint64 `gorm:"not null;index"` // Winning user, drawn from the draw's participants.
	User   *User  `gorm:"foreignKey:UserID"`

	SelectedAt time.Time `gorm:"not null"` // Selection timestamp.
}
