package models

import "time"

// Participant records one user's registration for one draw.
// The (draw_id, user_id) pair is unique; re-joining updates the row in place.
type Participant struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	DrawID uint64 `gorm:"not null;uniqueIndex:idx_participants_draw_user"` // Owning draw.
	Draw   *Draw  `gorm:"foreignKey:DrawID"`                               // Associated draw record.

	UserID uint64 `gorm:"not null;uniqueIndex:idx_participants_draw_user"` // Joining user.
	User   *User  `gorm:"foreignKey:UserID"`                               // Associated user record.

	Name          string `gorm:"type:text;not null"` // Contact name supplied on join.
	Email         string `gorm:"type:text;not null"` // Contact email, stored lowercase.
	Phone         string `gorm:"type:text;not null"` // Contact phone.
	PaymentMethod string `gorm:"type:text;not null"` // Payment method label.
	BankName      string `gorm:"type:text"`          // Optional bank name for transfer methods.
	Amount        string `gorm:"type:text"`          // Optional payment amount, kept verbatim.

	JoinedAt time.Time `gorm:"not null"` // Server-assigned, refreshed on every re-join.
}
