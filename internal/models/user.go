package models

import "time"

// Role values stored in User.Role.
const (
	// RoleUser is a regular account that can browse and join draws.
	RoleUser = "user"
	// RoleAdmin can manage draws and select winners.
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:text;not null"`             // Display name.
	Email    string `gorm:"type:text;not null;uniqueIndex"` // Unique login email, stored lowercase.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	Role  string `gorm:"type:text;not null;default:'user'"` // Either "user" or "admin".
	Phone string `gorm:"type:text"`                         // Optional contact phone.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
