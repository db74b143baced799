package draw

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Domain outcomes reported to callers. All of them are recoverable at the
// HTTP boundary; none should ever surface as a crash.
var (
	// ErrNotFound indicates a referenced draw, user, or participant is absent.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyDecided indicates winner selection was re-invoked for a decided draw.
	ErrAlreadyDecided = errors.New("winner already selected")
	// ErrNoParticipants indicates selection was attempted with zero participants.
	ErrNoParticipants = errors.New("no participants")
	// ErrConflict indicates a concurrent write lost a race detected by a unique constraint.
	ErrConflict = errors.New("conflicting concurrent write")
	// ErrUnavailable indicates the storage layer failed; callers may retry.
	ErrUnavailable = errors.New("storage unavailable")
)

// isDuplicateKey reports whether err is a unique-constraint violation.
// GORM translates some driver errors to ErrDuplicatedKey; the raw sqlite and
// postgres messages are matched as a fallback since translation depends on
// the driver in use.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
