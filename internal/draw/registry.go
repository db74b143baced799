package draw

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/luckydrawhq/luckydraw/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Details carries the contact and payment fields a user submits when
// joining a draw. Name, Email, Phone, and PaymentMethod are required;
// BankName and Amount are optional (whether a bank transfer requires a
// bank name is the caller's policy, not the registry's).
type Details struct {
	Name          string
	Email         string
	Phone         string
	PaymentMethod string
	BankName      string
	Amount        string
}

// normalize trims every field and lowercases the email.
func (d Details) normalize() Details {
	return Details{
		Name:          strings.TrimSpace(d.Name),
		Email:         strings.ToLower(strings.TrimSpace(d.Email)),
		Phone:         strings.TrimSpace(d.Phone),
		PaymentMethod: strings.TrimSpace(d.PaymentMethod),
		BankName:      strings.TrimSpace(d.BankName),
		Amount:        strings.TrimSpace(d.Amount),
	}
}

func (d Details) validate() error {
	switch {
	case d.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case d.Email == "":
		return fmt.Errorf("%w: email is required", ErrValidation)
	case d.Phone == "":
		return fmt.Errorf("%w: phone is required", ErrValidation)
	case d.PaymentMethod == "":
		return fmt.Errorf("%w: payment method is required", ErrValidation)
	}
	return nil
}

// Registry records and updates user registrations for draws.
type Registry struct {
	db *gorm.DB
}

// NewRegistry constructs a Registry.
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// JoinOrUpdate registers userID for drawID, or refreshes the existing
// registration in place. The write is a single upsert keyed on the
// (draw_id, user_id) unique index, so a double submit can never produce a
// duplicate row. JoinedAt is always server-assigned and refreshed so a
// client cannot backdate its entry.
//
// The registry deliberately does not check whether the draw is past its
// date or already decided; that gate belongs to the caller.
func (r *Registry) JoinOrUpdate(ctx context.Context, drawID, userID uint64, details Details) (models.Participant, error) {
	details = details.normalize()
	if errValidate := details.validate(); errValidate != nil {
		return models.Participant{}, errValidate
	}

	if errDraw := r.db.WithContext(ctx).First(&models.Draw{}, drawID).Error; errDraw != nil {
		if errors.Is(errDraw, gorm.ErrRecordNotFound) {
			return models.Participant{}, fmt.Errorf("%w: draw %d", ErrNotFound, drawID)
		}
		return models.Participant{}, fmt.Errorf("%w: %v", ErrUnavailable, errDraw)
	}
	if errUser := r.db.WithContext(ctx).First(&models.User{}, userID).Error; errUser != nil {
		if errors.Is(errUser, gorm.ErrRecordNotFound) {
			return models.Participant{}, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return models.Participant{}, fmt.Errorf("%w: %v", ErrUnavailable, errUser)
	}

	row := models.Participant{
		DrawID:        drawID,
		UserID:        userID,
		Name:          details.Name,
		Email:         details.Email,
		Phone:         details.Phone,
		PaymentMethod: details.PaymentMethod,
		BankName:      details.BankName,
		Amount:        details.Amount,
		JoinedAt:      time.Now().UTC(),
	}
	errUpsert := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "draw_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "email", "phone", "payment_method", "bank_name", "amount", "joined_at",
		}),
	}).Create(&row).Error
	if errUpsert != nil {
		return models.Participant{}, fmt.Errorf("%w: %v", ErrUnavailable, errUpsert)
	}

	// Re-read so the caller sees the committed row. On a conflict-update the
	// surviving row keeps its original primary key, not the one GORM assigned
	// to the insert attempt.
	current, errRead := r.CurrentParticipant(ctx, drawID, userID)
	if errRead != nil {
		return models.Participant{}, errRead
	}
	if current == nil {
		return models.Participant{}, fmt.Errorf("%w: participant vanished after upsert", ErrUnavailable)
	}
	return *current, nil
}

// CurrentParticipant returns the registration row for (drawID, userID), or
// nil when the user has not joined the draw.
func (r *Registry) CurrentParticipant(ctx context.Context, drawID, userID uint64) (*models.Participant, error) {
	var row models.Participant
	errFind := r.db.WithContext(ctx).
		Where("draw_id = ? AND user_id = ?", drawID, userID).
		First(&row).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, errFind)
	}
	return &row, nil
}

// JoinedCount returns how many draws the user has registered for.
func (r *Registry) JoinedCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	errCount := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if errCount != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, errCount)
	}
	return count, nil
}
