package draw

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/luckydrawhq/luckydraw/internal/models"
	"gorm.io/gorm"
)

// Summary is a draw together with the per-draw aggregates every listing
// reports. The aggregates are recomputed on each query; there are no cached
// counters to keep consistent.
type Summary struct {
	Draw             models.Draw
	ParticipantCount int64
	WinnerSelected   bool
	AlreadyJoined    bool
	Expired          bool
}

// ParticipantEntry is a registration row joined with the account that made it.
type ParticipantEntry struct {
	Participant models.Participant
	Username    string
	UserEmail   string
}

// WinnerEntry is a winner row joined with its draw and user for display.
type WinnerEntry struct {
	ID         uint64
	DrawID     uint64
	DrawTitle  string
	DrawDate   time.Time
	Username   string
	Email      string
	SelectedAt time.Time
}

// Report aggregates everything an admin report needs for one draw.
type Report struct {
	Draw         models.Draw
	Participants []ParticipantEntry
	Winner       *WinnerEntry
}

// Lifecycle owns draw CRUD and the derived-state listing queries.
type Lifecycle struct {
	db *gorm.DB
}

// NewLifecycle constructs a Lifecycle.
func NewLifecycle(db *gorm.DB) *Lifecycle {
	return &Lifecycle{db: db}
}

// Create stores a new draw. The date is truncated to a UTC calendar date.
// A past date is allowed; admins may backfill old draws.
func (l *Lifecycle) Create(ctx context.Context, title, description string, drawDate time.Time) (models.Draw, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Draw{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if drawDate.IsZero() {
		return models.Draw{}, fmt.Errorf("%w: draw date is required", ErrValidation)
	}

	d := models.Draw{
		Title:       title,
		Description: strings.TrimSpace(description),
		DrawDate:    models.DateOnly(drawDate),
	}
	if errCreate := l.db.WithContext(ctx).Create(&d).Error; errCreate != nil {
		return models.Draw{}, fmt.Errorf("%w: %v", ErrUnavailable, errCreate)
	}
	return d, nil
}

// Update rewrites a draw's title, description, and date.
func (l *Lifecycle) Update(ctx context.Context, id uint64, title, description string, drawDate time.Time) (models.Draw, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Draw{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if drawDate.IsZero() {
		return models.Draw{}, fmt.Errorf("%w: draw date is required", ErrValidation)
	}

	d, errGet := l.Get(ctx, id)
	if errGet != nil {
		return models.Draw{}, errGet
	}

	updates := map[string]any{
		"title":       title,
		"description": strings.TrimSpace(description),
		"draw_date":   models.DateOnly(drawDate),
		"updated_at":  time.Now().UTC(),
	}
	if errUpdate := l.db.WithContext(ctx).Model(&d).Updates(updates).Error; errUpdate != nil {
		return models.Draw{}, fmt.Errorf("%w: %v", ErrUnavailable, errUpdate)
	}
	return l.Get(ctx, id)
}

// Get loads one draw by ID.
func (l *Lifecycle) Get(ctx context.Context, id uint64) (models.Draw, error) {
	var d models.Draw
	if errFind := l.db.WithContext(ctx).First(&d, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.Draw{}, fmt.Errorf("%w: draw %d", ErrNotFound, id)
		}
		return models.Draw{}, fmt.Errorf("%w: %v", ErrUnavailable, errFind)
	}
	return d, nil
}

// Delete removes a draw and everything it owns. Participants go first, then
// the winner, then the draw row, all in one transaction: a failure at any
// step leaves all three untouched.
func (l *Lifecycle) Delete(ctx context.Context, id uint64) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d models.Draw
		if errFind := tx.First(&d, id).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: draw %d", ErrNotFound, id)
			}
			return fmt.Errorf("%w: %v", ErrUnavailable, errFind)
		}
		if errParticipants := tx.Where("draw_id = ?", id).Delete(&models.Participant{}).Error; errParticipants != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, errParticipants)
		}
		if errWinner := tx.Where("draw_id = ?", id).Delete(&models.Winner{}).Error; errWinner != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, errWinner)
		}
		if errDraw := tx.Delete(&models.Draw{}, id).Error; errDraw != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, errDraw)
		}
		return nil
	})
}

// summaryRow is the scan target for listing queries.
type summaryRow struct {
	ID               uint64
	Title            string
	Description      string
	DrawDate         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ParticipantCount int64
	WinnerCount      int64
	JoinedCount      int64
}

func (row summaryRow) summary(asOf time.Time) Summary {
	d := models.Draw{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		DrawDate:    row.DrawDate,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	return Summary{
		Draw:             d,
		ParticipantCount: row.ParticipantCount,
		WinnerSelected:   row.WinnerCount > 0,
		AlreadyJoined:    row.JoinedCount > 0,
		Expired:          d.Expired(asOf),
	}
}

// listColumns is the aggregate select list shared by every listing query.
// forUser binds the already-joined subselect; zero matches no participant.
const listColumns = `draws.*,
	(SELECT COUNT(*) FROM participants p WHERE p.draw_id = draws.id) AS participant_count,
	(SELECT COUNT(*) FROM winners w WHERE w.draw_id = draws.id) AS winner_count,
	(SELECT COUNT(*) FROM participants p WHERE p.draw_id = draws.id AND p.user_id = ?) AS joined_count`

func (l *Lifecycle) scanSummaries(ctx context.Context, asOf time.Time, forUser uint64, apply func(*gorm.DB) *gorm.DB) ([]Summary, error) {
	query := l.db.WithContext(ctx).
		Model(&models.Draw{}).
		Select(listColumns, forUser)
	query = apply(query)

	var rows []summaryRow
	if errScan := query.Scan(&rows).Error; errScan != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, errScan)
	}
	out := make([]Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.summary(asOf))
	}
	return out, nil
}

// ListOpen returns the joinable draws as of asOf: dated today or later and
// not yet decided, soonest first. forUser feeds the already-joined flag and
// may be zero.
func (l *Lifecycle) ListOpen(ctx context.Context, asOf time.Time, forUser uint64) ([]Summary, error) {
	cutoff := models.DateOnly(asOf)
	return l.scanSummaries(ctx, asOf, forUser, func(q *gorm.DB) *gorm.DB {
		return q.
			Where("draws.draw_date >= ? AND draws.id NOT IN (SELECT draw_id FROM winners)", cutoff).
			Order("draws.draw_date ASC")
	})
}

// ListAll returns every draw, newest date first.
func (l *Lifecycle) ListAll(ctx context.Context, asOf time.Time, forUser uint64) ([]Summary, error) {
	return l.scanSummaries(ctx, asOf, forUser, func(q *gorm.DB) *gorm.DB {
		return q.Order("draws.draw_date DESC")
	})
}

// ListPast returns draws whose date has passed or which already have a
// winner, newest date first. Note the OR: a future-dated draw with a winner
// counts as past for display.
func (l *Lifecycle) ListPast(ctx context.Context, asOf time.Time) ([]Summary, error) {
	cutoff := models.DateOnly(asOf)
	return l.scanSummaries(ctx, asOf, 0, func(q *gorm.DB) *gorm.DB {
		return q.
			Where("draws.draw_date < ? OR draws.id IN (SELECT draw_id FROM winners)", cutoff).
			Order("draws.draw_date DESC")
	})
}

// participantRow is the scan target for the participant listing join.
type participantRow struct {
	ID            uint64
	DrawID        uint64
	UserID        uint64
	Name          string
	Email         string
	Phone         string
	PaymentMethod string
	BankName      string
	Amount        string
	JoinedAt      time.Time
	Username      string
	UserEmail     string
}

// Participants returns every registration for a draw joined with account
// usernames, most recent join first.
func (l *Lifecycle) Participants(ctx context.Context, drawID uint64) ([]ParticipantEntry, error) {
	var rows []participantRow
	errScan := l.db.WithContext(ctx).
		Model(&models.Participant{}).
		Select("participants.*, users.username AS username, users.email AS user_email").
		Joins("JOIN users ON users.id = participants.user_id").
		Where("participants.draw_id = ?", drawID).
		Order("participants.joined_at DESC").
		Scan(&rows).Error
	if errScan != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, errScan)
	}
	out := make([]ParticipantEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, ParticipantEntry{
			Participant: models.Participant{
				ID:            row.ID,
				DrawID:        row.DrawID,
				UserID:        row.UserID,
				Name:          row.Name,
				Email:         row.Email,
				Phone:         row.Phone,
				PaymentMethod: row.PaymentMethod,
				BankName:      row.BankName,
				Amount:        row.Amount,
				JoinedAt:      row.JoinedAt,
			},
			Username:  row.Username,
			UserEmail: row.UserEmail,
		})
	}
	return out, nil
}

// winnerRow is the scan target for winner listing joins.
type winnerRow struct {
	ID         uint64
	DrawID     uint64
	DrawTitle  string
	DrawDate   time.Time
	Username   string
	Email      string
	SelectedAt time.Time
}

func (row winnerRow) entry() WinnerEntry {
	return WinnerEntry{
		ID:         row.ID,
		DrawID:     row.DrawID,
		DrawTitle:  row.DrawTitle,
		DrawDate:   row.DrawDate,
		Username:   row.Username,
		Email:      row.Email,
		SelectedAt: row.SelectedAt,
	}
}

// WinnerFor returns the winner of a draw with user data, or nil when the
// draw is undecided.
func (l *Lifecycle) WinnerFor(ctx context.Context, drawID uint64) (*WinnerEntry, error) {
	var rows []winnerRow
	errScan := l.db.WithContext(ctx).
		Model(&models.Winner{}).
		Select("winners.id, winners.draw_id, winners.selected_at, users.username AS username, users.email AS email").
		Joins("JOIN users ON users.id = winners.user_id").
		Where("winners.draw_id = ?", drawID).
		Limit(1).
		Scan(&rows).Error
	if errScan != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, errScan)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	entry := rows[0].entry()
	return &entry, nil
}

// Winners returns every recorded winner joined with draw and user data,
// most recent selection first.
func (l *Lifecycle) Winners(ctx context.Context) ([]WinnerEntry, error) {
	var rows []winnerRow
	errScan := l.db.WithContext(ctx).
		Model(&models.Winner{}).
		Select(`winners.id, winners.draw_id, winners.selected_at,
			draws.title AS draw_title, draws.draw_date AS draw_date,
			users.username AS username, users.email AS email`).
		Joins("JOIN draws ON draws.id = winners.draw_id").
		Joins("JOIN users ON users.id = winners.user_id").
		Order("winners.selected_at DESC").
		Scan(&rows).Error
	if errScan != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, errScan)
	}
	out := make([]WinnerEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.entry())
	}
	return out, nil
}

// BuildReport gathers the draw, its participants, and its winner (if any)
// in one payload for the admin report view.
func (l *Lifecycle) BuildReport(ctx context.Context, drawID uint64) (Report, error) {
	d, errGet := l.Get(ctx, drawID)
	if errGet != nil {
		return Report{}, errGet
	}
	participants, errParticipants := l.Participants(ctx, drawID)
	if errParticipants != nil {
		return Report{}, errParticipants
	}
	winner, errWinner := l.WinnerFor(ctx, drawID)
	if errWinner != nil {
		return Report{}, errWinner
	}
	return Report{Draw: d, Participants: participants, Winner: winner}, nil
}
