package draw

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/luckydrawhq/luckydraw/internal/models"
	"gorm.io/gorm"
)

// Result is the outcome of a winner selection, denormalized so the caller
// can notify and display without further reads.
type Result struct {
	Winner    models.Winner
	Username  string
	Email     string
	DrawTitle string
	DrawDate  time.Time
}

// Selector picks one participant of a draw uniformly at random and commits
// that selection exactly once.
type Selector struct {
	db  *gorm.DB
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector constructs a Selector using the given PRNG. Injecting the
// generator keeps selection deterministic under a fixed seed, which the
// fairness tests rely on. A nil rng falls back to a time-seeded one.
func NewSelector(db *gorm.DB, rng *rand.Rand) *Selector {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	return &Selector{db: db, rng: rng}
}

// intN draws from the shared PRNG under the lock; *rand.Rand is not safe
// for concurrent use.
func (s *Selector) intN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// SelectWinner decides drawID. Preconditions are checked in order, each with
// its own outcome: an existing winner yields ErrAlreadyDecided, an empty
// participant set yields ErrNoParticipants. On success exactly one Winner
// row is inserted; every failure path writes nothing.
//
// The no-existing-winner check and the insert run in one transaction, and
// the unique index on winners.draw_id backs them up: when two selections
// race, the loser's insert violates the index and is reported as
// ErrAlreadyDecided, so at most one winner can ever be committed.
func (s *Selector) SelectWinner(ctx context.Context, drawID uint64) (Result, error) {
	var result Result
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d models.Draw
		if errDraw := tx.First(&d, drawID).Error; errDraw != nil {
			if errors.Is(errDraw, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: draw %d", ErrNotFound, drawID)
			}
			return fmt.Errorf("%w: %v", ErrUnavailable, errDraw)
		}

		var existing models.Winner
		errExisting := tx.Where("draw_id = ?", drawID).First(&existing).Error
		if errExisting == nil {
			return ErrAlreadyDecided
		}
		if !errors.Is(errExisting, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %v", ErrUnavailable, errExisting)
		}

		var participants []models.Participant
		if errFind := tx.Where("draw_id = ?", drawID).Order("id ASC").Find(&participants).Error; errFind != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, errFind)
		}
		if len(participants) == 0 {
			return ErrNoParticipants
		}

		picked := participants[s.intN(len(participants))]
		winner := models.Winner{
			DrawID:     drawID,
			UserID:     picked.UserID,
			SelectedAt: time.Now().UTC(),
		}
		if errCreate := tx.Create(&winner).Error; errCreate != nil {
			if isDuplicateKey(errCreate) {
				return ErrAlreadyDecided
			}
			return fmt.Errorf("%w: %v", ErrUnavailable, errCreate)
		}

		var user models.User
		if errUser := tx.First(&user, picked.UserID).Error; errUser != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, errUser)
		}

		result = Result{
			Winner:    winner,
			Username:  user.Username,
			Email:     user.Email,
			DrawTitle: d.Title,
			DrawDate:  d.DrawDate,
		}
		return nil
	})
	if errTx != nil {
		return Result{}, errTx
	}
	return result, nil
}
