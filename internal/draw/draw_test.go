package draw

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	dbpkg "github.com/luckydrawhq/luckydraw/internal/db"
	"github.com/luckydrawhq/luckydraw/internal/models"
	"gorm.io/gorm"
)

// newTestDB opens a file-backed sqlite database in a per-test temp dir.
// A file (not :memory:) so concurrent transactions in the selector tests
// see the same database through the connection pool.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, errOpen := dbpkg.Open(filepath.Join(t.TempDir(), "draws.db"))
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := dbpkg.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, username string) models.User {
	t.Helper()
	now := time.Now().UTC()
	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hash",
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		t.Fatalf("create user %s: %v", username, errCreate)
	}
	return user
}

func seedDraw(t *testing.T, conn *gorm.DB, title string, date time.Time) models.Draw {
	t.Helper()
	d := models.Draw{
		Title:       title,
		Description: "seeded",
		DrawDate:    models.DateOnly(date),
	}
	if errCreate := conn.Create(&d).Error; errCreate != nil {
		t.Fatalf("create draw %s: %v", title, errCreate)
	}
	return d
}

func seedParticipant(t *testing.T, conn *gorm.DB, drawID uint64, user models.User) models.Participant {
	t.Helper()
	row := models.Participant{
		DrawID:        drawID,
		UserID:        user.ID,
		Name:          user.Username,
		Email:         user.Email,
		Phone:         "555",
		PaymentMethod: "cash",
		JoinedAt:      time.Now().UTC(),
	}
	if errCreate := conn.Create(&row).Error; errCreate != nil {
		t.Fatalf("create participant for user %d: %v", user.ID, errCreate)
	}
	return row
}

func countRows(t *testing.T, conn *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var count int64
	q := conn.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if errCount := q.Count(&count).Error; errCount != nil {
		t.Fatalf("count rows: %v", errCount)
	}
	return count
}

func testDetails() Details {
	return Details{
		Name:          "Ana",
		Email:         "a@x.com",
		Phone:         "555",
		PaymentMethod: "bank",
		BankName:      "X",
		Amount:        "10",
	}
}

func testCtx() context.Context {
	return context.Background()
}
