package db

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestMigrateCreatesTables(t *testing.T) {
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	for _, table := range []string{"users", "draws", "participants", "winners", "settings"} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}

func TestMigrateEnforcesWinnerUniqueness(t *testing.T) {
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	if errExec := conn.Exec(`INSERT INTO winners (draw_id, user_id, selected_at) VALUES (1, 7, CURRENT_TIMESTAMP)`).Error; errExec != nil {
		t.Fatalf("first insert: %v", errExec)
	}
	if errExec := conn.Exec(`INSERT INTO winners (draw_id, user_id, selected_at) VALUES (1, 9, CURRENT_TIMESTAMP)`).Error; errExec == nil {
		t.Fatalf("expected second winner insert for draw 1 to violate unique index")
	}
}

func TestMigrateEnforcesParticipantUniqueness(t *testing.T) {
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	const insert = `INSERT INTO participants (draw_id, user_id, name, email, phone, payment_method, joined_at)
		VALUES (2, 4, 'Ana', 'a@x.com', '555', 'bank', CURRENT_TIMESTAMP)`
	if errExec := conn.Exec(insert).Error; errExec != nil {
		t.Fatalf("first insert: %v", errExec)
	}
	if errExec := conn.Exec(insert).Error; errExec == nil {
		t.Fatalf("expected duplicate (draw_id, user_id) insert to violate unique index")
	}
}
