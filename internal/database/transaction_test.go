package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) Database {
	t.Helper()
	ctx := context.Background()
	url := "sqlite:///" + filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(ctx, url)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Session(ctx).Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func countItems(t *testing.T, db Database) int64 {
	t.Helper()
	var count int64
	if err := db.Session(context.Background()).Raw("SELECT COUNT(*) FROM items").Scan(&count).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	return count
}

func TestWithTransaction_Commits(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	err := WithTransaction(ctx, db, func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO items (name) VALUES (?)", "item1").Error
	})
	if err != nil {
		t.Fatalf("WithTransaction: %v", err)
	}

	if got := countItems(t, db); got != 1 {
		t.Errorf("items = %d, want 1", got)
	}
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	boom := errors.New("boom")
	err := WithTransaction(ctx, db, func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO items (name) VALUES (?)", "item1").Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}

	if got := countItems(t, db); got != 0 {
		t.Errorf("items = %d, want 0 after rollback", got)
	}
}

func TestWithTransactionResult_ReturnsValue(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	got, err := WithTransactionResult(ctx, db, func(tx *gorm.DB) (int64, error) {
		if err := tx.Exec("INSERT INTO items (name) VALUES (?), (?)", "a", "b").Error; err != nil {
			return 0, err
		}
		var count int64
		if err := tx.Raw("SELECT COUNT(*) FROM items").Scan(&count).Error; err != nil {
			return 0, err
		}
		return count, nil
	})
	if err != nil {
		t.Fatalf("WithTransactionResult: %v", err)
	}
	if got != 2 {
		t.Errorf("result = %d, want 2", got)
	}

	if got := countItems(t, db); got != 2 {
		t.Errorf("items = %d, want 2 after commit", got)
	}
}

func TestWithTransactionResult_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	boom := errors.New("boom")
	_, err := WithTransactionResult(ctx, db, func(tx *gorm.DB) (int, error) {
		if err := tx.Exec("INSERT INTO items (name) VALUES (?)", "item1").Error; err != nil {
			return 0, err
		}
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}

	if got := countItems(t, db); got != 0 {
		t.Errorf("items = %d, want 0 after rollback", got)
	}
}
