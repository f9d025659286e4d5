package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTransaction runs fn inside a database transaction. An error from fn
// rolls the transaction back and is returned; otherwise the transaction
// commits.
func WithTransaction(ctx context.Context, db Database, fn func(tx *gorm.DB) error) error {
	_, err := WithTransactionResult(ctx, db, func(tx *gorm.DB) (struct{}, error) {
		return struct{}{}, fn(tx)
	})
	return err
}

// WithTransactionResult runs fn inside a database transaction and returns
// its result. Rollback happens on any error and on panic; the result is
// only valid once the commit succeeded.
func WithTransactionResult[T any](ctx context.Context, db Database, fn func(tx *gorm.DB) (T, error)) (T, error) {
	var zero T

	tx := db.Session(ctx).Begin()
	if tx.Error != nil {
		return zero, fmt.Errorf("begin transaction: %w", tx.Error)
	}

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	result, err := fn(tx)
	if err != nil {
		return result, err
	}

	if err := tx.Commit().Error; err != nil {
		return result, fmt.Errorf("commit transaction: %w", err)
	}
	committed = true

	return result, nil
}
