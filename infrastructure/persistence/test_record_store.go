package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/internal/database"
	"gorm.io/gorm/clause"
)

// TestRecordStore implements hardware.TestRecordStore using GORM.
type TestRecordStore struct {
	database.Repository[hardware.TestRecord, TestRecordModel]
}

// NewTestRecordStore creates a new TestRecordStore.
func NewTestRecordStore(db database.Database) TestRecordStore {
	return TestRecordStore{
		Repository: database.NewRepository[hardware.TestRecord, TestRecordModel](db, TestRecordMapper{}, "test record"),
	}
}

// SaveAll inserts test records, skipping any that collide with a stored
// (owner, timestamp) pair. Records are immutable, so a conflict always
// means the same report seen again.
func (s TestRecordStore) SaveAll(ctx context.Context, records []hardware.TestRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	models := make([]TestRecordModel, len(records))
	now := time.Now()
	for i, r := range records {
		models[i] = s.Mapper().ToModel(r)
		models[i].CreatedAt = now
	}

	result := s.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&models)
	if result.Error != nil {
		return 0, fmt.Errorf("save test records: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

// LatestTimestamp returns the newest stored run timestamp matching the
// options, or the zero time when no record matches. Fetching the newest row
// instead of aggregating keeps the timestamp decoding in the model layer,
// where the SQLite driver's text storage of times is handled.
func (s TestRecordStore) LatestTimestamp(ctx context.Context, options ...hardware.Option) (time.Time, error) {
	options = append(options, hardware.WithOrderDesc("timestamp"))
	record, err := s.FindOne(ctx, options...)
	if errors.Is(err, database.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("latest test record timestamp: %w", err)
	}
	return record.Timestamp(), nil
}
