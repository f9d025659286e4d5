package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlLogger routes GORM's logging through the process-wide slog logger.
// Queries surface at Debug and real errors at Error; level filtering stays
// with slog, so the SQL formatting callback never runs when Debug is off.
type sqlLogger struct{}

// LogMode is a no-op; slog owns the level.
func (l sqlLogger) LogMode(logger.LogLevel) logger.Interface { return l }

func (l sqlLogger) Info(_ context.Context, msg string, args ...any) {
	slog.Info(fmt.Sprintf(msg, args...))
}

func (l sqlLogger) Warn(_ context.Context, msg string, args ...any) {
	slog.Warn(fmt.Sprintf(msg, args...))
}

func (l sqlLogger) Error(_ context.Context, msg string, args ...any) {
	slog.Error(fmt.Sprintf(msg, args...))
}

// sqlPreviewLen bounds the SQL text carried in a log record.
const sqlPreviewLen = 200

// sqlPreview elides the middle of long statements so bulk inserts do not
// flood the log.
func sqlPreview(sql string) string {
	if len(sql) <= sqlPreviewLen {
		return sql
	}
	half := (sqlPreviewLen - 3) / 2
	return sql[:half] + "..." + sql[len(sql)-half:]
}

// Trace runs after every SQL operation. ErrRecordNotFound is the normal
// empty result of First and is treated as a successful query, not an error.
func (l sqlLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		sql, rows := fc()
		slog.Error("sql query failed",
			"sql", sqlPreview(sql),
			"rows", rows,
			"duration", elapsed,
			"error", err,
		)
		return
	}

	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}

	sql, rows := fc()
	slog.Debug("sql query",
		"sql", sqlPreview(sql),
		"rows", rows,
		"duration", elapsed,
	)
}
