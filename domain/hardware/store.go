package hardware

import (
	"context"
	"time"
)

// AssemblyStore persists assemblies.
type AssemblyStore interface {
	Find(ctx context.Context, options ...Option) ([]Assembly, error)
	FindOne(ctx context.Context, options ...Option) (Assembly, error)
	Exists(ctx context.Context, options ...Option) (bool, error)
	// GetByKey looks up an assembly by its natural key.
	GetByKey(ctx context.Context, key AssemblyKey) (Assembly, error)
	Save(ctx context.Context, assembly Assembly) (Assembly, error)
}

// ComponentStore persists components.
type ComponentStore interface {
	Find(ctx context.Context, options ...Option) ([]Component, error)
	FindOne(ctx context.Context, options ...Option) (Component, error)
	Exists(ctx context.Context, options ...Option) (bool, error)
	// GetBySerial looks up a component by its natural key (kind, serial).
	GetBySerial(ctx context.Context, kind Kind, serial string) (Component, error)
	// FindBySerials returns existing components of a kind keyed by serial
	// number, for one-query dedup of a whole run.
	FindBySerials(ctx context.Context, kind Kind, serials []string) (map[string]Component, error)
	Save(ctx context.Context, component Component) (Component, error)
	SaveAll(ctx context.Context, components []Component) ([]Component, error)
}

// TestRecordStore persists immutable test records.
type TestRecordStore interface {
	Find(ctx context.Context, options ...Option) ([]TestRecord, error)
	Exists(ctx context.Context, options ...Option) (bool, error)
	// SaveAll inserts records, silently skipping any that collide with an
	// already-stored (owner, timestamp) pair. Returns the number inserted.
	SaveAll(ctx context.Context, records []TestRecord) (int, error)
	// LatestTimestamp returns the newest stored run timestamp for any record
	// matching the options, or the zero time when none exist. Used as the
	// per-entity ingestion watermark.
	LatestTimestamp(ctx context.Context, options ...Option) (time.Time, error)
}
