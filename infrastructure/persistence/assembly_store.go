package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/internal/database"
)

// AssemblyStore implements hardware.AssemblyStore using GORM.
type AssemblyStore struct {
	database.Repository[hardware.Assembly, AssemblyModel]
}

// NewAssemblyStore creates a new AssemblyStore.
func NewAssemblyStore(db database.Database) AssemblyStore {
	return AssemblyStore{
		Repository: database.NewRepository[hardware.Assembly, AssemblyModel](db, AssemblyMapper{}, "assembly"),
	}
}

// GetByKey looks up an assembly by its natural key.
func (s AssemblyStore) GetByKey(ctx context.Context, key hardware.AssemblyKey) (hardware.Assembly, error) {
	return s.FindOne(ctx,
		hardware.WithVersion(key.Version),
		hardware.WithSerialNumber(key.SerialNumber),
	)
}

// Save creates or updates an assembly.
func (s AssemblyStore) Save(ctx context.Context, assembly hardware.Assembly) (hardware.Assembly, error) {
	model := s.Mapper().ToModel(assembly)
	model.UpdatedAt = time.Now()

	result := s.DB(ctx).Save(&model)
	if result.Error != nil {
		return hardware.Assembly{}, fmt.Errorf("save assembly: %w", result.Error)
	}
	return s.Mapper().ToDomain(model), nil
}
