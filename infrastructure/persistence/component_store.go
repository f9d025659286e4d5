package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/internal/database"
)

// ComponentStore implements hardware.ComponentStore using GORM.
type ComponentStore struct {
	database.Repository[hardware.Component, ComponentModel]
}

// NewComponentStore creates a new ComponentStore.
func NewComponentStore(db database.Database) ComponentStore {
	return ComponentStore{
		Repository: database.NewRepository[hardware.Component, ComponentModel](db, ComponentMapper{}, "component"),
	}
}

// GetBySerial looks up a component by its natural key (kind, serial).
func (s ComponentStore) GetBySerial(ctx context.Context, kind hardware.Kind, serial string) (hardware.Component, error) {
	return s.FindOne(ctx,
		hardware.WithKind(kind),
		hardware.WithSerialNumber(serial),
	)
}

// FindBySerials returns existing components of a kind keyed by serial number.
func (s ComponentStore) FindBySerials(ctx context.Context, kind hardware.Kind, serials []string) (map[string]hardware.Component, error) {
	if len(serials) == 0 {
		return map[string]hardware.Component{}, nil
	}

	components, err := s.Find(ctx,
		hardware.WithKind(kind),
		hardware.WithSerialNumberIn(serials),
	)
	if err != nil {
		return nil, err
	}

	bySerial := make(map[string]hardware.Component, len(components))
	for _, c := range components {
		bySerial[c.SerialNumber()] = c
	}
	return bySerial, nil
}

// Save creates or updates a component.
func (s ComponentStore) Save(ctx context.Context, component hardware.Component) (hardware.Component, error) {
	model := s.Mapper().ToModel(component)
	model.UpdatedAt = time.Now()

	result := s.DB(ctx).Save(&model)
	if result.Error != nil {
		return hardware.Component{}, fmt.Errorf("save component: %w", result.Error)
	}
	return s.Mapper().ToDomain(model), nil
}

// SaveAll creates or updates multiple components.
func (s ComponentStore) SaveAll(ctx context.Context, components []hardware.Component) ([]hardware.Component, error) {
	if len(components) == 0 {
		return []hardware.Component{}, nil
	}

	models := make([]ComponentModel, len(components))
	now := time.Now()
	for i, c := range components {
		models[i] = s.Mapper().ToModel(c)
		models[i].UpdatedAt = now
	}

	result := s.DB(ctx).Save(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("save components: %w", result.Error)
	}

	saved := make([]hardware.Component, len(models))
	for i, m := range models {
		saved[i] = s.Mapper().ToDomain(m)
	}
	return saved, nil
}
