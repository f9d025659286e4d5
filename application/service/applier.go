package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dune-ce/cets/domain/hardware"
	"github.com/dune-ce/cets/domain/ingest"
	"github.com/dune-ce/cets/infrastructure/persistence"
	"github.com/dune-ce/cets/internal/database"
	"gorm.io/gorm"
)

type applyStats struct {
	assemblies int
	components int
	mounts     int
	updates    int
	tests      int
}

// applyPlan writes a plan in one transaction: entity creates first, then
// mounts and field updates, then test records. Owners named by natural key
// are resolved to the IDs the creates just produced. Any error rolls the
// whole run back.
func applyPlan(ctx context.Context, db database.Database, plan *ingest.Plan) (applyStats, error) {
	return database.WithTransactionResult(ctx, db, func(tx *gorm.DB) (applyStats, error) {
		var stats applyStats

		txdb := database.FromGORM(tx)
		assemblies := persistence.NewAssemblyStore(txdb)
		components := persistence.NewComponentStore(txdb)
		records := persistence.NewTestRecordStore(txdb)

		assemblyIDs := make(map[hardware.AssemblyKey]int64)
		for _, a := range plan.Assemblies() {
			saved, err := assemblies.Save(ctx, a)
			if err != nil {
				return stats, err
			}
			assemblyIDs[saved.Key()] = saved.ID()
			stats.assemblies++
		}

		componentIDs := make(map[ingest.ComponentKey]int64)
		for _, c := range plan.Components() {
			saved, err := components.Save(ctx, c)
			if err != nil {
				return stats, err
			}
			componentIDs[ingest.ComponentKey{Kind: saved.Kind(), SerialNumber: saved.SerialNumber()}] = saved.ID()
			stats.components++
		}

		for _, m := range plan.Mounts() {
			assemblyID, err := resolveAssemblyID(ctx, assemblies, assemblyIDs, m.Assembly)
			if err != nil {
				return stats, err
			}
			component, err := components.GetBySerial(ctx, m.Component.Kind, m.Component.SerialNumber)
			if err != nil {
				return stats, fmt.Errorf("resolve component %s %s: %w", m.Component.Kind, m.Component.SerialNumber, err)
			}
			if _, err := components.Save(ctx, component.MountedOn(assemblyID, m.Position)); err != nil {
				return stats, err
			}
			stats.mounts++
		}

		for _, u := range plan.Updates() {
			if _, err := components.Save(ctx, u.Component); err != nil {
				return stats, err
			}
			stats.updates++
		}

		intents := plan.Tests()
		toInsert := make([]hardware.TestRecord, 0, len(intents))
		for _, intent := range intents {
			record, err := resolveTestRecord(ctx, intent, assemblies, components, assemblyIDs, componentIDs)
			if err != nil {
				return stats, err
			}
			toInsert = append(toInsert, record)
		}
		inserted, err := records.SaveAll(ctx, toInsert)
		if err != nil {
			return stats, err
		}
		stats.tests = inserted

		return stats, nil
	})
}

func resolveAssemblyID(
	ctx context.Context,
	store persistence.AssemblyStore,
	created map[hardware.AssemblyKey]int64,
	key hardware.AssemblyKey,
) (int64, error) {
	if id, ok := created[key]; ok {
		return id, nil
	}
	assembly, err := store.GetByKey(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("resolve assembly %s/%s: %w", key.Version, key.SerialNumber, err)
	}
	created[key] = assembly.ID()
	return assembly.ID(), nil
}

func resolveComponentID(
	ctx context.Context,
	store persistence.ComponentStore,
	created map[ingest.ComponentKey]int64,
	key ingest.ComponentKey,
) (int64, error) {
	if id, ok := created[key]; ok {
		return id, nil
	}
	component, err := store.GetBySerial(ctx, key.Kind, key.SerialNumber)
	if err != nil {
		return 0, fmt.Errorf("resolve component %s %s: %w", key.Kind, key.SerialNumber, err)
	}
	created[key] = component.ID()
	return component.ID(), nil
}

func resolveTestRecord(
	ctx context.Context,
	intent ingest.TestIntent,
	assemblies persistence.AssemblyStore,
	components persistence.ComponentStore,
	assemblyIDs map[hardware.AssemblyKey]int64,
	componentIDs map[ingest.ComponentKey]int64,
) (hardware.TestRecord, error) {
	switch {
	case intent.Assembly != nil:
		id, err := resolveAssemblyID(ctx, assemblies, assemblyIDs, *intent.Assembly)
		if err != nil {
			return hardware.TestRecord{}, err
		}
		return hardware.NewAssemblyTestRecord(id, intent.Timestamp, intent.TestType,
			intent.TestEnv, intent.Site, intent.ReportFilename, intent.Result), nil
	case intent.Component != nil:
		id, err := resolveComponentID(ctx, components, componentIDs, *intent.Component)
		if err != nil {
			return hardware.TestRecord{}, err
		}
		return hardware.NewComponentTestRecord(id, intent.Timestamp, intent.TestType,
			intent.TestEnv, intent.Site, intent.ReportFilename, intent.Result), nil
	default:
		return hardware.TestRecord{}, errors.New("test intent has no owner")
	}
}
