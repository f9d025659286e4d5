package database

import (
	"fmt"

	"github.com/dune-ce/cets/domain/hardware"
	"gorm.io/gorm"
)

// ApplyOptions builds a hardware.Query from the given options and applies it
// to a GORM session.
func ApplyOptions(db *gorm.DB, options ...hardware.Option) *gorm.DB {
	q := hardware.Build(options...)

	for _, cond := range q.Conditions() {
		db = applyCondition(db, cond)
	}

	for _, ord := range q.Orders() {
		dir := "ASC"
		if !ord.Ascending() {
			dir = "DESC"
		}
		db = db.Order(fmt.Sprintf("%s %s", ord.Field(), dir))
	}

	if q.LimitValue() > 0 {
		db = db.Limit(q.LimitValue())
	}

	if q.OffsetValue() > 0 {
		db = db.Offset(q.OffsetValue())
	}

	return db
}

// ApplyConditions applies only WHERE conditions (no limit/offset/order) for COUNT queries.
func ApplyConditions(db *gorm.DB, options ...hardware.Option) *gorm.DB {
	q := hardware.Build(options...)

	for _, cond := range q.Conditions() {
		db = applyCondition(db, cond)
	}

	return db
}

func applyCondition(db *gorm.DB, cond hardware.Condition) *gorm.DB {
	switch {
	case cond.In():
		return db.Where(fmt.Sprintf("%s IN ?", cond.Field()), cond.Value())
	case cond.NotNull():
		return db.Where(fmt.Sprintf("%s IS NOT NULL", cond.Field()))
	default:
		return db.Where(fmt.Sprintf("%s = ?", cond.Field()), cond.Value())
	}
}
