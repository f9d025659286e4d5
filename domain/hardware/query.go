package hardware

import (
	"fmt"
	"time"
)

// Option applies a modification to a Query.
type Option func(Query) Query

// Query holds conditions, ordering, and pagination for store lookups.
type Query struct {
	conditions []Condition
	orders     []Order
	limit      int
	offset     int
}

// Build creates a Query from a set of options.
func Build(options ...Option) Query {
	q := Query{}
	for _, opt := range options {
		q = opt(q)
	}
	return q
}

// Conditions returns the query conditions.
func (q Query) Conditions() []Condition {
	result := make([]Condition, len(q.conditions))
	copy(result, q.conditions)
	return result
}

// Orders returns the query ordering specifications.
func (q Query) Orders() []Order {
	result := make([]Order, len(q.orders))
	copy(result, q.orders)
	return result
}

// LimitValue returns the limit (0 means no limit).
func (q Query) LimitValue() int {
	return q.limit
}

// OffsetValue returns the offset.
func (q Query) OffsetValue() int {
	return q.offset
}

// Condition represents a single query condition (equality, IN, or NOT NULL).
type Condition struct {
	field   string
	value   any
	in      bool
	notNull bool
}

// Field returns the condition field name.
func (c Condition) Field() string { return c.field }

// Value returns the condition value.
func (c Condition) Value() any { return c.value }

// In returns true if this is an IN condition (value is a slice).
func (c Condition) In() bool { return c.in }

// NotNull returns true if this is a NOT NULL condition.
func (c Condition) NotNull() bool { return c.notNull }

// String returns a readable representation.
func (c Condition) String() string {
	if c.in {
		return fmt.Sprintf("%s IN %v", c.field, c.value)
	}
	if c.notNull {
		return fmt.Sprintf("%s IS NOT NULL", c.field)
	}
	return fmt.Sprintf("%s = %v", c.field, c.value)
}

// Order represents a sort specification.
type Order struct {
	field     string
	ascending bool
}

// Field returns the order field name.
func (o Order) Field() string { return o.field }

// Ascending returns true for ASC, false for DESC.
func (o Order) Ascending() bool { return o.ascending }

// --- Generic options reused across all stores ---

// WithCondition adds a field = value equality condition.
func WithCondition(field string, value any) Option {
	return func(q Query) Query {
		q.conditions = append(q.conditions, Condition{field: field, value: value})
		return q
	}
}

// WithConditionIn adds a field IN (values) condition.
func WithConditionIn(field string, values any) Option {
	return func(q Query) Query {
		q.conditions = append(q.conditions, Condition{field: field, value: values, in: true})
		return q
	}
}

// WithConditionNotNull adds a field IS NOT NULL condition.
func WithConditionNotNull(field string) Option {
	return func(q Query) Query {
		q.conditions = append(q.conditions, Condition{field: field, notNull: true})
		return q
	}
}

// WithID filters by the "id" column.
func WithID(id int64) Option {
	return WithCondition("id", id)
}

// WithKind filters components by kind.
func WithKind(kind Kind) Option {
	return WithCondition("kind", string(kind))
}

// WithSerialNumber filters by the "serial_number" column.
func WithSerialNumber(serial string) Option {
	return WithCondition("serial_number", serial)
}

// WithSerialNumberIn filters by serial number using IN.
func WithSerialNumberIn(serials []string) Option {
	return WithConditionIn("serial_number", serials)
}

// WithVersion filters assemblies by the "version" column.
func WithVersion(version string) Option {
	return WithCondition("version", version)
}

// WithAssemblyID filters test records or components by owning assembly.
func WithAssemblyID(id int64) Option {
	return WithCondition("assembly_id", id)
}

// WithComponentID filters test records by owning component.
func WithComponentID(id int64) Option {
	return WithCondition("component_id", id)
}

// WithTimestamp filters test records by the exact run timestamp.
func WithTimestamp(ts time.Time) Option {
	return WithCondition("timestamp", ts)
}

// WithLimit sets the maximum number of results.
func WithLimit(n int) Option {
	return func(q Query) Query {
		q.limit = n
		return q
	}
}

// WithOffset sets the result offset.
func WithOffset(n int) Option {
	return func(q Query) Query {
		q.offset = n
		return q
	}
}

// WithOrderAsc adds ascending ordering on a field.
func WithOrderAsc(field string) Option {
	return func(q Query) Query {
		q.orders = append(q.orders, Order{field: field, ascending: true})
		return q
	}
}

// WithOrderDesc adds descending ordering on a field.
func WithOrderDesc(field string) Option {
	return func(q Query) Query {
		q.orders = append(q.orders, Order{field: field, ascending: false})
		return q
	}
}
