package loader

import (
	"errors"
	"fmt"
	"strconv"
)

// Mapping binds a record type to its table. It is fixed per entity type;
// nothing is discovered at runtime.
type Mapping[R any] struct {
	// Table is the target table.
	Table string

	// Key is the identifying column.
	Key string

	// Columns are the non-key columns in bind order.
	Columns []string

	// KeyOf returns the record's key value.
	KeyOf func(R) any

	// ValuesOf returns the non-key values in Columns order.
	ValuesOf func(R) []any
}

// Validate checks that the mapping is complete.
func (m Mapping[R]) Validate() error {
	switch {
	case m.Table == "":
		return errors.New("mapping: table is required")
	case m.Key == "":
		return errors.New("mapping: key column is required")
	case len(m.Columns) == 0:
		return fmt.Errorf("mapping %s: at least one non-key column is required", m.Table)
	case m.KeyOf == nil || m.ValuesOf == nil:
		return fmt.Errorf("mapping %s: KeyOf and ValuesOf are required", m.Table)
	}
	return nil
}

// insertColumns returns the key followed by the non-key columns.
func (m Mapping[R]) insertColumns() []string {
	return append([]string{m.Key}, m.Columns...)
}

// insertArgs binds (key, values...).
func (m Mapping[R]) insertArgs(r R) []any {
	return append([]any{m.KeyOf(r)}, m.ValuesOf(r)...)
}

// updateArgs binds (values..., key).
func (m Mapping[R]) updateArgs(r R) []any {
	return append(m.ValuesOf(r), m.KeyOf(r))
}

// normalizeKey turns a key value into a comparable string so that keys read
// back from a driver (int64, []byte) match the record's own key type.
func normalizeKey(v any) string {
	switch k := v.(type) {
	case string:
		return k
	case []byte:
		return string(k)
	case int:
		return strconv.Itoa(k)
	case int64:
		return strconv.FormatInt(k, 10)
	case int32:
		return strconv.FormatInt(int64(k), 10)
	default:
		return fmt.Sprint(v)
	}
}
