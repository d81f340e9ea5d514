package metrics

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Scalar reads the named metric out of a result row as a non-negative count.
// Drivers disagree on aggregate types (int64, float64, DECIMAL as []byte), so
// the value is coerced rather than asserted.
func Scalar(row map[string]any, name string) (int64, error) {
	v, ok := row[name]
	if !ok {
		return 0, fmt.Errorf("metric %s missing from result row", name)
	}
	switch t := v.(type) {
	case nil:
		return 0, nil
	case []byte:
		v = strings.TrimSpace(string(t))
	case string:
		v = strings.TrimSpace(t)
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, fmt.Errorf("metric %s: %w", name, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("metric %s: negative count %d", name, n)
	}
	return n, nil
}
