package typeconv

import (
	"fmt"
	"strconv"
	"time"
)

// RenderValue formats a value scanned from a driver for console output.
func RenderValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

// RenderRow formats every value of a row.
func RenderRow(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = RenderValue(v)
	}
	return out
}
