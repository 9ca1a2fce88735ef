package exporter

import (
	"fmt"
)

// formatValue normalizes scanned database values for spreadsheet cells.
// Floats are fixed to 2 decimal places so values like 13.4 render as 13.40.
func formatValue(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case []byte:
		return string(val)
	case nil:
		return ""
	default:
		return val
	}
}

// formatFloat formats a float64 value for report output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
