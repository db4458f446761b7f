package model

import (
	"time"
)

// LogRow is one normalized log event, constructed once at consumption time
// and immutable afterwards.
type LogRow struct {
	// Ingestion wall-clock time, never derived from the payload
	Time time.Time
	// Residual structured payload, i.e. the original object minus "level"
	Data map[string]any
	// Severity extracted from the payload, "INFO" when absent
	Level string
	// Deduplicated lexical tokens found anywhere in Data
	Words []string
}
