package model

import (
	"time"
)

const (
	// DefaultTable is the raw-log view every query degrades to when no view
	// name is supplied.
	DefaultTable = "logs"
	// DefaultFilterQuery is the always-true predicate.
	DefaultFilterQuery = "true"
)

// LogQuery is the request body shared by the logs and density endpoints.
type LogQuery struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Table  string    `json:"table"`
	Offset int64     `json:"offset"`
}

// ApplyDefaults fills in the table name for requests that do not target a
// named view.
func (q *LogQuery) ApplyDefaults() {
	if q.Table == "" {
		q.Table = DefaultTable
	}
}

type ColumnDef struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}

type FilterDef struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}

// ViewQuery is the request body of the createview endpoint.
type ViewQuery struct {
	Columns []ColumnDef `json:"columns"`
	Filter  FilterDef   `json:"filter"`
}

func (q *ViewQuery) ApplyDefaults() {
	if q.Filter.Name == "" {
		q.Filter.Name = DefaultTable
	}
	if q.Filter.Query == "" {
		q.Filter.Query = DefaultFilterQuery
	}
}

// ViewInfo is one entry of the listviews response: a view name and its
// column names in stored position order.
type ViewInfo struct {
	Name string   `json:"name"`
	Cols []string `json:"cols"`
}
