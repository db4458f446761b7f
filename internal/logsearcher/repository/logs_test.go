package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildLogsSql(t *testing.T) {
	sql := buildLogsSql(&viewSpec{
		filterQuery:   "level = 'ERROR'",
		columnQueries: []string{"data->>'msg'", "data->'request'"},
	})

	assert.Equal(t,
		"SELECT time, level, data->>'msg', data->'request' FROM logs "+
			"WHERE level = 'ERROR' AND time >= $1 AND time <= $2 LIMIT 40 OFFSET $3",
		sql)
}

func TestDecodeValue_PriorityOrder(t *testing.T) {
	// Structured values pass through before any scalar interpretation.
	assert.Equal(t, map[string]any{"a": 1.0}, decodeValue(map[string]any{"a": 1.0}))
	assert.Equal(t, map[string]any{"a": 1.0}, decodeValue([]byte(`{"a":1}`)))

	// Numbers of any driver representation normalize to float64.
	assert.Equal(t, 1.5, decodeValue(1.5))
	assert.Equal(t, 3.0, decodeValue(int64(3)))
	assert.Equal(t, 2.0, decodeValue(int32(2)))

	// String lists survive as lists.
	assert.Equal(t, []string{"a", "b"}, decodeValue([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, decodeValue([]any{"a", "b"}))

	// Plain strings stay strings; undecodable bytes degrade to a string.
	assert.Equal(t, "hello", decodeValue("hello"))
	assert.Equal(t, "not json", decodeValue([]byte("not json")))

	// Everything else is null.
	assert.Nil(t, decodeValue(nil))
	assert.Nil(t, decodeValue(struct{}{}))
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2022, 3, 1, 15, 4, 5, 123456000, time.UTC)
	assert.Equal(t, "2022-03-01 15:04:05.123456", formatTimestamp(ts))
	assert.Equal(t, "2022-03-01 15:04:05", formatTimestamp(time.Date(2022, 3, 1, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "", formatTimestamp("not a time"))
}
