package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogQuery_Defaults(t *testing.T) {
	var query LogQuery
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2022-03-01T15:04:05Z","end":"2022-03-01T16:04:05Z"}`), &query))
	query.ApplyDefaults()

	assert.Equal(t, "logs", query.Table)
	assert.Equal(t, int64(0), query.Offset)
}

func TestLogQuery_ExplicitValuesKept(t *testing.T) {
	var query LogQuery
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2022-03-01T15:04:05Z","end":"2022-03-01T16:04:05Z","table":"errors","offset":40}`), &query))
	query.ApplyDefaults()

	assert.Equal(t, "errors", query.Table)
	assert.Equal(t, int64(40), query.Offset)
}

func TestViewQuery_Defaults(t *testing.T) {
	var query ViewQuery
	require.NoError(t, json.Unmarshal([]byte(`{"columns":[{"name":"level","query":"level"}],"filter":{"name":""}}`), &query))
	query.ApplyDefaults()

	assert.Equal(t, "logs", query.Filter.Name)
	assert.Equal(t, "true", query.Filter.Query)
}
