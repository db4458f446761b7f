package logingester

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardForWorker_SingleModulo(t *testing.T) {
	assert.Equal(t, 0, shardForWorker(0, 4))
	assert.Equal(t, 3, shardForWorker(3, 4))
	assert.Equal(t, 0, shardForWorker(4, 4))
	assert.Equal(t, 1, shardForWorker(9, 4))
}

func TestShardForWorker_CoversAllShards(t *testing.T) {
	numShards := 4
	seen := map[int]bool{}
	for worker := 0; worker < 8; worker++ {
		shard := shardForWorker(worker, numShards)
		assert.GreaterOrEqual(t, shard, 0)
		assert.Less(t, shard, numShards)
		seen[shard] = true
	}
	assert.Len(t, seen, numShards)
}
