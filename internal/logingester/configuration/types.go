package configuration

import (
	"time"

	"github.com/princess-entrapta/logsearcher/internal/common/database"
	"github.com/princess-entrapta/logsearcher/internal/common/pulsarutils"
)

type IngesterConfiguration struct {
	// Database configuration
	Postgres database.PostgresConfig
	// General Pulsar configuration
	Pulsar pulsarutils.PulsarConfig
	// Pulsar subscription name
	SubscriptionName string
	// Number of concurrent consumer workers
	Parallelism int
	// Number of parallel write pipelines to the database
	NumShards int
	// Capacity of each shard's channel; a full channel blocks producers,
	// which is the sole backpressure mechanism
	ShardBufferSize int
	// Maximum number of rows written to the database in one transaction
	MaxBatchSize int
	// Number of times a failed batch insert is attempted before the batch is dropped
	InsertAttempts uint
	// Initial backoff between insert attempts
	InsertBackoff time.Duration
	// Port on which prometheus metrics are served
	MetricsPort uint16
}
