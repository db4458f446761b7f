package configuration

import (
	"github.com/pkg/errors"
)

func (c *IngesterConfiguration) Validate() error {
	if c.Parallelism <= 0 {
		return errors.New("Parallelism must be greater than 0")
	}
	if c.NumShards <= 0 {
		return errors.New("NumShards must be greater than 0")
	}
	if c.ShardBufferSize <= 0 {
		return errors.New("ShardBufferSize must be greater than 0")
	}
	if c.MaxBatchSize <= 0 {
		return errors.New("MaxBatchSize must be greater than 0")
	}
	if c.Pulsar.URL == "" {
		return errors.New("Pulsar.URL must be provided")
	}
	if c.Pulsar.LogEventsTopic == "" {
		return errors.New("Pulsar.LogEventsTopic must be provided")
	}
	return nil
}
