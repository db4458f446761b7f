package logingester

import (
	"context"
	"sync"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/princess-entrapta/logsearcher/internal/common"
	"github.com/princess-entrapta/logsearcher/internal/common/database"
	"github.com/princess-entrapta/logsearcher/internal/common/health"
	"github.com/princess-entrapta/logsearcher/internal/common/ingest"
	"github.com/princess-entrapta/logsearcher/internal/common/ingest/metrics"
	"github.com/princess-entrapta/logsearcher/internal/common/pulsarutils"
	"github.com/princess-entrapta/logsearcher/internal/logingester/configuration"
	"github.com/princess-entrapta/logsearcher/internal/logingester/convert"
	"github.com/princess-entrapta/logsearcher/internal/logingester/logdb"
	"github.com/princess-entrapta/logsearcher/internal/logingester/model"
	"github.com/princess-entrapta/logsearcher/internal/logingester/tokenize"
)

// Run creates a pipeline that takes log event messages from Pulsar,
// normalizes them and bulk-loads them into postgres. It runs until the
// supplied context is cancelled.
//
// Each of the Parallelism consumer workers holds its own Pulsar subscription
// and writes every row it produces to the shard channel given by its worker
// index modulo NumShards. One writer goroutine per shard drains that channel
// into bounded batches and stores each batch in a single transaction.
func Run(ctx context.Context, config *configuration.IngesterConfiguration) error {
	if err := config.Validate(); err != nil {
		return err
	}

	m := metrics.NewMetrics(metrics.LogIngesterMetricsPrefix)

	log.Info("Opening connection pool to postgres")
	db, err := database.OpenPgxPool(ctx, config.Postgres)
	if err != nil {
		return errors.WithMessage(err, "Error opening connection to postgres")
	}
	defer db.Close()

	shutdownMetricServer := common.ServeMetrics(config.MetricsPort, health.NewDatabaseChecker(db))
	defer shutdownMetricServer()

	pulsarClient, err := pulsarutils.NewPulsarClient(&config.Pulsar)
	if err != nil {
		return errors.WithMessage(err, "Error creating pulsar client")
	}
	defer pulsarClient.Close()

	sink := logdb.NewLogDb(db, m, config.InsertAttempts, config.InsertBackoff)
	converter := convert.NewConverter(tokenize.New(), m)

	// Writers get their own context so that they can flush whatever is still
	// buffered in the shard channels after the consumers have shut down.
	writerCtx, cancelWriters := context.WithCancel(context.Background())
	defer cancelWriters()

	// One bounded channel per shard. Blocking sends on a full channel are
	// what protects the store from unbounded memory growth under burst load.
	shards := make([]chan model.LogRow, config.NumShards)
	writerWg := &sync.WaitGroup{}
	for i := 0; i < config.NumShards; i++ {
		shards[i] = make(chan model.LogRow, config.ShardBufferSize)
		batcher := ingest.NewBatcher[model.LogRow](shards[i], config.MaxBatchSize, func(batch []model.LogRow) {
			if err := sink.Store(writerCtx, batch); err != nil {
				// The sink has already retried; all we can do now is drop the
				// batch and keep the shard alive.
				log.WithError(err).Errorf("Dropping batch of %d rows", len(batch))
			}
		})
		writerWg.Add(1)
		go func() {
			defer writerWg.Done()
			batcher.Run(writerCtx)
		}()
	}

	log.Infof("Creating %d subscriptions to pulsar topic %s", config.Parallelism, config.Pulsar.LogEventsTopic)
	consumerWg := &sync.WaitGroup{}
	for i := 0; i < config.Parallelism; i++ {
		consumer, err := pulsarClient.Subscribe(pulsar.ConsumerOptions{
			Topic:             config.Pulsar.LogEventsTopic,
			SubscriptionName:  config.SubscriptionName,
			Type:              pulsar.Shared,
			ReceiverQueueSize: config.Pulsar.ReceiverQueueSize,
		})
		if err != nil {
			return errors.WithMessagef(err, "Error creating pulsar consumer %d", i)
		}
		defer consumer.Close()

		msgs := pulsarutils.Receive(ctx, consumer, config.Pulsar.ReceiveTimeout, config.Pulsar.BackoffTime, m)

		shard := shards[shardForWorker(i, config.NumShards)]

		consumerWg.Add(1)
		go func(consumer pulsar.Consumer, msgs chan pulsar.Message) {
			defer consumerWg.Done()
			runConsumeLoop(ctx, consumer, msgs, converter, shard)
		}(consumer, msgs)
	}

	log.Info("Ingestion pipeline set up. Running until shutdown event received")
	consumerWg.Wait()

	// Consumers are done, no new rows can arrive. Closing the shard channels
	// lets the writers drain what is buffered and then stop.
	for _, shard := range shards {
		close(shard)
	}
	writerWg.Wait()
	log.Info("Shutdown event received - closing")
	return nil
}

// shardForWorker fixes the worker to shard assignment for the lifetime of a
// worker: a single modulo over the shard count, so rows from one worker
// always land on the same shard and every shard is covered when there are at
// least as many workers as shards.
func shardForWorker(worker int, numShards int) int {
	return worker % numShards
}

// runConsumeLoop converts each delivered message into rows and hands them to
// the worker's shard. The message is acked on successful hand-off, not on
// durable storage, so a crash between hand-off and persistence can lose
// buffered rows.
func runConsumeLoop(
	ctx context.Context,
	consumer pulsar.Consumer,
	msgs chan pulsar.Message,
	converter *convert.Converter,
	shard chan<- model.LogRow,
) {
	for msg := range msgs {
		rows := converter.Convert(msg.Payload())
		for _, row := range rows {
			select {
			case shard <- row:
			case <-ctx.Done():
				// Shutting down mid-message: leave the message unacked so it
				// is redelivered.
				return
			}
		}
		if err := consumer.AckID(msg.ID()); err != nil {
			log.WithError(err).Warn("Pulsar ack failed")
		}
	}
}
