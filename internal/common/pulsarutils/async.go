package pulsarutils

import (
	"context"
	"errors"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/sirupsen/logrus"

	commonmetrics "github.com/princess-entrapta/logsearcher/internal/common/ingest/metrics"
)

var msgLogger = logrus.NewEntry(logrus.StandardLogger())

// Receive returns a channel of messages received from the consumer. The
// channel is closed once ctx is cancelled. Receive errors are retried after
// backoffTime in the hope that the problem is transient.
func Receive(
	ctx context.Context,
	consumer pulsar.Consumer,
	receiveTimeout time.Duration,
	backoffTime time.Duration,
	m *commonmetrics.Metrics,
) chan pulsar.Message {
	out := make(chan pulsar.Message)
	go func() {
		// Periodically log the number of processed messages.
		logInterval := 60 * time.Second
		lastLogged := time.Now()
		numReceived := 0
		var lastMessageId pulsar.MessageID

		for {
			if time.Since(lastLogged) > logInterval {
				msgLogger.WithFields(
					logrus.Fields{
						"received":      numReceived,
						"interval":      logInterval,
						"lastMessageId": lastMessageId,
					},
				).Info("message statistics")
				numReceived = 0
				lastLogged = time.Now()
			}

			select {
			case <-ctx.Done():
				msgLogger.Info("Shutting down pulsar receiver")
				close(out)
				return
			default:
				ctxWithTimeout, cancel := context.WithTimeout(ctx, receiveTimeout)
				msg, err := consumer.Receive(ctxWithTimeout)
				cancel()
				if errors.Is(err, context.DeadlineExceeded) {
					msgLogger.Debug("No message received")
					break // expected
				}
				if err != nil {
					m.RecordPulsarConnectionError()
					msgLogger.WithError(err).
						WithField("lastMessageId", lastMessageId).
						Warnf("Pulsar receive failed; backing off for %s", backoffTime)
					time.Sleep(backoffTime)
					continue
				}

				numReceived++
				lastMessageId = msg.ID()
				select {
				case out <- msg:
				case <-ctx.Done():
					// Nobody is reading any more; the unacked message will be
					// redelivered.
					msgLogger.Info("Shutting down pulsar receiver")
					close(out)
					return
				}
			}
		}
	}()
	return out
}
