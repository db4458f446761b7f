package pulsarutils

import (
	"context"
	"testing"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"

	commonmetrics "github.com/princess-entrapta/logsearcher/internal/common/ingest/metrics"
)

var testMetrics = commonmetrics.NewMetrics("test_pulsarutils_")

// stubConsumer serves messages from a channel; every other consumer method is
// inherited from the embedded nil interface and must not be called.
type stubConsumer struct {
	pulsar.Consumer
	msgs chan pulsar.Message
}

func (c stubConsumer) Receive(ctx context.Context) (pulsar.Message, error) {
	select {
	case msg := <-c.msgs:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type stubMessage struct {
	pulsar.Message
}

func (m stubMessage) ID() pulsar.MessageID { return nil }

func TestReceive_DeliversMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs := make(chan pulsar.Message, 1)
	msgs <- stubMessage{}

	out := Receive(ctx, stubConsumer{msgs: msgs}, 50*time.Millisecond, time.Millisecond, testMetrics)
	select {
	case <-out:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestReceive_StopsWhenCancelledMidHandoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	msgs := make(chan pulsar.Message, 1)
	msgs <- stubMessage{}

	// No reader on out, so the receiver goroutine blocks handing the message
	// over. Cancellation must still shut it down.
	out := Receive(ctx, stubConsumer{msgs: msgs}, 50*time.Millisecond, time.Millisecond, testMetrics)
	time.Sleep(50 * time.Millisecond)
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-out:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("receiver did not stop after cancellation")
		}
	}
}
