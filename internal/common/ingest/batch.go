package ingest

import (
	"context"
)

// Batcher drains bounded batches from a channel. It blocks waiting for the
// first item of each batch, then takes whatever else is already buffered
// without waiting, up to maxItems. A batch therefore closes as soon as the
// channel is momentarily empty or the cap is reached; there is no time-based
// flush.
type Batcher[T any] struct {
	input    <-chan T
	maxItems int
	callback func([]T)
}

func NewBatcher[T any](input <-chan T, maxItems int, callback func([]T)) *Batcher[T] {
	return &Batcher[T]{
		input:    input,
		maxItems: maxItems,
		callback: callback,
	}
}

func (b *Batcher[T]) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case first, ok := <-b.input:
			if !ok {
				// input channel has closed
				return
			}
			batch := make([]T, 0, b.maxItems)
			batch = append(batch, first)
		drain:
			for len(batch) < b.maxItems {
				select {
				case value, ok := <-b.input:
					if !ok {
						break drain
					}
					batch = append(batch, value)
				default:
					break drain
				}
			}
			b.callback(batch)
		}
	}
}
