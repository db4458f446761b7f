package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const defaultMaxItems = 3

func TestBatcher_CapClosesBatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inputChan := make(chan int, 10)
	for i := 1; i <= 6; i++ {
		inputChan <- i
	}
	close(inputChan)

	output := make([][]int, 0)
	batcher := NewBatcher[int](inputChan, defaultMaxItems, func(a []int) { output = append(output, a) })
	batcher.Run(ctx)

	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}}, output)
}

func TestBatcher_DrainClosesBatchWhenChannelEmpties(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inputChan := make(chan int, 10)
	inputChan <- 1
	inputChan <- 2

	output := make(chan []int, 1)
	batcher := NewBatcher[int](inputChan, defaultMaxItems, func(a []int) { output <- a })
	go batcher.Run(ctx)

	// Only two of three possible items are buffered, so the batch must close
	// without waiting for a third.
	select {
	case batch := <-output:
		assert.Equal(t, []int{1, 2}, batch)
	case <-time.After(2 * time.Second):
		t.Fatal("batcher did not release a partial batch")
	}
	cancel()
}

func TestBatcher_BlocksForFirstItem(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inputChan := make(chan int)
	output := make(chan []int, 1)
	batcher := NewBatcher[int](inputChan, defaultMaxItems, func(a []int) { output <- a })
	go batcher.Run(ctx)

	// Nothing should be produced while the input is empty.
	select {
	case <-output:
		t.Fatal("batcher produced a batch without input")
	case <-time.After(100 * time.Millisecond):
	}

	inputChan <- 42
	select {
	case batch := <-output:
		assert.Equal(t, []int{42}, batch)
	case <-time.After(2 * time.Second):
		t.Fatal("batcher did not release the batch")
	}
}

func TestBatcher_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	inputChan := make(chan int)
	batcher := NewBatcher[int](inputChan, defaultMaxItems, func([]int) {})

	done := make(chan struct{})
	go func() {
		batcher.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("batcher did not stop on context cancellation")
	}
}
