package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"flacsmith/internal/logging"
)

// Task is one unit of pool work, typically a transcode job's Run method.
type Task func(ctx context.Context) error

// Pool is a bounded job pool. Capacity is fixed at construction; Submit
// admits tasks in call order and blocks while all slots are busy.
type Pool struct {
	capacity int
	slots    chan struct{}
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	wg sync.WaitGroup

	mu       sync.Mutex
	firstErr error
}

// New builds a pool with the given number of concurrent slots. Capacity
// below 1 is an error, not a silent clamp.
func New(ctx context.Context, capacity int, logger *slog.Logger) (*Pool, error) {
	if capacity < 1 {
		return nil, errors.New("pool capacity must be at least 1")
	}
	poolCtx, cancel := context.WithCancel(ctx)
	return &Pool{
		capacity: capacity,
		slots:    make(chan struct{}, capacity),
		logger:   logging.NewComponentLogger(logger, "scheduler"),
		ctx:      poolCtx,
		cancel:   cancel,
	}, nil
}

// Capacity returns the maximum number of jobs in flight.
func (p *Pool) Capacity() int {
	return p.capacity
}

// Submit blocks until a slot frees up, then runs task on its own goroutine.
// After a failure the batch is aborted: Submit returns the first error
// without admitting anything further, so callers can stop iterating their
// input list.
func (p *Pool) Submit(task Task) error {
	if err := p.batchError(); err != nil {
		return err
	}

	select {
	case p.slots <- struct{}{}:
	case <-p.ctx.Done():
		if err := p.batchError(); err != nil {
			return err
		}
		return p.ctx.Err()
	}

	// A failure may have landed while this call was blocked on a slot.
	if err := p.batchError(); err != nil {
		<-p.slots
		return err
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.slots }()
		if err := task(p.ctx); err != nil {
			p.recordFailure(err)
		}
	}()
	return nil
}

// JoinAll waits for every admitted job to finish and returns the first
// failure, if any.
func (p *Pool) JoinAll() error {
	p.wg.Wait()
	p.cancel()
	return p.batchError()
}

func (p *Pool) batchError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.firstErr
}

func (p *Pool) recordFailure(err error) {
	p.mu.Lock()
	first := p.firstErr == nil
	if first {
		p.firstErr = err
	}
	p.mu.Unlock()
	if first {
		p.logger.Error("job failed, aborting batch", logging.Error(err))
	}
	p.cancel()
}
