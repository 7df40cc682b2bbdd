package runner

import (
	"context"
	stderrors "errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/runkit/config"
	"github.com/kbukum/runkit/errors"
	"github.com/kbukum/runkit/logger"
	"github.com/kbukum/runkit/observability"
	"github.com/kbukum/runkit/stream"
)

// Runner is the worker-pool execution engine. T is the work item type,
// R the per-item result type, A the aggregate type. Construction
// activates the pool immediately; Close and Activate may then cycle it
// any number of times.
type Runner[T, R, A any] struct {
	devices    []string
	queueScale float64
	ordered    bool
	cfg        *config.Node
	producers  ProducerHooks[T, R]
	consumers  ConsumerHooks[R, A]
	fetch      fetchStrategy[R]
	log        *logger.Logger
	metrics    *observability.Metrics

	mu     sync.Mutex // guards lifecycle state below
	active bool

	in     chan job[T]
	out    chan envelope[R]
	ctrl   chan signalKind
	result chan callResult[A]

	producerWG   sync.WaitGroup
	consumerDone chan struct{}

	workerErrMu sync.Mutex
	workerErrs  []error
}

// New constructs and activates an engine. At least one worker (via
// WithWorkers or WithDevices) is required; queue scale defaults to 3.0.
func New[T, R, A any](producers ProducerHooks[T, R], consumers ConsumerHooks[R, A], opts ...Option) (*Runner[T, R, A], error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}

	var fetch fetchStrategy[R]
	if s.Ordered {
		fetch = &orderedFetch[R]{}
	} else {
		fetch = unorderedFetch[R]{}
	}

	r := &Runner[T, R, A]{
		devices:    s.Devices,
		queueScale: s.QueueScale,
		ordered:    s.Ordered,
		cfg:        s.Config.Clone(),
		producers:  producers.normalized(),
		consumers:  consumers.normalized(),
		fetch:      fetch,
		log:        s.Logger,
		metrics:    s.Metrics,
	}
	r.Activate()
	return r, nil
}

// Active reports whether workers are currently spawned.
func (r *Runner[T, R, A]) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Activate spawns fresh channels and workers. No-op when already active.
func (r *Runner[T, R, A]) Activate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return
	}

	ctx, span := observability.StartSpan(context.Background(), observability.SpanRunnerActivate)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrWorkerCount, len(r.devices))
	observability.SetSpanAttribute(ctx, observability.AttrOrdered, r.ordered)

	capacity := int(math.Round(float64(len(r.devices)) * r.queueScale))
	if capacity < 1 {
		capacity = 1
	}

	r.in = make(chan job[T], capacity)
	r.out = make(chan envelope[R], capacity)
	r.ctrl = make(chan signalKind, capacity)
	r.result = make(chan callResult[A], 1)
	r.consumerDone = make(chan struct{})
	r.workerErrs = nil
	r.fetch.reset()

	for _, device := range r.devices {
		p := &producer[T, R]{
			device: device,
			cfg:    r.cfg.Clone(),
			hooks:  r.producers,
			in:     r.in,
			out:    r.out,
			log:    r.log,
		}
		r.producerWG.Add(1)
		go func() {
			defer r.producerWG.Done()
			if err := p.run(); err != nil {
				r.workerErrMu.Lock()
				r.workerErrs = append(r.workerErrs, err)
				r.workerErrMu.Unlock()
			}
		}()
	}

	c := &consumer[R, A]{
		baseCfg: r.cfg.Clone(),
		hooks:   r.consumers,
		fetch:   r.fetch,
		ctrl:    r.ctrl,
		out:     r.out,
		result:  r.result,
		log:     r.log,
	}
	go func() {
		defer close(r.consumerDone)
		c.run()
	}()

	r.active = true
	r.metrics.RecordWorkers(context.Background(), int64(len(r.devices))+1)
	r.log.Info("engine activated", logger.Fields(
		logger.FieldWorkers, len(r.devices),
		"queue_capacity", capacity,
	))
}

// Close signals Stop to every worker, waits for all of them to
// terminate, and releases the channels. Stop signals queue behind any
// unprocessed work, so items already submitted are still worked before
// producers exit. No-op when already closed. Errors from end hooks are
// returned rather than swallowed.
func (r *Runner[T, R, A]) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return nil
	}

	ctx, span := observability.StartSpan(context.Background(), observability.SpanRunnerClose)
	defer span.End()
	start := time.Now()

	for range r.devices {
		r.in <- job[T]{kind: signalStop}
	}
	r.ctrl <- signalStop

	r.producerWG.Wait()
	<-r.consumerDone
	observability.SetSpanAttribute(ctx, observability.AttrDurationMs, time.Since(start).Milliseconds())

	r.in = nil
	r.out = nil
	r.ctrl = nil
	r.result = nil
	r.active = false

	r.metrics.RecordWorkers(context.Background(), -int64(len(r.devices))-1)
	r.log.Info("engine closed")

	r.workerErrMu.Lock()
	defer r.workerErrMu.Unlock()
	return stderrors.Join(r.workerErrs...)
}

// Call submits a whole input sequence and blocks until the aggregate is
// ready. Items are pulled lazily: a full producer queue blocks the pull
// loop, bounding memory end to end. Cancelling ctx stops submission;
// results for already-submitted items are still drained and the context
// error is returned. Only one Call may be in flight per Runner.
func (r *Runner[T, R, A]) Call(ctx context.Context, in stream.Iterator[T]) (A, error) {
	var zero A

	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return zero, errors.EngineClosed()
	}
	inCh, ctrl, result := r.in, r.ctrl, r.result
	r.mu.Unlock()

	runID := uuid.NewString()
	ctx, span := observability.StartSpan(ctx, observability.SpanRunnerCall)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRunID, runID)
	observability.SetSpanAttribute(ctx, observability.AttrWorkerCount, len(r.devices))
	observability.SetSpanAttribute(ctx, observability.AttrOrdered, r.ordered)

	log := r.log.WithFields(logger.Fields(logger.FieldRunID, runID))
	log.Debug("call started")
	start := time.Now()

	ctrl <- signalInit

	var submitted int64
	var streamErr error

submitLoop:
	for {
		item, ok, err := in.Next(ctx)
		if err != nil {
			streamErr = err
			break
		}
		if !ok {
			break
		}

		j := job[T]{kind: signalData, seq: r.fetch.assign(), item: item}
		select {
		case inCh <- j:
		case <-ctx.Done():
			r.fetch.rollback()
			streamErr = ctx.Err()
			break submitLoop
		}

		ctrl <- signalData
		submitted++
	}
	in.Close()

	ctrl <- signalEnd
	res := <-result

	duration := time.Since(start)
	observability.SetSpanAttribute(ctx, observability.AttrItemCount, submitted)
	observability.SetSpanAttribute(ctx, observability.AttrDurationMs, duration.Milliseconds())

	err := streamErr
	if err == nil {
		err = res.err
	}
	if err != nil {
		observability.SetSpanError(ctx, err)
		r.metrics.RecordCall(ctx, "error", submitted, duration)
		r.metrics.RecordError(ctx, "call")
		log.Error("call failed", logger.Fields(
			logger.FieldItems, submitted,
			logger.FieldError, err.Error(),
		))
		return zero, err
	}

	r.metrics.RecordCall(ctx, "ok", submitted, duration)
	log.Debug("call finished", logger.Fields(
		logger.FieldItems, submitted,
		logger.FieldDuration, duration.Milliseconds(),
	))
	return res.aggregate, nil
}
