// Package runner provides a heterogeneous worker-pool execution engine.
//
// A Runner spawns one producer worker per device plus a single consumer
// worker. Call submits a lazy input sequence: producers transform items
// in parallel and the consumer folds the results into one aggregate.
// Bounded queues sized by the queue scale give backpressure end to end.
//
//	r, err := runner.New(
//		runner.ProducerHooks[int, int]{
//			Work: func(device string, cfg *config.Node, item int) (int, error) {
//				return item * item, nil
//			},
//		},
//		runner.ConsumerHooks[int, []int]{
//			Init: func(cfg *config.Node) error { cfg.Set("acc", []any{}); return nil },
//			Work: func(cfg *config.Node, item int) error { ... },
//			End:  func(cfg *config.Node) ([]int, error) { ... },
//		},
//		runner.WithWorkers(3),
//		runner.Ordered(),
//	)
//	defer r.Close()
//	result, err := r.Call(ctx, stream.Range(100))
//
// With Ordered the consumer observes results in exact submission order
// regardless of which producer finishes first; without it, results
// arrive as they complete.
//
// A Runner stays usable for any number of Call invocations while
// active, but only one Call may be in flight at a time: the submission
// protocol is not safe for concurrent callers.
package runner
