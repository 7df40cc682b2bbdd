package runner

import (
	"fmt"

	"github.com/kbukum/runkit/config"
)

// ProducerHooks are the user callbacks run by each producer worker.
// Each worker owns a private clone of the engine's configuration tree,
// so hooks may stash mutable state (a loaded model, an open session)
// in cfg without any cross-worker sharing.
type ProducerHooks[T, R any] struct {
	// Init runs once when the worker spawns. Optional.
	Init func(device string, cfg *config.Node) error
	// Work transforms one item. Optional when the item and result types
	// are identical, in which case items pass through unchanged.
	Work func(device string, cfg *config.Node, item T) (R, error)
	// End runs once after the worker observes Stop. Optional.
	End func(device string, cfg *config.Node) error
}

func (h ProducerHooks[T, R]) normalized() ProducerHooks[T, R] {
	if h.Work == nil {
		h.Work = func(_ string, _ *config.Node, item T) (R, error) {
			r, ok := any(item).(R)
			if !ok {
				return r, fmt.Errorf("no work hook and item type %T is not the result type", item)
			}
			return r, nil
		}
	}
	return h
}

// ConsumerHooks are the user callbacks run by the single consumer
// worker. The consumer clones a fresh cfg at the start of every call,
// accumulates into it via Work, and produces the aggregate in End.
type ConsumerHooks[R, A any] struct {
	// Init runs at the start of each call. Optional.
	Init func(cfg *config.Node) error
	// Work folds one result into the accumulator state. Optional.
	Work func(cfg *config.Node, item R) error
	// End produces the aggregate for the call. Optional; when nil the
	// aggregate is the zero value.
	End func(cfg *config.Node) (A, error)
}

func (h ConsumerHooks[R, A]) normalized() ConsumerHooks[R, A] {
	if h.End == nil {
		h.End = func(_ *config.Node) (A, error) {
			var zero A
			return zero, nil
		}
	}
	return h
}
