package runner

import (
	"github.com/kbukum/runkit/config"
	"github.com/kbukum/runkit/errors"
	"github.com/kbukum/runkit/logger"
)

// producer is one pool worker bound to a device. It runs
// init -> (work)* -> end over its private configuration clone.
type producer[T, R any] struct {
	device string
	cfg    *config.Node
	hooks  ProducerHooks[T, R]
	in     <-chan job[T]
	out    chan<- envelope[R]
	log    *logger.Logger
}

// run executes the worker loop until a stop signal arrives. A failed
// init or work hook makes the worker fatal: it stops calling hooks and
// answers every remaining item with the failure, so the call protocol
// stays aligned and the caller sees the error. The returned error is
// the end-hook failure, if any, surfaced by Close.
func (p *producer[T, R]) run() error {
	var failure error

	if p.hooks.Init != nil {
		if err := p.hooks.Init(p.device, p.cfg); err != nil {
			failure = errors.WorkerFailure("producer", p.device, err)
			p.log.Error("producer init failed", logger.Fields(
				logger.FieldDevice, p.device,
				logger.FieldError, err.Error(),
			))
		}
	}

	for {
		msg := <-p.in
		if msg.kind == signalStop {
			break
		}

		if failure != nil {
			p.out <- envelope[R]{seq: msg.seq, device: p.device, err: failure}
			continue
		}

		value, err := p.hooks.Work(p.device, p.cfg, msg.item)
		if err != nil {
			failure = errors.WorkerFailure("producer", p.device, err)
			p.log.Error("producer work failed", logger.Fields(
				logger.FieldDevice, p.device,
				logger.FieldError, err.Error(),
			))
			p.out <- envelope[R]{seq: msg.seq, device: p.device, err: failure}
			continue
		}

		p.out <- envelope[R]{seq: msg.seq, value: value, device: p.device}
	}

	if failure == nil && p.hooks.End != nil {
		if err := p.hooks.End(p.device, p.cfg); err != nil {
			p.log.Error("producer end failed", logger.Fields(
				logger.FieldDevice, p.device,
				logger.FieldError, err.Error(),
			))
			return errors.WorkerFailure("producer", p.device, err)
		}
	}

	p.log.Debug("producer stopped", logger.Fields(logger.FieldDevice, p.device))
	return nil
}
