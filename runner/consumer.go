package runner

import (
	"github.com/kbukum/runkit/config"
	"github.com/kbukum/runkit/errors"
	"github.com/kbukum/runkit/logger"
)

// consumer is the single worker that folds producer results into an
// aggregate. Its control channel serializes the protocol: Init starts a
// call, one Data signal per submitted item makes it fetch exactly one
// result, End emits the aggregate on the rendezvous channel.
type consumer[R, A any] struct {
	baseCfg *config.Node
	hooks   ConsumerHooks[R, A]
	fetch   fetchStrategy[R]
	ctrl    <-chan signalKind
	out     <-chan envelope[R]
	result  chan<- callResult[A]
	log     *logger.Logger
}

// run executes the consumer loop until a stop signal arrives. The first
// failure inside a call (a producer error envelope or a failed consumer
// hook) poisons the rest of the call: remaining results are drained but
// not folded, and End reports the failure instead of an aggregate.
func (c *consumer[R, A]) run() {
	var cfg *config.Node
	var failed error

	for {
		sig := <-c.ctrl
		switch sig {
		case signalStop:
			c.log.Debug("consumer stopped")
			return

		case signalInit:
			cfg = c.baseCfg.Clone()
			failed = nil
			if c.hooks.Init != nil {
				if err := c.hooks.Init(cfg); err != nil {
					failed = errors.WorkerFailure("consumer", "", err)
					c.log.Error("consumer init failed", logger.ErrorFields("init", err))
				}
			}

		case signalEnd:
			if failed != nil {
				c.result <- callResult[A]{err: failed}
			} else {
				aggregate, err := c.hooks.End(cfg)
				if err != nil {
					err = errors.WorkerFailure("consumer", "", err)
					c.log.Error("consumer end failed", logger.ErrorFields("end", err))
					c.result <- callResult[A]{err: err}
				} else {
					c.result <- callResult[A]{aggregate: aggregate}
				}
			}
			cfg = nil

		case signalData:
			env := c.fetch.next(c.out)
			if env.err != nil {
				if failed == nil {
					failed = env.err
					c.log.Error("producer result failed", logger.Fields(
						logger.FieldDevice, env.device,
						logger.FieldError, env.err.Error(),
					))
				}
				continue
			}
			if failed == nil && c.hooks.Work != nil {
				if err := c.hooks.Work(cfg, env.value); err != nil {
					failed = errors.WorkerFailure("consumer", "", err)
					c.log.Error("consumer work failed", logger.ErrorFields("work", err))
				}
			}
		}
	}
}
