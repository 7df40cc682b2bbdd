package runner

import (
	"github.com/go-playground/validator/v10"

	"github.com/kbukum/runkit/config"
	"github.com/kbukum/runkit/errors"
	"github.com/kbukum/runkit/logger"
	"github.com/kbukum/runkit/observability"
)

// DefaultQueueScale sizes channel capacities relative to the pool:
// capacity = round(poolSize * queueScale).
const DefaultQueueScale = 3.0

// genericDevice tags workers in a homogeneous pool.
const genericDevice = "cpu"

var validate = validator.New()

// settings collects construction options.
type settings struct {
	Devices    []string `validate:"min=1"`
	QueueScale float64  `validate:"gt=0"`
	Ordered    bool

	Config  *config.Node
	Logger  *logger.Logger
	Metrics *observability.Metrics
}

// Option configures a Runner at construction time.
type Option func(*settings)

// WithWorkers creates a homogeneous pool of n generic workers. A count
// below one leaves the device list empty and fails validation.
func WithWorkers(n int) Option {
	return func(s *settings) {
		var devices []string
		for i := 0; i < n; i++ {
			devices = append(devices, genericDevice)
		}
		s.Devices = devices
	}
}

// WithDevices creates a heterogeneous pool with one worker per device
// descriptor; the pool size is the number of descriptors.
func WithDevices(devices ...string) Option {
	return func(s *settings) {
		s.Devices = append([]string(nil), devices...)
	}
}

// WithQueueScale sets the channel capacity multiplier. Must be > 0.
func WithQueueScale(scale float64) Option {
	return func(s *settings) { s.QueueScale = scale }
}

// Ordered makes the consumer observe results in exact submission order.
func Ordered() Option {
	return func(s *settings) { s.Ordered = true }
}

// WithConfig sets the configuration tree cloned into every worker.
func WithConfig(cfg *config.Node) Option {
	return func(s *settings) { s.Config = cfg }
}

// WithLogger sets the logger used by the engine and its workers.
func WithLogger(log *logger.Logger) Option {
	return func(s *settings) { s.Logger = log }
}

// WithMetrics enables metric recording for calls and worker activity.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *settings) { s.Metrics = m }
}

func newSettings(opts []Option) (*settings, error) {
	s := &settings{
		QueueScale: DefaultQueueScale,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Config == nil {
		s.Config = config.New()
	}
	if s.Logger == nil {
		s.Logger = logger.Default().WithComponent("runner")
	}

	if err := validate.Struct(s); err != nil {
		return nil, errors.InvalidConfiguration(
			"runner options are invalid: need at least one device and a positive queue scale",
		).WithCause(err)
	}
	return s, nil
}
