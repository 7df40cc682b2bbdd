package runner

// signalKind tags every control-channel message so user payloads can
// never be mistaken for control flow, zero values included.
type signalKind uint8

const (
	// signalData tells the consumer one more result is on its way.
	signalData signalKind = iota
	// signalInit tells the consumer to run its init hook.
	signalInit
	// signalEnd tells the consumer to run its end hook and emit the aggregate.
	signalEnd
	// signalStop terminates a worker loop.
	signalStop
)

// job is a producer input message: either a work item or a stop signal.
type job[T any] struct {
	kind signalKind
	seq  uint64
	item T
}

// envelope is a producer output message. seq carries the submission
// order for the ordered discipline; err marks a failed worker hook.
type envelope[R any] struct {
	seq    uint64
	value  R
	device string
	err    error
}

// callResult is the consumer's answer on the rendezvous channel.
type callResult[A any] struct {
	aggregate A
	err       error
}
