package runner

import (
	"slices"
	"sort"
)

// fetchStrategy decides how submitted items are tagged and how the
// consumer pulls the next result from the producer output channel.
// assign and rollback run on the calling goroutine, next on the
// consumer goroutine; they touch disjoint state.
type fetchStrategy[R any] interface {
	// assign returns the sequence id for the next submitted item.
	assign() uint64
	// rollback undoes the most recent assign after an aborted submission.
	rollback()
	// next returns the next result to hand to the consumer.
	next(out <-chan envelope[R]) envelope[R]
	// reset clears all ordering state for a fresh activation.
	reset()
}

// unorderedFetch delivers results as they complete.
type unorderedFetch[R any] struct{}

func (unorderedFetch[R]) assign() uint64 { return 0 }

func (unorderedFetch[R]) rollback() {}

func (unorderedFetch[R]) next(out <-chan envelope[R]) envelope[R] { return <-out }

func (unorderedFetch[R]) reset() {}

// orderedFetch delivers results in exact submission order. Results that
// complete early wait in a reorder buffer kept sorted by sequence id.
// Every buffered id is > nextDeliver and < nextSubmit; the buffer holds
// exactly the completed-but-not-yet-in-order results, so its growth is
// capped by the producer input queue capacity.
type orderedFetch[R any] struct {
	nextSubmit  uint64
	nextDeliver uint64
	ids         []uint64
	buffered    []envelope[R]
}

func (f *orderedFetch[R]) assign() uint64 {
	seq := f.nextSubmit
	f.nextSubmit++
	return seq
}

func (f *orderedFetch[R]) rollback() {
	f.nextSubmit--
}

func (f *orderedFetch[R]) next(out <-chan envelope[R]) envelope[R] {
	if len(f.ids) > 0 && f.ids[0] == f.nextDeliver {
		env := f.buffered[0]
		f.ids = f.ids[1:]
		f.buffered = f.buffered[1:]
		f.nextDeliver++
		return env
	}

	for {
		env := <-out
		if env.seq == f.nextDeliver {
			f.nextDeliver++
			return env
		}
		pos := sort.Search(len(f.ids), func(i int) bool { return f.ids[i] > env.seq })
		f.ids = slices.Insert(f.ids, pos, env.seq)
		f.buffered = slices.Insert(f.buffered, pos, env)
	}
}

func (f *orderedFetch[R]) reset() {
	f.nextSubmit = 0
	f.nextDeliver = 0
	f.ids = nil
	f.buffered = nil
}
