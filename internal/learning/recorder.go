package learning

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/pathwise/internal/logging"
	"github.com/abhisek/pathwise/internal/store"
)

// EventSink persists learning events. store.EventRepo satisfies it.
type EventSink interface {
	AppendLearningEvent(ctx context.Context, data store.LearningEventData) error
}

const recordTimeout = 5 * time.Second

// recorder writes events on its own goroutine so transitions never wait on
// the database.
type recorder struct {
	sink    EventSink
	log     *logging.Logger
	pending chan store.LearningEventData
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

func newRecorder(sink EventSink, buffer int, log *logging.Logger) *recorder {
	r := &recorder{
		sink:    sink,
		log:     log,
		pending: make(chan store.LearningEventData, buffer),
		done:    make(chan struct{}),
	}
	go r.processLoop()
	return r
}

// record queues ev. Events are dropped when the buffer is full.
func (r *recorder) record(ev store.LearningEventData) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.pending <- ev:
	default:
		r.log.Warn("learning event dropped", "action", ev.Action, "session_id", ev.SessionID)
	}
}

func (r *recorder) processLoop() {
	defer close(r.done)
	for ev := range r.pending {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := r.sink.AppendLearningEvent(ctx, ev); err != nil {
			r.log.Warn("record learning event", "action", ev.Action, "error", err)
		}
		cancel()
	}
}

// close flushes queued events and stops the loop.
func (r *recorder) close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.pending)
	r.mu.Unlock()
	<-r.done
}
