package watch

import "context"

// CompileFunc runs one compile. It is never called concurrently.
type CompileFunc func(ctx context.Context)

// Queue serialises compiles. Requests made while a compile runs collapse
// into a single follow-up compile.
type Queue struct {
	compile  CompileFunc
	requests chan struct{}
}

// NewQueue returns a Queue for fn.
func NewQueue(fn CompileFunc) *Queue {
	return &Queue{compile: fn, requests: make(chan struct{}, 1)}
}

// Request asks for a compile without blocking.
func (q *Queue) Request() {
	select {
	case q.requests <- struct{}{}:
	default:
	}
}

// Run processes requests until ctx is done. A compile in progress when ctx is
// cancelled receives the cancelled context and is expected to return quickly.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.requests:
			if ctx.Err() != nil {
				return
			}
			q.compile(ctx)
		}
	}
}
