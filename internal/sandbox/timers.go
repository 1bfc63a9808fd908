package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

const minInterval = time.Millisecond

type timer struct {
	id       int64
	seq      int64
	due      time.Time
	interval time.Duration
	repeat   bool
	fn       goja.Callable
	args     []goja.Value
}

// timerQueue holds pending setTimeout/setInterval callbacks. It is only
// touched from the goroutine that owns the runtime.
type timerQueue struct {
	nextID  int64
	seq     int64
	pending []*timer
}

func newTimerQueue() *timerQueue {
	return &timerQueue{}
}

func (q *timerQueue) add(fn goja.Callable, args []goja.Value, delay time.Duration, repeat bool) int64 {
	q.nextID++
	t := &timer{
		id:       q.nextID,
		due:      time.Now().Add(delay),
		interval: max(delay, minInterval),
		repeat:   repeat,
		fn:       fn,
		args:     args,
	}
	q.push(t)
	return t.id
}

func (q *timerQueue) push(t *timer) {
	q.seq++
	t.seq = q.seq
	q.pending = append(q.pending, t)
}

func (q *timerQueue) remove(id int64) {
	for i, t := range q.pending {
		if t.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// pop removes and returns the timer that is due first.
func (q *timerQueue) pop() *timer {
	if len(q.pending) == 0 {
		return nil
	}
	best := 0
	for i, t := range q.pending[1:] {
		b := q.pending[best]
		if t.due.Before(b.due) || (t.due.Equal(b.due) && t.seq < b.seq) {
			best = i + 1
		}
	}
	t := q.pending[best]
	q.pending = append(q.pending[:best], q.pending[best+1:]...)
	return t
}

func (q *timerQueue) len() int {
	return len(q.pending)
}

func (q *timerQueue) clear() {
	q.pending = nil
}

// runNext waits for the earliest timer and runs it. It reports false when
// no timer is pending.
func (q *timerQueue) runNext(ctx context.Context, r *Runtime) (bool, error) {
	t := q.pop()
	if t == nil {
		return false, nil
	}

	if wait := time.Until(t.due); wait > 0 {
		wake := time.NewTimer(wait)
		select {
		case <-wake.C:
		case <-ctx.Done():
			wake.Stop()
			return false, fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
		}
	}

	if t.repeat {
		t.due = time.Now().Add(t.interval)
		q.push(t)
	}

	if _, err := t.fn(goja.Undefined(), t.args...); err != nil {
		classified := r.classify(err)
		if errors.Is(classified, ErrInterrupted) {
			return true, classified
		}
		r.record("error", "Uncaught "+classified.Error())
	}
	return true, nil
}

// installTimers exposes the timer queue to scripts.
func (r *Runtime) installTimers() error {
	schedule := func(name string, repeat bool) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			fn, ok := goja.AssertFunction(call.Argument(0))
			if !ok {
				panic(r.vm.NewTypeError("%s requires a function", name))
			}
			delay := time.Duration(call.Argument(1).ToInteger()) * time.Millisecond
			if delay < 0 {
				delay = 0
			}
			var args []goja.Value
			if len(call.Arguments) > 2 {
				args = append(args, call.Arguments[2:]...)
			}
			return r.vm.ToValue(r.timers.add(fn, args, delay, repeat))
		}
	}
	cancel := func(call goja.FunctionCall) goja.Value {
		r.timers.remove(call.Argument(0).ToInteger())
		return goja.Undefined()
	}

	globals := map[string]any{
		"setTimeout":    schedule("setTimeout", false),
		"setInterval":   schedule("setInterval", true),
		"clearTimeout":  cancel,
		"clearInterval": cancel,
	}
	for name, fn := range globals {
		if err := r.vm.Set(name, fn); err != nil {
			return err
		}
	}
	return nil
}
