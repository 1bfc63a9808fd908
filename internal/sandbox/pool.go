package sandbox

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrPoolClosed = errors.New("sandbox pool is closed")
	ErrTimeout    = errors.New("sandbox acquisition timeout")
)

// Pool keeps pre-built runtimes ready and bounds how many evaluations run at
// once. A runtime is handed out once; Release discards it and builds a fresh
// one so no state survives between submissions.
type Pool struct {
	config         Config
	sandboxes      chan *Runtime
	size           int
	acquireTimeout time.Duration
	mu             sync.RWMutex
	closed         bool
	inFlight       int
	created        int64
}

// NewPool creates a sandbox pool
func NewPool(config Config, size int) (*Pool, error) {
	if size <= 0 {
		size = 4
	}

	pool := &Pool{
		config:         config,
		sandboxes:      make(chan *Runtime, size),
		size:           size,
		acquireTimeout: 5 * time.Second,
	}

	// Pre-create sandboxes
	for i := 0; i < size; i++ {
		sandbox, err := New(config)
		if err != nil {
			pool.Close()
			return nil, err
		}
		pool.created++
		pool.sandboxes <- sandbox
	}

	return pool, nil
}

// WithAcquireTimeout sets how long Acquire waits for a free runtime.
func (p *Pool) WithAcquireTimeout(d time.Duration) *Pool {
	p.acquireTimeout = d
	return p
}

// Acquire gets a sandbox from pool with timeout
func (p *Pool) Acquire(ctx context.Context) (*Runtime, error) {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return nil, ErrPoolClosed
	}

	wait := time.NewTimer(p.acquireTimeout)
	defer wait.Stop()

	select {
	case sandbox, ok := <-p.sandboxes:
		if !ok {
			return nil, ErrPoolClosed
		}
		p.mu.Lock()
		p.inFlight++
		p.mu.Unlock()
		return sandbox, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-wait.C:
		return nil, ErrTimeout
	}
}

// Release discards a used sandbox and replaces it with a fresh one
func (p *Pool) Release(sandbox *Runtime) error {
	closeErr := sandbox.Close()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.inFlight--
	if p.closed {
		return closeErr
	}

	fresh, err := New(p.config)
	if err != nil {
		return err
	}
	p.created++

	select {
	case p.sandboxes <- fresh:
	default:
		// Pool full, close sandbox
		fresh.Close()
	}
	return closeErr
}

// Close closes pool and all sandboxes
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	close(p.sandboxes)

	// Close all sandboxes
	for sandbox := range p.sandboxes {
		sandbox.Close()
	}

	return nil
}

// Stats returns pool statistics
func (p *Pool) Stats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]interface{}{
		"size":      p.size,
		"available": len(p.sandboxes),
		"in_use":    p.inFlight,
		"created":   p.created,
		"closed":    p.closed,
	}
}
