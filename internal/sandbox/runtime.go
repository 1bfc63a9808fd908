package sandbox

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/GriffinCanCode/codejudge/internal/value"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// hardenScript runs before any learner code. It captures Promise.resolve so
// learner code cannot redirect how returned thenables are adopted, and it
// locks every path to the Function constructor family.
const hardenScript = `(function (g) {
	var P = g.Promise, resolve = P.resolve;
	var blocked = function Function() {
		throw new EvalError("Function constructor is disabled in this environment");
	};
	blocked.prototype = g.Function.prototype;
	var lock = function (proto) {
		try {
			Object.defineProperty(proto, "constructor", { value: blocked, writable: false, configurable: false });
		} catch (e) {}
	};
	lock(g.Function.prototype);
	try { lock(Object.getPrototypeOf(function* () {})); } catch (e) {}
	try { lock(Object.getPrototypeOf(async function () {})); } catch (e) {}
	Object.defineProperty(g, "Function", { value: blocked, writable: true, configurable: true });
	g.eval = function eval() {
		throw new EvalError("eval is disabled in this environment");
	};
	g.queueMicrotask = function queueMicrotask(cb) {
		if (typeof cb !== "function") {
			throw new TypeError("queueMicrotask requires a function");
		}
		resolve.call(P).then(function () { cb(); });
	};
	return function (v) { return resolve.call(P, v); };
})(globalThis)`

// Runtime wraps goja VM with security controls
type Runtime struct {
	vm     *goja.Runtime
	config Config
	mu     sync.Mutex

	// Console output
	console   []LogEntry
	dropped   int
	consoleMu sync.Mutex

	timers      *timerQueue
	resolve     goja.Callable
	unavailable map[string]bool
	functions   map[*goja.Object]*value.Function
	closed      bool
}

// Callable is a resolved function binding.
type Callable struct {
	Name string
	fn   goja.Callable
}

// New creates a new sandboxed runtime
func New(config Config) (*Runtime, error) {
	vm := goja.New()

	r := &Runtime{
		vm:          vm,
		config:      config,
		console:     []LogEntry{},
		timers:      newTimerQueue(),
		unavailable: make(map[string]bool, len(config.Unavailable)),
		functions:   make(map[*goja.Object]*value.Function),
	}
	for _, name := range config.Unavailable {
		r.unavailable[name] = true
	}

	if config.MaxCallStackSize > 0 {
		vm.SetMaxCallStackSize(config.MaxCallStackSize)
	}

	if err := r.setupGlobals(); err != nil {
		return nil, err
	}

	return r, nil
}

// setupGlobals configures global objects and security
func (r *Runtime) setupGlobals() error {
	resolver, err := r.vm.RunString(hardenScript)
	if err != nil {
		return fmt.Errorf("failed to harden globals: %w", err)
	}

	if err := r.restrictGlobals(); err != nil {
		return err
	}
	resolve, ok := goja.AssertFunction(resolver)
	if !ok {
		return errors.New("failed to capture Promise.resolve")
	}
	r.resolve = resolve

	if r.config.EnableConsole {
		console := r.vm.NewObject()
		for _, level := range []string{"log", "info", "debug", "warn", "error"} {
			if err := console.Set(level, r.makeConsoleFunc(level)); err != nil {
				return err
			}
		}
		if err := r.vm.Set("console", console); err != nil {
			return err
		}
	}

	if r.config.EnableTimers {
		if err := r.installTimers(); err != nil {
			return err
		}
	} else {
		if err := r.vm.GlobalObject().Delete("queueMicrotask"); err != nil {
			return err
		}
	}

	return nil
}

// restrictGlobals deletes every global that is not allowlisted.
func (r *Runtime) restrictGlobals() error {
	if len(r.config.Globals) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(r.config.Globals))
	for _, name := range r.config.Globals {
		allowed[name] = true
	}
	// Promise adoption and the queueMicrotask shim depend on these.
	allowed["Object"], allowed["Promise"], allowed["globalThis"] = true, true, true
	allowed["queueMicrotask"] = true

	names, err := r.vm.RunString("Object.getOwnPropertyNames(globalThis)")
	if err != nil {
		return fmt.Errorf("failed to list globals: %w", err)
	}
	var list []string
	if err := r.vm.ExportTo(names, &list); err != nil {
		return fmt.Errorf("failed to list globals: %w", err)
	}

	global := r.vm.GlobalObject()
	for _, name := range list {
		if allowed[name] || name == "eval" {
			continue
		}
		// Non-configurable intrinsics stay; they are all harmless values.
		_ = global.Delete(name)
	}
	return nil
}

// Load evaluates the transpiled script once so that every top-level binding
// exists. A reference to a browser-only global is returned as
// *UnavailableError; bindings declared before it stay usable.
func (r *Runtime) Load(script string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	defer r.recoverInto(&err)

	_, runErr := r.vm.RunString(script)
	return r.classify(runErr)
}

// Lookup resolves a top-level binding to a callable.
func (r *Runtime) Lookup(name string) (c *Callable, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	if !identifierRe.MatchString(name) {
		return nil, fmt.Errorf("%q: %w", name, ErrNotCallable)
	}
	defer r.recoverInto(&err)

	val, runErr := r.vm.RunString(name)
	if runErr != nil {
		return nil, fmt.Errorf("%s: %w", name, r.classify(runErr))
	}
	fn, ok := goja.AssertFunction(val)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotCallable)
	}
	return &Callable{Name: name, fn: fn}, nil
}

// Call invokes fn with args converted into JS values. A returned thenable is
// awaited while the timer queue is serviced; the settled value is exported.
func (r *Runtime) Call(ctx context.Context, fn *Callable, args []any) (out any, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	defer r.recoverInto(&err)

	jsArgs := make([]goja.Value, len(args))
	for i, arg := range args {
		jsArgs[i] = r.importValue(arg)
	}

	ret, callErr := fn.fn(goja.Undefined(), jsArgs...)
	if callErr != nil {
		return nil, r.classify(callErr)
	}
	if !r.isThenable(ret) {
		return r.exportValue(ret), nil
	}

	promise, err := r.adopt(ret)
	if err != nil {
		return nil, err
	}
	for promise.State() == goja.PromiseStatePending {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
		}
		ran, err := r.timers.runNext(ctx, r)
		if err != nil {
			return nil, err
		}
		if !ran {
			return nil, ErrNeverSettled
		}
	}

	if promise.State() == goja.PromiseStateRejected {
		reason := promise.Result()
		if name := r.unavailableName(reason); name != "" {
			return nil, &UnavailableError{Name: name}
		}
		_, msg := r.describe(reason, "no reason provided")
		return nil, &RejectionError{Reason: msg}
	}
	return r.exportValue(promise.Result()), nil
}

// Watch interrupts the VM when ctx is done. The returned stop function must
// be called once the caller is finished with the runtime; it waits for the
// watcher to exit and clears any interrupt that raced with completion.
func (r *Runtime) Watch(ctx context.Context) (stop func()) {
	quit := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
			r.vm.Interrupt(ctx.Err())
		case <-quit:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			<-done
			r.vm.ClearInterrupt()
		})
	}
}

// Console returns a copy of the recorded console output.
func (r *Runtime) Console() []LogEntry {
	r.consoleMu.Lock()
	defer r.consoleMu.Unlock()

	entries := append([]LogEntry{}, r.console...)
	if r.dropped > 0 {
		entries = append(entries, LogEntry{
			Level:   "warn",
			Message: fmt.Sprintf("... %d more console entries truncated", r.dropped),
			Time:    time.Now(),
		})
	}
	return entries
}

// Close releases resources
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.timers.clear()
	r.functions = nil
	r.vm = nil
	return nil
}

// adopt turns a thenable into a native promise.
func (r *Runtime) adopt(v goja.Value) (*goja.Promise, error) {
	if p, ok := v.Export().(*goja.Promise); ok {
		return p, nil
	}
	adopted, err := r.resolve(goja.Undefined(), v)
	if err != nil {
		return nil, r.classify(err)
	}
	p, ok := adopted.Export().(*goja.Promise)
	if !ok {
		return nil, errors.New("failed to adopt thenable")
	}
	return p, nil
}

func (r *Runtime) isThenable(v goja.Value) bool {
	obj, ok := v.(*goja.Object)
	if !ok {
		return false
	}
	if _, ok := obj.Export().(*goja.Promise); ok {
		return true
	}
	_, ok = goja.AssertFunction(obj.Get("then"))
	return ok
}

// classify maps goja errors onto the sandbox error types.
func (r *Runtime) classify(err error) error {
	if err == nil {
		return nil
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return fmt.Errorf("%w: %v", ErrInterrupted, interrupted.Value())
	}

	var exception *goja.Exception
	if errors.As(err, &exception) {
		val := exception.Value()
		if name := r.unavailableName(val); name != "" {
			return &UnavailableError{Name: name}
		}
		name, msg := r.describe(val, "An unknown error was thrown")
		return &ThrowError{Name: name, Message: msg}
	}

	return &ThrowError{Message: err.Error()}
}

var notDefinedRe = regexp.MustCompile(`^([A-Za-z_$][A-Za-z0-9_$]*) is not defined$`)

// unavailableName returns the browser global a ReferenceError names, if any.
func (r *Runtime) unavailableName(v goja.Value) string {
	obj, ok := v.(*goja.Object)
	if !ok {
		return ""
	}
	if name := obj.Get("name"); name == nil || name.String() != "ReferenceError" {
		return ""
	}
	msg := obj.Get("message")
	if msg == nil {
		return ""
	}
	m := notDefinedRe.FindStringSubmatch(msg.String())
	if m == nil || !r.unavailable[m[1]] {
		return ""
	}
	return m[1]
}

// describe extracts a readable message from a thrown or rejected value:
// the message of Error-like objects, the string form of anything else, and
// placeholder for null, undefined and empty values.
func (r *Runtime) describe(v goja.Value, placeholder string) (name, msg string) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "", placeholder
	}
	if obj, ok := v.(*goja.Object); ok {
		if m := obj.Get("message"); m != nil && !goja.IsUndefined(m) && !goja.IsNull(m) {
			if n := obj.Get("name"); n != nil && !goja.IsUndefined(n) {
				name = n.String()
			}
			if s := m.String(); s != "" {
				return name, s
			}
			if name != "" {
				return "", name
			}
		}
		if _, isArray := obj.Export().([]any); isArray || obj.ClassName() == "Object" {
			if s := renderArg(r.exportValue(v)); s != "" {
				return "", s
			}
		}
	}
	if s := v.String(); s != "" {
		return "", s
	}
	return "", placeholder
}

// recoverInto turns a Go panic raised inside goja into an error.
func (r *Runtime) recoverInto(err *error) {
	if p := recover(); p != nil {
		if ex, ok := p.(*goja.Exception); ok {
			*err = r.classify(ex)
			return
		}
		*err = fmt.Errorf("sandbox: unexpected panic: %v", p)
	}
}
