/*
Package sandbox provides the evaluation scope learner code runs in.

# Overview

Each Runtime wraps a fresh goja virtual machine. Nothing is shared between
runtimes, so concurrent evaluations cannot observe each other's globals,
console output or timers. A Runtime has:

  - An allowlist of intrinsics (Object, Array, Math, JSON, Promise, ...);
    every other global is removed
  - eval and the Function constructor replaced by throwing stubs
  - A console that records log/info/debug/warn/error into an ordered buffer
  - setTimeout/setInterval/queueMicrotask backed by a timer queue that is
    only serviced while a returned promise is being awaited
  - Browser-only globals (fetch, window, document, ...) reported as
    UnavailableError instead of opaque ReferenceErrors
  - A call stack limit and a deadline watcher that interrupts the VM

# Usage Example

	rt, err := sandbox.New(sandbox.DefaultConfig())
	if err != nil {
		return err
	}
	defer rt.Close()

	stop := rt.Watch(ctx)
	defer stop()

	if err := rt.Load(script); err != nil {
		return err
	}
	fn, err := rt.Lookup("add")
	if err != nil {
		return err
	}
	out, err := rt.Call(ctx, fn, []any{1.0, 2.0})

# Limits

The scope is a mitigation layer for an educational tool, not a security
boundary. Memory use is not bounded.
*/
package sandbox
