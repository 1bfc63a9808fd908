package evaluator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/codejudge/internal/sandbox"
	"github.com/GriffinCanCode/codejudge/internal/value"
)

// Observer receives every finished report together with all safety
// findings, blocking ones included.
type Observer interface {
	ObserveEvaluation(report *Report, findings []SafetyFinding)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPool makes the engine take runtimes from pool instead of building
// one per evaluation.
func WithPool(pool *sandbox.Pool) Option {
	return func(e *Engine) {
		e.pool = pool
	}
}

// WithObserver registers an observer, typically metrics.
func WithObserver(observer Observer) Option {
	return func(e *Engine) {
		e.observer = observer
	}
}

// Request is one submission to evaluate.
type Request struct {
	Source       string
	Tests        []TestCase
	FunctionName string // Optional explicit function under test
}

// Engine evaluates submissions. It is safe for concurrent use; every
// evaluation gets its own sandbox runtime.
type Engine struct {
	config   Config
	logger   *zap.Logger
	pool     *sandbox.Pool
	observer Observer
}

// New creates an engine.
func New(config Config, opts ...Option) *Engine {
	e := &Engine{
		config: config.withDefaults(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's default limits.
func (e *Engine) Config() Config {
	return e.config
}

// Evaluate runs source against tests with the engine's configuration.
func (e *Engine) Evaluate(ctx context.Context, source string, tests []TestCase, functionName string) *Report {
	return e.Run(ctx, e.config, Request{Source: source, Tests: tests, FunctionName: functionName})
}

// Run evaluates req under config. It always returns a report. When the
// engine has a pool, runtimes come from the pool and config.Sandbox is not
// used.
func (e *Engine) Run(ctx context.Context, config Config, req Request) (report *Report) {
	config = config.withDefaults()
	start := time.Now()
	report = &Report{ID: uuid.NewString(), Results: []TestCaseResult{}}

	var findings []SafetyFinding
	defer func() {
		if p := recover(); p != nil {
			e.logger.Error("evaluation panicked",
				zap.String("id", report.ID),
				zap.Any("panic", p),
				zap.Stack("stack"),
			)
			*report = Report{ID: report.ID, Results: []TestCaseResult{}}
			abort(report, newError(KindInternal, fmt.Errorf("panic: %v", p),
				"Internal error: the evaluation failed unexpectedly"))
		}
		report.DurationMs = milliseconds(time.Since(start))
		e.finish(report, findings)
	}()

	if err := Validate(req.Source, config.MaxSourceSize); err != nil {
		abort(report, err)
		return report
	}

	script, compilerWarnings, err := Transpile(req.Source)
	if err != nil {
		abort(report, err)
		return report
	}

	findings = Scan(req.Source, script)
	blocking, advisory := Partition(findings)
	if len(blocking) > 0 {
		e.logger.Warn("submission blocked by safety scan",
			zap.String("id", report.ID),
			zap.Int("findings", len(blocking)),
		)
		abort(report, safetyError(blocking))
		return report
	}
	report.Warnings = advisory

	candidates := Candidates(script)
	if len(candidates) == 0 {
		abort(report, newError(KindNoFunction, nil, "No functions found in code. Please define a function to test."))
		return report
	}

	x := &execution{
		engine:     e,
		config:     config,
		report:     report,
		order:      Select(candidates, req.FunctionName, req.Tests),
		tests:      req.Tests,
		script:     script,
		diagnostic: newDiagnostics(),
	}
	for _, w := range compilerWarnings {
		x.diagnostic.add("Compiler warning: " + w)
	}
	x.run(ctx)
	return report
}

func (e *Engine) finish(report *Report, findings []SafetyFinding) {
	e.logger.Debug("evaluation finished",
		zap.String("id", report.ID),
		zap.String("function", report.Function),
		zap.String("stage", string(report.Stage)),
		zap.Bool("all_passed", report.AllPassed),
		zap.Int("passed", report.Passed()),
		zap.Int("total", len(report.Results)),
		zap.Float64("duration_ms", report.DurationMs),
	)
	if e.observer != nil {
		e.observer.ObserveEvaluation(report, findings)
	}
}

func (e *Engine) acquire(ctx context.Context, config Config) (*sandbox.Runtime, func(), error) {
	if e.pool == nil {
		rt, err := sandbox.New(config.Sandbox)
		if err != nil {
			return nil, nil, err
		}
		return rt, func() { rt.Close() }, nil
	}

	rt, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	return rt, func() {
		if err := e.pool.Release(rt); err != nil {
			e.logger.Warn("failed to release sandbox", zap.Error(err))
		}
	}, nil
}

// execution is the state of one sandboxed run.
type execution struct {
	engine     *Engine
	config     Config
	report     *Report
	order      []string
	tests      []TestCase
	script     string
	diagnostic *diagnostics
}

func (x *execution) run(parent context.Context) {
	rt, release, err := x.engine.acquire(parent, x.config)
	if err != nil {
		abort(x.report, newError(KindInternal, err, "Internal error: no sandbox available (%v)", err))
		return
	}
	defer release()

	ctx, cancel := context.WithTimeout(parent, x.config.Deadline)
	defer cancel()
	stop := rt.Watch(ctx)
	defer stop()

	defer func() {
		x.report.Console = rt.Console()
		x.diagnostic.console(x.report.Console)
		x.diagnostic.warnings(x.report.Warnings)
		x.report.Error = x.diagnostic.compose(x.report.Error)
	}()

	if err := rt.Load(x.script); err != nil {
		var unavailable *sandbox.UnavailableError
		switch {
		case errors.As(err, &unavailable):
			x.diagnostic.note(fmt.Sprintf("Note: %s", unavailable.Error()))
		case errors.Is(err, sandbox.ErrInterrupted):
			abort(x.report, x.interruption(ctx, err))
			return
		default:
			abort(x.report, newError(KindExecution, err, "Execution error: %s", caseMessage(err)))
			return
		}
	}

	fn, rerr := x.resolve(rt)
	if rerr != nil {
		abort(x.report, rerr)
		return
	}
	x.report.Function = fn.Name

	for i, tc := range x.tests {
		if ctx.Err() != nil {
			x.timeout(ctx, i, nil)
			return
		}

		caseStart := time.Now()
		actual, err := rt.Call(ctx, fn, tc.Args())
		result := TestCaseResult{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Description:    tc.Description,
			DurationMs:     milliseconds(time.Since(caseStart)),
		}
		if errors.Is(err, sandbox.ErrInterrupted) {
			x.timeout(ctx, i, err)
			return
		}
		if err != nil {
			result.Error = caseMessage(err)
		} else {
			result.ActualOutput = actual
			result.Passed = value.DeepEqual(actual, tc.ExpectedOutput)
		}
		x.report.Results = append(x.report.Results, result)
	}

	x.report.AllPassed = allPassed(x.report.Results)
}

// resolve walks the preference order until a binding is callable.
func (x *execution) resolve(rt *sandbox.Runtime) (*sandbox.Callable, *Error) {
	var firstErr error
	for _, name := range x.order {
		fn, err := rt.Lookup(name)
		if err == nil {
			return fn, nil
		}
		if errors.Is(err, sandbox.ErrInterrupted) {
			return nil, newError(KindTimeout, err, "%s", timeoutMessage(x.config.Deadline))
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, newError(KindNotCallable, firstErr,
		"No callable function found: '%s' is not a function", x.order[0])
}

// timeout records the timeout error for test case i and every case after
// it. Results already collected are kept.
func (x *execution) timeout(ctx context.Context, from int, err error) {
	runErr := x.interruption(ctx, err)
	for _, tc := range x.tests[from:] {
		x.report.Results = append(x.report.Results, TestCaseResult{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Description:    tc.Description,
			Error:          runErr.Message,
		})
	}
	x.report.AllPassed = false
	x.report.Stage = runErr.Kind
	x.report.Error = runErr.Message
}

func (x *execution) interruption(ctx context.Context, err error) *Error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return newError(KindExecution, err, "Evaluation was canceled")
	}
	return newError(KindTimeout, err, "%s", timeoutMessage(x.config.Deadline))
}

// caseMessage is the text recorded for a failed call.
func caseMessage(err error) string {
	var thrown *sandbox.ThrowError
	if errors.As(err, &thrown) {
		return thrown.Message
	}
	return err.Error()
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
