/*
Package evaluator runs learner submissions against a battery of test cases.

A submission moves forward through a fixed pipeline and any stage may end the
run early with a report:

	validate   empty or oversized source
	transpile  TypeScript to ES2020 script (esbuild)
	scan       static safety patterns, blocking or advisory
	resolve    top-level function candidates and the one under test
	execute    one sandbox runtime per evaluation, cases run in order
	compare    value.DeepEqual against the expected output
	aggregate  EvaluationReport with per-case results and diagnostics

Engine.Evaluate never returns an error. Every failure, including a recovered
panic, ends up in Report.Error with Report.Stage naming where it happened.
*/
package evaluator
