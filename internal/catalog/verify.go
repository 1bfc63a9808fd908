package catalog

import (
	"context"

	"github.com/GriffinCanCode/codejudge/internal/evaluator"
)

// Verification is the result of running a problem's reference solution.
type Verification struct {
	Problem *Problem
	Report  *evaluator.Report
}

// Passed reports whether the solution passed every test case.
func (v Verification) Passed() bool {
	return v.Report != nil && v.Report.AllPassed
}

// Verify evaluates every problem's solution against its own test cases.
// Problems without a solution are skipped.
func (c *Catalog) Verify(ctx context.Context, engine *evaluator.Engine) []Verification {
	var out []Verification
	for _, p := range c.Problems() {
		if p.Solution == "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		out = append(out, Verification{
			Problem: p,
			Report:  engine.Evaluate(ctx, p.Solution, p.TestCases, p.FunctionName),
		})
	}
	return out
}
