package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/codejudge/internal/catalog"
	"github.com/GriffinCanCode/codejudge/internal/evaluator"
	"github.com/GriffinCanCode/codejudge/internal/infrastructure/tracing"
)

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	Code         string               `json:"code"`
	TestCases    []evaluator.TestCase `json:"testCases"`
	FunctionName string               `json:"functionName,omitempty"`
}

// SubmissionRequest is the body of POST /problems/:id/evaluate.
type SubmissionRequest struct {
	Code         string `json:"code"`
	FunctionName string `json:"functionName,omitempty"`
}

// Evaluate runs submitted code against the submitted test cases. Failures
// inside the pipeline are part of the report, so any well-formed request
// gets a 200.
func (h *Handlers) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	report := h.engine.Evaluate(ctx, req.Code, req.TestCases, req.FunctionName)
	h.record(ctx, report, "")
	c.JSON(http.StatusOK, report)
}

// EvaluateProblem runs submitted code against a catalog problem's tests.
func (h *Handlers) EvaluateProblem(c *gin.Context) {
	problem, ok := h.problem(c)
	if !ok {
		return
	}

	var req SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	name := req.FunctionName
	if name == "" {
		name = problem.FunctionName
	}
	ctx := c.Request.Context()
	report := h.engine.Evaluate(ctx, req.Code, problem.TestCases, name)
	h.record(ctx, report, problem.ID)
	c.JSON(http.StatusOK, report)
}

// ListProblems lists catalog problems, optionally filtered by category.
func (h *Handlers) ListProblems(c *gin.Context) {
	summaries := h.catalog.List(c.Query("category"))
	c.JSON(http.StatusOK, gin.H{
		"problems": summaries,
		"count":    len(summaries),
	})
}

// GetProblem returns one problem with its test cases.
func (h *Handlers) GetProblem(c *gin.Context) {
	if problem, ok := h.problem(c); ok {
		c.JSON(http.StatusOK, problem)
	}
}

func (h *Handlers) problem(c *gin.Context) (*catalog.Problem, bool) {
	id := c.Param("id")
	problem, err := h.catalog.Get(id)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "problem not found", "id": id})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return problem, true
}

// record ties the report to the request trace and logs it.
func (h *Handlers) record(ctx context.Context, report *evaluator.Report, problemID string) {
	if span := tracing.SpanFromContext(ctx); span != nil {
		span.SetTag("evaluation.id", report.ID)
		if report.Stage != "" {
			span.SetTag("evaluation.stage", string(report.Stage))
		}
	}

	fields := []zap.Field{
		zap.String("trace_id", string(tracing.TraceIDFromContext(ctx))),
		zap.String("id", report.ID),
		zap.Bool("all_passed", report.AllPassed),
		zap.Int("passed", report.Passed()),
		zap.Int("total", len(report.Results)),
	}
	if problemID != "" {
		fields = append(fields, zap.String("problem", problemID))
	}
	if report.Stage != "" {
		fields = append(fields, zap.String("stage", string(report.Stage)))
	}
	h.logger.Info("Evaluation served", fields...)
}
