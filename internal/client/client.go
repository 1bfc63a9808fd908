package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"

	apihttp "github.com/GriffinCanCode/codejudge/internal/api/http"
	"github.com/GriffinCanCode/codejudge/internal/catalog"
	"github.com/GriffinCanCode/codejudge/internal/evaluator"
	"github.com/GriffinCanCode/codejudge/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/codejudge/internal/infrastructure/tracing"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client talks to a judge server.
type Client struct {
	resty   *resty.Client
	breaker *resilience.Breaker
}

// Config tunes the client.
type Config struct {
	// Timeout bounds one attempt. Evaluations run up to the server deadline,
	// so this should exceed it.
	Timeout      time.Duration
	RetryCount   int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	// TripAfter consecutive failures opens the circuit for OpenFor.
	TripAfter uint32
	OpenFor   time.Duration
}

// DefaultConfig returns client defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		RetryCount:   3,
		RetryWait:    500 * time.Millisecond,
		RetryMaxWait: 5 * time.Second,
		TripAfter:    5,
		OpenFor:      30 * time.Second,
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, cfg Config) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("User-Agent", "codejudge-cli/"+apihttp.Version).
		AddRetryCondition(retryPolicy)

	breaker := resilience.New("judge-server", resilience.Settings{
		MaxRequests: 1,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.TripAfter
		},
		IsFailure: isServerFailure,
	})

	return &Client{resty: r, breaker: breaker}
}

// retryPolicy retries connection errors, 429 and 5xx other than 501.
func retryPolicy(resp *resty.Response, err error) bool {
	ctx := context.Background()
	var raw *http.Response
	if resp != nil {
		raw = resp.RawResponse
		if resp.Request != nil {
			ctx = resp.Request.Context()
		}
	}
	if raw == nil && err == nil {
		return false
	}
	retry, _ := retryablehttp.DefaultRetryPolicy(ctx, raw, err)
	return retry
}

// isServerFailure counts transport errors and 5xx against the server. A 4xx
// is the caller's fault.
func isServerFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return true
}

// Breaker exposes the circuit breaker state.
func (c *Client) Breaker() *resilience.Breaker {
	return c.breaker
}

func (c *Client) request(ctx context.Context) *resty.Request {
	headers := map[string]string{}
	tracing.InjectTraceContext(ctx, headers)
	return c.resty.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetError(&APIError{})
}

func (c *Client) send(req *resty.Request, method, path string) error {
	return c.breaker.Execute(func() error {
		resp, err := req.Execute(method, path)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		if resp.IsError() {
			apiErr, _ := resp.Error().(*APIError)
			if apiErr == nil {
				apiErr = &APIError{}
			}
			apiErr.Status = resp.StatusCode()
			return apiErr
		}
		return nil
	})
}

// Evaluate runs code against tests on the server.
func (c *Client) Evaluate(ctx context.Context, code string, tests []evaluator.TestCase, functionName string) (*evaluator.Report, error) {
	var report evaluator.Report
	req := c.request(ctx).
		SetBody(apihttp.EvaluateRequest{Code: code, TestCases: tests, FunctionName: functionName}).
		SetResult(&report)
	if err := c.send(req, resty.MethodPost, "/evaluate"); err != nil {
		return nil, err
	}
	return &report, nil
}

// EvaluateProblem runs code against a catalog problem on the server.
func (c *Client) EvaluateProblem(ctx context.Context, id, code, functionName string) (*evaluator.Report, error) {
	var report evaluator.Report
	req := c.request(ctx).
		SetPathParam("id", id).
		SetBody(apihttp.SubmissionRequest{Code: code, FunctionName: functionName}).
		SetResult(&report)
	if err := c.send(req, resty.MethodPost, "/problems/{id}/evaluate"); err != nil {
		return nil, notFound(err, id)
	}
	return &report, nil
}

// Problems lists the server catalog.
func (c *Client) Problems(ctx context.Context, category string) ([]catalog.Summary, error) {
	var out struct {
		Problems []catalog.Summary `json:"problems"`
	}
	req := c.request(ctx).SetResult(&out)
	if category != "" {
		req.SetQueryParam("category", category)
	}
	if err := c.send(req, resty.MethodGet, "/problems"); err != nil {
		return nil, err
	}
	return out.Problems, nil
}

// Problem fetches one problem with its test cases.
func (c *Client) Problem(ctx context.Context, id string) (*catalog.Problem, error) {
	var problem catalog.Problem
	req := c.request(ctx).
		SetPathParam("id", id).
		SetResult(&problem)
	if err := c.send(req, resty.MethodGet, "/problems/{id}"); err != nil {
		return nil, notFound(err, id)
	}
	return &problem, nil
}

func notFound(err error, id string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}
	return err
}
