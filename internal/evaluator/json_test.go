package evaluator

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/codejudge/internal/value"
)

func TestTestCaseUnmarshal(t *testing.T) {
	var tc TestCase
	require.NoError(t, json.Unmarshal([]byte(`{"input":[1,{"$js":"NaN"}],"description":"no expected output"}`), &tc))

	assert.Equal(t, "no expected output", tc.Description)
	assert.True(t, value.IsUndefined(tc.ExpectedOutput))
	require.Len(t, tc.Args(), 2)
	assert.Equal(t, 1.0, tc.Args()[0])
	assert.True(t, value.IsNaN(tc.Args()[1]))

	require.NoError(t, json.Unmarshal([]byte(`{"input":"solo","expectedOutput":null}`), &tc))
	assert.Equal(t, []any{"solo"}, tc.Args())
	assert.Nil(t, tc.ExpectedOutput)
}

func TestResultMarshal(t *testing.T) {
	passed := TestCaseResult{
		Input:          []any{math.Inf(1)},
		ExpectedOutput: nil,
		ActualOutput:   nil,
		Passed:         true,
	}
	data, err := json.Marshal(passed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"input":[{"$js":"Infinity"}],"expectedOutput":null,"actualOutput":null,"passed":true,"durationMs":0}`, string(data))

	failed := TestCaseResult{
		Input:          "x",
		ExpectedOutput: value.Undefined,
		ActualOutput:   "ignored",
		Error:          "boom",
	}
	data, err = json.Marshal(failed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"input":"x","expectedOutput":{"$js":"undefined"},"passed":false,"error":"boom","durationMs":0}`, string(data))
}

func TestReportJSONRoundTrip(t *testing.T) {
	report := Report{
		ID:        "abc",
		AllPassed: false,
		Function:  "f",
		Results: []TestCaseResult{
			{Input: []any{1.0}, ExpectedOutput: math.NaN(), ActualOutput: math.Copysign(0, -1), Description: "nan"},
			{Input: []any{2.0}, ExpectedOutput: 2.0, Error: "Promise rejected: nope"},
		},
		Warnings: []SafetyFinding{{Pattern: "innerHTML", Severity: SeverityWarn, Message: "m", Count: 1}},
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded.Results, 2)
	assert.True(t, value.IsNaN(decoded.Results[0].ExpectedOutput))
	assert.True(t, math.Signbit(decoded.Results[0].ActualOutput.(float64)))
	assert.Equal(t, "nan", decoded.Results[0].Description)
	assert.Nil(t, decoded.Results[1].ActualOutput)
	assert.Equal(t, "Promise rejected: nope", decoded.Results[1].Error)
	assert.Equal(t, report.Warnings, decoded.Warnings)
	assert.Equal(t, "f", decoded.Function)
}
