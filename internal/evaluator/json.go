package evaluator

import (
	"bytes"
	"encoding/json"

	"github.com/GriffinCanCode/codejudge/internal/value"
)

type testCaseJSON struct {
	Input          json.RawMessage `json:"input"`
	ExpectedOutput json.RawMessage `json:"expectedOutput"`
	Description    string          `json:"description,omitempty"`
}

// MarshalJSON encodes values JSON cannot express with the value.SpecialKey form.
func (tc TestCase) MarshalJSON() ([]byte, error) {
	type plain TestCase
	return json.Marshal(plain{
		Input:          value.Encode(tc.Input),
		ExpectedOutput: value.Encode(tc.ExpectedOutput),
		Description:    tc.Description,
	})
}

// UnmarshalJSON decodes a test case. A missing expectedOutput means undefined.
func (tc *TestCase) UnmarshalJSON(data []byte) error {
	var raw testCaseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	input, err := decodeValue(raw.Input)
	if err != nil {
		return err
	}
	expected, err := decodeValue(raw.ExpectedOutput)
	if err != nil {
		return err
	}
	*tc = TestCase{Input: input, ExpectedOutput: expected, Description: raw.Description}
	return nil
}

type testCaseResultJSON struct {
	Input          any     `json:"input"`
	ExpectedOutput any     `json:"expectedOutput"`
	ActualOutput   any     `json:"actualOutput,omitempty"`
	Passed         bool    `json:"passed"`
	Error          string  `json:"error,omitempty"`
	Description    string  `json:"description,omitempty"`
	DurationMs     float64 `json:"durationMs"`
}

func (r TestCaseResult) MarshalJSON() ([]byte, error) {
	out := testCaseResultJSON{
		Input:          value.Encode(r.Input),
		ExpectedOutput: value.Encode(r.ExpectedOutput),
		Passed:         r.Passed,
		Error:          r.Error,
		Description:    r.Description,
		DurationMs:     r.DurationMs,
	}
	if r.Error == "" {
		// null is a legitimate output; keep it instead of omitting the key.
		out.ActualOutput = json.RawMessage("null")
		if r.ActualOutput != nil {
			out.ActualOutput = value.Encode(r.ActualOutput)
		}
	}
	return json.Marshal(out)
}

func (r *TestCaseResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Input          json.RawMessage `json:"input"`
		ExpectedOutput json.RawMessage `json:"expectedOutput"`
		ActualOutput   json.RawMessage `json:"actualOutput"`
		Passed         bool            `json:"passed"`
		Error          string          `json:"error"`
		Description    string          `json:"description"`
		DurationMs     float64         `json:"durationMs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	res := TestCaseResult{
		Passed:      raw.Passed,
		Error:       raw.Error,
		Description: raw.Description,
		DurationMs:  raw.DurationMs,
	}
	var err error
	if res.Input, err = decodeValue(raw.Input); err != nil {
		return err
	}
	if res.ExpectedOutput, err = decodeValue(raw.ExpectedOutput); err != nil {
		return err
	}
	if len(raw.ActualOutput) > 0 {
		if res.ActualOutput, err = decodeValue(raw.ActualOutput); err != nil {
			return err
		}
	}
	*r = res
	return nil
}

// decodeValue parses a JSON value into the value model. Empty input is
// undefined.
func decodeValue(data json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return value.Undefined, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return value.Normalize(v), nil
}
