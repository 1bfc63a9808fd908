package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"github.com/charlievieth/fastwalk"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/codejudge/internal/evaluator"
	"github.com/GriffinCanCode/codejudge/internal/value"
)

// DefaultPattern matches every supported problem file.
const DefaultPattern = "**/*.{yaml,yml,toml,json}"

type caseDoc struct {
	Input          any    `json:"input" yaml:"input" toml:"input"`
	ExpectedOutput any    `json:"expectedOutput" yaml:"expectedOutput" toml:"expectedOutput"`
	Description    string `json:"description" yaml:"description" toml:"description"`
}

type problemDoc struct {
	ID           string    `json:"id" yaml:"id" toml:"id"`
	Title        string    `json:"title" yaml:"title" toml:"title"`
	Category     string    `json:"category" yaml:"category" toml:"category"`
	Difficulty   string    `json:"difficulty" yaml:"difficulty" toml:"difficulty"`
	Description  string    `json:"description" yaml:"description" toml:"description"`
	FunctionName string    `json:"functionName" yaml:"functionName" toml:"functionName"`
	StarterCode  string    `json:"starterCode" yaml:"starterCode" toml:"starterCode"`
	Solution     string    `json:"solution" yaml:"solution" toml:"solution"`
	TestCases    []caseDoc `json:"testCases" yaml:"testCases" toml:"testCases"`
}

type fileDoc struct {
	Problems []problemDoc `json:"problems" yaml:"problems" toml:"problems"`
}

func (d problemDoc) problem(source string) *Problem {
	p := &Problem{
		ID:           strings.TrimSpace(d.ID),
		Title:        d.Title,
		Category:     d.Category,
		Difficulty:   d.Difficulty,
		Description:  d.Description,
		FunctionName: d.FunctionName,
		StarterCode:  d.StarterCode,
		Solution:     d.Solution,
		TestCases:    make([]evaluator.TestCase, len(d.TestCases)),
		Source:       source,
	}
	for i, tc := range d.TestCases {
		p.TestCases[i] = evaluator.TestCase{
			Input:          value.Normalize(tc.Input),
			ExpectedOutput: value.Normalize(tc.ExpectedOutput),
			Description:    tc.Description,
		}
	}
	return p
}

// Load reads every file under dir that matches pattern (doublestar syntax,
// relative to dir). Errors from all files are joined.
func Load(ctx context.Context, dir, pattern string) (*Catalog, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid catalog pattern %q", pattern)
	}

	files, err := matchFiles(ctx, dir, pattern)
	if err != nil {
		return nil, err
	}

	var (
		problems []*Problem
		errs     []error
	)
	for _, path := range files {
		loaded, err := LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		problems = append(problems, loaded...)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return New(problems...)
}

// matchFiles walks dir and returns matching files in lexical order.
func matchFiles(ctx context.Context, dir, pattern string) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, dir, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); ok {
			mu.Lock()
			files = append(files, p)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk catalog %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// LoadFile decodes the problems in one file, chosen by extension.
func LoadFile(path string) ([]*Problem, error) {
	data, unmarshal, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var file fileDoc
	if err := unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	docs := file.Problems
	if len(docs) == 0 {
		var single problemDoc
		if err := unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		docs = []problemDoc{single}
	}

	problems := make([]*Problem, 0, len(docs))
	for _, doc := range docs {
		p := doc.problem(path)
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		problems = append(problems, p)
	}
	return problems, nil
}

// LoadTests decodes a standalone test file: either a bare list of cases or
// a document with a testCases key (the only form TOML allows).
func LoadTests(path string) ([]evaluator.TestCase, error) {
	data, unmarshal, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		TestCases *[]caseDoc `json:"testCases" yaml:"testCases" toml:"testCases"`
	}
	var cases []caseDoc
	if err := unmarshal(data, &doc); err == nil && doc.TestCases != nil {
		cases = *doc.TestCases
	} else if err := unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("%s: no test cases", path)
	}
	return problemDoc{TestCases: cases}.problem(path).TestCases, nil
}

func readFile(path string) ([]byte, func([]byte, any) error, error) {
	var unmarshal func([]byte, any) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		unmarshal = func(b []byte, v any) error { return yaml.Unmarshal(b, v) }
	case ".toml":
		unmarshal = toml.Unmarshal
	case ".json":
		unmarshal = sonic.Unmarshal
	default:
		return nil, nil, fmt.Errorf("%s: unsupported file format", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, unmarshal, nil
}
