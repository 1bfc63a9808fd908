package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/GriffinCanCode/codejudge/internal/evaluator"
)

var ErrNotFound = errors.New("problem not found")

// Problem is one exercise.
type Problem struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Category     string               `json:"category,omitempty"`
	Difficulty   string               `json:"difficulty,omitempty"`
	Description  string               `json:"description,omitempty"`
	FunctionName string               `json:"functionName,omitempty"`
	StarterCode  string               `json:"starterCode,omitempty"`
	Solution     string               `json:"solution,omitempty"`
	TestCases    []evaluator.TestCase `json:"testCases"`
	Source       string               `json:"-"` // File the problem was loaded from
}

// Summary is the listing view of a problem.
type Summary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Category     string `json:"category,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
	FunctionName string `json:"functionName,omitempty"`
	TestCount    int    `json:"testCount"`
}

// Summary returns the listing view.
func (p *Problem) Summary() Summary {
	return Summary{
		ID:           p.ID,
		Title:        p.Title,
		Category:     p.Category,
		Difficulty:   p.Difficulty,
		FunctionName: p.FunctionName,
		TestCount:    len(p.TestCases),
	}
}

func (p *Problem) validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("problem without id")
	}
	if len(p.TestCases) == 0 {
		return fmt.Errorf("problem %q has no test cases", p.ID)
	}
	return nil
}

// Catalog is an immutable, ordered set of problems.
type Catalog struct {
	problems map[string]*Problem
	order    []string
}

// New builds a catalog. Problems are ordered by category, then id.
func New(problems ...*Problem) (*Catalog, error) {
	c := &Catalog{problems: make(map[string]*Problem, len(problems))}
	for _, p := range problems {
		if err := p.validate(); err != nil {
			return nil, err
		}
		if prev, exists := c.problems[p.ID]; exists {
			return nil, fmt.Errorf("duplicate problem id %q (%s and %s)", p.ID, prev.Source, p.Source)
		}
		c.problems[p.ID] = p
		c.order = append(c.order, p.ID)
	}

	sort.SliceStable(c.order, func(i, j int) bool {
		a, b := c.problems[c.order[i]], c.problems[c.order[j]]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.ID < b.ID
	})
	return c, nil
}

// Len returns the number of problems.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Get returns a problem by id.
func (c *Catalog) Get(id string) (*Problem, error) {
	p, ok := c.problems[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// Problems returns every problem in catalog order.
func (c *Catalog) Problems() []*Problem {
	out := make([]*Problem, len(c.order))
	for i, id := range c.order {
		out[i] = c.problems[id]
	}
	return out
}

// List returns summaries, optionally restricted to one category.
func (c *Catalog) List(category string) []Summary {
	out := make([]Summary, 0, len(c.order))
	for _, p := range c.Problems() {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		out = append(out, p.Summary())
	}
	return out
}
