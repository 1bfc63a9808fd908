package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/GriffinCanCode/codejudge/internal/catalog"
	"github.com/GriffinCanCode/codejudge/internal/evaluator"
	"github.com/GriffinCanCode/codejudge/internal/value"
)

const maxCell = 40

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	return table
}

func cell(v any) string {
	s := value.Inspect(v)
	if r := []rune(s); len(r) > maxCell {
		return string(r[:maxCell-3]) + "..."
	}
	return s
}

func status(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

func renderReport(w io.Writer, report *evaluator.Report) error {
	if len(report.Results) > 0 {
		table := newTable(w, "#", "Description", "Input", "Expected", "Actual", "Result")
		for i, res := range report.Results {
			actual := cell(res.ActualOutput)
			if res.Error != "" {
				actual = res.Error
			}
			table.Append([]string{
				strconv.Itoa(i + 1),
				res.Description,
				cell(res.Input),
				cell(res.ExpectedOutput),
				actual,
				status(res.Passed),
			})
		}
		table.SetFooter([]string{"", "", "", "", fmt.Sprintf("%d/%d passed", report.Passed(), len(report.Results)), status(report.AllPassed)})
		table.Render()
	}

	if report.Function != "" {
		if _, err := fmt.Fprintf(w, "\nfunction: %s (%.1f ms)\n", report.Function, report.DurationMs); err != nil {
			return err
		}
	}
	if report.Error != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", report.Error); err != nil {
			return err
		}
	}
	return nil
}

func renderVerifications(w io.Writer, rows []verification) error {
	table := newTable(w, "Problem", "Tests", "Failed", "Result")
	passed := 0
	for _, row := range rows {
		table.Append([]string{row.ID, strconv.Itoa(row.Tests), strconv.Itoa(row.Failed), status(row.Passed)})
		if row.Passed {
			passed++
		}
	}
	table.SetFooter([]string{fmt.Sprintf("%d problems", len(rows)), "", "", fmt.Sprintf("%d passed", passed)})
	table.Render()

	for _, row := range rows {
		if row.Error != "" && !row.Passed {
			if _, err := fmt.Fprintf(w, "\n%s:\n%s\n", row.ID, row.Error); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderProblems(w io.Writer, summaries []catalog.Summary) error {
	table := newTable(w, "ID", "Title", "Category", "Difficulty", "Function", "Tests")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
	})
	for _, s := range summaries {
		table.Append([]string{s.ID, s.Title, s.Category, s.Difficulty, s.FunctionName, strconv.Itoa(s.TestCount)})
	}
	table.SetFooter([]string{fmt.Sprintf("%d problems", len(summaries)), "", "", "", "", ""})
	table.Render()
	return nil
}
