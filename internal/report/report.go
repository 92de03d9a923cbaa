// Package report renders simulation results as terminal tables, CSV and
// JSON for downstream tooling.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/irt"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/simulator"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/ui/theme"
)

// Format is an output format accepted by Write.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be table, csv or json", s)
	}
}

// Options controls rendering.
type Options struct {
	// Styled enables terminal colours in table output.
	Styled bool
	// InitialTheta is reported as the final theta when no step was taken.
	InitialTheta float64
}

// Write renders res in the given format.
func Write(w io.Writer, f Format, res *simulator.Result, opts Options) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, res)
	case FormatJSON:
		return WriteJSON(w, res, opts)
	default:
		return Table(w, res, opts)
	}
}

// CSVHeader is the column order of WriteCSV.
var CSVHeader = []string{
	"question_number", "item_id", "a", "b", "c",
	"answered_correctly", "theta_before", "theta_after", "estimate",
}

// WriteCSV writes one row per step.
func WriteCSV(w io.Writer, res *simulator.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, st := range res.Steps {
		if err := cw.Write(stepRecord(st)); err != nil {
			return fmt.Errorf("write csv row %d: %w", st.QuestionNumber, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func stepRecord(st simulator.Step) []string {
	return []string{
		strconv.Itoa(st.QuestionNumber),
		strconv.Itoa(st.ItemID),
		formatFloat(st.A),
		formatFloat(st.B),
		formatFloat(st.C),
		strconv.FormatBool(st.Correct),
		formatFloat(st.ThetaBefore),
		formatFloat(st.ThetaAfter),
		st.Estimate.String(),
	}
}

// jsonReport is the document WriteJSON emits.
type jsonReport struct {
	*simulator.Result
	Summary simulator.Summary `json:"summary"`
}

// WriteJSON writes the result and its summary as indented JSON.
func WriteJSON(w io.Writer, res *simulator.Result, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonReport{Result: res, Summary: res.Summary(opts.InitialTheta)}); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}

// Table writes a fixed-width trajectory table followed by a summary line.
func Table(w io.Writer, res *simulator.Result, opts Options) error {
	style := func(s lipgloss.Style, text string) string {
		if !opts.Styled {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	header := fmt.Sprintf("%4s  %6s  %6s  %7s  %6s  %-7s  %8s  %8s  %s",
		"Q", "Item", "a", "b", "c", "Answer", "θ before", "θ after", "Estimate")
	b.WriteString(style(theme.Header, header))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 78))
	b.WriteString("\n")

	for _, st := range res.Steps {
		answer := style(theme.Correct, fmt.Sprintf("%-7s", "✓ right"))
		if !st.Correct {
			answer = style(theme.Incorrect, fmt.Sprintf("%-7s", "✗ wrong"))
		}
		estimate := st.Estimate.String()
		if st.Estimate == irt.StatusFellBack {
			estimate = style(theme.Degraded, estimate)
		}
		fmt.Fprintf(&b, "%4d  %6d  %6.3f  %7.3f  %6.3f  %s  %8.4f  %8.4f  %s\n",
			st.QuestionNumber, st.ItemID, st.A, st.B, st.C,
			answer, st.ThetaBefore, st.ThetaAfter, estimate)
	}

	s := res.Summary(opts.InitialTheta)
	b.WriteString(strings.Repeat("─", 78))
	b.WriteString("\n")
	summary := fmt.Sprintf("%d administered (%d of %d requested), %d correct, final θ = %.4f, %s",
		s.Administered, res.Effective, res.Requested, s.Correct, s.FinalTheta, s.Termination)
	b.WriteString(style(theme.Title, summary))
	b.WriteString("\n")
	if s.FellBack > 0 {
		b.WriteString(style(theme.Hint, fmt.Sprintf("%d estimate(s) kept the previous theta after a failed optimisation", s.FellBack)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// BatchRow labels one result in a batch summary.
type BatchRow struct {
	Name   string
	Result *simulator.Result
}

// BatchTable writes one summary line per run.
func BatchTable(w io.Writer, rows []BatchRow, opts Options) error {
	var b strings.Builder
	header := fmt.Sprintf("%-20s  %5s  %7s  %9s  %10s  %s", "Run", "Items", "Correct", "Fell back", "Final θ", "Termination")
	if opts.Styled {
		header = theme.Header.Render(header)
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 72))
	b.WriteString("\n")

	for _, row := range rows {
		s := row.Result.Summary(opts.InitialTheta)
		name := row.Name
		if len(name) > 20 {
			name = name[:20]
		}
		fmt.Fprintf(&b, "%-20s  %5d  %7d  %9d  %10.4f  %s\n",
			name, s.Administered, s.Correct, s.FellBack, s.FinalTheta, s.Termination)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteBatch renders several runs: a summary table, or every step with a
// leading run column for CSV, or a JSON array of reports.
func WriteBatch(w io.Writer, f Format, rows []BatchRow, opts Options) error {
	switch f {
	case FormatCSV:
		return writeBatchCSV(w, rows)
	case FormatJSON:
		return writeBatchJSON(w, rows, opts)
	default:
		return BatchTable(w, rows, opts)
	}
}

func writeBatchCSV(w io.Writer, rows []BatchRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"run"}, CSVHeader...)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		for _, st := range row.Result.Steps {
			if err := cw.Write(append([]string{row.Name}, stepRecord(st)...)); err != nil {
				return fmt.Errorf("write csv row %s/%d: %w", row.Name, st.QuestionNumber, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

type namedReport struct {
	Name string `json:"name"`
	jsonReport
}

func writeBatchJSON(w io.Writer, rows []BatchRow, opts Options) error {
	docs := make([]namedReport, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, namedReport{
			Name:       row.Name,
			jsonReport: jsonReport{Result: row.Result, Summary: row.Result.Summary(opts.InitialTheta)},
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("encode json batch: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
