package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/irt"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/simulator"
)

func sampleResult() *simulator.Result {
	return &simulator.Result{
		RunID: uuid.MustParse("6f1c2a44-3b7e-4f5e-9a51-0c2d7b1e8a90"),
		Steps: []simulator.Step{
			{QuestionNumber: 1, ItemID: 17, A: 1.4, B: 0.1, C: 0.12, Correct: true, ThetaBefore: 0, ThetaAfter: 1.25, Estimate: irt.StatusConverged},
			{QuestionNumber: 2, ItemID: 3, A: 1.1, B: 1.3, C: 0.2, Correct: false, ThetaBefore: 1.25, ThetaAfter: 1.25, Estimate: irt.StatusFellBack},
		},
		Termination: simulator.Completed,
		Requested:   5,
		Effective:   2,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{" CSV ", FormatCSV, false},
		{"json", FormatJSON, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTable_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sampleResult(), Options{}))

	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "plain output must not carry escape codes")
	assert.Contains(t, out, "✓ right")
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "fell-back")
	assert.Contains(t, out, "2 administered (2 of 5 requested), 1 correct, final θ = 1.2500, completed")
	assert.Contains(t, out, "1 estimate(s) kept the previous theta")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// header, rule, two steps, rule, summary, hint
	assert.Len(t, lines, 7)
}

func TestTable_EmptyRunReportsInitialTheta(t *testing.T) {
	res := &simulator.Result{Termination: simulator.StoppedEarly, Requested: 3}
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, res, Options{InitialTheta: -0.5}))
	assert.Contains(t, buf.String(), "final θ = -0.5000, stopped-early")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"1", "17", "1.4", "0.1", "0.12", "true", "0", "1.25", "converged"}, records[1])
	assert.Equal(t, "false", records[2][5])
	assert.Equal(t, "fell-back", records[2][8])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult(), Options{}))

	var doc struct {
		RunID       string `json:"run_id"`
		Termination string `json:"termination"`
		Steps       []struct {
			ItemID   int    `json:"item_id"`
			Correct  bool   `json:"answered_correctly"`
			Estimate string `json:"estimate"`
		} `json:"steps"`
		Summary struct {
			Administered int     `json:"administered"`
			Correct      int     `json:"correct"`
			FellBack     int     `json:"fell_back"`
			FinalTheta   float64 `json:"final_theta"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "6f1c2a44-3b7e-4f5e-9a51-0c2d7b1e8a90", doc.RunID)
	assert.Equal(t, "completed", doc.Termination)
	require.Len(t, doc.Steps, 2)
	assert.Equal(t, 17, doc.Steps[0].ItemID)
	assert.True(t, doc.Steps[0].Correct)
	assert.Equal(t, "fell-back", doc.Steps[1].Estimate)
	assert.Equal(t, 2, doc.Summary.Administered)
	assert.Equal(t, 1, doc.Summary.Correct)
	assert.Equal(t, 1, doc.Summary.FellBack)
	assert.Equal(t, 1.25, doc.Summary.FinalTheta)
}

func TestWriteBatch(t *testing.T) {
	rows := []BatchRow{
		{Name: "seed-42", Result: sampleResult()},
		{Name: "seed-43", Result: &simulator.Result{Termination: simulator.StoppedEarly}},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteBatch(&buf, FormatTable, rows, Options{}))
		out := buf.String()
		assert.Contains(t, out, "seed-42")
		assert.Contains(t, out, "stopped-early")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteBatch(&buf, FormatCSV, rows, Options{}))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "run", records[0][0])
		assert.Equal(t, "seed-42", records[1][0])
		assert.Equal(t, "17", records[1][2])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteBatch(&buf, FormatJSON, rows, Options{}))
		var docs []struct {
			Name    string `json:"name"`
			Summary struct {
				Administered int `json:"administered"`
			} `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &docs))
		require.Len(t, docs, 2)
		assert.Equal(t, "seed-43", docs[1].Name)
		assert.Equal(t, 2, docs[0].Summary.Administered)
		assert.Equal(t, 0, docs[1].Summary.Administered)
	})
}
