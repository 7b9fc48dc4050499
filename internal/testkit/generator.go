// Package testkit builds deterministic synthetic survey exports for tests.
package testkit

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"surveyflow/domain/core"
	"surveyflow/domain/survey"
)

// RowSpec describes one synthetic respondent in export terms. Zero values
// produce a row that passes every default filter; individual fields are
// overridden to construct targeted failures.
type RowSpec struct {
	RecordedAt   time.Time
	Finished     float64
	Duration     float64
	Attention    float64
	Manipulation float64
	Items        []float64 // flow item values, padded with the last value
	Gender       float64
	Age          float64
	Frequency    float64

	// Raw garbage overrides for coercion tests, keyed by column code.
	Raw map[string]string
}

// PassingRow returns a respondent that survives the default chain for the
// given manipulation target.
func PassingRow(recordedAt time.Time, manipulationTarget float64) RowSpec {
	return RowSpec{
		RecordedAt:   recordedAt,
		Finished:     1,
		Duration:     120,
		Attention:    5,
		Manipulation: manipulationTarget,
		Items:        []float64{4},
		Gender:       1,
		Age:          25,
		Frequency:    3,
	}
}

// Generator assembles response records or CSV exports from row specs.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator with a deterministic seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Response materializes a row spec as a coerced response record, the shape
// the filter chain consumes.
func (g *Generator) Response(spec RowSpec) survey.Response {
	fields := map[string]survey.Value{
		survey.ColFinished:     survey.NewNumericValue(spec.Finished),
		survey.ColDuration:     survey.NewNumericValue(spec.Duration),
		survey.ColAttention:    survey.NewNumericValue(spec.Attention),
		survey.ColManipulation: survey.NewNumericValue(spec.Manipulation),
		survey.ColGender:       survey.NewNumericValue(spec.Gender),
		survey.ColAge:          survey.NewNumericValue(spec.Age),
		survey.ColFrequency:    survey.NewNumericValue(spec.Frequency),
	}
	for i, col := range survey.FlowItemColumns() {
		fields[col] = survey.NewNumericValue(itemValue(spec.Items, i))
	}
	if !spec.RecordedAt.IsZero() {
		fields[survey.ColRecordedDate] = survey.NewTimestampValue(spec.RecordedAt)
	}

	return survey.Response{
		RecordedAt: core.NewTimestamp(spec.RecordedAt),
		Fields:     fields,
	}
}

// Responses materializes a batch of specs.
func (g *Generator) Responses(specs []RowSpec) []survey.Response {
	out := make([]survey.Response, len(specs))
	for i, s := range specs {
		out[i] = g.Response(s)
	}
	return out
}

// WriteCSV writes a Qualtrics-shaped export: header row, two metadata
// rows, then one row per spec. Raw overrides replace the formatted cell.
func (g *Generator) WriteCSV(path string, specs []RowSpec) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	headers := exportColumns()
	if err := w.Write(headers); err != nil {
		return err
	}
	// The two export-metadata rows a loader must skip.
	meta1 := make([]string, len(headers))
	meta2 := make([]string, len(headers))
	for i, h := range headers {
		meta1[i] = "Question text for " + h
		meta2[i] = fmt.Sprintf("{\"ImportId\":%q}", h)
	}
	if err := w.Write(meta1); err != nil {
		return err
	}
	if err := w.Write(meta2); err != nil {
		return err
	}

	for _, spec := range specs {
		if err := w.Write(g.exportRow(headers, spec)); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) exportRow(headers []string, spec RowSpec) []string {
	cells := make([]string, len(headers))
	for i, col := range headers {
		if raw, ok := spec.Raw[col]; ok {
			cells[i] = raw
			continue
		}
		cells[i] = g.formatCell(col, spec)
	}
	return cells
}

func (g *Generator) formatCell(col string, spec RowSpec) string {
	switch col {
	case survey.ColRecordedDate:
		if spec.RecordedAt.IsZero() {
			return ""
		}
		return spec.RecordedAt.Format("2006-01-02 15:04:05")
	case survey.ColFinished:
		return formatFloat(spec.Finished)
	case survey.ColDuration:
		return formatFloat(spec.Duration)
	case survey.ColAttention:
		return formatFloat(spec.Attention)
	case survey.ColManipulation:
		return formatFloat(spec.Manipulation)
	case survey.ColGender:
		return formatFloat(spec.Gender)
	case survey.ColAge:
		return formatFloat(spec.Age)
	case survey.ColFrequency:
		return formatFloat(spec.Frequency)
	}
	for i, item := range survey.FlowItemColumns() {
		if col == item {
			return formatFloat(itemValue(spec.Items, i))
		}
	}
	return ""
}

func exportColumns() []string {
	cols := []string{survey.ColRecordedDate, survey.ColFinished, survey.ColDuration}
	cols = append(cols, "Q2_1", "Q2_2", "Q2_3", "Q2_4", "Q2_5", "Q2_6", "Q2_7", survey.ColAttention, "Q2_9", "Q2_10")
	cols = append(cols, survey.ColManipulation, survey.ColGender, survey.ColAge, survey.ColFrequency)
	return cols
}

func itemValue(items []float64, i int) float64 {
	if len(items) == 0 {
		return 4
	}
	if i < len(items) {
		return items[i]
	}
	return items[len(items)-1]
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
