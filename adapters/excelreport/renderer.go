// Package excelreport renders the run's charts into an xlsx workbook.
// Chart output stands in for an interactive plotting surface: the numeric
// report never depends on it, and any failure here is non-fatal.
package excelreport

import (
	"fmt"
	"sort"

	"surveyflow/adapters/stats"
	"surveyflow/domain/core"
	"surveyflow/domain/scoring"
	"surveyflow/domain/survey"

	"github.com/xuri/excelize/v2"
)

const (
	scoreSheet        = "Scores"
	distributionSheet = "Distribution"
	interactionSheet  = "Interactions"
)

// Renderer writes one workbook per run.
type Renderer struct {
	path string
	f    *excelize.File
}

// NewRenderer creates a renderer that saves to path on Close.
func NewRenderer(path string) *Renderer {
	return &Renderer{path: path, f: excelize.NewFile()}
}

// RenderComparison writes both conditions' scores and a binned score
// distribution with a grouped column chart comparing the conditions.
func (r *Renderer) RenderComparison(silent, audio []survey.ScoredResponse) error {
	silentScores := scoring.Scores(silent)
	audioScores := scoring.Scores(audio)

	if err := r.writeScores(silentScores, audioScores); err != nil {
		return fmt.Errorf("%w: %v", core.ErrRenderFailed, err)
	}
	if err := r.writeDistribution(silentScores, audioScores); err != nil {
		return fmt.Errorf("%w: %v", core.ErrRenderFailed, err)
	}
	if err := r.f.SaveAs(r.path); err != nil {
		return fmt.Errorf("%w: save %s: %v", core.ErrRenderFailed, r.path, err)
	}
	return nil
}

// RenderInteractions appends the moderator interaction charts: cell means
// of flow by condition within gender levels and within frequency bands.
func (r *Renderer) RenderInteractions(silent, audio []survey.ScoredResponse, fits []stats.ModelFit) error {
	if _, err := r.f.NewSheet(interactionSheet); err != nil {
		return fmt.Errorf("%w: %v", core.ErrRenderFailed, err)
	}

	row, err := r.writeCellMeans(1, "Flow by condition x gender", survey.ColGender, silent, audio)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrRenderFailed, err)
	}
	if _, err = r.writeCellMeans(row+2, "Flow by condition x frequency", survey.ColFrequency, silent, audio); err != nil {
		return fmt.Errorf("%w: %v", core.ErrRenderFailed, err)
	}

	if err := r.f.SaveAs(r.path); err != nil {
		return fmt.Errorf("%w: save %s: %v", core.ErrRenderFailed, r.path, err)
	}
	return nil
}

// Close releases the workbook handle.
func (r *Renderer) Close() error {
	return r.f.Close()
}

func (r *Renderer) writeScores(silent, audio []float64) error {
	if _, err := r.f.NewSheet(scoreSheet); err != nil {
		return err
	}
	if err := r.f.SetCellValue(scoreSheet, "A1", string(survey.LabelSilent)); err != nil {
		return err
	}
	if err := r.f.SetCellValue(scoreSheet, "B1", string(survey.LabelAuditory)); err != nil {
		return err
	}
	for i, v := range silent {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := r.f.SetCellValue(scoreSheet, cell, v); err != nil {
			return err
		}
	}
	for i, v := range audio {
		cell, _ := excelize.CoordinatesToCellName(2, i+2)
		if err := r.f.SetCellValue(scoreSheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// scoreBins spans the 1..7 Likert range in half-point steps.
func scoreBins() []float64 {
	bins := make([]float64, 0, 13)
	for v := 1.0; v <= 7.0; v += 0.5 {
		bins = append(bins, v)
	}
	return bins
}

func (r *Renderer) writeDistribution(silent, audio []float64) error {
	if _, err := r.f.NewSheet(distributionSheet); err != nil {
		return err
	}

	bins := scoreBins()
	headers := []interface{}{"bin", string(survey.LabelSilent), string(survey.LabelAuditory)}
	if err := r.f.SetSheetRow(distributionSheet, "A1", &headers); err != nil {
		return err
	}
	for i, lo := range bins {
		hi := lo + 0.5
		row := []interface{}{lo, countInBin(silent, lo, hi), countInBin(audio, lo, hi)}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := r.f.SetSheetRow(distributionSheet, cell, &row); err != nil {
			return err
		}
	}

	last := len(bins) + 1
	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", distributionSheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", distributionSheet, last),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", distributionSheet, last),
			},
			{
				Name:       fmt.Sprintf("%s!$C$1", distributionSheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", distributionSheet, last),
				Values:     fmt.Sprintf("%s!$C$2:$C$%d", distributionSheet, last),
			},
		},
		Title: []excelize.RichTextRun{{Text: "Flow score distribution by condition"}},
		Legend: excelize.ChartLegend{
			Position: "bottom",
		},
	}
	return r.f.AddChart(distributionSheet, "E2", chart)
}

// writeCellMeans lays out a small condition-by-level mean table and a line
// chart with one line per condition. Returns the next free row.
func (r *Renderer) writeCellMeans(startRow int, title, column string, silent, audio []survey.ScoredResponse) (int, error) {
	levels := collectLevels(column, silent, audio)
	if len(levels) == 0 {
		return startRow, fmt.Errorf("no %s levels present", column)
	}

	cell, _ := excelize.CoordinatesToCellName(1, startRow)
	if err := r.f.SetCellValue(interactionSheet, cell, title); err != nil {
		return startRow, err
	}

	header := []interface{}{"level", string(survey.LabelSilent), string(survey.LabelAuditory)}
	cell, _ = excelize.CoordinatesToCellName(1, startRow+1)
	if err := r.f.SetSheetRow(interactionSheet, cell, &header); err != nil {
		return startRow, err
	}
	for i, level := range levels {
		row := []interface{}{level, meanForLevel(silent, column, level), meanForLevel(audio, column, level)}
		cell, _ = excelize.CoordinatesToCellName(1, startRow+2+i)
		if err := r.f.SetSheetRow(interactionSheet, cell, &row); err != nil {
			return startRow, err
		}
	}

	first := startRow + 2
	last := startRow + 1 + len(levels)
	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$%d", interactionSheet, startRow+1),
				Categories: fmt.Sprintf("%s!$A$%d:$A$%d", interactionSheet, first, last),
				Values:     fmt.Sprintf("%s!$B$%d:$B$%d", interactionSheet, first, last),
			},
			{
				Name:       fmt.Sprintf("%s!$C$%d", interactionSheet, startRow+1),
				Categories: fmt.Sprintf("%s!$A$%d:$A$%d", interactionSheet, first, last),
				Values:     fmt.Sprintf("%s!$C$%d:$C$%d", interactionSheet, first, last),
			},
		},
		Title: []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{
			Position: "bottom",
		},
	}
	anchor, _ := excelize.CoordinatesToCellName(5, startRow)
	if err := r.f.AddChart(interactionSheet, anchor, chart); err != nil {
		return startRow, err
	}

	next := last + 14 // leave room below the chart
	return next, nil
}

func countInBin(data []float64, lo, hi float64) int {
	n := 0
	for _, v := range data {
		if v >= lo && v < hi {
			n++
		}
	}
	return n
}

func collectLevels(column string, groups ...[]survey.ScoredResponse) []string {
	seen := make(map[string]bool)
	var levels []string
	for _, g := range groups {
		for _, r := range g {
			v := r.Response.Field(column)
			if v.IsMissing {
				continue
			}
			s := v.String()
			if !seen[s] {
				seen[s] = true
				levels = append(levels, s)
			}
		}
	}
	sort.Strings(levels)
	return levels
}

func meanForLevel(rows []survey.ScoredResponse, column, level string) float64 {
	sum, n := 0.0, 0
	for _, r := range rows {
		v := r.Response.Field(column)
		if v.IsMissing || v.String() != level {
			continue
		}
		if f, ok := r.Score.Float(); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
