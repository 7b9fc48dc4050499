package app

import (
	"fmt"
	"io"

	"surveyflow/domain/cleaning"
)

// stageTitles maps stage names to the wording of the cleaning report.
var stageTitles = map[string]string{
	cleaning.StageDate:         "Date Filter Removed",
	cleaning.StageFinished:     "Unfinished Removed",
	cleaning.StageDuration:     "Speedsters Removed",
	cleaning.StageAttention:    "Attention Check Failed",
	cleaning.StageManipulation: "Manipulation Check Failed",
	cleaning.StageFrequency:    "Frequency Bound Removed",
}

// WriteText prints the human-readable run report: per-condition cleaning
// accounting, combined summary statistics, test results, and moderator
// coefficient tables.
func (r *AnalysisReport) WriteText(w io.Writer) {
	fmt.Fprintf(w, "Run %s\n\n", r.RunID)

	writeCleaning(w, r.Silent)
	writeCleaning(w, r.Audio)

	if !r.Sufficient {
		fmt.Fprintf(w, "ERROR: not enough data left after filtering to run statistics (%s)\n", r.InsufficientReason)
		return
	}

	fmt.Fprintln(w, "--- FINAL RESULTS ---")
	fmt.Fprintf(w, "Silent Mean: %.2f (SD: %.2f), n=%d\n", r.Silent.Summary.Mean, r.Silent.Summary.StdDev, r.Silent.Summary.N)
	fmt.Fprintf(w, "Audio Mean:  %.2f (SD: %.2f), n=%d\n", r.Audio.Summary.Mean, r.Audio.Summary.StdDev, r.Audio.Summary.N)
	fmt.Fprintln(w, "------------------------------")
	fmt.Fprintf(w, "H1 (Intensity) U=%.1f, p=%.4f [%s]\n", r.H1.Statistic, r.H1.PValue, r.H1.Method)
	fmt.Fprintf(w, "H2 (Variance)  W=%.4f, p=%.4f\n", r.H2.Statistic, r.H2.PValue)

	for _, fit := range r.Moderators {
		fmt.Fprintf(w, "\nModerator model: %s (n=%d, R²=%.3f)\n", fit.Name, fit.N, fit.RSquared)
		fmt.Fprintf(w, "  %-28s %10s %10s %8s %8s\n", "term", "estimate", "std err", "t", "p")
		for _, c := range fit.Coefficients {
			fmt.Fprintf(w, "  %-28s %10.4f %10.4f %8.3f %8.4f\n", c.Name, c.Estimate, c.StdErr, c.TStat, c.PValue)
		}
	}
	for _, msg := range r.ModeratorErrors {
		fmt.Fprintf(w, "\nModerator model failed: %s\n", msg)
	}

	if r.RenderError != "" {
		fmt.Fprintf(w, "\nCharts not rendered: %s\n", r.RenderError)
	}
}

func writeCleaning(w io.Writer, c ConditionReport) {
	fmt.Fprintf(w, "--- %s Cleaning Report ---\n", c.Condition.Label)
	fmt.Fprintf(w, "Original N: %d\n", c.Cleaning.OriginalN)
	for _, o := range c.Cleaning.Outcomes {
		title := stageTitles[o.Name]
		if title == "" {
			title = o.Name
		}
		fmt.Fprintf(w, "%s: %d\n", title, o.Removed)
	}
	fmt.Fprintf(w, "FINAL VALID N: %d\n\n", c.Cleaning.FinalN())
}
