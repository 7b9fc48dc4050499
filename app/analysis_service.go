package app

import (
	"context"
	"fmt"

	"surveyflow/adapters/stats"
	"surveyflow/domain/cleaning"
	"surveyflow/domain/core"
	"surveyflow/domain/scoring"
	"surveyflow/domain/survey"
	"surveyflow/internal"
	"surveyflow/ports"

	"golang.org/x/sync/errgroup"
)

// minSampleSize is the smallest per-condition N the hypothesis tests accept.
const minSampleSize = 2

// ConditionReport is one condition's cleaning outcome plus its scored
// survivors and descriptive statistics.
type ConditionReport struct {
	Condition survey.Condition        `json:"condition"`
	Cleaning  cleaning.Result         `json:"cleaning"`
	Scored    []survey.ScoredResponse `json:"-"`
	Summary   stats.Descriptives      `json:"summary"`
}

// AnalysisReport is the full outcome of one run.
type AnalysisReport struct {
	RunID     core.RunID     `json:"run_id"`
	StartedAt core.Timestamp `json:"started_at"`
	Extended  bool           `json:"extended"`

	Silent ConditionReport `json:"silent"`
	Audio  ConditionReport `json:"audio"`

	// Sufficient is false when either condition's final N is below the
	// test floor; the hypothesis tests are skipped, not failed.
	Sufficient         bool   `json:"sufficient"`
	InsufficientReason string `json:"insufficient_reason,omitempty"`

	H1 stats.TestResult `json:"h1"`
	H2 stats.TestResult `json:"h2"`

	Moderators      []stats.ModelFit `json:"moderators,omitempty"`
	ModeratorErrors []string         `json:"moderator_errors,omitempty"`

	RenderError string `json:"render_error,omitempty"`
}

// AnalysisService wires the per-condition cleaning pipelines to the
// combined test runner and the reporters.
type AnalysisService struct {
	openSource ports.SourceFactory
	renderer   ports.ChartRenderer
	log        *internal.Logger
}

// NewAnalysisService creates the service. renderer may be nil when no
// visual output is wanted.
func NewAnalysisService(openSource ports.SourceFactory, renderer ports.ChartRenderer, log *internal.Logger) *AnalysisService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &AnalysisService{openSource: openSource, renderer: renderer, log: log}
}

// Run executes the whole analysis: both condition pipelines, the combined
// hypothesis tests, the exploratory moderators (extended variant), and the
// chart render. Load errors abort the run; insufficient samples and
// moderator or render failures degrade it gracefully.
func (s *AnalysisService) Run(ctx context.Context, silent, audio survey.Condition, spec survey.CleaningSpec) (*AnalysisReport, error) {
	report := &AnalysisReport{
		RunID:     core.NewRunID(),
		StartedAt: core.Now(),
		Extended:  spec.Extended,
	}
	s.log.Info("run %s starting (extended=%v)", report.RunID, spec.Extended)

	// The two condition pipelines share nothing and run concurrently.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.runCondition(ctx, silent, spec)
		if err != nil {
			return err
		}
		report.Silent = r
		return nil
	})
	g.Go(func() error {
		r, err := s.runCondition(ctx, audio, spec)
		if err != nil {
			return err
		}
		report.Audio = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	silentScores := scoring.Scores(report.Silent.Scored)
	audioScores := scoring.Scores(report.Audio.Scored)
	report.Silent.Summary = stats.Describe(silentScores)
	report.Audio.Summary = stats.Describe(audioScores)

	if insufficient := s.checkSample(report, silentScores, audioScores); insufficient != "" {
		report.InsufficientReason = insufficient
		s.log.Warn("skipping statistics: %s", insufficient)
		return report, nil
	}
	report.Sufficient = true

	// H1: is the auditory condition's flow stochastically greater?
	h1, err := stats.MannWhitneyU(audioScores, silentScores, stats.AlternativeGreater)
	if err != nil {
		return nil, err
	}
	report.H1 = h1

	// H2: dispersion difference, Levene on within-group ranks.
	h2, err := stats.LeveneOnRanks(audioScores, silentScores)
	if err != nil {
		return nil, err
	}
	report.H2 = h2

	if spec.Extended {
		s.fitModerators(report)
	}

	s.render(report)
	return report, nil
}

// runCondition loads, cleans, and scores one condition.
func (s *AnalysisService) runCondition(ctx context.Context, cond survey.Condition, spec survey.CleaningSpec) (ConditionReport, error) {
	if err := ctx.Err(); err != nil {
		return ConditionReport{}, err
	}

	rows, err := s.openSource(cond.SourcePath).Read()
	if err != nil {
		return ConditionReport{}, fmt.Errorf("condition %s: %w", cond.Label, err)
	}

	chain := cleaning.NewChain(cond.Label, cleaning.StagesFor(cond, spec), s.log)
	result := chain.Run(rows)

	return ConditionReport{
		Condition: cond,
		Cleaning:  result,
		Scored:    scoring.ScoreAll(result.Survivors, cond.Label, spec.ItemColumns),
	}, nil
}

func (s *AnalysisService) checkSample(report *AnalysisReport, silentScores, audioScores []float64) string {
	if len(silentScores) < minSampleSize {
		return core.NewInsufficientSampleError(string(survey.LabelSilent), len(silentScores), minSampleSize).Error()
	}
	if len(audioScores) < minSampleSize {
		return core.NewInsufficientSampleError(string(survey.LabelAuditory), len(audioScores), minSampleSize).Error()
	}
	return ""
}

// fitModerators runs the two exploratory regressions. Each failure is
// recorded for that model alone; H1/H2 results are already in place.
func (s *AnalysisService) fitModerators(report *AnalysisReport) {
	combined := append(append([]survey.ScoredResponse{}, report.Silent.Scored...), report.Audio.Scored...)

	if fit, err := s.fitCategorical(combined); err != nil {
		report.ModeratorErrors = append(report.ModeratorErrors, err.Error())
		s.log.Warn("moderator model failed: %v", err)
	} else {
		report.Moderators = append(report.Moderators, fit)
	}

	if fit, err := s.fitContinuous(combined); err != nil {
		report.ModeratorErrors = append(report.ModeratorErrors, err.Error())
		s.log.Warn("moderator model failed: %v", err)
	} else {
		report.Moderators = append(report.Moderators, fit)
	}
}

// fitCategorical models flow on condition x gender.
func (s *AnalysisService) fitCategorical(rows []survey.ScoredResponse) (stats.ModelFit, error) {
	var cond, score []float64
	var gender []string
	for _, r := range rows {
		f, ok := r.Score.Float()
		if !ok {
			continue
		}
		g := r.Response.Field(survey.ColGender)
		if g.IsMissing {
			continue
		}
		cond = append(cond, conditionCode(r.Condition))
		score = append(score, f)
		gender = append(gender, g.String())
	}
	return stats.ModeratorCategorical("flow ~ condition * gender", cond, gender, score)
}

// fitContinuous models flow on condition x shopping frequency.
func (s *AnalysisService) fitContinuous(rows []survey.ScoredResponse) (stats.ModelFit, error) {
	var cond, freq, score []float64
	for _, r := range rows {
		f, ok := r.Score.Float()
		if !ok {
			continue
		}
		q, ok := r.Response.Field(survey.ColFrequency).Float()
		if !ok {
			continue
		}
		cond = append(cond, conditionCode(r.Condition))
		freq = append(freq, q)
		score = append(score, f)
	}
	return stats.ModeratorContinuous("flow ~ condition * frequency", cond, freq, score)
}

// render draws the charts; a failure is noted on the report and logged
// but never fails the run.
func (s *AnalysisService) render(report *AnalysisReport) {
	if s.renderer == nil {
		return
	}

	if err := s.renderer.RenderComparison(report.Silent.Scored, report.Audio.Scored); err != nil {
		report.RenderError = err.Error()
		s.log.Warn("comparison chart failed: %v", err)
		return
	}
	if report.Extended {
		if err := s.renderer.RenderInteractions(report.Silent.Scored, report.Audio.Scored, report.Moderators); err != nil {
			report.RenderError = err.Error()
			s.log.Warn("interaction charts failed: %v", err)
		}
	}
}

// conditionCode is the 0/1 dummy used by the moderator models.
func conditionCode(label survey.Label) float64 {
	if label == survey.LabelAuditory {
		return 1
	}
	return 0
}
