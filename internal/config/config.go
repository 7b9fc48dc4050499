// Package config assembles the run configuration from built-in study
// defaults and environment overrides. A .env file is honored when present
// but never required.
package config

import (
	"fmt"
	"os"
	"strconv"

	"surveyflow/domain/survey"

	"github.com/joho/godotenv"
)

// Defaults registered for the study. The manipulation-check encodings are
// the values observed in the pilot exports and have not been re-verified
// against the live survey definition, so they stay overridable per run.
const (
	defaultSilentFile   = "Qualtrics_Survey_Soundless.csv"
	defaultAudioFile    = "Qualtrics_Survey_Sound.csv"
	defaultSilentCutoff = "2026-01-01"
	defaultAudioCutoff  = "2026-02-01"

	defaultSilentTarget = 5 // "No, I didn't hear it"
	defaultAudioTarget  = 3 // "Yes, I heard it"

	defaultAttentionTarget = 5 // "Somewhat agree" on Q2_8
	defaultMinDuration     = 90
	defaultFrequencyBound  = 5

	defaultReportPath = "flow_report.xlsx"
)

// Config represents the complete run configuration.
type Config struct {
	Silent survey.Condition
	Audio  survey.Condition
	Spec   survey.CleaningSpec

	ReportPath string
}

// Load reads configuration from environment variables, layering them over
// the study defaults. Cutoff dates accept YYYY-MM-DD or RFC3339.
func Load() (*Config, error) {
	// Optional .env for local overrides; absence is not an error.
	_ = godotenv.Load()

	silentCutoff, err := survey.ParseCutoff(envOr("SILENT_CUTOFF", defaultSilentCutoff))
	if err != nil {
		return nil, fmt.Errorf("invalid SILENT_CUTOFF: %w", err)
	}
	audioCutoff, err := survey.ParseCutoff(envOr("AUDIO_CUTOFF", defaultAudioCutoff))
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIO_CUTOFF: %w", err)
	}

	silentTarget, err := envFloat("SILENT_MANIPULATION_TARGET", defaultSilentTarget)
	if err != nil {
		return nil, err
	}
	audioTarget, err := envFloat("AUDIO_MANIPULATION_TARGET", defaultAudioTarget)
	if err != nil {
		return nil, err
	}
	attentionTarget, err := envFloat("ATTENTION_TARGET", defaultAttentionTarget)
	if err != nil {
		return nil, err
	}
	minDuration, err := envFloat("MIN_DURATION_SECONDS", defaultMinDuration)
	if err != nil {
		return nil, err
	}
	frequencyBound, err := envFloat("FREQUENCY_BOUND", defaultFrequencyBound)
	if err != nil {
		return nil, err
	}

	extended, err := envBool("EXTENDED", false)
	if err != nil {
		return nil, err
	}

	spec := survey.DefaultCleaningSpec()
	spec.AttentionTarget = attentionTarget
	spec.MinDurationSeconds = minDuration
	spec.FrequencyBound = frequencyBound
	spec.Extended = extended

	return &Config{
		Silent: survey.Condition{
			Label:              survey.LabelSilent,
			SourcePath:         envOr("SILENT_FILE", defaultSilentFile),
			Cutoff:             silentCutoff,
			ManipulationTarget: silentTarget,
		},
		Audio: survey.Condition{
			Label:              survey.LabelAuditory,
			SourcePath:         envOr("AUDIO_FILE", defaultAudioFile),
			Cutoff:             audioCutoff,
			ManipulationTarget: audioTarget,
		},
		Spec:       spec,
		ReportPath: envOr("REPORT_PATH", defaultReportPath),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
