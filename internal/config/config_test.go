package config

import (
	"testing"
	"time"

	"surveyflow/domain/survey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, survey.LabelSilent, cfg.Silent.Label)
	assert.Equal(t, "Qualtrics_Survey_Soundless.csv", cfg.Silent.SourcePath)
	assert.Equal(t, float64(5), cfg.Silent.ManipulationTarget)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Silent.Cutoff.Time())

	assert.Equal(t, survey.LabelAuditory, cfg.Audio.Label)
	assert.Equal(t, "Qualtrics_Survey_Sound.csv", cfg.Audio.SourcePath)
	assert.Equal(t, float64(3), cfg.Audio.ManipulationTarget)

	assert.Equal(t, float64(5), cfg.Spec.AttentionTarget)
	assert.Equal(t, float64(90), cfg.Spec.MinDurationSeconds)
	assert.Equal(t, float64(5), cfg.Spec.FrequencyBound)
	assert.False(t, cfg.Spec.Extended)
	assert.Equal(t, survey.FlowItemColumns(), cfg.Spec.ItemColumns)
	assert.Equal(t, "flow_report.xlsx", cfg.ReportPath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SILENT_FILE", "pilot_silent.csv")
	t.Setenv("SILENT_CUTOFF", "2026-03-15")
	t.Setenv("AUDIO_MANIPULATION_TARGET", "4")
	t.Setenv("MIN_DURATION_SECONDS", "120")
	t.Setenv("REPORT_PATH", "out/report.xlsx")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pilot_silent.csv", cfg.Silent.SourcePath)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), cfg.Silent.Cutoff.Time())
	assert.Equal(t, float64(4), cfg.Audio.ManipulationTarget)
	assert.Equal(t, float64(120), cfg.Spec.MinDurationSeconds)
	assert.Equal(t, "out/report.xlsx", cfg.ReportPath)
}

func TestLoadExtendedFromEnv(t *testing.T) {
	t.Setenv("EXTENDED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Spec.Extended)
}

func TestLoadRejectsBadExtended(t *testing.T) {
	t.Setenv("EXTENDED", "maybe")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXTENDED")
}

func TestLoadRejectsBadCutoff(t *testing.T) {
	t.Setenv("AUDIO_CUTOFF", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUDIO_CUTOFF")
}

func TestLoadRejectsBadNumeric(t *testing.T) {
	t.Setenv("FREQUENCY_BOUND", "five")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FREQUENCY_BOUND")
}
