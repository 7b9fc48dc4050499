package qualtrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"surveyflow/adapters/qualtrics"
	"surveyflow/domain/core"
	"surveyflow/domain/survey"
	"surveyflow/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExport(t *testing.T, specs []testkit.RowSpec) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	gen := testkit.NewGenerator(11)
	require.NoError(t, gen.WriteCSV(path, specs))
	return path
}

func TestReadSkipsMetadataRows(t *testing.T) {
	recorded := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)
	path := writeExport(t, []testkit.RowSpec{
		testkit.PassingRow(recorded, 5),
		testkit.PassingRow(recorded.Add(time.Hour), 5),
	})

	rows, err := qualtrics.NewReader(path).Read()
	require.NoError(t, err)

	// the question-text and ImportId rows must not become respondents
	require.Len(t, rows, 2)
	assert.Equal(t, recorded, rows[0].RecordedAt.Time())
	assert.True(t, rows[0].Field(survey.ColFinished).Equals(1))
	assert.True(t, rows[0].Field(survey.ColDuration).AtLeast(90))
}

func TestReadCoercesGarbageToMissing(t *testing.T) {
	recorded := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)
	spec := testkit.PassingRow(recorded, 5)
	spec.Raw = map[string]string{
		survey.ColDuration:  "not-a-number",
		survey.ColAttention: "",
	}

	rows, err := qualtrics.NewReader(writeExport(t, []testkit.RowSpec{spec})).Read()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.True(t, rows[0].Field(survey.ColDuration).IsMissing)
	assert.True(t, rows[0].Field(survey.ColAttention).IsMissing)
	assert.False(t, rows[0].Field(survey.ColDuration).AtLeast(0))
	assert.False(t, rows[0].Field(survey.ColAttention).Equals(5))
}

func TestReadMissingFileIsLoadError(t *testing.T) {
	_, err := qualtrics.NewReader(filepath.Join(t.TempDir(), "nope.csv")).Read()
	require.Error(t, err)
	assert.True(t, core.IsLoadError(err))
}

func TestReadTruncatedExportIsLoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.csv")
	require.NoError(t, os.WriteFile(path, []byte("RecordedDate,Finished\n"), 0o644))

	_, err := qualtrics.NewReader(path).Read()
	require.Error(t, err)
	assert.True(t, core.IsLoadError(err))
}

func TestReadMissingRecordedDateColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodate.csv")
	content := "Finished,Duration (in seconds)\nq,q\nid,id\n1,120\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := qualtrics.NewReader(path).Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrColumnMissing)
}

func TestCoercerPrecedence(t *testing.T) {
	c := qualtrics.NewCoercer()

	v := c.Coerce("4.5")
	f, ok := v.Float()
	require.True(t, ok)
	assert.InDelta(t, 4.5, f, 1e-9)

	v = c.Coerce("2026-01-10 09:30:00")
	ts, ok := v.Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC), ts)

	v = c.Coerce("somewhat agree")
	assert.Equal(t, survey.ValueTypeString, v.Type)

	assert.True(t, c.Coerce("").IsMissing)
	assert.True(t, c.CoerceNumeric("garbage").IsMissing)
}

func TestCoercerThousandsSeparator(t *testing.T) {
	c := qualtrics.NewCoercer()
	f, ok := c.Coerce("1,200").Float()
	require.True(t, ok)
	assert.InDelta(t, 1200, f, 1e-9)
}
