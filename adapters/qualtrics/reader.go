package qualtrics

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"surveyflow/domain/core"
	"surveyflow/domain/survey"

	"github.com/xuri/excelize/v2"
)

// metadataRows is the number of export-metadata rows between the header and
// the first respondent (question wording + Qualtrics import IDs).
const metadataRows = 2

// Reader loads one condition's Qualtrics export (CSV or XLSX) into coerced
// response records.
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	coercer  *Coercer
}

// NewReader creates a reader for the given export file.
func NewReader(filePath string) *Reader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" {
		fileType = "xlsx"
	}
	return &Reader{filePath: filePath, fileType: fileType, coercer: NewCoercer()}
}

// Read parses the export into response records. A missing or unparseable
// file is a load error for the whole condition: it propagates and aborts
// that condition's pipeline with no partial result.
func (r *Reader) Read() ([]survey.Response, error) {
	if _, err := os.Stat(r.filePath); err != nil {
		return nil, core.NewLoadError(r.filePath, err)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	case "xlsx":
		rows, err = r.readXLSX()
	default:
		err = fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, core.NewLoadError(r.filePath, err)
	}

	return r.processRows(rows)
}

func (r *Reader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	start := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[qualtrics] CSV file read in %.2fms (%d rows)", float64(time.Since(start).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

func (r *Reader) readXLSX() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	log.Printf("[qualtrics] XLSX sheet %s read (%d rows)", sheet, len(rows))
	return rows, nil
}

// processRows strips the header and metadata rows and coerces the rest.
func (r *Reader) processRows(rows [][]string) ([]survey.Response, error) {
	if len(rows) < 1+metadataRows {
		return nil, core.NewLoadError(r.filePath,
			fmt.Errorf("%w: export must have a header and %d metadata rows", core.ErrSourceMalformed, metadataRows))
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	if !contains(headers, survey.ColRecordedDate) {
		return nil, core.NewColumnError(survey.ColRecordedDate)
	}

	records := make([]survey.Response, 0, len(rows)-1-metadataRows)
	for _, row := range rows[1+metadataRows:] {
		records = append(records, r.coerceRow(headers, row))
	}

	log.Printf("[qualtrics] %s processed (%d columns, %d respondents)",
		filepath.Base(r.filePath), len(headers), len(records))
	return records, nil
}

func (r *Reader) coerceRow(headers []string, row []string) survey.Response {
	fields := make(map[string]survey.Value, len(headers))
	for i, header := range headers {
		if i >= len(row) {
			fields[header] = survey.NewMissingValue()
			continue
		}
		fields[header] = r.coercer.Coerce(strings.TrimSpace(row[i]))
	}

	rec := survey.Response{Fields: fields}
	if t, ok := fields[survey.ColRecordedDate].Time(); ok {
		rec.RecordedAt = core.NewTimestamp(t)
	}
	return rec
}

func contains(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
