// Package importer loads the azkar catalog from spreadsheet files (xlsx or
// csv) and upserts it through azkar.Writer.
//
// Expected columns, header row first:
//
//	A id (optional) | B text | C translation | D meaning | E category
//	F repetitions | G source | H benefits ("|"-separated) | I audio_url | J order
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
	"github.com/azkar-hub/azkar-hub/pkg/logger"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// seedNamespace derives stable IDs for rows without one, so re-importing
// the same sheet updates rows instead of duplicating them.
var seedNamespace = uuid.MustParse("5b0c7f1e-9d43-4c8a-a0f6-2e7d1b3c9a41")

const (
	colID = iota
	colText
	colTranslation
	colMeaning
	colCategory
	colRepetitions
	colSource
	colBenefits
	colAudioURL
	colOrder
)

// Config defines the import configuration.
type Config struct {
	// SheetName is the sheet to read; empty means the first sheet.
	SheetName string

	// StartRow is the first data row (1-based). Rows above it are headers.
	StartRow int

	// DryRun validates rows without writing them.
	DryRun bool
}

// DefaultConfig returns the default import configuration.
func DefaultConfig() Config {
	return Config{StartRow: 2}
}

// Result holds the outcome of an import.
type Result struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// Importer upserts catalog rows.
type Importer struct {
	writer azkar.Writer
	log    *logger.Logger
}

// New creates an Importer.
func New(writer azkar.Writer, log *logger.Logger) *Importer {
	if log == nil {
		log = logger.Nop()
	}
	return &Importer{writer: writer, log: log.With(logger.Component("importer"))}
}

// ImportFile reads path by extension (.csv, otherwise xlsx).
func (im *Importer) ImportFile(ctx context.Context, path string, cfg Config) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var rows [][]string
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		rows, err = ReadCSV(f)
	} else {
		rows, err = ReadExcel(f, cfg.SheetName)
	}
	if err != nil {
		return nil, err
	}

	return im.ImportRows(ctx, rows, cfg)
}

// ReadExcel returns every row of a sheet from an xlsx stream.
func ReadExcel(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// ReadCSV returns every record of a CSV stream.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

// ImportRows validates and upserts rows. Bad rows are reported in
// Result.Errors and skipped; a writer failure aborts the import.
func (im *Importer) ImportRows(ctx context.Context, rows [][]string, cfg Config) (*Result, error) {
	start := cfg.StartRow
	if start < 1 {
		start = 1
	}

	result := &Result{Errors: make([]string, 0)}

	for i, row := range rows {
		line := i + 1
		if line < start || isBlank(row) {
			continue
		}
		result.TotalProcessed++

		z, err := parseRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		if !cfg.DryRun {
			if err := im.writer.Upsert(ctx, z); err != nil {
				return result, fmt.Errorf("row %d: %w", line, err)
			}
		}
		result.Imported++
	}

	im.log.Info("catalog import finished",
		logger.Int("processed", result.TotalProcessed),
		logger.Int("imported", result.Imported),
		logger.Int("skipped", result.Skipped),
		logger.Bool("dry_run", cfg.DryRun),
	)
	return result, nil
}

func parseRow(row []string) (*azkar.Zikr, error) {
	category, err := azkar.ParseCategory(cell(row, colCategory))
	if err != nil {
		return nil, err
	}

	reps, err := strconv.Atoi(cell(row, colRepetitions))
	if err != nil {
		return nil, fmt.Errorf("repetitions: %w", shared.ErrInvalidRepeats)
	}

	order := 0
	if raw := cell(row, colOrder); raw != "" {
		if order, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("order %q is not a number", raw)
		}
	}

	text := cell(row, colText)

	var id shared.ZikrID
	if raw := cell(row, colID); raw != "" {
		if id, err = shared.NewZikrID(raw); err != nil {
			return nil, err
		}
	} else if text != "" {
		id = shared.ZikrID(uuid.NewSHA1(seedNamespace, []byte(string(category)+"\x00"+text)).String())
	}

	return azkar.NewZikr(azkar.NewZikrParams{
		ID:          id,
		Text:        text,
		Translation: cell(row, colTranslation),
		Meaning:     cell(row, colMeaning),
		Category:    category,
		Repetitions: reps,
		Source:      cell(row, colSource),
		Benefits:    splitBenefits(cell(row, colBenefits)),
		AudioURL:    cell(row, colAudioURL),
		Order:       order,
	})
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func splitBenefits(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "|")
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
