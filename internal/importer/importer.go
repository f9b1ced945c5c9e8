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

	"farsiflash/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ItemWriter stores catalog items
type ItemWriter interface {
	UpsertItem(ctx context.Context, item *domain.Item) error
}

// Result holds the result of an import operation
type Result struct {
	Processed int
	Upserted  int
	Skipped   int
	Errors    []string
}

// Column order of an import file
const (
	colPrompt = iota
	colTranslation
	colTransliteration
	colLevel
	colActive
)

// Import reads items from an .xlsx or .csv file and upserts them by (prompt, translation).
// Rows that fail validation are skipped and reported in Result.Errors.
func Import(ctx context.Context, path string, repo ItemWriter) (*Result, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readExcel(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return ImportRows(ctx, rows, repo)
}

// ImportRows upserts items from already parsed rows. A leading header row is skipped.
func ImportRows(ctx context.Context, rows [][]string, repo ItemWriter) (*Result, error) {
	result := &Result{Errors: make([]string, 0)}

	for i, row := range rows {
		rowNum := i + 1
		if i == 0 && isHeader(row) {
			continue
		}
		if isBlank(row) {
			continue
		}

		result.Processed++

		item, err := parseRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		if err := repo.UpsertItem(ctx, item); err != nil {
			// storage failures abort the import
			return result, fmt.Errorf("row %d: failed to save item: %w", rowNum, err)
		}
		result.Upserted++
	}

	return result, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func isHeader(row []string) bool {
	return strings.EqualFold(cell(row, colPrompt), "prompt")
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string) (*domain.Item, error) {
	item := &domain.Item{
		Prompt:          cell(row, colPrompt),
		Translation:     cell(row, colTranslation),
		Transliteration: cell(row, colTransliteration),
		Level:           domain.MinLevel,
		Active:          true,
	}

	if item.Prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}
	if item.Translation == "" {
		return nil, fmt.Errorf("translation cannot be empty")
	}

	if v := cell(row, colLevel); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil || !domain.ValidLevel(level) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLevel, v)
		}
		item.Level = level
	}

	if v := cell(row, colActive); v != "" {
		active, err := parseBool(v)
		if err != nil {
			return nil, err
		}
		item.Active = active
	}

	return item, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid active flag %q", v)
	}
	return b, nil
}
