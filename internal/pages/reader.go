// Package pages reads the input list of public pages and checks its columns.
package pages

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cyderes/page-content-ingestion/internal/models"
)

// Input column names
const (
	ColumnName  = "Nombre"
	ColumnParty = "Partido"
	ColumnURL   = "Pagina_publica"
)

// RequiredColumns lists the columns every input file must carry.
var RequiredColumns = []string{ColumnName, ColumnParty, ColumnURL}

var (
	// ErrInputNotFound is returned when the input file does not exist.
	ErrInputNotFound = errors.New("input file not found")
	// ErrSchemaMismatch is matched by *SchemaError.
	ErrSchemaMismatch = errors.New("required columns missing")
)

// SchemaError reports the expected and found column sets of a rejected input.
type SchemaError struct {
	Expected []string
	Found    []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("CSV must contain columns %v; found %v", e.Expected, e.Found)
}

// Is makes errors.Is(err, ErrSchemaMismatch) hold for any *SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// missingTokens are the cell values treated as absent. They are matched
// exactly, like the default NA markers of common dataframe CSV readers.
var missingTokens = map[string]struct{}{
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissing reports whether a cell value should be treated as absent.
// "nan" additionally matches in any letter case.
func IsMissing(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "nan") {
		return true
	}
	_, ok := missingTokens[value]
	return ok
}

// Load reads the page list at path.
func Load(path string) ([]models.PageEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a page list from r. The first record is the header; extra
// columns are ignored and rows may be shorter than the header.
func Read(r io.Reader) ([]models.PageEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &SchemaError{Expected: sortedRequired(), Found: []string{}}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	found := make([]string, 0, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		col = strings.TrimSpace(col)
		found = append(found, col)
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}

	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &SchemaError{Expected: sortedRequired(), Found: found}
		}
	}

	var entries []models.PageEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		entries = append(entries, models.PageEntry{
			Name:          cell(record, index[ColumnName]),
			Party:         cell(record, index[ColumnParty]),
			PublicPageURL: cell(record, index[ColumnURL]),
		})
	}

	return entries, nil
}

func cell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return record[i]
}

func sortedRequired() []string {
	cols := append([]string(nil), RequiredColumns...)
	sort.Strings(cols)
	return cols
}
