package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Separator is the field separator used by every import file.
const Separator = ';'

// ErrNoHeader is returned for files without a header row.
var ErrNoHeader = errors.New("file has no header row")

// Read parses a semicolon-separated file into one map per data row, keyed by
// the header row's field names. Rows shorter than the header simply lack
// those keys; validation downstream rejects what it needs.
func Read(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = Separator
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoHeader)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, field := range header {
			if i < len(record) {
				row[strings.TrimSpace(field)] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
