package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"creator-dashboard/internal/domains/creator/model"
)

// ParseImportData turns raw import text into loosely-typed records.
// format is "json" (an array of objects) or "csv" (header row plus
// one record per line; quoted fields may contain the delimiter).
func ParseImportData(format, data string) ([]RawRecord, error) {
	switch format {
	case "json":
		return parseJSONRecords(data)
	case "csv":
		return parseCSVRecords(data)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", model.ErrInvalidImportData, format)
	}
}

func parseJSONRecords(data string) ([]RawRecord, error) {
	var records []RawRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		// A single object is accepted as a one-record import.
		var single RawRecord
		if err2 := json.Unmarshal([]byte(data), &single); err2 != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidImportData, err)
		}
		records = []RawRecord{single}
	}
	if len(records) == 0 {
		return nil, model.ErrEmptyImport
	}
	return records, nil
}

func parseCSVRecords(data string) ([]RawRecord, error) {
	reader := csv.NewReader(strings.NewReader(data))
	reader.TrimLeadingSpace = true
	// Rows may have trailing empty cells from spreadsheet exports.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidImportData, err)
	}
	if len(rows) < 2 {
		return nil, model.ErrEmptyImport
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	records := make([]RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(RawRecord, len(header))
		for i, key := range header {
			if key == "" || i >= len(row) {
				continue
			}
			record[key] = row[i]
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}

	if len(records) == 0 {
		return nil, model.ErrEmptyImport
	}
	return records, nil
}
