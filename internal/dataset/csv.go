package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrEmptyDataset is returned when the source has no header row.
var ErrEmptyDataset = errors.New("dataset has no header row")

// ParseCSV reads the tabular dataset into raw records. Rows are faulted
// in isolation: a short or unparseable row degrades to empty cells
// instead of aborting the batch, and source order is preserved so that
// normalization produces stable ids.
func ParseCSV(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = cleanText(header[i])
	}

	var records []RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// Bad row, keep the rest of the batch.
				continue
			}
			return records, fmt.Errorf("failed to read row: %w", err)
		}

		rec := make(RawRecord, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}

	return records, nil
}
