package dataset

import (
	"errors"
	"strings"
	"testing"
)

func TestParseHTMLTable(t *testing.T) {
	input := `<html><body>
	<table>
	  <tr><th>Scholarship Name</th><th>Eligibility</th><th>Deadline</th><th>Link</th></tr>
	  <tr>
	    <td><b>Merit</b> Scholarship</td>
	    <td>Class 12 students &amp; graduates</td>
	    <td>N/A</td>
	    <td><a href="https://example.org/apply">Apply here</a></td>
	  </tr>
	  <tr>
	    <td>Open Grant</td>
	    <td>Anyone</td>
	    <td>2026-05-01</td>
	    <td></td>
	  </tr>
	</table>
	</body></html>`

	records, err := ParseHTMLTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0][ColName] != "Merit Scholarship" {
		t.Errorf("expected markup stripped, got %q", records[0][ColName])
	}
	if records[0][ColEligibility] != "Class 12 students & graduates" {
		t.Errorf("expected entities decoded, got %q", records[0][ColEligibility])
	}
	if records[0][ColLink] != "https://example.org/apply" {
		t.Errorf("expected href captured, got %q", records[0][ColLink])
	}
	if records[1][ColLink] != "" {
		t.Errorf("expected empty link cell, got %q", records[1][ColLink])
	}
}

func TestParseHTMLTableNoTable(t *testing.T) {
	_, err := ParseHTMLTable(strings.NewReader("<html><body><p>nothing here</p></body></html>"))
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset, got %v", err)
	}
}
