package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var cellPolicy = bluemonday.StrictPolicy()

// ParseHTMLTable extracts raw records from the first table of an HTML
// page. The header row supplies column names; cell markup is stripped
// before the text is kept. Pages published as listing tables map onto
// the same record shape the CSV source uses.
func ParseHTMLTable(r io.Reader) ([]RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ErrEmptyDataset
	}

	var header []string
	table.Find("tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		header = append(header, cellText(cell))
	})
	if len(header) == 0 {
		return nil, ErrEmptyDataset
	}

	var records []RawRecord
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}
		rec := make(RawRecord, len(header))
		for _, name := range header {
			if name != "" {
				rec[name] = ""
			}
		}
		row.Find("td").Each(func(j int, cell *goquery.Selection) {
			if j >= len(header) || header[j] == "" {
				return
			}
			// Links keep their href rather than the anchor text.
			if header[j] == ColLink {
				if href, ok := cell.Find("a").First().Attr("href"); ok {
					rec[header[j]] = strings.TrimSpace(href)
					return
				}
			}
			rec[header[j]] = cellText(cell)
		})
		records = append(records, rec)
	})

	return records, nil
}

func cellText(sel *goquery.Selection) string {
	html, err := sel.Html()
	if err != nil {
		return cleanText(sel.Text())
	}
	return cleanText(stripEntities(cellPolicy.Sanitize(html)))
}

func stripEntities(s string) string {
	replacer := strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&#39;", "'", "&#34;", `"`, "&nbsp;", " ")
	return replacer.Replace(s)
}
