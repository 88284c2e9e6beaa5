package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/scholargate/scholargate/internal/dataset"
)

// Parses and normalizes a scholarship dataset from a file or URL and
// prints the inferred fields, so classification changes can be eyeballed
// before a dataset goes live.
func main() {
	source := flag.String("source", "", "Dataset file path or URL")
	format := flag.String("format", "csv", "Source format: csv or html")
	limit := flag.Int("limit", 25, "Maximum rows to print (0 = all)")
	flag.Parse()

	if *source == "" {
		log.Fatal("Please provide a dataset path or URL using -source")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	catalog := dataset.NewCatalog()
	loader := dataset.NewLoader(catalog, dataset.NewHTTPFetcher(), []dataset.SourceConfig{
		{
			ID:     "inspect",
			Name:   "inspect",
			URL:    *source,
			Format: dataset.Format(*format),
			Active: true,
		},
	}, nil)

	if err := loader.Load(ctx); err != nil {
		log.Fatalf("Load failed: %v", err)
	}

	records := catalog.Records()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Title", "Org", "Level", "State", "Age", "Deadline"})

	levels := map[dataset.Level]int{}
	states := 0
	for i, r := range records {
		levels[r.Level]++
		if r.State != "" {
			states++
		}
		if *limit > 0 && i >= *limit {
			continue
		}
		t.AppendRow(table.Row{
			r.ID, truncate(r.Title, 40), r.Organization, r.Level, r.State,
			fmt.Sprintf("%d-%d", r.MinAge, r.MaxAge), r.Deadline,
		})
	}
	t.Render()

	fmt.Printf("\n%d records normalized\n", len(records))
	for level, count := range levels {
		fmt.Printf("  %-18s %d\n", level, count)
	}
	fmt.Printf("  %-18s %d\n", "with state", states)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
