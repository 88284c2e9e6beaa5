package dataset

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// stubFetcher serves canned documents keyed by URL.
type stubFetcher struct {
	docs map[string]string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (io.ReadCloser, error) {
	doc, ok := f.docs[url]
	if !ok {
		return nil, errors.New("fetch failed")
	}
	return io.NopCloser(strings.NewReader(doc)), nil
}

const testCSV = "Scholarship Name,Eligibility,Deadline,Link\n" +
	"Merit Scholarship,Class 12 students from Kerala,N/A,\n"

func TestLoaderLoad(t *testing.T) {
	catalog := NewCatalog()
	loader := NewLoader(catalog, &stubFetcher{docs: map[string]string{"src": testCSV}}, []SourceConfig{
		{ID: "test", URL: "src", Format: FormatCSV, Active: true},
	}, nil)

	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !catalog.Ready() {
		t.Fatal("catalog not ready after load")
	}
	records := catalog.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID != "sch-1" || records[0].State != "kerala" {
		t.Errorf("unexpected record %+v", records[0])
	}
	if catalog.RawText() != testCSV {
		t.Errorf("expected raw text preserved, got %q", catalog.RawText())
	}
}

func TestLoaderPartialFailure(t *testing.T) {
	catalog := NewCatalog()
	loader := NewLoader(catalog, &stubFetcher{docs: map[string]string{"good": testCSV}}, []SourceConfig{
		{ID: "bad", URL: "missing", Format: FormatCSV, Active: true},
		{ID: "good", URL: "good", Format: FormatCSV, Active: true},
	}, nil)

	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("one healthy source should be enough: %v", err)
	}
	if catalog.Len() != 1 {
		t.Errorf("expected 1 record, got %d", catalog.Len())
	}
}

func TestLoaderAllSourcesFail(t *testing.T) {
	catalog := NewCatalog()
	loader := NewLoader(catalog, &stubFetcher{}, []SourceConfig{
		{ID: "bad", URL: "missing", Format: FormatCSV, Active: true},
	}, nil)

	err := loader.Load(context.Background())
	if !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("expected ErrLoadFailed, got %v", err)
	}

	// The empty batch is still installed so browsing degrades to an
	// empty list rather than appearing stuck loading.
	if !catalog.Ready() {
		t.Error("catalog should be ready with an empty batch")
	}
	if catalog.Len() != 0 {
		t.Errorf("expected empty batch, got %d records", catalog.Len())
	}
}

func TestLoaderSupersededLoadDiscarded(t *testing.T) {
	catalog := NewCatalog()
	loader := NewLoader(catalog, &stubFetcher{docs: map[string]string{"src": testCSV}}, []SourceConfig{
		{ID: "test", URL: "src", Format: FormatCSV, Active: true},
	}, nil)

	stale := catalog.BeginLoad()
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.Replace(stale, []Scholarship{{ID: "stale"}}, "stale") {
		t.Error("stale load applied its result")
	}
	if catalog.Records()[0].ID != "sch-1" {
		t.Error("newer batch was overwritten")
	}
}
