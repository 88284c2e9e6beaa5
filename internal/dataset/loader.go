package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// ErrLoadFailed indicates no source could be fetched and parsed. The
// caller treats this as "zero records", never as a crash.
var ErrLoadFailed = errors.New("dataset load failed")

// Loader fetches the configured sources, normalizes their rows and
// installs the result into the catalog. Loads that were superseded by a
// newer one are discarded (last-load-wins).
type Loader struct {
	catalog *Catalog
	fetcher Fetcher
	sources []SourceConfig
	log     *zap.Logger
}

func NewLoader(catalog *Catalog, fetcher Fetcher, sources []SourceConfig, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		catalog: catalog,
		fetcher: fetcher,
		sources: sources,
		log:     log,
	}
}

// Load fetches every active source and replaces the catalog batch
// wholesale. A failing source contributes zero records; only when all
// sources fail is ErrLoadFailed returned, with an empty batch installed
// so browsing degrades to an empty list instead of stale data being
// mistaken for current.
func (l *Loader) Load(ctx context.Context) error {
	gen := l.catalog.BeginLoad()

	var rows []RawRecord
	var rawText strings.Builder
	fetched := 0

	for _, src := range l.sources {
		sourceRows, text, err := l.loadSource(ctx, src)
		if err != nil {
			l.log.Warn("dataset source failed",
				zap.String("source", src.ID),
				zap.Error(err),
			)
			continue
		}
		fetched++
		rows = append(rows, sourceRows...)
		rawText.WriteString(text)
	}

	records := Normalize(rows)

	if !l.catalog.Replace(gen, records, rawText.String()) {
		l.log.Info("dataset load superseded", zap.Uint64("generation", gen))
		return nil
	}

	if fetched == 0 && len(l.sources) > 0 {
		return ErrLoadFailed
	}

	l.log.Info("dataset loaded",
		zap.Int("sources", fetched),
		zap.Int("records", len(records)),
	)
	return nil
}

func (l *Loader) loadSource(ctx context.Context, src SourceConfig) ([]RawRecord, string, error) {
	body, err := l.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read source body: %w", err)
	}

	var rows []RawRecord
	switch src.Format {
	case FormatHTML:
		rows, err = ParseHTMLTable(strings.NewReader(string(data)))
	default:
		rows, err = ParseCSV(strings.NewReader(string(data)))
	}
	if err != nil {
		return nil, "", err
	}

	return rows, string(data), nil
}
