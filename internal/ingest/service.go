// Package ingest runs the three-stage pipeline (header reconciliation,
// value normalization, aggregation-ready storage) over raw tables arriving
// from sheet exports, JSON uploads, xlsx uploads or a pull endpoint.
package ingest

import (
	"context"
	"log/slog"
	"sort"

	"github.com/storeops/ads-ingest/internal/config"
	"github.com/storeops/ads-ingest/internal/models"
	"github.com/storeops/ads-ingest/internal/normalize"
	"github.com/storeops/ads-ingest/internal/obs"
	"github.com/storeops/ads-ingest/internal/sheet"
	"github.com/storeops/ads-ingest/internal/store"
)

type Service struct {
	c       HTTPClient
	st      *store.MemoryStore
	log     *slog.Logger
	cfg     config.Config
	aliases sheet.Aliases
}

func NewService(c HTTPClient, st *store.MemoryStore, log *slog.Logger, cfg config.Config) *Service {
	return &Service{c: c, st: st, log: log, cfg: cfg, aliases: sheet.DefaultAliases()}
}

// Result reports what one ingest did.
type Result struct {
	Records   int  `json:"records"`
	HeaderRow int  `json:"header_row"`
	Fallbacks int  `json:"fallbacks"`
	Scaled    bool `json:"scaled"`
}

func (s *Service) options() normalize.Options {
	return normalize.Options{
		Currency:           s.cfg.DisplayCurrency,
		AssumeThousandsVND: s.cfg.AssumeThousandsVND,
		ScaleAvgCPC:        s.cfg.ScaleAvgCPC,
	}
}

// run is the pure pipeline: reconcile the header, normalize the values.
func (s *Service) run(rows models.RawTable) ([]models.Record, Result) {
	recs, _, hdr := sheet.Reconcile(rows, s.aliases)
	norm := normalize.Table(recs, s.options())
	return norm.Records, Result{
		Records:   len(norm.Records),
		HeaderRow: hdr,
		Fallbacks: norm.Fallbacks,
		Scaled:    norm.Scaled,
	}
}

// IngestTable runs the pipeline over a full raw table and replaces the
// stored data set with the outcome.
func (s *Service) IngestTable(source string, rows models.RawTable) Result {
	recs, res := s.run(rows)
	s.st.Replace(recs)
	s.observe(source, res)
	return res
}

// IngestObjects accepts the JSON-backup format (array of objects), rebuilds
// a raw table from it and runs the same pipeline, so object keys go through
// the same alias mapping as sheet headers.
func (s *Service) IngestObjects(source string, objs []map[string]any) Result {
	return s.IngestTable(source, ObjectsToTable(objs))
}

// Pull fetches the source document (array of row objects), ingests only the
// rows past the stored cursor and advances it. The cursor is plain
// row-count change detection, same as the original sheet sync.
func (s *Service) Pull(ctx context.Context, url string) (Result, error) {
	if url == "" {
		url = s.cfg.SourceURL
	}
	var objs []map[string]any
	if err := GetJSONWithRetry(ctx, s.c, url, &objs); err != nil {
		return Result{}, err
	}
	prev := s.st.Cursor()
	fresh := DetectNewRows(prev, objs)
	if len(fresh) == 0 {
		s.log.Info("pull: no new rows", slog.Int("cursor", prev), slog.Int("source_rows", len(objs)))
		return Result{}, nil
	}
	recs, res := s.run(ObjectsToTable(fresh))
	s.st.Append(recs)
	s.st.SetCursor(len(objs))
	s.observe("pull", res)
	return res, nil
}

func (s *Service) observe(source string, res Result) {
	obs.RowsIngested.WithLabelValues(source).Add(float64(res.Records))
	obs.CellFallbacks.Add(float64(res.Fallbacks))
	if res.Scaled {
		obs.ScaleCorrections.Inc()
	}
	s.log.Info("ingest complete",
		slog.String("source", source),
		slog.Int("records", res.Records),
		slog.Int("header_row", res.HeaderRow),
		slog.Int("fallbacks", res.Fallbacks),
		slog.Bool("scaled", res.Scaled))
}

// DetectNewRows returns the rows past the previously seen count. Kept
// outside the pipeline core: the pipeline itself never tracks state.
func DetectNewRows[T any](prevCount int, rows []T) []T {
	if prevCount < 0 {
		prevCount = 0
	}
	if prevCount >= len(rows) {
		return nil
	}
	return rows[prevCount:]
}

// ObjectsToTable flattens an array of objects to a header row plus data
// rows. Columns appear in first-seen key order so row order and value
// alignment stay deterministic.
func ObjectsToTable(objs []map[string]any) models.RawTable {
	var cols []string
	seen := map[string]struct{}{}
	for _, o := range objs {
		keys := make([]string, 0, len(o))
		for k := range o {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}
	if len(cols) == 0 {
		return nil
	}
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table := models.RawTable{header}
	for _, o := range objs {
		row := make([]any, len(cols))
		for i, c := range cols {
			if v, ok := o[c]; ok {
				row[i] = v
			} else {
				row[i] = ""
			}
		}
		table = append(table, row)
	}
	return table
}
