// Package dataset loads the counties topology and the education records.
package dataset

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/choropleth-cli/internal/fetcher"
	"github.com/sells-group/choropleth-cli/internal/model"
	"github.com/sells-group/choropleth-cli/internal/topojson"
)

// Sources names where each dataset is read from.
type Sources struct {
	CountiesURL  string
	EducationURL string
	// EducationFormat overrides detection from the URL extension.
	EducationFormat Format
}

// Datasets holds both parsed payloads.
type Datasets struct {
	Topology *topojson.Topology
	Records  []model.CountyRecord
}

// Load fetches both datasets concurrently. It returns both payloads or the
// first error; the other fetch is cancelled once one fails.
func Load(ctx context.Context, f fetcher.Fetcher, src Sources) (*Datasets, error) {
	log := zap.L().With(zap.String("component", "dataset.load"))
	start := time.Now()

	var (
		topo    *topojson.Topology
		records []model.CountyRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := loadTopology(gctx, f, src.CountiesURL)
		if err != nil {
			return eris.Wrap(err, "dataset: counties")
		}
		topo = t
		return nil
	})
	g.Go(func() error {
		r, err := loadRecords(gctx, f, src.EducationURL, src.EducationFormat)
		if err != nil {
			return eris.Wrap(err, "dataset: education")
		}
		records = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("datasets loaded",
		zap.Int("arcs", len(topo.Arcs)),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &Datasets{Topology: topo, Records: records}, nil
}

func loadTopology(ctx context.Context, f fetcher.Fetcher, url string) (*topojson.Topology, error) {
	body, err := f.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	topo, err := fetcher.DecodeJSONObject[topojson.Topology](body)
	if err != nil {
		return nil, err
	}
	if err := topo.Validate(); err != nil {
		return nil, err
	}
	return topo, nil
}

func loadRecords(ctx context.Context, f fetcher.Fetcher, url string, format Format) ([]model.CountyRecord, error) {
	if format == FormatAuto {
		format = DetectFormat(url)
	}
	body, err := f.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	return decodeRecords(ctx, body, format)
}

// Rates returns every record's bachelorsOrHigher value in dataset order.
func (d *Datasets) Rates() []float64 {
	rates := make([]float64, len(d.Records))
	for i, r := range d.Records {
		rates[i] = r.BachelorsOrHigher
	}
	return rates
}

// Index maps FIPS codes to records. When a code repeats, the first record wins.
func (d *Datasets) Index() map[int]*model.CountyRecord {
	idx := make(map[int]*model.CountyRecord, len(d.Records))
	for i := range d.Records {
		r := &d.Records[i]
		if _, dup := idx[r.FIPS]; dup {
			zap.L().Debug("dataset: duplicate fips ignored", zap.Int("fips", r.FIPS))
			continue
		}
		idx[r.FIPS] = r
	}
	return idx
}
