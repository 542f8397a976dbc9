// Package pipeline runs the render stages end to end: load, scale, features,
// resolve, document.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/choropleth-cli/internal/choropleth"
	"github.com/sells-group/choropleth-cli/internal/config"
	"github.com/sells-group/choropleth-cli/internal/dataset"
	"github.com/sells-group/choropleth-cli/internal/fetcher"
	"github.com/sells-group/choropleth-cli/internal/legend"
	"github.com/sells-group/choropleth-cli/internal/model"
	"github.com/sells-group/choropleth-cli/internal/scale"
	"github.com/sells-group/choropleth-cli/internal/svgmap"
	"github.com/sells-group/choropleth-cli/internal/topojson"
)

// Pipeline builds a choropleth document from configured sources.
type Pipeline struct {
	cfg     *config.Config
	fetcher fetcher.Fetcher
}

// New creates a Pipeline that reads datasets through f.
func New(cfg *config.Config, f fetcher.Fetcher) *Pipeline {
	return &Pipeline{cfg: cfg, fetcher: f}
}

// Result is everything a run produced. Document is nil unless every phase
// completed.
type Result struct {
	Datasets *dataset.Datasets
	Scales   *scale.Scales
	Features []topojson.Feature
	Borders  *geom.MultiLineString
	Shades   []model.Shade
	Legend   legend.Legend
	Document *svgmap.Document
	Summary  choropleth.Summary
	Phases   []model.PhaseResult
}

// Run executes every phase in order and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log := zap.L().With(zap.String("component", "pipeline"))
	log.Info("pipeline: starting render")
	start := time.Now()

	result := &Result{}

	trackPhase := func(name string, fn func() (map[string]any, error)) error {
		phaseStart := time.Now()
		meta, err := fn()
		duration := time.Since(phaseStart).Milliseconds()

		pr := model.PhaseResult{Name: name, Duration: duration, Metadata: meta}
		if err != nil {
			pr.Status = model.PhaseStatusFailed
			pr.Error = err.Error()
			log.Error("pipeline: phase failed",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
				zap.Error(err),
			)
		} else {
			pr.Status = model.PhaseStatusComplete
			log.Info("pipeline: phase complete",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
				zap.Any("metadata", meta),
			)
		}
		result.Phases = append(result.Phases, pr)
		return err
	}

	// Phase 1: Load both datasets concurrently.
	if err := trackPhase("1_load", func() (map[string]any, error) {
		format, err := dataset.ParseFormat(p.cfg.Data.EducationFormat)
		if err != nil {
			return nil, err
		}
		ds, err := dataset.Load(ctx, p.fetcher, dataset.Sources{
			CountiesURL:     p.cfg.Data.CountiesURL,
			EducationURL:    p.cfg.Data.EducationURL,
			EducationFormat: format,
		})
		if err != nil {
			return nil, err
		}
		result.Datasets = ds
		return map[string]any{"records": len(ds.Records), "arcs": len(ds.Topology.Arcs)}, nil
	}); err != nil {
		return result, eris.Wrap(err, "pipeline: load")
	}

	// Phase 2: Build color and position scales.
	if err := trackPhase("2_scale", func() (map[string]any, error) {
		s, err := BuildScales(p.cfg, result.Datasets.Rates())
		if err != nil {
			return nil, err
		}
		result.Scales = s
		return map[string]any{"min": s.Min, "max": s.Max, "steps": s.Color.Steps()}, nil
	}); err != nil {
		return result, eris.Wrap(err, "pipeline: scale")
	}

	// Phase 3: Decode county features and the state border mesh.
	if err := trackPhase("3_features", func() (map[string]any, error) {
		topo := result.Datasets.Topology
		counties, err := topo.Object(p.cfg.Data.CountiesObject)
		if err != nil {
			return nil, err
		}
		features, err := topo.Feature(counties)
		if err != nil {
			return nil, err
		}
		result.Features = features

		if name := p.cfg.Data.StatesObject; name != "" {
			states, err := topo.Object(name)
			if err != nil {
				return nil, err
			}
			borders, err := topo.Mesh(states, topojson.Interior)
			if err != nil {
				return nil, err
			}
			result.Borders = borders
		}

		meta := map[string]any{"features": len(features)}
		if result.Borders != nil {
			meta["border_arcs"] = result.Borders.NumLineStrings()
		}
		return meta, nil
	}); err != nil {
		return result, eris.Wrap(err, "pipeline: features")
	}

	// Phase 4: Join features to records and assign colors.
	_ = trackPhase("4_resolve", func() (map[string]any, error) {
		result.Shades = choropleth.Resolve(result.Features, result.Datasets.Index(), result.Scales.Color.Color)
		result.Summary = choropleth.Summarize(result.Shades)
		return map[string]any{"matched": result.Summary.Matched, "unmatched": result.Summary.Unmatched}, nil
	})

	// Phase 5: Lay out the legend and assemble the document.
	_ = trackPhase("5_document", func() (map[string]any, error) {
		result.Legend = legend.Layout(result.Scales, legend.Options{
			OffsetY:      p.cfg.Legend.OffsetY,
			SwatchHeight: p.cfg.Legend.SwatchHeight,
			TickSize:     p.cfg.Legend.TickSize,
			Caption:      p.cfg.Legend.Caption,
		})
		pg := svgmap.NewPathGenerator(p.projection(result.Features), p.cfg.Map.Precision)
		result.Document = svgmap.New(svgmap.Options{
			Width:     p.cfg.Map.Width,
			Height:    p.cfg.Map.Height,
			Title:     p.cfg.Map.Title,
			Precision: p.cfg.Map.Precision,
		}, result.Legend, result.Shades, result.Borders, pg)
		return map[string]any{"counties": len(result.Document.Counties)}, nil
	})

	log.Info("pipeline: render complete",
		zap.Int("counties", result.Summary.Total),
		zap.Int("unmatched", result.Summary.Unmatched),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// projection returns identity for pre-projected topologies, or a transform
// fitting every feature to the canvas when map.fit is set. map.fit_flip_y
// turns north-up input right side up.
func (p *Pipeline) projection(features []topojson.Feature) svgmap.Projection {
	if !p.cfg.Map.Fit {
		return svgmap.Identity{}
	}
	b := geom.NewBounds(geom.XY)
	for _, f := range features {
		if f.Geometry != nil {
			b.Extend(f.Geometry)
		}
	}
	return svgmap.Fit(b, p.cfg.Map.Width, p.cfg.Map.Height, p.cfg.Map.FitFlipY)
}

// BuildScales loads the configured palette and builds scales over rates.
func BuildScales(cfg *config.Config, rates []float64) (*scale.Scales, error) {
	palette := scale.Blues
	if cfg.Palette.File != "" {
		pal, err := scale.LoadPalette(cfg.Palette.File)
		if err != nil {
			return nil, err
		}
		palette = pal
	}
	return scale.Build(rates, palette, [2]float64{cfg.Legend.X0, cfg.Legend.X1})
}
