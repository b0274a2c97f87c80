package staticplot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/building-riskmap/internal/domain"
	"github.com/building-riskmap/internal/pkg/colormap"
	"github.com/building-riskmap/internal/pkg/errors"
)

// Renderer строит статические PNG-панели: четыре хороплета контуров
// (среднее и разброс ожидаемых жертв, коэффициент вариации, число людей),
// гистограмму перцентилей и диаграмму рассеяния среднее/разброс
type Renderer struct {
	outputDir string
	logger    *zap.Logger
}

// NewRenderer создает новый Renderer
func NewRenderer(outputDir string, logger *zap.Logger) *Renderer {
	return &Renderer{
		outputDir: outputDir,
		logger:    logger,
	}
}

// RenderAll строит все панели. Здания без контура или метрик опускаются.
func (r *Renderer) RenderAll(buildings []*domain.Building) error {
	valid := make([]*domain.Building, 0, len(buildings))
	for _, b := range buildings {
		if b.Footprint != nil && b.Metrics != nil {
			valid = append(valid, b)
		}
	}
	if len(valid) == 0 {
		return errors.ErrEmptyBatch
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, s := range renderSteps(r) {
		path := filepath.Join(r.outputDir, s.file)
		if err := s.render(valid, path); err != nil {
			return fmt.Errorf("%w: %s: %v", errors.ErrRenderFailure, s.file, err)
		}
		r.logger.Info("Static plot saved", zap.String("path", path))
	}
	return nil
}

type renderStep struct {
	file   string
	render func([]*domain.Building, string) error
}

// renderSteps повторяет панели исходных визуализаций: четыре хороплета
// со своими цветовыми картами, гистограмма и диаграмма рассеяния
func renderSteps(r *Renderer) []renderStep {
	choropleth := func(title string, cmap *colormap.Colormap, value func(*domain.Building) float64) func([]*domain.Building, string) error {
		return func(buildings []*domain.Building, path string) error {
			return r.renderChoropleth(buildings, path, title, cmap, value)
		}
	}
	return []renderStep{
		{"risk_choropleth.png", choropleth("Expected Deaths (Mean)", colormap.YlOrRd,
			func(b *domain.Building) float64 { return b.Risk.ExpectedDeathsMean })},
		{"risk_std_choropleth.png", choropleth("Expected Deaths (Std)", colormap.Blues,
			func(b *domain.Building) float64 { return b.Risk.ExpectedDeathsStd })},
		{"risk_cv_choropleth.png", choropleth("Coefficient of Variation", colormap.RdYlGnReversed,
			func(b *domain.Building) float64 { return b.Metrics.CV })},
		{"occupants_choropleth.png", choropleth("Number of Occupants", colormap.Viridis,
			func(b *domain.Building) float64 { return b.Risk.NumOccupants })},
		{"risk_percentile_histogram.png", r.renderHistogram},
		{"risk_mean_vs_std.png", r.renderScatter},
	}
}

// renderChoropleth закрашивает контуры зданий по значению value,
// нормированному в диапазон выборки, рампой cmap
func (r *Renderer) renderChoropleth(buildings []*domain.Building, path, title string, cmap *colormap.Colormap, value func(*domain.Building) float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	min, max := valueRange(buildings, value)
	for _, b := range buildings {
		xys := make(plotter.XYs, 0, len(b.Footprint.Ring))
		for _, pt := range b.Footprint.Ring {
			xys = append(xys, plotter.XY{X: pt[0], Y: pt[1]})
		}
		poly, err := plotter.NewPolygon(xys)
		if err != nil {
			return err
		}
		c := cmap.At(colormap.Normalize(value(b), min, max))
		poly.Color = c
		poly.LineStyle.Color = c
		poly.LineStyle.Width = vg.Points(0.3)
		p.Add(poly)
	}

	return p.Save(8*vg.Inch, 8*vg.Inch, path)
}

// renderHistogram строит распределение перцентилей риска
func (r *Renderer) renderHistogram(buildings []*domain.Building, path string) error {
	p := plot.New()
	p.Title.Text = "Risk Percentile Distribution"
	p.X.Label.Text = "Risk percentile"
	p.Y.Label.Text = "Buildings"

	values := make(plotter.Values, 0, len(buildings))
	for _, b := range buildings {
		values = append(values, b.Metrics.Percentile)
	}
	hist, err := plotter.NewHist(values, 20)
	if err != nil {
		return err
	}
	hist.FillColor = color.RGBA{R: 0xFD, G: 0x8D, B: 0x3C, A: 0xFF}
	p.Add(hist)

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// renderScatter - среднее против стандартного отклонения в лог-осях
func (r *Renderer) renderScatter(buildings []*domain.Building, path string) error {
	p := plot.New()
	p.Title.Text = "Risk Mean vs Std"
	p.X.Label.Text = "Expected deaths (mean)"
	p.Y.Label.Text = "Expected deaths (std)"

	// нулевые значения не отображаются на логарифмической шкале
	xys := make(plotter.XYs, 0, len(buildings))
	for _, b := range buildings {
		if b.Risk.ExpectedDeathsMean > 0 && b.Risk.ExpectedDeathsStd > 0 {
			xys = append(xys, plotter.XY{
				X: b.Risk.ExpectedDeathsMean,
				Y: b.Risk.ExpectedDeathsStd,
			})
		}
	}
	if len(xys) > 0 {
		p.X.Scale = plot.LogScale{}
		p.Y.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 0xD7, G: 0x30, B: 0x27, A: 0xFF}
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

func valueRange(buildings []*domain.Building, value func(*domain.Building) float64) (min, max float64) {
	min, max = value(buildings[0]), value(buildings[0])
	for _, b := range buildings[1:] {
		v := value(b)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
