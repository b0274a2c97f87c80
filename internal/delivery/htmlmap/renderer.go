package htmlmap

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	orbgeojson "github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"

	"github.com/building-riskmap/internal/domain"
	"github.com/building-riskmap/internal/pkg/colormap"
	"github.com/building-riskmap/internal/pkg/errors"
)

// Режимы раскраски зданий
const (
	ColorModeCategory   = "category"
	ColorModePercentile = "percentile"
)

// Options - настройки интерактивной карты
type Options struct {
	Title     string
	Zoom      int
	ColorMode string
}

// Renderer генерирует самодостаточную HTML-карту Leaflet: три тайловых
// слоя, полигоны зданий с попапами, легенда категорий и переключатель
// слоёв. Сетевых запросов при генерации нет, ассеты подключаются с CDN
// при открытии страницы.
type Renderer struct {
	opts   Options
	logger *zap.Logger
	tmpl   *template.Template
}

// NewRenderer создает новый Renderer
func NewRenderer(opts Options, logger *zap.Logger) (*Renderer, error) {
	if opts.Zoom == 0 {
		opts.Zoom = 17
	}
	if opts.ColorMode == "" {
		opts.ColorMode = ColorModeCategory
	}
	if opts.Title == "" {
		opts.Title = "Building Risk Classification"
	}

	tmpl, err := template.New("map").Parse(mapTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse map template: %w", err)
	}
	return &Renderer{opts: opts, logger: logger, tmpl: tmpl}, nil
}

type buildingView struct {
	GeoJSON   template.JS
	FillColor string
	Tooltip   string
	Popup     template.HTML
}

type legendRow struct {
	Color string
	Name  string
}

type templateData struct {
	Title     string
	CenterLat float64
	CenterLon float64
	Zoom      int
	Buildings []buildingView
	Legend    []legendRow
	StatsMin  string
	StatsMed  string
	StatsMax  string
}

// Render записывает HTML-карту. Здания без контура или метрик опускаются.
func (r *Renderer) Render(w io.Writer, buildings []*domain.Building, stats *domain.RiskStats) error {
	views := make([]buildingView, 0, len(buildings))
	var sumLat, sumLon float64
	centered := 0

	for _, b := range buildings {
		if b.Footprint == nil || b.Metrics == nil {
			continue
		}

		raw, err := json.Marshal(orbgeojson.NewGeometry(b.Footprint.Polygon()))
		if err != nil {
			return fmt.Errorf("%w: marshal building %s: %v", errors.ErrRenderFailure, b.ID, err)
		}

		centroid, _ := planar.CentroidArea(b.Footprint.Polygon())
		sumLon += centroid[0]
		sumLat += centroid[1]
		centered++

		views = append(views, buildingView{
			GeoJSON:   template.JS(raw),
			FillColor: r.fillColor(b),
			Tooltip: fmt.Sprintf("<b>%s</b><br>Risk: %.3e",
				template.HTMLEscapeString(b.Metrics.Category),
				b.Risk.ExpectedDeathsMean),
			Popup: buildPopup(b),
		})
	}
	if len(views) == 0 {
		return errors.ErrEmptyBatch
	}

	data := templateData{
		Title:     r.opts.Title,
		CenterLat: sumLat / float64(centered),
		CenterLon: sumLon / float64(centered),
		Zoom:      r.opts.Zoom,
		Buildings: views,
		StatsMin:  fmt.Sprintf("%.3e", stats.Min),
		StatsMed:  fmt.Sprintf("%.3e", stats.Median),
		StatsMax:  fmt.Sprintf("%.3e", stats.Max),
	}
	for _, c := range domain.RiskCategories {
		data.Legend = append(data.Legend, legendRow{Color: c.Color, Name: c.Name})
	}

	if err := r.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrRenderFailure, err)
	}
	return nil
}

// RenderFile рендерит карту в файл
func (r *Renderer) RenderFile(path string, buildings []*domain.Building, stats *domain.RiskStats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map file: %w", err)
	}
	defer f.Close()

	if err := r.Render(f, buildings, stats); err != nil {
		return err
	}
	r.logger.Info("Interactive map saved",
		zap.String("path", path),
		zap.String("color_mode", r.opts.ColorMode))
	return nil
}

func (r *Renderer) fillColor(b *domain.Building) string {
	if r.opts.ColorMode == ColorModePercentile {
		return colormap.RdYlGnReversed.HexAt(b.Metrics.Percentile / 100)
	}
	return b.Metrics.Color
}

// buildPopup собирает таблицу попапа в стиле исходных карт: метрики риска
// и сведения о здании
func buildPopup(b *domain.Building) template.HTML {
	esc := template.HTMLEscapeString
	var sb strings.Builder

	fmt.Fprintf(&sb, `<div style="width: 320px; font-family: Arial, sans-serif;">`)
	fmt.Fprintf(&sb,
		`<h3 style="margin: 0 0 10px 0; padding: 8px; background-color: %s; color: white; text-align: center;">%s</h3>`,
		esc(b.Metrics.Color), esc(b.Metrics.Category))
	sb.WriteString(`<table style="width: 100%; font-size: 12px; border-collapse: collapse;">`)

	section := func(title string) {
		fmt.Fprintf(&sb,
			`<tr style="background-color: #f0f0f0;"><td colspan="2" style="padding: 5px; font-weight: bold;">%s</td></tr>`,
			title)
	}
	row := func(label, value string) {
		fmt.Fprintf(&sb,
			`<tr><td style="padding: 5px;"><b>%s:</b></td><td style="text-align: right; padding: 5px;">%s</td></tr>`,
			label, value)
	}

	section("Risk Metrics")
	row("Expected Deaths (Mean)", fmt.Sprintf("%.4e", b.Risk.ExpectedDeathsMean))
	row("Expected Deaths (Std)", fmt.Sprintf("%.4e", b.Risk.ExpectedDeathsStd))
	row("Coefficient of Variation", fmt.Sprintf("%.3f", b.Metrics.CV))
	fmt.Fprintf(&sb,
		`<tr><td style="padding: 5px;"><b>Risk Percentile:</b></td><td style="text-align: right; padding: 5px; font-weight: bold; color: %s;">%.1f%%</td></tr>`,
		esc(b.Metrics.Color), b.Metrics.Percentile)

	section("Building Information")
	row("Occupants", fmt.Sprintf("%.0f", b.Risk.NumOccupants))
	row("Height", fmt.Sprintf("%.2f %s", b.Risk.MeasuredHeight, esc(b.Risk.HeightUnits)))
	row("Storeys", fmt.Sprintf("%d", b.Risk.StoreysAboveGround))
	if b.Risk.RoofType != "" {
		row("Roof Type", esc(b.Risk.RoofType))
	}

	sb.WriteString(`</table></div>`)
	return template.HTML(sb.String())
}
