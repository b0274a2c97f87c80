package colormap

import (
	"fmt"
	"image/color"
	"math"
)

// Colormap - линейный градиент по опорным цветам, аналог цветовых карт
// matplotlib, используемых в исходных визуализациях
type Colormap struct {
	name  string
	stops []color.RGBA
}

// Карты, используемые рендерерами
var (
	// RdYlGn в обратном порядке: красный - высокий риск, зелёный - низкий
	RdYlGnReversed = New("RdYlGn",
		"#A50026", "#D73027", "#F46D43", "#FDAE61", "#FEE08B", "#FFFFBF",
		"#D9EF8B", "#A6D96A", "#66BD63", "#1A9850", "#006837",
	).Reversed()

	YlOrRd = New("YlOrRd",
		"#FFFFCC", "#FFEDA0", "#FED976", "#FEB24C", "#FD8D3C",
		"#FC4E2A", "#E31A1C", "#BD0026", "#800026",
	)

	Blues = New("Blues",
		"#F7FBFF", "#DEEBF7", "#C6DBEF", "#9ECAE1", "#6BAED6",
		"#4292C6", "#2171B5", "#08519C", "#08306B",
	)

	Viridis = New("viridis",
		"#440154", "#482878", "#3E4989", "#31688E", "#26828E",
		"#1F9E89", "#35B779", "#6DCD59", "#B4DE2C", "#FDE725",
	)
)

// New создает карту из hex-цветов; паникует на невалидном hex,
// поэтому вызывается только с литералами на уровне пакета
func New(name string, hexStops ...string) *Colormap {
	if len(hexStops) < 2 {
		panic("colormap: at least two stops required")
	}
	stops := make([]color.RGBA, len(hexStops))
	for i, h := range hexStops {
		c, err := parseHex(h)
		if err != nil {
			panic(fmt.Sprintf("colormap %s: %v", name, err))
		}
		stops[i] = c
	}
	return &Colormap{name: name, stops: stops}
}

// Name возвращает имя карты
func (m *Colormap) Name() string {
	return m.name
}

// Reversed возвращает карту с обратным порядком опорных цветов
func (m *Colormap) Reversed() *Colormap {
	stops := make([]color.RGBA, len(m.stops))
	for i, s := range m.stops {
		stops[len(stops)-1-i] = s
	}
	return &Colormap{name: m.name, stops: stops}
}

// At возвращает цвет для нормализованного значения 0..1
func (m *Colormap) At(t float64) color.RGBA {
	if math.IsNaN(t) {
		return color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	}
	t = math.Min(1, math.Max(0, t))

	scaled := t * float64(len(m.stops)-1)
	i := int(math.Floor(scaled))
	if i >= len(m.stops)-1 {
		return m.stops[len(m.stops)-1]
	}
	frac := scaled - float64(i)

	a, b := m.stops[i], m.stops[i+1]
	return color.RGBA{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: 0xFF,
	}
}

// HexAt возвращает цвет для значения 0..1 в виде "#RRGGBB"
func (m *Colormap) HexAt(t float64) string {
	c := m.At(t)
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Normalize приводит значение к 0..1 в диапазоне min..max
func Normalize(v, min, max float64) float64 {
	if max <= min {
		return 0
	}
	return (v - min) / (max - min)
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func parseHex(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}, nil
}
