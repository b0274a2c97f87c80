package projection

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/building-riskmap/internal/pkg/errors"
)

// Поддерживаемые системы координат: EPSG:4326 (без преобразования),
// EPSG:3857 (Web Mercator), зоны UTM на эллипсоидах WGS84 (EPSG:326xx,
// 327xx) и ETRS89 (EPSG:258xx). Исходные датасеты CityGML обычно приходят
// в одной из UTM-зон.

const (
	webMercatorRadius = 6378137.0

	utmScale              = 0.9996
	utmFalseEasting       = 500000.0
	utmFalseNorthingSouth = 10000000.0
)

type ellipsoid struct {
	a float64 // большая полуось
	f float64 // сжатие
}

var (
	wgs84Ellipsoid  = ellipsoid{a: 6378137.0, f: 1 / 298.257223563}
	etrs89Ellipsoid = ellipsoid{a: 6378137.0, f: 1 / 298.257222101}
)

// Transformer преобразует координаты из исходной проекции в WGS84
// долготу/широту
type Transformer struct {
	epsg    int
	convert func(p orb.Point) orb.Point
}

// New создает Transformer для кода EPSG. Неизвестный код - ошибка
// UNSUPPORTED_CRS для всего пакета обработки.
func New(epsg int) (*Transformer, error) {
	t := &Transformer{epsg: epsg}
	switch {
	case epsg == 4326:
		t.convert = func(p orb.Point) orb.Point { return p }
	case epsg == 3857:
		t.convert = inverseWebMercator
	case epsg >= 32601 && epsg <= 32660:
		t.convert = inverseUTM(wgs84Ellipsoid, epsg-32600, true)
	case epsg >= 32701 && epsg <= 32760:
		t.convert = inverseUTM(wgs84Ellipsoid, epsg-32700, false)
	case epsg >= 25828 && epsg <= 25838:
		t.convert = inverseUTM(etrs89Ellipsoid, epsg-25800, true)
	default:
		return nil, fmt.Errorf("%w: EPSG:%d", errors.ErrUnsupportedCRS, epsg)
	}
	return t, nil
}

// EPSG возвращает исходный код EPSG
func (t *Transformer) EPSG() int {
	return t.epsg
}

// ToWGS84 преобразует одну точку в (lon, lat)
func (t *Transformer) ToWGS84(p orb.Point) orb.Point {
	return t.convert(p)
}

// TransformRing возвращает новое кольцо в WGS84; исходное не изменяется
func (t *Transformer) TransformRing(ring orb.Ring) orb.Ring {
	out := make(orb.Ring, len(ring))
	for i, p := range ring {
		out[i] = t.convert(p)
	}
	return out
}

func inverseWebMercator(p orb.Point) orb.Point {
	lon := p[0] / webMercatorRadius * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(p[1]/webMercatorRadius)) - math.Pi/2) * 180 / math.Pi
	return orb.Point{lon, lat}
}

// inverseUTM - обратная поперечная проекция Меркатора по рядам Снайдера
func inverseUTM(ell ellipsoid, zone int, north bool) func(orb.Point) orb.Point {
	a := ell.a
	e2 := ell.f * (2 - ell.f)
	e4 := e2 * e2
	e6 := e4 * e2
	ep2 := e2 / (1 - e2)
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
	lon0 := float64((zone-1)*6-180+3) * math.Pi / 180

	return func(p orb.Point) orb.Point {
		x := p[0] - utmFalseEasting
		y := p[1]
		if !north {
			y -= utmFalseNorthingSouth
		}

		m := y / utmScale
		mu := m / (a * (1 - e2/4 - 3*e4/64 - 5*e6/256))

		phi1 := mu +
			(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
			(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
			(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
			(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

		sinPhi1 := math.Sin(phi1)
		cosPhi1 := math.Cos(phi1)
		tanPhi1 := math.Tan(phi1)

		c1 := ep2 * cosPhi1 * cosPhi1
		t1 := tanPhi1 * tanPhi1
		n1 := a / math.Sqrt(1-e2*sinPhi1*sinPhi1)
		r1 := a * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
		d := x / (n1 * utmScale)

		phi := phi1 - (n1*tanPhi1/r1)*(d*d/2-
			(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
			(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
		lon := lon0 + (d-
			(1+2*t1+c1)*math.Pow(d, 3)/6+
			(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120)/cosPhi1

		return orb.Point{lon * 180 / math.Pi, phi * 180 / math.Pi}
	}
}

// forwardUTM - прямая проекция, используется тестами для проверки
// согласованности обратной
func forwardUTM(ell ellipsoid, zone int, north bool) func(lon, lat float64) orb.Point {
	a := ell.a
	e2 := ell.f * (2 - ell.f)
	e4 := e2 * e2
	e6 := e4 * e2
	ep2 := e2 / (1 - e2)
	lon0 := float64((zone-1)*6-180+3) * math.Pi / 180

	return func(lon, lat float64) orb.Point {
		phi := lat * math.Pi / 180
		lam := lon * math.Pi / 180

		sinPhi := math.Sin(phi)
		cosPhi := math.Cos(phi)
		tanPhi := math.Tan(phi)

		n := a / math.Sqrt(1-e2*sinPhi*sinPhi)
		t := tanPhi * tanPhi
		c := ep2 * cosPhi * cosPhi
		aa := (lam - lon0) * cosPhi

		m := a * ((1-e2/4-3*e4/64-5*e6/256)*phi -
			(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
			(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
			(35*e6/3072)*math.Sin(6*phi))

		easting := utmFalseEasting + utmScale*n*(aa+
			(1-t+c)*math.Pow(aa, 3)/6+
			(5-18*t+t*t+72*c-58*ep2)*math.Pow(aa, 5)/120)
		northing := utmScale * (m + n*tanPhi*(aa*aa/2+
			(5-t+9*c+4*c*c)*math.Pow(aa, 4)/24+
			(61-58*t+t*t+600*c-330*ep2)*math.Pow(aa, 6)/720))
		if !north {
			northing += utmFalseNorthingSouth
		}
		return orb.Point{easting, northing}
	}
}
