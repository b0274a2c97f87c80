package htmlmap

// Шаблон воспроизводит структуру карт из исходных визуализаций:
// базовый слой CartoDB positron, альтернативные OpenStreetMap и
// CartoDB dark_matter, фиксированная легенда категорий справа внизу.
const mapTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/leaflet.fullscreen/3.0.0/Control.FullScreen.min.css">
<script src="https://cdnjs.cloudflare.com/ajax/libs/leaflet.fullscreen/3.0.0/Control.FullScreen.min.js"></script>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/leaflet-measure@2.1.7/dist/leaflet-measure.css">
<script src="https://cdn.jsdelivr.net/npm/leaflet-measure@2.1.7/dist/leaflet-measure.min.js"></script>
<style>
  html, body { margin: 0; padding: 0; height: 100%; }
  #map { width: 100%; height: 100%; }
  .legend {
    position: fixed; bottom: 50px; right: 50px; width: 280px;
    background-color: white; border: 2px solid grey; z-index: 9999;
    font-family: Arial, sans-serif; font-size: 13px; padding: 15px;
    box-shadow: 3px 3px 10px rgba(0,0,0,0.3);
  }
  .legend p.title {
    margin: 0 0 10px 0; font-weight: bold; font-size: 15px;
    border-bottom: 2px solid #333; padding-bottom: 5px;
  }
  .legend .entry { display: flex; align-items: center; margin: 5px 0; }
  .legend .swatch {
    width: 25px; height: 15px; display: inline-block; margin-right: 8px;
  }
  .legend .stats {
    margin-top: 12px; font-size: 11px; border-top: 1px solid #ddd;
    background-color: #f9f9f9; padding: 8px;
  }
</style>
</head>
<body>
<div id="map"></div>
<div class="legend">
  <p class="title">Building Risk Classification</p>
  {{range .Legend}}<div class="entry">
    <span class="swatch" style="background-color: {{.Color}};"></span>
    <span>{{.Name}}</span>
  </div>
  {{end}}<p class="stats">
    Min: {{.StatsMin}}<br>
    Median: {{.StatsMed}}<br>
    Max: {{.StatsMax}}
  </p>
</div>
<script>
var positron = L.tileLayer('https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png', {
  attribution: '&copy; OpenStreetMap contributors &copy; CARTO', maxZoom: 20
});
var osm = L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors', maxZoom: 19
});
var dark = L.tileLayer('https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png', {
  attribution: '&copy; OpenStreetMap contributors &copy; CARTO', maxZoom: 20
});

var map = L.map('map', {
  center: [{{.CenterLat}}, {{.CenterLon}}],
  zoom: {{.Zoom}},
  layers: [positron]
});

L.control.layers({
  'CartoDB positron': positron,
  'OpenStreetMap': osm,
  'CartoDB dark_matter': dark
}).addTo(map);
L.control.scale({position: 'topleft', metric: true, imperial: false}).addTo(map);
L.control.fullscreen({position: 'topleft'}).addTo(map);
new L.Control.Measure({
  position: 'topleft',
  primaryLengthUnit: 'meters',
  primaryAreaUnit: 'sqmeters'
}).addTo(map);

{{range .Buildings}}
L.geoJSON({{.GeoJSON}}, {
  style: function() {
    return {
      fillColor: '{{.FillColor}}', color: '{{.FillColor}}',
      weight: 1, fillOpacity: 0.85, opacity: 1.0
    };
  },
  onEachFeature: function(feature, layer) {
    layer.bindTooltip({{.Tooltip}}, {sticky: false});
    layer.bindPopup({{.Popup}}, {maxWidth: 350});
    layer.on('mouseover', function() {
      layer.setStyle({color: 'white', weight: 2.5, fillOpacity: 1.0});
    });
    layer.on('mouseout', function() {
      layer.setStyle({color: '{{.FillColor}}', weight: 1, fillOpacity: 0.85});
    });
  }
}).addTo(map);
{{end}}
</script>
</body>
</html>
`
