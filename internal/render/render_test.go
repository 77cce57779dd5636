package render_test

import (
	"regexp"
	"testing"

	"github.com/passbi/routestat/internal/catalogue"
	"github.com/passbi/routestat/internal/models"
	"github.com/passbi/routestat/internal/render"
	"github.com/passbi/routestat/internal/svg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tagPattern = regexp.MustCompile(`<(polyline|circle|text)\b`)

func buildTwoStopCatalogue() *catalogue.Catalogue {
	cat := catalogue.New()
	cat.AddStop(models.Stop{Name: "A", Latitude: 55.611087, Longitude: 37.20829, Distances: map[string]int{"B": 3900}})
	cat.AddStop(models.Stop{Name: "B", Latitude: 55.595884, Longitude: 37.209755, Distances: map[string]int{"A": 3900}})
	cat.AddDistances(models.Stop{Name: "A", Distances: map[string]int{"B": 3900}})
	cat.AddDistances(models.Stop{Name: "B", Distances: map[string]int{"A": 3900}})
	cat.AddBus(models.Bus{Name: "256", Stops: []string{"A", "B", "A"}, IsRoundtrip: true})
	return cat
}

func testSettings() models.RenderSettings {
	return models.RenderSettings{
		Width: 600, Height: 400, Padding: 30,
		LineWidth: 14, StopRadius: 5,
		BusLabelFontSize: 20, BusLabelOffset: models.Offset{X: 7, Y: 15},
		StopLabelFontSize: 20, StopLabelOffset: models.Offset{X: 7, Y: -3},
		UnderlayerColor: svg.NamedColor("white"),
		UnderlayerWidth: 3,
		ColorPalette:    []svg.Color{svg.NamedColor("green"), svg.RGBColor(255, 160, 0)},
	}
}

func TestMapDeterminismScenario(t *testing.T) {
	cat := buildTwoStopCatalogue()
	doc := render.Map(cat, testSettings())
	out := doc.Render()

	tags := tagPattern.FindAllString(out, -1)
	require.Equal(t, []string{
		"<polyline",
		"<text", "<text", // one bus label (first == last stop on a roundtrip)
		"<circle", "<circle",
		"<text", "<text", "<text", "<text", // two stop labels, two texts each
	}, tags)

	assert.Contains(t, out, `stroke="green"`)
}

func TestMapExcludesUnservedStops(t *testing.T) {
	cat := buildTwoStopCatalogue()
	cat.AddStop(models.Stop{Name: "Lonely", Latitude: 1, Longitude: 1})
	doc := render.Map(cat, testSettings())
	out := doc.Render()
	assert.NotContains(t, out, ">Lonely<")

	tags := tagPattern.FindAllString(out, -1)
	circleCount := 0
	for _, tag := range tags {
		if tag == "<circle" {
			circleCount++
		}
	}
	assert.Equal(t, 2, circleCount)
}

func TestMapLayeringOrderHolds(t *testing.T) {
	cat := catalogue.New()
	cat.AddStop(models.Stop{Name: "A", Latitude: 0, Longitude: 0})
	cat.AddStop(models.Stop{Name: "B", Latitude: 0, Longitude: 0.01})
	cat.AddStop(models.Stop{Name: "C", Latitude: 0, Longitude: 0.02})
	cat.AddDistances(models.Stop{Name: "A", Distances: map[string]int{"B": 1000}})
	cat.AddDistances(models.Stop{Name: "B", Distances: map[string]int{"C": 1000}})
	cat.AddBus(models.Bus{Name: "1", Stops: []string{"A", "B"}, IsRoundtrip: false})
	cat.AddBus(models.Bus{Name: "2", Stops: []string{"B", "C"}, IsRoundtrip: false})

	doc := render.Map(cat, testSettings())
	out := doc.Render()

	lastPolyline := lastIndex(out, "<polyline")
	firstCircle := firstIndex(out, "<circle")
	lastCircle := lastIndex(out, "<circle")
	firstStopText := indexOf(out, ">A<")

	assert.True(t, lastPolyline < firstCircle, "all polylines must precede stop circles")
	assert.True(t, lastCircle < firstStopText, "stop circles must precede stop labels")
}

func firstIndex(s, sub string) int { return indexOf(s, sub) }

func lastIndex(s, sub string) int {
	last := -1
	from := 0
	for {
		i := indexOf(s[from:], sub)
		if i < 0 {
			break
		}
		last = from + i
		from = last + len(sub)
	}
	return last
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
