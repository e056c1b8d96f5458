package charting

import (
	"encoding/json"
	"math"

	"chartdesk/domain/dataset"
)

// Option is an ECharts option document
type Option map[string]interface{}

// JSON encodes the option for embedding into a page
func (o Option) JSON() (string, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// StyleConfig holds the colors and fonts shared by every chart
type StyleConfig struct {
	ColorPrimary    string
	ColorText       string
	ColorBorder     string
	ColorBackground string
	FontFamily      string
	Palette         []string
}

// DefaultStyleConfig returns the default chart style
func DefaultStyleConfig() *StyleConfig {
	return &StyleConfig{
		ColorPrimary:    "#4F46E5",
		ColorText:       "#1F2937",
		ColorBorder:     "#D1D5DB",
		ColorBackground: "transparent",
		FontFamily:      "Vazirmatn, system-ui, sans-serif",
		Palette: []string{
			"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
			"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
		},
	}
}

// EChartsGenerator turns chart specs into ECharts options
type EChartsGenerator struct {
	style *StyleConfig
}

// NewEChartsGenerator creates a generator; a nil style uses the default
func NewEChartsGenerator(style *StyleConfig) *EChartsGenerator {
	if style == nil {
		style = DefaultStyleConfig()
	}
	return &EChartsGenerator{style: style}
}

// Generate builds the option for spec drawn from view. Rows with a missing x
// or y value are skipped; a view without rows yields an empty chart.
func (eg *EChartsGenerator) Generate(spec ChartSpec, view *dataset.Table) Option {
	xCol, xOK := view.Column(spec.X)
	yCol, yOK := view.Column(spec.Y)
	if !xOK || !yOK {
		return eg.base(spec)
	}

	switch spec.Kind {
	case KindBar:
		labels, values := categoryTotals(xCol, yCol)
		return eg.barChart(spec, labels, values)
	case KindLine:
		labels, values := rowPoints(xCol, yCol)
		return eg.lineChart(spec, labels, values)
	case KindScatter:
		return eg.scatterChart(spec, xCol, yCol)
	case KindPie:
		labels, values := categoryTotals(xCol, yCol)
		return eg.pieChart(spec, labels, values)
	default:
		return eg.base(spec)
	}
}

func (eg *EChartsGenerator) base(spec ChartSpec) Option {
	return Option{
		"backgroundColor": eg.style.ColorBackground,
		"color":           eg.style.Palette,
		"title": map[string]interface{}{
			"text": spec.Title,
			"textStyle": map[string]interface{}{
				"color":      eg.style.ColorText,
				"fontFamily": eg.style.FontFamily,
				"fontSize":   14,
			},
		},
		"tooltip": map[string]interface{}{"trigger": "item"},
		"series":  []interface{}{},
	}
}

func (eg *EChartsGenerator) axis(axisType, name string, data []string) map[string]interface{} {
	axis := map[string]interface{}{
		"type":         axisType,
		"name":         name,
		"nameLocation": "middle",
		"nameGap":      30,
		"axisLine": map[string]interface{}{
			"lineStyle": map[string]interface{}{"color": eg.style.ColorBorder},
		},
	}
	if data != nil {
		axis["data"] = data
	}
	return axis
}

func (eg *EChartsGenerator) cartesian(spec ChartSpec, xAxis map[string]interface{}, series map[string]interface{}) Option {
	opt := eg.base(spec)
	opt["grid"] = map[string]interface{}{"left": "10%", "right": "6%", "bottom": "14%", "containLabel": true}
	opt["tooltip"] = map[string]interface{}{"trigger": "axis"}
	opt["xAxis"] = xAxis
	opt["yAxis"] = eg.axis("value", spec.Y, nil)
	opt["series"] = []interface{}{series}
	return opt
}

func (eg *EChartsGenerator) barChart(spec ChartSpec, labels []string, values []float64) Option {
	return eg.cartesian(spec, eg.axis("category", spec.X, labels), map[string]interface{}{
		"type": "bar",
		"name": spec.Y,
		"data": values,
	})
}

func (eg *EChartsGenerator) lineChart(spec ChartSpec, labels []string, values []float64) Option {
	return eg.cartesian(spec, eg.axis("category", spec.X, labels), map[string]interface{}{
		"type":       "line",
		"name":       spec.Y,
		"data":       values,
		"showSymbol": len(values) <= 200,
	})
}

func (eg *EChartsGenerator) scatterChart(spec ChartSpec, xCol, yCol *dataset.Column) Option {
	data := make([][]interface{}, 0, len(xCol.Cells))
	var categories []string
	numericX := xCol.Kind == dataset.KindNumeric
	seen := make(map[string]bool)
	for i, xc := range xCol.Cells {
		yc := yCol.Cells[i]
		if xc.Missing || !plottable(yc) {
			continue
		}
		if numericX {
			if !plottable(xc) {
				continue
			}
			data = append(data, []interface{}{xc.Num, yc.Num})
			continue
		}
		key := xc.Key()
		if !seen[key] {
			seen[key] = true
			categories = append(categories, key)
		}
		data = append(data, []interface{}{key, yc.Num})
	}

	xAxis := eg.axis("value", spec.X, nil)
	if !numericX {
		if categories == nil {
			categories = []string{}
		}
		xAxis = eg.axis("category", spec.X, categories)
	}
	opt := eg.cartesian(spec, xAxis, map[string]interface{}{
		"type":       "scatter",
		"name":       spec.Y,
		"symbolSize": 10,
		"data":       data,
	})
	opt["tooltip"] = map[string]interface{}{"trigger": "item"}
	return opt
}

func (eg *EChartsGenerator) pieChart(spec ChartSpec, labels []string, values []float64) Option {
	data := make([]map[string]interface{}, 0, len(labels))
	for i, label := range labels {
		data = append(data, map[string]interface{}{"name": label, "value": values[i]})
	}
	opt := eg.base(spec)
	opt["legend"] = map[string]interface{}{
		"orient": "vertical",
		"left":   "left",
		"top":    "middle",
		"textStyle": map[string]interface{}{
			"color":      eg.style.ColorText,
			"fontFamily": eg.style.FontFamily,
		},
	}
	opt["series"] = []interface{}{
		map[string]interface{}{
			"type":   "pie",
			"name":   spec.Y,
			"radius": "55%",
			"center": []string{"60%", "55%"},
			"data":   data,
		},
	}
	return opt
}

// categoryTotals sums y per distinct x in first-appearance order
func categoryTotals(xCol, yCol *dataset.Column) ([]string, []float64) {
	labels := []string{}
	values := []float64{}
	index := make(map[string]int)
	for i, xc := range xCol.Cells {
		yc := yCol.Cells[i]
		if xc.Missing || !plottable(yc) {
			continue
		}
		key := xc.Key()
		j, ok := index[key]
		if !ok {
			j = len(labels)
			index[key] = j
			labels = append(labels, key)
			values = append(values, 0)
		}
		values[j] += yc.Num
	}

	// a total that overflowed cannot be drawn; drop its category
	kept := 0
	for i, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		labels[kept], values[kept] = labels[i], v
		kept++
	}
	return labels[:kept], values[:kept]
}

// rowPoints keeps one point per row in row order
func rowPoints(xCol, yCol *dataset.Column) ([]string, []float64) {
	labels := []string{}
	values := []float64{}
	for i, xc := range xCol.Cells {
		yc := yCol.Cells[i]
		if xc.Missing || !plottable(yc) {
			continue
		}
		labels = append(labels, xc.Key())
		values = append(values, yc.Num)
	}
	return labels, values
}

func plottable(c dataset.Cell) bool {
	return c.IsNumeric() && !math.IsInf(c.Num, 0)
}
