package reporter

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/go-gota/gota/dataframe"
)

// loadMercountHist reads a Meraculous mercount histogram (depth, count
// columns) into a dataframe. The file is whitespace-delimited with no
// header.
func loadMercountHist(path string) (dataframe.DataFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	// Squash runs of whitespace so gota sees a single-rune delimiter.
	var sb strings.Builder
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		sb.WriteString(fields[0] + " " + fields[1] + "\n")
	}
	df := dataframe.ReadCSV(strings.NewReader(sb.String()),
		dataframe.WithDelimiter(' '),
		dataframe.HasHeader(false),
		dataframe.Names("Depth", "Count"),
	)
	if df.Err != nil {
		return df, fmt.Errorf("parsing mercount histogram %s: %w", path, df.Err)
	}
	return df, nil
}

// kmerHistogramChart turns a run's mercount histogram into a line chart.
func kmerHistogramChart(e Entry) (*charts.Line, error) {
	df, err := loadMercountHist(e.MercountHist)
	if err != nil {
		return nil, err
	}
	depths := df.Col("Depth").Float()
	counts := df.Col("Count").Float()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s k-mer depth histogram (k=%s)", e.RunName, e.MerSize)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "k-mer depth"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Distinct k-mers"}),
	)
	x := make([]int, 0, len(depths))
	var yData []opts.LineData
	for i := range depths {
		x = append(x, int(depths[i]))
		yData = append(yData, opts.LineData{Value: counts[i]})
	}
	smooth := true
	line.SetXAxis(x).AddSeries("mercount", yData).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: &smooth}))
	return line, nil
}

// n50BarChart compares final-stage scaffold N50 across all collated runs.
func n50BarChart(entries []Entry) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Scaffold N50 by assembly"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "N50 (bp)"}),
	)
	var names []string
	var yData []opts.BarData
	for _, e := range entries {
		final, ok := e.FinalStats()
		if !ok {
			continue
		}
		names = append(names, e.RunName)
		yData = append(yData, opts.BarData{Value: final.Stats.N50})
	}
	bar.SetXAxis(names).AddSeries("N50", yData)
	return bar
}

// renderChartPage writes one or more charts onto a single HTML page.
func renderChartPage(path string, chartList ...components.Charter) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(chartList...)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
