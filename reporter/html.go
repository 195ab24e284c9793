package reporter

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/samber/lo"

	"github.com/cypridina/glotk/utils"
)

// RenderError reports a failure to produce the HTML report tree. Completed
// assembler runs are untouched by a render failure.
type RenderError struct {
	Dir string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering report in %s: %v", e.Dir, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Render writes the full report tree into outDir: an index page, one page
// per run with its images and charts copied alongside, a cross-run N50
// chart and a machine-readable summary table. An empty entry list still
// produces a valid (empty) index.
func Render(entries []Entry, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return &RenderError{Dir: outDir, Err: err}
	}

	for _, e := range entries {
		if err := renderRun(e, outDir); err != nil {
			return &RenderError{Dir: outDir, Err: err}
		}
	}

	if len(entries) > 0 {
		if err := renderChartPage(filepath.Join(outDir, "n50_comparison.html"), n50BarChart(entries)); err != nil {
			return &RenderError{Dir: outDir, Err: err}
		}
		if err := writeSummary(entries, filepath.Join(outDir, "summary.csv")); err != nil {
			return &RenderError{Dir: outDir, Err: err}
		}
	}

	if err := renderIndex(entries, outDir); err != nil {
		return &RenderError{Dir: outDir, Err: err}
	}
	return nil
}

// renderRun writes <run>_report.html into outDir and copies the run's
// images and k-mer chart into outDir/<run>/.
func renderRun(e Entry, outDir string) error {
	assetDir := filepath.Join(outDir, e.RunName)
	if err := os.MkdirAll(assetDir, 0755); err != nil {
		return err
	}

	var images []string
	for _, img := range e.Images {
		dst := filepath.Join(assetDir, filepath.Base(img))
		if err := utils.CopyFile(img, dst); err != nil {
			return err
		}
		images = append(images, filepath.Join(e.RunName, filepath.Base(img)))
	}

	chartLink := ""
	if e.MercountHist != "" {
		line, err := kmerHistogramChart(e)
		if err == nil {
			chartPath := filepath.Join(assetDir, "kmer_histogram.html")
			if err := renderChartPage(chartPath, line); err != nil {
				return err
			}
			chartLink = filepath.Join(e.RunName, "kmer_histogram.html")
		}
	}

	data := struct {
		Entry
		RelImages []string
		ChartLink string
	}{Entry: e, RelImages: images, ChartLink: chartLink}

	f, err := os.Create(filepath.Join(outDir, e.RunName+"_report.html"))
	if err != nil {
		return err
	}
	if err := runTmpl.Execute(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func renderIndex(entries []Entry, outDir string) error {
	type row struct {
		Name        string
		MerSize     string
		DiploidMode string
		Scaffolds   int
		TotalLen    int
		N50         int
		Page        string
	}
	rows := lo.Map(entries, func(e Entry, _ int) row {
		r := row{
			Name:        e.RunName,
			MerSize:     e.MerSize,
			DiploidMode: e.DiploidMode,
			Page:        e.RunName + "_report.html",
		}
		if final, ok := e.FinalStats(); ok {
			r.Scaffolds = final.Stats.NumSeqs
			r.TotalLen = final.Stats.TotalLen
			r.N50 = final.Stats.N50
		}
		return r
	})

	data := struct {
		Rows     []row
		HasChart bool
	}{Rows: rows, HasChart: len(entries) > 0}

	f, err := os.Create(filepath.Join(outDir, "index.html"))
	if err != nil {
		return err
	}
	if err := indexTmpl.Execute(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeSummary emits a cross-run table ranked by final scaffold N50.
func writeSummary(entries []Entry, path string) error {
	records := [][]string{{"run", "mer_size", "diploid_mode", "scaffolds", "total_len", "n50"}}
	for _, e := range entries {
		final, ok := e.FinalStats()
		if !ok {
			continue
		}
		records = append(records, []string{
			e.RunName,
			e.MerSize,
			e.DiploidMode,
			strconv.Itoa(final.Stats.NumSeqs),
			strconv.Itoa(final.Stats.TotalLen),
			strconv.Itoa(final.Stats.N50),
		})
	}
	if len(records) == 1 {
		return nil
	}
	df := dataframe.LoadRecords(records)
	if df.Err != nil {
		return df.Err
	}
	df = df.Arrange(dataframe.RevSort("n50"))
	if df.Err != nil {
		return df.Err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(f, dataframe.WriteHeader(true)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var runTmpl = template.Must(template.New("run").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.RunName}}</title></head>
<body>
<h1>{{.RunName}}</h1>
<h2>Meraculous assembly QC analysis</h2>

<h3>Run params</h3>
<ul>
<li>mer_size: <code>{{.MerSize}}</code></li>
<li>diploid_mode: <code>{{.DiploidMode}}</code></li>
<li>genome_size: <code>{{.GenomeSize}}</code></li>
<li>min_depth_cutoff: <code>{{.MinDepthCutoff}}</code></li>
</ul>

{{if .ChartLink}}<p><a href="{{.ChartLink}}">Interactive k-mer depth histogram</a></p>{{end}}

{{range .RelImages}}
<p><img src="{{.}}" alt="{{.}}"></p>
{{end}}

<h3>Assembly stats</h3>
<table border="1" cellpadding="4">
<tr><th>stage</th><th>seqs</th><th>total len</th><th>mean</th><th>median</th><th>max</th><th>N50</th><th>GC</th></tr>
{{range .Stages}}
<tr>
<td>{{.Stage.Label}}</td>
<td>{{.Stats.NumSeqs}}</td>
<td>{{.Stats.TotalLen}}</td>
<td>{{printf "%.1f" .Stats.MeanLen}}</td>
<td>{{printf "%.1f" .Stats.MedianLen}}</td>
<td>{{.Stats.MaxLen}}</td>
<td>{{.Stats.N50}}</td>
<td>{{printf "%.3f" .Stats.GC}}</td>
</tr>
{{end}}
</table>

<p><a href="index.html">Back to index</a></p>
</body>
</html>
`))

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>gloTK assembly reports</title></head>
<body>
<h1>gloTK assembly reports</h1>
{{if .HasChart}}<p><a href="n50_comparison.html">Scaffold N50 comparison chart</a> &middot; <a href="summary.csv">summary.csv</a></p>{{end}}
<table border="1" cellpadding="4">
<tr><th>run</th><th>mer_size</th><th>diploid_mode</th><th>scaffolds</th><th>total len</th><th>N50</th></tr>
{{range .Rows}}
<tr>
<td><a href="{{.Page}}">{{.Name}}</a></td>
<td>{{.MerSize}}</td>
<td>{{.DiploidMode}}</td>
<td>{{.Scaffolds}}</td>
<td>{{.TotalLen}}</td>
<td>{{.N50}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))
