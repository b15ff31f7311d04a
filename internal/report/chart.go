package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/probelab/pingmon/internal/store"
)

// metric selects which probe value a chart plots.
type metric int

const (
	metricLatency metric = iota
	metricMTU
)

var chartPage = template.Must(template.New("chart").Parse(`<html>
  <head>
    <script type='text/javascript' src='https://www.gstatic.com/charts/loader.js'></script>
    <script type='text/javascript'>
      google.charts.load('current', {'packages':['annotationchart']});
      google.charts.setOnLoadCallback(drawChart);
      function drawChart() {
        var data1 = new google.visualization.DataTable();
        {{.LatencyColumns}}
        data1.addRows([
            {{.LatencyRows}}
        ]);

        var chart1 = new google.visualization.AnnotationChart(document.getElementById('chart_div1'));
        chart1.draw(data1, {
          displayAnnotations: true,
          scaleType: 'allfixed',
          legendPosition: 'newRow',
          thickness: 2,
          zoomStartTime: new Date(new Date().getTime() - 24*60*60*1000)
        });

        var data2 = new google.visualization.DataTable();
        {{.MTUColumns}}
        data2.addRows([
            {{.MTURows}}
        ]);

        var chart2 = new google.visualization.AnnotationChart(document.getElementById('chart_div2'));
        chart2.draw(data2, {
          displayAnnotations: true,
          scaleType: 'allfixed',
          legendPosition: 'newRow',
          thickness: 2,
          zoomStartTime: new Date(new Date().getTime() - 24*60*60*1000)
        });
      }
    </script>
  </head>

  <body>
    <div id='chart_div1' style='width: 900px; height: 500px;'></div>
    <div id='chart_div2' style='width: 900px; height: 500px;'></div>
  </body>
</html>
`))

// chartData carries pre-rendered chart JS fragments into the template.
type chartData struct {
	LatencyColumns template.JS
	LatencyRows    template.JS
	MTUColumns     template.JS
	MTURows        template.JS
}

func buildChartData(snap store.Snapshot) chartData {
	return chartData{
		LatencyColumns: template.JS(columnsJS("data1", snap.Targets)),
		LatencyRows:    template.JS(rowsJS(snap, metricLatency)),
		MTUColumns:     template.JS(columnsJS("data2", snap.Targets)),
		MTURows:        template.JS(rowsJS(snap, metricMTU)),
	}
}

// columnsJS emits one date column plus a number column per target.
func columnsJS(table string, targets []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s.addColumn('date', 'Date');\n", table)
	for _, target := range targets {
		fmt.Fprintf(&b, "%s.addColumn('number', '%s');\n", table, jsEscape(target))
	}
	return b.String()
}

// rowsJS emits one addRows entry per snapshot row. JavaScript Date months
// are zero-based.
func rowsJS(snap store.Snapshot, m metric) string {
	rows := make([]string, 0, len(snap.Rows))
	for _, row := range snap.Rows {
		var b strings.Builder
		fmt.Fprintf(&b, "[new Date(%d, %d, %d, %d, %d), ",
			row.At.Year(), int(row.At.Month())-1, row.At.Day(),
			row.At.Hour(), row.At.Minute())
		for i, cell := range row.Cells {
			val := cell.LatencyMicros
			if m == metricMTU {
				val = cell.MTU
			}
			b.WriteString(formatValue(val))
			if i < len(row.Cells)-1 {
				b.WriteString(", ")
			}
		}
		b.WriteByte(']')
		rows = append(rows, b.String())
	}
	return strings.Join(rows, ",\n")
}

func formatValue(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func jsEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
