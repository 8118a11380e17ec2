package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

// Chart describes one chart widget on the report page.
type Chart struct {
	Platform string
	Metric   string // "wall" or "memory"
	Label    string // axis label, e.g. "Wall Time (s)"
	DataJSON template.JS
}

// NewChart builds a chart descriptor with the table pre-marshaled for
// embedding. Tables only ever hold strings and floats, so marshaling
// cannot fail and stays byte-stable across runs.
func NewChart(platform, metric, label string, data Table) Chart {
	b, _ := json.Marshal(data)
	return Chart{
		Platform: platform,
		Metric:   metric,
		Label:    label,
		DataJSON: template.JS(b),
	}
}

// ID is the DOM element id of the chart container.
func (c Chart) ID() string { return c.Platform + "-" + c.Metric }

// Title is the chart heading shown by the charting library.
func (c Chart) Title() string {
	return fmt.Sprintf("[%s] Bar Chart of %s vs Runs", c.Platform, c.Label)
}

// PlatformSection groups the charts rendered for one platform.
type PlatformSection struct {
	Name   string
	Charts []Chart
}

// Page is the typed input to Render: descriptive metadata plus the
// ordered chart descriptors, one section per platform.
type Page struct {
	Project   string
	Date      string
	Platforms []PlatformSection
}

var reportTemplate = template.Must(template.New("report").Parse(`<html>
  <head>
    <script type="text/javascript" src="https://www.gstatic.com/charts/loader.js"></script>
    <script type="text/javascript">
      google.charts.load("current", { packages:["corechart"] });
    </script>
    <link rel="stylesheet" href="https://stackpath.bootstrapcdn.com/bootstrap/4.3.1/css/bootstrap.min.css" integrity="sha384-ggOyR0iXCbMQv3Xipma34MD+dH/1fQ784/j6cY/iJTQUOhcWr7x9JvoRxT2MZw1T" crossorigin="anonymous">
  </head>
  <body style="font-family: Roboto;">
    <div class="container-fluid">
      <div class="row">
        <div class="col-sm-12">
          <h1>[{{.Project}}] Report for {{.Date}}</h1>
        </div>
      </div>
{{- range .Platforms}}
      <div class="row">
        <div class="col-sm-5"><h2>{{.Name}}</h2></div>
      </div>
      <div class="row">
{{- range .Charts}}
        <div class="col-sm-10">
          <script type="text/javascript">
            google.charts.setOnLoadCallback(drawChart);
            function drawChart() {
              var data = google.visualization.arrayToDataTable({{.DataJSON}});
              var options = {
                title: "{{.Title}}",
                hAxis: {
                  title: "{{.Label}}",
                  minValue: 0,
                },
                vAxis: {
                  title: "Runs (chronological order)"
                },
                bars: "horizontal",
                axes: {
                  y: {
                    0: { side: "right" }
                  }
                },
                isStacked: true
              };
              var chart = new google.visualization.BarChart(document.getElementById("{{.ID}}"));
              chart.draw(data, options);
            }
          </script>
          <div id="{{.ID}}" style="height: 800px"></div>
        </div>
{{- end}}
      </div>
{{- end}}
    </div>
  </body>
</html>
`))

// Render assembles the full report document in memory. Nothing touches
// the filesystem here, so a failed render never leaves a partial file.
func Render(page Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, page); err != nil {
		return nil, &RenderError{Path: "", Err: err}
	}
	return buf.Bytes(), nil
}
