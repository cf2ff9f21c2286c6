package server

import (
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>histochart</title>
  <style>
    body { font-family: sans-serif; margin: 2rem; color: #222; }
    .bar { shape-rendering: crispEdges; }
    footer { color: #888; font-size: 12px; margin-top: 1rem; }
  </style>
</head>
<body>
  <h1>Histogram</h1>
  <div class="chart">{{.Chart}}</div>
  <form method="post" action="/generate">
    <button type="submit">Generate new data</button>
  </form>
  <footer>{{.Values}} values in {{.Bins}} bins · dataset #{{.Rounds}} · {{.Version}}</footer>
</body>
</html>
`))

type pageData struct {
	Chart   template.HTML
	Values  int
	Bins    int
	Rounds  int
	Version string
}

func renderPage(w io.Writer, snap snapshot, version string) error {
	return pageTemplate.Execute(w, pageData{
		// scene.RenderSVG escapes every attribute and text node.
		Chart:   template.HTML(snap.SVG),
		Values:  snap.Values,
		Bins:    snap.Bins,
		Rounds:  snap.Rounds + 1,
		Version: version,
	})
}
