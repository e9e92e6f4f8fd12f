package http

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"

	"github.com/yanqian/faqfilter/internal/domain/faq"
)

//go:embed static
var staticFiles embed.FS

func staticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

const (
	scriptPath = "/static/faq-filter.js"
	stylePath  = "/static/faq-filter.css"
)

type pageView struct {
	Widgets []template.HTML
	Assets  faq.AssetPlan
	Script  string
	Style   string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>FAQ</title>
{{- if .Assets.Style}}
<link rel="stylesheet" href="{{.Style}}">
{{- end}}
</head>
<body>
<main>
{{- range .Widgets}}
{{.}}
{{- end}}
</main>
{{- if .Assets.Script}}
<script src="{{.Script}}" defer></script>
{{- end}}
</body>
</html>
`))

// renderPage composes the page from render results. Assets are included only
// for results that actually rendered.
func renderPage(results ...faq.RenderResult) ([]byte, error) {
	view := pageView{
		Assets: faq.PlanAssets(results...),
		Script: scriptPath,
		Style:  stylePath,
	}
	for _, r := range results {
		if r.Rendered {
			view.Widgets = append(view.Widgets, r.HTML)
		}
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
