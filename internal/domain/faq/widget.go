package faq

import "html/template"

type widgetView struct {
	InstanceID string
	Endpoint   string
	Action     string
	Token      string
	Messages   Messages
	Categories []Category
	SelectedID int64
	Current    string
	Results    template.HTML
	Schema     template.JS
}

var widgetTemplate = template.Must(template.New("widget").Parse(`<div class="faq-filter" id="{{.InstanceID}}" data-instance="{{.InstanceID}}" data-endpoint="{{.Endpoint}}" data-action="{{.Action}}" data-token="{{.Token}}" data-msg-loading="{{.Messages.Loading}}" data-msg-error="{{.Messages.Failure}}">
<label class="faq-filter__label" for="{{.InstanceID}}-select">{{.Messages.FilterLabel}}</label>
<select class="faq-filter__select" id="{{.InstanceID}}-select" name="faq-category" aria-controls="{{.InstanceID}}-results">
<option value="all"{{if eq .SelectedID 0}} selected{{end}}>{{.Messages.AllCategories}}</option>
{{- range .Categories}}
<option value="{{.ID}}"{{if eq .ID $.SelectedID}} selected{{end}}>{{.Name}}</option>
{{- end}}
</select>
<p class="faq-filter__current" data-role="current-category">{{.Current}}</p>
<div class="faq-filter__status" role="status" aria-live="polite"></div>
<div class="faq-filter__results" id="{{.InstanceID}}-results">{{.Results}}</div>
{{- if .Schema}}
<script type="application/ld+json">{{.Schema}}</script>
{{- end}}
</div>`))
