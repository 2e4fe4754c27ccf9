package httpapi

import (
	"html/template"
	"net/http"

	"github.com/a3tai/loadsheet-reader/internal/render"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Loadsheet Reader</title>
</head>
<body>
<h1>Loadsheet Reader</h1>
<form action="/process-pdf" method="post" enctype="multipart/form-data">
<p><label>Load sheet (PDF) <input type="file" name="file" accept="application/pdf,.pdf" required></label></p>
<p><label>Captain <input type="text" name="captain"></label></p>
<p><label>Crew <select name="crew_choice">
{{- range .Crew}}
<option value="{{.}}">{{.}}</option>
{{- end}}
</select></label></p>
<p><label>Block fuel <input type="text" name="block_fuel" inputmode="numeric"></label></p>
<p><label>Profile <select name="profile">
{{- range .Profiles}}
<option value="{{.}}"{{if eq . $.Profile}} selected{{end}}>{{.}}</option>
{{- end}}
</select></label></p>
<p><label>Format <select name="format">
{{- range .Formats}}
<option value="{{.}}"{{if eq . $.Format}} selected{{end}}>{{.}}</option>
{{- end}}
</select></label></p>
<p><button type="submit">Process</button></p>
</form>
</body>
</html>
`))

type indexData struct {
	Crew     []string
	Profiles []string
	Profile  string
	Formats  []string
	Format   string
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	crew, err := h.service.CrewOptions()

	if err != nil {
		h.logger.Error("crew list unavailable", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	format := h.defaultFormat
	if format == "" {
		format = render.Default
	}

	data := indexData{
		Crew:     crew,
		Profiles: h.service.ProfileNames(),
		Profile:  h.service.DefaultProfile(),
		Formats:  render.Names(),
		Format:   format,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := indexTemplate.Execute(w, data); err != nil {
		h.logger.Error("index render failed", "error", err)
	}
}
