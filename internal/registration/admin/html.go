package admin

import (
	"html/template"
	"io"
	"strings"

	"regdesk/internal/registration/models"
)

var tableTemplate = template.Must(template.New("admin").Parse(`<div class="km-admin">
<p class="km-admin-stats">Total: <strong>{{.Total}}</strong> · Today: <strong>{{.Today}}</strong></p>
<table class="km-table">
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}<th></th></tr></thead>
<tbody>
{{- if .Empty}}
<tr><td colspan="{{len .Headers}}" class="km-table-empty">` + MsgEmpty + `</td></tr>
{{- else}}{{range .Rows}}
<tr><td><span class="km-table-id">{{.RegistrationID}}</span></td>{{range .Cells}}<td>{{.}}</td>{{end}}<td class="km-table-time">{{.RegisteredAt}}</td><td><button class="km-btn-del" data-id="{{.RegistrationID}}" aria-label="Delete">Del</button></td></tr>
{{- end}}{{end}}
</tbody>
</table>
</div>
`))

// RenderHTML writes the table markup. Cell text is escaped.
func RenderHTML(w io.Writer, t Table) error {
	return tableTemplate.Execute(w, t)
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<div class="km-print">
<h2 class="km-print-title">{{.Title}}</h2>
{{- if .Photo}}
<div class="km-print-photo"><img src="{{.Photo}}" alt="Photo" /></div>
{{- end}}
{{- range .Rows}}
<div class="km-print-row"><span class="km-print-label">{{.Label}}:</span><span class="km-print-val">{{.Value}}</span></div>
{{- end}}
</div>
`))

type receiptView struct {
	Title string
	Photo template.URL
	Rows  []models.SuccessRow
}

// RenderReceipt writes the printable receipt of one record. The photo is
// only embedded when it is an image data URI.
func RenderReceipt(w io.Writer, title string, rows []models.SuccessRow, photoData string) error {
	view := receiptView{Title: title, Rows: rows}
	if strings.HasPrefix(photoData, "data:image/jpeg;base64,") || strings.HasPrefix(photoData, "data:image/png;base64,") {
		view.Photo = template.URL(photoData) //nolint:gosec // accepted uploads only
	}
	return receiptTemplate.Execute(w, view)
}
