package report

import (
	"html"
	"html/template"
	"io"
	"strings"
)

// HTML renders a report as a standalone page with the classic
// two-column add/chg/sub table.
type HTML struct {
	// Separators draws a thin border after every 8-column field slot,
	// which makes column misalignment easy to spot.
	Separators bool
}

type htmlRow struct {
	ClassA, ClassB string
	A, B           template.HTML
}

type htmlSideBySide struct {
	A, B    string
	Changed bool
}

type htmlData struct {
	PathA, PathB string
	Exec, Case   []htmlSideBySide
	Rows         []htmlRow
	DiagsA       []DiagView
	DiagsB       []DiagView
}

// Render writes the full HTML document for rep to w.
func (h HTML) Render(w io.Writer, rep *Report) error {
	data := htmlData{
		PathA:  rep.PathA,
		PathB:  rep.PathB,
		Exec:   sideBySide(rep.ExecA, rep.ExecB),
		Case:   sideBySide(rep.CaseA, rep.CaseB),
		DiagsA: rep.DiagnosticsA,
		DiagsB: rep.DiagnosticsB,
	}
	for _, m := range rep.Modified {
		data.Rows = append(data.Rows, htmlRow{
			ClassA: "diff_chg", ClassB: "diff_chg",
			A: h.cardHTML(m.A.Text), B: h.cardHTML(m.B.Text),
		})
	}
	for _, c := range rep.Removed {
		data.Rows = append(data.Rows, htmlRow{
			ClassA: "diff_sub",
			A:      h.cardHTML(c.Text),
		})
	}
	for _, c := range rep.Added {
		data.Rows = append(data.Rows, htmlRow{
			ClassB: "diff_add",
			B:      h.cardHTML(c.Text),
		})
	}
	return htmlTemplate.Execute(w, data)
}

// cardHTML escapes one rendered card and optionally wraps every
// 8-column slot in a separator span.
func (h HTML) cardHTML(text string) template.HTML {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if b.Len() > 0 {
			b.WriteString("<br />")
		}
		if !h.Separators {
			b.WriteString(html.EscapeString(line))
			continue
		}
		for i := 0; i < len(line); i += 8 {
			end := i + 8
			if end > len(line) {
				end = len(line)
			}
			b.WriteString(`<span class="bde_sep">`)
			b.WriteString(html.EscapeString(line[i:end]))
			b.WriteString(`</span>`)
		}
	}
	return template.HTML(b.String())
}

func sideBySide(a, b []string) []htmlSideBySide {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]htmlSideBySide, n)
	for i := 0; i < n; i++ {
		if i < len(a) {
			out[i].A = a[i]
		}
		if i < len(b) {
			out[i].B = b[i]
		}
		out[i].Changed = out[i].A != out[i].B
	}
	return out
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8" />
<title>deck comparison</title>
<style type="text/css">
table.diff {font-family:Courier; border:medium;}
.diff_header {background-color:#e0e0e0}
td.diff_header {text-align:right}
.diff_add {background-color:#aaffaa; white-space: pre; }
.diff_chg {background-color:#ffff77; white-space: pre; }
.diff_sub {background-color:#ffaaaa; white-space: pre; }
span.bde_sep {border-right: solid #ff0000 1px; white-space: pre; }
td.plain {white-space: pre; font-family:Courier;}
</style>
</head>
<body>
<table class="diff" summary="Legends">
  <tr> <th colspan="2"> Legends </th> </tr>
  <tr> <td> <table border="" summary="Colors">
    <tr><th> Colors </th> </tr>
    <tr><td class="diff_add">&nbsp;Added&nbsp;</td></tr>
    <tr><td class="diff_chg">Changed</td> </tr>
    <tr><td class="diff_sub">Deleted</td> </tr>
  </table></td> </tr>
</table>
<h2>Executive Control</h2>
<table class="diff" cellspacing="0" cellpadding="0" rules="groups">
  <thead><tr><th class="diff_header">{{.PathA}}</th><th class="diff_header">{{.PathB}}</th></tr></thead>
  <tbody>
{{range .Exec}}  <tr><td class="plain{{if .Changed}} diff_chg{{end}}">{{.A}}</td><td class="plain{{if .Changed}} diff_chg{{end}}">{{.B}}</td></tr>
{{end}}  </tbody>
</table>
<h2>Case Control</h2>
<table class="diff" cellspacing="0" cellpadding="0" rules="groups">
  <thead><tr><th class="diff_header">{{.PathA}}</th><th class="diff_header">{{.PathB}}</th></tr></thead>
  <tbody>
{{range .Case}}  <tr><td class="plain{{if .Changed}} diff_chg{{end}}">{{.A}}</td><td class="plain{{if .Changed}} diff_chg{{end}}">{{.B}}</td></tr>
{{end}}  </tbody>
</table>
<h2>Bulk Data</h2>
<p>Note that the bulk data cards may be re-ordered.
The position of each entry within the following table is very likely meaningless.</p>
<table class="diff" cellspacing="0" cellpadding="0" rules="groups">
  <colgroup></colgroup> <colgroup></colgroup>
  <thead><tr><th class="diff_header">{{.PathA}}</th><th class="diff_header">{{.PathB}}</th></tr></thead>
  <tbody>
{{range .Rows}}  <tr><td nowrap="nowrap"><span class="{{.ClassA}}">{{.A}}</span></td><td nowrap="nowrap"><span class="{{.ClassB}}">{{.B}}</span></td></tr>
{{end}}  </tbody>
</table>
{{if or .DiagsA .DiagsB}}<h2>Diagnostics</h2>
<table class="diff" cellspacing="0" cellpadding="0" rules="groups">
  <thead><tr><th class="diff_header">{{.PathA}}</th><th class="diff_header">{{.PathB}}</th></tr></thead>
  <tbody>
{{range .DiagsA}}  <tr><td class="plain">{{.Code}} {{.Severity}} {{.Where}} {{.Message}}</td><td></td></tr>
{{end}}{{range .DiagsB}}  <tr><td></td><td class="plain">{{.Code}} {{.Severity}} {{.Where}} {{.Message}}</td></tr>
{{end}}  </tbody>
</table>
{{end}}</body>
</html>
`))
