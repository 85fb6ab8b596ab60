package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"jira-digest/internal/activity"
	"jira-digest/internal/digest"
	"jira-digest/internal/summary"
	"jira-digest/internal/visuals"
)

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"duration":      summary.FormatDuration,
	"describe":      describe,
	"activityChart": visuals.ActivityChart,
	"statusFlow":    visuals.StatusFlow,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Jira digest {{.Project}} {{.Date}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h2 { border-bottom: 1px solid #ccc; padding-bottom: .2em; }
pre { white-space: pre-wrap; background: #f6f8fa; padding: 1em; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #ddd; padding: .3em .6em; text-align: left; vertical-align: top; }
.warn { color: #a40; }
</style>
</head>
<body>
<h1>Jira actions for {{.Project}} on {{.Date}}</h1>
<p>Timezone {{.Timezone}}</p>
{{if .FailedIssues}}<p class="warn">{{len .FailedIssues}} of {{.Discovered}} issues could not be loaded: {{range $i, $k := .FailedIssues}}{{if $i}}, {{end}}{{$k}}{{end}}</p>{{end}}
{{if not .Users}}<p>No activity today.</p>{{end}}
{{with activityChart .Groups}}<pre class="mermaid">{{.}}</pre>{{end}}
{{range .Users}}
<h2>{{.Actor.Name}} ({{len .Actions}} actions)</h2>
<p>Created {{.Stats.Created}} &middot; status {{.Stats.StatusChangeIssueCount}} &middot; comments {{.Stats.Comments}} &middot; worklogs {{.Stats.Worklogs}} ({{duration .Stats.WorklogSeconds}})</p>
{{if .Summary}}<pre>{{.Summary}}</pre>{{end}}
{{with .IssuesURL}}<p><a href="{{.}}">Open these issues in Jira</a></p>{{end}}
{{with statusFlow .Actions}}<pre class="mermaid">{{.}}</pre>{{end}}
<table>
<tr><th>Time</th><th>Issue</th><th>Action</th></tr>
{{range .Actions}}<tr><td>{{$.Clock .At}}</td><td><a href="{{.Issue.URL}}">{{.Issue.Key}}</a> {{.Issue.Summary}}</td><td>{{describe .}}</td></tr>
{{end}}</table>
{{end}}
{{if .Idle}}
<h2>No actions</h2>
<ul>
{{range .Idle}}<li>{{.Actor.Name}}{{if .LastActionDate}} (last action {{.LastActionDate}}{{with .DaysSinceLastAction}}, {{.}} business days ago{{end}}){{end}}</li>
{{end}}</ul>
{{end}}
{{if .Users}}<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: true });
</script>{{end}}
</body>
</html>
`))

// page binds the report to the zone its clock times are shown in.
type page struct {
	*digest.Report
	loc *time.Location
}

// Clock formats t as HH:mm in the report's timezone.
func (p page) Clock(t time.Time) string {
	return t.In(p.loc).Format("15:04")
}

// RenderHTML renders the digest as a standalone HTML page.
func RenderHTML(r *digest.Report) ([]byte, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		loc = time.UTC
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page{Report: r, loc: loc}); err != nil {
		return nil, fmt.Errorf("failed to render html report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTML writes the page to dir and returns its path.
func WriteHTML(dir string, r *digest.Report) (string, error) {
	content, err := RenderHTML(r)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("report-%s-%s.html", SafeName(r.Project), r.Date)
	return writeFile(dir, name, string(content))
}

func describe(a activity.Action) string {
	switch d := a.Details.(type) {
	case activity.CreatedDetails:
		return "Created in " + d.Status
	case activity.StatusChangeDetails:
		return d.From + " -> " + d.To
	case activity.CommentDetails:
		return "Comment: " + d.Excerpt
	case activity.WorklogDetails:
		text := "Logged " + summary.FormatDuration(d.TimeSpentSeconds)
		if d.Comment != "" {
			text += ": " + d.Comment
		}
		return text
	default:
		return string(a.Kind)
	}
}
