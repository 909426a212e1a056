package report

import (
	"html/template"
	"io"
	"os"
	"path/filepath"
)

const htmlTpl = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Editorial Performance Report</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; max-width: 960px; margin: 0 auto; padding: 20px; line-height: 1.6; color: #1e293b; }
        h1 { margin-bottom: 0; }
        .meta { color: #64748b; }
        .cards { display: flex; gap: 16px; }
        .card { flex: 1; padding: 16px; border-radius: 8px; background: #f8fafc; border: 1px solid #e2e8f0; }
        .card.top { background: #4f46e5; color: #fff; }
        .ups { font-size: 2em; font-weight: bold; }
        table { width: 100%; border-collapse: collapse; margin: 16px 0; }
        th, td { padding: 8px; border-bottom: 1px solid #e2e8f0; text-align: left; }
        td.num { text-align: right; font-variant-numeric: tabular-nums; }
        .above { background: #d1fae5; color: #047857; font-weight: bold; }
    </style>
</head>
<body>
    <h1>Editorial Performance Report</h1>
    <p class="meta">{{ .Date }} • {{ .Reconciliation }}</p>

    <div class="cards">
        <div class="card top">
            <div>Top Performer</div>
            <h2>{{ .Top.Theme }}</h2>
            <div class="ups">{{ .Top.UsersPerStory }} U/S</div>
            <div>Stories: {{ .Top.Stories }} • Reach: {{ .Top.Reach }}</div>
            <p>{{ .Top.Explanation }}</p>
        </div>
        <div class="card">
            <div>Bottom Performer</div>
            <h2>{{ .Bottom.Theme }}</h2>
            <div class="ups">{{ .Bottom.UsersPerStory }} U/S</div>
            <div>Stories: {{ .Bottom.Stories }} • Reach: {{ .Bottom.Reach }}</div>
            <p>{{ .Bottom.Explanation }}</p>
        </div>
    </div>

    <h2>Keyword Efficiency</h2>
    <table>
        <tr><th>Keyword</th><th>Stories</th><th>Total Users</th><th>U/S</th></tr>
        {{range .Keywords}}
        <tr><td>{{.Keyword}}</td><td class="num">{{.StoryCount}}</td><td class="num">{{.TotalUsers}}</td><td class="num">{{.UsersPerStory}}</td></tr>
        {{end}}
    </table>

    <h2>Themes</h2>
    <table>
        <tr><th>Theme</th><th>Stories</th><th>Total Users</th><th>U/S</th></tr>
        {{range .Themes}}
        <tr><td>{{.Theme}}</td><td class="num">{{.StoryCount}}</td><td class="num">{{.TotalUsers}}</td><td class="num{{if .AboveAverage}} above{{end}}">{{.UsersPerStory}}</td></tr>
        {{end}}
    </table>

    {{if .ThemeKeywords}}
    <h2>Theme Keywords</h2>
    <ul>
        {{range .ThemeKeywords}}
        <li><strong>{{.Theme}}</strong>: {{range $i, $k := .TopKeywords}}{{if $i}}, {{end}}{{$k}}{{end}}{{if .TopEntities}} ({{range $i, $e := .TopEntities}}{{if $i}}, {{end}}{{$e}}{{end}}){{end}}</li>
        {{end}}
    </ul>
    {{end}}

    {{if .Styles}}
    <h2>Headline Styles</h2>
    <table>
        <tr><th>Style</th><th>Avg U/S</th><th>Notes</th></tr>
        {{range .Styles}}
        <tr><td>{{.Style}}</td><td class="num">{{printf "%.0f" .AvgUsersPerStory}}</td><td>{{.Notes}}</td></tr>
        {{end}}
    </table>
    {{end}}

    <h2>Insights</h2>
    <ol>
        {{range .Insights}}<li>{{.}}</li>{{end}}
    </ol>

    <h2>Recommendations</h2>
    {{range .Recommendations}}
    <h3>{{.Title}}</h3>
    <ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul>
    {{end}}
</body>
</html>`

var reportTemplate = template.Must(template.New("report").Parse(htmlTpl))

// RenderHTML 渲染报告
func RenderHTML(w io.Writer, v *View) error {
	return reportTemplate.Execute(w, v)
}

// WriteFile 渲染报告并写入文件，必要时创建目录
func WriteFile(path string, v *View) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := RenderHTML(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
