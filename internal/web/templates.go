package web

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/watchfire-io/trajview/internal/buildinfo"
	"github.com/watchfire-io/trajview/internal/models"
	"github.com/watchfire-io/trajview/internal/view"
)

// ── Template helpers ──────────────────────────────────────────────────────────

var funcMap = template.FuncMap{
	"version": buildinfo.Short,
	"roleColor": func(r models.Role) string {
		switch r {
		case models.RoleSystem:
			return "#deb887"
		case models.RoleUser:
			return "#9370db"
		case models.RoleAssistant:
			return "#32cd32"
		case models.RoleTool:
			return "#1e90ff"
		}
		return "#9ca3af"
	},
	"roleName": view.RoleName,
	"outcomeClass": func(o view.Outcome) string {
		switch o {
		case view.OutcomeSuccess:
			return "ok"
		case view.OutcomeFailure:
			return "err"
		}
		return ""
	},
	"diffClass": func(line string) string {
		switch {
		case strings.HasPrefix(line, "diff --git"), strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			return "diff-file"
		case strings.HasPrefix(line, "@@"):
			return "diff-hunk"
		case strings.HasPrefix(line, "+"):
			return "diff-add"
		case strings.HasPrefix(line, "-"):
			return "diff-del"
		}
		return ""
	},
	"lines": func(s string) []string { return strings.Split(s, "\n") },
	"pct": func(n, total int) int {
		if total == 0 {
			return 0
		}
		return n * 100 / total
	},
}

var templates = map[string]*template.Template{}

func parse(tmplStr string) (*template.Template, error) {
	if t, ok := templates[tmplStr]; ok {
		return t, nil
	}
	return template.New("page").Funcs(funcMap).Parse(tmplBase + tmplStr)
}

func render(w http.ResponseWriter, tmplStr string, data any) {
	t, err := parse(tmplStr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		slog.Warn("template error", "error", err)
	}
}

func init() {
	templates[tmplIndex] = template.Must(template.New("page").Funcs(funcMap).Parse(tmplBase + tmplIndex))
}

// ── Base layout ───────────────────────────────────────────────────────────────

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{if .Task}}{{.Task.ID}} · {{end}}trajview</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:'JetBrains Mono',monospace,sans-serif;background:#0d1117;color:#c9d1d9;font-size:13px;line-height:1.5}
a{color:#58a6ff;text-decoration:none}
a:hover{text-decoration:underline}
nav{background:#161b22;border-bottom:1px solid #30363d;padding:8px 16px;display:flex;gap:16px;align-items:center;flex-wrap:wrap}
nav .brand{color:#f0f6fc;font-weight:700;font-size:15px;margin-right:4px}
nav .version{color:#6e7681;font-size:11px;margin-right:8px}
nav .counters{margin-left:auto;color:#8b949e}
.layout{display:flex;gap:16px;padding:16px;align-items:flex-start}
.sidebar{width:340px;flex-shrink:0}
.content{flex:1;min-width:0}
h1{font-size:16px;font-weight:700;color:#f0f6fc;margin-bottom:12px}
h2{font-size:13px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.06em;margin:16px 0 8px}
.cards{display:flex;gap:12px;flex-wrap:wrap;margin-bottom:16px}
.card{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:12px 16px;min-width:120px}
.card .val{font-size:22px;font-weight:700;color:#f0f6fc}
.card .lbl{font-size:11px;color:#8b949e;margin-top:2px}
.section{background:#161b22;border:1px solid #30363d;border-radius:6px;margin-bottom:16px;overflow:hidden}
.section-hdr{padding:8px 12px;border-bottom:1px solid #30363d;font-size:11px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.05em;background:#0d1117}
.list a{display:block;padding:3px 12px;border-bottom:1px solid #0d1117;color:#c9d1d9}
.list a.current{background:#1f6feb33;color:#f0f6fc}
.tag{display:inline-block;padding:1px 6px;border-radius:4px;font-size:11px;background:#21262d;color:#8b949e;border:1px solid #30363d}
.dim{color:#8b949e}
.ok{color:#56d364}
.err{color:#f87171}
.banner{background:#f8717122;border:1px solid #f87171;color:#fca5a5;border-radius:6px;padding:8px 12px;margin-bottom:12px}
.empty{padding:24px;text-align:center;color:#8b949e}
.step{border-left:3px solid #30363d;margin:0 0 12px;padding:6px 12px;background:#161b22;border-radius:0 6px 6px 0}
.step.focused{background:#1f6feb1a}
.step-hdr{font-weight:700;margin-bottom:4px}
pre{white-space:pre-wrap;word-break:break-word;font-family:monospace;font-size:12px;color:#c9d1d9}
.arg-key{color:#79c0ff;font-weight:600}
.block{margin:4px 0 6px;background:#0d1117;border-left:2px solid #30363d;padding:4px 8px 4px 10px;max-height:320px;overflow-y:auto}
.pager{display:flex;gap:8px;margin-bottom:12px;align-items:center}
.pager a,.pager span{padding:3px 10px;border:1px solid #30363d;border-radius:4px}
.pager span{color:#484f58}
.bar-wrap{background:#21262d;border-radius:3px;height:6px;width:120px;display:inline-block;vertical-align:middle}
.bar{background:#1f6feb;border-radius:3px;height:6px;display:block}
.diff-add{color:#56d364}
.diff-del{color:#f87171}
.diff-hunk{color:#79c0ff}
.diff-file{font-weight:700;color:#f0f6fc}
.filters{display:flex;gap:8px;flex-wrap:wrap;align-items:center;padding:8px 12px}
.filters label{font-size:11px;color:#8b949e}
.filters select{background:#0d1117;border:1px solid #30363d;color:#c9d1d9;border-radius:4px;padding:3px 6px;font-size:12px;font-family:inherit}
.filters button{background:#1f6feb;border:none;color:#fff;padding:4px 12px;border-radius:4px;cursor:pointer;font-size:12px}
</style>
</head>
<body>
<nav>
  <a class="brand" href="/">trajview</a><span class="version">{{version}}</span>
  {{if .Summary}}<span class="counters">{{.Summary.TotalInstances}} tasks · <span class="ok">✓ {{.Summary.ResolvedInstances}}</span> · <span class="err">✗ {{.Summary.UnresolvedInstances}}</span></span>{{end}}
</nav>
{{template "content" .}}
</body>
</html>{{end}}`

// ── Index page ────────────────────────────────────────────────────────────────

const tmplIndex = `
{{define "content"}}
<div class="layout">
<div class="sidebar">
  <div class="section">
    <div class="section-hdr">Filters</div>
    <form class="filters" method="get" action="/">
      <label>Project
        <select name="project">
          <option value="">any</option>
          {{range .Projects}}<option value="{{.}}"{{if eq . $.Filters.Project}} selected{{end}}>{{.}}</option>{{end}}
        </select>
      </label>
      <label>Status
        <select name="status">
          {{range .Statuses}}<option value="{{.}}"{{if eq . $.Filters.Status}} selected{{end}}>{{.}}</option>{{end}}
        </select>
      </label>
      <button type="submit">Apply</button>
    </form>
  </div>

  <div class="section">
    <div class="section-hdr">Tasks ({{len .Tasks}})</div>
    <div class="list">
    {{range .Tasks}}
      <a href="{{.Link}}"{{if .Current}} class="current"{{end}}>
        {{if .Missing}}<span class="dim">[·]</span>{{else if .Task.Resolved}}<span class="ok">[✓]</span>{{else}}<span class="err">[✗]</span>{{end}}
        {{.Task.ID}}
      </a>
    {{end}}
    </div>
  </div>

  {{if .Contents}}
  <div class="section">
    <div class="section-hdr">Contents</div>
    <div class="dim" style="padding:4px 12px">{{range .View.RoleCounts}}<span style="color:{{roleColor .Role}}">{{roleName .Role}}</span> {{.Count}} {{end}}</div>
    <div class="list">
    {{range .Contents}}
      <a href="{{.Link}}"{{if .Current}} class="current"{{end}}>
        {{.Number}}. <span style="color:{{roleColor .Role}}">{{.Title}}</span> <span class="dim">{{.Label}}</span> <span class="{{outcomeClass .Outcome}}">{{.Outcome.Marker}}</span>
      </a>
    {{end}}
    </div>
  </div>
  {{end}}
</div>

<div class="content">
  {{range .Errors}}<div class="banner">{{.}}</div>{{end}}

  {{if .Empty}}
  <div class="section"><div class="empty">{{.Empty}}. Change the filters to see tasks.</div></div>
  {{else if .Task}}
  <h1>{{.Task.ID}} {{if .Task.Resolved}}<span class="tag ok">resolved</span>{{else}}<span class="tag err">unresolved</span>{{end}}</h1>
  {{with .Task.PullURL}}<p class="dim" style="margin-bottom:12px"><a href="{{.}}">{{.}}</a></p>{{end}}

  <div class="pager">
    {{if .PrevTask}}<a href="{{.PrevTask}}">« task</a>{{else}}<span>« task</span>{{end}}
    {{if .NextTask}}<a href="{{.NextTask}}">task »</a>{{else}}<span>task »</span>{{end}}
    {{if .PrevStep}}<a href="{{.PrevStep}}">‹ step</a>{{else}}<span>‹ step</span>{{end}}
    {{if .NextStep}}<a href="{{.NextStep}}">step ›</a>{{else}}<span>step ›</span>{{end}}
    {{if .Toggle}}<a href="{{.Toggle}}">{{if eq .View.Mode "single"}}show all{{else}}single step{{end}}</a>{{end}}
    <a href="{{.Raw}}">download raw</a>
  </div>

  {{if .View.TaskID}}
  <div class="cards">
    <div class="card"><div class="val">{{.View.Summary.TotalSteps}}</div><div class="lbl">steps</div></div>
    <div class="card"><div class="val">{{.View.Summary.AssistantSteps}}</div><div class="lbl">assistant steps</div></div>
    <div class="card"><div class="val">{{.View.Summary.UniqueActions}}</div><div class="lbl">unique actions</div></div>
    <div class="card"><div class="val">{{len .View.Summary.FilesModified}}</div><div class="lbl">files modified</div></div>
    <div class="card"><div class="val">{{.View.Summary.ToolErrors}}</div><div class="lbl">tool errors</div></div>
  </div>

  {{range .View.Steps}}
  <div class="step{{if .Focused}} focused{{end}}" id="step-{{.Index}}" style="border-left-color:{{roleColor .Role}}">
    <div class="step-hdr" style="color:{{roleColor .Role}}">Step {{.Number}} · {{.Title}} <span class="{{outcomeClass .Outcome}}">{{.Outcome.Marker}}</span></div>
    {{if .Content}}<pre>{{.Content}}</pre>{{end}}
    {{if .ToolName}}
      <div><span class="arg-key">Tool call</span> {{.ToolName}} {{if .CallID}}<span class="dim">({{.CallID}})</span>{{end}}</div>
      {{if .RawArguments}}<pre class="block">{{.RawArguments}}</pre>{{end}}
      {{range .Arguments}}
        {{if .Block}}<div class="arg-key">{{.Key}}:</div><pre class="block">{{.Value}}</pre>
        {{else}}<pre><span class="arg-key">{{.Key}}:</span> {{.Value}}</pre>{{end}}
      {{end}}
    {{end}}
  </div>
  {{end}}

  {{with .View.Summary}}{{if .Actions}}
  <h2>Actions</h2>
  <div class="section" style="padding:8px 12px">
    {{$top := (index .Actions 0).Count}}
    {{range .Actions}}<div>{{.Name}} <span class="dim">{{.Count}}</span> <span class="bar-wrap"><span class="bar" style="width:{{pct .Count $top}}%"></span></span></div>{{end}}
  </div>
  {{end}}{{end}}
  {{else}}
  <div class="section"><div class="empty">No trajectory loaded for this task.</div></div>
  {{end}}

  <h2>Predicted patch</h2>
  <div class="section" style="padding:8px 12px">
  {{if .Patch}}<pre>{{range lines .Patch.Patch}}<span class="{{diffClass .}}">{{.}}</span>
{{end}}</pre>{{else}}<span class="dim">No prediction recorded.</span>{{end}}
  </div>
  {{end}}
</div>
</div>
{{end}}`
