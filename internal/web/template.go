package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/ir-receiver/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"levelPercent": func(level uint8) int {
		return int(level) * 100 / 255
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>IR Receiver</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.active { color: green; font-weight: bold; }
.idle { color: #888; }
.calibrating { color: orange; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.bar { background: #eee; width: 100%; height: 12px; }
.bar-fill { background: green; height: 12px; }
</style>
</head>
<body>
<h1>IR Receiver</h1>

<h2>Signal</h2>
<table>
<tr><th>State</th><td class="{{if eq (stateOrUnknown (printf "%s" .State)) "ACTIVE"}}active{{else if eq (stateOrUnknown (printf "%s" .State)) "IDLE"}}idle{{else if eq (stateOrUnknown (printf "%s" .State)) "CALIBRATING"}}calibrating{{else}}unknown{{end}}">{{stateOrUnknown (printf "%s" .State)}}</td></tr>
<tr><th>Baseline</th><td>{{.Baseline}}</td></tr>
<tr><th>Output Level</th><td>{{.Level}} <div class="bar"><div class="bar-fill" style="width: {{levelPercent .Level}}%"></div></div></td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Serial Port</th><td>{{.Config.Port}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Signal Detected</th><td>{{.Counts.Detected}}</td></tr>
<tr><th>Signal Lost</th><td>{{.Counts.Lost}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Sample Rate</th><td>{{.Config.SampleRateHz}}Hz</td></tr>
<tr><th>Threshold</th><td>{{.Config.Threshold}}</td></tr>
<tr><th>Loss Timeout</th><td>{{.Config.LossTimeout}} samples</td></tr>
<tr><th>Baseline Samples</th><td>{{.Config.BaselineSamples}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<form method="POST" action="/recalibrate">
<button type="submit">Recalibrate</button>
</form>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
