package web

import (
	"html/template"

	"portdash/internal/scan"
)

type pageData struct {
	Host     string
	External string
	Controls bool
	Services []scan.ServiceRecord
}

var pageTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Running Services</title>
    <style>
        table { border-collapse: collapse; width: 100%; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f2f2f2; }
    </style>
</head>
<body>
    <h1>Running Services</h1>
    <table>
        <tr>
            <th>Name</th>
            <th>Port</th>
            <th>Protocol</th>
            <th>Uptime</th>
            <th>CPU %</th>
            <th>RAM (MB)</th>
            <th>Forwarded</th>
            <th>Path</th>
            {{- if .External}}
            <th>External</th>
            {{- end}}
            {{- if .Controls}}
            <th>Stop</th>
            <th>Restart</th>
            {{- end}}
        </tr>
        {{- range .Services}}
        <tr>
            <td><a href="http://{{$.Host}}:{{.Port}}" target="_blank">{{.Name}}</a></td>
            <td>{{.Port}}</td>
            <td>{{.Protocol}}</td>
            <td>{{.UptimeString}}</td>
            <td>{{printf "%.1f" .CPUPercent}}</td>
            <td>{{printf "%.1f" .MemoryMB}}</td>
            <td>{{if .Reachable}}Yes{{else}}No{{end}}</td>
            <td>{{.Path}}</td>
            {{- if $.External}}
            <td><a href="{{$.External}}:{{.Port}}" target="_blank">External</a></td>
            {{- end}}
            {{- if $.Controls}}
            <td>
                <form method="post" action="/stop/{{.PID}}">
                    <button type="submit">Stop</button>
                </form>
            </td>
            <td>
                <form method="post" action="/restart/{{.PID}}">
                    <input type="text" name="cmd" placeholder="restart command">
                    <button type="submit">Restart</button>
                </form>
            </td>
            {{- end}}
        </tr>
        {{- end}}
        {{- if .Controls}}
        <tr>
            <td colspan="10">
                <form method="post" action="/add">
                    <input type="text" name="path" placeholder="path to new service">
                    <button type="submit">Add Service</button>
                </form>
            </td>
        </tr>
        {{- end}}
    </table>
</body>
</html>
`))
