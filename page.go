package webclient

import (
	"html/template"
	"io"
)

// Page is the document the client boots in.
type Page struct {
	Title    string
	Client   ClientConfig
	Launcher string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
html, body { overflow: hidden; margin: 0; padding: 0; height: 100%; width: 100%; background: #404040; }
canvas { margin-right: auto; margin-left: auto; display: block; position: absolute; top: 0; left: 0; width: 100%; height: 100%; }
.centered { margin-right: auto; margin-left: auto; display: block; position: absolute; top: 50%; left: 50%; transform: translate(-50%, -50%); color: #f0f0f0; font-size: 24px; font-family: Ubuntu-Light, Helvetica, sans-serif; text-align: center; }
</style>
</head>
<body>
<canvas id="{{.Client.CanvasID}}"></canvas>
<div class="centered" id="{{.Client.StatusID}}">
<p style="font-size:16px">Loading…</p>
</div>
<script id="` + ConfigElementID + `" type="application/json">{{.Client}}</script>
<script type="module" src="{{.Launcher}}"></script>
</body>
</html>
`))

func (p Page) Render(w io.Writer) error {
	return pageTemplate.Execute(w, p)
}
