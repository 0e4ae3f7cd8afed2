package bootstrap

import (
	"bytes"
	"html/template"
)

var failureReport = template.Must(template.New("failure").Parse(`
<p>
    An error occurred during loading:
</p>
<p style="font-family:Courier New">
    {{.}}
</p>
<p style="font-size:14px">
    Make sure you use a modern browser with WebGL and WASM enabled.
</p>`))

var crashReport = template.Must(template.New("crash").Parse(`
<p>
    The app has crashed.
</p>
<p style="font-size:10px" align="left">
    {{.Message}}
</p>
<p style="font-size:14px">
    See the console for details.
</p>
<p style="font-size:14px">
    Reload the page to try again.
</p>`))

func renderFailure(err error) string {
	var buf bytes.Buffer
	// the template only prints a string, Execute cannot fail on it
	_ = failureReport.Execute(&buf, err.Error())
	return buf.String()
}

func renderCrash(message string) string {
	var buf bytes.Buffer
	_ = crashReport.Execute(&buf, struct{ Message string }{message})
	return buf.String()
}
