package notification

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// md renders without raw HTML, so user supplied text cannot inject markup.
var md = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`,
)

var bodies = template.Must(template.New("").Funcs(template.FuncMap{
	"md": mdEscaper.Replace,
}).Parse(`
{{define "customer"}}## Reservation Confirmed

{{md .Name}}, your session for **{{.Slot}}** has been reserved!

Please complete your payment here: <{{.PaymentURL}}>

Reference: ` + "`{{.Reference}}`" + `

Thank you for booking with {{md .BusinessName}}!
{{end}}

{{define "admin"}}## New Reservation

**{{.Slot}}**

- Name: {{md .Name}}
- Email: {{md .Email}}
- Phone: {{md .Phone}}
- Reference: ` + "`{{.Reference}}`" + `
{{end}}
`))

type bodyData struct {
	Name         string
	Email        string
	Phone        string
	Slot         string
	PaymentURL   string
	Reference    string
	BusinessName string
}

func renderBody(name string, data bodyData) (string, error) {
	var src bytes.Buffer
	if err := bodies.ExecuteTemplate(&src, name, data); err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := md.Convert(src.Bytes(), &out); err != nil {
		return "", err
	}
	return out.String(), nil
}
