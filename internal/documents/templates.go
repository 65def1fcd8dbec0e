// Package documents fills legal document templates with client, lawyer and
// case data and stores the rendered output.
package documents

import (
	"embed"
	"errors"
	"io/fs"
)

var ErrTemplateNotFound = errors.New("document template not found")

//go:embed templates/*.html
var embedded embed.FS

// DefaultTemplates returns the template files shipped with the binary.
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

type Template struct {
	ID   string `json:"templateId"`
	Name string `json:"name"`
	file string
}

var registry = []Template{
	{ID: "PROCURACAO_AD_JUDICIA", Name: "Procuração Ad Judicia", file: "procuracao_ad_judicia.html"},
	{ID: "CONTRATO_HONORARIOS", Name: "Contrato de Honorários", file: "contrato_honorarios.html"},
	{ID: "DECLARACAO_HIPOSSUFICIENCIA", Name: "Declaração de Hipossuficiência", file: "declaracao_hipossuficiencia.html"},
}

// Templates lists the available templates in a stable order.
func Templates() []Template {
	out := make([]Template, len(registry))
	copy(out, registry)
	return out
}

func lookup(id string) (Template, bool) {
	for _, t := range registry {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
