package templates

import (
	"bytes"
	"fmt"
	"text/template"
)

// ClientsFileData is everything the clients template needs to render one
// generated file.
type ClientsFileData struct {
	PackageName string
	Services    []ServiceData
}

// ServiceData is one service interface and its generated adapter.
type ServiceData struct {
	// Name is the interface identifier, also used as the catalog entry name.
	Name string

	// ImportPath is the declaring package's import path, recorded in the
	// catalog binding.
	ImportPath string

	// AdapterName is the unexported adapter struct identifier.
	AdapterName string

	Methods []MethodData
}

// MethodData is one adapter method.
type MethodData struct {
	Name       string
	Params     []ParamData
	HasContext bool

	// Result is the value result type, empty when the method only returns
	// error.
	Result string

	// HTTPMethod and Path are the call annotation values, empty when the
	// method carries none.
	HTTPMethod string
	Path       string
}

// ParamData is one adapter method parameter.
type ParamData struct {
	Name string
	Type string
}

// Header marks generated files. The cleaner refuses to touch files without
// it.
const Header = "// Code generated by clientwire. DO NOT EDIT."

var clientsTemplate = template.Must(template.New("clients").Parse(`{{.Header}}

package {{.PackageName}}

import (
	"context"

	"github.com/clientwire/clientwire/pkg/clientwire"
)

func init() {
{{- range .Services}}
	clientwire.RegisterBinding(clientwire.Binding{
		Type:       clientwire.TypeOf[{{.Name}}](),
		ImportPath: "{{.ImportPath}}",
		Name:       "{{.Name}}",
		New:        func(c clientwire.Client) any { return &{{.AdapterName}}{c: c} },
	})
{{- end}}
}
{{range .Services}}{{$service := .}}
type {{.AdapterName}} struct {
	c clientwire.Client
}
{{range .Methods}}
func (a *{{$service.AdapterName}}) {{.Name}}({{template "paramList" .}}) {{template "resultList" .}} {
{{- if not .HasContext}}
	ctx := context.Background()
{{- end}}
{{- if .Result}}
	var out {{.Result}}
{{- end}}
	err := a.c.Invoke(ctx, clientwire.Call{
		Service:    "{{$service.Name}}",
		Method:     "{{.Name}}",
		HTTPMethod: "{{.HTTPMethod}}",
		Path:       "{{.Path}}",
	}, []any{{"{"}}{{range $i, $p := .Params}}{{if $i}}, {{end}}{{$p.Name}}{{end}}{{"}"}}, {{if .Result}}&out{{else}}nil{{end}})
{{- if .Result}}
	return out, err
{{- else}}
	return err
{{- end}}
}
{{end}}{{end}}`))

var paramListTemplate = template.Must(template.New("paramList").Parse(
	`{{if .HasContext}}ctx context.Context{{if .Params}}, {{end}}{{end}}` +
		`{{range $i, $p := .Params}}{{if $i}}, {{end}}{{$p.Name}} {{$p.Type}}{{end}}`))

var resultListTemplate = template.Must(template.New("resultList").Parse(
	`{{if .Result}}({{.Result}}, error){{else}}error{{end}}`))

func init() {
	template.Must(clientsTemplate.AddParseTree("paramList", paramListTemplate.Tree))
	template.Must(clientsTemplate.AddParseTree("resultList", resultListTemplate.Tree))
}

// RenderClients renders the generated clients file. The output is valid Go
// but not gofmt-clean; the generator formats it afterwards.
func RenderClients(data ClientsFileData) (string, error) {
	var buf bytes.Buffer
	err := clientsTemplate.Execute(&buf, struct {
		ClientsFileData
		Header string
	}{ClientsFileData: data, Header: Header})
	if err != nil {
		return "", fmt.Errorf("failed to render clients template: %w", err)
	}
	return buf.String(), nil
}
