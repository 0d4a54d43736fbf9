// Package templates holds the text templates for the TypeScript artifacts
// splice generates outside of the per-file rewrites: the service container
// module and its ambient declarations.
package templates

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
)

// GeneratedHeader opens every generated artifact.
const GeneratedHeader = "// Code generated by splice. DO NOT EDIT.\n"

// ServiceName pairs a service id with the field it is exposed as.
type ServiceName struct {
	ID   string
	Name string
}

// AppModuleData feeds the "app-module" template.
type AppModuleData struct {
	Base         string   // module exporting Application
	Identifier   string   // generated class name
	Imports      []string // rendered import lines, in order
	ServiceNames []string // root fields, in construction order
	IDToName     []ServiceName
	Fields       []string // rendered class fields, in construction order
}

// ServicesDeclData feeds the "services-decl" template.
type ServicesDeclData struct {
	Identifier        string
	AppSource         string // virtual module the declarations are attached to
	ContainerModule   string
	ContainerServices []string
}

// AppModuleTemplate renders the service container class.
const AppModuleTemplate = GeneratedHeader + `
import { Application } from {{quote .Base}};
{{if .Imports}}
{{range .Imports}}{{.}}
{{end}}{{end}}
export default class {{.Identifier}} extends Application {
  protected serviceNames = [
{{- range $i, $n := .ServiceNames}}{{if $i}},{{end}}
    {{quote $n}}
{{- end}}
  ] as const;

  protected servicesIdToName = {
{{- range $i, $e := .IDToName}}{{if $i}},{{end}}
    {{quote $e.ID}}: {{quote $e.Name}}
{{- end}}
  } as const;
{{range .Fields}}
  {{.}}
{{- end}}
}
`

// ServicesDeclTemplate renders the ambient declarations exposing the
// container services on the virtual app module.
const ServicesDeclTemplate = GeneratedHeader + `
declare type {{.Identifier}} = import("./app").default;

declare module {{quote .AppSource}} {
  import { ApplicationContainer } from {{quote .ContainerModule}};

  const services: Pick<ApplicationContainer<{{.Identifier}}>, {{union .ContainerServices}}> & {{.Identifier}};

  export = services;
}
`

var funcMap = template.FuncMap{
	"quote": jsast.Quote,
	"union": union,
}

// union renders names as a TypeScript string-literal union.
func union(names []string) string {
	if len(names) == 0 {
		return "never"
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = jsast.Quote(n)
	}
	return strings.Join(quoted, " | ")
}

// executeTemplate executes a template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Funcs(funcMap).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return "", errors.WrapTemplateError(name, "parse", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}
	return buf.String(), nil
}

// ExecuteTemplate executes a template with the given data (exported version)
func ExecuteTemplate(name, templateStr string, data interface{}) (string, error) {
	return executeTemplate(name, templateStr, data)
}
