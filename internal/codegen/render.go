package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

var templateFuncs = template.FuncMap{
	"lower":   strings.ToLower,
	"qualify": qualify,
}

// Render executes the artifact's template against data and applies its formatter
func Render(spec ArtifactSpec, data TemplateData) ([]byte, error) {
	tmpl, err := template.New(spec.Kind.String()).Funcs(templateFuncs).Option("missingkey=error").Parse(spec.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", spec.Kind, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s template: %w", spec.Kind, err)
	}

	out := buf.Bytes()
	if spec.Format != nil {
		out, err = spec.Format(out)
		if err != nil {
			return nil, fmt.Errorf("failed to format %s: %w", spec.Kind, err)
		}
	}
	return out, nil
}

// qualify refers to name, declared in to, from code living in from
func qualify(from, to Package, name string) string {
	if from.Same(to) || to.Name == "" {
		return name
	}
	return to.Name + "." + name
}
