// Package render regenerates a LaTeX recipe document from a JSON recipe
// collection and a template.
//
// Templates use Go template syntax with delimiters that do not clash with
// LaTeX braces: control statements are written ((* ... *)) and values are
// interpolated with ((( ... ))). Both forms are equivalent for the engine;
// the two spellings only help readers of the template.
//
//	((* range .Data.Sections -*))
//	\section{((( .Title )))}
//	((* end -*))
package render

import (
	"bytes"
	"os"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/hesusruiz/recipetex/recipe"
	"github.com/hesusruiz/recipetex/sliceedit"
)

// Template delimiters
const (
	BlockStart    = "((*"
	BlockEnd      = "*))"
	VariableStart = "((("
	VariableEnd   = ")))"
)

var funcs = template.FuncMap{
	"join": strings.Join,
	"inc": func(i int) int {
		return i + 1
	},
	// paren wraps s in parentheses. Writing "(" right before a value
	// delimiter would otherwise be read as part of the delimiter.
	"paren": func(s string) string {
		return "(" + s + ")"
	},
}

// Data is the value templates are executed with.
type Data struct {
	Data *recipe.Collection
}

// normalize rewrites control-block delimiters into value delimiters, the
// only pair the template engine knows about.
func normalize(src []byte) string {
	b := sliceedit.NewBuffer(src)
	b.ReplaceAllString(BlockStart, VariableStart)
	b.ReplaceAllString(BlockEnd, VariableEnd)
	return b.String()
}

// Parse compiles a template.
func Parse(name string, src []byte) (*template.Template, error) {
	t, err := template.New(name).
		Delims(VariableStart, VariableEnd).
		Funcs(funcs).
		Option("missingkey=error").
		Parse(normalize(src))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing template %s", name)
	}
	return t, nil
}

// Render executes the template source with the collection as data.
// It has no side effects.
func Render(c *recipe.Collection, name string, src []byte) ([]byte, error) {
	t, err := Parse(name, src)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := t.Execute(&out, Data{Data: c}); err != nil {
		return nil, errors.Wrapf(err, "executing template %s", name)
	}
	return out.Bytes(), nil
}

// File reads the JSON collection in jsonFile, validates it, renders it with
// the template in templateFile and writes the result to outFile.
// Relative template paths are resolved from the working directory.
func File(jsonFile string, templateFile string, outFile string) error {

	data, err := os.ReadFile(jsonFile)
	if err != nil {
		return errors.Wrapf(err, "reading %s", jsonFile)
	}
	if err := recipe.ValidateJSON(data); err != nil {
		return errors.Wrapf(err, "validating %s", jsonFile)
	}
	c, err := recipe.Decode(data)
	if err != nil {
		return errors.Wrapf(err, "loading %s", jsonFile)
	}

	src, err := os.ReadFile(templateFile)
	if err != nil {
		return errors.Wrapf(err, "reading template %s", templateFile)
	}

	out, err := Render(c, templateFile, src)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outFile, out, 0664); err != nil {
		return errors.Wrapf(err, "writing %s", outFile)
	}
	return nil
}
