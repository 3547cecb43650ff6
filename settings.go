package main

import (
	"strconv"

	"github.com/hesusruiz/vcutils/yaml"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/hesusruiz/recipetex/recipe"
	"github.com/hesusruiz/recipetex/report"
)

// Default file names of the extract command
const (
	defaultInput  = "recipes_out.tex"
	defaultOutput = "recipes_out.json"
)

// settings of a run. Command line flags win over the settings file, which
// wins over the built-in defaults.
type settings struct {
	preamble int
	input    string
	output   string
	style    string
	color    bool
}

// loadSettings reads the optional YAML settings file, like:
//
//	extract:
//	  preamble: 39
//	  input: recipes_out.tex
//	  output: recipes_out.json
//	report:
//	  color: true
//	  style: monokai
func loadSettings(c *cli.Context) (*settings, error) {
	var config *yaml.YAML
	var err error

	if fileName := c.String("config"); len(fileName) > 0 {
		config, err = yaml.ParseYamlFile(fileName)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed settings file %s", fileName)
		}
	} else {
		config, _ = yaml.ParseYaml("")
	}

	preamble, err := preambleSetting(config)
	if err != nil {
		return nil, err
	}

	s := &settings{
		preamble: preamble,
		input:    config.String("extract.input", defaultInput),
		output:   config.String("extract.output", defaultOutput),
		style:    config.String("report.style", report.DefaultStyle),
		color:    config.Bool("report.color"),
	}

	if c.IsSet("preamble") {
		s.preamble = c.Int("preamble")
	}
	if c.IsSet("color") {
		s.color = c.Bool("color")
	}

	if s.preamble < 0 {
		return nil, errors.Errorf("preamble must not be negative, got %d", s.preamble)
	}

	return s, nil
}

// preambleSetting reads extract.preamble. The YAML decoder yields unsigned
// integers for plain numbers, so every numeric form is accepted here.
func preambleSetting(config *yaml.YAML) (int, error) {
	node, err := config.Get("extract.preamble")
	if err != nil || node == nil || node.Data() == nil {
		return recipe.DefaultPreamble, nil
	}

	switch v := node.Data().(type) {
	case uint64:
		return int(v), nil
	case int64:
		return int(v), nil
	case int:
		return v, nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, nil
		}
	}

	return 0, errors.Errorf("extract.preamble must be a number of lines, got %v", node.Data())
}
