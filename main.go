package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hesusruiz/recipetex/recipe"
	"github.com/hesusruiz/recipetex/render"
	"github.com/hesusruiz/recipetex/report"
)

const generateUsage = "Usage: recipetex generate <input_json> <template_file> <output_tex>"

// newLogger sets up the logging system
func newLogger(c *cli.Context) *zap.SugaredLogger {
	z, err := report.NewLogger(c.Bool("debug"))
	if err != nil {
		panic(err)
	}
	return z.Sugar()
}

// extract is the entry point of the extract command
func extract(c *cli.Context) error {

	sugar := newLogger(c)
	defer sugar.Sync()

	s, err := loadSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// Positional arguments override the defaults
	inputFileName := s.input
	outputFileName := s.output
	if c.Args().Len() > 0 {
		inputFileName = c.Args().Get(0)
	}
	if c.Args().Len() > 1 {
		outputFileName = c.Args().Get(1)
	}

	sugar.Debugw("extracting recipes", "input", inputFileName, "output", outputFileName, "preamble", s.preamble)

	res, err := recipe.ParseFile(inputFileName, recipe.Options{Preamble: s.preamble})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	var opts []report.Option
	if s.color {
		opts = append(opts, report.WithColor(s.style))
	}
	printer := report.NewPrinter(sugar, c.App.Writer, opts...)
	printer.Diagnostics(res.Diagnostics)

	// The JSON is written even when some recipes could not be parsed
	if err := res.Collection.WriteFile(outputFileName); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if diagramFileName := c.String("diagram"); diagramFileName != "" {
		if err := writeDiagram(c.Context, res.Collection, diagramFileName); err != nil {
			sugar.Errorw("diagram not generated", "error", err)
		} else {
			sugar.Infof("Wrote diagram to %s", diagramFileName)
		}
	}

	printer.Summary(res, outputFileName)

	return nil
}

func writeDiagram(ctx context.Context, c *recipe.Collection, fileName string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	svg, err := recipe.RenderDiagram(ctx, c)
	if err != nil {
		return err
	}
	return os.WriteFile(fileName, svg, 0664)
}

// generate is the entry point of the generate command
func generate(c *cli.Context) error {

	if c.Args().Len() != 3 {
		return cli.Exit(generateUsage, 1)
	}

	sugar := newLogger(c)
	defer sugar.Sync()

	jsonFileName := c.Args().Get(0)
	templateFileName := c.Args().Get(1)
	outputFileName := c.Args().Get(2)

	sugar.Debugw("generating document", "input", jsonFileName, "template", templateFileName, "output", outputFileName)

	if err := render.File(jsonFileName, templateFileName, outputFileName); err != nil {
		sugar.Errorw("generation failed", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	sugar.Infof("%s generated.", outputFileName)
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "recipetex",
		Version:  "v0.1.0",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Jesus Ruiz",
				Email: "hesus.ruiz@gmail.com",
			},
		},
		Usage: "convert a LaTeX recipe collection to JSON and back",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read settings from YAML `FILE`",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "parse the recipes of a LaTeX document and write them as JSON",
				UsageText: "recipetex extract [options] [INPUT_FILE] [OUTPUT_FILE] (defaults are " + defaultInput + " and " + defaultOutput + ")",
				Action:    extract,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "preamble",
						Aliases: []string{"p"},
						Usage:   "number of template lines to skip at the top of the input",
						Value:   recipe.DefaultPreamble,
					},
					&cli.StringFlag{
						Name:  "diagram",
						Usage: "also write an SVG overview of the recipes to `FILE`",
					},
					&cli.BoolFlag{
						Name:  "color",
						Usage: "highlight the source of recipes that could not be parsed",
					},
				},
			},
			{
				Name:      "generate",
				Usage:     "render a JSON recipe collection with a LaTeX template",
				UsageText: generateUsage,
				Action:    generate,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
