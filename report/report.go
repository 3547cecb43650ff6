// Package report prints parse diagnostics and run summaries.
package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hesusruiz/recipetex/recipe"
)

// DefaultStyle is the chroma style used to highlight dumped blocks.
const DefaultStyle = "monokai"

// levelEncoder writes the level names used by the recipe reports.
func levelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.WarnLevel:
		enc.AppendString("WARNING")
	default:
		enc.AppendString(l.CapitalString())
	}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeLevel:      levelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

// NewLogger builds the logger for the command line tool. The production
// logger writes plain console lines to stdout, without timestamps, so the
// parse report reads like a list of diagnostics.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    encoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return cfg.Build()
}

// Printer reports diagnostics through a logger. Source blocks attached to
// diagnostics are written to out, highlighted when color is enabled.
type Printer struct {
	log   *zap.SugaredLogger
	out   io.Writer
	color bool
	style string
}

// Option configures a Printer
type Option func(*Printer)

// WithColor enables highlighting of dumped blocks with the named chroma style.
func WithColor(style string) Option {
	return func(p *Printer) {
		p.color = true
		if style != "" {
			p.style = style
		}
	}
}

// NewPrinter returns a Printer logging to log and dumping blocks to out.
func NewPrinter(log *zap.SugaredLogger, out io.Writer, opts ...Option) *Printer {
	p := &Printer{
		log:   log,
		out:   out,
		style: DefaultStyle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Diagnostic prints one diagnostic at the level matching its severity.
func (p *Printer) Diagnostic(d recipe.Diagnostic) {
	var kv []any
	if d.Line > 0 {
		kv = append(kv, "line", d.Line)
	}

	switch d.Severity {
	case recipe.Info:
		p.log.Infow(d.Message, kv...)
	case recipe.Warning:
		p.log.Warnw(d.Message, kv...)
	default:
		p.log.Errorw(d.Message, kv...)
	}

	if d.Block != "" {
		if err := p.Dump(d.Block); err != nil {
			p.log.Warnw("could not print recipe source", "error", err)
		}
	}
}

// Diagnostics prints every diagnostic in order.
func (p *Printer) Diagnostics(list []recipe.Diagnostic) {
	for _, d := range list {
		p.Diagnostic(d)
	}
}

// Summary prints the totals of an extraction run.
func (p *Printer) Summary(res *recipe.Result, outputFileName string) {
	p.log.Infof("Finished parsing. Wrote structured JSON to %s", outputFileName)
	p.log.Infof("Number of recipes successfully parsed: %d", res.Parsed)
	p.log.Infof("Number of recipes that could not be parsed: %d", res.Failed)
}

// Dump writes the LaTeX source of a block, for inspection.
func (p *Printer) Dump(source string) error {
	if !p.color {
		_, err := io.WriteString(p.out, source)
		return err
	}

	// Determine lexer
	l := lexers.Get("tex")
	if l == nil {
		l = lexers.Analyse(source)
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	s := styles.Get(p.style)
	f := formatters.Get("terminal256")

	it, err := l.Tokenise(nil, source)
	if err != nil {
		return err
	}

	rb := &bytes.Buffer{}
	if err := f.Format(rb, s, it); err != nil {
		return err
	}
	_, err = fmt.Fprint(p.out, rb.String())
	return err
}
