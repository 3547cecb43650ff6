package recipe

import (
	"fmt"

	"github.com/pkg/errors"
)

// Severity of a Diagnostic
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Diagnostic is a message produced while parsing. Error diagnostics go
// together with a dropped recipe; the others only report data quality.
type Diagnostic struct {
	Severity Severity
	Recipe   string // title of the recipe, empty when it could not be read
	Line     int    // 1-based source line, 0 when not tied to a line
	Message  string

	// Block holds the source of a recipe that could not be parsed at all,
	// so it can be shown to the user.
	Block string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", d.Severity, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Hard parse failures returned by ParseBlock
var (
	ErrNoTitle       = errors.New("no title")
	ErrNoStructure   = errors.New("no matching structure")
	ErrGroupMismatch = errors.New("unmatched direction groups")
)

// diagnostics accumulates the messages for one recipe block.
type diagnostics struct {
	title string
	list  []Diagnostic
}

func (d *diagnostics) add(sev Severity, line int, format string, args ...any) {
	d.list = append(d.list, Diagnostic{
		Severity: sev,
		Recipe:   d.title,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (d *diagnostics) info(line int, format string, args ...any) {
	d.add(Info, line, format, args...)
}

func (d *diagnostics) warn(line int, format string, args ...any) {
	d.add(Warning, line, format, args...)
}

func (d *diagnostics) fail(line int, format string, args ...any) {
	d.add(Error, line, format, args...)
}
