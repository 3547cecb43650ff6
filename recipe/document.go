package recipe

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// DefaultPreamble is the number of template lines at the top of the
// recipe document that precede the first section.
const DefaultPreamble = 39

// Options for ParseDocument
type Options struct {
	// Number of leading lines to ignore
	Preamble int
}

// Result accumulates the outcome of parsing a whole document.
type Result struct {
	Collection  *Collection
	Parsed      int // recipes converted
	Failed      int // recipe blocks dropped with an error
	Diagnostics []Diagnostic
}

func newResult() *Result {
	return &Result{Collection: NewCollection()}
}

// record stores the outcome of one recipe block.
func (res *Result) record(block Block) {
	r, diags, err := ParseBlock(block)
	res.Diagnostics = append(res.Diagnostics, diags...)
	if err != nil {
		res.Failed++
		return
	}
	res.Parsed++
	res.Collection.Add(block.Section, r)
}

// ParseDocument splits the document in recipe blocks and parses each of them.
// Parse failures of single recipes are reported in the Result; the error is
// only set when the input can not be read.
func ParseDocument(r io.Reader, opts Options) (*Result, error) {
	res := newResult()
	sc := NewScanner(r)

	section := ""
	var block *Block

	// flush parses the open recipe block, if any
	flush := func() {
		if block == nil {
			return
		}
		if section == "" {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: Warning,
				Line:     block.Lines[0].Num,
				Message:  "Recipe found before any section, ignoring it",
			})
		} else {
			block.Section = section
			res.record(*block)
		}
		block = nil
	}

	state := stateOutsideRecipe

	for line := sc.ReadLine(); line != nil; line = sc.ReadLine() {
		if line.Num <= opts.Preamble {
			continue
		}

		trimmed := strings.TrimSpace(line.Text)

		if hasCommand(trimmed, cmdEndDocument) {
			flush()
			break
		}

		switch state {
		case stateOutsideRecipe:
			switch {
			case hasCommand(trimmed, cmdSection):
				if title, _, ok := commandArg(trimmed, cmdSection); ok {
					section = strings.TrimSpace(title)
				}
			case hasCommand(trimmed, cmdSubsection):
				block = &Block{Lines: []Line{*line}}
				state = stateInRecipe
			}

		case stateInRecipe:
			if hasCommand(trimmed, cmdSection) || hasCommand(trimmed, cmdSubsection) {
				// The heading ends this recipe; handle it again outside of it
				flush()
				sc.UnreadLine(line)
				state = stateOutsideRecipe
				continue
			}
			block.Lines = append(block.Lines, *line)
		}
	}

	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading document")
	}

	flush()

	return res, nil
}

// ParseFile reads and parses the recipe document in fileName.
func ParseFile(fileName string, opts Options) (*Result, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", fileName)
	}
	defer file.Close()

	return ParseDocument(file, opts)
}
