package recipe

import (
	"bufio"
	"io"
	"strings"
)

// Markup tokens recognised by the scanner
const (
	cmdSection       = `\section`
	cmdSubsection    = `\subsection`
	cmdParagraph     = `\paragraph`
	cmdBeginItemize  = `\begin{itemize}`
	cmdEndItemize    = `\end{itemize}`
	cmdEndDocument   = `\end{document}`
	itemMarker       = `\item`
	maxLineSizeBytes = 1024 * 1024
)

// Line is one source line and its 1-based line number.
type Line struct {
	Num  int
	Text string
}

// Scanner reads lines from the source document.
// It supports one-level backtracking, with the UnreadLine method.
type Scanner struct {
	s        *bufio.Scanner
	buffered *Line
	lineNum  int
	atEOF    bool
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSizeBytes)
	return &Scanner{s: s}
}

// ReadLine returns the next line, or nil when the input is exhausted.
func (sc *Scanner) ReadLine() *Line {

	// If there is a line alredy buffered, return it
	if sc.buffered != nil {
		line := sc.buffered
		sc.buffered = nil
		return line
	}

	if sc.atEOF {
		return nil
	}

	if !sc.s.Scan() {
		sc.atEOF = true
		return nil
	}

	sc.lineNum++
	return &Line{Num: sc.lineNum, Text: strings.TrimRight(sc.s.Text(), "\r")}
}

// UnreadLine pushes back a line so the next ReadLine returns it again.
func (sc *Scanner) UnreadLine(line *Line) {
	if sc.buffered != nil {
		panic("UnreadLine: a line is already buffered")
	}
	sc.buffered = line
}

// Err returns the first read error, if any.
func (sc *Scanner) Err() error {
	return sc.s.Err()
}

// hasCommand reports whether the trimmed line starts with the LaTeX command
// cmd, and not with a longer command that has cmd as prefix.
func hasCommand(line string, cmd string) bool {
	if !strings.HasPrefix(line, cmd) {
		return false
	}
	if len(line) == len(cmd) {
		return true
	}
	return !isLetter(line[len(cmd)])
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// commandArg returns the mandatory argument of cmd at the start of line,
// skipping a star and an optional [..] argument. Braces inside the argument
// are balanced, and escaped braces are kept as text. An unbalanced argument
// runs to the end of the line. rest is what follows the closing brace.
func commandArg(line string, cmd string) (arg string, rest string, ok bool) {
	if !hasCommand(line, cmd) {
		return "", "", false
	}

	s := strings.TrimLeft(line[len(cmd):], " \t")
	s = strings.TrimPrefix(s, "*")
	s = strings.TrimLeft(s, " \t")

	if strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end == -1 {
			return "", "", false
		}
		s = strings.TrimLeft(s[end+1:], " \t")
	}

	if !strings.HasPrefix(s, "{") {
		return "", "", false
	}
	s = s[1:]

	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			// Skip the escaped character
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}

	return s, "", true
}

// itemText reports whether the trimmed line is an itemize entry and returns
// its text. The marker and the separator character after it are consumed.
func itemText(line string) (string, bool) {
	if !hasCommand(line, itemMarker) {
		return "", false
	}
	rest := line[len(itemMarker):]
	if len(rest) > 0 {
		rest = rest[1:]
	}
	return strings.TrimSpace(rest), true
}

// splitLists gives every \begin{itemize} and \end{itemize} a line of its
// own, so lists opened on a heading line or closed on an item line are seen
// like any other list. The pieces keep the number of their source line.
func splitLists(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		at, cmd := nextListCommand(l.Text)
		if at < 0 {
			out = append(out, l)
			continue
		}

		text := l.Text
		for ; at >= 0; at, cmd = nextListCommand(text) {
			if head := strings.TrimSpace(text[:at]); head != "" {
				out = append(out, Line{Num: l.Num, Text: head})
			}
			out = append(out, Line{Num: l.Num, Text: cmd})
			text = text[at+len(cmd):]
		}
		if tail := strings.TrimSpace(text); tail != "" {
			out = append(out, Line{Num: l.Num, Text: tail})
		}
	}
	return out
}

// nextListCommand returns the position of the first list boundary in text,
// or -1.
func nextListCommand(text string) (int, string) {
	at, cmd := strings.Index(text, cmdBeginItemize), cmdBeginItemize
	if end := strings.Index(text, cmdEndItemize); end >= 0 && (at < 0 || end < at) {
		at, cmd = end, cmdEndItemize
	}
	return at, cmd
}
