package recipe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerReadUnread(t *testing.T) {
	sc := NewScanner(strings.NewReader("first\r\nsecond\n"))

	line := sc.ReadLine()
	require.NotNil(t, line)
	assert.Equal(t, Line{Num: 1, Text: "first"}, *line)

	sc.UnreadLine(line)
	again := sc.ReadLine()
	assert.Same(t, line, again)

	line = sc.ReadLine()
	require.NotNil(t, line)
	assert.Equal(t, Line{Num: 2, Text: "second"}, *line)

	assert.Nil(t, sc.ReadLine())
	assert.Nil(t, sc.ReadLine())
	assert.NoError(t, sc.Err())

	sc.UnreadLine(line)
	assert.Panics(t, func() { sc.UnreadLine(line) })
}

func TestCommandArg(t *testing.T) {
	tests := []struct {
		line     string
		cmd      string
		wantArg  string
		wantRest string
		wantOK   bool
	}{
		{line: `\section{Soups}`, cmd: cmdSection, wantArg: "Soups", wantOK: true},
		{line: `\section*{Soups}`, cmd: cmdSection, wantArg: "Soups", wantOK: true},
		{line: `\section[Short]{Long title}`, cmd: cmdSection, wantArg: "Long title", wantOK: true},
		{line: `\paragraph{Notes:} Keep cold`, cmd: cmdParagraph, wantArg: "Notes:", wantRest: " Keep cold", wantOK: true},
		{line: `\subsection{A {nested} title}`, cmd: cmdSubsection, wantArg: "A {nested} title", wantOK: true},
		{line: `\subsection{Braces \} and \{ escaped}`, cmd: cmdSubsection, wantArg: `Braces \} and \{ escaped`, wantOK: true},
		{line: `\subsection{Unbalanced {title`, cmd: cmdSubsection, wantArg: "Unbalanced {title", wantOK: true},
		{line: `\subsection`, cmd: cmdSubsection},
		{line: `\sectionmark{x}`, cmd: cmdSection},
		{line: `\subsection{x}`, cmd: cmdSection},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			arg, rest, ok := commandArg(tt.line, tt.cmd)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantArg, arg)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestItemText(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{line: `\item Water`, want: "Water", wantOK: true},
		{line: `\item   Two  spaces `, want: "Two  spaces", wantOK: true},
		{line: `\item`, want: "", wantOK: true},
		{line: `\itemsep0pt`},
		{line: `Water`},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := itemText(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitLists(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "no list", line: `\item Water`, want: []string{`\item Water`}},
		{name: "blank", line: "", want: []string{""}},
		{name: "opened on heading", line: `\paragraph{Ingredients:} \begin{itemize}`, want: []string{`\paragraph{Ingredients:}`, `\begin{itemize}`}},
		{name: "closed on item", line: `  \item Tea leaves \end{itemize}`, want: []string{`\item Tea leaves`, `\end{itemize}`}},
		{name: "whole list", line: `\begin{itemize} \item Water \end{itemize}`, want: []string{`\begin{itemize}`, `\item Water`, `\end{itemize}`}},
		{name: "options", line: `\begin{itemize}[noitemsep]`, want: []string{`\begin{itemize}`, `[noitemsep]`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLists([]Line{{Num: 7, Text: tt.line}})
			texts := []string{}
			for _, l := range got {
				assert.Equal(t, 7, l.Num)
				texts = append(texts, l.Text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}
