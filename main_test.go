package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/hesusruiz/recipetex/recipe"
)

const teaDocument = `\section{Drinks}
\subsection{Tea}
\paragraph{Ingredients:}
\begin{itemize}
\item Water
\end{itemize}
\paragraph{Directions:}
\begin{itemize}
\item Boil
\end{itemize}
\subsection{}
`

// testApp returns the application with exits turned into returned errors.
func testApp(out *bytes.Buffer) *cli.App {
	app := newApp()
	app.Writer = out
	app.ErrWriter = out
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "recipes.tex")
	output := filepath.Join(dir, "recipes.json")
	require.NoError(t, os.WriteFile(input, []byte(teaDocument), 0664))

	var out bytes.Buffer
	err := testApp(&out).Run([]string{"recipetex", "extract", "--preamble", "0", input, output})
	require.NoError(t, err, "failed recipes do not make the command fail")

	c, err := recipe.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Count())

	// The block without a title is dumped for inspection
	assert.Contains(t, out.String(), `\subsection{}`)
}

func TestExtractCommandSettingsFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "recipes.tex")
	output := filepath.Join(dir, "recipes.json")
	config := filepath.Join(dir, "settings.yaml")

	require.NoError(t, os.WriteFile(input, []byte("% one line of preamble\n"+teaDocument), 0664))
	require.NoError(t, os.WriteFile(config, []byte("extract:\n  preamble: 1\n  input: "+input+"\n  output: "+output+"\n"), 0664))

	var out bytes.Buffer
	err := testApp(&out).Run([]string{"recipetex", "--config", config, "extract"})
	require.NoError(t, err)

	c, err := recipe.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Count())
}

func TestExtractCommandMissingInput(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	err := testApp(&out).Run([]string{"recipetex", "extract", filepath.Join(dir, "missing.tex"), filepath.Join(dir, "out.json")})
	require.Error(t, err)

	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
}

func TestGenerateCommandArity(t *testing.T) {
	tests := [][]string{
		{},
		{"recipes.json"},
		{"recipes.json", "template.tex"},
		{"recipes.json", "template.tex", "out.tex", "extra"},
	}
	for _, args := range tests {
		var out bytes.Buffer
		err := testApp(&out).Run(append([]string{"recipetex", "generate"}, args...))
		require.Error(t, err)

		var exitErr cli.ExitCoder
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 1, exitErr.ExitCode())
		assert.Contains(t, err.Error(), "Usage: recipetex generate")
	}
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	jsonFile := filepath.Join(dir, "recipes.json")
	templateFile := filepath.Join(dir, "template.tex")
	outFile := filepath.Join(dir, "out.tex")

	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"Drinks": {"Tea": {"ingredients": ["Water"], "steps": ["Boil"], "notes": []}}}`), 0664))
	require.NoError(t, os.WriteFile(templateFile, []byte(`((* range .Data.Sections *))\section{((( .Title )))}((* end *))`), 0664))

	var out bytes.Buffer
	require.NoError(t, testApp(&out).Run([]string{"recipetex", "generate", jsonFile, templateFile, outFile}))

	got, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, `\section{Drinks}`, string(got))
}

func TestExtractCommandBadSettings(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(config, []byte("extract:\n  preamble: lots\n"), 0664))

	var out bytes.Buffer
	err := testApp(&out).Run([]string{"recipetex", "--config", config, "extract", filepath.Join(dir, "in.tex"), filepath.Join(dir, "out.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract.preamble")
}
