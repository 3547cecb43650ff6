package recipe

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// DiagramSource describes the collection in the D2 language: one node per
// section linked to one node per recipe. Groups of advanced recipes are
// listed in the recipe label.
func DiagramSource(c *Collection) string {
	var sb strings.Builder

	sb.WriteString("direction: right\n")

	for i, s := range c.Sections() {
		sectionID := fmt.Sprintf("s%d", i)
		fmt.Fprintf(&sb, "%s: %s\n", sectionID, d2Quote(s.Title))

		for j, r := range s.Recipes() {
			recipeID := fmt.Sprintf("%s_r%d", sectionID, j)
			label := r.Title
			if r.Advanced() {
				names := []string{}
				for _, g := range r.Groups() {
					names = append(names, g.Name)
				}
				label = fmt.Sprintf("%s (%s)", r.Title, strings.Join(names, ", "))
			}
			fmt.Fprintf(&sb, "%s: %s\n", recipeID, d2Quote(label))
			fmt.Fprintf(&sb, "%s -> %s\n", sectionID, recipeID)
		}
	}

	return sb.String()
}

func d2Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// RenderDiagram renders the D2 description of the collection as SVG.
func RenderDiagram(ctx context.Context, c *Collection) ([]byte, error) {

	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, errors.Wrap(err, "creating text ruler")
	}

	defaultLayout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}
	diagram, _, err := d2lib.Compile(ctx, DiagramSource(c), &d2lib.CompileOptions{
		Layout: defaultLayout,
		Ruler:  ruler,
	})
	if err != nil {
		return nil, errors.Wrap(err, "compiling diagram")
	}

	body, err := d2svg.Render(diagram, &d2svg.RenderOpts{
		Pad:     d2svg.DEFAULT_PADDING,
		ThemeID: d2themescatalog.NeutralDefault.ID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "rendering diagram")
	}

	return body, nil
}
