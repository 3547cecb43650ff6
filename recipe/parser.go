package recipe

import (
	"regexp"
	"sort"
	"strings"
)

// Block is the source of one recipe: from its \subsection line up to the
// next sub-heading, section or end of document.
type Block struct {
	Section string
	Lines   []Line
}

// String returns the source text of the block.
func (b Block) String() string {
	var sb strings.Builder
	for _, l := range b.Lines {
		sb.WriteString(l.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Scanner states, shared by the document segmentation and the block parser
type scanState int

const (
	stateOutsideRecipe scanState = iota
	stateInRecipe
	stateInList
)

type headingKind int

const (
	headingUnknown headingKind = iota
	headingIngredients
	headingDirections
	headingNotes
)

func (k headingKind) String() string {
	switch k {
	case headingIngredients:
		return "Ingredients"
	case headingDirections:
		return "Directions"
	case headingNotes:
		return "Notes"
	}
	return "unknown"
}

var reGroupedHeading = regexp.MustCompile(`^(Ingredients|Directions) \((.*)\):$`)

// heading is a \paragraph with the text and the itemize list that follow it.
type heading struct {
	label   string
	kind    headingKind
	group   string
	grouped bool
	line    int
	text    []Line
	list    *itemList
}

func newHeading(label string, line int) *heading {
	h := &heading{label: label, line: line}
	switch label {
	case "Ingredients:":
		h.kind = headingIngredients
	case "Directions:":
		h.kind = headingDirections
	case "Notes:":
		h.kind = headingNotes
	default:
		if m := reGroupedHeading.FindStringSubmatch(label); m != nil {
			h.grouped = true
			h.group = m[2]
			if m[1] == "Ingredients" {
				h.kind = headingIngredients
			} else {
				h.kind = headingDirections
			}
		}
	}
	return h
}

// multiline records a non-item line found right after an item line.
type multiline struct {
	previous Line
	offender Line
}

// itemList is an itemize environment.
type itemList struct {
	line       int
	markers    int // number of \item lines, including the ones without text
	items      []string
	multilines []multiline
}

// outline is the structure of a recipe block as seen by the scanner.
type outline struct {
	title    string
	headings []*heading
}

// scanBlock walks the lines of a block after its title, collecting the
// headings and their lists.
func scanBlock(lines []Line, diag *diagnostics) []*heading {
	var headings []*heading
	var current *heading
	var list *itemList
	var lastItem *Line
	depth := 0

	lines = splitLists(lines)

	state := stateInRecipe
	for i := range lines {
		line := lines[i]
		trimmed := strings.TrimSpace(line.Text)

		switch state {
		case stateInRecipe:
			switch {
			case hasCommand(trimmed, cmdParagraph):
				label, rest, ok := commandArg(trimmed, cmdParagraph)
				if !ok {
					diag.warn(line.Num, "Malformed paragraph heading '%s' in recipe '%s'", trimmed, diag.title)
					continue
				}
				current = newHeading(strings.TrimSpace(label), line.Num)
				headings = append(headings, current)
				if rest = strings.TrimSpace(rest); rest != "" {
					current.text = append(current.text, Line{Num: line.Num, Text: rest})
				}

			case hasCommand(trimmed, cmdBeginItemize):
				list = &itemList{line: line.Num}
				lastItem = nil
				depth = 1
				state = stateInList
				if current != nil && current.list == nil {
					current.list = list
				} else {
					diag.warn(line.Num, "Itemized list without a heading in recipe '%s'", diag.title)
				}

			case trimmed == "":

			default:
				if current != nil && current.list == nil {
					current.text = append(current.text, Line{Num: line.Num, Text: trimmed})
				}
			}

		case stateInList:
			switch {
			case hasCommand(trimmed, cmdEndItemize):
				depth--
				if depth == 0 {
					state = stateInRecipe
					list = nil
					continue
				}
				lastItem = nil

			case hasCommand(trimmed, cmdBeginItemize):
				// Nested lists are not items of the outer list
				if lastItem != nil {
					list.multilines = append(list.multilines, multiline{previous: *lastItem, offender: line})
					lastItem = nil
				}
				depth++

			case depth > 1:

			case trimmed == "":

			default:
				if text, ok := itemText(trimmed); ok {
					list.markers++
					if text != "" {
						list.items = append(list.items, text)
					}
					lastItem = &lines[i]
					continue
				}
				if lastItem != nil {
					list.multilines = append(list.multilines, multiline{previous: *lastItem, offender: line})
					lastItem = nil
				}
			}
		}
	}

	if state == stateInList {
		diag.warn(list.line, "Unterminated itemized list in recipe '%s'", diag.title)
	}

	return headings
}

func (l *itemList) report(diag *diagnostics) {
	for _, m := range l.multilines {
		diag.warn(m.offender.Num, "Multiline item detected in recipe '%s' near line: %s\n       -> %s",
			diag.title, strings.TrimSpace(m.previous.Text), strings.TrimSpace(m.offender.Text))
	}
}

// ParseBlock converts one recipe block into a Recipe.
// The returned diagnostics are produced in every case. A non-nil error means
// the block could not be converted; in that case the diagnostics end with an
// Error entry describing why.
func ParseBlock(block Block) (*Recipe, []Diagnostic, error) {
	diag := &diagnostics{}

	if len(block.Lines) == 0 {
		diag.fail(0, "Can't parse recipe (no title)")
		return nil, diag.list, ErrNoTitle
	}

	first := block.Lines[0]
	title, _, ok := commandArg(strings.TrimSpace(first.Text), cmdSubsection)
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		diag.list = append(diag.list, Diagnostic{
			Severity: Error,
			Line:     first.Num,
			Message:  "Can't parse recipe (no title)",
			Block:    block.String(),
		})
		return nil, diag.list, ErrNoTitle
	}
	diag.title = title

	o := &outline{title: title, headings: scanBlock(block.Lines[1:], diag)}

	o.warnUnrecognized(diag)
	notes := o.notes(diag)

	var r *Recipe
	var err error
	if o.advanced() {
		r, err = o.parseAdvanced(diag)
	} else {
		r, err = o.parseSimple(diag)
	}
	if err != nil {
		return nil, diag.list, err
	}

	r.Title = title
	r.Notes = notes
	return r, diag.list, nil
}

func (o *outline) warnUnrecognized(diag *diagnostics) {
	for _, h := range o.headings {
		if h.kind == headingUnknown {
			diag.warn(h.line, "Unrecognized paragraph '{%s}' in recipe '%s'", h.label, o.title)
		}
	}
}

// notes collects the notes of every Notes: heading. A list after the heading
// wins over free text.
func (o *outline) notes(diag *diagnostics) []string {
	notes := []string{}
	for _, h := range o.headings {
		if h.kind != headingNotes {
			continue
		}

		found := 0
		if h.list != nil {
			notes = append(notes, h.list.items...)
			found = len(h.list.items)
		} else {
			for _, l := range h.text {
				if text := strings.TrimSpace(l.Text); text != "" {
					notes = append(notes, text)
					found++
				}
			}
		}

		if found == 0 {
			diag.warn(h.line, "Notes in recipe '%s' have no text", o.title)
		}
	}
	return notes
}

func (o *outline) advanced() bool {
	for _, h := range o.headings {
		if h.grouped {
			return true
		}
	}
	return false
}

func (o *outline) parseAdvanced(diag *diagnostics) (*Recipe, error) {
	ingredients := newGroupMap()
	steps := newGroupMap()

	var fallback []*heading
	for _, h := range o.headings {
		if !h.grouped {
			switch {
			case h.kind == headingDirections && h.list != nil:
				fallback = append(fallback, h)
			case h.kind == headingIngredients && h.list != nil:
				diag.warn(h.line, "Ungrouped Ingredients ignored in grouped recipe '%s'", o.title)
			}
			continue
		}

		if h.list == nil || h.list.markers == 0 {
			diag.info(h.line, "EMPTY BLOCK: %s group '%s' in recipe '%s' contains no \\item entries", h.kind, h.group, o.title)
			continue
		}

		h.list.report(diag)
		items := nonNil(h.list.items)

		target := ingredients
		if h.kind == headingDirections {
			target = steps
		}
		if _, present := target.Get(h.group); present {
			diag.warn(h.line, "Duplicate %s for group '%s' in '%s'", h.kind, h.group, o.title)
		}
		target.Set(h.group, items)
	}

	if len(fallback) == 1 && steps.Len() == 0 {
		h := fallback[0]
		h.list.report(diag)
		steps.Set(MainGroup, nonNil(h.list.items))
	}

	if steps.Len() > 1 && !sameKeys(ingredients, steps) {
		for _, key := range unionKeys(ingredients, steps) {
			if _, ok := ingredients.Get(key); !ok {
				diag.warn(0, "'%s' is missing Ingredients for group '%s'", o.title, key)
			}
			if _, ok := steps.Get(key); !ok {
				diag.warn(0, "'%s' is missing Directions for group '%s'", o.title, key)
			}
		}
		diag.fail(0, "Too many unmatched direction groups in '%s'", o.title)
		return nil, ErrGroupMismatch
	}

	for pair := steps.Oldest(); pair != nil; pair = pair.Next() {
		if len(pair.Value) == 0 {
			diag.warn(0, "'%s' has empty steps for group '%s'", o.title, pair.Key)
		}
	}

	return &Recipe{
		Kind:             Advanced,
		IngredientGroups: ingredients,
		StepGroups:       steps,
	}, nil
}

func (o *outline) parseSimple(diag *diagnostics) (*Recipe, error) {
	var ingredients, directions *heading
	for _, h := range o.headings {
		if h.list == nil {
			continue
		}
		switch h.kind {
		case headingIngredients:
			if ingredients != nil {
				diag.warn(h.line, "Duplicate Ingredients in '%s', keeping the first one", o.title)
				continue
			}
			ingredients = h
		case headingDirections:
			if directions != nil {
				diag.warn(h.line, "Duplicate Directions in '%s', keeping the first one", o.title)
				continue
			}
			directions = h
		}
	}

	if ingredients == nil || directions == nil {
		if ingredients == nil {
			diag.warn(0, "No itemized Ingredients in recipe '%s'", o.title)
		}
		if directions == nil {
			diag.warn(0, "No itemized Directions in recipe '%s'", o.title)
		}
		diag.fail(0, "Can't parse '%s' - no matching structure", o.title)
		return nil, ErrNoStructure
	}

	ingredients.list.report(diag)
	directions.list.report(diag)

	r := &Recipe{
		Kind:        Simple,
		Ingredients: nonNil(ingredients.list.items),
		Steps:       nonNil(directions.list.items),
	}

	if len(r.Ingredients) == 0 || len(r.Steps) == 0 {
		diag.warn(0, "Empty ingredients or directions in simple recipe '%s'", o.title)
	}

	return r, nil
}

func sameKeys(a, b *GroupMap) bool {
	if a.Len() != b.Len() {
		return false
	}
	for pair := a.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := b.Get(pair.Key); !ok {
			return false
		}
	}
	return true
}

func unionKeys(a, b *GroupMap) []string {
	seen := map[string]bool{}
	var keys []string
	for _, m := range []*GroupMap{a, b} {
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			if !seen[pair.Key] {
				seen[pair.Key] = true
				keys = append(keys, pair.Key)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
