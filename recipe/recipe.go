// Package recipe extracts recipe records from a LaTeX recipe collection.
//
// A collection is organised in sections (\section) holding recipes
// (\subsection). Each recipe has \paragraph headings for its ingredients,
// directions and notes, each followed by an itemize list. Recipes whose
// headings carry a group name, like "Ingredients (Sauce):", are parsed as
// grouped (advanced) recipes.
package recipe

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind tells apart recipes with flat ingredient and step lists from recipes
// where both are split into named groups.
type Kind int

const (
	Simple Kind = iota
	Advanced
)

func (k Kind) String() string {
	if k == Advanced {
		return "advanced"
	}
	return "simple"
}

// MainGroup is the group name given to an ungrouped directions list in a
// recipe whose ingredients are grouped.
const MainGroup = "Main"

// GroupMap maps a group name to its items, in the order groups were found.
type GroupMap = orderedmap.OrderedMap[string, []string]

func newGroupMap() *GroupMap {
	return orderedmap.New[string, []string]()
}

// Recipe is a single parsed recipe. It is built once by the parser and not
// modified afterwards.
type Recipe struct {
	Title string
	Kind  Kind

	// Used by Simple recipes
	Ingredients []string
	Steps       []string

	// Used by Advanced recipes
	IngredientGroups *GroupMap
	StepGroups       *GroupMap

	Notes []string
}

// Group is a view of one named group of an Advanced recipe.
type Group struct {
	Name           string
	Ingredients    []string
	Steps          []string
	HasIngredients bool
	HasSteps       bool
}

// Advanced reports whether the recipe uses grouped ingredients and steps.
func (r *Recipe) Advanced() bool {
	return r.Kind == Advanced
}

// Groups returns the groups of an Advanced recipe. Ingredient groups come
// first in their order, followed by groups that only have steps.
func (r *Recipe) Groups() []Group {
	if r.Kind != Advanced {
		return nil
	}

	groups := []Group{}
	index := map[string]int{}

	if r.IngredientGroups != nil {
		for pair := r.IngredientGroups.Oldest(); pair != nil; pair = pair.Next() {
			index[pair.Key] = len(groups)
			groups = append(groups, Group{Name: pair.Key, Ingredients: pair.Value, HasIngredients: true})
		}
	}

	if r.StepGroups != nil {
		for pair := r.StepGroups.Oldest(); pair != nil; pair = pair.Next() {
			i, ok := index[pair.Key]
			if !ok {
				i = len(groups)
				index[pair.Key] = i
				groups = append(groups, Group{Name: pair.Key})
			}
			groups[i].Steps = pair.Value
			groups[i].HasSteps = true
		}
	}

	return groups
}

type simpleRecord struct {
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Notes       []string `json:"notes"`
}

type advancedRecord struct {
	Ingredients groupObject `json:"ingredients"`
	Steps       groupObject `json:"steps"`
	Notes       []string    `json:"notes"`
}

// groupObject encodes a GroupMap as an object in group order.
type groupObject struct {
	groups *GroupMap
}

func (g groupObject) MarshalJSON() ([]byte, error) {
	return marshalObject(g.groups)
}

// MarshalJSON writes the record shape of the recipe. The title is not part
// of the record, it is the key of the record in its section.
func (r *Recipe) MarshalJSON() ([]byte, error) {
	if r.Kind == Advanced {
		return marshalJSON(advancedRecord{
			Ingredients: groupObject{nonNilGroups(r.IngredientGroups)},
			Steps:       groupObject{nonNilGroups(r.StepGroups)},
			Notes:       nonNil(r.Notes),
		})
	}
	return marshalJSON(simpleRecord{
		Ingredients: nonNil(r.Ingredients),
		Steps:       nonNil(r.Steps),
		Notes:       nonNil(r.Notes),
	})
}

// UnmarshalJSON decodes a record. Arrays of ingredients and steps make a
// Simple recipe, objects make an Advanced one.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var raw struct {
		Ingredients json.RawMessage `json:"ingredients"`
		Steps       json.RawMessage `json:"steps"`
		Notes       []string        `json:"notes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ingredientsGrouped := isObject(raw.Ingredients)
	stepsGrouped := isObject(raw.Steps)
	if ingredientsGrouped != stepsGrouped {
		return errors.New("ingredients and steps must both be lists or both be groups")
	}

	r.Notes = nonNil(raw.Notes)

	if ingredientsGrouped {
		r.Kind = Advanced
		r.IngredientGroups = newGroupMap()
		r.StepGroups = newGroupMap()
		if err := json.Unmarshal(raw.Ingredients, r.IngredientGroups); err != nil {
			return errors.Wrap(err, "ingredients")
		}
		if err := json.Unmarshal(raw.Steps, r.StepGroups); err != nil {
			return errors.Wrap(err, "steps")
		}
		for pair := r.IngredientGroups.Oldest(); pair != nil; pair = pair.Next() {
			pair.Value = nonNil(pair.Value)
		}
		for pair := r.StepGroups.Oldest(); pair != nil; pair = pair.Next() {
			pair.Value = nonNil(pair.Value)
		}
		return nil
	}

	r.Kind = Simple
	if len(raw.Ingredients) > 0 {
		if err := json.Unmarshal(raw.Ingredients, &r.Ingredients); err != nil {
			return errors.Wrap(err, "ingredients")
		}
	}
	if len(raw.Steps) > 0 {
		if err := json.Unmarshal(raw.Steps, &r.Steps); err != nil {
			return errors.Wrap(err, "steps")
		}
	}
	r.Ingredients = nonNil(r.Ingredients)
	r.Steps = nonNil(r.Steps)

	return nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func nonNilGroups(m *GroupMap) *GroupMap {
	if m == nil {
		return newGroupMap()
	}
	return m
}
